package types

// BitSlot is one named sub-byte field within a bit group. Pos is the
// absolute bit position inside the group's byte storage.
type BitSlot struct {
	Name string
	Pos  int
	Size int
}

// UnionMember overlays one interpretation at offset 0 of the shared
// union region. Schema always has exactly one field, named after the
// member.
type UnionMember struct {
	Schema *CompiledSchema
	Name   string
}

// Descriptor is the compiled, offset-resolved form of one declared
// field (or, for KindBits, one merged group of adjacent bitfields).
type Descriptor struct {
	Child    *CompiledSchema // KindStruct
	Members  []UnionMember   // KindUnion
	Slots    []BitSlot       // KindBits
	TypeName string          // declared keyword, kept for error messages

	ByteOffset int
	ByteSize   int // exact for fixed kinds, declared placeholder for dynamic ones
	ArraySize  int // >0 for primitive and struct arrays
	StrLen     int // KindString: declared length, 0 when dynamic
	GroupWidth int // KindBits: declared integer width in bits

	Prim    PrimType
	Kind    Kind
	Dynamic bool // encoded length known only at run time; contributes a size delta
}

// PositionedField pairs a declared name with its compiled descriptor.
// Bit groups carry their member names in Desc.Slots and leave Name empty.
type PositionedField struct {
	Desc *Descriptor
	Name string
}

// CompiledSchema is the reusable, immutable plan for one struct layout.
type CompiledSchema struct {
	Fields     []PositionedField
	StaticSize int
	Dynamic    bool
}

// FieldNames returns every addressable value name in declaration order,
// expanding bit groups into their slot names.
func (s *CompiledSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Desc.Kind == KindBits {
			for _, slot := range f.Desc.Slots {
				names = append(names, slot.Name)
			}
			continue
		}
		names = append(names, f.Name)
	}
	return names
}
