package binstruct

import (
	"github.com/wippyai/binstruct/internal/types"
)

// Field declares one schema entry. Type is a keyword string
// ("UInt16LE", "UInt8[10]", "UInt8:4", "String[16]", "String"), an
// explicit Descriptor, a nested *Struct, or a *Union. Declaration order
// is load-bearing: it fixes both the binary layout and the order in
// which dynamic-size corrections re-base later fields.
type Field struct {
	Type any
	Name string
}

// F is shorthand for declaring a Field.
func F(name string, typ any) Field {
	return Field{Name: name, Type: typ}
}

// Descriptor is the explicit form of a type spec, for declarations the
// keyword syntax cannot express: pinned bit positions and struct arrays.
type Descriptor struct {
	// Type is a primitive keyword, a nested *Struct, or a *Union.
	Type any
	// BitSize > 0 declares a bitfield of that many bits; Type must then
	// be an integer keyword, whose width bounds the containing group.
	BitSize int
	// BitPosition pins the bit position inside the group. Nil positions
	// auto-increment from the previous field. Use BitPos.
	BitPosition *int
	// ArraySize declares a fixed-count array of Type.
	ArraySize int
}

// BitPos returns a pinned bit position for Descriptor.BitPosition.
func BitPos(p int) *int {
	return &p
}

// Struct is a compiled schema plus its codec. It is immutable and safe
// for concurrent use; every encode or decode call carries its own
// cursor state.
type Struct struct {
	schema *types.CompiledSchema
}

// NewStruct compiles the declared fields with the package compiler.
func NewStruct(fields ...Field) (*Struct, error) {
	return defaultCompiler().CompileStruct(fields...)
}

// Size returns the static byte size. Dynamic-length fields count at
// their declared placeholder size.
func (s *Struct) Size() int {
	return s.schema.StaticSize
}

// HasDynamicFields reports whether any field's encoded length is only
// known at encode/decode time.
func (s *Struct) HasDynamicFields() bool {
	return s.schema.Dynamic
}

// Schema exposes the compiled layout for tooling. Callers must treat it
// as read-only.
func (s *Struct) Schema() *CompiledSchema {
	return s.schema
}
