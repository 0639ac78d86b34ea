package layout

import (
	"github.com/wippyai/binstruct/internal/types"
)

// BitDecl is one raw bitfield declaration before grouping. Pos is the
// explicit bit position, or -1 when the position auto-increments.
type BitDecl struct {
	Name  string
	Width int // bit width of the declared integer type
	Size  int
	Pos   int
}

// Group is a maximal run of adjacent bitfields sharing byte storage.
type Group struct {
	Slots []types.BitSlot
	Width int // widest declared integer type in the group, in bits
	Bytes int // occupied bits rounded up to whole bytes
}

// BuildGroups merges adjacent bitfield declarations into byte-aligned
// groups. Positions auto-increment from 0 unless declared explicitly; a
// group closes once the next field's end would pass the bit width of
// its declared integer type.
func BuildGroups(decls []BitDecl) []Group {
	var groups []Group
	var cur *Group
	nextPos := 0
	maxEnd := 0

	flush := func() {
		if cur == nil {
			return
		}
		cur.Bytes = (maxEnd + 7) / 8
		groups = append(groups, *cur)
		cur = nil
	}

	for _, d := range decls {
		pos := d.Pos
		if pos < 0 {
			pos = nextPos
		}
		if cur != nil && pos+d.Size > d.Width {
			flush()
			nextPos = 0
			if d.Pos < 0 {
				pos = 0
			}
		}
		if cur == nil {
			cur = &Group{Width: d.Width}
			maxEnd = 0
		}
		if d.Width > cur.Width {
			cur.Width = d.Width
		}
		cur.Slots = append(cur.Slots, types.BitSlot{Name: d.Name, Pos: pos, Size: d.Size})
		if pos+d.Size > maxEnd {
			maxEnd = pos + d.Size
		}
		nextPos = pos + d.Size
	}
	flush()
	return groups
}

// Resolve assigns byte offsets and sizes in declaration order and
// returns the schema's static size and dynamic flag. Sizes of dynamic
// fields are their declared placeholders; the codec corrects them with
// a running delta at encode/decode time.
func Resolve(fields []types.PositionedField) (staticSize int, dynamic bool) {
	offset := 0
	for _, f := range fields {
		d := f.Desc
		d.ByteSize = sizeOf(d)
		d.ByteOffset = offset
		offset += d.ByteSize

		if d.Dynamic {
			dynamic = true
		}
		// Unions never shift later fields, but a dynamic member still
		// marks the schema dynamic (the flag is transitive).
		if d.Kind == types.KindUnion {
			for _, m := range d.Members {
				if m.Schema.Dynamic {
					dynamic = true
				}
			}
		}
	}
	return offset, dynamic
}

func sizeOf(d *types.Descriptor) int {
	switch d.Kind {
	case types.KindPrim:
		n := d.ArraySize
		if n == 0 {
			n = 1
		}
		return d.Prim.Width() * n
	case types.KindBits:
		// BuildGroups already sized the group; it is the single source.
		return d.ByteSize
	case types.KindString:
		return d.StrLen
	case types.KindStruct:
		n := d.ArraySize
		if n == 0 {
			n = 1
		}
		return d.Child.StaticSize * n
	case types.KindUnion:
		max := 0
		for _, m := range d.Members {
			if m.Schema.StaticSize > max {
				max = m.Schema.StaticSize
			}
		}
		return max
	default:
		return 0
	}
}
