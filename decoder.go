package binstruct

import (
	"bytes"
	"strconv"

	"github.com/wippyai/binstruct/bitfield"
	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/internal/bytebuf"
	"github.com/wippyai/binstruct/internal/types"
)

// ToObject decodes buf into a plain object. Every field must decode for
// an object to be returned; any failure aborts the whole call.
func (s *Struct) ToObject(buf []byte) (map[string]any, error) {
	obj, _, err := decodeStruct(s.schema, buf, 0, nil)
	return obj, err
}

// decodeStruct decodes one struct at base and reports the bytes it
// actually consumed: the static size plus every dynamic field's delta.
// The delta keeps later fields positioned when earlier ones stretch.
func decodeStruct(schema *types.CompiledSchema, buf []byte, base int, path []string) (map[string]any, int, error) {
	if base+schema.StaticSize > len(buf) {
		return nil, 0, errors.OutOfBounds(errors.PhaseDecode, path, base+schema.StaticSize, len(buf))
	}

	obj := make(map[string]any, len(schema.Fields))
	delta := 0

	for _, f := range schema.Fields {
		d := f.Desc
		abs := base + d.ByteOffset + delta
		fpath := childPath(path, f.Name)

		switch d.Kind {
		case types.KindPrim:
			if d.ArraySize > 0 {
				arr, err := readPrimArray(buf, abs, d.Prim, d.ArraySize, fpath)
				if err != nil {
					return nil, 0, err
				}
				obj[f.Name] = arr
				break
			}
			v, err := readPrim(buf, abs, d.Prim, fpath)
			if err != nil {
				return nil, 0, err
			}
			obj[f.Name] = v

		case types.KindBits:
			if abs < 0 || abs+d.ByteSize > len(buf) {
				return nil, 0, errors.OutOfBounds(errors.PhaseDecode, path, abs+d.ByteSize, len(buf))
			}
			bf := bitfield.New(d.ByteSize)
			if err := bf.SetData(buf[abs : abs+d.ByteSize]); err != nil {
				return nil, 0, err
			}
			for _, slot := range d.Slots {
				v, err := bf.UnpackValue(slot.Pos, slot.Size)
				if err != nil {
					return nil, 0, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "bit slot "+slot.Name)
				}
				obj[slot.Name] = v
			}

		case types.KindString:
			if d.Dynamic {
				if abs > len(buf) {
					return nil, 0, errors.OutOfBounds(errors.PhaseDecode, fpath, abs, len(buf))
				}
				idx := bytes.IndexByte(buf[abs:], 0)
				if idx < 0 {
					return nil, 0, errors.Malformed(fpath, "unterminated dynamic string")
				}
				obj[f.Name] = string(buf[abs : abs+idx])
				delta += idx + 1 // terminator included; declared placeholder is 0
				break
			}
			if abs < 0 || abs+d.StrLen > len(buf) {
				return nil, 0, errors.OutOfBounds(errors.PhaseDecode, fpath, abs+d.StrLen, len(buf))
			}
			obj[f.Name] = string(bytes.TrimRight(buf[abs:abs+d.StrLen], "\x00"))

		case types.KindStruct:
			if d.ArraySize > 0 {
				elems := make([]map[string]any, d.ArraySize)
				for i := 0; i < d.ArraySize; i++ {
					elemAbs := base + d.ByteOffset + i*d.Child.StaticSize + delta
					elem, actual, err := decodeStruct(d.Child, buf, elemAbs, elemPath(fpath, i))
					if err != nil {
						return nil, 0, err
					}
					elems[i] = elem
					delta += actual - d.Child.StaticSize
				}
				obj[f.Name] = elems
				break
			}
			child, actual, err := decodeStruct(d.Child, buf, abs, fpath)
			if err != nil {
				return nil, 0, err
			}
			obj[f.Name] = child
			delta += actual - d.Child.StaticSize

		case types.KindUnion:
			if abs < 0 || abs+d.ByteSize > len(buf) {
				return nil, 0, errors.OutOfBounds(errors.PhaseDecode, fpath, abs+d.ByteSize, len(buf))
			}
			// Member decoding is confined to the region view; a dynamic
			// member's internal delta never leaks into this struct.
			region := bytebuf.View(buf, abs, d.ByteSize)
			v, err := decodeUnion(d.Members, region, fpath)
			if err != nil {
				return nil, 0, err
			}
			obj[f.Name] = v
		}
	}

	return obj, schema.StaticSize + delta, nil
}

func readPrimArray(buf []byte, off int, p types.PrimType, n int, path []string) (any, error) {
	w := p.Width()
	if off < 0 || off+w*n > len(buf) {
		return nil, errors.OutOfBounds(errors.PhaseDecode, path, off+w*n, len(buf))
	}

	switch p {
	case types.PrimUInt8:
		out := make([]uint8, n)
		copy(out, buf[off:off+n])
		return out, nil
	case types.PrimInt8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(buf[off+i])
		}
		return out, nil
	}

	read := func(i int) (any, error) { return readPrim(buf, off+i*w, p, path) }
	switch {
	case p.Float() && w == 4:
		return readTyped[float32](n, read)
	case p.Float():
		return readTyped[float64](n, read)
	case p.Signed() && w == 2:
		return readTyped[int16](n, read)
	case p.Signed() && w == 4:
		return readTyped[int32](n, read)
	case p.Signed():
		return readTyped[int64](n, read)
	case w == 2:
		return readTyped[uint16](n, read)
	case w == 4:
		return readTyped[uint32](n, read)
	default:
		return readTyped[uint64](n, read)
	}
}

func readTyped[T any](n int, read func(int) (any, error)) (any, error) {
	out := make([]T, n)
	for i := 0; i < n; i++ {
		v, err := read(i)
		if err != nil {
			return nil, err
		}
		out[i] = v.(T)
	}
	return out, nil
}

func childPath(path []string, name string) []string {
	if name == "" {
		return path
	}
	np := make([]string, len(path)+1)
	copy(np, path)
	np[len(path)] = name
	return np
}

func elemPath(path []string, i int) []string {
	if len(path) == 0 {
		return path
	}
	np := make([]string, len(path))
	copy(np, path)
	np[len(np)-1] = np[len(np)-1] + "[" + strconv.Itoa(i) + "]"
	return np
}
