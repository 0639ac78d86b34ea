package binstruct

import (
	"bytes"
	"reflect"
	"strconv"

	"github.com/wippyai/binstruct/bitfield"
	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/internal/bytebuf"
	"github.com/wippyai/binstruct/internal/types"
)

// ToBuffer encodes obj into a fresh zero-filled buffer of the static
// size. Dynamic fields splice in their actual bytes, so the result may
// be longer than Size.
func (s *Struct) ToBuffer(obj map[string]any) ([]byte, error) {
	buf := make([]byte, s.schema.StaticSize)
	buf, _, err := encodeStruct(s.schema, buf, 0, obj, nil, false)
	return buf, err
}

// EncodeInto updates a previously encoded buffer in place: only fields
// present in obj are written, everything else keeps its bytes. Dynamic
// splices may reallocate, so callers must use the returned slice.
func (s *Struct) EncodeInto(buf []byte, obj map[string]any) ([]byte, error) {
	buf, _, err := encodeStruct(s.schema, buf, 0, obj, nil, true)
	return buf, err
}

// encodeStruct writes obj's fields at base and reports the bytes the
// struct actually occupies. Fixed-size kinds write in place; dynamic
// kinds encode standalone and splice, pushing the surplus into the
// running delta so later fields land past the stretched content. With
// update set, the buffer already holds an encoding of this schema:
// dynamic splices replace a field's current extent instead of inserting
// at its zero-byte placeholder.
func encodeStruct(schema *types.CompiledSchema, buf []byte, base int, obj map[string]any, path []string, update bool) ([]byte, int, error) {
	if base+schema.StaticSize > len(buf) {
		return nil, 0, errors.OutOfBounds(errors.PhaseEncode, path, base+schema.StaticSize, len(buf))
	}
	if obj == nil {
		obj = map[string]any{}
	}

	known := make(map[string]struct{}, len(schema.Fields))
	for _, n := range schema.FieldNames() {
		known[n] = struct{}{}
	}
	for key := range obj {
		if _, ok := known[key]; !ok {
			return nil, 0, errors.FieldUnknown(errors.PhaseEncode, path, key)
		}
	}

	delta := 0

	for _, f := range schema.Fields {
		d := f.Desc
		abs := base + d.ByteOffset + delta
		fpath := childPath(path, f.Name)

		switch d.Kind {
		case types.KindPrim:
			v, ok := obj[f.Name]
			if !ok {
				break
			}
			if d.ArraySize > 0 {
				if err := writePrimArray(buf, abs, d, v, fpath); err != nil {
					return nil, 0, err
				}
				break
			}
			if _, err := writePrim(buf, abs, d.Prim, v, fpath); err != nil {
				return nil, 0, err
			}

		case types.KindBits:
			var err error
			buf, err = encodeBitGroup(buf, abs, d, obj, path)
			if err != nil {
				return nil, 0, err
			}

		case types.KindString:
			var err error
			buf, delta, err = encodeString(buf, abs, delta, d, obj, f.Name, fpath, update)
			if err != nil {
				return nil, 0, err
			}

		case types.KindStruct:
			if d.ArraySize > 0 {
				elems, err := structArrayValue(obj[f.Name], d.ArraySize, fpath)
				if err != nil {
					return nil, 0, err
				}
				for i := 0; i < d.ArraySize; i++ {
					elemAbs := base + d.ByteOffset + i*d.Child.StaticSize + delta
					var actual int
					buf, actual, err = encodeChild(d.Child, buf, elemAbs, elems[i], elemPath(fpath, i), update)
					if err != nil {
						return nil, 0, err
					}
					delta += actual - d.Child.StaticSize
				}
				break
			}
			childObj, err := structValue(obj[f.Name], fpath)
			if err != nil {
				return nil, 0, err
			}
			var actual int
			buf, actual, err = encodeChild(d.Child, buf, abs, childObj, fpath, update)
			if err != nil {
				return nil, 0, err
			}
			delta += actual - d.Child.StaticSize

		case types.KindUnion:
			v, ok := obj[f.Name]
			if !ok {
				break
			}
			vmap, isMap := v.(map[string]any)
			if !isMap {
				return nil, 0, errors.TypeMismatch(errors.PhaseEncode, fpath, typeName(v), "union")
			}
			if abs < 0 || abs+d.ByteSize > len(buf) {
				return nil, 0, errors.OutOfBounds(errors.PhaseEncode, fpath, abs+d.ByteSize, len(buf))
			}
			if err := encodeUnion(buf, abs, d.ByteSize, d.Members, vmap, fpath); err != nil {
				return nil, 0, err
			}
		}
	}

	return buf, schema.StaticSize + delta, nil
}

// encodeChild writes a nested struct. Fixed children encode straight
// into the parent's buffer; dynamic children encode standalone first,
// then splice over their declared placeholder region. On the update
// path the child's current extent is measured first, so the splice
// replaces the existing encoding and absent inner fields keep their
// bytes.
func encodeChild(child *types.CompiledSchema, buf []byte, abs int, obj map[string]any, path []string, update bool) ([]byte, int, error) {
	if !child.Dynamic {
		return encodeStruct(child, buf, abs, obj, path, update)
	}

	current := child.StaticSize
	var tmp []byte
	if update {
		_, consumed, err := decodeStruct(child, buf, abs, path)
		if err != nil {
			return nil, 0, err
		}
		current = consumed
		tmp = make([]byte, current)
		copy(tmp, buf[abs:abs+current])
	} else {
		tmp = make([]byte, child.StaticSize)
	}

	tmp, actual, err := encodeStruct(child, tmp, 0, obj, path, update)
	if err != nil {
		return nil, 0, err
	}
	if abs < 0 || abs+current > len(buf) {
		return nil, 0, errors.OutOfBounds(errors.PhaseEncode, path, abs+current, len(buf))
	}
	buf = bytebuf.Splice(buf, abs, current, tmp)
	return buf, actual, nil
}

func encodeBitGroup(buf []byte, abs int, d *types.Descriptor, obj map[string]any, path []string) ([]byte, error) {
	if abs < 0 || abs+d.ByteSize > len(buf) {
		return nil, errors.OutOfBounds(errors.PhaseEncode, path, abs+d.ByteSize, len(buf))
	}

	// Seed from the existing bytes so absent slots keep their bits.
	bf := bitfield.New(d.ByteSize)
	if err := bf.SetData(buf[abs : abs+d.ByteSize]); err != nil {
		return nil, err
	}

	for _, slot := range d.Slots {
		v, ok := obj[slot.Name]
		if !ok {
			continue
		}
		spath := childPath(path, slot.Name)
		u, okNum := coerceUint(v, 64)
		if !okNum {
			if !isNumeric(v) {
				return nil, errors.TypeMismatch(errors.PhaseEncode, spath, typeName(v), "bitfield")
			}
			return nil, errors.Range(errors.PhaseEncode, spath, v, "bitfield")
		}
		if slot.Size < 64 && u > 1<<slot.Size-1 {
			return nil, errors.Range(errors.PhaseEncode, spath, v, "bitfield:"+strconv.Itoa(slot.Size))
		}
		if err := bf.PackValue(slot.Pos, slot.Size, u); err != nil {
			return nil, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "bit slot "+slot.Name)
		}
	}

	copy(buf[abs:abs+d.ByteSize], bf.GetData())
	return buf, nil
}

func encodeString(buf []byte, abs, delta int, d *types.Descriptor, obj map[string]any, name string, path []string, update bool) ([]byte, int, error) {
	v, present := obj[name]
	if v == nil {
		present = false
	}
	var raw []byte
	if present {
		var err error
		raw, err = stringBytes(v, path)
		if err != nil {
			return nil, 0, err
		}
	}

	if d.Dynamic {
		if abs < 0 || abs > len(buf) {
			return nil, 0, errors.OutOfBounds(errors.PhaseEncode, path, abs, len(buf))
		}

		// On the update path the buffer already holds an encoded string
		// here; its extent runs to the terminator and the splice must
		// replace it, not insert in front of it.
		current := 0
		if update {
			idx := bytes.IndexByte(buf[abs:], 0)
			if idx < 0 {
				return nil, 0, errors.New(errors.PhaseEncode, errors.KindDecode).
					Path(path...).
					Detail("unterminated dynamic string in target buffer").
					Build()
			}
			current = idx + 1
		}

		if !present {
			if update {
				// Absent value keeps its bytes; later fields still sit
				// past the existing extent.
				return buf, delta + current, nil
			}
			// A fresh buffer needs the terminator to stay decodable.
			return bytebuf.Splice(buf, abs, 0, []byte{0}), delta + 1, nil
		}

		enc := make([]byte, len(raw)+1)
		copy(enc, raw)
		buf = bytebuf.Splice(buf, abs, current, enc)
		return buf, delta + len(enc), nil
	}

	if !present {
		return buf, delta, nil
	}
	if len(raw) > d.StrLen {
		return nil, 0, errors.Range(errors.PhaseEncode, path, len(raw), d.TypeName)
	}
	if abs < 0 || abs+d.StrLen > len(buf) {
		return nil, 0, errors.OutOfBounds(errors.PhaseEncode, path, abs+d.StrLen, len(buf))
	}
	n := copy(buf[abs:abs+d.StrLen], raw)
	for i := abs + n; i < abs+d.StrLen; i++ {
		buf[i] = 0
	}
	return buf, delta, nil
}

func writePrimArray(buf []byte, abs int, d *types.Descriptor, v any, path []string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), d.TypeName)
	}
	if rv.Len() > d.ArraySize {
		return errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			Path(path...).
			Detail("array length %d exceeds declared size %d", rv.Len(), d.ArraySize).
			Build()
	}
	w := d.Prim.Width()
	for i := 0; i < rv.Len(); i++ {
		if _, err := writePrim(buf, abs+i*w, d.Prim, rv.Index(i).Interface(), elemPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func structValue(v any, path []string) (map[string]any, error) {
	if v == nil {
		// Missing nested structs encode as empty objects; this keeps
		// array padding trivial.
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), "struct")
	}
	return m, nil
}

func structArrayValue(v any, n int, path []string) ([]map[string]any, error) {
	out := make([]map[string]any, n)
	if v == nil {
		return out, nil
	}

	switch arr := v.(type) {
	case []map[string]any:
		if len(arr) > n {
			return nil, errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
				Path(path...).
				Detail("array length %d exceeds declared size %d", len(arr), n).
				Build()
		}
		copy(out, arr)
		return out, nil
	case []any:
		if len(arr) > n {
			return nil, errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
				Path(path...).
				Detail("array length %d exceeds declared size %d", len(arr), n).
				Build()
		}
		for i, e := range arr {
			m, err := structValue(e, elemPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), "struct array")
	}
}

func stringBytes(v any, path []string) ([]byte, error) {
	switch s := v.(type) {
	case string:
		return []byte(s), nil
	case []byte:
		return s, nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), "string")
	}
}
