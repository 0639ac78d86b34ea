package binstruct

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/internal/types"
)

// readPrim decodes one fixed-width value at off. The returned value has
// the exact Go type for the declared width: uint8, int16, float32, etc.
// 64-bit integers come back as uint64/int64, so the full range survives
// without precision loss.
func readPrim(buf []byte, off int, p types.PrimType, path []string) (any, error) {
	w := p.Width()
	if off < 0 || off+w > len(buf) {
		return nil, errors.OutOfBounds(errors.PhaseDecode, path, off+w, len(buf))
	}
	var ord binary.ByteOrder = binary.LittleEndian
	if p.BigEndian() {
		ord = binary.BigEndian
	}

	switch p {
	case types.PrimInt8:
		return int8(buf[off]), nil
	case types.PrimUInt8:
		return buf[off], nil
	case types.PrimInt16LE, types.PrimInt16BE:
		return int16(ord.Uint16(buf[off:])), nil
	case types.PrimUInt16LE, types.PrimUInt16BE:
		return ord.Uint16(buf[off:]), nil
	case types.PrimInt32LE, types.PrimInt32BE:
		return int32(ord.Uint32(buf[off:])), nil
	case types.PrimUInt32LE, types.PrimUInt32BE:
		return ord.Uint32(buf[off:]), nil
	case types.PrimInt64LE, types.PrimInt64BE:
		return int64(ord.Uint64(buf[off:])), nil
	case types.PrimUInt64LE, types.PrimUInt64BE:
		return ord.Uint64(buf[off:]), nil
	case types.PrimFloat32LE, types.PrimFloat32BE:
		return math.Float32frombits(ord.Uint32(buf[off:])), nil
	case types.PrimFloat64LE, types.PrimFloat64BE:
		return math.Float64frombits(ord.Uint64(buf[off:])), nil
	default:
		return nil, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Path(path...).
			Detail("unknown primitive %d", p).
			Build()
	}
}

// writePrim encodes value at off and returns the bytes written. Any Go
// numeric type is accepted; a value outside the declared
// width/signedness fails with a range error.
func writePrim(buf []byte, off int, p types.PrimType, value any, path []string) (int, error) {
	w := p.Width()
	if off < 0 || off+w > len(buf) {
		return 0, errors.OutOfBounds(errors.PhaseEncode, path, off+w, len(buf))
	}
	var ord binary.ByteOrder = binary.LittleEndian
	if p.BigEndian() {
		ord = binary.BigEndian
	}

	if p.Float() {
		f, ok := coerceFloat(value)
		if !ok {
			return 0, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), p.String())
		}
		if w == 4 {
			ord.PutUint32(buf[off:], math.Float32bits(float32(f)))
		} else {
			ord.PutUint64(buf[off:], math.Float64bits(f))
		}
		return w, nil
	}

	if p.Signed() {
		i, ok := coerceInt(value, w*8)
		if !ok {
			if !isNumeric(value) {
				return 0, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), p.String())
			}
			return 0, errors.Range(errors.PhaseEncode, path, value, p.String())
		}
		switch w {
		case 1:
			buf[off] = byte(i)
		case 2:
			ord.PutUint16(buf[off:], uint16(i))
		case 4:
			ord.PutUint32(buf[off:], uint32(i))
		case 8:
			ord.PutUint64(buf[off:], uint64(i))
		}
		return w, nil
	}

	u, ok := coerceUint(value, w*8)
	if !ok {
		if !isNumeric(value) {
			return 0, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), p.String())
		}
		return 0, errors.Range(errors.PhaseEncode, path, value, p.String())
	}
	switch w {
	case 1:
		buf[off] = byte(u)
	case 2:
		ord.PutUint16(buf[off:], uint16(u))
	case 4:
		ord.PutUint32(buf[off:], uint32(u))
	case 8:
		ord.PutUint64(buf[off:], u)
	}
	return w, nil
}

// coerceUint converts any Go numeric to an unsigned value of the given
// bit width. Negative values, fractional floats, and overflow all fail.
func coerceUint(value any, bits int) (uint64, bool) {
	var u uint64
	switch v := value.(type) {
	case uint8:
		u = uint64(v)
	case uint16:
		u = uint64(v)
	case uint32:
		u = uint64(v)
	case uint64:
		u = v
	case uint:
		u = uint64(v)
	case int8:
		if v < 0 {
			return 0, false
		}
		u = uint64(v)
	case int16:
		if v < 0 {
			return 0, false
		}
		u = uint64(v)
	case int32:
		if v < 0 {
			return 0, false
		}
		u = uint64(v)
	case int64:
		if v < 0 {
			return 0, false
		}
		u = uint64(v)
	case int:
		if v < 0 {
			return 0, false
		}
		u = uint64(v)
	case float32:
		if v < 0 || v != float32(uint64(v)) {
			return 0, false
		}
		u = uint64(v)
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, false
		}
		u = uint64(v)
	default:
		return 0, false
	}
	if bits < 64 && u > 1<<bits-1 {
		return 0, false
	}
	return u, true
}

// coerceInt converts any Go numeric to a signed value of the given bit
// width.
func coerceInt(value any, bits int) (int64, bool) {
	var i int64
	switch v := value.(type) {
	case int8:
		i = int64(v)
	case int16:
		i = int64(v)
	case int32:
		i = int64(v)
	case int64:
		i = v
	case int:
		i = int64(v)
	case uint8:
		i = int64(v)
	case uint16:
		i = int64(v)
	case uint32:
		i = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		i = int64(v)
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		i = int64(v)
	case float32:
		if v != float32(int64(v)) {
			return 0, false
		}
		i = int64(v)
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		i = int64(v)
	default:
		return 0, false
	}
	if bits < 64 {
		min := int64(-1) << (bits - 1)
		max := int64(1)<<(bits-1) - 1
		if i < min || i > max {
			return 0, false
		}
	}
	return i, true
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint:
		return float64(v), true
	default:
		return 0, false
	}
}

func isNumeric(value any) bool {
	switch value.(type) {
	case int8, int16, int32, int64, int,
		uint8, uint16, uint32, uint64, uint,
		float32, float64:
		return true
	default:
		return false
	}
}

// typeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}
