package bitfield

import (
	"github.com/wippyai/binstruct/errors"
)

// Bitfield is a fixed-capacity run of bits backed by a byte array.
// Capacity is fixed at construction: size bytes hold size*8 bits.
// Absolute bit b lives at data[b/8] bit (b%8), least significant first.
type Bitfield struct {
	data []byte
}

// FieldSpec names one sub-range of bits. Specs are applied in slice
// order, so overlapping ranges are legal and later specs win.
type FieldSpec struct {
	Name string
	Pos  int
	Size int
}

// New creates a zeroed bitfield of size bytes.
func New(size int) *Bitfield {
	return &Bitfield{data: make([]byte, size)}
}

// Size returns the capacity in bytes.
func (b *Bitfield) Size() int {
	return len(b.data)
}

// Bits returns the capacity in bits.
func (b *Bitfield) Bits() int {
	return len(b.data) * 8
}

// SetBit sets or clears the bit at pos. Out-of-range positions fail
// and leave the data unchanged.
func (b *Bitfield) SetBit(pos int, v bool) error {
	if pos < 0 || pos >= b.Bits() {
		return errors.OutOfBounds(errors.PhaseEncode, nil, pos, b.Bits())
	}
	if v {
		b.data[pos/8] |= 1 << (pos % 8)
	} else {
		b.data[pos/8] &^= 1 << (pos % 8)
	}
	return nil
}

// GetBit reports the bit at pos.
func (b *Bitfield) GetBit(pos int) (bool, error) {
	if pos < 0 || pos >= b.Bits() {
		return false, errors.OutOfBounds(errors.PhaseDecode, nil, pos, b.Bits())
	}
	return b.data[pos/8]&(1<<(pos%8)) != 0, nil
}

// SetData replaces the whole backing array. The length must match the
// declared capacity exactly.
func (b *Bitfield) SetData(data []byte) error {
	if len(data) != len(b.data) {
		return errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			Detail("data length %d does not match capacity %d", len(data), len(b.data)).
			Build()
	}
	copy(b.data, data)
	return nil
}

// GetData returns a copy of the backing array.
func (b *Bitfield) GetData() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// PackValue writes the low size bits of value starting at pos, most
// significant bit first: bit pos holds the field's top bit. Bits beyond
// size are ignored. The ordering is preserved across byte boundaries.
func (b *Bitfield) PackValue(pos, size int, value uint64) error {
	if pos < 0 || size <= 0 || pos+size > b.Bits() {
		return errors.OutOfBounds(errors.PhaseEncode, nil, pos+size-1, b.Bits())
	}
	for i := 0; i < size; i++ {
		bit := value>>(size-1-i)&1 == 1
		if err := b.SetBit(pos+i, bit); err != nil {
			return err
		}
	}
	return nil
}

// UnpackValue is the exact inverse of PackValue for values below 2^size.
func (b *Bitfield) UnpackValue(pos, size int) (uint64, error) {
	if pos < 0 || size <= 0 || pos+size > b.Bits() {
		return 0, errors.OutOfBounds(errors.PhaseDecode, nil, pos+size-1, b.Bits())
	}
	var v uint64
	for i := 0; i < size; i++ {
		bit, err := b.GetBit(pos + i)
		if err != nil {
			return 0, err
		}
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v, nil
}

// PackFields packs one value per spec, in spec order. Specs whose name
// has no value are skipped, leaving their bits untouched. A failing
// spec aborts the call; earlier specs stay written.
func (b *Bitfield) PackFields(specs []FieldSpec, values map[string]uint64) error {
	for _, s := range specs {
		v, ok := values[s.Name]
		if !ok {
			continue
		}
		if err := b.PackValue(s.Pos, s.Size, v); err != nil {
			return errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
				Path(s.Name).
				Cause(err).
				Detail("bit range %d:%d exceeds capacity", s.Pos, s.Size).
				Build()
		}
	}
	return nil
}

// UnpackFields unpacks every spec into a name-keyed map. Overlapping
// specs are legal; later specs win for duplicate names.
func (b *Bitfield) UnpackFields(specs []FieldSpec) (map[string]uint64, error) {
	out := make(map[string]uint64, len(specs))
	for _, s := range specs {
		v, err := b.UnpackValue(s.Pos, s.Size)
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
				Path(s.Name).
				Cause(err).
				Detail("bit range %d:%d exceeds capacity", s.Pos, s.Size).
				Build()
		}
		out[s.Name] = v
	}
	return out, nil
}

// PackFieldsByOrder assigns one bit per name, in declaration order.
func (b *Bitfield) PackFieldsByOrder(names []string, values map[string]bool) error {
	for i, name := range names {
		v, ok := values[name]
		if !ok {
			continue
		}
		if err := b.SetBit(i, v); err != nil {
			return err
		}
	}
	return nil
}

// UnpackFieldsByOrder reads one bit per name, in declaration order.
func (b *Bitfield) UnpackFieldsByOrder(names []string) (map[string]bool, error) {
	out := make(map[string]bool, len(names))
	for i, name := range names {
		v, err := b.GetBit(i)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
