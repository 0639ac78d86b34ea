package types

type Kind uint8

const (
	KindPrim Kind = iota
	KindBits
	KindString
	KindStruct
	KindUnion
)

var kindNames = [...]string{
	KindPrim:   "primitive",
	KindBits:   "bitfield",
	KindString: "string",
	KindStruct: "struct",
	KindUnion:  "union",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// PrimType identifies a fixed-width primitive together with its byte order.
type PrimType uint8

const (
	PrimInt8 PrimType = iota
	PrimUInt8
	PrimInt16LE
	PrimInt16BE
	PrimUInt16LE
	PrimUInt16BE
	PrimInt32LE
	PrimInt32BE
	PrimUInt32LE
	PrimUInt32BE
	PrimInt64LE
	PrimInt64BE
	PrimUInt64LE
	PrimUInt64BE
	PrimFloat32LE
	PrimFloat32BE
	PrimFloat64LE
	PrimFloat64BE
)

// primNames uses the schema keyword spelling so errors read like declarations.
var primNames = [...]string{
	PrimInt8:      "Int8",
	PrimUInt8:     "UInt8",
	PrimInt16LE:   "Int16LE",
	PrimInt16BE:   "Int16BE",
	PrimUInt16LE:  "UInt16LE",
	PrimUInt16BE:  "UInt16BE",
	PrimInt32LE:   "Int32LE",
	PrimInt32BE:   "Int32BE",
	PrimUInt32LE:  "UInt32LE",
	PrimUInt32BE:  "UInt32BE",
	PrimInt64LE:   "BigInt64LE",
	PrimInt64BE:   "BigInt64BE",
	PrimUInt64LE:  "BigUInt64LE",
	PrimUInt64BE:  "BigUInt64BE",
	PrimFloat32LE: "FloatLE",
	PrimFloat32BE: "FloatBE",
	PrimFloat64LE: "DoubleLE",
	PrimFloat64BE: "DoubleBE",
}

var primWidths = [...]int{
	PrimInt8:      1,
	PrimUInt8:     1,
	PrimInt16LE:   2,
	PrimInt16BE:   2,
	PrimUInt16LE:  2,
	PrimUInt16BE:  2,
	PrimInt32LE:   4,
	PrimInt32BE:   4,
	PrimUInt32LE:  4,
	PrimUInt32BE:  4,
	PrimInt64LE:   8,
	PrimInt64BE:   8,
	PrimUInt64LE:  8,
	PrimUInt64BE:  8,
	PrimFloat32LE: 4,
	PrimFloat32BE: 4,
	PrimFloat64LE: 8,
	PrimFloat64BE: 8,
}

func (p PrimType) String() string {
	if int(p) < len(primNames) {
		return primNames[p]
	}
	return "unknown"
}

// Width returns the encoded size in bytes.
func (p PrimType) Width() int {
	if int(p) < len(primWidths) {
		return primWidths[p]
	}
	return 0
}

func (p PrimType) Signed() bool {
	switch p {
	case PrimInt8, PrimInt16LE, PrimInt16BE, PrimInt32LE, PrimInt32BE, PrimInt64LE, PrimInt64BE:
		return true
	default:
		return false
	}
}

func (p PrimType) Float() bool {
	switch p {
	case PrimFloat32LE, PrimFloat32BE, PrimFloat64LE, PrimFloat64BE:
		return true
	default:
		return false
	}
}

func (p PrimType) BigEndian() bool {
	switch p {
	case PrimInt16BE, PrimUInt16BE, PrimInt32BE, PrimUInt32BE,
		PrimInt64BE, PrimUInt64BE, PrimFloat32BE, PrimFloat64BE:
		return true
	default:
		return false
	}
}
