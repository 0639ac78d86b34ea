// Package binstruct provides declarative binary structure encoding and decoding.
//
// A structure is described as an ordered list of named fields, compiled once
// into an offset-resolved schema, then used to convert between raw byte
// buffers and plain Go maps in either direction.
//
// # Architecture Overview
//
// The library is organized into a small set of packages:
//
//	binstruct/           Root package with Struct, Union, and the schema compiler
//	├── bitfield/        Bit-level packing within byte regions
//	├── errors/          Structured error types for debugging
//	└── internal/
//	    ├── types/       Compiled schema representation
//	    ├── layout/      Offset and bit-group resolution
//	    └── bytebuf/     Byte buffer splicing helpers
//
// # Quick Start
//
// Describe a structure, then move data both ways:
//
//	s, err := binstruct.NewStruct(
//	    binstruct.F("id", "UInt16BE"),
//	    binstruct.F("flags", "UInt8:4"),
//	    binstruct.F("version", "UInt8:4"),
//	    binstruct.F("name", "String[8]"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	buf, err := s.ToBuffer(map[string]any{
//	    "id":      uint16(7),
//	    "flags":   uint64(3),
//	    "version": uint64(1),
//	    "name":    "probe",
//	})
//
//	obj, err := s.ToObject(buf)
//	fmt.Println(obj["name"]) // "probe"
//
// # Field Types
//
// The type language covers the usual wire formats:
//
//   - Integers: Int8/UInt8 through BigInt64/BigUInt64, LE and BE variants
//   - Floats: FloatLE/FloatBE, DoubleLE/DoubleBE
//   - Bitfields: any integer type with a ":width" suffix, packed across bytes
//   - Strings: "String[n]" fixed regions or "String" NUL-terminated dynamic
//   - Arrays: "[n]" suffix on primitives, or ArraySize on nested structs
//   - Nesting: *Struct and *Union values embed compiled schemas directly
//
// # Dynamic Fields
//
// Dynamic strings and structs containing them occupy zero bytes in the static
// layout and stretch the buffer when encoded. Decoding tracks the actual
// consumed length, so fields after a dynamic region resolve correctly.
//
// # Thread Safety
//
// Compiled Struct and Union values are immutable and safe for concurrent use.
// The compiler caches compiled schemas, so repeated construction of the same
// shape is cheap.
package binstruct
