// Package types defines the compiled schema structures for fast encode/decode.
//
// Descriptor holds precomputed layout information (kind, byte offset, byte
// size, bit slots) for each declared field. By resolving offsets once at
// compile time, the codec avoids repeated layout work on hot paths; only
// dynamic-length fields are re-measured per call.
//
// # Key Types
//
//   - CompiledSchema: ordered positioned descriptors plus static size
//   - Descriptor: kind-tagged compiled field metadata
//   - Kind: field discriminator (primitive, bitfield, string, struct, union)
//   - PrimType: fixed-width primitive with byte order
//
// This package is internal to binstruct.
package types
