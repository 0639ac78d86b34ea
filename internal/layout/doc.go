// Package layout resolves byte offsets and sizes for compiled schemas.
//
// This package computes field positions in declaration order: primitives by
// their fixed width, bitfield runs merged into byte-aligned groups, strings
// by their declared length (or a zero placeholder when dynamic), nested
// structs by their child's static size times the array count, and unions by
// their largest member.
//
// # Layout Rules
//
//   - byte offsets are the running sum of prior field sizes
//   - a bit group closes once accumulated bits would pass the declared
//     integer type's width; its size is the occupied bits rounded up to
//     whole bytes
//   - dynamic fields carry placeholder sizes; the codec threads the
//     correction through a per-call delta
//
// This package is internal to binstruct.
package layout
