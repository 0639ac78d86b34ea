// Package bitfield packs and unpacks sub-byte fields sharing byte storage.
//
// A Bitfield owns a fixed-size byte array addressed bit by bit: absolute
// bit b lives in byte b/8 at mask 1<<(b%8). Multi-bit fields are laid out
// most significant bit first from their declared position, and that
// ordering carries across byte boundaries, which is what wire formats
// like the DNS header flags expect:
//
//	bf := bitfield.New(2)
//	bf.PackValue(1, 4, 0x4) // 4-bit opcode at bits 1..4
//	op, _ := bf.UnpackValue(1, 4)
//
// The package is usable standalone or through struct schemas, where
// adjacent bitfield declarations compile into one shared group.
//
// All positions are bounds-checked against the fixed capacity; a failing
// operation leaves the stored bits unchanged, but multi-field calls do
// not roll back fields already written before the failure.
package bitfield
