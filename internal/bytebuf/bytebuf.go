// Package bytebuf provides the low-copy slicing helpers the encoder uses
// to splice variable-length content into a working buffer.
package bytebuf

// View returns a subrange of buf without copying. The bounds are the
// caller's responsibility; View is only called with checked offsets.
func View(buf []byte, off, size int) []byte {
	return buf[off : off+size : off+size]
}

// SplitGap splits buf around the gap [off, off+size), returning the
// bytes before and after it. Both halves alias buf.
func SplitGap(buf []byte, off, size int) (before, after []byte) {
	return buf[:off:off], buf[off+size:]
}

// Concat joins the parts into a single freshly allocated buffer.
func Concat(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Splice replaces the range [off, off+size) of buf with repl. The result
// is a new buffer; buf is left untouched so aliased views stay valid.
func Splice(buf []byte, off, size int, repl []byte) []byte {
	before, after := SplitGap(buf, off, size)
	return Concat(before, repl, after)
}
