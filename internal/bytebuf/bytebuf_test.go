package bytebuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5}
	v := View(buf, 2, 3)
	require.Equal(t, []byte{2, 3, 4}, v)

	// Views alias the source buffer.
	v[0] = 99
	assert.Equal(t, byte(99), buf[2])

	// Full-capacity slicing prevents appends from clobbering the tail.
	v = append(v, 42)
	assert.Equal(t, byte(5), buf[5])
}

func TestSplitGap(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5}

	before, after := SplitGap(buf, 2, 2)
	assert.Equal(t, []byte{0, 1}, before)
	assert.Equal(t, []byte{4, 5}, after)

	// Zero-width gap splits without dropping bytes.
	before, after = SplitGap(buf, 3, 0)
	assert.Equal(t, []byte{0, 1, 2}, before)
	assert.Equal(t, []byte{3, 4, 5}, after)

	// Gap at either end leaves an empty half.
	before, after = SplitGap(buf, 0, 6)
	assert.Empty(t, before)
	assert.Empty(t, after)
}

func TestConcat(t *testing.T) {
	out := Concat([]byte{1}, nil, []byte{2, 3}, []byte{})
	assert.Equal(t, []byte{1, 2, 3}, out)

	assert.Empty(t, Concat())
}

func TestSplice(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4}

	// Replace two bytes with three: later bytes shift right.
	out := Splice(buf, 1, 2, []byte{9, 9, 9})
	require.Equal(t, []byte{0, 9, 9, 9, 3, 4}, out)

	// Source is untouched.
	assert.Equal(t, []byte{0, 1, 2, 3, 4}, buf)

	// Insert into a zero-width gap.
	out = Splice(buf, 5, 0, []byte{7})
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 7}, out)

	// Replace with nothing removes the range.
	out = Splice(buf, 0, 4, nil)
	assert.Equal(t, []byte{4}, out)
}
