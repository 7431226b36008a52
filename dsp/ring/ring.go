package ring

import (
	"fmt"
	"math"
)

// Buffer is a fixed-capacity circular sample store with linear-interpolated
// fractional reads. The write index advances by exactly one per written
// sample, modulo capacity.
type Buffer struct {
	data  []float64
	write int
}

// New returns a ring buffer of fixed capacity.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}

	return &Buffer{data: make([]float64, capacity)}, nil
}

// Len returns the buffer capacity.
func (b *Buffer) Len() int { return len(b.data) }

// WriteIndex returns the current write position.
func (b *Buffer) WriteIndex() int { return b.write }

// Write stores one sample at the write index and advances it.
func (b *Buffer) Write(sample float64) {
	b.data[b.write] = sample

	b.write++
	if b.write >= len(b.data) {
		b.write = 0
	}
}

// ReadDelayed reads delay samples behind the current write index with linear
// interpolation. delay may be fractional; it is clamped to [0, capacity).
func (b *Buffer) ReadDelayed(delay float64) float64 {
	size := len(b.data)
	if delay < 0 {
		delay = 0
	}

	pos := float64(b.write) - delay
	for pos < 0 {
		pos += float64(size)
	}

	return b.ReadAt(pos)
}

// ReadAt reads at an absolute fractional position, wrapped into
// [0, capacity), interpolating linearly between the two neighboring samples.
func (b *Buffer) ReadAt(pos float64) float64 {
	size := len(b.data)
	pos = Wrap(pos, size)

	i1 := int(math.Floor(pos)) % size
	i2 := i1 + 1
	if i2 >= size {
		i2 = 0
	}

	frac := pos - math.Floor(pos)
	s1 := b.data[i1]
	s2 := b.data[i2]

	return s1 + frac*(s2-s1)
}

// Reset zero-fills the buffer and rewinds the write index.
func (b *Buffer) Reset() {
	for i := range b.data {
		b.data[i] = 0
	}

	b.write = 0
}

// Wrap folds a fractional position into [0, size).
func Wrap(pos float64, size int) float64 {
	n := float64(size)
	if pos < 0 {
		pos += math.Ceil(math.Abs(pos/n)) * n
	}

	if pos >= n {
		pos = math.Mod(pos, n)
	}

	return pos
}

// WrapIndex folds an integer index into [0, size).
func WrapIndex(idx, size int) int {
	if size <= 0 {
		return 0
	}

	i := idx % size
	if i < 0 {
		i += size
	}

	return i
}
