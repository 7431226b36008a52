package pedalboard

import (
	"fmt"

	"github.com/cwbudde/algo-pedals/dsp/param"
)

// Pedal is one stompbox on a board. Prepare is called from a control thread
// before processing starts or after the audio configuration changes; Process
// runs on the audio thread and transforms the buffers in place. Parameter
// changes arrive from other threads through the atomic params.
type Pedal interface {
	Name() string
	Prepare(sampleRate float64, channels int) error
	Process(buf [][]float64)
	Params() []param.Param
	Reset()
}

// Board runs pedals in series over a shared set of channel buffers,
// input to output in slot order.
type Board struct {
	ctx    Context
	pedals []Pedal

	chunk [][]float64
}

// NewBoard creates an empty board for the given context.
func NewBoard(ctx Context) *Board {
	return &Board{ctx: ctx}
}

// Context returns the board's audio configuration.
func (b *Board) Context() Context {
	return b.ctx
}

// Pedals returns the pedals in slot order.
func (b *Board) Pedals() []Pedal {
	return b.pedals
}

// Add prepares a pedal for the board's context and appends it to the chain.
func (b *Board) Add(p Pedal) error {
	if p == nil {
		return fmt.Errorf("pedalboard: nil pedal")
	}

	err := p.Prepare(b.ctx.SampleRate, b.ctx.Channels)
	if err != nil {
		return fmt.Errorf("pedalboard: prepare %s: %w", p.Name(), err)
	}

	b.pedals = append(b.pedals, p)

	return nil
}

// SetContext switches the audio configuration and re-prepares every pedal.
func (b *Board) SetContext(ctx Context) error {
	for _, p := range b.pedals {
		err := p.Prepare(ctx.SampleRate, ctx.Channels)
		if err != nil {
			return fmt.Errorf("pedalboard: prepare %s: %w", p.Name(), err)
		}
	}

	b.ctx = ctx

	return nil
}

// Process runs the chain over the buffers in place, one pedal after another.
// Buffers longer than the context's MaxBlockSize are processed in chunks of
// at most that size, so per-block parameter reads keep block-rate
// granularity. The chunk headers are reused across calls.
func (b *Board) Process(buf [][]float64) {
	if len(buf) == 0 {
		return
	}

	size := b.ctx.MaxBlockSize
	if size <= 0 || len(buf[0]) <= size {
		for _, p := range b.pedals {
			p.Process(buf)
		}

		return
	}

	if cap(b.chunk) < len(buf) {
		b.chunk = make([][]float64, len(buf))
	}

	chunk := b.chunk[:len(buf)]

	n := len(buf[0])
	for off := 0; off < n; off += size {
		end := off + size
		if end > n {
			end = n
		}

		for ch := range buf {
			chunk[ch] = buf[ch][off:end]
		}

		for _, p := range b.pedals {
			p.Process(chunk)
		}
	}
}

// Reset clears every pedal's internal state without touching parameters.
func (b *Board) Reset() {
	for _, p := range b.pedals {
		p.Reset()
	}
}
