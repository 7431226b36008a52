package param

import (
	"math"
	"sync/atomic"
)

// Param is the order-preserving access contract used for preset persistence.
// Raw returns the parameter's serialized float representation (engineering
// value for floats, 0/1 for booleans).
type Param interface {
	Name() string
	Raw() float64
	SetRaw(v float64)
}

// Float is a named, range-clamped scalar parameter shared between a UI/host
// writer and the audio-thread reader. Reads and writes are single atomic
// loads/stores of the float bits; no locks are taken, so a parameter change
// may take effect at arbitrary sample granularity within a block.
type Float struct {
	name     string
	min, max float64
	def      float64
	bits     atomic.Uint64
}

// NewFloat creates a parameter with the given range and default value.
func NewFloat(name string, minVal, maxVal, def float64) *Float {
	p := &Float{name: name, min: minVal, max: maxVal, def: def}
	p.SetValue(def)

	return p
}

// Name returns the parameter identifier.
func (p *Float) Name() string { return p.name }

// Min returns the lower range bound.
func (p *Float) Min() float64 { return p.min }

// Max returns the upper range bound.
func (p *Float) Max() float64 { return p.max }

// Default returns the default value.
func (p *Float) Default() float64 { return p.def }

// Value atomically loads the current value.
func (p *Float) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// SetValue atomically stores v, clamped to the parameter range. Non-finite
// values are replaced by the default.
func (p *Float) SetValue(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = p.def
	}

	if v < p.min {
		v = p.min
	}

	if v > p.max {
		v = p.max
	}

	p.bits.Store(math.Float64bits(v))
}

// Normalized returns the current value mapped linearly to [0, 1].
func (p *Float) Normalized() float64 {
	if p.max == p.min {
		return 0
	}

	return (p.Value() - p.min) / (p.max - p.min)
}

// SetNormalized sets the value from a [0, 1] position.
func (p *Float) SetNormalized(t float64) {
	p.SetValue(p.min + t*(p.max-p.min))
}

// Raw returns the engineering value.
func (p *Float) Raw() float64 { return p.Value() }

// SetRaw sets the engineering value.
func (p *Float) SetRaw(v float64) { p.SetValue(v) }

// Bool is a named boolean parameter with the same single-writer atomic
// sharing model as Float.
type Bool struct {
	name string
	val  atomic.Bool
}

// NewBool creates a boolean parameter.
func NewBool(name string, def bool) *Bool {
	p := &Bool{name: name}
	p.val.Store(def)

	return p
}

// Name returns the parameter identifier.
func (p *Bool) Name() string { return p.name }

// Value atomically loads the current state.
func (p *Bool) Value() bool { return p.val.Load() }

// SetValue atomically stores the state.
func (p *Bool) SetValue(v bool) { p.val.Store(v) }

// Raw returns 1 when set, 0 otherwise.
func (p *Bool) Raw() float64 {
	if p.val.Load() {
		return 1
	}

	return 0
}

// SetRaw sets the state from a float; values >= 0.5 read as true.
func (p *Bool) SetRaw(v float64) {
	p.val.Store(v >= 0.5)
}
