package pedals

import (
	"github.com/cwbudde/algo-pedals/dsp/param"
)

const (
	defaultBoostGain = 0.5

	// Non-inverting TL061 stage: gain = 1 + (R4 + R5)/R6 with R5 the pot.
	boostR4Ohms    = 56000.0
	boostR5MaxOhms = 500000.0
	boostR6Ohms    = 2700.0
	boostMaxGain   = 20.0

	// Gain changes ramp over 50 ms to avoid zipper noise.
	boostRampSeconds = 0.05
)

// Boost is a Micro Amp style clean gain booster: the knob sets a
// circuit-accurate op-amp gain, smoothed by a linear ramp.
//
// Controls: gain, bypass.
type Boost struct {
	gain   *param.Float
	bypass *param.Bool

	sampleRate float64
	ramps      []gainRamp
}

// gainRamp approaches a target gain linearly over a fixed sample count.
type gainRamp struct {
	current float64
	target  float64
	step    float64
	steps   int
}

func (r *gainRamp) setTarget(target float64, rampLen int) {
	if target == r.target {
		return
	}

	r.target = target

	if rampLen <= 0 {
		r.current = target
		r.steps = 0

		return
	}

	r.step = (target - r.current) / float64(rampLen)
	r.steps = rampLen
}

func (r *gainRamp) next() float64 {
	if r.steps > 0 {
		r.current += r.step
		r.steps--

		if r.steps == 0 {
			r.current = r.target
		}
	}

	return r.current
}

func (r *gainRamp) snap(v float64) {
	r.current = v
	r.target = v
	r.steps = 0
}

// NewBoost creates a booster with the gain knob at half.
func NewBoost() *Boost {
	return &Boost{
		gain:       param.NewFloat("gain", 0, 1, defaultBoostGain),
		bypass:     param.NewBool("bypass", false),
		sampleRate: 44100,
	}
}

// Name returns the pedal type name.
func (b *Boost) Name() string { return "microamp" }

// Gain returns the gain knob parameter.
func (b *Boost) Gain() *param.Float { return b.gain }

// Bypass returns the bypass footswitch parameter.
func (b *Boost) Bypass() *param.Bool { return b.bypass }

// Params returns the parameter set in preset serialization order.
func (b *Boost) Params() []param.Param {
	return []param.Param{b.gain, b.bypass}
}

// Prepare sizes per-channel ramp state and snaps it to the current gain.
func (b *Boost) Prepare(sampleRate float64, channels int) error {
	err := validatePrepare("boost", sampleRate, channels)
	if err != nil {
		return err
	}

	b.sampleRate = sampleRate
	b.ramps = make([]gainRamp, channels)

	gain := circuitGain(b.gain.Value())
	for ch := range b.ramps {
		b.ramps[ch].snap(gain)
	}

	return nil
}

// Reset snaps the gain ramps to the current knob value.
func (b *Boost) Reset() {
	gain := circuitGain(b.gain.Value())
	for ch := range b.ramps {
		b.ramps[ch].snap(gain)
	}
}

// Process transforms each channel in place. Bypass is a passthrough.
func (b *Boost) Process(buf [][]float64) {
	if b.bypass.Value() {
		return
	}

	target := circuitGain(b.gain.Value())
	rampLen := int(boostRampSeconds * b.sampleRate)

	for ch := range buf {
		if ch >= len(b.ramps) {
			break
		}

		b.ramps[ch].setTarget(target, rampLen)

		for i := range buf[ch] {
			buf[ch][i] *= b.ramps[ch].next()
		}
	}
}

// ProcessSample applies the smoothed gain to one sample of one channel.
func (b *Boost) ProcessSample(in float64, ch int) float64 {
	b.ramps[ch].setTarget(circuitGain(b.gain.Value()), int(boostRampSeconds*b.sampleRate))
	return in * b.ramps[ch].next()
}

// circuitGain computes the non-inverting amplifier gain from the knob
// position, capped at the hardware's practical maximum.
func circuitGain(knob float64) float64 {
	r5 := knob * boostR5MaxOhms

	gain := 1 + (boostR4Ohms+r5)/boostR6Ohms
	if gain > boostMaxGain {
		gain = boostMaxGain
	}

	return gain
}
