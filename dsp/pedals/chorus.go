package pedals

import (
	"math"

	"github.com/cwbudde/algo-pedals/dsp/param"
	"github.com/cwbudde/algo-pedals/dsp/ring"
	"github.com/cwbudde/algo-pedals/dsp/waveshape"
)

const (
	// Default rate is the geometric mean of the range so the knob's 12
	// o'clock position lands on the default.
	defaultChorusRateHz = 0.54772256
	minChorusRateHz     = 0.05
	maxChorusRateHz     = 6.0
	defaultChorusDepth  = 0.5

	chorusBaseDelayMs = 10.0
	chorusMaxModMs    = 6.5
	chorusMaxDelayMs  = 30.0

	// Wet level scales with depth; fully up the mix is 60/40 dry.
	chorusWetPerDepth = 0.6

	chorusLimiterGain = 4.0
)

// Chorus is a CE-2 style chorus: a single modulated delay tap around a 10 ms
// base delay, with the depth knob driving both modulation width and wet
// level.
//
// Controls: rate, depth, bypass.
type Chorus struct {
	rate   *param.Float
	depth  *param.Float
	bypass *param.Bool

	sampleRate float64

	lines    []*ring.Buffer
	lfoPhase []float64
}

// NewChorus creates a chorus pedal with the hardware default knob positions.
func NewChorus() *Chorus {
	return &Chorus{
		rate:       param.NewFloat("rate", minChorusRateHz, maxChorusRateHz, defaultChorusRateHz),
		depth:      param.NewFloat("depth", 0, 1, defaultChorusDepth),
		bypass:     param.NewBool("bypass", false),
		sampleRate: 44100,
	}
}

// Name returns the pedal type name.
func (c *Chorus) Name() string { return "ce2" }

// Rate returns the LFO speed parameter in Hz.
func (c *Chorus) Rate() *param.Float { return c.rate }

// Depth returns the modulation depth parameter.
func (c *Chorus) Depth() *param.Float { return c.depth }

// Bypass returns the bypass footswitch parameter.
func (c *Chorus) Bypass() *param.Bool { return c.bypass }

// Params returns the parameter set in preset serialization order.
func (c *Chorus) Params() []param.Param {
	return []param.Param{c.rate, c.depth, c.bypass}
}

// Prepare sizes the per-channel delay lines for the maximum delay plus an
// interpolation margin and resets them to silence.
func (c *Chorus) Prepare(sampleRate float64, channels int) error {
	err := validatePrepare("chorus", sampleRate, channels)
	if err != nil {
		return err
	}

	c.sampleRate = sampleRate

	capacity := int(math.Ceil(chorusMaxDelayMs*0.001*sampleRate)) + 4

	c.lines = make([]*ring.Buffer, channels)
	for ch := range c.lines {
		c.lines[ch], err = ring.New(capacity)
		if err != nil {
			return err
		}
	}

	c.lfoPhase = make([]float64, channels)

	return nil
}

// Reset clears delay memory and LFO phase without resizing.
func (c *Chorus) Reset() {
	for ch := range c.lines {
		c.lines[ch].Reset()
		c.lfoPhase[ch] = 0
	}
}

// Process transforms each channel in place. Bypass is a passthrough.
func (c *Chorus) Process(buf [][]float64) {
	if c.bypass.Value() {
		return
	}

	for ch := range buf {
		if ch >= len(c.lines) {
			break
		}

		for i := range buf[ch] {
			buf[ch][i] = c.ProcessSample(buf[ch][i], ch)
		}
	}
}

// ProcessSample runs one sample of one channel through the modulated delay.
func (c *Chorus) ProcessSample(in float64, ch int) float64 {
	lfo := math.Sin(c.lfoPhase[ch])

	c.lfoPhase[ch] += 2 * math.Pi * c.rate.Value() / c.sampleRate
	if c.lfoPhase[ch] >= 2*math.Pi {
		c.lfoPhase[ch] -= 2 * math.Pi
	}

	// Delay oscillates symmetrically around the base delay.
	depth := c.depth.Value()
	delayMs := chorusBaseDelayMs + lfo*depth*chorusMaxModMs*0.5
	delaySamples := delayMs * 0.001 * c.sampleRate

	delayed := c.lines[ch].ReadDelayed(delaySamples)
	c.lines[ch].Write(in)

	wetLevel := chorusWetPerDepth * depth
	out := (1-wetLevel)*in + wetLevel*delayed

	// Gentle output limiting; unity slope for small signals.
	return waveshape.Saturate(out, chorusLimiterGain) / chorusLimiterGain
}
