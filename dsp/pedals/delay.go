package pedals

import (
	"math"

	"github.com/cwbudde/algo-pedals/dsp/filter/onepole"
	"github.com/cwbudde/algo-pedals/dsp/param"
	"github.com/cwbudde/algo-pedals/dsp/ring"
	"github.com/cwbudde/algo-pedals/dsp/waveshape"
)

const (
	defaultDelayTime  = 0.5
	defaultDelayMix   = 0.5
	defaultDelayRegen = 0.5

	// Delay knob maps logarithmically onto [20, 650] ms.
	minDelayMs = 20.0
	maxDelayMs = 650.0

	// Regen is scaled down so the knob's full travel stays short of
	// self-oscillation runaway.
	delayRegenScale = 0.33

	// Feedback lowpass cutoff slides darker as regen increases,
	// emulating BBD repeat degradation.
	delayFeedbackMaxHz = 6000.0
	delayFeedbackMinHz = 800.0

	delayWriteGain       = 0.95
	delayWriteClipGain   = 3.0
	delayLimiterGain     = 10.0
	delayInterpMarginLen = 4
)

// Delay is an analog/BBD style delay: a fractional-interpolated delay line
// with a darkening one-pole lowpass in the feedback path and a soft clip on
// the write path to keep feedback energy bounded.
//
// Controls: delay (time), mix, regen (feedback), bypass.
type Delay struct {
	delay  *param.Float
	mix    *param.Float
	regen  *param.Float
	bypass *param.Bool

	sampleRate float64

	lines []*ring.Buffer
	fb    []onepole.Lowpass
	cache onepole.CutoffCache
}

// NewDelay creates a delay pedal with every knob at 12 o'clock.
func NewDelay() *Delay {
	return &Delay{
		delay:      param.NewFloat("delay", 0, 1, defaultDelayTime),
		mix:        param.NewFloat("mix", 0, 1, defaultDelayMix),
		regen:      param.NewFloat("regen", 0, 1, defaultDelayRegen),
		bypass:     param.NewBool("bypass", false),
		sampleRate: 44100,
		cache:      onepole.NewCutoffCache(),
	}
}

// Name returns the pedal type name.
func (d *Delay) Name() string { return "analogdelay" }

// Time returns the delay time knob parameter.
func (d *Delay) Time() *param.Float { return d.delay }

// Mix returns the dry/wet knob parameter.
func (d *Delay) Mix() *param.Float { return d.mix }

// Regen returns the feedback knob parameter.
func (d *Delay) Regen() *param.Float { return d.regen }

// Bypass returns the bypass footswitch parameter.
func (d *Delay) Bypass() *param.Bool { return d.bypass }

// Params returns the parameter set in preset serialization order.
func (d *Delay) Params() []param.Param {
	return []param.Param{d.delay, d.mix, d.regen, d.bypass}
}

// Prepare sizes the per-channel delay lines for the maximum delay time plus
// an interpolation margin and resets all state to silence.
func (d *Delay) Prepare(sampleRate float64, channels int) error {
	err := validatePrepare("delay", sampleRate, channels)
	if err != nil {
		return err
	}

	d.sampleRate = sampleRate

	capacity := int(math.Ceil(maxDelayMs*sampleRate/1000)) + delayInterpMarginLen

	d.lines = make([]*ring.Buffer, channels)
	for ch := range d.lines {
		d.lines[ch], err = ring.New(capacity)
		if err != nil {
			return err
		}
	}

	d.fb = make([]onepole.Lowpass, channels)
	d.cache.Reset()
	d.refreshFeedbackFilter()

	return nil
}

// Reset clears delay memory and feedback filter state without resizing.
func (d *Delay) Reset() {
	for ch := range d.lines {
		d.lines[ch].Reset()
		d.fb[ch].Reset()
	}
}

// Process transforms each channel in place. Bypass is a passthrough.
func (d *Delay) Process(buf [][]float64) {
	if d.bypass.Value() {
		return
	}

	for ch := range buf {
		if ch >= len(d.lines) {
			break
		}

		for i := range buf[ch] {
			buf[ch][i] = d.ProcessSample(buf[ch][i], ch)
		}
	}
}

// ProcessSample runs one sample of one channel through the delay-with-
// feedback topology.
func (d *Delay) ProcessSample(in float64, ch int) float64 {
	delayMs := onepole.LogMap(d.delay.Value(), minDelayMs, maxDelayMs)
	delaySamples := delayMs * d.sampleRate / 1000

	delayed := d.lines[ch].ReadDelayed(delaySamples)

	// Feedback path: scale by regen, darken through the one-pole lowpass.
	regenGain := d.regen.Value() * delayRegenScale
	d.refreshFeedbackFilter()
	fbFiltered := d.fb[ch].Process(delayed * regenGain)

	// Summing node: fresh input plus attenuated feedback, soft clipped to
	// emulate BBD saturation and prevent runaway energy growth.
	toWrite := in + fbFiltered*delayWriteGain
	d.lines[ch].Write(waveshape.Saturate(toWrite, delayWriteClipGain))

	out := (1-d.mix.Value())*in + d.mix.Value()*delayed

	return waveshape.Saturate(out, delayLimiterGain)
}

func (d *Delay) refreshFeedbackFilter() {
	r := d.regen.Value() * delayRegenScale
	cutoff := delayFeedbackMaxHz*(1-r) + delayFeedbackMinHz*r

	before := d.cache.Updates()
	alpha := d.cache.Alpha(cutoff, d.sampleRate)

	if d.cache.Updates() != before {
		for ch := range d.fb {
			d.fb[ch].SetAlpha(alpha)
		}
	}
}
