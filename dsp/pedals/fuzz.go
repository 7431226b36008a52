package pedals

import (
	"math"

	"github.com/cwbudde/algo-pedals/dsp/filter/onepole"
	"github.com/cwbudde/algo-pedals/dsp/param"
	"github.com/cwbudde/algo-pedals/dsp/waveshape"
)

const (
	defaultFuzzSustain = 0.6
	defaultFuzzTone    = 0.5
	defaultFuzzVolume  = 0.8

	// Sustain knob maps to a pre-gain of [-10, +46] dB.
	fuzzSustainDBRange  = 56.0
	fuzzSustainDBOffset = -10.0

	// Volume knob maps to an output gain of [-60, +6] dB.
	fuzzVolumeDBRange  = 66.0
	fuzzVolumeDBOffset = -60.0

	// Tone stack center frequency sweep (mid-scoop area).
	fuzzToneMinHz = 250.0
	fuzzToneMaxHz = 3500.0

	// Low and high shelves derive from the tone center.
	fuzzLowCutRatio  = 0.45
	fuzzHighCutRatio = 0.9

	// Mid scoop strength at tone center (85% cut).
	fuzzMaxMidCut = 0.85

	fuzzInterStageGain = 0.88
	fuzzLimiterGain    = 8.0
)

// Fuzz is a Big Muff Pi style fuzz: two clipping amplifier stages around a
// passive tone stack with an explicit mid scoop.
//
// Controls: sustain (pre-gain), tone, volume, bypass.
type Fuzz struct {
	sustain *param.Float
	tone    *param.Float
	volume  *param.Float
	bypass  *param.Bool

	sampleRate float64

	lp     []onepole.Lowpass
	hpLow  []onepole.Lowpass
	smooth []float64

	toneCenter float64
	lpAlpha    float64
	hpAlpha    float64
}

// NewFuzz creates a fuzz pedal with the hardware default knob positions.
func NewFuzz() *Fuzz {
	return &Fuzz{
		sustain:    param.NewFloat("sustain", 0, 1, defaultFuzzSustain),
		tone:       param.NewFloat("tone", 0, 1, defaultFuzzTone),
		volume:     param.NewFloat("volume", 0, 1, defaultFuzzVolume),
		bypass:     param.NewBool("bypass", false),
		sampleRate: 44100,
		toneCenter: -1,
	}
}

// Name returns the pedal type name.
func (f *Fuzz) Name() string { return "bigmuff" }

// Sustain returns the pre-gain knob parameter.
func (f *Fuzz) Sustain() *param.Float { return f.sustain }

// Tone returns the tone knob parameter.
func (f *Fuzz) Tone() *param.Float { return f.tone }

// Volume returns the output level knob parameter.
func (f *Fuzz) Volume() *param.Float { return f.volume }

// Bypass returns the bypass footswitch parameter.
func (f *Fuzz) Bypass() *param.Bool { return f.bypass }

// Params returns the parameter set in preset serialization order.
func (f *Fuzz) Params() []param.Param {
	return []param.Param{f.sustain, f.tone, f.volume, f.bypass}
}

// Prepare sizes per-channel filter state and resets it to silence.
func (f *Fuzz) Prepare(sampleRate float64, channels int) error {
	err := validatePrepare("fuzz", sampleRate, channels)
	if err != nil {
		return err
	}

	f.sampleRate = sampleRate
	f.lp = make([]onepole.Lowpass, channels)
	f.hpLow = make([]onepole.Lowpass, channels)
	f.smooth = make([]float64, channels)
	f.toneCenter = -1

	f.updateToneCoeffs()

	return nil
}

// Reset clears filter memory without resizing.
func (f *Fuzz) Reset() {
	for ch := range f.lp {
		f.lp[ch].Reset()
		f.hpLow[ch].Reset()
		f.smooth[ch] = 0
	}
}

// Process transforms each channel in place. Bypass is a passthrough.
func (f *Fuzz) Process(buf [][]float64) {
	if f.bypass.Value() {
		return
	}

	for ch := range buf {
		if ch >= len(f.lp) {
			break
		}

		for i := range buf[ch] {
			buf[ch][i] = f.ProcessSample(buf[ch][i], ch)
		}
	}
}

// ProcessSample runs the full fuzz chain on one sample of one channel.
func (f *Fuzz) ProcessSample(in float64, ch int) float64 {
	sustain := f.sustain.Value()

	// Input booster: sustain knob maps to [-10, +46] dB.
	preGain := dbToGain(sustain*fuzzSustainDBRange + fuzzSustainDBOffset)
	x := in * preGain

	// First clipping stage: transistor/op-amp with soft diode knee. The low
	// threshold gives the early breakup the Big Muff exhibits.
	x = waveshape.DiodeClip(x, 0.75, 0.20)

	// Coupling-cap / bias attenuation between stages.
	x *= fuzzInterStageGain

	// Second clipping stage: more sustain drives it harder.
	stage2Gain := 2 + sustain*3
	x = waveshape.Saturate(x, stage2Gain)

	// Diode pair clip blended 90/10 to keep a little open top end.
	x = waveshape.DiodeClip(x, 0.6, 0.16)*0.90 + x*0.10

	// Tone stack: split into low / high / residual mid, recombine with a
	// mid scoop that peaks at the center knob position.
	f.updateToneIfNeeded()

	low := f.lp[ch].Process(x)
	lowForHP := f.hpLow[ch].Process(x)
	high := x - lowForHP
	mid := x - (low + high)

	t := f.tone.Value()
	midCut := waveshape.Clamp(1-4*math.Abs(t-0.5), 0, 1)
	midGain := 1 - midCut*fuzzMaxMidCut
	toneOut := low*(1-t) + high*t + mid*midGain

	// Light smoothing against zipper noise from knob automation.
	y := 0.6*toneOut + 0.4*f.smooth[ch]
	f.smooth[ch] = toneOut

	// Output booster and final limiter.
	out := y * dbToGain(f.volume.Value()*fuzzVolumeDBRange+fuzzVolumeDBOffset)

	return waveshape.Saturate(out, fuzzLimiterGain)
}

func (f *Fuzz) updateToneCoeffs() {
	center := onepole.LogMap(f.tone.Value(), fuzzToneMinHz, fuzzToneMaxHz)
	f.toneCenter = center
	f.lpAlpha = onepole.LowpassAlpha(center*fuzzLowCutRatio, f.sampleRate)
	f.hpAlpha = onepole.LowpassAlpha(center*fuzzHighCutRatio, f.sampleRate)

	for ch := range f.lp {
		f.lp[ch].SetAlpha(f.lpAlpha)
		f.hpLow[ch].SetAlpha(f.hpAlpha)
	}
}

func (f *Fuzz) updateToneIfNeeded() {
	center := onepole.LogMap(f.tone.Value(), fuzzToneMinHz, fuzzToneMaxHz)
	if math.Abs(center-f.toneCenter) > 1 {
		f.updateToneCoeffs()
	}
}
