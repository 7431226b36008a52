package pedals

import (
	"github.com/cwbudde/algo-pedals/dsp/filter/onepole"
	"github.com/cwbudde/algo-pedals/dsp/param"
	"github.com/cwbudde/algo-pedals/dsp/waveshape"
)

const (
	defaultDistortionDrive  = 0.5
	defaultDistortionFilter = 0.5
	defaultDistortionVolume = 0.8

	// Drive knob maps to a pre-gain of [-6, +30] dB.
	distortionDriveDBRange  = 36.0
	distortionDriveDBOffset = -6.0

	// Volume knob maps to an output gain of [-60, +6] dB.
	distortionVolumeDBRange  = 66.0
	distortionVolumeDBOffset = -60.0

	// Filter knob sweeps the post-clip lowpass cutoff logarithmically.
	distortionFilterMinHz = 475.0
	distortionFilterMaxHz = 32000.0

	// Op-amp saturation and diode clamp shape.
	distortionOpAmpGain      = 2.0
	distortionDiodeThreshold = 0.6
	distortionDiodeKnee      = 0.2
	distortionDiodeMix       = 0.85

	distortionLimiterGain = 10.0
)

// Distortion is a RAT-style distortion: an op-amp gain stage with diode
// clipping to ground, followed by a swept one-pole lowpass tone filter.
//
// Controls: drive, filter, volume, bypass.
type Distortion struct {
	drive  *param.Float
	filter *param.Float
	volume *param.Float
	bypass *param.Bool

	sampleRate float64

	lp    []onepole.Lowpass
	cache onepole.CutoffCache
}

// NewDistortion creates a distortion pedal with the hardware default knob
// positions.
func NewDistortion() *Distortion {
	return &Distortion{
		drive:      param.NewFloat("drive", 0, 1, defaultDistortionDrive),
		filter:     param.NewFloat("filter", 0, 1, defaultDistortionFilter),
		volume:     param.NewFloat("volume", 0, 1, defaultDistortionVolume),
		bypass:     param.NewBool("bypass", false),
		sampleRate: 44100,
		cache:      onepole.NewCutoffCache(),
	}
}

// Name returns the pedal type name.
func (d *Distortion) Name() string { return "rat" }

// Drive returns the pre-gain knob parameter.
func (d *Distortion) Drive() *param.Float { return d.drive }

// Filter returns the tone filter knob parameter.
func (d *Distortion) Filter() *param.Float { return d.filter }

// Volume returns the output level knob parameter.
func (d *Distortion) Volume() *param.Float { return d.volume }

// Bypass returns the bypass footswitch parameter.
func (d *Distortion) Bypass() *param.Bool { return d.bypass }

// Params returns the parameter set in preset serialization order.
func (d *Distortion) Params() []param.Param {
	return []param.Param{d.drive, d.filter, d.volume, d.bypass}
}

// Prepare sizes per-channel filter state and resets it to silence.
func (d *Distortion) Prepare(sampleRate float64, channels int) error {
	err := validatePrepare("distortion", sampleRate, channels)
	if err != nil {
		return err
	}

	d.sampleRate = sampleRate
	d.lp = make([]onepole.Lowpass, channels)
	d.cache.Reset()
	d.refreshFilter()

	return nil
}

// Reset clears filter memory without resizing.
func (d *Distortion) Reset() {
	for ch := range d.lp {
		d.lp[ch].Reset()
	}
}

// Process transforms each channel in place. Bypass is a passthrough.
func (d *Distortion) Process(buf [][]float64) {
	if d.bypass.Value() {
		return
	}

	for ch := range buf {
		if ch >= len(d.lp) {
			break
		}

		for i := range buf[ch] {
			buf[ch][i] = d.ProcessSample(buf[ch][i], ch)
		}
	}
}

// ProcessSample runs the full distortion chain on one sample of one channel.
func (d *Distortion) ProcessSample(in float64, ch int) float64 {
	// Pre-gain: drive knob maps to [-6, +30] dB.
	x := in * dbToGain(d.drive.Value()*distortionDriveDBRange+distortionDriveDBOffset)

	// LM308 op-amp saturation, then diode clamp to ground mixed in at 85%
	// for the classic RAT character.
	x = waveshape.Saturate(x, distortionOpAmpGain)
	clipped := waveshape.DiodeClip(x, distortionDiodeThreshold, distortionDiodeKnee)
	x = (1-distortionDiodeMix)*x + distortionDiodeMix*clipped

	// Tone filter: swept one-pole lowpass, coefficient cached until the
	// mapped cutoff moves by more than 1 Hz.
	d.refreshFilter()
	y := d.lp[ch].Process(x)

	// Output volume and tanh limiter against digital overs.
	out := y * dbToGain(d.volume.Value()*distortionVolumeDBRange+distortionVolumeDBOffset)

	return waveshape.Saturate(out, distortionLimiterGain)
}

func (d *Distortion) refreshFilter() {
	cutoff := onepole.LogMap(d.filter.Value(), distortionFilterMinHz, distortionFilterMaxHz)

	before := d.cache.Updates()
	alpha := d.cache.Alpha(cutoff, d.sampleRate)

	if d.cache.Updates() != before {
		for ch := range d.lp {
			d.lp[ch].SetAlpha(alpha)
		}
	}
}
