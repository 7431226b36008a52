package pedals

import (
	"math"

	"github.com/cwbudde/algo-pedals/dsp/filter/onepole"
	"github.com/cwbudde/algo-pedals/dsp/param"
)

const (
	defaultPhaserRateHz = 0.6
	minPhaserRateHz     = 0.05
	maxPhaserRateHz     = 6.0

	phaserStageCount   = 4
	phaserDepth        = 0.85
	phaserDCCutoffHz   = 20.0
	phaserMinFreqHz    = 5.0
	phaserNyquistRatio = 0.49
)

// phaserBaseFreqs are the fixed center frequencies of the four allpass
// stages, tuned to emulate the Phase 90 ladder.
var phaserBaseFreqs = [phaserStageCount]float64{700, 1000, 1300, 1700}

// allpassStage holds the previous input/output of one first-order allpass
// section: y = -a*x + x1 + a*y1.
type allpassStage struct {
	x1 float64
	y1 float64
}

func (s *allpassStage) process(x, a float64) float64 {
	y := -a*x + s.x1 + a*s.y1
	s.x1 = x
	s.y1 = y

	return y
}

func (s *allpassStage) reset() {
	s.x1 = 0
	s.y1 = 0
}

// Phaser is a Phase 90 style four-stage allpass phaser with a free-running
// sine LFO.
//
// The hardware quirk is preserved: the audio path is ALWAYS wet. The bypass
// parameter exists for host automation and LED state only and never touches
// the signal.
type Phaser struct {
	rate   *param.Float
	bypass *param.Bool

	sampleRate float64
	lfoPhase   []float64

	dc     []onepole.DCBlocker
	stages [][phaserStageCount]allpassStage
}

// NewPhaser creates a phaser with the hardware default speed.
func NewPhaser() *Phaser {
	return &Phaser{
		rate:       param.NewFloat("rate", minPhaserRateHz, maxPhaserRateHz, defaultPhaserRateHz),
		bypass:     param.NewBool("bypass", false),
		sampleRate: 44100,
	}
}

// Name returns the pedal type name.
func (p *Phaser) Name() string { return "phase90" }

// Rate returns the LFO speed parameter in Hz.
func (p *Phaser) Rate() *param.Float { return p.rate }

// Bypass returns the footswitch parameter. Toggling it does not affect the
// audio path.
func (p *Phaser) Bypass() *param.Bool { return p.bypass }

// Params returns the parameter set in preset serialization order.
func (p *Phaser) Params() []param.Param {
	return []param.Param{p.rate, p.bypass}
}

// Prepare sizes per-channel allpass and DC-blocker state and resets it.
func (p *Phaser) Prepare(sampleRate float64, channels int) error {
	err := validatePrepare("phaser", sampleRate, channels)
	if err != nil {
		return err
	}

	p.sampleRate = sampleRate
	p.lfoPhase = make([]float64, channels)
	p.dc = make([]onepole.DCBlocker, channels)
	p.stages = make([][phaserStageCount]allpassStage, channels)

	coeff := onepole.DCBlockCoeff(phaserDCCutoffHz, sampleRate)
	for ch := range p.dc {
		p.dc[ch].SetCoeff(coeff)
	}

	return nil
}

// Reset clears allpass memory and LFO phase without resizing.
func (p *Phaser) Reset() {
	for ch := range p.stages {
		for s := range p.stages[ch] {
			p.stages[ch][s].reset()
		}

		p.dc[ch].Reset()
		p.lfoPhase[ch] = 0
	}
}

// Process transforms each channel in place. The signal is always wet; the
// bypass parameter is intentionally ignored here.
func (p *Phaser) Process(buf [][]float64) {
	for ch := range buf {
		if ch >= len(p.stages) {
			break
		}

		for i := range buf[ch] {
			buf[ch][i] = p.ProcessSample(buf[ch][i], ch)
		}
	}
}

// ProcessSample runs one sample of one channel through the DC blocker and
// the modulated allpass cascade.
func (p *Phaser) ProcessSample(in float64, ch int) float64 {
	lfo := math.Sin(p.lfoPhase[ch])

	p.lfoPhase[ch] += 2 * math.Pi * p.rate.Value() / p.sampleRate
	if p.lfoPhase[ch] >= 2*math.Pi {
		p.lfoPhase[ch] -= 2 * math.Pi
	}

	x := p.dc[ch].Process(in)

	maxFreq := phaserNyquistRatio * p.sampleRate
	for s := range p.stages[ch] {
		f := phaserBaseFreqs[s] * (1 + phaserDepth*lfo)
		if f < phaserMinFreqHz {
			f = phaserMinFreqHz
		} else if f > maxFreq {
			f = maxFreq
		}

		x = p.stages[ch][s].process(x, phaserAllpassCoeff(f, p.sampleRate))
	}

	return x
}

// phaserAllpassCoeff derives a = (1-tan(w/2))/(1+tan(w/2)) with the tangent
// argument clamped away from the singularity.
func phaserAllpassCoeff(freqHz, sampleRate float64) float64 {
	omega := 2 * math.Pi * freqHz / sampleRate

	t := math.Tan(omega * 0.5)
	if t < 1e-8 {
		t = 1e-8
	} else if t > 1e8 {
		t = 1e8
	}

	return (1 - t) / (1 + t)
}
