package pedals

import (
	"math"

	"github.com/cwbudde/algo-pedals/dsp/filter/onepole"
	"github.com/cwbudde/algo-pedals/dsp/param"
	"github.com/cwbudde/algo-pedals/dsp/ring"
	"github.com/cwbudde/algo-pedals/dsp/waveshape"
)

const (
	defaultPitchBlend = 0.5

	pitchBufferLen = 4096

	// The read heads trail the write head by at least this many samples so
	// a voice never reads not-yet-written data.
	pitchReadGuard = 64

	// Wet-path cleanup filters: a soft lowpass against transient artifacts
	// and an RC highpass removing slow offsets after voice resets.
	pitchLowpassHz  = 8000.0
	pitchHighpassHz = 60.0

	pitchLimiterGain = 5.0
	pitchLimiterTrim = 0.999
)

// pitchVoiceSemis are the fixed voice intervals: +2, +1, -1, -2 octaves.
var pitchVoiceSemis = [4]float64{24, 12, -12, -24}

// pitchVoice is one independent read head over the shared ring buffer.
type pitchVoice struct {
	enabled *param.Bool
	pos     float64
	step    float64
}

// PitchShift is a four-voice octave shifter: all voices read from one shared
// write-once ring buffer with independent fractional read heads, and the
// active voices' outputs are averaged so toggling voices does not change
// loudness.
//
// Controls: blend plus one toggle per voice (+2, +1, -1, -2 octaves), and
// bypass.
type PitchShift struct {
	blend  *param.Float
	up2    *param.Bool
	up1    *param.Bool
	down1  *param.Bool
	down2  *param.Bool
	bypass *param.Bool

	sampleRate float64

	buffers []*ring.Buffer
	voices  [][4]pitchVoice
	lp      []onepole.Lowpass
	hp      []onepole.DCBlocker
}

// NewPitchShift creates a pitch shifter with all voices off and blend at
// half.
func NewPitchShift() *PitchShift {
	p := &PitchShift{
		blend:      param.NewFloat("blend", 0, 1, defaultPitchBlend),
		up2:        param.NewBool("up2", false),
		up1:        param.NewBool("up1", false),
		down1:      param.NewBool("down1", false),
		down2:      param.NewBool("down2", false),
		bypass:     param.NewBool("bypass", false),
		sampleRate: 44100,
	}

	return p
}

// Name returns the pedal type name.
func (p *PitchShift) Name() string { return "pitchshift" }

// Blend returns the dry/wet knob parameter.
func (p *PitchShift) Blend() *param.Float { return p.blend }

// Up2 returns the +2 octave voice toggle.
func (p *PitchShift) Up2() *param.Bool { return p.up2 }

// Up1 returns the +1 octave voice toggle.
func (p *PitchShift) Up1() *param.Bool { return p.up1 }

// Down1 returns the -1 octave voice toggle.
func (p *PitchShift) Down1() *param.Bool { return p.down1 }

// Down2 returns the -2 octave voice toggle.
func (p *PitchShift) Down2() *param.Bool { return p.down2 }

// Bypass returns the bypass footswitch parameter.
func (p *PitchShift) Bypass() *param.Bool { return p.bypass }

// Params returns the parameter set in preset serialization order.
func (p *PitchShift) Params() []param.Param {
	return []param.Param{p.blend, p.up2, p.up1, p.down1, p.down2, p.bypass}
}

// Prepare sizes the per-channel ring buffers and voice/filter state and
// resets everything to silence.
func (p *PitchShift) Prepare(sampleRate float64, channels int) error {
	err := validatePrepare("pitchshift", sampleRate, channels)
	if err != nil {
		return err
	}

	p.sampleRate = sampleRate

	p.buffers = make([]*ring.Buffer, channels)
	p.voices = make([][4]pitchVoice, channels)
	p.lp = make([]onepole.Lowpass, channels)
	p.hp = make([]onepole.DCBlocker, channels)

	toggles := [4]*param.Bool{p.up2, p.up1, p.down1, p.down2}
	startPos := float64(ring.WrapIndex(-pitchReadGuard, pitchBufferLen))

	for ch := range p.buffers {
		p.buffers[ch], err = ring.New(pitchBufferLen)
		if err != nil {
			return err
		}

		for v := range p.voices[ch] {
			p.voices[ch][v] = pitchVoice{
				enabled: toggles[v],
				pos:     startPos,
				step:    mathPower2(pitchVoiceSemis[v] / 12),
			}
		}

		p.lp[ch].SetCutoff(pitchLowpassHz, sampleRate)
		p.hp[ch].SetCoeff(onepole.RCHighpassCoeff(pitchHighpassHz, sampleRate))
	}

	return nil
}

// Reset clears buffers, read heads, and cleanup filter state without
// resizing.
func (p *PitchShift) Reset() {
	startPos := float64(ring.WrapIndex(-pitchReadGuard, pitchBufferLen))

	for ch := range p.buffers {
		p.buffers[ch].Reset()
		p.lp[ch].Reset()
		p.hp[ch].Reset()

		for v := range p.voices[ch] {
			p.voices[ch][v].pos = startPos
		}
	}
}

// Process transforms each channel in place. Bypass is a passthrough.
func (p *PitchShift) Process(buf [][]float64) {
	if p.bypass.Value() {
		return
	}

	for ch := range buf {
		if ch >= len(p.buffers) {
			break
		}

		for i := range buf[ch] {
			buf[ch][i] = p.ProcessSample(buf[ch][i], ch)
		}
	}
}

// ProcessSample writes one input sample at the write head, advances every
// active voice, and blends the averaged wet signal with the dry input.
func (p *PitchShift) ProcessSample(in float64, ch int) float64 {
	b := p.buffers[ch]
	b.Write(in)

	sum := 0.0
	active := 0

	behind := float64(ring.WrapIndex(b.WriteIndex()-pitchReadGuard, pitchBufferLen))

	for v := range p.voices[ch] {
		voice := &p.voices[ch][v]
		if !voice.enabled.Value() {
			continue
		}

		// Keep the read head within half a buffer of the guarded write
		// position. This blocks reads of not-yet-written samples and
		// damps the discontinuity when a voice is toggled on.
		diff := voice.pos - behind
		if diff > pitchBufferLen*0.5 || diff < -pitchBufferLen*0.5 {
			voice.pos = behind
		}

		sum += b.ReadAt(voice.pos)

		voice.pos += voice.step
		if voice.pos >= pitchBufferLen {
			voice.pos = math.Mod(voice.pos, pitchBufferLen)
		}

		active++
	}

	// Average, not sum: enabling voices must not change overall loudness.
	wet := 0.0
	if active > 0 {
		wet = sum / float64(active)
	}

	wet = p.lp[ch].Process(wet)
	wet = p.hp[ch].Process(wet)

	blend := p.blend.Value()
	out := in*(1-blend) + wet*blend

	return waveshape.Saturate(out, pitchLimiterGain) * pitchLimiterTrim
}
