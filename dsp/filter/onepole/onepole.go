package onepole

import "math"

// LowpassAlpha computes the one-pole lowpass coefficient
// alpha = 1 - exp(-2*pi*fc/fs), clamped to [0, 1] to guard against invalid
// sample rates or extreme cutoff values.
func LowpassAlpha(cutoffHz, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 1
	}

	alpha := 1 - math.Exp(-2*math.Pi*cutoffHz/sampleRate)

	return clampCoeff(alpha)
}

// DCBlockCoeff computes the DC-blocker feedback coefficient
// c = exp(-2*pi*fc/fs), clamped to [0, 1].
func DCBlockCoeff(cutoffHz, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	c := math.Exp(-2 * math.Pi * cutoffHz / sampleRate)

	return clampCoeff(c)
}

// RCHighpassCoeff computes the first-order RC highpass coefficient
// c = rc/(rc+dt) with rc = 1/(2*pi*fc) and dt = 1/fs, clamped to [0, 1].
func RCHighpassCoeff(cutoffHz, sampleRate float64) float64 {
	if sampleRate <= 0 || cutoffHz <= 0 {
		return 0
	}

	dt := 1 / sampleRate
	rc := 1 / (2 * math.Pi * cutoffHz)

	return clampCoeff(rc / (rc + dt))
}

// LogMap maps a knob position t in [0, 1] onto [minHz, maxHz] with a
// logarithmic curve: minHz * (maxHz/minHz)^t. This matches perceived sweep
// behavior of analog tone and delay-time controls.
func LogMap(t, minHz, maxHz float64) float64 {
	return minHz * math.Pow(maxHz/minHz, t)
}

// Lowpass is a single-accumulator one-pole lowpass:
// y[n] = alpha*x[n] + (1-alpha)*y[n-1].
type Lowpass struct {
	alpha float64
	state float64
}

// SetAlpha sets the smoothing coefficient, clamped to [0, 1].
func (f *Lowpass) SetAlpha(alpha float64) {
	f.alpha = clampCoeff(alpha)
}

// SetCutoff derives and sets alpha from a cutoff frequency.
func (f *Lowpass) SetCutoff(cutoffHz, sampleRate float64) {
	f.alpha = LowpassAlpha(cutoffHz, sampleRate)
}

// Alpha returns the current coefficient.
func (f *Lowpass) Alpha() float64 { return f.alpha }

// Process filters one sample and updates the accumulator.
func (f *Lowpass) Process(x float64) float64 {
	f.state = f.alpha*x + (1-f.alpha)*f.state
	return f.state
}

// Reset clears the accumulator.
func (f *Lowpass) Reset() {
	f.state = 0
}

// Highpass is a one-pole highpass implemented by subtraction:
// high = x - lowpass(x). This both DC-blocks and removes rumble with a
// single filter topology.
type Highpass struct {
	lp Lowpass
}

// SetAlpha sets the underlying lowpass coefficient.
func (f *Highpass) SetAlpha(alpha float64) {
	f.lp.SetAlpha(alpha)
}

// SetCutoff derives the coefficient from a cutoff frequency.
func (f *Highpass) SetCutoff(cutoffHz, sampleRate float64) {
	f.lp.SetCutoff(cutoffHz, sampleRate)
}

// Process filters one sample.
func (f *Highpass) Process(x float64) float64 {
	return x - f.lp.Process(x)
}

// Reset clears filter state.
func (f *Highpass) Reset() {
	f.lp.Reset()
}

// DCBlocker is a first-order DC-blocking highpass:
// y[n] = c*(y[n-1] + x[n] - x[n-1]).
type DCBlocker struct {
	coeff float64
	x1    float64
	y1    float64
}

// SetCoeff sets the feedback coefficient, clamped to [0, 1].
func (f *DCBlocker) SetCoeff(c float64) {
	f.coeff = clampCoeff(c)
}

// Process filters one sample and updates state.
func (f *DCBlocker) Process(x float64) float64 {
	y := f.coeff * (f.y1 + x - f.x1)
	f.x1 = x
	f.y1 = y

	return y
}

// Reset clears filter state.
func (f *DCBlocker) Reset() {
	f.x1 = 0
	f.y1 = 0
}

func clampCoeff(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}

	if c > 1 {
		return 1
	}

	return c
}
