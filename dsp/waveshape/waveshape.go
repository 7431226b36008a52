package waveshape

import "math"

// DiodeClip applies a smooth diode-like knee around ±threshold. Input passes
// unchanged while |x| <= threshold-knee; beyond that the excess is compressed
// through a tanh-weighted knee, preserving sign. The compression is strongest
// just past the knee and fades for large overdrive, so a tanh stage after it
// provides the hard bound. The curve has no hard clipping corner.
func DiodeClip(x, threshold, knee float64) float64 {
	ax := math.Abs(x)
	if ax <= threshold-knee {
		return x
	}

	over := ax - (threshold - knee)
	clampAmount := math.Tanh(over/knee) * over
	outAbs := (threshold - knee) + clampAmount

	return math.Copysign(outAbs, x)
}

// Saturate is a tanh gain stage: tanh(gain*x). Used both as an op-amp
// emulation and as a final limiter before output.
func Saturate(x, gain float64) float64 {
	return math.Tanh(gain * x)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}

	if x > hi {
		return hi
	}

	return x
}

// ClampUnit limits x to [-1, 1].
func ClampUnit(x float64) float64 {
	return Clamp(x, -1, 1)
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
