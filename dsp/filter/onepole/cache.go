package onepole

import "math"

// cutoffEpsilonHz is the minimum cutoff movement that triggers a coefficient
// recomputation. Keeps exp out of the per-sample path while remaining
// responsive to parameter automation.
const cutoffEpsilonHz = 1.0

// CutoffCache lazily recomputes a lowpass coefficient from a mapped cutoff
// frequency. The coefficient is refreshed only when the cutoff has moved by
// more than 1 Hz since the last computation.
type CutoffCache struct {
	lastHz  float64
	alpha   float64
	updates int
}

// NewCutoffCache returns a cache primed so that the first Alpha call always
// computes.
func NewCutoffCache() CutoffCache {
	return CutoffCache{lastHz: -1}
}

// Alpha returns the lowpass coefficient for cutoffHz, recomputing it only if
// the cutoff moved by more than 1 Hz.
func (c *CutoffCache) Alpha(cutoffHz, sampleRate float64) float64 {
	if math.Abs(cutoffHz-c.lastHz) > cutoffEpsilonHz {
		c.lastHz = cutoffHz
		c.alpha = LowpassAlpha(cutoffHz, sampleRate)
		c.updates++
	}

	return c.alpha
}

// Updates returns how many times the coefficient has been recomputed.
func (c *CutoffCache) Updates() int { return c.updates }

// Reset forces the next Alpha call to recompute.
func (c *CutoffCache) Reset() {
	c.lastHz = -1
}
