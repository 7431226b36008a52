package pedals

import (
	"fmt"
	"math"
)

// dbToGain converts decibels to a linear gain factor.
func dbToGain(db float64) float64 {
	return mathPower10(db / 20)
}

// validatePrepare checks the shared Prepare contract.
func validatePrepare(name string, sampleRate float64, channels int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%s sample rate must be > 0 and finite: %f", name, sampleRate)
	}

	if channels < 1 {
		return fmt.Errorf("%s channel count must be >= 1: %d", name, channels)
	}

	return nil
}
