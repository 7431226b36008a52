package pedalboard

import "fmt"

// SavePreset captures a pedal's parameters as a flat slice of raw values,
// in the pedal's declared parameter order. Bool parameters serialize as
// 0 or 1.
func SavePreset(p Pedal) []float64 {
	params := p.Params()
	values := make([]float64, len(params))

	for i, pr := range params {
		values[i] = pr.Raw()
	}

	return values
}

// LoadPreset restores a pedal's parameters from a flat slice previously
// produced by SavePreset. The value count must match the pedal's parameter
// count exactly.
func LoadPreset(p Pedal, values []float64) error {
	params := p.Params()
	if len(values) != len(params) {
		return fmt.Errorf("preset for %s: got %d values, want %d",
			p.Name(), len(values), len(params))
	}

	for i, pr := range params {
		pr.SetRaw(values[i])
	}

	return nil
}
