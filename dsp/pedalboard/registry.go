package pedalboard

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pedals/dsp/pedals"
	"github.com/cwbudde/algo-pedals/dsp/tuner"
)

// Factory builds one pedal instance.
type Factory func() Pedal

// Registry maps pedal type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicatePedal = errors.New("duplicate pedal type")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given pedal type.
func (r *Registry) Register(pedalType string, factory Factory) error {
	if pedalType == "" {
		return errors.New("empty pedal type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[pedalType]; exists {
		return fmt.Errorf("%w: %s", errDuplicatePedal, pedalType)
	}

	r.factories[pedalType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(pedalType string, factory Factory) {
	err := r.Register(pedalType, factory)
	if err != nil {
		panic("pedalboard registry: " + err.Error())
	}
}

// Lookup returns the factory for the given pedal type, or nil.
func (r *Registry) Lookup(pedalType string) Factory {
	return r.factories[pedalType]
}

// New builds a pedal by type name.
func (r *Registry) New(pedalType string) (Pedal, error) {
	factory := r.Lookup(pedalType)
	if factory == nil {
		return nil, fmt.Errorf("unknown pedal type: %s", pedalType)
	}

	return factory(), nil
}

// DefaultRegistry returns a registry with every built-in pedal registered
// under its type name.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("bigmuff", func() Pedal { return pedals.NewFuzz() })
	r.MustRegister("rat", func() Pedal { return pedals.NewDistortion() })
	r.MustRegister("phase90", func() Pedal { return pedals.NewPhaser() })
	r.MustRegister("ce2", func() Pedal { return pedals.NewChorus() })
	r.MustRegister("analogdelay", func() Pedal { return pedals.NewDelay() })
	r.MustRegister("pitchshift", func() Pedal { return pedals.NewPitchShift() })
	r.MustRegister("microamp", func() Pedal { return pedals.NewBoost() })
	r.MustRegister("tuner", func() Pedal { return tuner.New() })

	return r
}
