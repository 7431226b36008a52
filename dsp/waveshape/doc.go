// Package waveshape provides the stateless nonlinear shaping primitives used
// by the pedal processors: diode-style soft clipping and tanh saturation.
//
// All functions are pure, branch-light, and allocation-free, suitable for
// per-sample execution at audio rates.
package waveshape
