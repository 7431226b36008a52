// Package onepole provides first-order recursive filter building blocks:
// lowpass, subtractive highpass, and DC blocker sections, plus the
// logarithmic knob-to-cutoff mapping and lazy coefficient caching shared by
// the pedal processors.
package onepole
