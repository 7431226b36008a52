// Package ring implements the fractional-delay circular buffer shared by the
// chorus, analog delay, and pitch shifter processors.
package ring
