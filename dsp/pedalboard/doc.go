// Package pedalboard wires individual pedals into a serial processing
// chain: the Pedal interface, a type-name registry with factories, a Board
// that runs pedals in order over shared buffers, and flat float preset
// serialization.
package pedalboard
