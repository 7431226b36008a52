// Package tuner implements a chromatic tuner: an autocorrelation pitch
// estimator over a circular capture buffer, with note-name and cents
// conversion for display. The audio path is a passthrough.
package tuner
