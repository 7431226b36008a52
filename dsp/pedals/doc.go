// Package pedals implements guitar-pedal effect processors: fuzz,
// distortion, phaser, chorus, analog delay, multi-voice pitch shifter, and
// gain boost.
//
// Every pedal follows the same shape: New<X> constructs the pedal with its
// hardware defaults and owns its parameter set; Prepare (re)sizes and zeroes
// all per-channel state for a sample rate and channel count; Process
// transforms sample buffers in place with no per-call allocation;
// ProcessSample runs one sample on one channel. Parameters are lock-free
// atomic scalars (see the param package) written by a UI/host thread and
// read by the audio thread.
//
// Bypass is a passthrough for every pedal except Phaser, whose hardware
// bypass only switches the LED: the audio path stays wet.
package pedals
