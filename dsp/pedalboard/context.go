package pedalboard

// Context carries the audio configuration shared by every pedal on a board.
type Context struct {
	SampleRate   float64
	Channels     int
	MaxBlockSize int
}

// DefaultContext returns a stereo 44.1 kHz context with a 512-sample block.
func DefaultContext() Context {
	return Context{
		SampleRate:   44100,
		Channels:     2,
		MaxBlockSize: 512,
	}
}
