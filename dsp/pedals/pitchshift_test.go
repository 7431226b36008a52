package pedals

import (
	"testing"

	"github.com/cwbudde/algo-pedals/internal/testutil"
)

func TestPitchShiftNoVoicesNoWet(t *testing.T) {
	// All voices off: the wet path is silent, so blend 1 outputs silence.
	p := NewPitchShift()
	if err := p.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	p.Blend().SetValue(1)

	buf := testutil.Channels(testutil.DeterministicSine(440, 44100, 0.5, 2048), 1)
	p.Process(buf)

	// The wet cleanup filters see only zeros.
	if m := testutil.MaxAbs(buf[0]); m > 1e-9 {
		t.Fatalf("voiceless wet path produced output %v", m)
	}
}

func TestPitchShiftVoiceToggleChangesOutput(t *testing.T) {
	in := testutil.DeterministicSine(440, 44100, 0.3, 8192)

	off := NewPitchShift()
	if err := off.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	on := NewPitchShift()
	if err := on.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	on.Up1().SetValue(true)

	offBuf := testutil.Channels(in, 1)
	off.Process(offBuf)

	onBuf := testutil.Channels(in, 1)
	on.Process(onBuf)

	diff, err := testutil.MaxAbsDiff(offBuf[0], onBuf[0])
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}

	if diff < 1e-4 {
		t.Fatal("enabling a voice did not change the output")
	}

	testutil.RequireFinite(t, onBuf[0])
}

func TestPitchShiftAveragingKeepsLevel(t *testing.T) {
	// Voice outputs are averaged, so enabling more voices must not grow the
	// output far beyond a single voice.
	in := testutil.DeterministicSine(440, 44100, 0.3, 8192)

	one := NewPitchShift()
	if err := one.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	one.Down1().SetValue(true)

	all := NewPitchShift()
	if err := all.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	all.Up2().SetValue(true)
	all.Up1().SetValue(true)
	all.Down1().SetValue(true)
	all.Down2().SetValue(true)

	oneBuf := testutil.Channels(in, 1)
	one.Process(oneBuf)

	allBuf := testutil.Channels(in, 1)
	all.Process(allBuf)

	if rms(allBuf[0]) > rms(oneBuf[0])*2 {
		t.Fatalf("four voices rms %v far above one voice rms %v",
			rms(allBuf[0]), rms(oneBuf[0]))
	}
}

func TestPitchShiftAllVoicesBounded(t *testing.T) {
	p := NewPitchShift()
	if err := p.Prepare(48000, 2); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	p.Blend().SetValue(1)
	p.Up2().SetValue(true)
	p.Up1().SetValue(true)
	p.Down1().SetValue(true)
	p.Down2().SetValue(true)

	for block := 0; block < 32; block++ {
		buf := testutil.Channels(testutil.DeterministicNoise(int64(block), 1, 512), 2)
		p.Process(buf)

		for ch := range buf {
			testutil.RequireBounded(t, buf[ch], outputBound)
		}
	}
}
