package pedals

import (
	"testing"

	"github.com/cwbudde/algo-pedals/internal/testutil"
)

func TestFuzzSustainRaisesLevel(t *testing.T) {
	in := testutil.DeterministicSine(220, 44100, 0.05, 4096)

	quiet := NewFuzz()
	if err := quiet.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	quiet.Sustain().SetValue(0)

	loud := NewFuzz()
	if err := loud.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	loud.Sustain().SetValue(1)

	quietBuf := testutil.Channels(in, 1)
	quiet.Process(quietBuf)

	loudBuf := testutil.Channels(in, 1)
	loud.Process(loudBuf)

	if rms(loudBuf[0]) <= rms(quietBuf[0]) {
		t.Fatalf("sustain 1 rms %v not above sustain 0 rms %v",
			rms(loudBuf[0]), rms(quietBuf[0]))
	}
}

func TestFuzzToneShapesOutput(t *testing.T) {
	in := testutil.DeterministicSine(2000, 44100, 0.2, 4096)

	dark := NewFuzz()
	if err := dark.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	dark.Tone().SetValue(0)

	bright := NewFuzz()
	if err := bright.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	bright.Tone().SetValue(1)

	darkBuf := testutil.Channels(in, 1)
	dark.Process(darkBuf)

	brightBuf := testutil.Channels(in, 1)
	bright.Process(brightBuf)

	diff, err := testutil.MaxAbsDiff(darkBuf[0], brightBuf[0])
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}

	if diff < 1e-6 {
		t.Fatal("tone knob extremes produced identical output")
	}
}

func TestFuzzDistortsLoudInput(t *testing.T) {
	f := NewFuzz()
	if err := f.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	in := testutil.DeterministicSine(440, 44100, 0.5, 2048)
	buf := testutil.Channels(in, 1)
	f.Process(buf)

	diff, err := testutil.MaxAbsDiff(buf[0], in)
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}

	if diff < 1e-3 {
		t.Fatal("fuzz left a loud sine essentially unchanged")
	}

	testutil.RequireFinite(t, buf[0])
}
