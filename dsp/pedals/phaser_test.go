package pedals

import (
	"testing"

	"github.com/cwbudde/algo-pedals/internal/testutil"
)

func TestPhaserAlwaysWet(t *testing.T) {
	// The bypass switch never touches the audio path: engaged and bypassed
	// instances must produce identical output.
	in := testutil.DeterministicNoise(5, 0.5, 2048)

	engaged := NewPhaser()
	if err := engaged.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	bypassed := NewPhaser()
	if err := bypassed.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	bypassed.Bypass().SetValue(true)

	engagedBuf := testutil.Channels(in, 1)
	engaged.Process(engagedBuf)

	bypassedBuf := testutil.Channels(in, 1)
	bypassed.Process(bypassedBuf)

	testutil.RequireSliceNearlyEqual(t, bypassedBuf[0], engagedBuf[0], 0)
}

func TestPhaserModulatesSignal(t *testing.T) {
	p := NewPhaser()
	if err := p.Prepare(44100, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	in := testutil.DeterministicSine(1000, 44100, 0.5, 8192)
	buf := testutil.Channels(in, 1)
	p.Process(buf)

	diff, err := testutil.MaxAbsDiff(buf[0], in)
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}

	if diff < 1e-3 {
		t.Fatal("phaser left the signal essentially unchanged")
	}

	testutil.RequireFinite(t, buf[0])
}

func TestPhaserStableAtRateExtremes(t *testing.T) {
	for _, rate := range []float64{0.05, 6} {
		p := NewPhaser()
		if err := p.Prepare(96000, 2); err != nil {
			t.Fatalf("Prepare: %v", err)
		}

		p.Rate().SetValue(rate)

		for block := 0; block < 8; block++ {
			buf := testutil.Channels(testutil.DeterministicNoise(int64(block), 0.5, 512), 2)
			p.Process(buf)

			for ch := range buf {
				testutil.RequireFinite(t, buf[ch])
			}
		}
	}
}

func TestPhaserAllpassCoeffInRange(t *testing.T) {
	for _, fs := range []float64{8000, 44100, 192000} {
		for _, f := range []float64{5, 700, 1700, 0.49 * fs} {
			a := phaserAllpassCoeff(f, fs)
			if a <= -1 || a >= 1 {
				t.Fatalf("coeff(%v, %v) = %v, want in (-1, 1)", f, fs, a)
			}
		}
	}
}
