package onepole

import (
	"math"
	"testing"
)

func TestLowpassAlphaStableAcrossSampleRates(t *testing.T) {
	rates := []float64{8000, 22050, 44100, 48000, 96000, 192000}
	cutoffs := []float64{20, 250, 1000, 6000, 16000}

	for _, fs := range rates {
		for _, fc := range cutoffs {
			alpha := LowpassAlpha(fc, fs)
			if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
				t.Fatalf("LowpassAlpha(%v, %v) = %v, want in [0, 1]", fc, fs, alpha)
			}
		}
	}
}

func TestLowpassAlphaMonotonicInCutoff(t *testing.T) {
	prev := LowpassAlpha(10, 44100)
	for fc := 20.0; fc < 20000; fc *= 2 {
		alpha := LowpassAlpha(fc, 44100)
		if alpha < prev {
			t.Fatalf("alpha not monotonic at %v Hz: %v < %v", fc, alpha, prev)
		}
		prev = alpha
	}
}

func TestDCBlockCoeffRange(t *testing.T) {
	for _, fs := range []float64{8000, 44100, 192000} {
		c := DCBlockCoeff(20, fs)
		if c <= 0 || c >= 1 {
			t.Fatalf("DCBlockCoeff(20, %v) = %v, want in (0, 1)", fs, c)
		}
	}
}

func TestRCHighpassCoeffRange(t *testing.T) {
	c := RCHighpassCoeff(60, 44100)
	if c <= 0.9 || c >= 1 {
		t.Fatalf("RCHighpassCoeff(60, 44100) = %v, want just below 1", c)
	}

	if c := RCHighpassCoeff(0, 44100); c != 0 {
		t.Fatalf("RCHighpassCoeff(0, 44100) = %v, want 0", c)
	}
}

func TestLogMapEndpoints(t *testing.T) {
	if f := LogMap(0, 250, 3500); math.Abs(f-250) > 1e-9 {
		t.Fatalf("LogMap(0) = %v, want 250", f)
	}

	if f := LogMap(1, 250, 3500); math.Abs(f-3500) > 1e-9 {
		t.Fatalf("LogMap(1) = %v, want 3500", f)
	}

	// Midpoint is the geometric mean.
	want := math.Sqrt(250 * 3500)
	if f := LogMap(0.5, 250, 3500); math.Abs(f-want) > 1e-9 {
		t.Fatalf("LogMap(0.5) = %v, want %v", f, want)
	}
}

func TestLowpassConvergesToDC(t *testing.T) {
	var f Lowpass

	f.SetCutoff(1000, 44100)

	y := 0.0
	for i := 0; i < 10000; i++ {
		y = f.Process(1)
	}

	if math.Abs(y-1) > 1e-6 {
		t.Fatalf("lowpass DC response = %v, want 1", y)
	}
}

func TestLowpassResetClearsState(t *testing.T) {
	var f Lowpass

	f.SetAlpha(0.5)

	for i := 0; i < 100; i++ {
		f.Process(1)
	}

	f.Reset()

	if y := f.Process(0); y != 0 {
		t.Fatalf("after reset, Process(0) = %v, want 0", y)
	}
}

func TestHighpassRejectsDC(t *testing.T) {
	var f Highpass

	f.SetCutoff(100, 44100)

	y := 1.0
	for i := 0; i < 10000; i++ {
		y = f.Process(1)
	}

	if math.Abs(y) > 1e-6 {
		t.Fatalf("highpass DC response = %v, want 0", y)
	}
}

func TestDCBlockerRejectsDC(t *testing.T) {
	var f DCBlocker

	f.SetCoeff(DCBlockCoeff(20, 44100))

	y := 1.0
	for i := 0; i < 50000; i++ {
		y = f.Process(1)
	}

	if math.Abs(y) > 1e-4 {
		t.Fatalf("DC blocker steady-state = %v, want near 0", y)
	}
}

func TestCutoffCacheRecomputesOnlyPastEpsilon(t *testing.T) {
	c := NewCutoffCache()

	a1 := c.Alpha(1000, 44100)
	if c.Updates() != 1 {
		t.Fatalf("updates = %d after first call, want 1", c.Updates())
	}

	// Within 1 Hz: cached.
	a2 := c.Alpha(1000.5, 44100)
	if c.Updates() != 1 {
		t.Fatalf("updates = %d after sub-epsilon move, want 1", c.Updates())
	}

	if a2 != a1 {
		t.Fatalf("cached alpha changed: %v vs %v", a2, a1)
	}

	// Past 1 Hz: recomputed.
	a3 := c.Alpha(1010, 44100)
	if c.Updates() != 2 {
		t.Fatalf("updates = %d after past-epsilon move, want 2", c.Updates())
	}

	if a3 == a1 {
		t.Fatal("alpha unchanged after recompute")
	}
}

func TestCutoffCacheResetForcesRecompute(t *testing.T) {
	c := NewCutoffCache()

	c.Alpha(1000, 44100)
	c.Reset()
	c.Alpha(1000, 44100)

	if c.Updates() != 2 {
		t.Fatalf("updates = %d after reset, want 2", c.Updates())
	}
}

func TestCoefficientsFiniteAtExtremes(t *testing.T) {
	values := []float64{
		LowpassAlpha(0, 44100),
		LowpassAlpha(1e9, 44100),
		LowpassAlpha(100, -1),
		DCBlockCoeff(1e9, 44100),
		RCHighpassCoeff(1e9, 44100),
	}

	for i, v := range values {
		if math.IsNaN(v) || v < 0 || v > 1 {
			t.Fatalf("coefficient %d = %v, want finite in [0, 1]", i, v)
		}
	}
}
