package tuner

import (
	"fmt"
	"math"
	"sync/atomic"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pedals/dsp/param"
)

const (
	// Capture buffer length. At 44.1 kHz this is ~186 ms of signal, enough
	// for several periods of the lowest detectable fundamental.
	captureLen = 8192

	// Below this RMS the input counts as silence and no pitch is reported.
	silenceRMS = 0.01

	// Candidate fundamental period bounds, as sampleRate/Hz.
	maxDetectHz = 1200.0
	minDetectHz = 60.0

	// Displayable frequency range; estimates outside it are rejected.
	minDisplayHz = 20.0
	maxDisplayHz = 5000.0

	// A4 reference.
	referenceHz   = 440.0
	referenceMIDI = 69

	// A shorter lag within this factor of the best correlation counts as the
	// fundamental rather than the multiple the argmax landed on.
	octaveCorrTolerance = 0.95
)

var (
	noteNamesSharps = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	noteNamesFlats  = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// Detection is one pitch estimate: fundamental frequency, nearest note name,
// and the deviation from it in cents. Valid is false while the input is
// silent or the estimate is outside the displayable range.
type Detection struct {
	Frequency float64
	Note      string
	Cents     float64
	Valid     bool
}

// Tuner is a chromatic tuner. It continuously fills a circular capture
// buffer from the input, estimates the fundamental once per processed block
// via autocorrelation, and publishes the result for a UI-thread reader.
// Audio passes through untouched.
//
// The autocorrelation is the fixed-window form: the first half of the
// capture buffer correlated against the whole buffer, evaluated with an FFT
// plan sized at prepare time (forward, conjugate multiply, inverse), so the
// per-block path stays allocation-free.
type Tuner struct {
	useFlats *param.Bool

	sampleRate float64

	capture  []float64
	writePos int

	plan    *algofft.Plan[complex128]
	fftSize int

	linear  []float64
	halfFFT []complex128
	fullFFT []complex128
	workFFT []complex128
	squares []float64

	result atomic.Pointer[Detection]
}

// New creates a tuner. Prepare must be called before processing.
func New() *Tuner {
	t := &Tuner{
		useFlats:   param.NewBool("useflats", false),
		sampleRate: 44100,
	}
	t.result.Store(&Detection{})

	return t
}

// Name returns the pedal type name.
func (t *Tuner) Name() string { return "tuner" }

// UseFlats returns the flats/sharps display parameter.
func (t *Tuner) UseFlats() *param.Bool { return t.useFlats }

// Params returns the parameter set in preset serialization order.
func (t *Tuner) Params() []param.Param {
	return []param.Param{t.useFlats}
}

// Detection returns the most recent pitch estimate. Safe to call from a
// UI thread while the audio thread is processing.
func (t *Tuner) Detection() Detection {
	return *t.result.Load()
}

// Prepare allocates the capture buffer, FFT plan, and scratch memory for the
// sample rate and resets the capture to silence.
func (t *Tuner) Prepare(sampleRate float64, channels int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("tuner sample rate must be > 0 and finite: %f", sampleRate)
	}

	if channels < 1 {
		return fmt.Errorf("tuner channel count must be >= 1: %d", channels)
	}

	t.sampleRate = sampleRate
	t.capture = make([]float64, captureLen)
	t.writePos = 0

	// Linear cross-correlation of captureLen/2 against captureLen needs
	// captureLen + captureLen/2 - 1 points; the next power of two is 2x.
	t.fftSize = 2 * captureLen

	plan, err := algofft.NewPlan64(t.fftSize)
	if err != nil {
		return fmt.Errorf("tuner: failed to create FFT plan: %w", err)
	}

	t.plan = plan
	t.linear = make([]float64, captureLen)
	t.halfFFT = make([]complex128, t.fftSize)
	t.fullFFT = make([]complex128, t.fftSize)
	t.workFFT = make([]complex128, t.fftSize)
	t.squares = make([]float64, captureLen)

	t.result.Store(&Detection{})

	return nil
}

// Reset clears the capture buffer and the published detection.
func (t *Tuner) Reset() {
	for i := range t.capture {
		t.capture[i] = 0
	}

	t.writePos = 0
	t.result.Store(&Detection{})
}

// Process feeds the first channel into the capture buffer and refreshes the
// pitch estimate once per call. The audio is not modified.
func (t *Tuner) Process(buf [][]float64) {
	if len(buf) == 0 || len(t.capture) == 0 {
		return
	}

	for _, sample := range buf[0] {
		t.capture[t.writePos] = sample

		t.writePos++
		if t.writePos >= captureLen {
			t.writePos = 0
		}
	}

	t.detect()
}

func (t *Tuner) detect() {
	// Linearize oldest-to-newest.
	for i := range t.linear {
		idx := t.writePos + i
		if idx >= captureLen {
			idx -= captureLen
		}

		t.linear[i] = t.capture[idx]
	}

	if t.rms() < silenceRMS {
		t.result.Store(&Detection{})
		return
	}

	minLag := int(t.sampleRate / maxDetectHz)
	maxLag := int(t.sampleRate / minDetectHz)

	if maxLag > captureLen/2 {
		maxLag = captureLen / 2
	}

	if minLag < 1 {
		minLag = 1
	}

	bestLag := t.bestCorrelationLag(minLag, maxLag)
	if bestLag <= 0 {
		t.result.Store(&Detection{})
		return
	}

	freq := t.sampleRate / float64(bestLag)
	t.result.Store(t.toNote(freq))
}

// rms computes the capture RMS with a vectorized square pass.
func (t *Tuner) rms() float64 {
	vecmath.MulBlock(t.squares, t.linear, t.linear)

	sum := 0.0
	for _, s := range t.squares {
		sum += s
	}

	return math.Sqrt(sum / float64(len(t.squares)))
}

// bestCorrelationLag evaluates corr[lag] = sum(x[i]*x[i+lag], i < N/2) for
// every candidate lag via FFT cross-correlation of the buffer's first half
// against the full buffer, and returns the fundamental period: the shortest
// lag whose zero-lag-normalized correlation is within tolerance of the
// maximum.
func (t *Tuner) bestCorrelationLag(minLag, maxLag int) int {
	half := captureLen / 2

	for i := range t.halfFFT {
		t.halfFFT[i] = 0
		t.fullFFT[i] = 0
	}

	for i := 0; i < half; i++ {
		t.halfFFT[i] = complex(t.linear[i], 0)
	}

	for i := 0; i < captureLen; i++ {
		t.fullFFT[i] = complex(t.linear[i], 0)
	}

	err := t.plan.Forward(t.halfFFT, t.halfFFT)
	if err != nil {
		return 0
	}

	err = t.plan.Forward(t.fullFFT, t.fullFFT)
	if err != nil {
		return 0
	}

	// corr = IFFT(conj(HALF) * FULL); lag k lands at index k.
	for i := range t.workFFT {
		h := t.halfFFT[i]
		t.workFFT[i] = complex(real(h), -imag(h)) * t.fullFFT[i]
	}

	err = t.plan.Inverse(t.workFFT, t.workFFT)
	if err != nil {
		return 0
	}

	zeroLag := real(t.workFFT[0])
	if zeroLag <= 0 {
		return 0
	}

	bestLag := 0
	bestCorr := 0.0

	for lag := minLag; lag < maxLag; lag++ {
		corr := real(t.workFFT[lag]) / zeroLag
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 {
		return 0
	}

	// A periodic input correlates at every integer multiple of its period,
	// and the fixed window can tip the raw argmax onto such a multiple.
	// Step down to the shortest divided lag whose own correlation peak is
	// still within tolerance of the maximum; that lag is the fundamental.
	for div := bestLag / minLag; div >= 2; div-- {
		cand := int(math.Round(float64(bestLag) / float64(div)))
		if cand < minLag {
			continue
		}

		lag, corr := t.peakNear(cand, minLag, maxLag, zeroLag)
		if corr >= octaveCorrTolerance*bestCorr {
			return lag
		}
	}

	return bestLag
}

// peakNear returns the highest-correlation lag within a small window around
// cand, with its zero-lag-normalized correlation.
func (t *Tuner) peakNear(cand, minLag, maxLag int, zeroLag float64) (int, float64) {
	lo := cand - 2
	if lo < minLag {
		lo = minLag
	}

	hi := cand + 2
	if hi >= maxLag {
		hi = maxLag - 1
	}

	bestLag := lo
	bestCorr := real(t.workFFT[lo]) / zeroLag

	for lag := lo + 1; lag <= hi; lag++ {
		corr := real(t.workFFT[lag]) / zeroLag
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	return bestLag, bestCorr
}

// toNote converts a frequency estimate to the nearest equal-tempered note
// name and its cents deviation.
func (t *Tuner) toNote(freq float64) *Detection {
	if freq < minDisplayHz || freq > maxDisplayHz {
		return &Detection{}
	}

	midi := referenceMIDI + 12*mathLog2(freq/referenceHz)
	nearest := int(math.Round(midi))

	cents := (midi - float64(nearest)) * 100

	noteInOctave := ((nearest % 12) + 12) % 12
	octave := nearest/12 - 1

	names := &noteNamesSharps
	if t.useFlats.Value() {
		names = &noteNamesFlats
	}

	return &Detection{
		Frequency: freq,
		Note:      fmt.Sprintf("%s%d", names[noteInOctave], octave),
		Cents:     cents,
		Valid:     true,
	}
}
