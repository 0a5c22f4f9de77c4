package engine

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyzer slides a Hann-windowed FFT over a mono sample stream and emits
// one FrequencyPoint per window. It always applies peak interpolation and
// the stability/silence/hysteresis state machine: there is a single
// unified analyzer, not a "fast" path and a "quality" path, because the
// unsmoothed variant audibly glitches on real input.
type Analyzer struct {
	fft        *fourier.FFT
	window     []float64
	sampleRate int

	lastValidFrequency float64
	stabilityCounter   int
	silentWindows      int
}

// NewAnalyzer creates an Analyzer for the given sample rate. All state is
// local to one Analyzer value; nothing is shared across invocations.
func NewAnalyzer(sampleRate int) *Analyzer {
	win := make([]float64, windowSize)
	for i := range win {
		win[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(windowSize-1)))
	}
	return &Analyzer{
		fft:        fourier.NewFFT(windowSize),
		window:     win,
		sampleRate: sampleRate,
	}
}

// Track runs the full sliding-window analysis over mono and returns
// exactly NumWindows(len(mono)) FrequencyPoints.
func (a *Analyzer) Track(mono []float64) []FrequencyPoint {
	w := NumWindows(len(mono))
	points := make([]FrequencyPoint, w)

	windowed := make([]float64, windowSize)
	for i := 0; i < w; i++ {
		start := i * hopSize
		for j := 0; j < windowSize; j++ {
			windowed[j] = mono[start+j] * a.window[j]
		}

		freq, amp := a.analyzeWindow(windowed)
		points[i] = a.smooth(freq, amp)
	}
	return points
}

// analyzeWindow computes the FFT of one Hann-windowed buffer and returns
// the interpolated fundamental frequency (0 if none found in range) and
// its normalized amplitude.
func (a *Analyzer) analyzeWindow(windowed []float64) (frequency, amplitude float64) {
	coeffs := a.fft.Coefficients(nil, windowed)

	maxBin := 0
	maxMag := 0.0
	for k := 1; k <= windowSize/2; k++ {
		freq := float64(k) * float64(a.sampleRate) / float64(windowSize)
		if freq < minFrequency || freq > maxFrequency {
			continue
		}
		mag := cmplxAbs(coeffs[k])
		if mag > maxMag {
			maxMag = mag
			maxBin = k
		}
	}

	if maxBin == 0 {
		return 0, 0
	}

	refinedBin := float64(maxBin)
	if maxBin > 0 && maxBin < windowSize/2 {
		alpha := cmplxAbs(coeffs[maxBin-1])
		beta := maxMag
		gamma := cmplxAbs(coeffs[maxBin+1])
		denom := alpha - 2*beta + gamma
		if denom != 0 {
			refinedBin += 0.5 * (alpha - gamma) / denom
		}
	}

	frequency = refinedBin * float64(a.sampleRate) / float64(windowSize)
	amplitude = clamp01(maxMag / ampScale)
	return frequency, amplitude
}

func cmplxAbs(c complex128) float64 {
	re, im := real(c), imag(c)
	return math.Sqrt(re*re + im*im)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// smooth applies the stability/silence/hysteresis state machine to one
// window's raw detection, per the web variant's design.
func (a *Analyzer) smooth(frequency, amplitude float64) FrequencyPoint {
	inRange := frequency >= minFrequency && frequency <= maxFrequency

	if amplitude < ampThreshold || !inRange {
		a.silentWindows++
		if a.silentWindows > silenceCount {
			amplitude = 0
		}
		return FrequencyPoint{Frequency: a.lastValidFrequency, Amplitude: amplitude}
	}
	a.silentWindows = 0

	if a.lastValidFrequency > 0 &&
		(frequency < a.lastValidFrequency*(1-freqHysteresis) ||
			frequency > a.lastValidFrequency*(1+freqHysteresis)) {
		a.stabilityCounter++
		if a.stabilityCounter < stabilityFrames {
			frequency = a.lastValidFrequency
		} else {
			a.stabilityCounter = 0
			a.lastValidFrequency = frequency
		}
	} else {
		a.stabilityCounter = 0
		a.lastValidFrequency = frequency
	}

	return FrequencyPoint{Frequency: frequency, Amplitude: amplitude}
}
