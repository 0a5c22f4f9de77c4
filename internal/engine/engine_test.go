package engine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

func sineBuffer(freq float64, seconds float64, sampleRate, channels int, amplitude float64) Buffer {
	frames := int(seconds * float64(sampleRate))
	samples := make([]float32, frames*channels)
	for i := 0; i < frames; i++ {
		v := float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		for ch := 0; ch < channels; ch++ {
			samples[i*channels+ch] = v
		}
	}
	return Buffer{Samples: samples, Frames: frames, Channels: channels, SampleRate: sampleRate}
}

// dominantFrequency runs a single large FFT over the first channel and
// returns the frequency of the highest-magnitude bin at or above 50 Hz.
func dominantFrequency(t *testing.T, buf Buffer) float64 {
	t.Helper()
	n := 1
	for n < buf.Frames {
		n *= 2
	}
	mono := make([]float64, n)
	for i := 0; i < buf.Frames; i++ {
		mono[i] = float64(buf.Samples[i*buf.Channels])
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, mono)

	maxMag := 0.0
	maxBin := 0
	for k := 1; k < n/2; k++ {
		freq := float64(k) * float64(buf.SampleRate) / float64(n)
		if freq < 50 {
			continue
		}
		re, im := real(coeffs[k]), imag(coeffs[k])
		mag := math.Sqrt(re*re + im*im)
		if mag > maxMag {
			maxMag = mag
			maxBin = k
		}
	}
	return float64(maxBin) * float64(buf.SampleRate) / float64(n)
}

func TestSilencePreservation(t *testing.T) {
	for _, frames := range []int{0, 1, 100, 5000} {
		in := NewSilentBuffer(frames, 2, 44100)
		out, err := Process(in, InstrumentPad, 0, 1)
		if err != nil {
			t.Fatalf("frames=%d: %v", frames, err)
		}
		if out.Frames != in.Frames || out.Channels != in.Channels {
			t.Fatalf("frames=%d: shape changed: got %d/%d want %d/%d", frames, out.Frames, out.Channels, in.Frames, in.Channels)
		}
		for i, v := range out.Samples {
			if v != 0 {
				t.Fatalf("frames=%d: sample %d = %v, want 0", frames, i, v)
			}
		}
	}
}

func TestShapePreservation(t *testing.T) {
	in := sineBuffer(440, 0.75, 44100, 2, 0.5)
	out, err := Process(in, InstrumentStrings, 3, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	if out.Frames != in.Frames {
		t.Errorf("Frames = %d, want %d", out.Frames, in.Frames)
	}
	if out.Channels != in.Channels {
		t.Errorf("Channels = %d, want %d", out.Channels, in.Channels)
	}
	if out.SampleRate != in.SampleRate {
		t.Errorf("SampleRate = %d, want %d", out.SampleRate, in.SampleRate)
	}
}

func TestNumericSanityAcrossInstruments(t *testing.T) {
	in := sineBuffer(300, 0.5, 44100, 1, 0.7)
	for id := InstrumentPad; id <= InstrumentAcid; id++ {
		out, err := Process(in, id, -12, 2)
		if err != nil {
			t.Fatalf("instrument %v: %v", id, err)
		}
		for i, v := range out.Samples {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("instrument %v: sample %d is non-finite: %v", id, i, v)
			}
		}
	}
}

func TestTranspositionIdentity(t *testing.T) {
	in := sineBuffer(440, 1.0, 44100, 1, 0.6)
	out, err := Process(in, InstrumentOrgan, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	dom := dominantFrequency(t, out)
	if math.Abs(dom-440) > 44100.0/4096.0*2 { // about 21.5 Hz of slack
		t.Errorf("dominant frequency = %v, want close to 440", dom)
	}
}

func TestTranspositionLinearity(t *testing.T) {
	in := sineBuffer(440, 1.0, 44100, 1, 0.6)

	base, err := Process(in, InstrumentOrgan, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	up, err := Process(in, InstrumentOrgan, 12, 1)
	if err != nil {
		t.Fatal(err)
	}

	domBase := dominantFrequency(t, base)
	domUp := dominantFrequency(t, up)

	ratio := domUp / domBase
	if math.Abs(ratio-2.0) > 0.1 {
		t.Errorf("dominant frequency ratio after +12 semitones = %v, want close to 2.0", ratio)
	}
}

func TestVolumeLinearity(t *testing.T) {
	in := sineBuffer(440, 0.3, 44100, 1, 0.5)

	out1, err := Process(in, InstrumentBell, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := Process(in, InstrumentBell, 0, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := range out1.Samples {
		v1 := float64(out1.Samples[i])
		v2 := float64(out2.Samples[i])
		want := v1 * 2
		// Allow for the engine's headroom clamp saturating either side.
		if math.Abs(want) <= 3.9 && math.Abs(v2-want) > 1e-4 {
			t.Fatalf("sample %d: doubling volume gave %v, want %v (from %v)", i, v2, want, v1)
		}
	}
}

func TestDeterminism(t *testing.T) {
	in := sineBuffer(523.25, 0.4, 44100, 1, 0.5)

	out1, err := Process(in, InstrumentFlute, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := Process(in, InstrumentFlute, 5, 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(out1.Samples) != len(out2.Samples) {
		t.Fatalf("length mismatch: %d vs %d", len(out1.Samples), len(out2.Samples))
	}
	for i := range out1.Samples {
		if out1.Samples[i] != out2.Samples[i] {
			t.Fatalf("sample %d differs between identical runs: %v vs %v", i, out1.Samples[i], out2.Samples[i])
		}
	}
}

func TestInvalidInstrumentIsError(t *testing.T) {
	in := sineBuffer(440, 0.1, 44100, 1, 0.5)
	if _, err := Process(in, InstrumentID(42), 0, 1); err == nil {
		t.Error("expected error for invalid instrument id")
	}
}

func TestUnsupportedChannelCountIsError(t *testing.T) {
	in := Buffer{Samples: make([]float32, 30), Frames: 10, Channels: 3, SampleRate: 44100}
	if _, err := Process(in, InstrumentPad, 0, 1); err == nil {
		t.Error("expected error for unsupported channel count")
	}
}

func TestAnalyzerSweepTracksFrequency(t *testing.T) {
	const sampleRate = 44100
	const seconds = 1.0
	frames := int(seconds * sampleRate)
	samples := make([]float32, frames)
	phase := 0.0
	for i := 0; i < frames; i++ {
		freq := 300 + (1000-300)*float64(i)/float64(frames)
		samples[i] = float32(0.6 * math.Sin(phase))
		phase += 2 * math.Pi * freq / sampleRate
	}
	in := Buffer{Samples: samples, Frames: frames, Channels: 1, SampleRate: sampleRate}

	a := NewAnalyzer(sampleRate)
	points := a.Track(in.Mono())

	for w, p := range points {
		if p.Amplitude < ampThreshold {
			continue
		}
		center := w*hopSize + windowSize/2
		expected := 300 + (1000-300)*float64(center)/float64(frames)
		if math.Abs(p.Frequency-expected)/expected > 0.05 {
			t.Errorf("window %d: tracked %v, expected near %v (5%% band)", w, p.Frequency, expected)
		}
	}
}
