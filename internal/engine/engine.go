package engine

import (
	"fmt"
	"math"
)

// Process is the single entry point of the resynthesis engine: analyzer
// -> synthesizer -> chorus merge -> reverb -> volume, in that order. It is
// a pure function of its arguments — no package-level mutable state, no
// file I/O, no goroutines — so independent calls (e.g. rendering several
// tracks of a song concurrently) never interfere with each other.
func Process(in Buffer, instrument InstrumentID, semitones, volume float64) (Buffer, error) {
	if !instrument.Valid() {
		return Buffer{}, fmt.Errorf("engine: invalid instrument id %d", instrument)
	}
	if in.Channels != 1 && in.Channels != 2 {
		return Buffer{}, fmt.Errorf("engine: unsupported channel count %d", in.Channels)
	}

	if isSilent(in.Samples) || NumWindows(in.Frames) == 0 {
		return NewSilentBuffer(in.Frames, in.Channels, in.SampleRate), nil
	}

	preset := Preset(instrument)

	analyzer := NewAnalyzer(in.SampleRate)
	points := analyzer.Track(in.Mono())

	freqMultiplier := math.Pow(2, semitones/12)
	dry, chorus := render(points, in.Frames, in.Channels, in.SampleRate, instrument, preset, freqMultiplier)

	mergeChorus(dry, chorus, preset.ChorusMix)

	rv := newReverb()
	rv.apply(dry, in.Frames, in.Channels, ReverbParams{Mix: preset.ReverbMix, Decay: DefaultReverbDecay})

	out := NewSilentBuffer(in.Frames, in.Channels, in.SampleRate)
	for i, v := range dry {
		out.Samples[i] = float32(clampSample(v * volume))
	}

	return out, nil
}

func isSilent(samples []float32) bool {
	for _, s := range samples {
		if s != 0 {
			return false
		}
	}
	return true
}

// clampSample keeps a sample finite and within a sane headroom range so
// no stage can ever emit NaN or +/-Inf.
func clampSample(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v > 4 {
		return 4
	}
	if v < -4 {
		return -4
	}
	return v
}
