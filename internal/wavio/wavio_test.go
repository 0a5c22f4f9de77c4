package wavio

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/austinkregel/whistler/internal/engine"
)

func TestWriteReadRoundTrip(t *testing.T) {
	const frames, channels, sampleRate = 4410, 2, 44100
	in := engine.Buffer{
		Samples:    make([]float32, frames*channels),
		Frames:     frames,
		Channels:   channels,
		SampleRate: sampleRate,
	}
	for i := 0; i < frames; i++ {
		v := float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate))
		in.Samples[i*channels] = v
		in.Samples[i*channels+1] = v
	}

	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	if err := Write(path, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
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
	if len(out.Samples) != len(in.Samples) {
		t.Fatalf("len(Samples) = %d, want %d", len(out.Samples), len(in.Samples))
	}

	for i := range in.Samples {
		if math.Abs(float64(out.Samples[i]-in.Samples[i])) > 1.0/maxInt16 {
			t.Fatalf("sample %d: got %v, want close to %v", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}
