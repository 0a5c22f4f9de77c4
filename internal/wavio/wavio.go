// Package wavio reads and writes WAV files, translating between the
// engine's float32 [-1, 1] sample domain and the 16-bit PCM data go-audio
// actually demonstrates encoding in the retrieved reference pack.
package wavio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/austinkregel/whistler/internal/engine"
)

const bitDepth = 16

// maxInt16 is the full-scale magnitude used to convert between float32
// [-1, 1] and signed 16-bit PCM.
const maxInt16 = 32767.0

// Read decodes a WAV file into an engine.Buffer of float32 samples
// normalized to [-1, 1].
func Read(path string) (engine.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.Buffer{}, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a WAV stream from r.
func Decode(r io.Reader) (engine.Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return engine.Buffer{}, fmt.Errorf("wavio: not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return engine.Buffer{}, fmt.Errorf("wavio: read PCM data: %w", err)
	}

	channels := int(decoder.NumChans)
	if channels == 0 {
		channels = buf.Format.NumChannels
	}
	frames := buf.NumFrames()

	var maxVal float64
	switch decoder.BitDepth {
	case 8:
		maxVal = 128.0
	case 24:
		maxVal = 8388608.0
	case 32:
		maxVal = 2147483648.0
	default:
		maxVal = maxInt16
	}

	samples := make([]float32, frames*channels)
	intData := buf.AsIntBuffer().Data
	for i := 0; i < len(samples) && i < len(intData); i++ {
		samples[i] = float32(float64(intData[i]) / maxVal)
	}

	return engine.Buffer{
		Samples:    samples,
		Frames:     frames,
		Channels:   channels,
		SampleRate: int(decoder.SampleRate),
	}, nil
}

// Write encodes buf to a WAV file at path, 16-bit PCM, same channel count
// and sample rate as the buffer.
func Write(path string, buf engine.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Encode(f, buf); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes buf as WAV PCM to w. w must also implement io.Seeker (the
// encoder rewrites the header length fields on Close), which *os.File
// satisfies.
func Encode(w io.WriteSeeker, buf engine.Buffer) error {
	enc := wav.NewEncoder(w, buf.SampleRate, bitDepth, buf.Channels, 1)

	intData := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		v := float64(s) * maxInt16
		if v > maxInt16 {
			v = maxInt16
		}
		if v < -maxInt16-1 {
			v = -maxInt16 - 1
		}
		intData[i] = int(v)
	}

	audioBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: buf.Channels,
			SampleRate:  buf.SampleRate,
		},
		Data:           intData,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(audioBuf); err != nil {
		return fmt.Errorf("wavio: write PCM data: %w", err)
	}
	return enc.Close()
}
