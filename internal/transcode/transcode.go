// Package transcode decodes non-WAV input (mp3, flac, and anything else
// ffmpeg understands) into the engine's float32 sample domain, by
// shelling out to ffmpeg the same way the teacher's FFmpegDecoder does
// for its playback pipeline.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/austinkregel/whistler/internal/engine"
	"github.com/austinkregel/whistler/internal/wavio"
)

// Decoder transcodes arbitrary audio files to PCM via ffmpeg.
type Decoder struct {
	ffmpegPath  string
	ffprobePath string
}

// NewDecoder locates ffmpeg and ffprobe in PATH.
func NewDecoder() (*Decoder, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("transcode: ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("transcode: ffprobe not found in PATH: %w", err)
	}
	return &Decoder{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// Decode transcodes path to a float32 engine.Buffer at sampleRate/channels
// by piping ffmpeg's WAV output straight into wavio.
func (d *Decoder) Decode(ctx context.Context, path string, sampleRate, channels int) (engine.Buffer, error) {
	args := []string{
		"-i", path,
		"-f", "wav",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"-",
	}

	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return engine.Buffer{}, fmt.Errorf("transcode: ffmpeg failed on %s: %w", path, err)
	}

	return wavio.Decode(bytes.NewReader(out.Bytes()))
}

// Duration returns a file's playback duration via ffprobe.
func (d *Decoder) Duration(path string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.Command(d.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("transcode: ffprobe failed: %w", err)
	}

	durationSec, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("transcode: parse ffprobe duration: %w", err)
	}
	return time.Duration(durationSec * float64(time.Second)), nil
}
