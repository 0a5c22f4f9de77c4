package song

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/austinkregel/whistler/internal/engine"
	"github.com/austinkregel/whistler/internal/wavio"
)

// RenderOptions configures a song render.
type RenderOptions struct {
	// ManifestDir is the directory the manifest file lives in; relative
	// track paths resolve against it.
	ManifestDir string

	// SampleDir is the subdirectory (relative to ManifestDir) that holds
	// input recordings, mirroring chorus.c's fixed "samples/" layout.
	SampleDir string

	// ScratchDir holds one rendered WAV per track before mixdown. It is
	// wiped and owned by Render the same way chorus.c wiped
	// intermediate/*.wav before regenerating it; pass "" to render
	// entirely in memory and skip writing intermediates to disk.
	ScratchDir string

	// MaxWorkers caps how many tracks render concurrently. 0 means
	// runtime.NumCPU().
	MaxWorkers int
}

// trackResult is one track's rendered buffer or the error that prevented it.
type trackResult struct {
	index int
	buf   engine.Buffer
	err   error
}

// Render renders every track in m concurrently and mixes the results
// down to a single buffer at the sample rate of the first successfully
// decoded track.
func Render(ctx context.Context, m *Manifest, opts RenderOptions) (engine.Buffer, error) {
	if opts.ScratchDir != "" {
		if err := wipeScratchDir(opts.ScratchDir); err != nil {
			return engine.Buffer{}, err
		}
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	if maxWorkers > len(m.Tracks) {
		maxWorkers = len(m.Tracks)
	}

	jobs := make(chan int, len(m.Tracks))
	for i := range m.Tracks {
		jobs <- i
	}
	close(jobs)

	results := make([]trackResult, len(m.Tracks))
	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					results[i] = trackResult{index: i, err: ctx.Err()}
					continue
				default:
				}
				buf, err := renderTrack(m.Tracks[i], opts)
				results[i] = trackResult{index: i, buf: buf, err: err}
			}
		}()
	}
	wg.Wait()

	rendered := make([]engine.Buffer, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			return engine.Buffer{}, fmt.Errorf("song: track %d (%s): %w", r.index, m.Tracks[r.index].File, r.err)
		}
		rendered = append(rendered, r.buf)

		if opts.ScratchDir != "" {
			path := filepath.Join(opts.ScratchDir, fmt.Sprintf("%d.wav", r.index))
			if err := wavio.Write(path, r.buf); err != nil {
				return engine.Buffer{}, fmt.Errorf("song: write scratch file %s: %w", path, err)
			}
		}
	}

	return mixdown(rendered)
}

// renderTrack decodes one track's input recording, resynthesizes it with
// its chosen instrument and transposition, and applies its track volume.
func renderTrack(t Track, opts RenderOptions) (engine.Buffer, error) {
	instrument, err := engine.ParseInstrument(t.Instrument)
	if err != nil {
		return engine.Buffer{}, err
	}

	path := resolveSamplePath(opts.ManifestDir, opts.SampleDir, t.File)
	in, err := wavio.Read(path)
	if err != nil {
		return engine.Buffer{}, err
	}

	return engine.Process(in, instrument, t.Transpose, t.Volume)
}

// mixdown sums tracks sample-for-sample, zero-padding shorter tracks to
// the length of the longest, then peak-normalizes so the result never
// clips. This replaces chorus.c's "sox -m", which summed files blindly
// and relied on sox's own headroom handling.
func mixdown(tracks []engine.Buffer) (engine.Buffer, error) {
	if len(tracks) == 0 {
		return engine.Buffer{}, fmt.Errorf("song: no tracks to mix")
	}

	sampleRate := tracks[0].SampleRate
	channels := tracks[0].Channels
	frames := 0
	for _, t := range tracks {
		if t.Channels != channels {
			return engine.Buffer{}, fmt.Errorf("song: channel count mismatch: %d vs %d", t.Channels, channels)
		}
		if t.Frames > frames {
			frames = t.Frames
		}
	}

	mixed := make([]float64, frames*channels)
	for _, t := range tracks {
		for i, s := range t.Samples {
			mixed[i] += float64(s)
		}
	}

	peak := 0.0
	for _, v := range mixed {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	samples := make([]float32, len(mixed))
	if peak > 1.0 {
		scale := 1.0 / peak
		for i, v := range mixed {
			samples[i] = float32(v * scale)
		}
	} else {
		for i, v := range mixed {
			samples[i] = float32(v)
		}
	}

	return engine.Buffer{
		Samples:    samples,
		Frames:     frames,
		Channels:   channels,
		SampleRate: sampleRate,
	}, nil
}

// wipeScratchDir removes the directory with everything in it and
// recreates it empty, the counterpart of chorus.c's
// "rm -f intermediate/*.wav" step; unlike that step, non-WAV files and
// subdirectories are removed too.
func wipeScratchDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("song: clear scratch dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("song: create scratch dir %s: %w", dir, err)
	}
	return nil
}
