// Package main is the entry point for whistler, a command-line tool that
// turns a whistled or hummed recording into a polyphonic-sounding
// rendering in one of ten instrument voices.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/austinkregel/whistler/internal/config"
	"github.com/austinkregel/whistler/internal/engine"
	"github.com/austinkregel/whistler/internal/play"
	"github.com/austinkregel/whistler/internal/transcode"
	"github.com/austinkregel/whistler/internal/wavio"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("whistler: %v", err)
	}
}

// cliArgs is the parsed positional form of:
// whistler <input> [semitones] [instrument] [volume] [output]
type cliArgs struct {
	input      string
	semitones  float64
	instrument engine.InstrumentID
	volume     float64
	output     string
	play       bool
}

func run(ctx context.Context, rawArgs []string) error {
	configDir, err := defaultConfigDir()
	if err != nil {
		return err
	}
	cfgMgr := config.NewManager(configDir)
	if err := cfgMgr.Load(); err != nil {
		log.Printf("warning: failed to load config, using built-in defaults: %v", err)
	}
	cfg := cfgMgr.Get()

	args, playRequested := extractPlayFlag(rawArgs)

	parsed, err := parseArgs(args, cfg)
	if err != nil {
		return err
	}
	parsed.play = playRequested || cfg.Behavior.PlayAfterRender

	if !cfg.Behavior.OverwriteExisting {
		if _, err := os.Stat(parsed.output); err == nil {
			return fmt.Errorf("output file %s already exists (enable overwriteExisting in config to replace it)", parsed.output)
		}
	}

	in, err := decodeInput(ctx, parsed.input, cfg.Audio.SampleRate)
	if err != nil {
		return fmt.Errorf("decode %s: %w", parsed.input, err)
	}

	out, err := engine.Process(in, parsed.instrument, parsed.semitones, parsed.volume)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := wavio.Write(parsed.output, out); err != nil {
		return fmt.Errorf("write %s: %w", parsed.output, err)
	}
	log.Printf("wrote %s (%d frames, %d ch, %d Hz)", parsed.output, out.Frames, out.Channels, out.SampleRate)

	if parsed.play {
		if err := play.Play(ctx, out); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
	}

	return nil
}

// extractPlayFlag pulls a "--play" flag, wherever it appears, out of the
// otherwise positional argument list.
func extractPlayFlag(args []string) ([]string, bool) {
	out := make([]string, 0, len(args))
	played := false
	for _, a := range args {
		if a == "--play" {
			played = true
			continue
		}
		out = append(out, a)
	}
	return out, played
}

func defaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "whistler"), nil
}

func parseArgs(args []string, cfg *config.Config) (cliArgs, error) {
	if len(args) < 1 {
		return cliArgs{}, fmt.Errorf("usage: whistler <input> [semitones] [instrument] [volume] [output] [--play]")
	}

	parsed := cliArgs{
		input:      args[0],
		semitones:  0,
		instrument: engine.InstrumentID(cfg.Audio.DefaultInstrument),
		volume:     cfg.Audio.DefaultVolume,
	}
	if !parsed.instrument.Valid() {
		parsed.instrument = engine.InstrumentPad
	}

	if len(args) >= 2 {
		semitones, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return cliArgs{}, fmt.Errorf("invalid semitones %q: %w", args[1], err)
		}
		parsed.semitones = semitones
	}

	if len(args) >= 3 {
		instrument, err := resolveInstrument(args[2])
		if err != nil {
			return cliArgs{}, err
		}
		parsed.instrument = instrument
	}

	if len(args) >= 4 {
		volume, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return cliArgs{}, fmt.Errorf("invalid volume %q: %w", args[3], err)
		}
		if volume < 0 || volume > 10 {
			log.Printf("warning: volume %v is outside the expected [0,10] range, proceeding anyway", volume)
		}
		parsed.volume = volume
	}

	if len(args) >= 5 {
		parsed.output = args[4]
	} else {
		parsed.output = defaultOutputName(parsed.input, parsed.instrument, parsed.semitones)
	}

	return parsed, nil
}

// resolveInstrument accepts either a numeric index 0..9 or a
// case-insensitive (alias-aware) instrument name.
func resolveInstrument(s string) (engine.InstrumentID, error) {
	if idx, err := strconv.Atoi(s); err == nil {
		id := engine.InstrumentID(idx)
		if !id.Valid() {
			return 0, fmt.Errorf("instrument index %d out of range 0..9", idx)
		}
		return id, nil
	}
	return engine.ParseInstrument(s)
}

func defaultOutputName(input string, instrument engine.InstrumentID, semitones float64) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return fmt.Sprintf("%s_%s_%g.wav", base, instrument, semitones)
}

// decodeInput reads a WAV file directly, or transcodes anything else via
// ffmpeg first. fallbackSampleRate is used only for transcoded input.
func decodeInput(ctx context.Context, path string, fallbackSampleRate int) (engine.Buffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return wavio.Read(path)
	}

	dec, err := transcode.NewDecoder()
	if err != nil {
		return engine.Buffer{}, err
	}
	return dec.Decode(ctx, path, fallbackSampleRate, 1)
}
