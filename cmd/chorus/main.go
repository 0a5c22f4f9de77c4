// Package main is the entry point for chorus, which assembles several
// whistler-rendered tracks described by a JSON manifest into one mixed
// song.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/austinkregel/whistler/internal/song"
	"github.com/austinkregel/whistler/internal/wavio"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("chorus: %v", err)
	}
}

func run(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: chorus <manifest.json> <output.wav>")
	}

	manifestPath := args[0]
	outputPath := args[1]

	manifest, err := song.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	log.Printf("rendering %q: %d tracks", manifest.SongName, len(manifest.Tracks))

	manifestDir := filepath.Dir(manifestPath)
	opts := song.RenderOptions{
		ManifestDir: manifestDir,
		SampleDir:   "samples",
		ScratchDir:  filepath.Join(manifestDir, "intermediate"),
	}

	out, err := song.Render(context.Background(), manifest, opts)
	if err != nil {
		return fmt.Errorf("render song: %w", err)
	}

	if err := wavio.Write(outputPath, out); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	log.Printf("wrote %s (%d frames, %d ch, %d Hz)", outputPath, out.Frames, out.Channels, out.SampleRate)
	return nil
}
