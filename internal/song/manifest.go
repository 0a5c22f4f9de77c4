// Package song assembles several whistled recordings, each resynthesized
// with its own instrument and transposition, into a single mixed-down
// track — the batch layer that chorus.c drove by shelling out to the
// whistler binary once per track and mixing the results with sox.
package song

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/austinkregel/whistler/internal/engine"
)

// Manifest describes a song as a set of tracks to render and mix.
type Manifest struct {
	SongName string  `json:"song_name"`
	Tracks   []Track `json:"tracks"`
}

// Track is one whistled recording and the voice it should be rendered as.
type Track struct {
	File       string  `json:"file"`
	Instrument string  `json:"instrument"`
	Transpose  float64 `json:"transpose"`
	Volume     float64 `json:"volume"`
}

// LoadManifest reads and validates a song manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("song: read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("song: parse manifest %s: %w", path, err)
	}

	if m.SongName == "" {
		return nil, fmt.Errorf("song: manifest missing song_name")
	}
	if len(m.Tracks) == 0 {
		return nil, fmt.Errorf("song: manifest has no tracks")
	}

	for i, t := range m.Tracks {
		if t.File == "" {
			return nil, fmt.Errorf("song: track %d missing file", i)
		}
		if _, err := engine.ParseInstrument(t.Instrument); err != nil {
			return nil, fmt.Errorf("song: track %d: %w", i, err)
		}
		if t.Volume == 0 {
			m.Tracks[i].Volume = 1.0
		}
	}

	return &m, nil
}

// resolveSamplePath joins a track's file against the sample directory the
// manifest's own path lives next to, mirroring the fixed samples/
// directory chorus.c always read from.
func resolveSamplePath(manifestDir, sampleDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(manifestDir, sampleDir, file)
}
