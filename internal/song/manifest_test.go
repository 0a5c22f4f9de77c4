package song

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifestValid(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{
		"song_name": "BeautifulTrio",
		"tracks": [
			{"file": "a.wav", "instrument": "acid", "transpose": 0, "volume": 1},
			{"file": "b.wav", "instrument": "strings", "transpose": -12, "volume": 0.5}
		]
	}`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.SongName != "BeautifulTrio" {
		t.Errorf("SongName = %q, want BeautifulTrio", m.SongName)
	}
	if len(m.Tracks) != 2 {
		t.Fatalf("len(Tracks) = %d, want 2", len(m.Tracks))
	}
	if m.Tracks[0].Volume != 1 {
		t.Errorf("Tracks[0].Volume = %v, want 1", m.Tracks[0].Volume)
	}
}

func TestLoadManifestDefaultsZeroVolumeToOne(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{
		"song_name": "Solo",
		"tracks": [{"file": "a.wav", "instrument": "pad", "transpose": 0}]
	}`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Tracks[0].Volume != 1.0 {
		t.Errorf("Volume = %v, want default 1.0", m.Tracks[0].Volume)
	}
}

func TestLoadManifestRejectsUnknownInstrument(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{
		"song_name": "Bad",
		"tracks": [{"file": "a.wav", "instrument": "kazoo", "transpose": 0, "volume": 1}]
	}`)

	if _, err := LoadManifest(path); err == nil {
		t.Error("expected error for unknown instrument")
	}
}

func TestLoadManifestRejectsEmptyTracks(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{"song_name": "Empty", "tracks": []}`)

	if _, err := LoadManifest(path); err == nil {
		t.Error("expected error for empty tracks list")
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing manifest file")
	}
}
