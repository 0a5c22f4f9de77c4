// Package config handles persisted CLI default settings for whistler.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the defaults the CLI falls back to when a flag isn't
// given explicitly.
type Config struct {
	// Audio settings
	Audio AudioConfig `json:"audio"`

	// Behavior settings
	Behavior BehaviorConfig `json:"behavior"`
}

// AudioConfig contains audio-related defaults.
type AudioConfig struct {
	// SampleRate is the rate non-WAV input is transcoded to via ffmpeg;
	// WAV input keeps its own rate.
	SampleRate int `json:"sampleRate"`

	// DefaultInstrument is the instrument id used when none is given.
	DefaultInstrument int `json:"defaultInstrument"`

	// DefaultVolume is the volume multiplier used when none is given.
	DefaultVolume float64 `json:"defaultVolume"`
}

// BehaviorConfig contains behavior-related defaults.
type BehaviorConfig struct {
	// PlayAfterRender starts live playback of the rendered output once
	// it has been written, via internal/play.
	PlayAfterRender bool `json:"playAfterRender"`

	// OverwriteExisting allows the CLI to overwrite an existing output
	// file instead of refusing.
	OverwriteExisting bool `json:"overwriteExisting"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:        44100,
			DefaultInstrument: 0,
			DefaultVolume:     1.0,
		},
		Behavior: BehaviorConfig{
			PlayAfterRender:   false,
			OverwriteExisting: false,
		},
	}
}

// Manager loads and saves Config as JSON under a config directory.
type Manager struct {
	configDir  string
	configPath string
	config     *Config
}

// NewManager creates a configuration manager rooted at configDir.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, writing out the defaults first
// if no config file exists yet.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.config = config
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// GetPath returns the config file path.
func (m *Manager) GetPath() string {
	return m.configPath
}
