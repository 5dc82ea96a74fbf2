package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable recast settings.
type Config struct {
	Preset    string `json:"preset"`  // "speedrun" | "default" | "realtime"
	Theme     string `json:"theme"`   // "dark" | "light"
	Markers   string `json:"markers"` // "all" | "user" | "tools" | "none"
	Cols      int    `json:"cols"`
	Rows      int    `json:"rows"`
	OutputDir string `json:"output_dir"`
	// SessionDir overrides auto-detection of the agent session root.
	SessionDir string `json:"session_dir"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Preset:    "default",
		Theme:     "dark",
		Markers:   "user",
		Cols:      100,
		Rows:      30,
		OutputDir: ".",
	}
}

// LoadGlobal reads ~/.config/recast/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "recast", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .recastrc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".recastrc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		if c.Preset != "" {
			result.Preset = c.Preset
		}
		if c.Theme != "" {
			result.Theme = c.Theme
		}
		if c.Markers != "" {
			result.Markers = c.Markers
		}
		if c.Cols > 0 {
			result.Cols = c.Cols
		}
		if c.Rows > 0 {
			result.Rows = c.Rows
		}
		if c.OutputDir != "" {
			result.OutputDir = c.OutputDir
		}
		if c.SessionDir != "" {
			result.SessionDir = c.SessionDir
		}
	}
	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
