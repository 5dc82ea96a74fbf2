package config

import (
	"errors"
	"os"
	"testing"

	"pgregory.net/rapid"
)

func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	// Generator for a Config with each string field either empty or set.
	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasPreset") {
			cfg.Preset = nonEmptyString.Draw(t, "preset")
		}
		if rapid.Bool().Draw(t, "hasTheme") {
			cfg.Theme = nonEmptyString.Draw(t, "theme")
		}
		if rapid.Bool().Draw(t, "hasMarkers") {
			cfg.Markers = nonEmptyString.Draw(t, "markers")
		}
		if rapid.Bool().Draw(t, "hasOutputDir") {
			cfg.OutputDir = nonEmptyString.Draw(t, "outputDir")
		}
		if rapid.Bool().Draw(t, "hasSessionDir") {
			cfg.SessionDir = nonEmptyString.Draw(t, "sessionDir")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "Preset", global.Preset, project.Preset, defaults.Preset, merged.Preset)
		checkStringField(t, "Theme", global.Theme, project.Theme, defaults.Theme, merged.Theme)
		checkStringField(t, "Markers", global.Markers, project.Markers, defaults.Markers, merged.Markers)
		checkStringField(t, "OutputDir", global.OutputDir, project.OutputDir, defaults.OutputDir, merged.OutputDir)
		checkStringField(t, "SessionDir", global.SessionDir, project.SessionDir, defaults.SessionDir, merged.SessionDir)
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set — expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set — expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set — expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.Preset != "default" {
		t.Errorf("Preset: want %q, got %q", "default", d.Preset)
	}
	if d.Theme != "dark" {
		t.Errorf("Theme: want %q, got %q", "dark", d.Theme)
	}
	if d.Markers != "user" {
		t.Errorf("Markers: want %q, got %q", "user", d.Markers)
	}
	if d.Cols != 100 || d.Rows != 30 {
		t.Errorf("size: want 100x30, got %dx%d", d.Cols, d.Rows)
	}
	if d.OutputDir != "." {
		t.Errorf("OutputDir: want %q, got %q", ".", d.OutputDir)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	defaults := Defaults()
	if cfg.Preset != defaults.Preset {
		t.Errorf("Preset: want %q, got %q", defaults.Preset, cfg.Preset)
	}
	if cfg.OutputDir != defaults.OutputDir {
		t.Errorf("OutputDir: want %q, got %q", defaults.OutputDir, cfg.OutputDir)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	// Write an invalid JSON file where LoadGlobal expects it.
	cfgDir := tmp + "/.config/recast"
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgDir+"/config.json", []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}
