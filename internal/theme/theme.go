// Package theme defines the semantic color contract consumed by the
// renderers. A Theme is a closed record of hex colors; renderers never
// hardcode palettes beyond the named presets here.
package theme

import "strings"

// Theme maps semantic roles to "#rrggbb" colors. Every field is required;
// renderers request colors only through this record.
type Theme struct {
	// Terminal identity, written into the recording header.
	Foreground string
	Background string
	Palette    [16]string

	// Message roles.
	UserPrompt    string
	AssistantText string
	Thinking      string
	Muted         string
	FilePath      string
	Sidechain     string

	// Tool call bullets.
	ToolSuccess string
	ToolError   string

	// Diff backgrounds, layered line-level vs character-level.
	DiffAddLineBg    string
	DiffAddCharBg    string
	DiffRemoveLineBg string
	DiffRemoveCharBg string
}

// PaletteString renders the 16-color palette in the colon-separated form
// the recording header expects.
func (t Theme) PaletteString() string {
	return strings.Join(t.Palette[:], ":")
}

// Dark is the default preset, tuned for dark terminal backgrounds.
var Dark = Theme{
	Foreground: "#dcdcdc",
	Background: "#121212",
	Palette: [16]string{
		"#121212", "#e06c75", "#98c379", "#e5c07b",
		"#61afef", "#c678dd", "#56b6c2", "#dcdcdc",
		"#5c6370", "#e06c75", "#98c379", "#e5c07b",
		"#61afef", "#c678dd", "#56b6c2", "#ffffff",
	},
	UserPrompt:       "#aadafa",
	AssistantText:    "#dcdcdc",
	Thinking:         "#8a8a8a",
	Muted:            "#6c6c6c",
	FilePath:         "#61afef",
	Sidechain:        "#c678dd",
	ToolSuccess:      "#98c379",
	ToolError:        "#e06c75",
	DiffAddLineBg:    "#1e3a1e",
	DiffAddCharBg:    "#2e6b2e",
	DiffRemoveLineBg: "#3a1e1e",
	DiffRemoveCharBg: "#6b2e2e",
}

// Light is the preset for light terminal backgrounds.
var Light = Theme{
	Foreground: "#1c1c1c",
	Background: "#fafafa",
	Palette: [16]string{
		"#fafafa", "#ca1243", "#50a14f", "#c18401",
		"#4078f2", "#a626a4", "#0184bc", "#1c1c1c",
		"#a0a1a7", "#ca1243", "#50a14f", "#c18401",
		"#4078f2", "#a626a4", "#0184bc", "#000000",
	},
	UserPrompt:       "#0f5499",
	AssistantText:    "#1c1c1c",
	Thinking:         "#767676",
	Muted:            "#8a8a8a",
	FilePath:         "#4078f2",
	Sidechain:        "#a626a4",
	ToolSuccess:      "#50a14f",
	ToolError:        "#ca1243",
	DiffAddLineBg:    "#d9f2d9",
	DiffAddCharBg:    "#a8dca8",
	DiffRemoveLineBg: "#f8dddd",
	DiffRemoveCharBg: "#f0b0b0",
}

// ByName resolves a preset theme by name, defaulting to Dark for
// unrecognized values.
func ByName(name string) Theme {
	switch strings.ToLower(name) {
	case "light":
		return Light
	default:
		return Dark
	}
}
