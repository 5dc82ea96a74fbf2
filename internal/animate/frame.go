// Package animate simulates a user typing into a fixed prompt region at
// the bottom of the terminal, producing timed output segments with a
// burst-typing rhythm.
package animate

import (
	"strings"

	"github.com/fakeyudi/recast/internal/ansi"
	"github.com/fakeyudi/recast/internal/theme"
)

// Config describes the terminal geometry and typing rhythm.
type Config struct {
	Cols  int
	Rows  int
	Theme theme.Theme

	// Burst-typing tuning: gaps decay exponentially from InitialGapMs
	// toward MinGapMs by DecayFactor after every non-whitespace token.
	InitialGapMs float64
	MinGapMs     float64
	DecayFactor  float64
}

// DefaultConfig returns the product-tuned typing rhythm.
func DefaultConfig(cols, rows int, th theme.Theme) Config {
	return Config{
		Cols:         cols,
		Rows:         rows,
		Theme:        th,
		InitialGapMs: 140,
		MinGapMs:     28,
		DecayFactor:  0.82,
	}
}

// Frame is the fixed 3-row prompt UI (border, input, border) pinned below
// the scroll region.
type Frame struct {
	cfg Config
}

// NewFrame returns the prompt frame for the given geometry.
func NewFrame(cfg Config) *Frame {
	return &Frame{cfg: cfg}
}

// Row layout, 1-based. The scroll region ends above the spinner row so
// neither the spinner nor the frame ever scroll.
func (f *Frame) TopRow() int { return f.cfg.Rows - 2 }

func (f *Frame) InputRow() int { return f.cfg.Rows - 1 }

func (f *Frame) BottomRow() int { return f.cfg.Rows }

func (f *Frame) SpinnerRow() int { return f.cfg.Rows - 3 }

func (f *Frame) ScrollBottom() int { return f.cfg.Rows - 4 }

// InputWidth is the visible width available for typed text.
func (f *Frame) InputWidth() int {
	return f.cfg.Cols - 6 // "│ > " prefix and " │" suffix
}

// promptText renders the input row with the given content.
func (f *Frame) promptText(content string) string {
	border := ansi.Fg(f.cfg.Theme.Muted)
	pad := f.InputWidth() - ansi.Width(content)
	if pad < 0 {
		pad = 0
	}
	return ansi.Styled(ansi.BoxVertical, border) +
		ansi.Styled(" > ", ansi.Fg(f.cfg.Theme.UserPrompt)) +
		content + strings.Repeat(" ", pad) + " " +
		ansi.Styled(ansi.BoxVertical, border)
}

func (f *Frame) borderRow(left, right string) string {
	return ansi.Styled(left+strings.Repeat(ansi.BoxHorizontal, f.cfg.Cols-2)+right,
		ansi.Fg(f.cfg.Theme.Muted))
}

// Setup emits the initial frame: scroll region restricted above the
// prompt, borders drawn, cursor parked in the scroll region.
func (f *Frame) Setup() string {
	var sb strings.Builder
	sb.WriteString(ansi.SetScrollRegion(1, f.ScrollBottom()))
	sb.WriteString(f.drawRows())
	sb.WriteString(ansi.MoveTo(f.ScrollBottom(), 1))
	return sb.String()
}

// Redraw repaints the frame rows without moving the logical cursor, used
// after content output may have corrupted the border or prompt.
func (f *Frame) Redraw() string {
	return ansi.SaveCursor + f.drawRows() + ansi.RestoreCursor
}

// Teardown restores the full scroll region and clears the frame rows.
func (f *Frame) Teardown() string {
	var sb strings.Builder
	for row := f.TopRow(); row <= f.BottomRow(); row++ {
		sb.WriteString(ansi.MoveTo(row, 1))
		sb.WriteString(ansi.EraseLine)
	}
	sb.WriteString(ansi.ResetScrollRegion)
	sb.WriteString(ansi.MoveTo(f.ScrollBottom(), 1))
	return sb.String()
}

func (f *Frame) drawRows() string {
	var sb strings.Builder
	sb.WriteString(ansi.MoveTo(f.TopRow(), 1))
	sb.WriteString(f.borderRow(ansi.BoxTopLeft, ansi.BoxTopRight))
	sb.WriteString(ansi.MoveTo(f.InputRow(), 1))
	sb.WriteString(f.promptText(""))
	sb.WriteString(ansi.MoveTo(f.BottomRow(), 1))
	sb.WriteString(f.borderRow(ansi.BoxBottomLeft, ansi.BoxBottomRight))
	return sb.String()
}
