package ansi

import "fmt"

// Cursor and erase controls used by the animated prompt and spinner.
const (
	SaveCursor    = "\x1b7"
	RestoreCursor = "\x1b8"
	EraseLine     = "\x1b[2K"
	EraseToEnd    = "\x1b[K"
	CarriageRet   = "\r"
	HideCursor    = "\x1b[?25l"
	ShowCursor    = "\x1b[?25h"
)

// Box-drawing glyphs for the fixed prompt frame.
const (
	BoxHorizontal  = "─"
	BoxVertical    = "│"
	BoxTopLeft     = "╭"
	BoxTopRight    = "╮"
	BoxBottomLeft  = "╰"
	BoxBottomRight = "╯"
)

// MoveTo positions the cursor at 1-based (row, col).
func MoveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// Column moves the cursor to a 1-based column on the current row.
func Column(col int) string {
	return fmt.Sprintf("\x1b[%dG", col)
}

// SetScrollRegion restricts scrolling to 1-based rows [top, bottom].
func SetScrollRegion(top, bottom int) string {
	return fmt.Sprintf("\x1b[%d;%dr", top, bottom)
}

// ResetScrollRegion restores the full-screen scroll region.
const ResetScrollRegion = "\x1b[r"
