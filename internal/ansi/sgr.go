// Package ansi provides the escape-sequence primitives shared by every
// renderer: SGR styling from hex colors, cursor and scroll-region control,
// and visible-width-aware word wrapping.
package ansi

import (
	"fmt"
	"strconv"
)

// Basic SGR attributes.
const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Dim       = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
)

// Fg returns a 24-bit foreground SGR sequence for a "#rrggbb" color.
// Malformed colors yield an empty string so renderers degrade to the
// terminal default instead of emitting garbage.
func Fg(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// Bg returns a 24-bit background SGR sequence for a "#rrggbb" color.
func Bg(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

// Styled wraps text in the given SGR prefixes and a trailing reset.
// Empty text is returned as-is so callers can skip zero-width spans.
func Styled(text string, styles ...string) string {
	if text == "" {
		return ""
	}
	prefix := ""
	for _, s := range styles {
		prefix += s
	}
	if prefix == "" {
		return text
	}
	return prefix + text + Reset
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	gv, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	bv, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return uint8(rv), uint8(gv), uint8(bv), true
}
