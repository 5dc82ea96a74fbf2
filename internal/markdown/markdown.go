// Package markdown renders markdown text into styled, wrapped ANSI lines.
// Parsing is line-oriented: block-level dispatch per line group, inline
// formatting inside spans.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fakeyudi/recast/internal/ansi"
	"github.com/fakeyudi/recast/internal/theme"
)

// Renderer holds the render configuration for one conversion.
type Renderer struct {
	Theme theme.Theme
	Width int
	// Base is the SGR prefix re-applied after every styled span so
	// inline resets don't bleach the surrounding text.
	Base string
}

// New returns a Renderer wrapping at width using th's colors.
func New(th theme.Theme, width int) *Renderer {
	return &Renderer{Theme: th, Width: width}
}

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRe   = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
	orderedRe  = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.*)$`)
	hrRe       = regexp.MustCompile(`^\s*(-{3,}|\*{3,}|_{3,})\s*$`)
	tableSepRe = regexp.MustCompile(`^\s*\|?[\s:|-]+\|[\s:|-]*$`)
)

// Render converts markdown text into a newline-joined styled block.
func (r *Renderer) Render(text string) string {
	lines := strings.Split(text, "\n")
	var out []string

	inFence := false
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, ansi.Styled(line, ansi.Fg(r.Theme.Muted)))
			continue
		}
		if inFence {
			// Verbatim: no wrapping, no inline parsing.
			out = append(out, ansi.Styled(line, ansi.Fg(r.Theme.Muted)))
			continue
		}

		switch {
		case hrRe.MatchString(line):
			out = append(out, ansi.Styled(strings.Repeat(ansi.BoxHorizontal, r.Width), ansi.Fg(r.Theme.Muted)))

		case headingRe.MatchString(line):
			m := headingRe.FindStringSubmatch(line)
			heading := ansi.Bold + r.inline(m[2])
			out = append(out, r.wrap(heading, "")...)

		case bulletRe.MatchString(line):
			m := bulletRe.FindStringSubmatch(line)
			indent := m[1]
			body := r.inline(m[2])
			out = append(out, r.wrapHanging(indent+"• "+body, indent+"  ")...)

		case orderedRe.MatchString(line):
			m := orderedRe.FindStringSubmatch(line)
			indent := m[1]
			marker := m[2] + ". "
			body := r.inline(m[3])
			out = append(out, r.wrapHanging(indent+marker+body, indent+strings.Repeat(" ", len(marker)))...)

		case strings.Contains(line, "|") && trimmed != "":
			// Gather the contiguous table block.
			j := i
			for j < len(lines) && strings.Contains(lines[j], "|") && strings.TrimSpace(lines[j]) != "" {
				j++
			}
			out = append(out, r.renderTable(lines[i:j])...)
			i = j - 1

		default:
			if trimmed == "" {
				out = append(out, "")
				continue
			}
			out = append(out, r.wrap(r.inline(line), "")...)
		}
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) wrap(s, indent string) []string {
	lines := ansi.WordWrap(s, r.Width)
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return lines
}

// wrapHanging wraps a list item, aligning continuation lines under the
// item body rather than the marker.
func (r *Renderer) wrapHanging(s, indent string) []string {
	return r.wrap(s, indent)
}

// renderTable renders a contiguous block of pipe-delimited lines with
// column-aligned padding, honoring a |---| separator row.
func (r *Renderer) renderTable(block []string) []string {
	type row struct {
		cells []string
		sep   bool
	}
	var rows []row
	var widths []int

	for _, line := range block {
		if tableSepRe.MatchString(line) {
			rows = append(rows, row{sep: true})
			continue
		}
		cells := splitTableRow(line)
		for i, c := range cells {
			styled := r.inline(c)
			cells[i] = styled
			w := ansi.Width(styled)
			if i >= len(widths) {
				widths = append(widths, w)
			} else if w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, row{cells: cells})
	}

	sepStyle := ansi.Fg(r.Theme.Muted)
	var out []string
	for _, rw := range rows {
		if rw.sep {
			var parts []string
			for _, w := range widths {
				parts = append(parts, strings.Repeat(ansi.BoxHorizontal, w+2))
			}
			out = append(out, ansi.Styled(strings.Join(parts, "┼"), sepStyle))
			continue
		}
		var sb strings.Builder
		for i, w := range widths {
			cell := ""
			if i < len(rw.cells) {
				cell = rw.cells[i]
			}
			pad := w - ansi.Width(cell)
			if pad < 0 {
				pad = 0
			}
			if i > 0 {
				sb.WriteString(ansi.Styled(ansi.BoxVertical, sepStyle))
			}
			sb.WriteString(" " + cell + strings.Repeat(" ", pad) + " ")
		}
		out = append(out, sb.String())
	}
	return out
}

func splitTableRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Inline formatting. Order matters: code and escapes are protected behind
// placeholders first so later passes can't contaminate their contents.

var (
	codeRe       = regexp.MustCompile("`([^`]+)`")
	escapeRe     = regexp.MustCompile(`\\([*_])`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldStarRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__([^_]+)__`)
	italicStarRe = regexp.MustCompile(`\*([^*\s][^*]*)\*`)
	// Underscore italics require non-alphanumeric boundaries so
	// identifiers like snake_case survive.
	italicUnderRe = regexp.MustCompile(`(^|[^\w])_([^_]+)_($|[^\w])`)
)

const (
	codeMark   = "\x00c"
	escapeMark = "\x00e"
	markEnd    = "\x00"
)

func (r *Renderer) inline(s string) string {
	var codes, escapes []string

	// 1. Protect inline code.
	s = codeRe.ReplaceAllStringFunc(s, func(m string) string {
		codes = append(codes, codeRe.FindStringSubmatch(m)[1])
		return fmt.Sprintf("%s%d%s", codeMark, len(codes)-1, markEnd)
	})
	// 2. Protect escaped markers.
	s = escapeRe.ReplaceAllStringFunc(s, func(m string) string {
		escapes = append(escapes, escapeRe.FindStringSubmatch(m)[1])
		return fmt.Sprintf("%s%d%s", escapeMark, len(escapes)-1, markEnd)
	})
	// 3. Links: underlined text, muted URL.
	s = linkRe.ReplaceAllStringFunc(s, func(m string) string {
		g := linkRe.FindStringSubmatch(m)
		return r.span(g[1], ansi.Underline) + " " + r.span("("+g[2]+")", ansi.Fg(r.Theme.Muted))
	})
	// 4. Bold.
	s = boldStarRe.ReplaceAllStringFunc(s, func(m string) string {
		return r.span(boldStarRe.FindStringSubmatch(m)[1], ansi.Bold)
	})
	s = boldUnderRe.ReplaceAllStringFunc(s, func(m string) string {
		return r.span(boldUnderRe.FindStringSubmatch(m)[1], ansi.Bold)
	})
	// 5. Italic.
	s = italicStarRe.ReplaceAllStringFunc(s, func(m string) string {
		return r.span(italicStarRe.FindStringSubmatch(m)[1], ansi.Italic)
	})
	s = italicUnderRe.ReplaceAllStringFunc(s, func(m string) string {
		g := italicUnderRe.FindStringSubmatch(m)
		return g[1] + r.span(g[2], ansi.Italic) + g[3]
	})
	// 6. Restore escaped characters literally.
	for i, esc := range escapes {
		s = strings.Replace(s, fmt.Sprintf("%s%d%s", escapeMark, i, markEnd), esc, 1)
	}
	// 7. Restore code with accent coloring.
	for i, code := range codes {
		s = strings.Replace(s, fmt.Sprintf("%s%d%s", codeMark, i, markEnd),
			r.span(code, ansi.Fg(r.Theme.FilePath)), 1)
	}
	return s
}

// span styles text and re-applies the base style after the reset.
func (r *Renderer) span(text, style string) string {
	return style + text + ansi.Reset + r.Base
}
