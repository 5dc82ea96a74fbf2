package diffview

import (
	"fmt"
	"strings"

	"github.com/fakeyudi/recast/internal/ansi"
	"github.com/fakeyudi/recast/internal/theme"
)

// Hunk mirrors one unified-diff hunk of a structured patch.
type Hunk struct {
	OldStart int      `json:"oldStart"`
	OldLines int      `json:"oldLines"`
	NewStart int      `json:"newStart"`
	NewLines int      `json:"newLines"`
	Lines    []string `json:"lines"` // prefixed with ' ', '+' or '-'
}

// Renderer renders hunks with line numbers, layered backgrounds and
// word-level change highlighting.
type Renderer struct {
	Theme theme.Theme
	Width int
}

// New returns a diff Renderer for the given theme and content width.
func New(th theme.Theme, width int) *Renderer {
	return &Renderer{Theme: th, Width: width}
}

// Render produces the styled block for a file's hunks: a summary header
// followed by each hunk's numbered, colored lines.
func (r *Renderer) Render(path string, hunks []Hunk) string {
	var adds, removes int
	for _, h := range hunks {
		for _, line := range h.Lines {
			switch {
			case strings.HasPrefix(line, "+"):
				adds++
			case strings.HasPrefix(line, "-"):
				removes++
			}
		}
	}

	var out []string
	out = append(out, ansi.Styled(path, ansi.Bold, ansi.Fg(r.Theme.FilePath)))
	out = append(out, ansi.Styled(
		fmt.Sprintf("%s and %s", plural(adds, "addition"), plural(removes, "removal")),
		ansi.Fg(r.Theme.Muted)))

	for hi, h := range hunks {
		if hi > 0 {
			out = append(out, ansi.Styled("⋮", ansi.Fg(r.Theme.Muted)))
		}
		out = append(out, r.renderHunk(h)...)
	}
	return strings.Join(out, "\n")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// renderHunk walks the hunk lines, tracking old/new line numbers
// independently and pairing each removal with an immediately following
// addition for word-level comparison.
func (r *Renderer) renderHunk(h Hunk) []string {
	oldNo := h.OldStart
	newNo := h.NewStart
	var out []string

	lines := h.Lines
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "-") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+"):
			// Paired modification.
			oldText := line[1:]
			newText := lines[i+1][1:]
			oldSegs, newSegs := Compare(oldText, newText)
			out = append(out, r.changedLine(oldNo, 0, oldSegs,
				r.Theme.DiffRemoveLineBg, r.Theme.DiffRemoveCharBg)...)
			out = append(out, r.changedLine(0, newNo, newSegs,
				r.Theme.DiffAddLineBg, r.Theme.DiffAddCharBg)...)
			oldNo++
			newNo++
			i++

		case strings.HasPrefix(line, "-"):
			segs := []Segment{{Text: line[1:]}}
			out = append(out, r.changedLine(oldNo, 0, segs,
				r.Theme.DiffRemoveLineBg, r.Theme.DiffRemoveLineBg)...)
			oldNo++

		case strings.HasPrefix(line, "+"):
			segs := []Segment{{Text: line[1:]}}
			out = append(out, r.changedLine(0, newNo, segs,
				r.Theme.DiffAddLineBg, r.Theme.DiffAddLineBg)...)
			newNo++

		default:
			text := strings.TrimPrefix(line, " ")
			out = append(out, r.contextLine(oldNo, newNo, text)...)
			oldNo++
			newNo++
		}
	}
	return out
}

const gutterWidth = 10 // "9999 9999 "

func (r *Renderer) gutter(oldNo, newNo int) string {
	cell := func(n int) string {
		if n == 0 {
			return "    "
		}
		return fmt.Sprintf("%4d", n)
	}
	return ansi.Styled(cell(oldNo)+" "+cell(newNo)+" ", ansi.Fg(r.Theme.Muted))
}

func (r *Renderer) contentWidth() int {
	w := r.Width - gutterWidth
	if w < 8 {
		w = 8
	}
	return w
}

// changedLine renders one removal or addition, wrapping within the
// content width while keeping background continuity across breaks.
func (r *Renderer) changedLine(oldNo, newNo int, segs []Segment, lineBg, charBg string) []string {
	var styled strings.Builder
	for _, s := range segs {
		if s.Changed {
			styled.WriteString(ansi.Bg(charBg))
		} else {
			styled.WriteString(ansi.Bg(lineBg))
		}
		styled.WriteString(s.Text)
		styled.WriteString(ansi.Reset)
	}
	text := styled.String()
	if text == "" {
		text = ansi.Bg(lineBg) + " " + ansi.Reset
	}

	var out []string
	for i, wrapped := range ansi.WordWrap(text, r.contentWidth()) {
		pad := r.contentWidth() - ansi.Width(wrapped)
		padding := ""
		if pad > 0 {
			padding = ansi.Bg(lineBg) + strings.Repeat(" ", pad) + ansi.Reset
		}
		if i == 0 {
			out = append(out, r.gutter(oldNo, newNo)+wrapped+padding)
		} else {
			out = append(out, r.gutter(0, 0)+wrapped+padding)
		}
	}
	return out
}

func (r *Renderer) contextLine(oldNo, newNo int, text string) []string {
	var out []string
	for i, wrapped := range ansi.WordWrap(text, r.contentWidth()) {
		if i == 0 {
			out = append(out, r.gutter(oldNo, newNo)+wrapped)
		} else {
			out = append(out, r.gutter(0, 0)+wrapped)
		}
	}
	return out
}
