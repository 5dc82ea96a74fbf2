package ansi

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Width measures the visible width of a string, excluding control codes.
func Width(s string) int {
	return xansi.StringWidth(s)
}

// Strip removes all escape sequences, leaving only printable text.
func Strip(s string) string {
	return xansi.Strip(s)
}

// styledCell is one printable rune plus the escape sequences that
// immediately precede it. Carrying the escapes with the rune keeps style
// runs intact when lines are re-chunked during wrapping.
type styledCell struct {
	prefix string
	r      rune
	width  int
}

// WordWrap wraps s to the given visible width, preserving escape
// sequences and re-applying any active SGR state at the start of each
// continuation line. Tokens wider than the wrap width are hard-broken;
// an empty input yields a single empty line.
func WordWrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return out
}

func wrapLine(line string, width int) []string {
	cells, trailing := scanCells(line)
	if len(cells) == 0 {
		return []string{line}
	}

	var (
		lines   []string
		cur     strings.Builder
		curW    int
		tracker styleTracker
		// Styles active at the point the current line began.
		lineOpen string
	)

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW = 0
		lineOpen = tracker.active()
		cur.WriteString(lineOpen)
	}

	writeCell := func(c styledCell) {
		cur.WriteString(c.prefix)
		tracker.observe(c.prefix)
		cur.WriteRune(c.r)
		curW += c.width
	}

	i := 0
	for i < len(cells) {
		if cells[i].r == ' ' || cells[i].r == '\t' {
			// A space run: keep it on the current line if it fits,
			// otherwise swallow it at the break.
			j := i
			runW := 0
			for j < len(cells) && (cells[j].r == ' ' || cells[j].r == '\t') {
				runW += cells[j].width
				j++
			}
			if curW > 0 && curW+runW > width {
				for k := i; k < j; k++ {
					tracker.observe(cells[k].prefix)
					cur.WriteString(cells[k].prefix)
				}
				flush()
			} else {
				for k := i; k < j; k++ {
					writeCell(cells[k])
				}
			}
			i = j
			continue
		}

		// A word: maximal run of non-space cells.
		j := i
		wordW := 0
		for j < len(cells) && cells[j].r != ' ' && cells[j].r != '\t' {
			wordW += cells[j].width
			j++
		}
		if curW+wordW <= width {
			for k := i; k < j; k++ {
				writeCell(cells[k])
			}
			i = j
			continue
		}
		if wordW <= width {
			flush()
			for k := i; k < j; k++ {
				writeCell(cells[k])
			}
			i = j
			continue
		}
		// Word alone exceeds the width: hard-break cell by cell. When a
		// single cell does not fit an empty line, place it anyway so the
		// loop always advances.
		for k := i; k < j; k++ {
			if curW+cells[k].width > width && curW > 0 {
				flush()
			}
			writeCell(cells[k])
		}
		i = j
	}

	tracker.observe(trailing)
	cur.WriteString(trailing)
	lines = append(lines, cur.String())
	return lines
}

// scanCells splits a line into styled cells plus any escape sequences
// that trail the final printable rune.
func scanCells(line string) ([]styledCell, string) {
	var (
		cells   []styledCell
		pending strings.Builder
	)
	rs := []rune(line)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\x1b' {
			seq := scanEscape(rs[i:])
			pending.WriteString(seq)
			i += len([]rune(seq)) - 1
			continue
		}
		cells = append(cells, styledCell{
			prefix: pending.String(),
			r:      rs[i],
			width:  runewidth.RuneWidth(rs[i]),
		})
		pending.Reset()
	}
	return cells, pending.String()
}

// scanEscape returns the escape sequence at the start of rs. CSI
// sequences run to their final byte; anything else is the two-rune
// ESC+char form.
func scanEscape(rs []rune) string {
	if len(rs) < 2 {
		return string(rs)
	}
	if rs[1] != '[' {
		return string(rs[:2])
	}
	for i := 2; i < len(rs); i++ {
		if rs[i] >= '@' && rs[i] <= '~' {
			return string(rs[:i+1])
		}
	}
	return string(rs)
}

// styleTracker follows SGR state through a stream of escape sequences so
// wrapping can re-open active styles on continuation lines.
type styleTracker struct {
	open []string
}

func (t *styleTracker) observe(escapes string) {
	for _, seq := range splitEscapes(escapes) {
		if !strings.HasSuffix(seq, "m") {
			continue // not SGR; cursor moves don't affect style
		}
		if seq == Reset || seq == "\x1b[m" {
			t.open = t.open[:0]
			continue
		}
		t.open = append(t.open, seq)
	}
}

func (t *styleTracker) active() string {
	return strings.Join(t.open, "")
}

func splitEscapes(s string) []string {
	var seqs []string
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '\x1b' {
			continue
		}
		seq := scanEscape(rs[i:])
		seqs = append(seqs, seq)
		i += len([]rune(seq)) - 1
	}
	return seqs
}
