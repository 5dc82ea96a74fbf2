package animate

import (
	"strings"
	"unicode"

	"github.com/muesli/reflow/truncate"

	"github.com/fakeyudi/recast/internal/ansi"
)

// TimedSegment is one burst of typed output: wait Gap seconds, then emit
// Text.
type TimedSegment struct {
	Gap  float64
	Text string
}

// Result is one complete input animation, consumed immediately by the
// conversion loop.
type Result struct {
	Segments     []TimedSegment
	ScrollOutput string
	Duration     float64
}

// OverflowDelay is added when the text is longer than the input row can
// show, standing in for the extra typing time the ellipsis hides.
const OverflowDelay = 0.4

// SubmitDelay is the pause between the last keystroke and the submit.
const SubmitDelay = 0.15

// SplitIntoWords tokenizes text into contiguous non-whitespace runs and
// single whitespace/newline characters.
func SplitIntoWords(text string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range text {
		if unicode.IsSpace(r) {
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
			tokens = append(tokens, string(r))
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// Type simulates typing text into the frame's input row and submitting
// it. Empty or whitespace-only text still positions the cursor and
// submits, with zero typed segments.
func (f *Frame) Type(text string) Result {
	var res Result

	emit := func(gap float64, out string) {
		res.Segments = append(res.Segments, TimedSegment{Gap: gap, Text: out})
		res.Duration += gap
	}

	// Position the cursor after the prompt glyph in the input row.
	emit(0, ansi.MoveTo(f.InputRow(), 5))

	display := strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	extraDelay := 0.0
	if ansi.Width(display) > f.InputWidth() {
		// The visible input truncates; the hidden tail still costs time.
		display = truncate.StringWithTail(display, uint(f.InputWidth()), "…")
		extraDelay = OverflowDelay
	}

	gap := f.cfg.InitialGapMs / 1000
	minGap := f.cfg.MinGapMs / 1000
	style := ansi.Fg(f.cfg.Theme.UserPrompt)
	for _, token := range SplitIntoWords(display) {
		emit(gap, style+token+ansi.Reset)
		if strings.TrimSpace(token) != "" {
			gap *= f.cfg.DecayFactor
			if gap < minGap {
				gap = minGap
			}
		}
	}

	// Submit: clear the input row back to an empty prompt, drop the
	// cursor into the scroll region and force a scroll.
	emit(SubmitDelay+extraDelay,
		ansi.MoveTo(f.InputRow(), 1)+f.promptText("")+
			ansi.MoveTo(f.ScrollBottom(), 1)+"\r\n")

	res.ScrollOutput = f.scrollEcho(text)
	return res
}

// scrollEcho renders the submitted text as it appears in the scroll
// region: a prompt arrow on the first line, aligned continuations.
func (f *Frame) scrollEcho(text string) string {
	width := f.cfg.Cols - 2
	if width < 8 {
		width = 8
	}
	style := ansi.Fg(f.cfg.Theme.UserPrompt)
	lines := ansi.WordWrap(strings.TrimSpace(text), width)
	for i, line := range lines {
		if i == 0 {
			lines[i] = ansi.Styled("❯ ", style, ansi.Bold) + ansi.Styled(line, style)
		} else {
			lines[i] = "  " + ansi.Styled(line, style)
		}
	}
	return strings.Join(lines, "\r\n")
}
