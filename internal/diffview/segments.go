// Package diffview renders structured patch hunks as colored, word-diffed
// terminal output.
package diffview

import (
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Segment is a span of a diff line. Segments partition the line exactly:
// concatenating them reproduces the original text.
type Segment struct {
	Text    string
	Changed bool
}

// tokenize splits a line into maximal runs of whitespace or
// non-whitespace, the token granularity the LCS alignment works at.
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	var curSpace bool
	for _, r := range s {
		isSpace := unicode.IsSpace(r)
		if cur.Len() > 0 && isSpace != curSpace {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
		curSpace = isSpace
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// Compare aligns a paired removal/addition line at token granularity and
// returns the per-side segments. Unchanged spans are the tokens the LCS
// keeps on both sides. Empty inputs yield empty segment lists.
func Compare(oldLine, newLine string) (oldSegs, newSegs []Segment) {
	oldTokens := tokenize(oldLine)
	newTokens := tokenize(newLine)
	if len(oldTokens) == 0 && len(newTokens) == 0 {
		return nil, nil
	}

	// Map distinct tokens to runes so the rune-level differ works at
	// token granularity, the same trick go-diff uses for line mode.
	index := map[string]rune{}
	encode := func(tokens []string) []rune {
		rs := make([]rune, len(tokens))
		for i, tok := range tokens {
			r, ok := index[tok]
			if !ok {
				r = rune(len(index) + 1)
				index[tok] = r
			}
			rs[i] = r
		}
		return rs
	}
	decode := make(map[rune]string)
	oldRunes := encode(oldTokens)
	newRunes := encode(newTokens)
	for tok, r := range index {
		decode[r] = tok
	}

	dmp := diffmatchpatch.New()
	// A deadline would make output depend on machine speed; the engine
	// must be byte-deterministic.
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)

	for _, d := range diffs {
		var text strings.Builder
		for _, r := range d.Text {
			text.WriteString(decode[r])
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldSegs = appendSegment(oldSegs, text.String(), false)
			newSegs = appendSegment(newSegs, text.String(), false)
		case diffmatchpatch.DiffDelete:
			oldSegs = appendSegment(oldSegs, text.String(), true)
		case diffmatchpatch.DiffInsert:
			newSegs = appendSegment(newSegs, text.String(), true)
		}
	}
	return oldSegs, newSegs
}

// appendSegment merges adjacent segments with the same changed flag.
func appendSegment(segs []Segment, text string, changed bool) []Segment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Changed == changed {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Text: text, Changed: changed})
}
