package diffview_test

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/recast/internal/ansi"
	"github.com/fakeyudi/recast/internal/diffview"
	"github.com/fakeyudi/recast/internal/theme"
)

func TestCompareHighlightsChangedWord(t *testing.T) {
	oldSegs, newSegs := diffview.Compare("foo bar", "foo baz")

	wantOld := []diffview.Segment{{Text: "foo ", Changed: false}, {Text: "bar", Changed: true}}
	wantNew := []diffview.Segment{{Text: "foo ", Changed: false}, {Text: "baz", Changed: true}}
	assertSegments(t, "old", oldSegs, wantOld)
	assertSegments(t, "new", newSegs, wantNew)
}

func TestCompareIdenticalLines(t *testing.T) {
	oldSegs, newSegs := diffview.Compare("same text", "same text")
	want := []diffview.Segment{{Text: "same text", Changed: false}}
	assertSegments(t, "old", oldSegs, want)
	assertSegments(t, "new", newSegs, want)
}

func TestCompareEmptyInputs(t *testing.T) {
	oldSegs, newSegs := diffview.Compare("", "")
	if oldSegs != nil || newSegs != nil {
		t.Errorf("expected nil segments, got %v / %v", oldSegs, newSegs)
	}

	oldSegs, newSegs = diffview.Compare("", "added line")
	if len(oldSegs) != 0 {
		t.Errorf("old side of pure insert not empty: %v", oldSegs)
	}
	assertSegments(t, "new", newSegs, []diffview.Segment{{Text: "added line", Changed: true}})
}

func TestCompareMergesAdjacentChanges(t *testing.T) {
	oldSegs, _ := diffview.Compare("a b c", "x y z")
	for i := 1; i < len(oldSegs); i++ {
		if oldSegs[i].Changed == oldSegs[i-1].Changed {
			t.Errorf("adjacent segments share flag: %v", oldSegs)
		}
	}
}

func TestComparePartitionsExactly(t *testing.T) {
	wordGen := rapid.StringMatching(`[a-e]{1,4}`)
	rapid.Check(t, func(t *rapid.T) {
		oldLine := strings.Join(rapid.SliceOfN(wordGen, 0, 10).Draw(t, "old"), " ")
		newLine := strings.Join(rapid.SliceOfN(wordGen, 0, 10).Draw(t, "new"), " ")

		oldSegs, newSegs := diffview.Compare(oldLine, newLine)

		join := func(segs []diffview.Segment) string {
			var sb strings.Builder
			for _, s := range segs {
				sb.WriteString(s.Text)
			}
			return sb.String()
		}
		if got := join(oldSegs); got != oldLine {
			t.Errorf("old side does not partition: got %q, want %q", got, oldLine)
		}
		if got := join(newSegs); got != newLine {
			t.Errorf("new side does not partition: got %q, want %q", got, newLine)
		}

		// Unchanged spans must appear on both sides.
		var oldEq, newEq strings.Builder
		for _, s := range oldSegs {
			if !s.Changed {
				oldEq.WriteString(s.Text)
			}
		}
		for _, s := range newSegs {
			if !s.Changed {
				newEq.WriteString(s.Text)
			}
		}
		if oldEq.String() != newEq.String() {
			t.Errorf("equal spans differ: old %q, new %q", oldEq.String(), newEq.String())
		}
	})
}

func TestCompareIsDeterministic(t *testing.T) {
	oldLine := "the quick brown fox jumps over the lazy dog"
	newLine := "the slow brown cat jumps over a lazy dog"
	o1, n1 := diffview.Compare(oldLine, newLine)
	o2, n2 := diffview.Compare(oldLine, newLine)
	assertSegments(t, "old", o2, o1)
	assertSegments(t, "new", n2, n1)
}

func TestRenderSummaryAndGutter(t *testing.T) {
	r := diffview.New(theme.Dark, 80)
	hunks := []diffview.Hunk{{
		OldStart: 10,
		OldLines: 3,
		NewStart: 10,
		NewLines: 3,
		Lines:    []string{" ctx", "-old value", "+new value"},
	}}
	got := r.Render("internal/foo/foo.go", hunks)
	stripped := ansi.Strip(got)

	if !strings.Contains(stripped, "internal/foo/foo.go") {
		t.Error("missing file header")
	}
	if !strings.Contains(stripped, "1 addition and 1 removal") {
		t.Errorf("summary wrong: %q", stripped)
	}
	if !strings.Contains(stripped, "  10   10") {
		t.Errorf("context gutter missing both numbers: %q", stripped)
	}
	if !strings.Contains(stripped, "  11      ") {
		t.Errorf("removal gutter should omit the new number: %q", stripped)
	}
	if !strings.Contains(got, ansi.Bg(theme.Dark.DiffRemoveCharBg)) {
		t.Error("changed text missing character background")
	}
	if !strings.Contains(got, ansi.Bg(theme.Dark.DiffAddLineBg)) {
		t.Error("addition missing line background")
	}
}

func TestRenderPluralSummary(t *testing.T) {
	r := diffview.New(theme.Dark, 80)
	hunks := []diffview.Hunk{{
		OldStart: 1, NewStart: 1,
		Lines: []string{"+a", "+b", "-c", "-d"},
	}}
	got := ansi.Strip(r.Render("f.txt", hunks))
	if !strings.Contains(got, "2 additions and 2 removals") {
		t.Errorf("summary wrong: %q", got)
	}
}

func TestRenderSeparatesHunks(t *testing.T) {
	r := diffview.New(theme.Dark, 80)
	hunks := []diffview.Hunk{
		{OldStart: 1, NewStart: 1, Lines: []string{"+a"}},
		{OldStart: 50, NewStart: 51, Lines: []string{"-b"}},
	}
	got := ansi.Strip(r.Render("f.txt", hunks))
	if !strings.Contains(got, "⋮") {
		t.Errorf("missing hunk separator: %q", got)
	}
}

func assertSegments(t *testing.T, side string, got, want []diffview.Segment) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", side, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: got %+v, want %+v", side, i, got[i], want[i])
		}
	}
}
