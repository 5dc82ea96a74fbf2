package convert_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fakeyudi/recast/internal/ansi"
	"github.com/fakeyudi/recast/internal/cast"
	"github.com/fakeyudi/recast/internal/convert"
	"github.com/fakeyudi/recast/internal/theme"
	"github.com/fakeyudi/recast/internal/timing"
	"github.com/fakeyudi/recast/internal/transcript"
)

func promptAt(text, ts string) transcript.Entry {
	return transcript.Entry{
		Type:      transcript.EntryUser,
		Timestamp: ts,
		Message:   &transcript.Message{Role: "user", Content: transcript.ContentList{Text: text}},
	}
}

func assistantAt(ts string, blocks ...transcript.ContentBlock) transcript.Entry {
	return transcript.Entry{
		Type:      transcript.EntryAssistant,
		Timestamp: ts,
		Message:   &transcript.Message{Role: "assistant", Content: transcript.ContentList{Blocks: blocks}},
	}
}

func toolResultAt(ts, id, text string) transcript.Entry {
	content, _ := json.Marshal(text)
	return transcript.Entry{
		Type:      transcript.EntryUser,
		Timestamp: ts,
		Message: &transcript.Message{Content: transcript.ContentList{
			Blocks: []transcript.ContentBlock{{
				Type:      transcript.BlockToolResult,
				ToolUseID: id,
				Content:   json.RawMessage(content),
			}},
		}},
	}
}

// sampleSession is one prompt, one tool call, its result and a closing
// response.
func sampleSession() []transcript.Entry {
	return []transcript.Entry{
		promptAt("run the tests", "2026-02-01T09:00:00Z"),
		assistantAt("2026-02-01T09:00:03Z",
			transcript.ContentBlock{Type: transcript.BlockToolUse, Name: "Bash",
				Input: json.RawMessage(`{"command":"go test ./..."}`)}),
		toolResultAt("2026-02-01T09:00:08Z", "t1", "ok  \tall packages"),
		assistantAt("2026-02-01T09:00:10Z",
			transcript.ContentBlock{Type: transcript.BlockText, Text: "All tests pass."}),
	}
}

func TestConvertProducesVersionedHeader(t *testing.T) {
	doc, err := convert.Convert(sampleSession(), convert.DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if doc.Header.Version != 3 {
		t.Errorf("version = %d", doc.Header.Version)
	}
	if doc.Header.Term.Cols != 100 || doc.Header.Term.Rows != 30 {
		t.Errorf("term = %dx%d", doc.Header.Term.Cols, doc.Header.Term.Rows)
	}
	if doc.Header.Term.Theme == nil || doc.Header.Term.Theme.Fg != theme.Dark.Foreground {
		t.Errorf("theme = %+v", doc.Header.Term.Theme)
	}
	if len(doc.Events) == 0 {
		t.Fatal("no events produced")
	}
}

func TestMarkerPolicies(t *testing.T) {
	countMarkers := func(mode convert.MarkerMode) (int, []string) {
		opts := convert.DefaultOptions()
		opts.Markers = mode
		doc, err := convert.Convert(sampleSession(), opts)
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		var labels []string
		for _, e := range doc.Events {
			if e.Kind == cast.Marker {
				labels = append(labels, e.Data)
			}
		}
		return len(labels), labels
	}

	if n, labels := countMarkers(convert.MarkersAll); n != 2 {
		t.Errorf("all: %d markers %v, want 2", n, labels)
	} else if labels[0] != "run the tests" || labels[1] != "Bash" {
		t.Errorf("all: labels = %v", labels)
	}
	if n, labels := countMarkers(convert.MarkersUser); n != 1 || labels[0] != "run the tests" {
		t.Errorf("user: %d markers %v", n, labels)
	}
	if n, labels := countMarkers(convert.MarkersTools); n != 1 || labels[0] != "Bash" {
		t.Errorf("tools: %d markers %v", n, labels)
	}
	if n, _ := countMarkers(convert.MarkersNone); n != 0 {
		t.Errorf("none: %d markers", n)
	}
}

func TestConvertIsByteDeterministic(t *testing.T) {
	run := func() []byte {
		doc, err := convert.Convert(sampleSession(), convert.DefaultOptions())
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		data, err := cast.Serialize(doc)
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		return data
	}
	first, second := run(), run()
	if string(first) != string(second) {
		t.Error("repeated conversions are not byte-identical")
	}
}

func TestConvertRendersContent(t *testing.T) {
	doc, err := convert.Convert(sampleSession(), convert.DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var all strings.Builder
	for _, e := range doc.Events {
		if e.Kind == cast.Output {
			all.WriteString(e.Data)
		}
	}
	flat := ansi.Strip(all.String())

	for _, want := range []string{"run the tests", "Bash", "go test ./...", "All tests pass."} {
		if !strings.Contains(flat, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestConvertWithoutAnimationsIsStatic(t *testing.T) {
	opts := convert.DefaultOptions()
	opts.InputAnimation = false
	opts.Spinner = false

	doc, err := convert.Convert(sampleSession(), opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for i, e := range doc.Events {
		if strings.Contains(e.Data, ansi.SetScrollRegion(1, 26)) {
			t.Errorf("event %d sets a scroll region without the frame", i)
		}
	}
	var all strings.Builder
	for _, e := range doc.Events {
		all.WriteString(e.Data)
	}
	if !strings.Contains(ansi.Strip(all.String()), "❯ run the tests") {
		t.Error("static prompt missing")
	}
}

func TestConvertAnimationScaffolding(t *testing.T) {
	doc, err := convert.Convert(sampleSession(), convert.DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	first := doc.Events[0].Data
	if !strings.Contains(first, ansi.SetScrollRegion(1, 26)) {
		t.Errorf("first event does not set up the scroll region: %q", first)
	}
	last := doc.Events[len(doc.Events)-1].Data
	if !strings.Contains(last, ansi.ResetScrollRegion) {
		t.Errorf("last event does not restore the scroll region: %q", last)
	}
}

func TestConvertClampsGaps(t *testing.T) {
	entries := []transcript.Entry{
		promptAt("first", "2026-02-01T09:00:00Z"),
		// An hour of dead air between entries.
		promptAt("second", "2026-02-01T10:00:00Z"),
	}
	opts := convert.DefaultOptions()
	opts.InputAnimation = false
	opts.Spinner = false

	doc, err := convert.Convert(entries, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	// The hour collapses to MaxWait plus the synthetic typing time.
	for i, e := range doc.Events {
		if e.Delta > opts.Timing.MaxWait+1 {
			t.Errorf("event %d delta %v not clamped near MaxWait %v", i, e.Delta, opts.Timing.MaxWait)
		}
	}
}

func TestConvertSkipsNonRenderableEntries(t *testing.T) {
	entries := []transcript.Entry{
		{Type: transcript.EntrySummary, Summary: "prior context"},
		{Type: transcript.EntrySystem},
		promptAt("hello", "2026-02-01T09:00:00Z"),
	}
	opts := convert.DefaultOptions()
	opts.InputAnimation = false
	opts.Spinner = false

	doc, err := convert.Convert(entries, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var all strings.Builder
	for _, e := range doc.Events {
		all.WriteString(e.Data)
	}
	if strings.Contains(ansi.Strip(all.String()), "prior context") {
		t.Error("summary leaked into the recording")
	}
}

func TestConvertRendersBlockShapedPrompt(t *testing.T) {
	entries := []transcript.Entry{{
		Type:      transcript.EntryUser,
		Timestamp: "2026-02-01T09:00:00Z",
		Message: &transcript.Message{Role: "user", Content: transcript.ContentList{
			Blocks: []transcript.ContentBlock{{Type: transcript.BlockText, Text: "ship the release"}},
		}},
	}}
	opts := convert.DefaultOptions()
	opts.InputAnimation = false
	opts.Spinner = false

	doc, err := convert.Convert(entries, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var all strings.Builder
	for _, e := range doc.Events {
		all.WriteString(e.Data)
	}
	if !strings.Contains(ansi.Strip(all.String()), "ship the release") {
		t.Error("text-block prompt missing from output")
	}
}

func TestMarkerLabelTruncatesOnRuneBoundaries(t *testing.T) {
	entries := []transcript.Entry{
		promptAt(strings.Repeat("über ", 20), "2026-02-01T09:00:00Z"),
	}
	opts := convert.DefaultOptions()
	opts.Markers = convert.MarkersUser

	doc, err := convert.Convert(entries, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var label string
	for _, e := range doc.Events {
		if e.Kind == cast.Marker {
			label = e.Data
		}
	}
	if label == "" {
		t.Fatal("no marker emitted")
	}
	if !utf8.ValidString(label) {
		t.Errorf("marker label is not valid UTF-8: %q", label)
	}
	if !strings.HasSuffix(label, "...") {
		t.Errorf("long label not truncated: %q", label)
	}
	if got := len([]rune(label)); got != 48 {
		t.Errorf("label length = %d runes, want 48", got)
	}
}

func TestSkippedEntriesStillAdvanceTheClock(t *testing.T) {
	opts := convert.DefaultOptions()
	opts.InputAnimation = false
	opts.Spinner = false

	duration := func(entries []transcript.Entry) float64 {
		doc, err := convert.Convert(entries, opts)
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		return doc.Duration()
	}

	// Untimed entries, so the gap is purely the per-type pause.
	plain := duration([]transcript.Entry{
		promptAt("first", ""),
		promptAt("second", ""),
	})
	withSystem := duration([]transcript.Entry{
		promptAt("first", ""),
		{Type: transcript.EntrySystem},
		promptAt("second", ""),
	})

	if got := withSystem - plain; math.Abs(got-timing.SystemPause) > 1e-9 {
		t.Errorf("system entry added %v to playback, want %v", got, timing.SystemPause)
	}
}

func TestConvertSpinnerFillsToolGaps(t *testing.T) {
	opts := convert.DefaultOptions()
	opts.InputAnimation = false

	doc, err := convert.Convert(sampleSession(), opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var sawVerb bool
	for _, e := range doc.Events {
		text := ansi.Strip(e.Data)
		if strings.Contains(text, "…") && strings.Contains(e.Data, ansi.EraseLine) {
			sawVerb = true
		}
	}
	if !sawVerb {
		t.Error("no spinner frames in the tool-call gap")
	}
}

func TestConvertTitleFlowsIntoHeader(t *testing.T) {
	opts := convert.DefaultOptions()
	opts.Title = "demo session"
	doc, err := convert.Convert(sampleSession(), opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if doc.Header.Title != "demo session" {
		t.Errorf("title = %q", doc.Header.Title)
	}
}
