package cast_test

import (
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/recast/internal/cast"
	"github.com/fakeyudi/recast/internal/theme"
)

// generateDocument builds a document through the Builder the way the
// converter does: interleaved waits, outputs and markers.
func generateDocument(t *rapid.T) *cast.Document {
	cols := rapid.IntRange(20, 200).Draw(t, "cols")
	rows := rapid.IntRange(5, 60).Draw(t, "rows")
	title := rapid.StringN(0, 30, -1).Draw(t, "title")
	b := cast.NewBuilder(cols, rows, theme.Dark, title)

	n := rapid.IntRange(0, 30).Draw(t, "n_events")
	for i := 0; i < n; i++ {
		if rapid.Bool().Draw(t, "wait") {
			b.AddTime(float64(rapid.IntRange(0, 5000).Draw(t, "gap_ms")) / 1000)
		}
		if rapid.Bool().Draw(t, "marker") {
			b.Marker(rapid.StringN(1, 20, -1).Draw(t, "label"))
		} else {
			b.Output(rapid.StringN(1, 40, -1).Draw(t, "data"))
		}
	}
	return b.Build()
}

func TestSerializeParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		original := generateDocument(t)

		data, err := cast.Serialize(original)
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		got, err := cast.Parse(data)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}

		if got.Header != original.Header {
			if got.Header.Term.Theme == nil || *got.Header.Term.Theme != *original.Header.Term.Theme {
				t.Errorf("header theme mismatch: got %+v, want %+v", got.Header.Term.Theme, original.Header.Term.Theme)
			}
			gh, oh := got.Header, original.Header
			gh.Term.Theme, oh.Term.Theme = nil, nil
			if gh != oh {
				t.Errorf("header mismatch: got %+v, want %+v", gh, oh)
			}
		}
		if len(got.Events) != len(original.Events) {
			t.Fatalf("event count mismatch: got %d, want %d", len(got.Events), len(original.Events))
		}
		for i := range original.Events {
			if got.Events[i] != original.Events[i] {
				t.Errorf("event %d mismatch: got %+v, want %+v", i, got.Events[i], original.Events[i])
			}
		}
	})
}

func TestEventDeltasNonNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := generateDocument(t)
		total := 0.0
		for i, e := range doc.Events {
			if e.Delta < 0 {
				t.Fatalf("event %d has negative delta %v", i, e.Delta)
			}
			prev := total
			total += e.Delta
			if total < prev {
				t.Fatalf("absolute time decreased at event %d", i)
			}
		}
	})
}

func TestBuilderDeltaSemantics(t *testing.T) {
	b := cast.NewBuilder(80, 24, theme.Dark, "")
	b.Output("a")
	b.AddTime(1.5)
	b.AddTime(0.5)
	b.Output("b")
	b.Marker("mark")
	doc := b.Build()

	want := []cast.Event{
		{Delta: 0, Kind: cast.Output, Data: "a"},
		{Delta: 2.0, Kind: cast.Output, Data: "b"},
		{Delta: 0, Kind: cast.Marker, Data: "mark"},
	}
	if len(doc.Events) != len(want) {
		t.Fatalf("got %d events, want %d", len(doc.Events), len(want))
	}
	for i := range want {
		if doc.Events[i] != want[i] {
			t.Errorf("event %d: got %+v, want %+v", i, doc.Events[i], want[i])
		}
	}
	if doc.Duration() != 2.0 {
		t.Errorf("Duration: got %v, want 2.0", doc.Duration())
	}
}

func TestBuilderIgnoresEmptyOutputAndNegativeTime(t *testing.T) {
	b := cast.NewBuilder(80, 24, theme.Dark, "")
	b.Output("")
	b.AddTime(-3)
	b.Output("x")
	doc := b.Build()
	if len(doc.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(doc.Events))
	}
	if doc.Events[0].Delta != 0 {
		t.Errorf("negative AddTime moved the clock: delta %v", doc.Events[0].Delta)
	}
}

func TestParseRejectsStructurallyInvalidInput(t *testing.T) {
	header := `{"version":3,"term":{"cols":80,"rows":24}}`
	cases := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"header not json", "not json\n"},
		{"wrong version", `{"version":2,"term":{"cols":80,"rows":24}}` + "\n"},
		{"event not json", header + "\nnope\n"},
		{"wrong arity", header + "\n[1.0,\"o\"]\n"},
		{"unknown kind", header + "\n[1.0,\"x\",\"data\"]\n"},
		{"negative delta", header + "\n[-0.5,\"o\",\"data\"]\n"},
		{"non-string payload", header + "\n[1.0,\"o\",42]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cast.Parse([]byte(tc.input))
			if err == nil {
				t.Fatal("expected a parse error, got nil")
			}
			var parseErr *cast.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseAcceptsResizeEvents(t *testing.T) {
	input := `{"version":3,"term":{"cols":80,"rows":24}}` + "\n" + `[0.5,"r","100x40"]` + "\n"
	doc, err := cast.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Events) != 1 || doc.Events[0].Kind != cast.Resize {
		t.Fatalf("expected one resize event, got %+v", doc.Events)
	}
}

func TestSerializeIsNDJSON(t *testing.T) {
	b := cast.NewBuilder(80, 24, theme.Dark, "demo")
	b.Output("hello")
	b.Marker("m1")
	data, err := cast.Serialize(b.Build())
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], `"version":3`) {
		t.Errorf("header line missing version: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[") {
		t.Errorf("event line is not a tuple: %s", lines[1])
	}
}
