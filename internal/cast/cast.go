// Package cast implements the terminal-recording document: a header plus
// timed output/marker events, serialized as newline-delimited JSON in the
// asciicast v3 shape.
package cast

import (
	"encoding/json"
	"fmt"

	"github.com/fakeyudi/recast/internal/theme"
)

// Format version written into every header.
const Version = 3

// EventKind discriminates recording events.
type EventKind string

const (
	// Output is raw bytes written to the terminal.
	Output EventKind = "o"
	// Marker is a navigation bookmark, independent of output.
	Marker EventKind = "m"
	// Resize is a terminal-size change. The converter never emits one,
	// but the format carries it and parsing must accept it.
	Resize EventKind = "r"
)

// Event is one timed recording event. Delta is the interval since the
// previous event, not absolute time.
type Event struct {
	Delta float64
	Kind  EventKind
	Data  string
}

// MarshalJSON encodes the event as the 3-tuple [delta, kind, data].
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{e.Delta, e.Kind, e.Data})
}

// UnmarshalJSON decodes the 3-tuple form, rejecting wrong arity and
// unknown kinds.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("event must have 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.Delta); err != nil {
		return fmt.Errorf("event time: %w", err)
	}
	if e.Delta < 0 {
		return fmt.Errorf("event time must be >= 0, got %v", e.Delta)
	}
	var kind string
	if err := json.Unmarshal(raw[1], &kind); err != nil {
		return fmt.Errorf("event kind: %w", err)
	}
	switch EventKind(kind) {
	case Output, Marker, Resize:
		e.Kind = EventKind(kind)
	default:
		return fmt.Errorf("unknown event kind %q", kind)
	}
	if err := json.Unmarshal(raw[2], &e.Data); err != nil {
		return fmt.Errorf("event data: %w", err)
	}
	return nil
}

// TermTheme is the terminal color description in the header.
type TermTheme struct {
	Fg      string `json:"fg"`
	Bg      string `json:"bg"`
	Palette string `json:"palette"`
}

// Term describes the terminal the recording targets.
type Term struct {
	Cols  int        `json:"cols"`
	Rows  int        `json:"rows"`
	Theme *TermTheme `json:"theme,omitempty"`
}

// Header is the first line of a serialized recording.
type Header struct {
	Version int    `json:"version"`
	Term    Term   `json:"term"`
	Title   string `json:"title,omitempty"`
}

// Document is a complete recording. Immutable once built.
type Document struct {
	Header Header
	Events []Event
}

// Duration is the absolute playback time of the final event.
func (d *Document) Duration() float64 {
	var total float64
	for _, e := range d.Events {
		total += e.Delta
	}
	return total
}

// Builder accumulates timed events against an internal clock. Output and
// Marker record an event at the current clock; AddTime advances the clock
// silently, widening the next event's delta.
type Builder struct {
	header  Header
	events  []Event
	clock   float64
	emitted float64 // absolute time of the last recorded event
}

// NewBuilder starts a recording document for the given terminal.
func NewBuilder(cols, rows int, th theme.Theme, title string) *Builder {
	return &Builder{
		header: Header{
			Version: Version,
			Term: Term{
				Cols: cols,
				Rows: rows,
				Theme: &TermTheme{
					Fg:      th.Foreground,
					Bg:      th.Background,
					Palette: th.PaletteString(),
				},
			},
			Title: title,
		},
	}
}

// Output appends an output event at the current clock time.
func (b *Builder) Output(text string) {
	if text == "" {
		return
	}
	b.events = append(b.events, Event{Delta: b.clock - b.emitted, Kind: Output, Data: text})
	b.emitted = b.clock
}

// Marker appends a navigation marker at the current clock time.
func (b *Builder) Marker(label string) {
	b.events = append(b.events, Event{Delta: b.clock - b.emitted, Kind: Marker, Data: label})
	b.emitted = b.clock
}

// AddTime advances the clock by the given seconds without emitting.
// Negative durations are ignored; the clock never runs backwards.
func (b *Builder) AddTime(seconds float64) {
	if seconds > 0 {
		b.clock += seconds
	}
}

// Clock returns the current absolute clock in seconds.
func (b *Builder) Clock() float64 {
	return b.clock
}

// Build returns the finished document.
func (b *Builder) Build() *Document {
	return &Document{Header: b.header, Events: b.events}
}
