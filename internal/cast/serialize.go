package cast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseError reports a structurally invalid recording line. Downstream
// players depend on format integrity, so malformed input is never
// silently dropped.
type ParseError struct {
	Line int // 1-based line number
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("recording line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Serialize renders the document as NDJSON: one header line followed by
// one line per event.
func Serialize(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	headerLine, err := json.Marshal(doc.Header)
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	buf.Write(headerLine)
	buf.WriteByte('\n')
	for i := range doc.Events {
		line, err := json.Marshal(doc.Events[i])
		if err != nil {
			return nil, fmt.Errorf("marshal event %d: %w", i, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Parse is the exact inverse of Serialize. It round-trips any document
// produced by a Builder and returns *ParseError on structural violations.
func Parse(data []byte) (*Document, error) {
	lines := bytes.Split(data, []byte("\n"))
	if len(lines) == 0 || len(bytes.TrimSpace(lines[0])) == 0 {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("missing header line")}
	}

	var doc Document
	if err := json.Unmarshal(lines[0], &doc.Header); err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}
	if doc.Header.Version != Version {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("unsupported version %d", doc.Header.Version)}
	}

	for i, line := range lines[1:] {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, &ParseError{Line: i + 2, Err: err}
		}
		doc.Events = append(doc.Events, ev)
	}
	return &doc, nil
}
