package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads newline-delimited JSON entries from r. Blank lines and lines
// that are not valid entry JSON are skipped; a session file written by a
// newer agent should still convert.
func Load(r io.Reader) ([]Entry, error) {
	var entries []Entry

	// bufio.Reader instead of Scanner: session lines routinely exceed
	// Scanner's default token limit.
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var e Entry
			if jsonErr := json.Unmarshal(bytes.TrimSpace(line), &e); jsonErr == nil && e.Type != "" {
				entries = append(entries, e)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading transcript: %w", err)
		}
	}
	return entries, nil
}

// LoadFile loads a session transcript from a JSONL file on disk.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// ClipLast returns entries truncated so that only the final n renderable
// entries remain, preserving original order. Non-renderable entries that
// precede the clip window are dropped with it; those inside are kept so
// context like summaries stays attached. n <= 0 returns entries unchanged.
func ClipLast(entries []Entry, n int) []Entry {
	if n <= 0 {
		return entries
	}
	seen := 0
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Renderable() {
			seen++
			if seen == n {
				return entries[i:]
			}
		}
	}
	return entries
}

// FirstTimestamp returns the first entry timestamp in the transcript,
// used to seed deterministic verb selection.
func FirstTimestamp(entries []Entry) (int64, bool) {
	for i := range entries {
		if t, ok := entries[i].Time(); ok {
			return t.Unix(), true
		}
	}
	return 0, false
}

// FirstPrompt returns the first plain user prompt, used for titling.
func FirstPrompt(entries []Entry) string {
	for i := range entries {
		if entries[i].IsPrompt() {
			return entries[i].UserText()
		}
	}
	return ""
}
