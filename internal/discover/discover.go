// Package discover locates agent session transcripts on disk. Sessions
// live under the agent data root as <project-dir>/<session-uuid>.jsonl.
package discover

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/recast/internal/transcript"
)

// ErrNoSessions is returned when discovery finds no transcripts.
var ErrNoSessions = errors.New("no session transcripts found")

// Session describes one discovered transcript file.
type Session struct {
	Path     string
	ID       string // session UUID, the filename stem
	Project  string // project directory name
	Modified time.Time
	Title    string // first user prompt, possibly empty
}

// Root resolves the session root directory: the override when set,
// otherwise ~/.claude/projects.
func Root(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// List walks the session root and returns all transcripts, newest first.
// Files whose stem is not a session UUID are skipped.
func List(root string) ([]Session, error) {
	var sessions []Session
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}
		stem := strings.TrimSuffix(d.Name(), ".jsonl")
		if _, err := uuid.Parse(stem); err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		sessions = append(sessions, Session{
			Path:     path,
			ID:       stem,
			Project:  filepath.Base(filepath.Dir(path)),
			Modified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Modified.After(sessions[j].Modified)
	})
	return sessions, nil
}

// Latest returns the most recently modified session under root.
func Latest(root string) (*Session, error) {
	sessions, err := List(root)
	if err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

// LoadTitles fills in each session's Title from its first user prompt.
// Unreadable transcripts keep an empty title.
func LoadTitles(sessions []Session) {
	for i := range sessions {
		entries, err := transcript.LoadFile(sessions[i].Path)
		if err != nil {
			continue
		}
		title := strings.TrimSpace(transcript.FirstPrompt(entries))
		title = strings.ReplaceAll(title, "\n", " ")
		if r := []rune(title); len(r) > 80 {
			title = string(r[:77]) + "..."
		}
		sessions[i].Title = title
	}
}
