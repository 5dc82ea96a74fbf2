// Package transcript models chat-session log entries and loads them from
// JSONL session files. Entries are immutable once parsed; the conversion
// engine only reads them.
package transcript

import (
	"encoding/json"
	"strings"
	"time"
)

// EntryType discriminates the top-level entry union.
type EntryType string

const (
	EntryUser                EntryType = "user"
	EntryAssistant           EntryType = "assistant"
	EntrySystem              EntryType = "system"
	EntrySummary             EntryType = "summary"
	EntryQueueOperation      EntryType = "queue-operation"
	EntryFileHistorySnapshot EntryType = "file-history-snapshot"
)

// Content block type discriminators.
const (
	BlockText       = "text"
	BlockThinking   = "thinking"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
	BlockImage      = "image"
)

// Entry is one logged session event.
type Entry struct {
	Type        EntryType `json:"type"`
	UUID        string    `json:"uuid,omitempty"`
	ParentUUID  string    `json:"parentUuid,omitempty"`
	Timestamp   string    `json:"timestamp,omitempty"`
	IsSidechain bool      `json:"isSidechain,omitempty"`
	IsMeta      bool      `json:"isMeta,omitempty"`
	Message     *Message  `json:"message,omitempty"`
	Summary     string    `json:"summary,omitempty"`

	// Todos mirrors the task-tracking tool state attached to user
	// entries; an in-progress item's ActiveForm overrides spinner verbs.
	Todos []Todo `json:"todos,omitempty"`

	// ToolUseResult is the tool-specific result payload (structured
	// patches, file contents, command output). Shape varies per tool.
	ToolUseResult json.RawMessage `json:"toolUseResult,omitempty"`
}

// Message is the chat message carried by user and assistant entries.
type Message struct {
	Role    string      `json:"role,omitempty"`
	Content ContentList `json:"content,omitempty"`
}

// Todo is one task-tracking item.
type Todo struct {
	Content    string `json:"content"`
	Status     string `json:"status"`
	ActiveForm string `json:"activeForm,omitempty"`
}

// ContentBlock is one item of an assistant or tool-result content list.
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Thinking string `json:"thinking,omitempty"`

	// tool_use fields.
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result fields.
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

// ContentList accepts both the plain-string and block-list encodings of
// message content.
type ContentList struct {
	Text   string
	Blocks []ContentBlock
}

func (c *ContentList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "\"") {
		return json.Unmarshal(data, &c.Text)
	}
	return json.Unmarshal(data, &c.Blocks)
}

func (c ContentList) MarshalJSON() ([]byte, error) {
	if c.Blocks != nil {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

// Time parses the entry timestamp. ok is false when the entry carries no
// usable timestamp (synthetic entries).
func (e *Entry) Time() (time.Time, bool) {
	if e.Timestamp == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// UserText returns the free-text content of a user entry. Prompts
// written as a text-block list (the shape API-driven sessions use)
// read the same as string content.
func (e *Entry) UserText() string {
	if e.Type != EntryUser {
		return ""
	}
	return e.markupText()
}

// ToolResults returns the tool_result blocks of a user entry.
func (e *Entry) ToolResults() []ContentBlock {
	if e.Type != EntryUser || e.Message == nil {
		return nil
	}
	var results []ContentBlock
	for _, b := range e.Message.Content.Blocks {
		if b.Type == BlockToolResult {
			results = append(results, b)
		}
	}
	return results
}

// IsToolResult reports whether a user entry carries only tool results.
func (e *Entry) IsToolResult() bool {
	if e.Type != EntryUser || e.Message == nil {
		return false
	}
	blocks := e.Message.Content.Blocks
	if len(blocks) == 0 {
		return false
	}
	for _, b := range blocks {
		if b.Type != BlockToolResult {
			return false
		}
	}
	return true
}

// AssistantBlocks returns the ordered content items of an assistant entry.
func (e *Entry) AssistantBlocks() []ContentBlock {
	if e.Type != EntryAssistant || e.Message == nil {
		return nil
	}
	return e.Message.Content.Blocks
}

// HasToolUse reports whether the assistant entry calls a tool.
func (e *Entry) HasToolUse() bool {
	for _, b := range e.AssistantBlocks() {
		if b.Type == BlockToolUse {
			return true
		}
	}
	return false
}

// HasThinking reports whether the assistant entry contains thinking.
func (e *Entry) HasThinking() bool {
	for _, b := range e.AssistantBlocks() {
		if b.Type == BlockThinking {
			return true
		}
	}
	return false
}

// HasFinalText reports whether the assistant entry contains a visible
// text block, which ends any in-flight working indicator.
func (e *Entry) HasFinalText() bool {
	for _, b := range e.AssistantBlocks() {
		if b.Type == BlockText && strings.TrimSpace(b.Text) != "" {
			return true
		}
	}
	return false
}

// ActiveTodoForm returns the in-progress task label, if any.
func (e *Entry) ActiveTodoForm() string {
	for _, t := range e.Todos {
		if t.Status == "in_progress" && t.ActiveForm != "" {
			return t.ActiveForm
		}
	}
	return ""
}

// Embedded-markup classification. These must run before prompt detection
// so synthetic notices never get the typed-input treatment.

// IsInterrupt reports a user-interrupt notice.
func (e *Entry) IsInterrupt() bool {
	text := e.markupText()
	return strings.HasPrefix(strings.TrimSpace(text), "[Request interrupted")
}

// IsCommand reports slash-command markup (<command-name>...).
func (e *Entry) IsCommand() bool {
	return strings.Contains(e.markupText(), "<command-name>")
}

// IsBashInput reports an interactive shell invocation (! prefix in the UI).
func (e *Entry) IsBashInput() bool {
	return strings.Contains(e.markupText(), "<bash-input>")
}

// IsBashOutput reports captured shell output.
func (e *Entry) IsBashOutput() bool {
	text := e.markupText()
	return strings.Contains(text, "<bash-stdout>") || strings.Contains(text, "<bash-stderr>")
}

// IsLocalCommandOutput reports output of a locally-run slash command.
func (e *Entry) IsLocalCommandOutput() bool {
	return strings.Contains(e.markupText(), "<local-command-stdout>")
}

// markupText is the text searched for embedded markup: string content
// plus any text blocks of a user entry.
func (e *Entry) markupText() string {
	if e.Message == nil {
		return ""
	}
	if e.Message.Content.Text != "" {
		return e.Message.Content.Text
	}
	var sb strings.Builder
	for _, b := range e.Message.Content.Blocks {
		if b.Type == BlockText {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// IsPrompt reports a plain typed user prompt: free text that is not a
// tool result and not any of the synthetic markup shapes.
func (e *Entry) IsPrompt() bool {
	if e.Type != EntryUser || e.IsMeta {
		return false
	}
	if e.IsToolResult() || e.IsInterrupt() || e.IsCommand() ||
		e.IsBashInput() || e.IsBashOutput() || e.IsLocalCommandOutput() {
		return false
	}
	return strings.TrimSpace(e.UserText()) != ""
}

// Renderable reports whether the entry produces output in a recording.
// Summaries, snapshots, queue operations and meta notices are skipped.
func (e *Entry) Renderable() bool {
	switch e.Type {
	case EntrySummary, EntryQueueOperation, EntryFileHistorySnapshot:
		return false
	case EntrySystem:
		return false
	case EntryAssistant:
		return len(e.AssistantBlocks()) > 0
	case EntryUser:
		if e.IsMeta {
			return false
		}
		if e.IsToolResult() {
			return true
		}
		return strings.TrimSpace(e.markupText()) != ""
	default:
		return false
	}
}
