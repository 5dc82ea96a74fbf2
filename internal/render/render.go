// Package render turns transcript entries into styled text blocks,
// dispatching each content shape to the markdown or diff renderer.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fakeyudi/recast/internal/ansi"
	"github.com/fakeyudi/recast/internal/diffview"
	"github.com/fakeyudi/recast/internal/markdown"
	"github.com/fakeyudi/recast/internal/theme"
	"github.com/fakeyudi/recast/internal/transcript"
)

// maxResultLines bounds how much of a tool result is shown before the
// remainder collapses into a count.
const maxResultLines = 6

// Renderer renders entry content at a fixed width and theme.
type Renderer struct {
	th    theme.Theme
	width int
	md    *markdown.Renderer
	diff  *diffview.Renderer
}

// New creates a Renderer for the given theme and content width.
func New(th theme.Theme, width int) *Renderer {
	md := markdown.New(th, width)
	md.Base = ansi.Fg(th.AssistantText)
	return &Renderer{
		th:    th,
		width: width,
		md:    md,
		diff:  diffview.New(th, width),
	}
}

// AssistantBlock renders one assistant content item. Unknown block types
// render nothing.
func (r *Renderer) AssistantBlock(b transcript.ContentBlock) string {
	switch b.Type {
	case transcript.BlockText:
		if strings.TrimSpace(b.Text) == "" {
			return ""
		}
		base := ansi.Fg(r.th.AssistantText)
		return base + r.md.Render(strings.TrimSpace(b.Text)) + ansi.Reset
	case transcript.BlockThinking:
		if strings.TrimSpace(b.Thinking) == "" {
			return ""
		}
		style := ansi.Fg(r.th.Thinking)
		lines := ansi.WordWrap(strings.TrimSpace(b.Thinking), r.width-2)
		for i := range lines {
			lines[i] = ansi.Italic + style + lines[i] + ansi.Reset
		}
		header := ansi.Styled("✻ Thinking…", ansi.Italic, style)
		return header + "\n" + strings.Join(lines, "\n")
	case transcript.BlockToolUse:
		return r.toolUseLine(b)
	case transcript.BlockImage:
		return ansi.Styled("[image]", ansi.Fg(r.th.Muted))
	default:
		return ""
	}
}

// toolUseLine renders the bullet announcing a tool call, with a concise
// argument hint where the tool has an obvious primary argument.
func (r *Renderer) toolUseLine(b transcript.ContentBlock) string {
	bullet := ansi.Styled("●", ansi.Fg(r.th.ToolSuccess))
	name := ansi.Styled(b.Name, ansi.Bold)
	hint := argsHint(b.Name, b.Input)
	if hint != "" {
		hint = ansi.Styled("("+hint+")", ansi.Fg(r.th.Muted))
	}
	return bullet + " " + name + hint
}

// argsHint extracts the primary argument for well-known tools.
func argsHint(tool string, input json.RawMessage) string {
	if len(input) == 0 {
		return ""
	}
	var args map[string]any
	if err := json.Unmarshal(input, &args); err != nil {
		return ""
	}
	key := ""
	switch tool {
	case "Bash":
		key = "command"
	case "Read", "Write", "Edit":
		key = "file_path"
	case "Glob", "Grep":
		key = "pattern"
	case "Task":
		key = "description"
	case "WebFetch", "WebSearch":
		key = "url"
	}
	if key == "" {
		return ""
	}
	v, ok := args[key].(string)
	if !ok {
		return ""
	}
	v = strings.ReplaceAll(v, "\n", " ")
	if r := []rune(v); len(r) > 60 {
		v = string(r[:57]) + "..."
	}
	return v
}

// toolUseResult is the loosely-typed tool result payload. Only the
// fields the renderer understands are decoded; everything else degrades
// to the generic text path.
type toolUseResult struct {
	FilePath        string          `json:"filePath"`
	StructuredPatch []diffview.Hunk `json:"structuredPatch"`
	Stdout          string          `json:"stdout"`
	Stderr          string          `json:"stderr"`
	File            *struct {
		FilePath string `json:"filePath"`
		Content  string `json:"content"`
		NumLines int    `json:"numLines"`
	} `json:"file"`
}

// ToolResult renders a tool-result entry: a structured patch becomes a
// diff, file reads and command output become truncated muted text, and
// unrecognized shapes degrade to a bare bullet indicator.
func (r *Renderer) ToolResult(e *transcript.Entry) string {
	blocks := e.ToolResults()
	isError := false
	for _, b := range blocks {
		if b.IsError {
			isError = true
		}
	}

	if len(e.ToolUseResult) > 0 {
		var tr toolUseResult
		if err := json.Unmarshal(e.ToolUseResult, &tr); err == nil {
			if len(tr.StructuredPatch) > 0 {
				return r.indentResult(r.diff.Render(tr.FilePath, tr.StructuredPatch), isError)
			}
			if tr.File != nil {
				summary := fmt.Sprintf("Read %s", plural(tr.File.NumLines, "line"))
				return r.indentResult(ansi.Styled(summary, ansi.Fg(r.th.Muted)), isError)
			}
			if tr.Stdout != "" || tr.Stderr != "" {
				return r.indentResult(r.truncated(strings.TrimRight(tr.Stdout+tr.Stderr, "\n")), isError)
			}
		}
	}

	text := blockText(blocks)
	if strings.TrimSpace(text) == "" {
		// Unrecognized result shape: just the bullet indicator.
		return r.resultBullet(isError)
	}
	return r.indentResult(r.truncated(strings.TrimSpace(text)), isError)
}

func blockText(blocks []transcript.ContentBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		var asString string
		if err := json.Unmarshal(b.Content, &asString); err == nil {
			sb.WriteString(asString)
			continue
		}
		var nested []transcript.ContentBlock
		if err := json.Unmarshal(b.Content, &nested); err == nil {
			for _, n := range nested {
				if n.Type == transcript.BlockText {
					sb.WriteString(n.Text)
				}
			}
		}
	}
	return sb.String()
}

func (r *Renderer) resultBullet(isError bool) string {
	color := r.th.ToolSuccess
	if isError {
		color = r.th.ToolError
	}
	return ansi.Styled("  ⎿", ansi.Fg(color))
}

// indentResult attaches a result block under its tool-call bullet.
func (r *Renderer) indentResult(body string, isError bool) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = r.resultBullet(isError) + "  " + line
		} else {
			lines[i] = "     " + line
		}
	}
	return strings.Join(lines, "\n")
}

// truncated wraps and caps a result body, collapsing the tail into a
// line count.
func (r *Renderer) truncated(text string) string {
	style := ansi.Fg(r.th.Muted)
	width := r.width - 5
	if width < 8 {
		width = 8
	}
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		lines = append(lines, ansi.WordWrap(raw, width)...)
	}
	if len(lines) > maxResultLines {
		hidden := len(lines) - maxResultLines
		lines = append(lines[:maxResultLines],
			fmt.Sprintf("… +%s", plural(hidden, "line")))
	}
	for i := range lines {
		lines[i] = ansi.Styled(lines[i], style)
	}
	return strings.Join(lines, "\n")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// StaticPrompt renders a user prompt without animation: prompt arrow,
// wrapped, prompt-colored.
func (r *Renderer) StaticPrompt(text string) string {
	style := ansi.Fg(r.th.UserPrompt)
	lines := ansi.WordWrap(strings.TrimSpace(text), r.width-2)
	for i, line := range lines {
		if i == 0 {
			lines[i] = ansi.Styled("❯ ", style, ansi.Bold) + ansi.Styled(line, style)
		} else {
			lines[i] = "  " + ansi.Styled(line, style)
		}
	}
	return strings.Join(lines, "\n")
}

// Interrupt renders the user-interrupt notice.
func (r *Renderer) Interrupt() string {
	return ansi.Styled("⎿  Interrupted by user", ansi.Fg(r.th.ToolError))
}

// Command renders slash-command markup as the command line the user ran.
func (r *Renderer) Command(e *transcript.Entry) string {
	name := extractTag(e.UserText(), "command-name")
	args := extractTag(e.UserText(), "command-args")
	line := name
	if args != "" {
		line += " " + args
	}
	if line == "" {
		return ""
	}
	return ansi.Styled("❯ ", ansi.Fg(r.th.UserPrompt), ansi.Bold) +
		ansi.Styled(line, ansi.Fg(r.th.Muted))
}

// BashInput renders an interactive shell invocation.
func (r *Renderer) BashInput(e *transcript.Entry) string {
	cmd := extractTag(e.UserText(), "bash-input")
	if cmd == "" {
		return ""
	}
	return ansi.Styled("! ", ansi.Fg(r.th.ToolError), ansi.Bold) +
		ansi.Styled(cmd, ansi.Fg(r.th.AssistantText))
}

// BashOutput renders captured shell output, stderr in the error color.
func (r *Renderer) BashOutput(e *transcript.Entry) string {
	stdout := extractTag(e.UserText(), "bash-stdout")
	stderr := extractTag(e.UserText(), "bash-stderr")
	var parts []string
	if strings.TrimSpace(stdout) != "" {
		parts = append(parts, r.truncated(strings.TrimSpace(stdout)))
	}
	if strings.TrimSpace(stderr) != "" {
		parts = append(parts, ansi.Styled(strings.TrimSpace(stderr), ansi.Fg(r.th.ToolError)))
	}
	return strings.Join(parts, "\n")
}

// LocalCommandOutput renders the stdout of a locally-run command.
func (r *Renderer) LocalCommandOutput(e *transcript.Entry) string {
	out := extractTag(e.UserText(), "local-command-stdout")
	if strings.TrimSpace(out) == "" {
		return ""
	}
	return r.truncated(strings.TrimSpace(out))
}

// extractTag pulls the body of an embedded <tag>...</tag> span.
func extractTag(text, tag string) string {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"
	start := strings.Index(text, open)
	if start < 0 {
		return ""
	}
	start += len(open)
	end := strings.Index(text[start:], closing)
	if end < 0 {
		return strings.TrimSpace(text[start:])
	}
	return strings.TrimSpace(text[start : start+end])
}
