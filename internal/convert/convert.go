// Package convert drives the transcript-to-recording transformation: it
// classifies each entry, advances the playback clock, runs the input and
// spinner animations, and appends rendered output to the document.
package convert

import (
	"strings"

	"github.com/fakeyudi/recast/internal/animate"
	"github.com/fakeyudi/recast/internal/cast"
	"github.com/fakeyudi/recast/internal/render"
	"github.com/fakeyudi/recast/internal/spinner"
	"github.com/fakeyudi/recast/internal/theme"
	"github.com/fakeyudi/recast/internal/timing"
	"github.com/fakeyudi/recast/internal/transcript"
)

// MarkerMode selects which entries produce navigation markers.
type MarkerMode string

const (
	MarkersAll   MarkerMode = "all"
	MarkersUser  MarkerMode = "user"
	MarkersTools MarkerMode = "tools"
	MarkersNone  MarkerMode = "none"
)

// Options is the full configuration surface of one conversion.
type Options struct {
	Cols   int
	Rows   int
	Theme  theme.Theme
	Timing timing.Config
	Title  string

	Markers MarkerMode

	// InputAnimation enables the fixed prompt UI and burst typing.
	InputAnimation bool
	InitialGapMs   float64 // 0 = default
	MinGapMs       float64
	DecayFactor    float64

	// Spinner enables the working indicator between messages.
	Spinner         bool
	SpinnerInterval float64 // seconds per frame, 0 = default
}

// DefaultOptions returns a conversion setup matching the interactive UI.
func DefaultOptions() Options {
	return Options{
		Cols:           100,
		Rows:           30,
		Theme:          theme.Dark,
		Timing:         timing.Default(),
		Markers:        MarkersUser,
		InputAnimation: true,
		Spinner:        true,
	}
}

// converter holds the per-run state threaded through the entry loop.
type converter struct {
	opts     Options
	builder  *cast.Builder
	calc     *timing.Calculator
	renderer *render.Renderer
	frame    *animate.Frame
	spin     *spinner.Spinner
}

// Convert transforms an ordered transcript into a recording document.
// The transform is a single synchronous pass; converting the same
// transcript with the same options is byte-identical.
func Convert(entries []transcript.Entry, opts Options) (*cast.Document, error) {
	if opts.Cols <= 0 {
		opts.Cols = 100
	}
	if opts.Rows <= 0 {
		opts.Rows = 30
	}
	if opts.Markers == "" {
		opts.Markers = MarkersNone
	}

	c := &converter{
		opts:     opts,
		builder:  cast.NewBuilder(opts.Cols, opts.Rows, opts.Theme, opts.Title),
		calc:     timing.New(opts.Timing),
		renderer: render.New(opts.Theme, opts.Cols-2),
	}

	acfg := animate.DefaultConfig(opts.Cols, opts.Rows, opts.Theme)
	if opts.InitialGapMs > 0 {
		acfg.InitialGapMs = opts.InitialGapMs
	}
	if opts.MinGapMs > 0 {
		acfg.MinGapMs = opts.MinGapMs
	}
	if opts.DecayFactor > 0 {
		acfg.DecayFactor = opts.DecayFactor
	}

	scfg := spinner.DefaultConfig(opts.Theme)
	if opts.SpinnerInterval > 0 {
		scfg.FrameInterval = opts.SpinnerInterval
	}
	if opts.InputAnimation {
		c.frame = animate.NewFrame(acfg)
		scfg.FixedRow = c.frame.SpinnerRow()
	}
	seed, _ := transcript.FirstTimestamp(entries)
	c.spin = spinner.New(scfg, seed)

	if c.frame != nil {
		c.builder.Output(c.frame.Setup())
	}

	for i := range entries {
		e := &entries[i]
		if !e.Renderable() {
			// Skipped entries still advance the clock: their pauses and
			// timestamps shape the gap before the next rendered entry.
			c.calc.NextEntry(e)
			continue
		}
		c.entry(e)
	}

	if c.opts.Spinner && c.spin.Active() {
		c.spin.Clear(c.builder)
	}
	if c.frame != nil {
		c.builder.Output(c.frame.Teardown())
	}
	return c.builder.Build(), nil
}

// entry processes one renderable entry.
func (c *converter) entry(e *transcript.Entry) {
	// Classification order matters: interrupt and markup detection run
	// before prompt detection so synthetic notices are never typed.
	isInterrupt := e.IsInterrupt()
	isCommand := e.IsCommand()
	isBashIn := e.IsBashInput()
	isBashOut := e.IsBashOutput()
	isLocalOut := e.IsLocalCommandOutput()
	isToolResult := e.IsToolResult()
	isPrompt := e.IsPrompt()

	// Advance the clock; while a spinner is active the gap plays out as
	// animation frames before anything else happens.
	entryTime := c.calc.NextEntry(e)
	gap := entryTime - c.builder.Clock()
	if c.opts.Spinner && c.spin.Active() {
		c.spin.ContinueFor(c.builder, gap)
	} else {
		c.builder.AddTime(gap)
	}

	if c.shouldClearSpinner(e, isPrompt, isInterrupt, isCommand, isBashIn) {
		c.spin.Clear(c.builder)
	}

	if label, ok := c.markerFor(e, isPrompt); ok {
		c.builder.Marker(label)
	}

	switch {
	case isPrompt && c.opts.InputAnimation:
		c.animatePrompt(e)
	case isPrompt:
		c.builder.AddTime(c.calc.TypingDuration(e.UserText()))
		c.calc.Time = c.builder.Clock()
		c.emitBlock(c.renderer.StaticPrompt(e.UserText()), false)
	case isInterrupt:
		c.emitBlock(c.renderer.Interrupt(), false)
	case isCommand:
		c.emitBlock(c.renderer.Command(e), false)
	case isBashIn:
		c.emitBlock(c.renderer.BashInput(e), true)
	case isBashOut:
		c.emitBlock(c.renderer.BashOutput(e), true)
	case isLocalOut:
		c.emitBlock(c.renderer.LocalCommandOutput(e), true)
	case isToolResult:
		c.emitBlock(c.renderer.ToolResult(e), true)
	case e.Type == transcript.EntryAssistant:
		c.assistantEntry(e)
	}

	// Output may have scrolled through the prompt frame's rows; repaint.
	if c.frame != nil {
		c.builder.Output(c.frame.Redraw())
	}

	if c.opts.Spinner && !c.spin.Active() && (isPrompt || e.HasToolUse() || e.HasThinking()) {
		c.spin.Start(c.builder, e.ActiveTodoForm())
	}
}

// assistantEntry renders assistant content items in order. An entry that
// is only tool calls keeps tight spacing so the call groups visually
// with its result.
func (c *converter) assistantEntry(e *transcript.Entry) {
	onlyToolUse := true
	for _, b := range e.AssistantBlocks() {
		if b.Type != transcript.BlockToolUse {
			onlyToolUse = false
		}
	}
	for _, b := range e.AssistantBlocks() {
		text := c.renderer.AssistantBlock(b)
		if text == "" {
			continue
		}
		c.emitBlock(text, onlyToolUse || b.Type == transcript.BlockToolUse)
	}
}

// shouldClearSpinner reports whether this entry ends the working state.
func (c *converter) shouldClearSpinner(e *transcript.Entry, isPrompt, isInterrupt, isCommand, isBashIn bool) bool {
	if !c.opts.Spinner || !c.spin.Active() {
		return false
	}
	return isPrompt || isInterrupt || isCommand || isBashIn || e.HasFinalText()
}

// markerFor applies the marker policy.
func (c *converter) markerFor(e *transcript.Entry, isPrompt bool) (string, bool) {
	mode := c.opts.Markers
	if mode == MarkersNone {
		return "", false
	}
	if isPrompt && (mode == MarkersAll || mode == MarkersUser) {
		return markerLabel(e.UserText()), true
	}
	if e.HasToolUse() && (mode == MarkersAll || mode == MarkersTools) {
		for _, b := range e.AssistantBlocks() {
			if b.Type == transcript.BlockToolUse {
				return b.Name, true
			}
		}
	}
	return "", false
}

func markerLabel(text string) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	if r := []rune(text); len(r) > 48 {
		text = string(r[:45]) + "..."
	}
	return text
}

// animatePrompt types the prompt into the input row, submits it and
// echoes it into the scroll region, then resynchronizes the clock.
func (c *converter) animatePrompt(e *transcript.Entry) {
	res := c.frame.Type(e.UserText())
	for _, seg := range res.Segments {
		c.builder.AddTime(seg.Gap)
		c.builder.Output(seg.Text)
	}
	if res.ScrollOutput != "" {
		c.builder.Output(res.ScrollOutput + "\r\n\r\n")
	}
	// The animation advanced the document clock past the entry time;
	// write it back so subsequent gaps measure from the real end.
	c.calc.Time = c.builder.Clock()
}

// emitBlock writes a rendered block into the scroll region. tight uses a
// single trailing newline to group a tool call with its result.
func (c *converter) emitBlock(text string, tight bool) {
	if strings.TrimSpace(text) == "" {
		return
	}
	out := strings.ReplaceAll(text, "\n", "\r\n")
	if tight {
		c.builder.Output(out + "\r\n")
	} else {
		c.builder.Output(out + "\r\n\r\n")
	}
}
