// Package spinner implements the animated working indicator: a ping-pong
// glyph cycle plus a shimmered verb, rendered as timed overwrites of a
// single line. All animation state derives from integer arithmetic over
// transcript data, never the wall clock, so repeated conversions are
// byte-identical.
package spinner

import (
	"strings"

	"github.com/fakeyudi/recast/internal/ansi"
	"github.com/fakeyudi/recast/internal/cast"
	"github.com/fakeyudi/recast/internal/theme"
)

// Mode is the spinner placement state.
type Mode int

const (
	// Off: no spinner on screen.
	Off Mode = iota
	// Inline: the spinner lives in the normal output stream and scrolls
	// away with it.
	Inline
	// Fixed: the spinner owns a dedicated row outside the scroll region
	// and must be explicitly cleared.
	Fixed
)

// MinVerbInterval is the minimum playback seconds between verb changes.
const MinVerbInterval = 2.0

// frames is the ping-pong glyph sequence; frameIndex selects mod 8.
var frames = []rune("·✢✳✻✽✻✳✢")

// verbs is the working-verb vocabulary for hash-based selection.
var verbs = []string{
	"Accomplishing", "Brewing", "Calculating", "Cerebrating", "Churning",
	"Computing", "Conjuring", "Considering", "Contemplating", "Crafting",
	"Deliberating", "Divining", "Effecting", "Elucidating", "Envisioning",
	"Finagling", "Forging", "Hatching", "Herding", "Honking",
	"Ideating", "Incubating", "Marinating", "Moseying", "Mulling",
	"Musing", "Noodling", "Percolating", "Pondering", "Pontificating",
	"Puttering", "Reticulating", "Ruminating", "Scheming", "Simmering",
	"Smooshing", "Spelunking", "Stewing", "Synthesizing", "Tinkering",
	"Vibing", "Whirring", "Wizarding", "Working", "Wrangling",
}

// Config tunes one spinner instance.
type Config struct {
	// FrameInterval is the seconds between animation frames.
	FrameInterval float64
	// ShimmerWindow is the width of the sliding highlight in characters.
	ShimmerWindow int
	// FixedRow, when > 0, pins the spinner to that 1-based screen row.
	FixedRow int
	Theme    theme.Theme
}

// DefaultConfig matches the interactive UI's cadence.
func DefaultConfig(th theme.Theme) Config {
	return Config{FrameInterval: 0.1, ShimmerWindow: 4, Theme: th}
}

// Spinner is the state machine. One instance belongs to one conversion.
type Spinner struct {
	cfg  Config
	mode Mode
	verb string

	frame int // monotonically increasing frame index

	// Verb selection state: seed starts from the transcript's first
	// timestamp and increments per selection, so reruns are identical.
	seed           int64
	hasVerb        bool
	lastVerbChange float64
}

// New creates a spinner seeded for deterministic verb selection.
func New(cfg Config, seed int64) *Spinner {
	return &Spinner{cfg: cfg, seed: seed}
}

// Mode returns the current placement state.
func (s *Spinner) Mode() Mode {
	return s.mode
}

// Active reports whether a spinner is on screen.
func (s *Spinner) Active() bool {
	return s.mode != Off
}

// Start shows the spinner, clearing any previous one first, and renders
// exactly one frame at the builder's current clock. overrideVerb, when
// non-empty, bypasses hash-based selection (e.g. a task tracker's
// in-progress label).
func (s *Spinner) Start(b *cast.Builder, overrideVerb string) {
	if s.Active() {
		s.Clear(b)
	}
	s.verb = s.selectVerb(b.Clock(), overrideVerb)
	if s.cfg.FixedRow > 0 {
		s.mode = Fixed
	} else {
		s.mode = Inline
	}
	b.Output(s.renderFrame())
}

// ContinueFor plays frames covering duration seconds of the playback
// clock, one per FrameInterval, each overwriting the spinner line. Any
// sub-frame remainder advances the clock silently.
func (s *Spinner) ContinueFor(b *cast.Builder, duration float64) {
	if !s.Active() || duration <= 0 {
		b.AddTime(duration)
		return
	}
	interval := s.cfg.FrameInterval
	if interval <= 0 {
		b.AddTime(duration)
		return
	}
	remaining := duration
	for remaining >= interval {
		b.AddTime(interval)
		remaining -= interval
		s.frame++
		b.Output(s.renderFrame())
	}
	b.AddTime(remaining)
}

// Clear erases the spinner and returns to Off.
func (s *Spinner) Clear(b *cast.Builder) {
	switch s.mode {
	case Inline:
		b.Output(ansi.CarriageRet + ansi.EraseLine)
	case Fixed:
		b.Output(ansi.SaveCursor + ansi.MoveTo(s.cfg.FixedRow, 1) + ansi.EraseLine + ansi.RestoreCursor)
	}
	s.mode = Off
}

// selectVerb picks the working verb for a new spinner. Changes are
// throttled so the verb doesn't flicker between rapid messages.
func (s *Spinner) selectVerb(now float64, override string) string {
	if override != "" {
		s.hasVerb = true
		s.lastVerbChange = now
		return override
	}
	if s.hasVerb && now-s.lastVerbChange < MinVerbInterval {
		return s.verb
	}
	// Knuth multiplicative hash over the message seed, truncated to 32
	// bits. Pure integer arithmetic keeps verb sequencing reproducible.
	h := uint32((s.seed + 1) * 2654435761)
	s.seed++
	s.hasVerb = true
	s.lastVerbChange = now
	return verbs[int(h)%len(verbs)]
}

// renderFrame renders the glyph and shimmered verb, positioned per mode.
func (s *Spinner) renderFrame() string {
	glyph := string(frames[s.frame%len(frames)])
	text := s.verb + "…"
	body := ansi.Styled(glyph, ansi.Fg(s.cfg.Theme.Sidechain)) + " " + s.shimmer(text)

	switch s.mode {
	case Fixed:
		return ansi.SaveCursor + ansi.MoveTo(s.cfg.FixedRow, 1) + ansi.EraseLine + body + ansi.RestoreCursor
	default:
		return ansi.CarriageRet + ansi.EraseLine + body
	}
}

// shimmer sweeps a highlight window left-to-right across text as the
// frame index increases, cycling over len(text)+window so the highlight
// fully enters and exits.
func (s *Spinner) shimmer(text string) string {
	runes := []rune(text)
	window := s.cfg.ShimmerWindow
	if window <= 0 {
		return ansi.Styled(text, ansi.Fg(s.cfg.Theme.Thinking))
	}
	period := len(runes) + window
	pos := s.frame % period

	base := ansi.Fg(s.cfg.Theme.Thinking)
	highlight := ansi.Fg(s.cfg.Theme.AssistantText)

	var sb strings.Builder
	for i, r := range runes {
		if i >= pos-window && i < pos {
			sb.WriteString(highlight)
		} else {
			sb.WriteString(base)
		}
		sb.WriteRune(r)
	}
	sb.WriteString(ansi.Reset)
	return sb.String()
}
