// Package timing maps transcript entries onto a synthetic playback clock.
package timing

import (
	"math"
	"time"

	"github.com/fakeyudi/recast/internal/transcript"
)

// Default pauses for entries that carry no timestamp. Product-tuned; do
// not re-derive.
const (
	ToolResultPause = 0.1
	UserPause       = 0.3
	SystemPause     = 0.2
	DefaultPause    = 0.1
)

// Config controls gap clamping and typing simulation.
type Config struct {
	// MaxWait clamps every inter-entry gap, in seconds. +Inf replays
	// real timestamps verbatim.
	MaxWait float64
	// ThinkingPause is the synthetic pause before assistant responses.
	ThinkingPause float64
	// TypingEffect enables per-character typing animation timing.
	TypingEffect bool
	// TypingSpeed is characters per second when TypingEffect is on.
	TypingSpeed float64
}

// Named presets.
func Speedrun() Config {
	return Config{MaxWait: 0.4, ThinkingPause: 0.2, TypingEffect: false, TypingSpeed: 0}
}

func Default() Config {
	return Config{MaxWait: 2.0, ThinkingPause: 0.6, TypingEffect: true, TypingSpeed: 40}
}

func Realtime() Config {
	return Config{MaxWait: math.Inf(1), ThinkingPause: 0.6, TypingEffect: false, TypingSpeed: 0}
}

// Preset resolves a preset by name, defaulting to Default.
func Preset(name string) Config {
	switch name {
	case "speedrun":
		return Speedrun()
	case "realtime":
		return Realtime()
	default:
		return Default()
	}
}

// Calculator advances a playback clock per transcript entry.
//
// Time is exported as a mutable cursor: animation generators that emit
// their own timed segments resynchronize the clock by writing it back.
type Calculator struct {
	Config Config

	// Time is the current playback clock in seconds, monotonically
	// non-decreasing.
	Time float64

	lastReal time.Time
	hasReal  bool
}

// New creates a Calculator with the given config.
func New(cfg Config) *Calculator {
	return &Calculator{Config: cfg}
}

// NextEntry advances the clock for the entry and returns the new absolute
// playback time. Entries with real timestamps advance by the (clamped)
// real gap; synthetic entries fall back to per-type default pauses.
func (c *Calculator) NextEntry(e *transcript.Entry) float64 {
	ts, ok := e.Time()
	switch {
	case ok && c.hasReal && math.IsInf(c.Config.MaxWait, 1):
		delta := ts.Sub(c.lastReal).Seconds()
		c.Time += math.Max(0, delta)
	case ok && c.hasReal:
		delta := ts.Sub(c.lastReal).Seconds()
		c.Time += math.Min(math.Max(0, delta), c.Config.MaxWait)
	default:
		c.Time += c.defaultPause(e)
	}
	if ok {
		c.lastReal = ts
		c.hasReal = true
	}
	return c.Time
}

func (c *Calculator) defaultPause(e *transcript.Entry) float64 {
	switch {
	case e.IsToolResult():
		return ToolResultPause
	case e.Type == transcript.EntryUser:
		return UserPause
	case e.Type == transcript.EntryAssistant:
		return c.Config.ThinkingPause
	case e.Type == transcript.EntrySystem:
		return SystemPause
	default:
		return DefaultPause
	}
}

// TypingDuration returns how long typing text should take under the
// current config, in seconds.
func (c *Calculator) TypingDuration(text string) float64 {
	if !c.Config.TypingEffect || c.Config.TypingSpeed <= 0 {
		return 0
	}
	return float64(len(text)) / c.Config.TypingSpeed
}
