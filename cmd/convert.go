package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/recast/internal/cast"
	"github.com/fakeyudi/recast/internal/convert"
	"github.com/fakeyudi/recast/internal/discover"
	"github.com/fakeyudi/recast/internal/theme"
	"github.com/fakeyudi/recast/internal/timing"
	"github.com/fakeyudi/recast/internal/transcript"
	"github.com/fakeyudi/recast/internal/tui"
)

var (
	convertOutput  string
	convertPreset  string
	convertTheme   string
	convertMarkers string
	convertTitle   string
	convertCols    int
	convertRows    int
	convertLast    int
	convertWatch   bool
	convertNoInput bool
	convertNoSpin  bool

	// Field-level timing overrides on top of the preset.
	convertMaxWait       float64
	convertThinkingPause float64
	convertTypingSpeed   float64
)

var convertCmd = &cobra.Command{
	Use:   "convert [transcript.jsonl]",
	Short: "Convert a session transcript to a .cast recording",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveTranscript(args)
		if err != nil {
			return err
		}
		if path == "" {
			return nil // picker cancelled
		}

		out := convertOutput
		if out == "" {
			stem := strings.TrimSuffix(filepath.Base(path), ".jsonl")
			out = filepath.Join(GetConfig().OutputDir, stem+".cast")
		}

		if err := runConversion(path, out); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)

		if !convertWatch {
			return nil
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		fmt.Println("Watching for changes (ctrl-c to stop)...")
		err = discover.Watch(ctx, path, func() {
			if err := runConversion(path, out); err != nil {
				fmt.Fprintf(os.Stderr, "regenerate: %v\n", err)
				return
			}
			fmt.Printf("Rewrote %s\n", out)
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

// resolveTranscript picks the transcript to convert: the argument if
// given, an interactive picker on a terminal, the latest session
// otherwise.
func resolveTranscript(args []string) (string, error) {
	if len(args) == 1 {
		if _, err := os.Stat(args[0]); err != nil {
			return "", fmt.Errorf("transcript not found: %s", args[0])
		}
		return args[0], nil
	}

	root, err := discover.Root(GetConfig().SessionDir)
	if err != nil {
		return "", err
	}
	if term.IsTerminal(os.Stdin.Fd()) {
		sessions, err := discover.List(root)
		if err != nil {
			return "", err
		}
		discover.LoadTitles(sessions)
		choice, err := tui.Pick(sessions)
		if err != nil {
			return "", err
		}
		if choice == nil {
			return "", nil
		}
		return choice.Path, nil
	}
	latest, err := discover.Latest(root)
	if err != nil {
		return "", err
	}
	return latest.Path, nil
}

// runConversion performs one full transcript-to-recording pass.
func runConversion(path, out string) error {
	entries, err := transcript.LoadFile(path)
	if err != nil {
		return err
	}
	entries = transcript.ClipLast(entries, convertLast)

	doc, err := convert.Convert(entries, buildOptions(entries))
	if err != nil {
		return fmt.Errorf("converting transcript: %w", err)
	}
	data, err := cast.Serialize(doc)
	if err != nil {
		return fmt.Errorf("serializing recording: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing recording: %w", err)
	}
	return nil
}

func buildOptions(entries []transcript.Entry) convert.Options {
	conf := GetConfig()

	preset := convertPreset
	if preset == "" {
		preset = conf.Preset
	}
	tc := timing.Preset(preset)
	if convertMaxWait > 0 {
		tc.MaxWait = convertMaxWait
	}
	if math.IsInf(convertMaxWait, 1) {
		tc.MaxWait = math.Inf(1)
	}
	if convertThinkingPause > 0 {
		tc.ThinkingPause = convertThinkingPause
	}
	if convertTypingSpeed > 0 {
		tc.TypingSpeed = convertTypingSpeed
		tc.TypingEffect = true
	}

	themeName := convertTheme
	if themeName == "" {
		themeName = conf.Theme
	}
	markers := convertMarkers
	if markers == "" {
		markers = conf.Markers
	}
	cols := convertCols
	if cols == 0 {
		cols = conf.Cols
	}
	rows := convertRows
	if rows == 0 {
		rows = conf.Rows
	}

	title := convertTitle
	if title == "" {
		title = strings.TrimSpace(transcript.FirstPrompt(entries))
		title = strings.ReplaceAll(title, "\n", " ")
		if r := []rune(title); len(r) > 60 {
			title = string(r[:57]) + "..."
		}
	}

	opts := convert.DefaultOptions()
	opts.Cols = cols
	opts.Rows = rows
	opts.Theme = theme.ByName(themeName)
	opts.Timing = tc
	opts.Markers = convert.MarkerMode(markers)
	opts.Title = title
	opts.InputAnimation = !convertNoInput
	opts.Spinner = !convertNoSpin
	return opts
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output .cast path (default: <session>.cast)")
	convertCmd.Flags().StringVar(&convertPreset, "preset", "", "timing preset: speedrun, default, realtime")
	convertCmd.Flags().StringVar(&convertTheme, "theme", "", "color theme: dark, light")
	convertCmd.Flags().StringVar(&convertMarkers, "markers", "", "marker policy: all, user, tools, none")
	convertCmd.Flags().StringVar(&convertTitle, "title", "", "recording title (default: first prompt)")
	convertCmd.Flags().IntVar(&convertCols, "cols", 0, "terminal columns")
	convertCmd.Flags().IntVar(&convertRows, "rows", 0, "terminal rows")
	convertCmd.Flags().IntVar(&convertLast, "last", 0, "convert only the last N renderable entries")
	convertCmd.Flags().BoolVar(&convertWatch, "watch", false, "regenerate when the transcript changes")
	convertCmd.Flags().BoolVar(&convertNoInput, "no-input-animation", false, "disable the typed-prompt animation")
	convertCmd.Flags().BoolVar(&convertNoSpin, "no-spinner", false, "disable the working spinner")
	convertCmd.Flags().Float64Var(&convertMaxWait, "max-wait", 0, "clamp inter-entry gaps to this many seconds")
	convertCmd.Flags().Float64Var(&convertThinkingPause, "thinking-pause", 0, "pause before assistant responses, seconds")
	convertCmd.Flags().Float64Var(&convertTypingSpeed, "typing-speed", 0, "typing speed in characters per second")
	rootCmd.AddCommand(convertCmd)
}
