// humantype simulates a human typist: it replays text with realistic
// per-keystroke timing, occasional corrected typos, countdown, focus
// guarding and pause/resume.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"humantype/internal/engine"
	"humantype/internal/focus"
	"humantype/internal/history"
	"humantype/internal/logging"
	"humantype/internal/preset"
	"humantype/internal/sink"
	"humantype/internal/textprep"
	"humantype/internal/timing"
	"humantype/internal/typo"
)

var version = "dev"

var (
	presetName = flag.String("preset", "default", "built-in preset name or preset file path")
	logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat  = flag.String("log-format", "text", "log format (text, json)")
	logOutput  = flag.String("log-output", "stderr", "log output (stderr, stdout or file path)")
	historyDB  = flag.String("history-db", defaultHistoryPath(), "run history database path")
)

func main() {
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fatal(err)
	}
	format, err := logging.ParseFormat(*logFormat)
	if err != nil {
		fatal(err)
	}
	_, closeLog, err := logging.Setup(logging.Config{
		Level:  level,
		Format: format,
		Output: *logOutput,
	})
	if err != nil {
		fatal(err)
	}
	defer closeLog()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "type":
		cmdType(flag.Args()[1:], false)
	case "dryrun":
		cmdType(flag.Args()[1:], true)
	case "presets":
		cmdPresets(flag.Args()[1:])
	case "history":
		cmdHistory(flag.Args()[1:])
	case "version":
		fmt.Printf("humantype %s\n", version)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `humantype - simulated human typing

Usage: humantype [options] <command> [args]

Commands:
  type [flags]       Type text with human-like timing and typos
  dryrun [flags]     Compute a run without emitting keystrokes
  presets <sub>      list | show <name> | export <name> <path> | watch <path>
  history [flags]    Show past runs; subcommands: summary, prune
  version            Print the version
  help               Show this help message

Options:
  -preset <name|path>  Preset to use (default: default)
  -log-level <level>   debug, info, warn, error
  -log-format <fmt>    text, json
  -log-output <dst>    stderr, stdout or a file path
  -history-db <path>   Run history database`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "humantype-history.db"
	}
	return filepath.Join(home, ".humantype", "history.db")
}

// loadPreset resolves the -preset flag into a validated preset.
func loadPreset() *preset.Preset {
	p, err := preset.Resolve(*presetName)
	if err != nil {
		fatal(err)
	}
	return p
}

// readText resolves the type/dryrun input: -text wins, then -file, then
// stdin when piped.
func readText(text, file string) (string, error) {
	if text != "" {
		return text, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}

	info, err := os.Stdin.Stat()
	if err == nil && info.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("no input: pass -text, -file or pipe text on stdin")
}

func cmdType(args []string, dryRun bool) {
	fs := flag.NewFlagSet("type", flag.ExitOnError)
	text := fs.String("text", "", "text to type")
	file := fs.String("file", "", "file with text to type")
	precise := fs.Bool("precise", false, "override preset: explicit shift sequencing")
	countdown := fs.Int("countdown", -1, "override preset countdown seconds")
	noGuard := fs.Bool("no-focus-guard", false, "override preset: disable focus guarding")
	noHistory := fs.Bool("no-history", false, "do not record the run")
	seed := fs.Int64("seed", 0, "deterministic seed (0 = time-based)")
	fs.Parse(args)

	p := loadPreset()
	runCfg := p.Run
	runCfg.DryRun = dryRun
	if *countdown >= 0 {
		runCfg.CountdownSeconds = *countdown
	}
	if *noGuard {
		runCfg.FocusGuardEnabled = false
	}
	if *precise {
		runCfg.PreciseMode = true
	}

	raw, err := readText(*text, *file)
	if err != nil {
		fatal(err)
	}
	prepared, err := textprep.Prepare(raw, p.Text)
	if err != nil {
		fatal(err)
	}
	if prepared == "" {
		fatal(fmt.Errorf("nothing to type after preparation"))
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}

	snk := buildSink(runCfg, rng)
	guard := buildGuard(runCfg)

	doneCh := make(chan engine.RunStats, 1)
	cb := engine.Callbacks{
		OnCountdown: func(remaining int) {
			fmt.Fprintf(os.Stderr, "starting in %d...\n", remaining)
		},
		OnState: func(from, to engine.State) {
			if to == engine.StatePaused {
				fmt.Fprintln(os.Stderr, "\npaused - press Enter to resume")
			}
		},
		OnDone: func(stats engine.RunStats) { doneCh <- stats },
	}

	e := engine.New(runCfg,
		typo.NewModel(p.Typos, rng),
		timing.NewModel(p.Timing, rng),
		snk, guard, nil, cb)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	if err := e.Start(ctx, prepared); err != nil {
		fatal(err)
	}

	go resumeOnEnter(e)

	e.Wait()

	// A cancelled worker delivers no stats; only natural completion does.
	select {
	case stats := <-doneCh:
		fmt.Fprintln(os.Stderr)
		printStats(stats)
		if !*noHistory && !dryRun {
			recordRun(startedAt, p.Name, stats)
		}
	default:
		e.Stop()
		fmt.Fprintln(os.Stderr, "\nrun cancelled")
	}
}

// buildSink wires the emission path: a terminal writer device under either
// the simple or the precise strategy.
func buildSink(cfg engine.Config, rng *rand.Rand) sink.Sink {
	dev := sink.NewWriter(os.Stdout)
	if cfg.PreciseMode {
		return sink.NewPrecise(dev, rng, nil)
	}
	return sink.NewSimple(dev, rng)
}

func buildGuard(cfg engine.Config) focus.Guard {
	if !cfg.FocusGuardEnabled || cfg.DryRun {
		return focus.Always{}
	}
	return focus.NewGuard(cfg.FocusCheckInterval, nil)
}

// resumeOnEnter resumes a paused run when the user presses Enter.
func resumeOnEnter(e *engine.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if e.State() == engine.StatePaused {
			if err := e.Resume(); err == nil {
				fmt.Fprintln(os.Stderr, "resumed")
			}
		}
	}
}

func printStats(s engine.RunStats) {
	status := "completed"
	if !s.Completed {
		status = "cancelled"
	}
	if s.DryRun {
		status += " (dry run)"
	}
	fmt.Fprintf(os.Stderr, "=== Run %s ===\n", status)
	fmt.Fprintf(os.Stderr, "Source chars:  %d\n", s.SourceChars)
	fmt.Fprintf(os.Stderr, "Keystrokes:    %d (%d backspaces)\n", s.Keystrokes, s.Backspaces)
	fmt.Fprintf(os.Stderr, "Typos:         %d (%d revised, %d left in)\n",
		s.Typos.Typos, s.Typos.Revised, s.Typos.Unrevised)
	fmt.Fprintf(os.Stderr, "Duration:      %s (paused %s)\n",
		s.TotalTime.Round(time.Millisecond), s.PausedTime.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Delay ms:      avg %.1f  min %.1f  max %.1f\n",
		s.AvgDelayMS, s.MinDelayMS, s.MaxDelayMS)
	fmt.Fprintf(os.Stderr, "Speed:         %.0f CPM / %.0f WPM\n", s.CPM, s.WPM)
}

func recordRun(startedAt time.Time, presetName string, stats engine.RunStats) {
	store, err := history.Open(*historyDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history not recorded: %v\n", err)
		return
	}
	defer store.Close()
	if _, err := store.Record(startedAt, presetName, stats); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history not recorded: %v\n", err)
	}
}

func cmdPresets(args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		fmt.Println("Built-in presets:")
		for _, name := range preset.BuiltinNames() {
			p, _ := preset.Builtin(name)
			fmt.Printf("  %-16s %s\n", name, p.Description)
		}

	case "show":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: humantype presets show <name|path>"))
		}
		p, err := preset.Resolve(args[1])
		if err != nil {
			fatal(err)
		}
		showPreset(p)

	case "export":
		if len(args) < 3 {
			fatal(fmt.Errorf("usage: humantype presets export <name> <path.toml>"))
		}
		p, err := preset.Builtin(args[1])
		if err != nil {
			fatal(err)
		}
		if err := preset.Save(p, args[2]); err != nil {
			fatal(err)
		}
		fmt.Printf("Exported %s to %s\n", p.Name, args[2])

	case "watch":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: humantype presets watch <path>"))
		}
		watchPreset(args[1])

	default:
		fatal(fmt.Errorf("unknown presets subcommand %q", args[0]))
	}
}

func showPreset(p *preset.Preset) {
	fmt.Printf("Preset: %s\n", p.Name)
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
	fmt.Println("Timing:")
	fmt.Printf("  base delay:        %d ms ± %d\n", p.Timing.BaseDelayMS, p.Timing.DelayVarianceMS)
	fmt.Printf("  word boundaries:   %v (intra ×%.2f, inter %d ms)\n",
		p.Timing.WordBoundaryEnabled, p.Timing.IntraWordSpeedFactor, p.Timing.InterWordPauseMS)
	fmt.Printf("  punctuation pause: %v (%d ms)\n", p.Timing.PunctuationPauseEnabled, p.Timing.PunctuationPauseMS)
	fmt.Printf("  newline pause:     %v (%d ms)\n", p.Timing.NewlinePauseEnabled, p.Timing.NewlinePauseMS)
	fmt.Printf("  shift penalty:     %v (%d ms)\n", p.Timing.ShiftPenaltyEnabled, p.Timing.ShiftPenaltyMS)
	fmt.Printf("  bursts:            %v (%d-%d keys, %d ms)\n",
		p.Timing.BurstEnabled, p.Timing.BurstLengthMin, p.Timing.BurstLengthMax, p.Timing.BurstPauseMS)
	fmt.Printf("  fatigue:           %v (factor %.2f)\n", p.Timing.FatigueEnabled, p.Timing.FatigueFactor)
	fmt.Println("Typos:")
	fmt.Printf("  probability:       %.2f%%\n", float64(p.Typos.TypoProb)/100)
	fmt.Printf("  revision:          %d%%\n", p.Typos.RevisionProb)
	fmt.Printf("  classes:           adjacent=%v transposition=%v double-strike=%v\n",
		p.Typos.AdjacentEnabled, p.Typos.TranspositionEnabled, p.Typos.DoubleStrikeEnabled)
	fmt.Println("Run:")
	fmt.Printf("  countdown:         %d s\n", p.Run.CountdownSeconds)
	fmt.Printf("  focus guard:       %v (every %d chars)\n", p.Run.FocusGuardEnabled, p.Run.FocusCheckInterval)
	fmt.Printf("  precise mode:      %v\n", p.Run.PreciseMode)
}

// watchPreset validates a preset file on every save until interrupted.
func watchPreset(path string) {
	loader := preset.NewLoader(path)
	defer loader.Close()

	if _, err := loader.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
	} else {
		fmt.Printf("%s: OK\n", path)
	}

	loader.OnChange(func(p *preset.Preset) {
		fmt.Printf("%s: OK (%s)\n", path, p.Name)
	})
	if err := loader.Watch(); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	for {
		select {
		case err := <-loader.Errors():
			fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		case <-ctx.Done():
			return
		}
	}
}

func cmdHistory(args []string) {
	if len(args) > 0 && args[0] == "summary" {
		store := openHistory()
		defer store.Close()
		sum, err := store.Summarize()
		if err != nil {
			fatal(err)
		}
		fmt.Println("=== Run Summary ===")
		fmt.Printf("Runs:          %d (%d completed)\n", sum.Runs, sum.Completed)
		fmt.Printf("Source chars:  %d\n", sum.SourceChars)
		fmt.Printf("Keystrokes:    %d\n", sum.Keystrokes)
		fmt.Printf("Typos:         %d\n", sum.Typos)
		fmt.Printf("Average speed: %.0f CPM\n", sum.AvgCPM)
		fmt.Printf("Best speed:    %.0f CPM\n", sum.BestCPM)
		return
	}

	if len(args) > 0 && args[0] == "prune" {
		fs := flag.NewFlagSet("prune", flag.ExitOnError)
		days := fs.Int("days", 90, "delete runs older than this many days")
		fs.Parse(args[1:])

		store := openHistory()
		defer store.Close()
		removed, err := store.Prune(time.Now().AddDate(0, 0, -*days))
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Removed %d runs older than %d days\n", removed, *days)
		return
	}

	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of runs to show")
	fs.Parse(args)

	store := openHistory()
	defer store.Close()
	runs, err := store.List(*limit)
	if err != nil {
		fatal(err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	fmt.Printf("%-20s %-16s %-6s %-8s %-6s %-8s %s\n",
		"Started", "Preset", "Chars", "Typos", "CPM", "Duration", "Status")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range runs {
		status := "ok"
		if !r.Completed {
			status = "cancelled"
		}
		if r.DryRun {
			status = "dry"
		}
		fmt.Printf("%-20s %-16s %-6d %-8d %-6.0f %-8s %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Preset,
			r.SourceChars, r.Typos, r.CPM,
			r.TotalTime.Round(time.Second), status)
	}
}

func openHistory() *history.Store {
	store, err := history.Open(*historyDB)
	if err != nil {
		fatal(err)
	}
	return store
}
