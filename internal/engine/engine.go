// Package engine drives a typing run: it walks the source text through the
// typo and timing models and emits the resulting keystrokes on a sink, under
// a small state machine with countdown, pause/resume, focus guarding and
// cancellation.
//
// One background goroutine owns the run. Control methods only flip state and
// signal the worker; emission and run-driven callbacks happen on the worker
// goroutine, while the state transition triggered by a control method fires
// on its caller's goroutine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"humantype/internal/focus"
	"humantype/internal/sink"
	"humantype/internal/timing"
	"humantype/internal/typo"
)

// State is the lifecycle state of the engine.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateTyping
	StatePaused
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateTyping:
		return "typing"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	}
	return "unknown"
}

var (
	// ErrBusy is returned by Start while a run is active.
	ErrBusy = errors.New("engine: run already active")

	// ErrNotTyping is returned by Pause outside the typing state.
	ErrNotTyping = errors.New("engine: not typing")

	// ErrNotPaused is returned by Resume outside the paused state.
	ErrNotPaused = errors.New("engine: not paused")
)

// Callbacks observe the run. Run-driven callbacks are invoked synchronously
// from the worker goroutine; OnState additionally fires from whichever
// goroutine called Pause, Resume or Stop. Any field may be nil.
type Callbacks struct {
	// OnState fires on every state transition.
	OnState func(from, to State)

	// OnCountdown fires once per remaining countdown second.
	OnCountdown func(remaining int)

	// OnProgress fires after each source character is consumed.
	OnProgress func(consumed, total int)

	// OnAction fires as each action is executed.
	OnAction func(a typo.Action)

	// OnLog receives human-readable run log lines: one per executed action,
	// plus countdown and completion lines.
	OnLog func(message string)

	// OnDone fires when the run completes naturally. A stopped or cancelled
	// run never reaches it.
	OnDone func(stats RunStats)
}

// RunStats summarizes a finished run.
type RunStats struct {
	SourceChars int
	Keystrokes  int
	Backspaces  int
	Typos       typo.Stats

	// Samples holds one timing sample per source character, in source order,
	// including the swapped-in character of a transposition. The delay
	// aggregates below are folded from it.
	Samples []timing.Sample

	TotalTime  time.Duration
	PausedTime time.Duration

	AvgDelayMS float64
	MinDelayMS float64
	MaxDelayMS float64

	// CPM and WPM are computed over active (non-paused) time. WPM uses the
	// conventional five characters per word.
	CPM float64
	WPM float64

	Completed bool
	DryRun    bool
	EmitFails int
}

// Engine runs one typing session at a time. All exported methods are safe
// for concurrent use.
type Engine struct {
	cfg    Config
	typos  *typo.Model
	timing *timing.Model
	snk    sink.Sink
	guard  focus.Guard
	log    *slog.Logger
	cb     Callbacks

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	resume chan struct{} // non-nil while paused, closed on resume
	done   chan struct{} // closed when the worker exits
}

// New creates an engine. A nil guard disables focus guarding; a nil sink
// panics on Start unless the run is dry. A nil logger falls back to
// slog.Default.
func New(cfg Config, typos *typo.Model, tm *timing.Model, snk sink.Sink, guard focus.Guard, logger *slog.Logger, cb Callbacks) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if guard == nil {
		guard = focus.Always{}
	}
	if cfg.DryRun {
		snk = sink.Null{}
	}
	return &Engine{
		cfg:    cfg,
		typos:  typos,
		timing: tm,
		snk:    snk,
		guard:  guard,
		log:    logger.With("component", "engine"),
		cb:     cb,
		state:  StateIdle,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins typing text on a fresh background goroutine. It returns
// immediately; progress is reported through the callbacks. Starting while a
// run is active returns ErrBusy.
func (e *Engine) Start(ctx context.Context, text string) error {
	e.mu.Lock()
	if e.state != StateIdle && e.state != StateDone {
		e.mu.Unlock()
		return ErrBusy
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.resume = nil
	e.done = make(chan struct{})

	from := e.state
	start := StateCountdown
	if e.cfg.DryRun || e.cfg.CountdownSeconds <= 0 {
		start = StateTyping
	}
	e.state = start
	done := e.done
	e.mu.Unlock()

	e.fireState(from, start)
	go e.run(runCtx, text, done)
	return nil
}

// Pause suspends the run before its next action. Only valid while typing.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.state != StateTyping {
		e.mu.Unlock()
		return ErrNotTyping
	}
	e.resume = make(chan struct{})
	e.state = StatePaused
	e.mu.Unlock()

	e.fireState(StateTyping, StatePaused)
	return nil
}

// Resume continues a paused run. The focus target is re-captured so that
// whatever window the user focused before resuming becomes the guarded one.
func (e *Engine) Resume() error {
	e.mu.Lock()
	if e.state != StatePaused {
		e.mu.Unlock()
		return ErrNotPaused
	}
	close(e.resume)
	e.resume = nil
	e.state = StateTyping
	e.mu.Unlock()

	if err := e.guard.Capture(); err != nil {
		e.log.Debug("focus re-capture failed", "error", err)
	}
	e.fireState(StatePaused, StateTyping)
	return nil
}

// Stop is a hard abort: it cancels the run from any active state, waits for
// the worker to exit and reports idle. The aborted worker fires no further
// samples, progress or completion callbacks; only the transition to idle is
// observable. The engine can be started again. Stopping an idle or done
// engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state == StateIdle || e.state == StateDone {
		e.mu.Unlock()
		return
	}
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	cancel()
	<-done

	e.mu.Lock()
	from := e.state
	e.state = StateIdle
	e.mu.Unlock()
	e.fireState(from, StateIdle)
}

// Wait blocks until the current run's worker exits. Returns immediately if
// no run was started.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (e *Engine) fireState(from, to State) {
	if from != to && e.cb.OnState != nil {
		e.cb.OnState(from, to)
	}
}

// setState transitions worker-side state changes.
func (e *Engine) setState(to State) {
	e.mu.Lock()
	from := e.state
	e.state = to
	e.mu.Unlock()
	e.fireState(from, to)
}

// pauseSelf is the worker-side pause used on focus loss.
func (e *Engine) pauseSelf() {
	e.mu.Lock()
	if e.state != StateTyping {
		e.mu.Unlock()
		return
	}
	e.resume = make(chan struct{})
	e.state = StatePaused
	e.mu.Unlock()

	e.log.Info("run paused: focus lost")
	e.fireState(StateTyping, StatePaused)
}

// waitWhilePaused blocks until the run is resumed or cancelled. Returns the
// time spent paused.
func (e *Engine) waitWhilePaused(ctx context.Context) (time.Duration, error) {
	var paused time.Duration
	for {
		e.mu.Lock()
		gate := e.resume
		e.mu.Unlock()
		if gate == nil {
			return paused, nil
		}

		start := time.Now()
		select {
		case <-ctx.Done():
			return paused + time.Since(start), ctx.Err()
		case <-gate:
			paused += time.Since(start)
		}
	}
}

// sleep waits for the given delay unless the run is dry, honoring
// cancellation.
func (e *Engine) sleep(ctx context.Context, d time.Duration) error {
	if e.cfg.DryRun || d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// run is the worker goroutine. Cancellation makes it exit without touching
// the state or firing OnDone; Stop owns the transition back to idle.
func (e *Engine) run(ctx context.Context, text string, done chan struct{}) {
	defer close(done)

	stats := RunStats{DryRun: e.cfg.DryRun, MinDelayMS: -1}

	if err := e.countdown(ctx); err != nil {
		return
	}

	if e.cfg.FocusGuardEnabled && !e.cfg.DryRun {
		if err := e.guard.Capture(); err != nil {
			e.log.Warn("focus capture failed, guarding degraded", "error", err)
		}
	}

	e.mu.Lock()
	alreadyTyping := e.state == StateTyping
	e.mu.Unlock()
	if !alreadyTyping {
		e.setState(StateTyping)
	}

	e.timing.Reset()
	e.typos.ResetStats()
	if !e.typeText(ctx, text, &stats) {
		return
	}
	e.finish(&stats)
}

// countdown runs the pre-typing grace period. Skipped on dry runs.
func (e *Engine) countdown(ctx context.Context) error {
	if e.cfg.DryRun || e.cfg.CountdownSeconds <= 0 {
		return nil
	}
	for remaining := e.cfg.CountdownSeconds; remaining > 0; remaining-- {
		e.logLine("starting in %ds", remaining)
		if e.cb.OnCountdown != nil {
			e.cb.OnCountdown(remaining)
		}
		t := time.NewTimer(time.Second)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// typeText walks the source text through the models, executing the resulting
// actions. Returns true when the whole text was consumed.
//
// One delay is computed per cursor position and slept once, before the
// position's action sequence; extra keystrokes inside the sequence (retypes,
// the swapped pair of a transposition) carry only the pauses the typo model
// put between them. prev tracks the previous source character, not the last
// emitted key, so an unrevised typo does not skew the next character's
// word-boundary or double-letter stages.
func (e *Engine) typeText(ctx context.Context, text string, stats *RunStats) bool {
	runes := []rune(text)
	total := len(runes)
	start := time.Now()
	defer func() {
		stats.TotalTime = time.Since(start)
	}()

	var prev rune
	var simulated time.Duration
	i := 0
	for i < total {
		if ctx.Err() != nil {
			return false
		}

		paused, err := e.waitWhilePaused(ctx)
		stats.PausedTime += paused
		if err != nil {
			return false
		}

		if e.cfg.FocusGuardEnabled && !e.cfg.DryRun && !e.guard.Check(stats.Keystrokes) {
			e.pauseSelf()
			continue
		}

		char := runes[i]
		var next rune
		if i+1 < total {
			next = runes[i+1]
		}

		delayMS, breakdown := e.timing.CalculateDelay(char, prev, i, total)
		actions, consumedTwo := e.typos.ProcessChar(char, prev, next)

		// The per-character thinking time, slept once for the whole sequence.
		d := time.Duration(delayMS * float64(time.Millisecond))
		simulated += d
		if e.sleep(ctx, d) != nil {
			return false
		}

		for _, a := range actions {
			if ctx.Err() != nil {
				return false
			}
			// A pause may have landed during a sleep; hold the next emission
			// until resumed so nothing types into a window the user already
			// left.
			paused, err := e.waitWhilePaused(ctx)
			stats.PausedTime += paused
			if err != nil {
				return false
			}
			sim, err := e.execute(ctx, a, stats)
			simulated += sim
			if err != nil {
				return false
			}
		}

		stats.Samples = append(stats.Samples, timing.Sample{Char: char, DelayMS: delayMS, Breakdown: breakdown})
		if consumedTwo {
			// The swapped-in character was already emitted; it still gets its
			// own timing sample, with the current character as its previous.
			d2, b2 := e.timing.CalculateDelay(runes[i+1], char, i+1, total)
			stats.Samples = append(stats.Samples, timing.Sample{Char: runes[i+1], DelayMS: d2, Breakdown: b2})
			i += 2
		} else {
			i++
		}
		prev = runes[i-1]
		stats.SourceChars = i
		if e.cb.OnProgress != nil {
			e.cb.OnProgress(i, total)
		}
	}

	if e.cfg.DryRun {
		// Dry runs never sleep; report the simulated duration instead.
		stats.TotalTime = simulated
	}
	return true
}

// execute performs one action: the emission or pause plus its bookkeeping.
// Returns the simulated duration for dry-run accounting.
func (e *Engine) execute(ctx context.Context, a typo.Action, stats *RunStats) (time.Duration, error) {
	e.logLine("%s", a)
	if e.cb.OnAction != nil {
		e.cb.OnAction(a)
	}

	switch a.Kind {
	case typo.KindType:
		if err := e.snk.EmitChar(a.Char); err != nil {
			stats.EmitFails++
			e.log.Warn("emission failed", "char", string(a.Char), "error", err)
		}
		stats.Keystrokes++

	case typo.KindBackspace:
		if err := e.snk.EmitBackspace(a.Count); err != nil {
			stats.EmitFails++
			e.log.Warn("backspace emission failed", "count", a.Count, "error", err)
		}
		stats.Keystrokes += a.Count
		stats.Backspaces += a.Count

	case typo.KindPause:
		if err := e.sleep(ctx, a.Duration); err != nil {
			return a.Duration, err
		}
		return a.Duration, nil
	}
	return 0, nil
}

// finish folds the samples into the delay aggregates, computes the derived
// rates and transitions to done. Only reached on natural exhaustion of the
// input; aborted runs never get here.
func (e *Engine) finish(stats *RunStats) {
	stats.Completed = true
	stats.Typos = e.typos.Stats()

	for _, s := range stats.Samples {
		stats.AvgDelayMS += s.DelayMS
		if stats.MinDelayMS < 0 || s.DelayMS < stats.MinDelayMS {
			stats.MinDelayMS = s.DelayMS
		}
		if s.DelayMS > stats.MaxDelayMS {
			stats.MaxDelayMS = s.DelayMS
		}
	}
	if n := len(stats.Samples); n > 0 {
		stats.AvgDelayMS /= float64(n)
	}
	if stats.MinDelayMS < 0 {
		stats.MinDelayMS = 0
	}

	active := stats.TotalTime - stats.PausedTime
	if !stats.DryRun && active <= 0 {
		active = stats.TotalTime
	}
	if active > 0 && stats.Keystrokes > 0 {
		mins := active.Minutes()
		if stats.DryRun {
			mins = stats.TotalTime.Minutes()
		}
		if mins > 0 {
			stats.CPM = float64(stats.Keystrokes) / mins
			stats.WPM = stats.CPM / 5
		}
	}

	e.setState(StateDone)
	e.logLine("run complete: %d chars, %d keystrokes, %d typos",
		stats.SourceChars, stats.Keystrokes, stats.Typos.Typos)
	e.log.Info("run finished",
		"source_chars", stats.SourceChars,
		"keystrokes", stats.Keystrokes,
		"typos", stats.Typos.Typos,
		"cpm", stats.CPM,
	)
	if e.cb.OnDone != nil {
		e.cb.OnDone(*stats)
	}
}

// logLine delivers one formatted run log line to OnLog, when registered.
func (e *Engine) logLine(format string, args ...any) {
	if e.cb.OnLog != nil {
		e.cb.OnLog(fmt.Sprintf(format, args...))
	}
}
