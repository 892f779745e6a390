// Package focus guards a typing run against keystrokes landing in the wrong
// window.
//
// A Guard captures the active window title when typing starts and re-checks
// it periodically while the run progresses. When the title changes the guard
// reports loss of focus and the engine pauses itself instead of typing into
// whatever stole the foreground. Platform-specific providers supply the
// active title; platforms without a provider fail open.
package focus

import "log/slog"

// DefaultCheckInterval is how many typed characters pass between title
// checks. Checking every keystroke would add a syscall or bus round-trip per
// character for no benefit.
const DefaultCheckInterval = 10

// Provider reports the title of the window currently holding focus.
type Provider interface {
	// ActiveWindowTitle returns the focused window's title.
	ActiveWindowTitle() (string, error)

	// Available reports whether the provider works on this system, with a
	// human-readable status.
	Available() (bool, string)
}

// Guard decides whether the run still owns the foreground.
type Guard interface {
	// Capture records the current focus target as the expected one.
	// Called when typing starts and again after every resume.
	Capture() error

	// Check reports whether focus is still on the captured target. typed is
	// the number of characters emitted so far; implementations use it to
	// rate-limit the underlying query.
	Check(typed int) bool
}

// Always is a Guard that never reports focus loss. Used for dry runs and
// when guarding is disabled or unsupported.
type Always struct{}

func (Always) Capture() error { return nil }
func (Always) Check(int) bool { return true }

// TitleGuard guards by window title, querying a Provider at most once per
// CheckInterval typed characters.
type TitleGuard struct {
	provider Provider
	interval int
	log      *slog.Logger

	captured  string
	lastCheck int
	lastOK    bool
}

// NewTitleGuard creates a title guard over provider. interval <= 0 falls
// back to DefaultCheckInterval.
func NewTitleGuard(provider Provider, interval int, logger *slog.Logger) *TitleGuard {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TitleGuard{
		provider: provider,
		interval: interval,
		log:      logger.With("component", "focus"),
	}
}

// NewGuard creates the platform-appropriate guard. When no provider works on
// this system it returns Always, logging why.
func NewGuard(interval int, logger *slog.Logger) Guard {
	if logger == nil {
		logger = slog.Default()
	}
	p := newPlatformProvider()
	if ok, status := p.Available(); !ok {
		logger.Warn("focus guarding disabled", "reason", status)
		return Always{}
	}
	return NewTitleGuard(p, interval, logger)
}

// Capture records the current title and resets the check cadence so the
// next Check queries immediately.
func (g *TitleGuard) Capture() error {
	title, err := g.provider.ActiveWindowTitle()
	if err != nil {
		return err
	}
	g.captured = title
	g.lastCheck = -g.interval
	g.lastOK = true
	g.log.Debug("focus captured", "title", title)
	return nil
}

// Check queries the provider when at least interval characters have passed
// since the previous query, otherwise it returns the cached verdict. Provider
// errors fail open: a flaky title source must not stall the run.
func (g *TitleGuard) Check(typed int) bool {
	if typed-g.lastCheck < g.interval {
		return g.lastOK
	}
	g.lastCheck = typed

	title, err := g.provider.ActiveWindowTitle()
	if err != nil {
		g.log.Debug("focus check failed, assuming focused", "error", err)
		g.lastOK = true
		return true
	}

	g.lastOK = title == g.captured
	if !g.lastOK {
		g.log.Info("focus lost",
			"expected", g.captured,
			"actual", title,
			"typed", typed,
		)
	}
	return g.lastOK
}
