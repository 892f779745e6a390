package engine

// Config holds the run-level tunables that sit above the typo and timing
// models: countdown, focus guarding and the emission mode.
type Config struct {
	// CountdownSeconds is the grace period before typing starts, giving the
	// user time to focus the target window. Zero skips the countdown.
	CountdownSeconds int `toml:"countdown_seconds" json:"countdown_seconds" yaml:"countdown_seconds"`

	// FocusGuardEnabled pauses the run when the focused window changes.
	FocusGuardEnabled bool `toml:"focus_guard_enabled" json:"focus_guard_enabled" yaml:"focus_guard_enabled"`

	// FocusCheckInterval is how many typed characters pass between focus
	// checks.
	FocusCheckInterval int `toml:"focus_check_interval" json:"focus_check_interval" yaml:"focus_check_interval"`

	// PreciseMode selects explicit shift sequencing over atomic taps.
	PreciseMode bool `toml:"precise_mode" json:"precise_mode" yaml:"precise_mode"`

	// DryRun walks the full action stream without emitting keystrokes or
	// sleeping. Set per invocation, not per preset.
	DryRun bool `toml:"-" json:"-" yaml:"-"`
}

// DefaultConfig returns the stock run configuration.
func DefaultConfig() Config {
	return Config{
		CountdownSeconds:   3,
		FocusGuardEnabled:  true,
		FocusCheckInterval: 10,
	}
}
