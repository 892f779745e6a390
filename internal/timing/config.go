package timing

// Config holds every tunable of the inter-keystroke timing pipeline. Fields
// map one to one onto preset entries.
type Config struct {
	// Base gaussian delay.
	BaseDelayMS     int `toml:"base_delay_ms" json:"base_delay_ms" yaml:"base_delay_ms"`
	DelayVarianceMS int `toml:"delay_variance_ms" json:"delay_variance_ms" yaml:"delay_variance_ms"`

	// Word boundaries: slow down after a space, speed up inside words.
	WordBoundaryEnabled  bool    `toml:"word_boundary_enabled" json:"word_boundary_enabled" yaml:"word_boundary_enabled"`
	IntraWordSpeedFactor float64 `toml:"intra_word_speed_factor" json:"intra_word_speed_factor" yaml:"intra_word_speed_factor"`
	InterWordPauseMS     int     `toml:"inter_word_pause_ms" json:"inter_word_pause_ms" yaml:"inter_word_pause_ms"`

	// Pause after sentence punctuation.
	PunctuationPauseEnabled bool `toml:"punctuation_pause_enabled" json:"punctuation_pause_enabled" yaml:"punctuation_pause_enabled"`
	PunctuationPauseMS      int  `toml:"punctuation_pause_ms" json:"punctuation_pause_ms" yaml:"punctuation_pause_ms"`

	// Pause after a line break.
	NewlinePauseEnabled bool `toml:"newline_pause_enabled" json:"newline_pause_enabled" yaml:"newline_pause_enabled"`
	NewlinePauseMS      int  `toml:"newline_pause_ms" json:"newline_pause_ms" yaml:"newline_pause_ms"`

	// Flat penalty for characters needing the shift modifier.
	ShiftPenaltyEnabled bool `toml:"shift_penalty_enabled" json:"shift_penalty_enabled" yaml:"shift_penalty_enabled"`
	ShiftPenaltyMS      int  `toml:"shift_penalty_ms" json:"shift_penalty_ms" yaml:"shift_penalty_ms"`

	// Repeated letters come out faster.
	DoubleLetterEnabled     bool    `toml:"double_letter_enabled" json:"double_letter_enabled" yaml:"double_letter_enabled"`
	DoubleLetterSpeedFactor float64 `toml:"double_letter_speed_factor" json:"double_letter_speed_factor" yaml:"double_letter_speed_factor"`

	// Bursts: short runs of keystrokes separated by a micro-pause.
	BurstEnabled   bool `toml:"burst_enabled" json:"burst_enabled" yaml:"burst_enabled"`
	BurstLengthMin int  `toml:"burst_length_min" json:"burst_length_min" yaml:"burst_length_min"`
	BurstLengthMax int  `toml:"burst_length_max" json:"burst_length_max" yaml:"burst_length_max"`
	BurstPauseMS   int  `toml:"burst_pause_ms" json:"burst_pause_ms" yaml:"burst_pause_ms"`

	// Fatigue: progressive slowdown over the length of the text.
	FatigueEnabled bool    `toml:"fatigue_enabled" json:"fatigue_enabled" yaml:"fatigue_enabled"`
	FatigueFactor  float64 `toml:"fatigue_factor" json:"fatigue_factor" yaml:"fatigue_factor"`
}

// DefaultConfig returns an average-typist profile.
func DefaultConfig() Config {
	return Config{
		BaseDelayMS:             70,
		DelayVarianceMS:         30,
		WordBoundaryEnabled:     true,
		IntraWordSpeedFactor:    0.8,
		InterWordPauseMS:        120,
		PunctuationPauseEnabled: true,
		PunctuationPauseMS:      200,
		NewlinePauseEnabled:     true,
		NewlinePauseMS:          400,
		ShiftPenaltyEnabled:     true,
		ShiftPenaltyMS:          25,
		DoubleLetterSpeedFactor: 0.6,
		BurstLengthMin:          2,
		BurstLengthMax:          5,
		BurstPauseMS:            40,
		FatigueFactor:           0.05,
	}
}
