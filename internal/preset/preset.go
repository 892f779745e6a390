// Package preset bundles the model configurations into named typing
// profiles and handles loading them from disk.
//
// Presets live in TOML files; JSON and YAML are accepted for import. JSON
// presets are validated against an embedded schema before decoding, so a
// hand-written preset fails loudly instead of silently falling back to
// defaults for misspelled keys.
package preset

import (
	"fmt"

	"humantype/internal/engine"
	"humantype/internal/textprep"
	"humantype/internal/timing"
	"humantype/internal/typo"
)

// Preset is a complete typing profile.
type Preset struct {
	Name        string `toml:"name" json:"name" yaml:"name"`
	Description string `toml:"description" json:"description" yaml:"description"`

	Timing timing.Config    `toml:"timing" json:"timing" yaml:"timing"`
	Typos  typo.Config      `toml:"typos" json:"typos" yaml:"typos"`
	Run    engine.Config    `toml:"run" json:"run" yaml:"run"`
	Text   textprep.Options `toml:"text" json:"text" yaml:"text"`
}

// Validate checks the preset for values the models cannot run with.
func (p *Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset: name is required")
	}

	if p.Typos.TypoProb < 0 || p.Typos.TypoProb > 10000 {
		return fmt.Errorf("preset %s: typo_prob %d out of range [0, 10000]", p.Name, p.Typos.TypoProb)
	}
	if p.Typos.RevisionProb < 0 || p.Typos.RevisionProb > 100 {
		return fmt.Errorf("preset %s: revision_prob %d out of range [0, 100]", p.Name, p.Typos.RevisionProb)
	}

	t := p.Timing
	if t.BaseDelayMS <= 0 {
		return fmt.Errorf("preset %s: base_delay_ms must be positive", p.Name)
	}
	if t.DelayVarianceMS < 0 {
		return fmt.Errorf("preset %s: delay_variance_ms must not be negative", p.Name)
	}
	if t.WordBoundaryEnabled && (t.IntraWordSpeedFactor <= 0 || t.IntraWordSpeedFactor > 1) {
		return fmt.Errorf("preset %s: intra_word_speed_factor %v out of range (0, 1]", p.Name, t.IntraWordSpeedFactor)
	}
	if t.DoubleLetterEnabled && (t.DoubleLetterSpeedFactor <= 0 || t.DoubleLetterSpeedFactor > 1) {
		return fmt.Errorf("preset %s: double_letter_speed_factor %v out of range (0, 1]", p.Name, t.DoubleLetterSpeedFactor)
	}
	if t.BurstEnabled {
		if t.BurstLengthMin < 1 {
			return fmt.Errorf("preset %s: burst_length_min must be at least 1", p.Name)
		}
		if t.BurstLengthMax < t.BurstLengthMin {
			return fmt.Errorf("preset %s: burst_length_max %d below burst_length_min %d", p.Name, t.BurstLengthMax, t.BurstLengthMin)
		}
	}
	if t.FatigueEnabled && t.FatigueFactor < 0 {
		return fmt.Errorf("preset %s: fatigue_factor must not be negative", p.Name)
	}

	if p.Run.CountdownSeconds < 0 {
		return fmt.Errorf("preset %s: countdown_seconds must not be negative", p.Name)
	}
	if p.Run.FocusGuardEnabled && p.Run.FocusCheckInterval < 1 {
		return fmt.Errorf("preset %s: focus_check_interval must be at least 1", p.Name)
	}

	if err := p.Text.Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return nil
}

// Clone returns an independent copy.
func (p *Preset) Clone() *Preset {
	c := *p
	return &c
}
