package preset

import (
	"fmt"
	"sort"

	"humantype/internal/engine"
	"humantype/internal/textprep"
	"humantype/internal/timing"
	"humantype/internal/typo"
)

// Default returns the stock average-typist preset.
func Default() *Preset {
	return &Preset{
		Name:        "default",
		Description: "Average typist: moderate speed, rare corrected slips",
		Timing:      timing.DefaultConfig(),
		Typos:       typo.DefaultConfig(),
		Run:         engine.DefaultConfig(),
		Text:        textprep.DefaultOptions(),
	}
}

// builtins are the presets shipped with the binary. Each starts from the
// default and overrides what makes its character.
var builtins = map[string]func() *Preset{
	"default": Default,

	"fast_accurate": func() *Preset {
		p := Default()
		p.Name = "fast_accurate"
		p.Description = "Experienced touch typist: quick, bursty, almost no mistakes"
		p.Timing.BaseDelayMS = 45
		p.Timing.DelayVarianceMS = 15
		p.Timing.InterWordPauseMS = 70
		p.Timing.PunctuationPauseMS = 120
		p.Timing.NewlinePauseMS = 250
		p.Timing.ShiftPenaltyMS = 15
		p.Timing.BurstEnabled = true
		p.Timing.BurstLengthMin = 4
		p.Timing.BurstLengthMax = 9
		p.Timing.BurstPauseMS = 30
		p.Typos.TypoProb = 8
		p.Typos.RevisionProb = 95
		return p
	},

	"slow_natural": func() *Preset {
		p := Default()
		p.Name = "slow_natural"
		p.Description = "Deliberate typist: slow pace, pronounced pauses, fatigue"
		p.Timing.BaseDelayMS = 140
		p.Timing.DelayVarianceMS = 60
		p.Timing.InterWordPauseMS = 250
		p.Timing.PunctuationPauseMS = 400
		p.Timing.NewlinePauseMS = 700
		p.Timing.ShiftPenaltyMS = 40
		p.Timing.DoubleLetterEnabled = true
		p.Timing.FatigueEnabled = true
		p.Timing.FatigueFactor = 0.12
		p.Typos.TypoProb = 45
		return p
	},

	"sloppy_beginner": func() *Preset {
		p := Default()
		p.Name = "sloppy_beginner"
		p.Description = "Hunt-and-peck beginner: erratic timing, frequent typos of every kind"
		p.Timing.BaseDelayMS = 180
		p.Timing.DelayVarianceMS = 110
		p.Timing.InterWordPauseMS = 300
		p.Timing.PunctuationPauseMS = 450
		p.Timing.NewlinePauseMS = 800
		p.Timing.ShiftPenaltyMS = 60
		p.Timing.FatigueEnabled = true
		p.Timing.FatigueFactor = 0.15
		p.Typos.TypoProb = 220
		p.Typos.RevisionProb = 70
		p.Typos.TranspositionEnabled = true
		p.Typos.DoubleStrikeEnabled = true
		return p
	},
}

// Builtin returns a copy of the named built-in preset.
func Builtin(name string) (*Preset, error) {
	mk, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("preset: unknown built-in %q (have %v)", name, BuiltinNames())
	}
	return mk(), nil
}

// BuiltinNames lists the built-in presets in stable order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
