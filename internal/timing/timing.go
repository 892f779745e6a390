// Package timing computes the per-character delay of a simulated typist.
//
// The delay is an ordered pipeline of nine stages over a gaussian base:
// newline pause, word boundary, punctuation pause, shift penalty,
// double-letter acceleration, burst micro-pauses, fatigue and a final clamp.
// Each stage records its contribution under a distinct breakdown key so run
// logs and diagnostics can explain every computed delay.
package timing

import (
	"math/rand"
	"strings"
	"time"

	"humantype/internal/keymap"
)

// MinDelayMS is the hard floor of the pipeline. No configuration, however
// degenerate, produces a delay below it.
const MinDelayMS = 15.0

// punctuation marks that trigger the post-punctuation pause.
const punctuation = ".,!?:;"

// Breakdown keys, one per pipeline stage. Additive stages store their
// millisecond contribution; factor stages store the applied multiplier.
const (
	StageBase         = "base"
	StageNewline      = "newline"
	StageInterWord    = "inter_word"
	StageIntraWord    = "intra_word_factor"
	StagePunctuation  = "punctuation"
	StageShift        = "shift"
	StageDoubleLetter = "double_letter_factor"
	StageBurst        = "burst"
	StageFatigue      = "fatigue_multiplier"
	StageFinal        = "final"
)

// Breakdown decomposes one computed delay into per-stage contributions.
type Breakdown map[string]float64

// Sample pairs a source character with its computed delay.
type Sample struct {
	Char      rune
	DelayMS   float64
	Breakdown Breakdown
}

// Model computes delays for a single run. Not safe for concurrent use.
type Model struct {
	cfg Config
	rng *rand.Rand

	burstCounter int
	burstTarget  int
}

// NewModel creates a model with the given configuration. A nil rng falls
// back to a time-seeded source.
func NewModel(cfg Config, rng *rand.Rand) *Model {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m := &Model{cfg: cfg, rng: rng}
	m.Reset()
	return m
}

// Reset reseeds the burst countdown. Must be called before a fresh run.
func (m *Model) Reset() {
	m.burstCounter = 0
	m.burstTarget = m.drawBurstTarget()
}

// drawBurstTarget picks the next burst length uniformly from [min, max].
func (m *Model) drawBurstTarget() int {
	lo, hi := m.cfg.BurstLengthMin, m.cfg.BurstLengthMax
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return lo + m.rng.Intn(hi-lo+1)
}

// burstBoundary advances the burst counter and reports whether this
// keystroke ends the current burst, redrawing the next target when it does.
func (m *Model) burstBoundary() bool {
	m.burstCounter++
	if m.burstCounter >= m.burstTarget {
		m.burstCounter = 0
		m.burstTarget = m.drawBurstTarget()
		return true
	}
	return false
}

// CalculateDelay computes the delay before typing char.
//
// prev is the previously typed character, zero at the first position. index
// and total drive the fatigue stage. The returned delay is in milliseconds,
// never below MinDelayMS.
func (m *Model) CalculateDelay(char, prev rune, index, total int) (float64, Breakdown) {
	cfg := m.cfg
	breakdown := Breakdown{}

	// 1. Gaussian base.
	delay := float64(cfg.BaseDelayMS) + m.rng.NormFloat64()*float64(cfg.DelayVarianceMS)/2
	breakdown[StageBase] = delay

	// 2. Newline pause, taking precedence over word boundaries.
	if cfg.NewlinePauseEnabled && prev == '\n' {
		add := m.flooredGauss(float64(cfg.NewlinePauseMS), 0.3)
		delay += add
		breakdown[StageNewline] = add
	} else if cfg.WordBoundaryEnabled {
		// 3. Word boundary, only when the newline stage did not fire.
		if prev == ' ' {
			add := m.flooredGauss(float64(cfg.InterWordPauseMS), 0.2)
			delay += add
			breakdown[StageInterWord] = add
		} else if prev != 0 && char != ' ' {
			delay *= cfg.IntraWordSpeedFactor
			breakdown[StageIntraWord] = cfg.IntraWordSpeedFactor
		}
	}

	// 4. Punctuation pause. Stacks on top of stages 2/3.
	if cfg.PunctuationPauseEnabled && prev != 0 && strings.ContainsRune(punctuation, prev) {
		add := m.flooredGauss(float64(cfg.PunctuationPauseMS), 0.3)
		delay += add
		breakdown[StagePunctuation] = add
	}

	// 5. Shift penalty.
	if cfg.ShiftPenaltyEnabled && keymap.RequiresShift(char) {
		delay += float64(cfg.ShiftPenaltyMS)
		breakdown[StageShift] = float64(cfg.ShiftPenaltyMS)
	}

	// 6. Double-letter acceleration (case-insensitive).
	if cfg.DoubleLetterEnabled && prev != 0 && strings.EqualFold(string(char), string(prev)) {
		delay *= cfg.DoubleLetterSpeedFactor
		breakdown[StageDoubleLetter] = cfg.DoubleLetterSpeedFactor
	}

	// 7. Burst micro-pause. The counter runs regardless so that enabling
	// bursts mid-profile keeps the cadence honest.
	if m.burstBoundary() && cfg.BurstEnabled {
		add := m.flooredGauss(float64(cfg.BurstPauseMS), 0.3)
		delay += add
		breakdown[StageBurst] = add
	}

	// 8. Fatigue: linear slowdown with progress through the text.
	if cfg.FatigueEnabled && total > 0 {
		mult := 1 + cfg.FatigueFactor*float64(index)/float64(total)
		delay *= mult
		breakdown[StageFatigue] = mult
	}

	// 9. Clamp.
	if delay < MinDelayMS {
		delay = MinDelayMS
	}
	breakdown[StageFinal] = delay

	return delay, breakdown
}

// flooredGauss draws mean*(1+gauss(0,relSpread)), floored at zero so additive
// pauses can never subtract time.
func (m *Model) flooredGauss(mean, relSpread float64) float64 {
	v := mean * (1 + m.rng.NormFloat64()*relSpread)
	if v < 0 {
		return 0
	}
	return v
}

// CalculateAll resets the model and computes one sample per character of
// text in order. Used by dry runs and diagnostics.
func (m *Model) CalculateAll(text string) []Sample {
	m.Reset()

	runes := []rune(text)
	samples := make([]Sample, 0, len(runes))

	var prev rune
	for i, char := range runes {
		delay, breakdown := m.CalculateDelay(char, prev, i, len(runes))
		samples = append(samples, Sample{Char: char, DelayMS: delay, Breakdown: breakdown})
		prev = char
	}
	return samples
}
