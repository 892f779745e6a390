// Package typo decides, character by character, whether a simulated typist
// makes a mistake and what the mistake plus its correction look like as an
// action sequence.
//
// Three mistake classes are modeled: adjacent-key substitution (grounded on
// the keymap adjacency graph), transposition of two consecutive characters,
// and double strikes. A realized mistake is corrected with the configured
// revision probability; the correction sequence mimics human behavior with a
// recognition pause, a backspace burst and a retype-preparation pause.
package typo

import (
	"fmt"
	"math/rand"
	"time"

	"humantype/internal/keymap"
)

// Stats aggregates mistake counters over one run.
type Stats struct {
	TotalChars    int
	Typos         int
	Adjacent      int
	Transposition int
	DoubleStrike  int
	Revised       int
	Unrevised     int
}

// Model realizes mistakes for a single run. It is not safe for concurrent
// use; the engine drives it from one goroutine.
type Model struct {
	cfg   Config
	rng   *rand.Rand
	stats Stats
}

// NewModel creates a model with the given configuration. A nil rng falls
// back to a time-seeded source; tests inject seeded ones.
func NewModel(cfg Config, rng *rand.Rand) *Model {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Model{cfg: cfg, rng: rng}
}

// Stats returns a snapshot of the accumulated counters.
func (m *Model) Stats() Stats {
	return m.stats
}

// ResetStats clears the counters. Called at the start of every run.
func (m *Model) ResetStats() {
	m.stats = Stats{}
}

// ProcessChar decides the fate of one character.
//
// prev and next are the surrounding source characters, zero when absent
// (first or last position). The returned consumedTwo is true exactly when a
// transposition was realized: the caller must then advance its cursor by two
// because next has already been emitted.
func (m *Model) ProcessChar(char, prev, next rune) (actions []Action, consumedTwo bool) {
	m.stats.TotalChars++

	classes := m.cfg.enabledClasses()
	if len(classes) == 0 {
		return []Action{typeAction(char, LabelNormal)}, false
	}

	if m.rng.Float64() >= m.cfg.typoProbability() {
		return []Action{typeAction(char, LabelNormal)}, false
	}

	switch classes[m.rng.Intn(len(classes))] {
	case ClassAdjacent:
		return m.adjacentTypo(char), false
	case ClassTransposition:
		return m.transpositionTypo(char, next)
	case ClassDoubleStrike:
		return m.doubleStrikeTypo(char), false
	}

	return []Action{typeAction(char, LabelNormal)}, false
}

// adjacentTypo substitutes a uniformly chosen physical neighbor.
func (m *Model) adjacentTypo(char rune) []Action {
	neighbors := keymap.AdjacentKeys(char)
	if len(neighbors) == 0 {
		// No adjacency entry (whitespace, exotic chars): type normally.
		return []Action{typeAction(char, LabelNormal)}
	}

	m.stats.Typos++
	m.stats.Adjacent++

	wrong := neighbors[m.rng.Intn(len(neighbors))]
	actions := []Action{typeAction(wrong, fmt.Sprintf("typo(meant %q)", char))}

	if m.rng.Float64() < m.cfg.revisionProbability() {
		m.stats.Revised++
		actions = append(actions,
			m.pause(200, 50, 30, LabelRecognition),
			backspaceAction(1),
			m.pause(100, 30, 20, LabelRetypePrep),
			typeAction(char, LabelCorrection),
		)
	} else {
		m.stats.Unrevised++
	}
	return actions
}

// transpositionTypo emits char and next in swapped order.
func (m *Model) transpositionTypo(char, next rune) ([]Action, bool) {
	if next == 0 {
		// Nothing to swap with at the end of the text.
		return []Action{typeAction(char, LabelNormal)}, false
	}

	m.stats.Typos++
	m.stats.Transposition++

	actions := []Action{
		typeAction(next, fmt.Sprintf("transposed(meant %q%q)", char, next)),
		typeAction(char, LabelTransposed),
	}

	if m.rng.Float64() < m.cfg.revisionProbability() {
		m.stats.Revised++
		actions = append(actions,
			// Transpositions take longer to notice than single slips.
			m.pause(275, 60, 50, LabelRecognition),
			backspaceAction(2),
			m.pause(100, 30, 20, LabelRetypePrep),
			typeAction(char, LabelCorrection),
			typeAction(next, LabelCorrection),
		)
	} else {
		m.stats.Unrevised++
	}
	return actions, true
}

// doubleStrikeTypo duplicates the keystroke; the correction only needs to
// remove the duplicate.
func (m *Model) doubleStrikeTypo(char rune) []Action {
	m.stats.Typos++
	m.stats.DoubleStrike++

	actions := []Action{
		typeAction(char, LabelNormal),
		typeAction(char, LabelDoubled),
	}

	if m.rng.Float64() < m.cfg.revisionProbability() {
		m.stats.Revised++
		actions = append(actions,
			m.pause(140, 40, 30, LabelRecognition),
			backspaceAction(1),
			// Fingers are already in place, so re-settling is quick.
			m.pause(55, 15, 15, LabelRetypePrep),
		)
	} else {
		m.stats.Unrevised++
	}
	return actions
}

// pause draws a gaussian delay around mean with the given sigma, floored so
// degenerate draws never produce implausibly short (or negative) waits.
func (m *Model) pause(mean, sigma, floor float64, label string) Action {
	ms := mean + m.rng.NormFloat64()*sigma
	if ms < floor {
		ms = floor
	}
	return pauseAction(time.Duration(ms*float64(time.Millisecond)), label)
}

// TextResult is one entry of a batch ProcessText pass.
type TextResult struct {
	Index   int
	Char    rune
	Actions []Action
}

// ProcessText runs the model over a whole text, advancing the cursor by two
// whenever a transposition consumed the following character. Used by dry
// runs and tests; the engine drives ProcessChar directly.
func (m *Model) ProcessText(text string) []TextResult {
	runes := []rune(text)
	var results []TextResult

	for i := 0; i < len(runes); {
		var prev, next rune
		if i > 0 {
			prev = runes[i-1]
		}
		if i < len(runes)-1 {
			next = runes[i+1]
		}

		actions, consumedTwo := m.ProcessChar(runes[i], prev, next)
		results = append(results, TextResult{Index: i, Char: runes[i], Actions: actions})

		if consumedTwo {
			i += 2
		} else {
			i++
		}
	}
	return results
}
