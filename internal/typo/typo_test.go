package typo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(cfg Config, seed int64) *Model {
	return NewModel(cfg, rand.New(rand.NewSource(seed)))
}

func TestAllClassesDisabled(t *testing.T) {
	m := newTestModel(Config{TypoProb: 10000, RevisionProb: 100}, 1)

	for _, c := range "hello, World!\n" {
		actions, consumedTwo := m.ProcessChar(c, 0, 'x')
		require.Len(t, actions, 1)
		assert.Equal(t, KindType, actions[0].Kind)
		assert.Equal(t, c, actions[0].Char)
		assert.Equal(t, LabelNormal, actions[0].Label)
		assert.False(t, consumedTwo)
	}

	stats := m.Stats()
	assert.Equal(t, 14, stats.TotalChars)
	assert.Zero(t, stats.Typos)
}

func TestZeroProbabilityNeverTypos(t *testing.T) {
	cfg := Config{TypoProb: 0, RevisionProb: 85, AdjacentEnabled: true,
		TranspositionEnabled: true, DoubleStrikeEnabled: true}
	m := newTestModel(cfg, 2)

	for i := 0; i < 10000; i++ {
		actions, consumedTwo := m.ProcessChar('e', 'h', 'l')
		require.Len(t, actions, 1)
		assert.False(t, consumedTwo)
	}
	assert.Zero(t, m.Stats().Typos)
}

func TestCertainAdjacentTypo(t *testing.T) {
	cfg := Config{TypoProb: 10000, RevisionProb: 100, AdjacentEnabled: true}
	m := newTestModel(cfg, 3)

	for i := 0; i < 1000; i++ {
		actions, consumedTwo := m.ProcessChar('e', 0, 0)
		assert.False(t, consumedTwo)

		// typo, recognition pause, backspace, retype prep, correction
		require.Len(t, actions, 5)
		assert.Equal(t, KindType, actions[0].Kind)
		assert.NotEqual(t, 'e', actions[0].Char)
		assert.Contains(t, []rune{'3', '4', 'w', 'r', 's', 'd'}, actions[0].Char)
		assert.Equal(t, KindPause, actions[1].Kind)
		assert.Equal(t, KindBackspace, actions[2].Kind)
		assert.Equal(t, 1, actions[2].Count)
		assert.Equal(t, KindPause, actions[3].Kind)
		assert.Equal(t, KindType, actions[4].Kind)
		assert.Equal(t, 'e', actions[4].Char)
		assert.Equal(t, LabelCorrection, actions[4].Label)
	}
	assert.Equal(t, 1000, m.Stats().Typos)
	assert.Equal(t, 1000, m.Stats().Revised)
}

func TestAdjacentFallbackWithoutNeighbors(t *testing.T) {
	cfg := Config{TypoProb: 10000, RevisionProb: 100, AdjacentEnabled: true}
	m := newTestModel(cfg, 4)

	// Space has no adjacency entry: must degrade to a normal keystroke.
	actions, consumedTwo := m.ProcessChar(' ', 'a', 'b')
	require.Len(t, actions, 1)
	assert.Equal(t, LabelNormal, actions[0].Label)
	assert.False(t, consumedTwo)
	assert.Zero(t, m.Stats().Typos)
}

func TestTranspositionShape(t *testing.T) {
	cfg := Config{TypoProb: 10000, RevisionProb: 100, TranspositionEnabled: true}
	m := newTestModel(cfg, 5)

	actions, consumedTwo := m.ProcessChar('a', 0, 'b')
	require.True(t, consumedTwo)

	// swapped pair, recognition pause, backspace(2), retype prep, restored pair
	require.Len(t, actions, 7)
	assert.Equal(t, 'b', actions[0].Char)
	assert.Equal(t, 'a', actions[1].Char)
	assert.Equal(t, KindPause, actions[2].Kind)
	assert.Equal(t, KindBackspace, actions[3].Kind)
	assert.Equal(t, 2, actions[3].Count)
	assert.Equal(t, KindPause, actions[4].Kind)
	assert.Equal(t, 'a', actions[5].Char)
	assert.Equal(t, 'b', actions[6].Char)
}

func TestTranspositionNeedsNextChar(t *testing.T) {
	cfg := Config{TypoProb: 10000, RevisionProb: 100, TranspositionEnabled: true}
	m := newTestModel(cfg, 6)

	actions, consumedTwo := m.ProcessChar('a', 'x', 0)
	require.Len(t, actions, 1)
	assert.Equal(t, LabelNormal, actions[0].Label)
	assert.False(t, consumedTwo)
	assert.Zero(t, m.Stats().Typos)
}

func TestConsumedTwoOnlyForTranspositions(t *testing.T) {
	cfg := Config{TypoProb: 10000, RevisionProb: 50, AdjacentEnabled: true,
		TranspositionEnabled: true, DoubleStrikeEnabled: true}
	m := newTestModel(cfg, 7)

	for i := 0; i < 5000; i++ {
		before := m.Stats().Transposition
		_, consumedTwo := m.ProcessChar('t', 'a', 'h')
		after := m.Stats().Transposition
		assert.Equal(t, consumedTwo, after == before+1,
			"consumedTwo must track transposition realizations exactly")
	}
	// With all three classes enabled each should have fired.
	stats := m.Stats()
	assert.Positive(t, stats.Adjacent)
	assert.Positive(t, stats.Transposition)
	assert.Positive(t, stats.DoubleStrike)
	assert.Equal(t, stats.Typos, stats.Adjacent+stats.Transposition+stats.DoubleStrike)
	assert.Equal(t, stats.Typos, stats.Revised+stats.Unrevised)
}

func TestDoubleStrikeShape(t *testing.T) {
	cfg := Config{TypoProb: 10000, RevisionProb: 100, DoubleStrikeEnabled: true}
	m := newTestModel(cfg, 8)

	actions, consumedTwo := m.ProcessChar('o', 'l', 'p')
	assert.False(t, consumedTwo)

	// normal, duplicate, recognition pause, backspace, settle pause
	require.Len(t, actions, 5)
	assert.Equal(t, 'o', actions[0].Char)
	assert.Equal(t, 'o', actions[1].Char)
	assert.Equal(t, LabelDoubled, actions[1].Label)
	assert.Equal(t, KindBackspace, actions[3].Kind)
	assert.Equal(t, 1, actions[3].Count)
}

func TestPauseFloors(t *testing.T) {
	cfg := Config{TypoProb: 10000, RevisionProb: 100, AdjacentEnabled: true}
	m := newTestModel(cfg, 9)

	for i := 0; i < 2000; i++ {
		actions, _ := m.ProcessChar('k', 0, 0)
		for _, a := range actions {
			if a.Kind == KindPause {
				assert.GreaterOrEqual(t, a.Duration.Milliseconds(), int64(15))
			}
		}
	}
}

func TestObservedRateMatchesConfigured(t *testing.T) {
	// 3.00% configured; expect the observed rate within half a point.
	cfg := Config{TypoProb: 300, RevisionProb: 50, AdjacentEnabled: true}
	m := newTestModel(cfg, 10)

	const n = 100000
	for i := 0; i < n; i++ {
		m.ProcessChar('e', 'h', 'l')
	}

	rate := float64(m.Stats().Typos) / float64(n) * 100
	assert.InDelta(t, 3.0, rate, 0.5)
}

func TestProcessTextCursorAdvance(t *testing.T) {
	cfg := Config{TypoProb: 10000, RevisionProb: 100, TranspositionEnabled: true}
	m := newTestModel(cfg, 11)

	text := "abcdef"
	results := m.ProcessText(text)

	// Every step is a transposition except possibly a trailing single char,
	// so indices advance by two.
	require.Equal(t, 3, len(results))
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 2, results[1].Index)
	assert.Equal(t, 4, results[2].Index)
}

func TestProcessTextDisabledVisitsEveryChar(t *testing.T) {
	m := newTestModel(Config{}, 12)

	text := "The quick brown fox"
	results := m.ProcessText(text)
	require.Len(t, results, len(text))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, rune(text[i]), r.Char)
	}
}

func TestProcessTextEmptyAndSingle(t *testing.T) {
	m := newTestModel(DefaultConfig(), 13)
	assert.Empty(t, m.ProcessText(""))

	m2 := newTestModel(Config{TypoProb: 10000, RevisionProb: 100, TranspositionEnabled: true}, 14)
	results := m2.ProcessText("x")
	require.Len(t, results, 1)
	require.Len(t, results[0].Actions, 1)
	assert.Equal(t, LabelNormal, results[0].Actions[0].Label)
}

func TestConfigNormalization(t *testing.T) {
	assert.Equal(t, 0.0, Config{TypoProb: -5}.typoProbability())
	assert.Equal(t, 1.0, Config{TypoProb: 20000}.typoProbability())
	assert.Equal(t, 0.003, Config{TypoProb: 30}.typoProbability())
	assert.Equal(t, 1.0, Config{RevisionProb: 150}.revisionProbability())
	assert.Equal(t, 0.85, Config{RevisionProb: 85}.revisionProbability())
}
