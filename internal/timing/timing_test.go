package timing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(cfg Config, seed int64) *Model {
	return NewModel(cfg, rand.New(rand.NewSource(seed)))
}

func TestDelayNeverBelowFloor(t *testing.T) {
	configs := []Config{
		DefaultConfig(),
		{}, // all zeros
		{BaseDelayMS: -500},
		{BaseDelayMS: 1, DelayVarianceMS: 1000},
		{
			BaseDelayMS:             5,
			WordBoundaryEnabled:     true,
			IntraWordSpeedFactor:    0.01,
			DoubleLetterEnabled:     true,
			DoubleLetterSpeedFactor: 0.01,
		},
	}

	for _, cfg := range configs {
		m := newTestModel(cfg, 1)
		for i := 0; i < 5000; i++ {
			delay, breakdown := m.CalculateDelay('e', 'e', i, 5000)
			assert.GreaterOrEqual(t, delay, MinDelayMS)
			assert.Equal(t, delay, breakdown[StageFinal])
		}
	}
}

func TestBaseStageAlwaysRecorded(t *testing.T) {
	m := newTestModel(DefaultConfig(), 2)
	_, breakdown := m.CalculateDelay('a', 0, 0, 10)
	_, ok := breakdown[StageBase]
	assert.True(t, ok)
}

func TestNewlineTakesPrecedenceOverWordBoundary(t *testing.T) {
	cfg := DefaultConfig()
	m := newTestModel(cfg, 3)

	// prev is a newline: the newline stage fires, never inter-word.
	for i := 0; i < 200; i++ {
		_, breakdown := m.CalculateDelay('a', '\n', 1, 10)
		_, hasNewline := breakdown[StageNewline]
		_, hasInterWord := breakdown[StageInterWord]
		_, hasIntraWord := breakdown[StageIntraWord]
		assert.True(t, hasNewline)
		assert.False(t, hasInterWord)
		assert.False(t, hasIntraWord)
	}
}

func TestWordBoundaryStages(t *testing.T) {
	cfg := DefaultConfig()
	m := newTestModel(cfg, 4)

	_, breakdown := m.CalculateDelay('w', ' ', 5, 10)
	_, hasInterWord := breakdown[StageInterWord]
	assert.True(t, hasInterWord)

	_, breakdown = m.CalculateDelay('o', 'w', 6, 10)
	assert.Equal(t, cfg.IntraWordSpeedFactor, breakdown[StageIntraWord])

	// First character of the text: neither applies.
	_, breakdown = m.CalculateDelay('w', 0, 0, 10)
	_, hasInterWord = breakdown[StageInterWord]
	_, hasIntraWord := breakdown[StageIntraWord]
	assert.False(t, hasInterWord)
	assert.False(t, hasIntraWord)

	// Typing a space inside text: no intra-word speedup.
	_, breakdown = m.CalculateDelay(' ', 'd', 4, 10)
	_, hasIntraWord = breakdown[StageIntraWord]
	assert.False(t, hasIntraWord)
}

func TestPunctuationStacksOnInterWord(t *testing.T) {
	cfg := DefaultConfig()
	m := newTestModel(cfg, 5)

	found := false
	for i := 0; i < 100; i++ {
		_, breakdown := m.CalculateDelay('T', '.', 5, 10)
		_, hasPunct := breakdown[StagePunctuation]
		_, hasIntraWord := breakdown[StageIntraWord]
		require.True(t, hasPunct)
		if hasIntraWord {
			found = true
		}
	}
	// '.' is a non-space prev and 'T' a non-space char, so the intra-word
	// factor applies alongside the punctuation pause.
	assert.True(t, found)
}

func TestShiftPenalty(t *testing.T) {
	cfg := DefaultConfig()
	m := newTestModel(cfg, 6)

	_, breakdown := m.CalculateDelay('A', 'x', 3, 10)
	assert.Equal(t, float64(cfg.ShiftPenaltyMS), breakdown[StageShift])

	_, breakdown = m.CalculateDelay('a', 'x', 3, 10)
	_, hasShift := breakdown[StageShift]
	assert.False(t, hasShift)

	cfg.ShiftPenaltyEnabled = false
	m = newTestModel(cfg, 6)
	_, breakdown = m.CalculateDelay('A', 'x', 3, 10)
	_, hasShift = breakdown[StageShift]
	assert.False(t, hasShift)
}

func TestDoubleLetterAcceleration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DoubleLetterEnabled = true
	m := newTestModel(cfg, 7)

	_, breakdown := m.CalculateDelay('l', 'l', 3, 10)
	assert.Equal(t, cfg.DoubleLetterSpeedFactor, breakdown[StageDoubleLetter])

	// Case-insensitive comparison.
	_, breakdown = m.CalculateDelay('L', 'l', 3, 10)
	_, ok := breakdown[StageDoubleLetter]
	assert.True(t, ok)

	_, breakdown = m.CalculateDelay('l', 'o', 3, 10)
	_, ok = breakdown[StageDoubleLetter]
	assert.False(t, ok)
}

func TestBurstCadence(t *testing.T) {
	cfg := Config{
		BaseDelayMS:    50,
		BurstEnabled:   true,
		BurstLengthMin: 3,
		BurstLengthMax: 3,
		BurstPauseMS:   500,
	}
	m := newTestModel(cfg, 8)

	// Fixed burst length of 3: every third call carries the micro-pause.
	for i := 0; i < 30; i++ {
		_, breakdown := m.CalculateDelay('a', 'b', i, 30)
		_, hasBurst := breakdown[StageBurst]
		assert.Equal(t, (i+1)%3 == 0, hasBurst, "call %d", i)
	}
}

func TestBurstTargetRangeRedrawn(t *testing.T) {
	cfg := Config{
		BaseDelayMS:    50,
		BurstEnabled:   true,
		BurstLengthMin: 2,
		BurstLengthMax: 5,
		BurstPauseMS:   100,
	}
	m := newTestModel(cfg, 9)

	// Distances between consecutive burst boundaries stay within [min,max].
	last := -1
	for i := 0; i < 2000; i++ {
		_, breakdown := m.CalculateDelay('a', 'b', i, 2000)
		if _, ok := breakdown[StageBurst]; ok {
			if last >= 0 {
				gap := i - last
				assert.GreaterOrEqual(t, gap, cfg.BurstLengthMin)
				assert.LessOrEqual(t, gap, cfg.BurstLengthMax)
			}
			last = i
		}
	}
	require.Positive(t, last, "bursts never fired")
}

func TestFatigueMultiplier(t *testing.T) {
	cfg := Config{BaseDelayMS: 100, FatigueEnabled: true, FatigueFactor: 0.5}
	m := newTestModel(cfg, 10)

	_, first := m.CalculateDelay('a', 0, 0, 100)
	assert.Equal(t, 1.0, first[StageFatigue])

	_, mid := m.CalculateDelay('a', 'a', 50, 100)
	assert.InDelta(t, 1.25, mid[StageFatigue], 1e-9)

	_, last := m.CalculateDelay('a', 'a', 99, 100)
	assert.InDelta(t, 1.495, last[StageFatigue], 1e-9)
}

func TestCalculateAllMatchesSource(t *testing.T) {
	m := newTestModel(DefaultConfig(), 11)

	text := "Hello, world!\nSecond line."
	samples := m.CalculateAll(text)

	require.Len(t, samples, len([]rune(text)))
	for i, s := range samples {
		assert.Equal(t, []rune(text)[i], s.Char)
		assert.GreaterOrEqual(t, s.DelayMS, MinDelayMS)
	}

	// The character after the newline carries the newline pause.
	idx := len("Hello, world!\n")
	_, ok := samples[idx].Breakdown[StageNewline]
	assert.True(t, ok)
}

func TestCalculateAllEmptyText(t *testing.T) {
	m := newTestModel(DefaultConfig(), 12)
	assert.Empty(t, m.CalculateAll(""))
}

func TestResetRedrawsBurstTarget(t *testing.T) {
	cfg := Config{BaseDelayMS: 50, BurstEnabled: true, BurstLengthMin: 2, BurstLengthMax: 8, BurstPauseMS: 50}
	m := newTestModel(cfg, 13)

	for i := 0; i < 5; i++ {
		m.CalculateDelay('a', 'b', i, 10)
	}
	m.Reset()
	assert.Zero(t, m.burstCounter)
	assert.GreaterOrEqual(t, m.burstTarget, cfg.BurstLengthMin)
	assert.LessOrEqual(t, m.burstTarget, cfg.BurstLengthMax)
}
