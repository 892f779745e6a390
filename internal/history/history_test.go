package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humantype/internal/engine"
	"humantype/internal/typo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleStats(cpm float64) engine.RunStats {
	return engine.RunStats{
		SourceChars: 120,
		Keystrokes:  130,
		Backspaces:  5,
		Typos:       typo.Stats{Typos: 5, Revised: 4},
		TotalTime:   30 * time.Second,
		PausedTime:  2 * time.Second,
		AvgDelayMS:  95.5,
		MinDelayMS:  15,
		MaxDelayMS:  540,
		CPM:         cpm,
		WPM:         cpm / 5,
		Completed:   true,
	}
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)

	started := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	id, err := s.Record(started, "default", sampleStats(260))
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, "default", r.Preset)
	assert.True(t, r.Completed)
	assert.False(t, r.DryRun)
	assert.Equal(t, 120, r.SourceChars)
	assert.Equal(t, 130, r.Keystrokes)
	assert.Equal(t, 5, r.Typos)
	assert.Equal(t, 4, r.Revised)
	assert.Equal(t, 30*time.Second, r.TotalTime)
	assert.Equal(t, 2*time.Second, r.PausedTime)
	assert.InDelta(t, 260, r.CPM, 1e-9)
	assert.True(t, r.StartedAt.Equal(started))
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		_, err := s.Record(base.Add(time.Duration(i)*time.Minute), "default", sampleStats(200+float64(i)))
		require.NoError(t, err)
	}

	runs, err := s.List(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.InDelta(t, 204, runs[0].CPM, 1e-9)
	assert.InDelta(t, 202, runs[2].CPM, 1e-9)
}

func TestSummarizeSkipsDryRuns(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Record(time.Now(), "default", sampleStats(200))
	require.NoError(t, err)
	_, err = s.Record(time.Now(), "default", sampleStats(300))
	require.NoError(t, err)

	dry := sampleStats(999)
	dry.DryRun = true
	_, err = s.Record(time.Now(), "default", dry)
	require.NoError(t, err)

	sum, err := s.Summarize()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Runs)
	assert.Equal(t, 2, sum.Completed)
	assert.Equal(t, 240, sum.SourceChars)
	assert.InDelta(t, 250, sum.AvgCPM, 1e-9)
	assert.InDelta(t, 300, sum.BestCPM, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := openTestStore(t)
	sum, err := s.Summarize()
	require.NoError(t, err)
	assert.Zero(t, sum.Runs)
	assert.Zero(t, sum.BestCPM)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)

	old := time.Now().Add(-60 * 24 * time.Hour)
	_, err := s.Record(old, "default", sampleStats(200))
	require.NoError(t, err)
	_, err = s.Record(time.Now(), "default", sampleStats(210))
	require.NoError(t, err)

	removed, err := s.Prune(time.Now().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	runs, err := s.List(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(time.Now(), "default", sampleStats(220))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.List(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
