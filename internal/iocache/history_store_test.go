package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

func newSQLiteHistory(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl)
}

func TestHistoryRunLifecycle(t *testing.T) {
	store := newSQLiteHistory(t)
	startedAt := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)

	id, err := store.BeginRun(startedAt, map[string]any{"workers": 4})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	board := &schema.Leaderboard{
		GeneratedAt:   startedAt,
		Trending:      make([]schema.LeaderboardEntry, 3),
		Established:   make([]schema.LeaderboardEntry, 2),
		HiddenGems:    make([]schema.LeaderboardEntry, 1),
		Clusters:      make([]schema.Cluster, 2),
		TotalAnalyzed: 42,
	}
	require.NoError(t, store.EndRun(id, startedAt.Add(90*time.Second), board, "completed"))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, id, run.ID)
	assert.True(t, run.StartedAt.Equal(startedAt))
	require.NotNil(t, run.FinishedAt)
	require.NotNil(t, run.DurationMs)
	assert.Equal(t, int32(90000), *run.DurationMs)
	assert.Equal(t, int32(42), run.ReposAnalyzed)
	assert.Equal(t, int32(3), run.Trending)
	assert.Equal(t, int32(2), run.Established)
	assert.Equal(t, int32(1), run.HiddenGems)
	assert.Equal(t, int32(2), run.Clusters)
	assert.Equal(t, "completed", run.Status)
}

func TestHistoryUnfinishedRun(t *testing.T) {
	store := newSQLiteHistory(t)

	id, err := store.BeginRun(time.Now().UTC(), nil)
	require.NoError(t, err)

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Nil(t, runs[0].FinishedAt)
	assert.Nil(t, runs[0].DurationMs)
	assert.Equal(t, "running", runs[0].Status)
}

func TestHistoryListOrderAndLimit(t *testing.T) {
	store := newSQLiteHistory(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := range 3 {
		id, err := store.BeginRun(base.Add(time.Duration(i)*time.Hour), nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestHistoryFailedRunWithoutBoard(t *testing.T) {
	store := newSQLiteHistory(t)
	startedAt := time.Now().UTC()

	id, err := store.BeginRun(startedAt, nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(id, startedAt.Add(time.Second), nil, "failed"))

	runs, err := store.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "failed", runs[0].Status)
	assert.Zero(t, runs[0].ReposAnalyzed)
}

func TestHistoryClear(t *testing.T) {
	store := newSQLiteHistory(t)

	_, err := store.BeginRun(time.Now().UTC(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Clear())

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestHistoryNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	id, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	assert.NoError(t, store.EndRun(id, time.Now(), nil, "completed"))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
