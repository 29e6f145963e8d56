package iocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

func snapshotBoard(generatedAt time.Time, total int) *schema.Leaderboard {
	return &schema.Leaderboard{
		GeneratedAt:   generatedAt,
		Trending:      []schema.LeaderboardEntry{{Rank: 1, Category: schema.TrendingCategory}},
		TotalAnalyzed: total,
	}
}

func TestSnapshotSaveAndLoad(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	generatedAt := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	name, err := store.Save(snapshotBoard(generatedAt, 10))
	require.NoError(t, err)
	assert.Equal(t, "leaderboard_20250601_123045.json", name)

	loaded, err := store.Load(name)
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.TotalAnalyzed)
	assert.True(t, loaded.GeneratedAt.Equal(generatedAt))
	require.Len(t, loaded.Trending, 1)
	assert.Equal(t, 1, loaded.Trending[0].Rank)
}

func TestSnapshotLoadWithoutExtension(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(snapshotBoard(time.Now().UTC(), 5))
	require.NoError(t, err)

	loaded, err := store.Load(name[:len(name)-len(".json")])
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.TotalAnalyzed)
}

func TestSnapshotLoadRejectsTraversal(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("../etc/passwd")
	assert.Error(t, err)
}

func TestSnapshotLoadLatest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	oldName, err := store.Save(snapshotBoard(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), 1))
	require.NoError(t, err)
	// Push the first file's mtime into the past so ordering does not depend
	// on filesystem timestamp granularity.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, oldName), past, past))

	_, err = store.Save(snapshotBoard(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 2))
	require.NoError(t, err)

	latest, err := store.LoadLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.TotalAnalyzed)
}

func TestSnapshotLoadLatestEmpty(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	latest, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestSnapshotListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	_, err = store.Save(snapshotBoard(time.Now().UTC(), 1))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	names, err := store.List()
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestSnapshotLoadMissing(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("leaderboard_19990101_000000.json")
	assert.Error(t, err)
}
