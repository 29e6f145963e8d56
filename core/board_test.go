package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// stubSnapshots is an in-memory SnapshotStore for rank-delta tests.
type stubSnapshots struct {
	board *schema.Leaderboard
}

func (s *stubSnapshots) Save(board *schema.Leaderboard) (string, error) {
	s.board = board
	return "stub", nil
}

func (s *stubSnapshots) Load(_ string) (*schema.Leaderboard, error) {
	return s.board, nil
}

func (s *stubSnapshots) LoadLatest() (*schema.Leaderboard, error) {
	return s.board, nil
}

var _ contract.SnapshotStore = &stubSnapshots{}

// stubClusterer returns a canned cluster list or error.
type stubClusterer struct {
	clusters []schema.Cluster
	err      error
}

func (s *stubClusterer) Cluster(_ context.Context, _ []schema.Repository, _ int) ([]schema.Cluster, error) {
	return s.clusters, s.err
}

var _ contract.Clusterer = &stubClusterer{}

func newTestGenerator(policy schema.OverlapPolicy, clusterer contract.Clusterer, snapshots contract.SnapshotStore) *Generator {
	cfg := &contract.Config{
		Workers:  2,
		Policy:   policy,
		Weights:  schema.DefaultScoringWeights(),
		Criteria: schema.DefaultGemCriteria(),
	}
	g := NewGenerator(cfg, clusterer, snapshots)
	g.now = func() time.Time { return testNow }
	g.calc.now = func() time.Time { return testNow }
	g.detector.now = func() time.Time { return testNow }
	return g
}

// trendingRepo qualifies for the trending filter only.
func trendingRepo(id int64, name string, stars int) schema.Repository {
	repo := testRepo(id, name, stars)
	repo.ContributorsCount = 1 // fails the gem contributor gate
	return repo
}

// TestCategoryBoundaries locks the exact filter boundaries for trending and
// established membership.
func TestCategoryBoundaries(t *testing.T) {
	gen := newTestGenerator(schema.NonExclusiveOverlap, nil, nil)

	tests := []struct {
		name        string
		stars       int
		ageDays     int
		trending    bool
		established bool
	}{
		{name: "trending lower bound", stars: 100, ageDays: 60, trending: true},
		{name: "below trending lower bound", stars: 99, ageDays: 60},
		{name: "trending upper bound", stars: 10000, ageDays: 60, trending: true},
		{name: "above trending upper bound", stars: 10001, ageDays: 60},
		{name: "established boundary", stars: 5000, ageDays: 180, trending: true, established: true},
		{name: "below established stars", stars: 4999, ageDays: 180, trending: true},
		{name: "established too young", stars: 5000, ageDays: 179, trending: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := trendingRepo(1, "boundary", tt.stars)
			repo.CreatedAt = testNow.AddDate(0, 0, -tt.ageDays)

			board := gen.Generate(context.Background(), []schema.Repository{repo})
			assert.Equal(t, tt.trending, len(board.Trending) == 1, "trending membership")
			assert.Equal(t, tt.established, len(board.Established) == 1, "established membership")
		})
	}
}

// TestTrendingAgeAndPushGates verifies the recency and minimum-age gates.
func TestTrendingAgeAndPushGates(t *testing.T) {
	gen := newTestGenerator(schema.NonExclusiveOverlap, nil, nil)

	tooYoung := trendingRepo(1, "young", 500)
	tooYoung.CreatedAt = testNow.AddDate(0, 0, -29)

	stalePush := trendingRepo(2, "stale", 500)
	stalePush.PushedAt = testNow.AddDate(0, 0, -91)

	board := gen.Generate(context.Background(), []schema.Repository{tooYoung, stalePush})
	assert.Empty(t, board.Trending)
}

// TestCategoryCaps verifies the 50/30/20 caps hold even when more
// repositories qualify.
func TestCategoryCaps(t *testing.T) {
	gen := newTestGenerator(schema.NonExclusiveOverlap, nil, nil)

	repos := make([]schema.Repository, 0, 130)
	for i := range 60 {
		repos = append(repos, trendingRepo(int64(i+1), fmt.Sprintf("trend-%02d", i), 200+i))
	}
	for i := range 40 {
		repo := trendingRepo(int64(i+100), fmt.Sprintf("estab-%02d", i), 20000+i)
		repo.CreatedAt = testNow.AddDate(-2, 0, 0)
		repos = append(repos, repo)
	}
	for i := range 30 {
		repos = append(repos, gemCandidate(int64(i+200), fmt.Sprintf("gem-%02d", i)))
	}

	board := gen.Generate(context.Background(), repos)
	assert.Len(t, board.Trending, schema.TrendingCap)
	assert.Len(t, board.Established, schema.EstablishedCap)
	assert.LessOrEqual(t, len(board.HiddenGems), schema.HiddenGemCap)
	assert.Equal(t, 130, board.TotalAnalyzed)
}

// TestRankDeltaRoundTrip runs the generator twice over an unchanged input
// set: the first run yields all-nil deltas, the second reproduces every rank
// with delta zero.
func TestRankDeltaRoundTrip(t *testing.T) {
	repos := func() []schema.Repository {
		out := make([]schema.Repository, 0, 5)
		for i := range 5 {
			out = append(out, trendingRepo(int64(i+1), fmt.Sprintf("repo-%d", i), 300+i*500))
		}
		return out
	}

	first := newTestGenerator(schema.NonExclusiveOverlap, nil, nil).Generate(context.Background(), repos())
	require.NotEmpty(t, first.Trending)
	for _, e := range first.Trending {
		assert.Nil(t, e.RankDelta, "first run must mark every entry as new")
	}

	snapshots := &stubSnapshots{board: first}
	second := newTestGenerator(schema.NonExclusiveOverlap, nil, snapshots).Generate(context.Background(), repos())

	require.Len(t, second.Trending, len(first.Trending))
	for i, e := range second.Trending {
		require.NotNil(t, e.RankDelta)
		assert.Zero(t, *e.RankDelta)
		assert.Equal(t, first.Trending[i].Rank, e.Rank)
		assert.Equal(t, first.Trending[i].Repository.ID, e.Repository.ID)
	}
}

// TestRankDeltaMovement verifies up and down movement is signed correctly.
func TestRankDeltaMovement(t *testing.T) {
	previous := &schema.Leaderboard{
		Trending: []schema.LeaderboardEntry{
			{Rank: 1, Repository: schema.Repository{ID: 10}, Category: schema.TrendingCategory},
			{Rank: 2, Repository: schema.Repository{ID: 20}, Category: schema.TrendingCategory},
		},
	}

	entries := []schema.LeaderboardEntry{
		{Rank: 1, Repository: schema.Repository{ID: 20}, Category: schema.TrendingCategory},
		{Rank: 2, Repository: schema.Repository{ID: 10}, Category: schema.TrendingCategory},
		{Rank: 3, Repository: schema.Repository{ID: 30}, Category: schema.TrendingCategory},
	}
	applyRankDeltas(entries, previous, schema.TrendingCategory)

	require.NotNil(t, entries[0].RankDelta)
	assert.Equal(t, 1, *entries[0].RankDelta) // moved up from 2 to 1
	require.NotNil(t, entries[1].RankDelta)
	assert.Equal(t, -1, *entries[1].RankDelta) // moved down from 1 to 2
	assert.Nil(t, entries[2].RankDelta)        // new this run
}

// TestOverlapPolicies verifies a repository satisfying both the trending and
// established filters appears in both lists by default and only under
// established with the exclusive policy.
func TestOverlapPolicies(t *testing.T) {
	dual := trendingRepo(1, "dual", 8000)
	dual.CreatedAt = testNow.AddDate(-2, 0, 0)

	t.Run("non-exclusive", func(t *testing.T) {
		board := newTestGenerator(schema.NonExclusiveOverlap, nil, nil).
			Generate(context.Background(), []schema.Repository{dual})
		assert.Len(t, board.Trending, 1)
		assert.Len(t, board.Established, 1)
	})

	t.Run("exclusive", func(t *testing.T) {
		board := newTestGenerator(schema.ExclusiveOverlap, nil, nil).
			Generate(context.Background(), []schema.Repository{dual})
		assert.Empty(t, board.Trending)
		assert.Len(t, board.Established, 1)
	})
}

// TestGenerateClusters verifies clusters are attached sorted by descending
// size and that clustering failure degrades to no clusters.
func TestGenerateClusters(t *testing.T) {
	repos := []schema.Repository{trendingRepo(1, "clustered", 500)}

	t.Run("sorted by size", func(t *testing.T) {
		clusterer := &stubClusterer{clusters: []schema.Cluster{
			{ID: 0, Name: "Nlp Projects", Size: 2},
			{ID: 1, Name: "Computer Vision Projects", Size: 5},
		}}
		board := newTestGenerator(schema.NonExclusiveOverlap, clusterer, nil).
			Generate(context.Background(), repos)
		require.Len(t, board.Clusters, 2)
		assert.Equal(t, 5, board.Clusters[0].Size)
		assert.Equal(t, 2, board.Clusters[1].Size)
	})

	t.Run("failure degrades", func(t *testing.T) {
		clusterer := &stubClusterer{err: errors.New("embedding service unavailable")}
		board := newTestGenerator(schema.NonExclusiveOverlap, clusterer, nil).
			Generate(context.Background(), repos)
		assert.Empty(t, board.Clusters)
		assert.NotEmpty(t, board.Trending) // the rest of the run is unaffected
	})
}

// TestDataFreshness verifies the staleness indicator.
func TestDataFreshness(t *testing.T) {
	assert.Zero(t, dataFreshness(nil, testNow))

	repos := []schema.Repository{
		{ID: 1, UpdatedAt: testNow.Add(-48 * time.Hour)},
		{ID: 2, UpdatedAt: testNow.Add(-6 * time.Hour)},
	}
	assert.InDelta(t, 6.0, dataFreshness(repos, testNow), 0.001)
}

// TestGenerateEmptyInput verifies empty category lists are valid output.
func TestGenerateEmptyInput(t *testing.T) {
	board := newTestGenerator(schema.NonExclusiveOverlap, nil, nil).
		Generate(context.Background(), nil)
	assert.Empty(t, board.Trending)
	assert.Empty(t, board.Established)
	assert.Empty(t, board.HiddenGems)
	assert.Zero(t, board.TotalAnalyzed)
	assert.Equal(t, testNow, board.GeneratedAt)
}
