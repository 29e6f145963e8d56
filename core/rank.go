package core

import (
	"sort"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// scoredRepo pairs a repository snapshot with its category composite score.
type scoredRepo struct {
	repo  schema.Repository
	score float64
}

// rankEntries sorts scored candidates by descending score, truncates to
// limit, and wraps the survivors as leaderboard entries with dense 1-based
// ranks. The stable sort keeps input order for exact ties so reruns over the
// same data produce the same ordering.
func rankEntries(candidates []scoredRepo, limit int, category schema.Category, metricsMap map[int64]schema.RepositoryMetrics) []schema.LeaderboardEntry {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	entries := make([]schema.LeaderboardEntry, 0, len(candidates))
	for i, cand := range candidates {
		entries = append(entries, schema.LeaderboardEntry{
			Rank:       i + 1,
			Repository: cand.repo,
			Metrics:    metricsMap[cand.repo.ID],
			Category:   category,
		})
	}
	return entries
}

// applyRankDeltas fills RankDelta as previous rank minus current rank within
// the same category, so positive means the repository moved up. Entries
// absent from the previous board keep a nil delta (new this run). A nil
// previous board leaves every delta nil.
func applyRankDeltas(entries []schema.LeaderboardEntry, previous *schema.Leaderboard, category schema.Category) {
	if previous == nil {
		return
	}

	prevRanks := make(map[int64]int)
	for _, e := range previous.CategoryEntries(category) {
		prevRanks[e.Repository.ID] = e.Rank
	}

	for i := range entries {
		if prevRank, ok := prevRanks[entries[i].Repository.ID]; ok {
			delta := prevRank - entries[i].Rank
			entries[i].RankDelta = &delta
		}
	}
}
