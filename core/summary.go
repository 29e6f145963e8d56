package core

import (
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// Frequency table sizes for summary output.
const (
	topLanguageCount = 10
	topTopicCount    = 15
)

// Summarize derives language/topic frequency tables, rank-movement counts
// and per-category composite averages from a completed leaderboard. Pure
// read-only aggregation, no new scoring beyond the flat composite.
func Summarize(board *schema.Leaderboard, calc *Calculator) schema.SummaryStats {
	entries := board.Entries()

	languages := make([]string, 0, len(entries))
	topics := make([]string, 0)
	for _, e := range entries {
		languages = append(languages, e.Repository.Language)
		topics = append(topics, e.Repository.Topics...)
	}

	sizes := make(map[schema.Category]int, len(schema.AllCategories))
	changes := make(map[schema.Category]schema.CategoryChanges, len(schema.AllCategories))
	composite := make(map[schema.Category]float64, len(schema.AllCategories))

	for _, cat := range schema.AllCategories {
		catEntries := board.CategoryEntries(cat)
		sizes[cat] = len(catEntries)
		changes[cat] = countChanges(catEntries)
		composite[cat] = meanComposite(catEntries, calc)
	}

	return schema.SummaryStats{
		GeneratedAt:        board.GeneratedAt,
		TotalRepositories:  board.TotalAnalyzed,
		DataFreshnessHours: board.DataFreshnessHours,
		CategorySizes:      sizes,
		ClusterCount:       len(board.Clusters),
		TopLanguages:       schema.TopFrequencies(languages, topLanguageCount),
		TopTopics:          schema.TopFrequencies(topics, topTopicCount),
		Changes:            changes,
		WeightedComposite:  composite,
	}
}

// countChanges tallies up/down/new movement for one category's entries.
func countChanges(entries []schema.LeaderboardEntry) schema.CategoryChanges {
	var changes schema.CategoryChanges
	for _, e := range entries {
		switch {
		case e.RankDelta == nil:
			changes.New++
		case *e.RankDelta > 0:
			changes.Up++
		case *e.RankDelta < 0:
			changes.Down++
		}
	}
	return changes
}

// meanComposite averages the flat weighted composite over a category.
func meanComposite(entries []schema.LeaderboardEntry, calc *Calculator) float64 {
	if len(entries) == 0 {
		return 0.0
	}
	var total float64
	for i := range entries {
		total += calc.CompositeScore(&entries[i].Repository)
	}
	return total / float64(len(entries))
}
