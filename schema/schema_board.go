package schema

import (
	"time"

	"github.com/google/uuid"
)

// Cluster is a group of repositories judged semantically similar via
// text-embedding distance. Clusters are recomputed wholesale on every run.
type Cluster struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RepoIDs     []int64   `json:"repos"`
	Center      []float32 `json:"center_embedding,omitempty"`
	Size        int       `json:"size"`
}

// LeaderboardEntry wraps one Repository and its metrics with a 1-based rank
// within a category. RankDelta is previous rank minus current rank (positive
// means the repository moved up); nil means the entry is new this run.
type LeaderboardEntry struct {
	Rank       int               `json:"rank"`
	Repository Repository        `json:"repository"`
	Metrics    RepositoryMetrics `json:"metrics"`
	Category   Category          `json:"category"`
	RankDelta  *int              `json:"change_from_previous,omitempty"`
}

// Leaderboard is the aggregate produced by one pipeline run. It owns its
// entries and clusters; entries reference Repository snapshots.
type Leaderboard struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Trending    []LeaderboardEntry `json:"trending"`
	Established []LeaderboardEntry `json:"established"`
	HiddenGems  []LeaderboardEntry `json:"hidden_gems"`
	Clusters    []Cluster          `json:"clusters"`

	TotalAnalyzed      int     `json:"total_repos_analyzed"`
	DataFreshnessHours float64 `json:"data_freshness_hours"`
}

// Entries returns all entries across the three categories.
func (b *Leaderboard) Entries() []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(b.Trending)+len(b.Established)+len(b.HiddenGems))
	out = append(out, b.Trending...)
	out = append(out, b.Established...)
	out = append(out, b.HiddenGems...)
	return out
}

// CategoryEntries returns the entry list for the given category.
func (b *Leaderboard) CategoryEntries(cat Category) []LeaderboardEntry {
	switch cat {
	case TrendingCategory:
		return b.Trending
	case EstablishedCategory:
		return b.Established
	case HiddenGemCategory:
		return b.HiddenGems
	default:
		return nil
	}
}

// GemBreakdown holds the hidden-gem detector's per-group sub-indicator
// scores, for downstream display and insight generation.
type GemBreakdown struct {
	CodeQuality map[BreakdownKey]float64 `json:"code_quality"`
	Community   map[BreakdownKey]float64 `json:"community_engagement"`
	Innovation  map[BreakdownKey]float64 `json:"innovation_potential"`
	Maintenance map[BreakdownKey]float64 `json:"maintenance_quality"`
	Overall     float64                  `json:"overall_score"`
}

// GemResult pairs a scored hidden-gem candidate with its breakdown.
type GemResult struct {
	Repository Repository   `json:"repository"`
	Score      float64      `json:"score"`
	Breakdown  GemBreakdown `json:"breakdown"`
}

// SimilarResult pairs a repository with its cosine similarity to a target
// repository's embedding.
type SimilarResult struct {
	Repository Repository `json:"repository"`
	Similarity float64    `json:"similarity"`
}

// GemInsights aggregates a detected gem set into score distribution,
// language/topic/age distributions and common characteristics.
type GemInsights struct {
	TotalFound   int     `json:"total_gems_found"`
	AverageScore float64 `json:"average_score"`
	MinScore     float64 `json:"min_score"`
	MaxScore     float64 `json:"max_score"`
	MedianScore  float64 `json:"median_score"`
	ScoreStdDev  float64 `json:"score_std_dev"`

	TopLanguages []FrequencyCount `json:"top_languages"`
	TopTopics    []FrequencyCount `json:"top_topics"`
	AgeBuckets   map[string]int   `json:"age_distribution"`

	WithTestsPct    float64 `json:"has_tests_percentage"`
	WithCIPct       float64 `json:"has_ci_percentage"`
	WithDocsPct     float64 `json:"has_docs_percentage"`
	WithLicensePct  float64 `json:"has_license_percentage"`
	AvgContributors float64 `json:"avg_contributors"`
	AvgReadmeLength float64 `json:"avg_readme_length"`
}

// CategoryChanges counts rank movement within one category between two
// consecutive leaderboard generations.
type CategoryChanges struct {
	Up   int `json:"up"`
	Down int `json:"down"`
	New  int `json:"new"`
}

// SummaryStats is a read-only aggregation over a completed Leaderboard.
type SummaryStats struct {
	GeneratedAt        time.Time                    `json:"generation_time"`
	TotalRepositories  int                          `json:"total_repositories"`
	DataFreshnessHours float64                      `json:"data_freshness_hours"`
	CategorySizes      map[Category]int             `json:"categories"`
	ClusterCount       int                          `json:"clusters"`
	TopLanguages       []FrequencyCount             `json:"top_languages"`
	TopTopics          []FrequencyCount             `json:"top_topics"`
	Changes            map[Category]CategoryChanges `json:"position_changes"`
	WeightedComposite  map[Category]float64         `json:"weighted_composite"`
}

// FrequencyCount is a name/count pair for frequency tables, ordered by count.
type FrequencyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RunRecord represents one row from the airank_runs history table.
type RunRecord struct {
	ID            uuid.UUID
	StartedAt     time.Time
	FinishedAt    *time.Time
	DurationMs    *int32
	ReposAnalyzed int32
	Trending      int32
	Established   int32
	HiddenGems    int32
	Clusters      int32
	Status        string
}

// CacheStatus summarizes the embedding cache contents.
type CacheStatus struct {
	Backend    DatabaseBackend
	Entries    int64
	OldestUnix int64
	NewestUnix int64
	SizeBytes  int64
}
