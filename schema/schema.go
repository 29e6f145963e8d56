// Package schema has configs, models and constants for all parts of airank.
package schema

import "time"

// Repository represents a normalized snapshot of one project's metadata,
// fetched and enriched by the external scraper. The statistics fields are
// treated as immutable inputs; Scores, ClusterID and Embedding are derived
// fields populated by the scoring and clustering components.
type Repository struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description,omitempty"`
	HTMLURL     string `json:"html_url"`
	CloneURL    string `json:"clone_url"`

	OwnerLogin     string `json:"owner_login"`
	OwnerType      string `json:"owner_type"` // "User" or "Organization"
	OwnerAvatarURL string `json:"owner_avatar_url"`

	Stars      int   `json:"stargazers_count"`
	Watchers   int   `json:"watchers_count"`
	Forks      int   `json:"forks_count"`
	OpenIssues int   `json:"open_issues_count"`
	SizeKB     int64 `json:"size"` // repository size in KB

	Language    string         `json:"language,omitempty"`
	Languages   map[string]int `json:"languages,omitempty"` // language -> bytes
	Topics      []string       `json:"topics,omitempty"`
	LicenseName string         `json:"license_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	PushedAt  time.Time `json:"pushed_at"`

	ContributorsCount int    `json:"contributors_count"`
	ReadmeLength      int    `json:"readme_length"`
	ReadmeContent     string `json:"readme_content,omitempty"`
	HasCI             bool   `json:"has_ci"`
	HasTests          bool   `json:"has_tests"`
	HasDocumentation  bool   `json:"has_documentation"`

	// Derived fields. A nil Scores means the repository has not been scored
	// yet; this replaces a zero-valued score sentinel so that 0.0 remains a
	// legal computed value.
	Scores    *ScoreSet `json:"scores,omitempty"`
	ClusterID *int      `json:"cluster_id,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// NormalizeTimes coerces all repository timestamps to UTC. It is called once
// when a Repository record enters the core so that every time subtraction
// after that point operates on timezone-aware UTC values.
func (r *Repository) NormalizeTimes() {
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	r.PushedAt = r.PushedAt.UTC()
}

// ScoreSet holds the calculated scores for a repository.
type ScoreSet struct {
	Momentum float64 `json:"momentum"` // [0,10]
	Quality  float64 `json:"quality"`  // [0,1]
	Final    float64 `json:"final"`    // category-dependent composite
}

// RepositoryMetrics is a per-repository value object with normalized [0,1]
// sub-scores and optional growth deltas. It is created fresh on every
// leaderboard generation and only persists as part of a Leaderboard.
type RepositoryMetrics struct {
	RepoID   int64  `json:"repo_id"`
	FullName string `json:"full_name"`

	StarsGrowth30d    int `json:"stars_growth_30d"`
	StarsGrowth7d     int `json:"stars_growth_7d"`
	CommitFrequency30 int `json:"commit_frequency_30d"`

	TestCoverageScore  float64 `json:"test_coverage_score"`
	DocumentationScore float64 `json:"documentation_score"`
	CodeQualityScore   float64 `json:"code_quality_score"`
	ContributorScore   float64 `json:"contributor_diversity_score"`
	FinalScore         float64 `json:"final_score"` // [0,10]

	CalculatedAt time.Time `json:"calculated_at"`
}
