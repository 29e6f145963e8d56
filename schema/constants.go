package schema

// Custom string types for type safety.
type (
	// Category represents a leaderboard partition.
	Category string

	// BreakdownKey represents keys used in scoring breakdowns.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// OverlapPolicy controls whether a repository may appear in more than
	// one category on the same leaderboard.
	OverlapPolicy string
)

// All leaderboard categories.
const (
	TrendingCategory    Category = "trending"
	EstablishedCategory Category = "established"
	HiddenGemCategory   Category = "hidden_gem"
)

// Per-category entry caps.
const (
	TrendingCap    = 50
	EstablishedCap = 30
	HiddenGemCap   = 20
)

// Breakdown keys used by the hidden-gem detector's component groups.
const (
	BreakdownTesting       BreakdownKey = "testing"
	BreakdownCICD          BreakdownKey = "ci_cd"
	BreakdownDocumentation BreakdownKey = "documentation"
	BreakdownOrganization  BreakdownKey = "organization"

	BreakdownContribDiversity BreakdownKey = "contributor_diversity"
	BreakdownActivityRatio    BreakdownKey = "activity_ratio"
	BreakdownIssueEngagement  BreakdownKey = "issue_engagement"
	BreakdownForkEngagement   BreakdownKey = "fork_engagement"

	BreakdownNovelty  BreakdownKey = "novelty"
	BreakdownResearch BreakdownKey = "research_orientation"

	BreakdownRecentActivity    BreakdownKey = "recent_activity"
	BreakdownUpdateConsistency BreakdownKey = "update_consistency"
	BreakdownMaturityBalance   BreakdownKey = "maturity_balance"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Overlap policies. The original pipeline evaluated the trending and
// established predicates independently, so one repository could appear in
// both lists; non-exclusive preserves that, exclusive gives the more
// specific category precedence (established over trending, hidden gems
// removed from trending).
const (
	NonExclusiveOverlap OverlapPolicy = "non-exclusive" // default
	ExclusiveOverlap    OverlapPolicy = "exclusive"
)

// AllCategories lists the categories in display order.
var AllCategories = []Category{TrendingCategory, EstablishedCategory, HiddenGemCategory}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidOverlapPolicies lists all valid overlap policies.
var ValidOverlapPolicies = map[OverlapPolicy]struct{}{
	NonExclusiveOverlap: {},
	ExclusiveOverlap:    {},
}

// AITopics are the curated topic tags the search pipeline targets; the
// hidden-gem quick heuristic counts matches against this list.
var AITopics = []string{
	"machine-learning",
	"artificial-intelligence",
	"deep-learning",
	"natural-language-processing",
	"llm",
	"rag",
	"computer-vision",
	"nlp",
	"transformers",
}

// CuttingEdgeTopics drive the detector's novelty sub-score.
var CuttingEdgeTopics = []string{
	"transformer", "attention", "gpt", "llm", "large-language-model",
	"diffusion", "stable-diffusion", "generative", "multimodal",
	"reinforcement-learning", "federated-learning", "few-shot",
	"zero-shot", "prompt-engineering", "rag", "retrieval-augmented",
	"neural-architecture-search", "automl", "explainable-ai",
}

// InnovationKeywords are description adjectives that suggest novel work.
var InnovationKeywords = []string{
	"novel", "new", "innovative", "breakthrough", "state-of-the-art",
	"sota", "cutting-edge", "advanced", "next-generation",
}

// ResearchKeywords drive the detector's research-orientation sub-score.
var ResearchKeywords = []string{
	"paper", "research", "arxiv", "publication", "experiment",
	"benchmark", "evaluation", "dataset", "model", "algorithm",
}

// TestKeywords signal testing infrastructure in topics or descriptions.
var TestKeywords = []string{"test", "testing", "pytest", "jest", "unittest", "mocha", "jasmine"}

// DocKeywords signal documentation effort in topics.
var DocKeywords = []string{"documentation", "docs", "tutorial", "guide", "examples"}

// StructureKeywords signal a deliberately organized project.
var StructureKeywords = []string{"api", "cli", "framework", "library", "tool", "sdk"}
