package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// Default values for configuration.
const (
	DefaultDataDir        = "data"
	DefaultPrecision      = 2
	DefaultEmbedURL       = "http://localhost:8080"
	DefaultEmbedBatchSize = 32
	DefaultSimilarLimit   = 5
	MaxSimilarLimit       = 100
	DefaultCronSpec       = "0 6 * * *" // daily at 06:00 UTC
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the canonical timestamp representation in all persisted
// artifacts and rendered output.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Config holds the runtime configuration for leaderboard generation.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string // Path to the scraper's enriched repository JSON file
	DataDir   string // Directory holding leaderboard snapshots

	Workers    int
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)

	Clustering   bool // Run the clustering engine as part of generation
	ClusterCount int  // Fixed cluster count (0 = silhouette search)
	ForceRefresh bool // Bypass the embedding cache

	Policy       schema.OverlapPolicy
	PreviousName string // Explicit baseline snapshot name ("" = latest by mtime)

	EmbedURL       string
	EmbedBatchSize int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	SimilarLimit int
	CronSpec     string

	Weights  schema.ScoringWeights
	Criteria schema.GemCriteria

	UseColors bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	DataDir        string `mapstructure:"data-dir"`
	Workers        int    `mapstructure:"workers"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Clusters       bool   `mapstructure:"clusters"`
	ClusterCount   int    `mapstructure:"cluster-count"`
	ForceRefresh   bool   `mapstructure:"force-refresh"`
	Policy         string `mapstructure:"policy"`
	PreviousName   string `mapstructure:"previous"`
	EmbedURL       string `mapstructure:"embed-url"`
	EmbedBatchSize int    `mapstructure:"embed-batch-size"`

	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	SimilarLimit int    `mapstructure:"similar-limit"`
	CronSpec     string `mapstructure:"cron"`
	Color        string `mapstructure:"color"`

	// --- Scoring configuration from config file ---
	Weights  WeightsRawInput  `mapstructure:"weights"`
	Criteria CriteriaRawInput `mapstructure:"gems"`
}

// WeightsRawInput holds custom scoring weights from the YAML config file.
// Float pointers distinguish "absent" from an explicit zero.
type WeightsRawInput struct {
	Star                 *float64 `mapstructure:"star"`
	RecentActivity       *float64 `mapstructure:"recent_activity"`
	ContributorDiversity *float64 `mapstructure:"contributor_diversity"`
	CodeQuality          *float64 `mapstructure:"code_quality"`
	Documentation        *float64 `mapstructure:"documentation"`
}

// CriteriaRawInput holds hidden-gem gate overrides from the YAML config file.
type CriteriaRawInput struct {
	MaxStars         *int     `mapstructure:"max_stars"`
	MinQualityScore  *float64 `mapstructure:"min_quality_score"`
	MinContributors  *int     `mapstructure:"min_contributors"`
	MaxAgeDays       *int     `mapstructure:"max_age_days"`
	MinReadmeLength  *int     `mapstructure:"min_readme_length"`
	MaxDaysSincePush *int     `mapstructure:"max_days_since_push"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBackends(cfg, input); err != nil {
		return err
	}
	processScoringConfig(cfg, input)
	return nil
}

func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = input.InputPathStr

	cfg.DataDir = input.DataDir
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision
	cfg.Width = input.Width

	cfg.Clustering = input.Clusters
	if input.ClusterCount < 0 {
		return fmt.Errorf("cluster-count cannot be negative (received %d)", input.ClusterCount)
	}
	cfg.ClusterCount = input.ClusterCount
	cfg.ForceRefresh = input.ForceRefresh

	cfg.Policy = schema.OverlapPolicy(strings.ToLower(input.Policy))
	if _, ok := schema.ValidOverlapPolicies[cfg.Policy]; !ok {
		return fmt.Errorf("invalid overlap policy '%s'. must be non-exclusive or exclusive", input.Policy)
	}
	cfg.PreviousName = input.PreviousName

	cfg.EmbedURL = input.EmbedURL
	if cfg.EmbedURL == "" {
		cfg.EmbedURL = DefaultEmbedURL
	}
	cfg.EmbedBatchSize = input.EmbedBatchSize
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = DefaultEmbedBatchSize
	}

	cfg.SimilarLimit = input.SimilarLimit
	if cfg.SimilarLimit <= 0 {
		cfg.SimilarLimit = DefaultSimilarLimit
	}
	if cfg.SimilarLimit > MaxSimilarLimit {
		return fmt.Errorf("similar-limit cannot exceed %d (received %d)", MaxSimilarLimit, cfg.SimilarLimit)
	}

	cfg.CronSpec = input.CronSpec
	if cfg.CronSpec == "" {
		cfg.CronSpec = DefaultCronSpec
	}

	cfg.UseColors = parseBoolish(input.Color, true)
	return nil
}

func processBackends(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, or none", input.CacheBackend)
	}
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, input.CacheDBConnect); err != nil {
		return err
	}
	cfg.CacheDBConnect = input.CacheDBConnect

	// History tracking is opt-in; an empty backend disables it.
	if input.HistoryBackend != "" {
		cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
		if _, ok := schema.ValidCacheBackends[cfg.HistoryBackend]; !ok {
			return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, or none", input.HistoryBackend)
		}
		if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, input.HistoryDBConnect); err != nil {
			return err
		}
		cfg.HistoryDBConnect = input.HistoryDBConnect
	}
	return nil
}

// processScoringConfig merges config-file overrides onto the default scoring
// weights and hidden-gem criteria.
func processScoringConfig(cfg *Config, input *ConfigRawInput) {
	weights := schema.DefaultScoringWeights()
	w := input.Weights
	if w.Star != nil {
		weights.Star = *w.Star
	}
	if w.RecentActivity != nil {
		weights.RecentActivity = *w.RecentActivity
	}
	if w.ContributorDiversity != nil {
		weights.ContributorDiversity = *w.ContributorDiversity
	}
	if w.CodeQuality != nil {
		weights.CodeQuality = *w.CodeQuality
	}
	if w.Documentation != nil {
		weights.Documentation = *w.Documentation
	}
	cfg.Weights = weights

	criteria := schema.DefaultGemCriteria()
	c := input.Criteria
	if c.MaxStars != nil {
		criteria.MaxStars = *c.MaxStars
	}
	if c.MinQualityScore != nil {
		criteria.MinQualityScore = *c.MinQualityScore
	}
	if c.MinContributors != nil {
		criteria.MinContributors = *c.MinContributors
	}
	if c.MaxAgeDays != nil {
		criteria.MaxAgeDays = *c.MaxAgeDays
	}
	if c.MinReadmeLength != nil {
		criteria.MinReadmeLength = *c.MinReadmeLength
	}
	if c.MaxDaysSincePush != nil {
		criteria.MaxDaysSincePush = *c.MaxDaysSincePush
	}
	cfg.Criteria = criteria
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("invalid MySQL connection string. Expected format: user:password@tcp(host:port)/dbname")
		}
		return nil
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("invalid PostgreSQL connection string. Expected key=value pairs or a postgres:// URL")
		}
		return nil
	default:
		return fmt.Errorf("unsupported backend: %s", backend)
	}
}

// parseBoolish interprets yes/no/true/false/1/0 style flag values.
func parseBoolish(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	default:
		return fallback
	}
}
