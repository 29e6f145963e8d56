package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/cluster"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/embedding"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/outwriter"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Run statuses recorded in the history store.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ExecutorFunc defines the function signature for executing pipeline commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteGenerate runs the full leaderboard pipeline: load the scraper's
// repository file, score and categorize, persist a snapshot, record the run
// and render results. It serves as the main entry point for 'generate'.
func ExecuteGenerate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	repos, err := contract.LoadRepositories(cfg.InputPath)
	if err != nil {
		return err
	}

	history := mgr.GetHistoryStore()
	var runID uuid.UUID
	if history != nil {
		runID, err = history.BeginRun(start.UTC(), runParams(cfg))
		if err != nil {
			contract.LogWarn("Could not record run start", err)
		}
	}

	gen := NewGenerator(cfg, buildClusterer(cfg, mgr), mgr.GetSnapshotStore())
	board := gen.Generate(ctx, repos)

	if snapshots := mgr.GetSnapshotStore(); snapshots != nil {
		if name, err := snapshots.Save(board); err != nil {
			contract.LogWarn("Could not persist leaderboard snapshot", err)
		} else {
			contract.LogInfo("💾 Saved leaderboard snapshot %s", name)
		}
	}

	if history != nil && runID != uuid.Nil {
		if err := history.EndRun(runID, time.Now().UTC(), board, RunStatusCompleted); err != nil {
			contract.LogWarn("Could not record run completion", err)
		}
	}

	return outwriter.WriteLeaderboardResults(board, cfg, time.Since(start))
}

// GetLeaderboardResults regenerates the leaderboard without persisting a
// snapshot or recording a run. Used by query surfaces such as the MCP server.
func GetLeaderboardResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.Leaderboard, error) {
	repos, err := contract.LoadRepositories(cfg.InputPath)
	if err != nil {
		return nil, err
	}

	gen := NewGenerator(cfg, buildClusterer(cfg, mgr), mgr.GetSnapshotStore())
	return gen.Generate(ctx, repos), nil
}

// ExecuteGems runs hidden-gem detection over the input set and prints
// results. It serves as the main entry point for 'gems'.
func ExecuteGems(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	gems, insights, err := GetGemResults(cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteGemResults(gems, insights, cfg, time.Since(start))
}

// GetGemResults detects hidden gems and aggregates insight statistics.
func GetGemResults(cfg *contract.Config) ([]schema.GemResult, schema.GemInsights, error) {
	repos, err := contract.LoadRepositories(cfg.InputPath)
	if err != nil {
		return nil, schema.GemInsights{}, err
	}

	detector := NewDetector(cfg.Criteria)
	gems := detector.Detect(repos, schema.HiddenGemCap)
	return gems, detector.Insights(gems), nil
}

// ExecuteSimilar finds repositories close to the target in embedding space
// and prints them. It serves as the main entry point for 'similar'.
func ExecuteSimilar(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, targetID int64) error {
	target, results, err := GetSimilarResults(ctx, cfg, mgr, targetID)
	if err != nil {
		return err
	}
	return outwriter.WriteSimilarResults(target, results, cfg)
}

// GetSimilarResults embeds the input set and returns the top matches for the
// target repository by cosine similarity.
func GetSimilarResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, targetID int64) (schema.Repository, []schema.SimilarResult, error) {
	repos, err := contract.LoadRepositories(cfg.InputPath)
	if err != nil {
		return schema.Repository{}, nil, err
	}

	var target *schema.Repository
	for i := range repos {
		if repos[i].ID == targetID {
			target = &repos[i]
			break
		}
	}
	if target == nil {
		return schema.Repository{}, nil, fmt.Errorf("repository %d not found in input set", targetID)
	}

	engine := newClusterEngine(cfg, mgr)
	results, err := engine.Similar(ctx, targetID, repos, cfg.SimilarLimit)
	if err != nil {
		return schema.Repository{}, nil, fmt.Errorf("similarity search failed: %w", err)
	}
	return *target, results, nil
}

// ExecuteSummary prints summary statistics for the most recent (or named)
// persisted leaderboard. It serves as the main entry point for 'summary'.
func ExecuteSummary(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	stats, err := GetSummaryResults(cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteSummaryResults(stats, cfg)
}

// GetSummaryResults loads the rank-delta baseline snapshot and aggregates
// per-category statistics from it.
func GetSummaryResults(cfg *contract.Config, mgr contract.StoreManager) (schema.SummaryStats, error) {
	snapshots := mgr.GetSnapshotStore()
	if snapshots == nil {
		return schema.SummaryStats{}, errors.New("snapshot store is not initialized")
	}

	var board *schema.Leaderboard
	var err error
	if cfg.PreviousName != "" {
		board, err = snapshots.Load(cfg.PreviousName)
	} else {
		board, err = snapshots.LoadLatest()
	}
	if err != nil {
		return schema.SummaryStats{}, fmt.Errorf("could not load leaderboard snapshot: %w", err)
	}
	if board == nil {
		return schema.SummaryStats{}, errors.New("no leaderboard snapshot found; run 'airank generate' first")
	}

	return Summarize(board, NewCalculator(cfg.Weights, cfg.Criteria)), nil
}

// ExecuteSchedule runs the generate pipeline on the configured cron spec
// until the context is cancelled. A failed scheduled run is logged and the
// scheduler keeps going.
func ExecuteSchedule(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	c := cron.New()
	entryID, err := c.AddFunc(cfg.CronSpec, func() {
		contract.LogInfo("⏰ Scheduled leaderboard generation starting")
		if err := ExecuteGenerate(ctx, cfg.Clone(), mgr); err != nil {
			contract.LogWarn("Scheduled generation failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", cfg.CronSpec, err)
	}

	c.Start()
	contract.LogInfo("⏰ Scheduler started with spec %q, next run at %s",
		cfg.CronSpec, c.Entry(entryID).Next.UTC().Format(time.RFC3339))

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

// buildClusterer returns the clustering engine when clustering is enabled,
// nil otherwise. A nil clusterer disables cluster generation entirely.
func buildClusterer(cfg *contract.Config, mgr contract.StoreManager) contract.Clusterer {
	if !cfg.Clustering {
		return nil
	}
	return newClusterEngine(cfg, mgr)
}

// newClusterEngine wires the embedding client and cache into the engine.
func newClusterEngine(cfg *contract.Config, mgr contract.StoreManager) *cluster.Engine {
	embedder := embedding.NewClient(cfg.EmbedURL)
	return cluster.NewEngine(embedder, mgr.GetEmbeddingStore(), cfg.EmbedBatchSize, cfg.ForceRefresh)
}

// runParams captures the configuration recorded alongside each run.
func runParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"input":      cfg.InputPath,
		"workers":    cfg.Workers,
		"policy":     string(cfg.Policy),
		"clustering": cfg.Clustering,
		"output":     string(cfg.Output),
	}
}
