// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
	"github.com/google/uuid"
)

// Embedder turns a batch of texts into fixed-length unit vectors. The call
// has no partial-result contract: either every input gets a vector or the
// batch fails as a whole.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Clusterer groups repositories by embedding similarity. A count of 0 asks
// the implementation to pick the cluster count itself. Implementations write
// cluster IDs and embeddings back onto the input repositories.
type Clusterer interface {
	Cluster(ctx context.Context, repos []schema.Repository, count int) ([]schema.Cluster, error)
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore persists generated leaderboards and serves the most recent
// one as the baseline for rank-delta computation.
type SnapshotStore interface {
	Save(board *schema.Leaderboard) (string, error)
	Load(name string) (*schema.Leaderboard, error)
	// LoadLatest returns (nil, nil) when no snapshot exists yet.
	LoadLatest() (*schema.Leaderboard, error)
}

// HistoryStore records pipeline runs for auditing and export.
type HistoryStore interface {
	BeginRun(startedAt time.Time, params map[string]any) (uuid.UUID, error)
	EndRun(id uuid.UUID, finishedAt time.Time, board *schema.Leaderboard, status string) error
	ListRuns(limit int) ([]schema.RunRecord, error)
	Clear() error
	Close() error
}

// StoreManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetEmbeddingStore() CacheStore
	GetHistoryStore() HistoryStore
	GetSnapshotStore() SnapshotStore
}
