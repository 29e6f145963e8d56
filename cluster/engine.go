package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// fallbackName labels a cluster with no dominant topic.
const fallbackName = "AI/ML"

// embedCacheVersion invalidates cached vectors if the feature extraction
// format ever changes.
const embedCacheVersion = 1

// Engine clusters repositories by semantic similarity of their descriptive
// text. Embedding vectors come from an external embedder and are cached by
// repository ID on durable storage, invalidated only on force-refresh.
type Engine struct {
	embedder     contract.Embedder
	cache        contract.CacheStore // nil disables caching
	batchSize    int
	forceRefresh bool
}

var _ contract.Clusterer = &Engine{}

// NewEngine returns an Engine. The cache store may be nil, in which case
// every run recomputes all embeddings.
func NewEngine(embedder contract.Embedder, cache contract.CacheStore, batchSize int, forceRefresh bool) *Engine {
	if batchSize <= 0 {
		batchSize = contract.DefaultEmbedBatchSize
	}
	return &Engine{
		embedder:     embedder,
		cache:        cache,
		batchSize:    batchSize,
		forceRefresh: forceRefresh,
	}
}

// Cluster partitions the repositories and returns described clusters. When
// count is 0 the cluster count is chosen by silhouette search. Partition
// failure degrades to a single cluster 0 holding everything; only a failed
// embedding batch is returned as an error.
func (e *Engine) Cluster(ctx context.Context, repos []schema.Repository, count int) ([]schema.Cluster, error) {
	if len(repos) == 0 {
		return nil, nil
	}

	embeddings, err := e.embeddings(ctx, repos)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, errors.New("no embeddings produced")
	}

	// Stable ordering keeps the k-means input, and therefore the labels,
	// deterministic.
	ids := make([]int64, 0, len(embeddings))
	for i := range repos {
		if _, ok := embeddings[repos[i].ID]; ok {
			ids = append(ids, repos[i].ID)
		}
	}
	vectors := make([][]float32, len(ids))
	for i, id := range ids {
		vectors[i] = embeddings[id]
	}

	labels := e.partition(vectors, count)

	assignments := make(map[int64]int, len(ids))
	for i, id := range ids {
		assignments[id] = labels[i]
	}

	// Write derived fields back onto the inputs.
	for i := range repos {
		repo := &repos[i]
		if label, ok := assignments[repo.ID]; ok {
			cid := label
			repo.ClusterID = &cid
			repo.Embedding = embeddings[repo.ID]
		}
	}

	return describeClusters(repos, assignments, embeddings), nil
}

// Similar returns the topK repositories most similar to the target by
// cosine similarity of embeddings, excluding the target itself, sorted
// descending.
func (e *Engine) Similar(ctx context.Context, targetID int64, repos []schema.Repository, topK int) ([]schema.SimilarResult, error) {
	embeddings, err := e.embeddings(ctx, repos)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	target, ok := embeddings[targetID]
	if !ok {
		return nil, fmt.Errorf("no embedding for repository %d", targetID)
	}

	results := make([]schema.SimilarResult, 0, len(repos))
	for i := range repos {
		repo := &repos[i]
		if repo.ID == targetID {
			continue
		}
		vec, ok := embeddings[repo.ID]
		if !ok {
			continue
		}
		results = append(results, schema.SimilarResult{
			Repository: *repo,
			Similarity: cosine(target, vec),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// partition runs k-means at the requested or silhouette-chosen count.
// Rejected candidates from the search are logged, not swallowed.
func (e *Engine) partition(vectors [][]float32, count int) []int {
	if len(vectors) < 2 {
		return make([]int, len(vectors))
	}

	k := count
	if k <= 0 {
		var failures []kSearchFailure
		k, failures = chooseK(vectors)
		for _, f := range failures {
			contract.LogWarn(fmt.Sprintf("Rejected cluster count k=%d", f.K), f.Err)
		}
	}
	if k > len(vectors) {
		k = len(vectors)
	}

	rng := rand.New(rand.NewSource(kmeansSeed))
	return kmeans(vectors, k, rng)
}

// embeddings resolves a vector per repository, preferring cached vectors
// unless force-refresh is set. Cache read/write failures are non-fatal and
// default to cold-cache behavior.
func (e *Engine) embeddings(ctx context.Context, repos []schema.Repository) (map[int64][]float32, error) {
	out := make(map[int64][]float32, len(repos))

	missing := make([]int, 0, len(repos))
	for i := range repos {
		repo := &repos[i]
		if !e.forceRefresh && e.cache != nil {
			if vec, ok := e.cachedEmbedding(repo.ID); ok {
				out[repo.ID] = vec
				continue
			}
		}
		if strings.TrimSpace(extractTextFeatures(repo)) != "" {
			missing = append(missing, i)
		}
	}

	for start := 0; start < len(missing); start += e.batchSize {
		end := min(start+e.batchSize, len(missing))
		batch := missing[start:end]

		texts := make([]string, len(batch))
		for i, idx := range batch {
			texts[i] = extractTextFeatures(&repos[idx])
		}

		vectors, err := e.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
		}

		for i, idx := range batch {
			id := repos[idx].ID
			out[id] = vectors[i]
			e.storeEmbedding(id, vectors[i])
		}
	}

	return out, nil
}

func (e *Engine) cachedEmbedding(repoID int64) ([]float32, bool) {
	value, version, _, err := e.cache.Get(embedCacheKey(repoID))
	if err != nil || version != embedCacheVersion {
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(value, &vec); err != nil {
		contract.LogWarn("Discarding corrupt cached embedding", err)
		return nil, false
	}
	return vec, true
}

func (e *Engine) storeEmbedding(repoID int64, vec []float32) {
	if e.cache == nil {
		return
	}
	value, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := e.cache.Set(embedCacheKey(repoID), value, embedCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Embedding cache write failed", err)
	}
}

func embedCacheKey(repoID int64) string {
	return fmt.Sprintf("embed:%d", repoID)
}

// describeClusters tallies topic and language frequencies per cluster and
// builds display names, natural-language descriptions and mean-center
// embeddings.
func describeClusters(repos []schema.Repository, assignments map[int64]int, embeddings map[int64][]float32) []schema.Cluster {
	members := make(map[int][]*schema.Repository)
	for i := range repos {
		repo := &repos[i]
		if label, ok := assignments[repo.ID]; ok {
			members[label] = append(members[label], repo)
		}
	}

	clusters := make([]schema.Cluster, 0, len(members))
	for label, group := range members {
		topics := make([]string, 0)
		languages := make([]string, 0, len(group))
		repoIDs := make([]int64, 0, len(group))
		for _, repo := range group {
			topics = append(topics, repo.Topics...)
			languages = append(languages, repo.Language)
			repoIDs = append(repoIDs, repo.ID)
		}

		topTopics := schema.TopFrequencies(topics, 3)
		topLanguages := schema.TopFrequencies(languages, 2)

		name := fallbackName
		if len(topTopics) > 0 {
			name = fmt.Sprintf("%s Projects", titleTopic(topTopics[0].Name))
		}

		parts := make([]string, 0, 3)
		if len(topTopics) > 0 {
			names := make([]string, len(topTopics))
			for i, t := range topTopics {
				names[i] = t.Name
			}
			parts = append(parts, fmt.Sprintf("Focus areas: %s", strings.Join(names, ", ")))
		}
		if len(topLanguages) > 0 {
			names := make([]string, len(topLanguages))
			for i, l := range topLanguages {
				names[i] = l.Name
			}
			parts = append(parts, fmt.Sprintf("Primary languages: %s", strings.Join(names, ", ")))
		}
		parts = append(parts, fmt.Sprintf("%d repositories", len(group)))

		clusters = append(clusters, schema.Cluster{
			ID:          label,
			Name:        name,
			Description: strings.Join(parts, ". "),
			RepoIDs:     repoIDs,
			Center:      meanEmbedding(repoIDs, embeddings),
			Size:        len(group),
		})
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].ID < clusters[j].ID })
	return clusters
}

// meanEmbedding computes the element-wise mean of member embeddings.
func meanEmbedding(repoIDs []int64, embeddings map[int64][]float32) []float32 {
	var sums []float64
	count := 0
	for _, id := range repoIDs {
		vec, ok := embeddings[id]
		if !ok {
			continue
		}
		if sums == nil {
			sums = make([]float64, len(vec))
		}
		for i, v := range vec {
			sums[i] += float64(v)
		}
		count++
	}
	if count == 0 {
		return nil
	}

	center := make([]float32, len(sums))
	for i, s := range sums {
		center[i] = float32(s / float64(count))
	}
	return center
}

// cosine computes cosine similarity between two vectors.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
