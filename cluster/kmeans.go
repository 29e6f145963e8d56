package cluster

import (
	"errors"
	"math"
	"math/rand"
)

// Clustering constants. The fixed seed keeps partitions deterministic
// across runs over the same input.
const (
	kmeansSeed     = 42
	kmeansRestarts = 10
	kmeansMaxIter  = 100

	maxSearchK = 15
	fallbackK  = 5 // when no candidate yields a valid silhouette
	minimalK   = 2 // when fewer than 4 items are present
)

// kSearchFailure records one rejected candidate during silhouette search,
// so degenerate clustering inputs can be debugged instead of silently
// falling back.
type kSearchFailure struct {
	K   int
	Err error
}

// chooseK searches k=2..min(15,N-1) for the count maximizing the silhouette
// score. Candidates that collapse to a single cluster or yield an undefined
// silhouette are recorded and skipped.
func chooseK(vectors [][]float32) (int, []kSearchFailure) {
	if len(vectors) < 4 {
		return minimalK, nil
	}

	var failures []kSearchFailure
	bestK := 0
	bestScore := math.Inf(-1)

	maxK := min(maxSearchK, len(vectors)-1)
	for k := 2; k <= maxK; k++ {
		rng := rand.New(rand.NewSource(kmeansSeed))
		labels := kmeans(vectors, k, rng)

		if distinctLabels(labels) < 2 {
			failures = append(failures, kSearchFailure{K: k, Err: errors.New("collapsed to a single cluster")})
			continue
		}

		score := silhouette(vectors, labels)
		if math.IsNaN(score) {
			failures = append(failures, kSearchFailure{K: k, Err: errors.New("silhouette undefined")})
			continue
		}

		if score > bestScore {
			bestScore = score
			bestK = k
		}
	}

	if bestK == 0 {
		return fallbackK, failures
	}
	return bestK, failures
}

// kmeans partitions vectors into k clusters with Lloyd iterations, keeping
// the best of several random restarts by inertia. Returns one label per
// vector.
func kmeans(vectors [][]float32, k int, rng *rand.Rand) []int {
	n := len(vectors)
	if n == 0 || k <= 1 {
		return make([]int, n)
	}
	if k > n {
		k = n
	}

	bestLabels := make([]int, n)
	bestInertia := math.Inf(1)
	for range kmeansRestarts {
		labels, inertia := kmeansOnce(vectors, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			copy(bestLabels, labels)
		}
	}
	return bestLabels
}

func kmeansOnce(vectors [][]float32, k int, rng *rand.Rand) ([]int, float64) {
	n := len(vectors)
	dim := len(vectors[0])

	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = toFloat64(vectors[idx])
	}

	labels := make([]int, n)
	for range kmeansMaxIter {
		changed := false
		for i, v := range vectors {
			best := 0
			bestDist := math.Inf(1)
			for c := range centroids {
				if d := sqDist(v, centroids[c]); d < bestDist {
					best = c
					bestDist = d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range k {
			sums[c] = make([]float64, dim)
		}
		for i, v := range vectors {
			c := labels[i]
			counts[c]++
			for j := range v {
				sums[c][j] += float64(v[j])
			}
		}
		for c := range k {
			if counts[c] == 0 {
				// Reseed an empty cluster to a random point.
				centroids[c] = toFloat64(vectors[rng.Intn(n)])
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			centroids[c] = sums[c]
		}

		if !changed {
			break
		}
	}

	var inertia float64
	for i, v := range vectors {
		inertia += sqDist(v, centroids[labels[i]])
	}
	return labels, inertia
}

// silhouette computes the mean silhouette coefficient over all points.
// Points in singleton clusters score 0. Returns NaN for degenerate input.
func silhouette(vectors [][]float32, labels []int) float64 {
	n := len(vectors)
	if n < 2 || distinctLabels(labels) < 2 {
		return math.NaN()
	}

	// Pairwise distances, symmetric.
	dist := make([][]float64, n)
	for i := range n {
		dist[i] = make([]float64, n)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			d := math.Sqrt(sqDist(vectors[i], toFloat64(vectors[j])))
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	clusterSizes := make(map[int]int)
	for _, l := range labels {
		clusterSizes[l]++
	}

	var total float64
	for i := range n {
		own := labels[i]
		if clusterSizes[own] <= 1 {
			continue // silhouette of a singleton is 0
		}

		// a: mean distance to other members of the same cluster.
		// b: min over other clusters of the mean distance to that cluster.
		sums := make(map[int]float64)
		for j := range n {
			if i == j {
				continue
			}
			sums[labels[j]] += dist[i][j]
		}

		a := sums[own] / float64(clusterSizes[own]-1)
		b := math.Inf(1)
		for l, s := range sums {
			if l == own {
				continue
			}
			if mean := s / float64(clusterSizes[l]); mean < b {
				b = mean
			}
		}

		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(n)
}

func distinctLabels(labels []int) int {
	seen := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func sqDist(v []float32, centroid []float64) float64 {
	var total float64
	for i := range v {
		d := float64(v[i]) - centroid[i]
		total += d * d
	}
	return total
}
