package cluster

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlobs builds two well-separated groups of vectors.
func twoBlobs(sizeA, sizeB int) [][]float32 {
	vectors := make([][]float32, 0, sizeA+sizeB)
	for i := range sizeA {
		vectors = append(vectors, []float32{1.0 + float32(i)*0.01, 0.0, 0.0})
	}
	for i := range sizeB {
		vectors = append(vectors, []float32{0.0, 1.0 + float32(i)*0.01, 0.0})
	}
	return vectors
}

// TestKmeansTwoGroups forces k=2 over two obvious groups and checks that
// same-group vectors land in the same cluster.
func TestKmeansTwoGroups(t *testing.T) {
	vectors := twoBlobs(3, 2)
	rng := rand.New(rand.NewSource(kmeansSeed))
	labels := kmeans(vectors, 2, rng)

	require.Len(t, labels, 5)
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[1], labels[2])
	assert.Equal(t, labels[3], labels[4])
	assert.NotEqual(t, labels[0], labels[3])
}

// TestKmeansDeterminism verifies identical input yields identical labels.
func TestKmeansDeterminism(t *testing.T) {
	vectors := twoBlobs(4, 4)
	first := kmeans(vectors, 2, rand.New(rand.NewSource(kmeansSeed)))
	second := kmeans(vectors, 2, rand.New(rand.NewSource(kmeansSeed)))
	assert.Equal(t, first, second)
}

// TestKmeansDegenerate covers empty input, k<=1 and k>n.
func TestKmeansDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(kmeansSeed))

	assert.Empty(t, kmeans(nil, 2, rng))

	vectors := twoBlobs(2, 1)
	single := kmeans(vectors, 1, rng)
	assert.Equal(t, []int{0, 0, 0}, single)

	oversized := kmeans(vectors, 10, rng)
	assert.Len(t, oversized, 3)
}

// TestSilhouetteSeparation verifies a clean partition scores higher than a
// shuffled one.
func TestSilhouetteSeparation(t *testing.T) {
	vectors := twoBlobs(3, 3)

	clean := silhouette(vectors, []int{0, 0, 0, 1, 1, 1})
	mixed := silhouette(vectors, []int{0, 1, 0, 1, 0, 1})

	assert.False(t, math.IsNaN(clean))
	assert.Greater(t, clean, mixed)
	assert.Greater(t, clean, 0.9) // tight, well-separated blobs
}

// TestSilhouetteDegenerate verifies NaN for single-cluster labelings.
func TestSilhouetteDegenerate(t *testing.T) {
	vectors := twoBlobs(2, 2)
	assert.True(t, math.IsNaN(silhouette(vectors, []int{0, 0, 0, 0})))
	assert.True(t, math.IsNaN(silhouette(vectors[:1], []int{0})))
}

// TestChooseK verifies the silhouette search finds two blobs and that tiny
// inputs fall back to the minimal count.
func TestChooseK(t *testing.T) {
	t.Run("two blobs", func(t *testing.T) {
		k, failures := chooseK(twoBlobs(4, 4))
		assert.Equal(t, 2, k)
		assert.Empty(t, failures)
	})

	t.Run("fewer than four items", func(t *testing.T) {
		k, failures := chooseK(twoBlobs(2, 1))
		assert.Equal(t, minimalK, k)
		assert.Empty(t, failures)
	})
}

// TestCosine checks orthogonal, identical and zero vectors.
func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{2, 0}), 0.0001)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 0.0001)
	assert.Zero(t, cosine([]float32{0, 0}, []float32{1, 1}))
}
