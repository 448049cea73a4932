// Package cluster groups member vectors into balanced teams and projects
// them to 2-D for force-graph visualization.
package cluster

import (
	"math"
	"math/rand"
)

const maxIterations = 100

// KMeans runs Lloyd's algorithm with Euclidean distance over vectors and
// returns k centroids. Initial centroids are sampled with the given seed, so
// identical inputs reproduce identical centroids.
func KMeans(vectors [][]float32, k int, seed int64) [][]float64 {
	n := len(vectors)
	if n == 0 || k < 1 {
		return nil
	}
	if k > n {
		k = n
	}
	dim := len(vectors[0])

	rng := rand.New(rand.NewSource(seed))
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		c := make([]float64, dim)
		for j, v := range vectors[idx] {
			c[j] = float64(v)
		}
		centroids[i] = c
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, vec := range vectors {
			best := nearestCentroid(vec, centroids)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, vec := range vectors {
			c := assign[i]
			counts[c]++
			for j, v := range vec {
				sums[c][j] += float64(v)
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	return centroids
}

func nearestCentroid(vec []float32, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		d := euclideanSq(vec, centroid)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func euclideanSq(vec []float32, centroid []float64) float64 {
	var sum float64
	for j, v := range vec {
		d := float64(v) - centroid[j]
		sum += d * d
	}
	return sum
}
