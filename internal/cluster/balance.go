package cluster

import (
	"math"
	"sort"
)

// Rebalance assigns each vector to a cluster so that sizes stay near n/k.
// Members are processed in their original collection order; each goes to its
// nearest centroid with remaining capacity, trying candidates in strictly
// increasing distance order. Caps guarantee every member lands somewhere.
// The floor (target - flex) is advisory only: a single greedy pass cannot
// enforce it.
func Rebalance(vectors [][]float32, centroids [][]float64, tolerance float64) []int {
	n := len(vectors)
	k := len(centroids)
	if n == 0 || k == 0 {
		return nil
	}

	target := n / k
	remainder := n % k
	flex := int(math.Round(tolerance * float64(target)))
	if flex < 1 {
		flex = 1
	}
	caps := make([]int, k)
	for i := range caps {
		caps[i] = target + flex
		if i < remainder {
			caps[i]++
		}
	}

	sizes := make([]int, k)
	assign := make([]int, n)
	order := make([]int, k)
	for i, vec := range vectors {
		for c := range order {
			order[c] = c
		}
		dists := make([]float64, k)
		for c := range centroids {
			dists[c] = euclideanSq(vec, centroids[c])
		}
		sort.SliceStable(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })

		assigned := false
		for _, c := range order {
			if sizes[c] < caps[c] {
				assign[i] = c
				sizes[c]++
				assigned = true
				break
			}
		}
		if !assigned {
			// Sum of caps exceeds n, so this does not happen; guard anyway.
			assign[i] = order[k-1]
			sizes[order[k-1]]++
		}
	}
	return assign
}
