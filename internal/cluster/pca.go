package cluster

import (
	"math"

	"github.com/williamtribe/2025FAREWELLPARTY/pkg/utils"
)

const powerIterations = 50

// ProjectPCA projects vectors onto their first two principal components via
// power iteration with deflation, then rescales each axis independently to
// [-200, 200]. An axis with zero spread is pinned to 0 for every point.
// The projection is for visualization only and never influences assignment.
func ProjectPCA(vectors [][]float32) (xs, ys []float64) {
	n := len(vectors)
	if n == 0 {
		return nil, nil
	}
	dim := len(vectors[0])

	// Mean-center.
	mean := make([]float64, dim)
	for _, vec := range vectors {
		for j, v := range vec {
			mean[j] += float64(v)
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	centered := make([][]float64, n)
	for i, vec := range vectors {
		row := make([]float64, dim)
		for j, v := range vec {
			row[j] = float64(v) - mean[j]
		}
		centered[i] = row
	}

	pc1 := principalComponent(centered, nil)
	pc2 := principalComponent(centered, pc1)

	xs = make([]float64, n)
	ys = make([]float64, n)
	for i, row := range centered {
		xs[i] = dot(row, pc1)
		ys[i] = dot(row, pc2)
	}
	utils.MinMaxScale(xs, -200, 200)
	utils.MinMaxScale(ys, -200, 200)
	return xs, ys
}

// principalComponent finds the dominant eigenvector of the covariance of
// rows by power iteration. When deflate is non-nil, components along it are
// removed each step, yielding the next component. The starting vector is
// fixed so repeated runs on the same input agree.
func principalComponent(rows [][]float64, deflate []float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	dim := len(rows[0])
	v := make([]float64, dim)
	for j := range v {
		v[j] = 1 / float64(j+1)
	}
	normalize(v)
	if deflate != nil {
		removeComponent(v, deflate)
		normalize(v)
	}

	next := make([]float64, dim)
	for iter := 0; iter < powerIterations; iter++ {
		// next = Cov * v computed as sum of row * (row . v), avoiding the
		// dim x dim covariance matrix.
		for j := range next {
			next[j] = 0
		}
		for _, row := range rows {
			p := dot(row, v)
			for j, r := range row {
				next[j] += r * p
			}
		}
		if deflate != nil {
			removeComponent(next, deflate)
		}
		if !normalize(next) {
			break
		}
		copy(v, next)
	}
	return v
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize scales v to unit length in place. Returns false for a zero vector.
func normalize(v []float64) bool {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return false
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
	return true
}

// removeComponent subtracts from v its projection onto unit vector u.
func removeComponent(v, u []float64) {
	p := dot(v, u)
	for i := range v {
		v[i] -= p * u[i]
	}
}
