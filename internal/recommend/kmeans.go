// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"encoding/binary"
	"math"
	"math/rand"
)

// ClusterModel is the result of one k-means fit.
type ClusterModel struct {
	// Labels holds one cluster label in [0, EffectiveK) per input row.
	Labels []int

	// Centroids holds EffectiveK centroids in normalized feature space.
	Centroids [][]float64

	// EffectiveK is min(K, distinct input rows).
	EffectiveK int

	// Iterations is the number of assign/update rounds of the kept restart.
	Iterations int

	// Inertia is the sum of squared distances to assigned centroids.
	Inertia float64
}

// Empty reports whether the model was fitted on no data.
func (m *ClusterModel) Empty() bool {
	return m == nil || len(m.Labels) == 0
}

// Label returns the label of row i, or -1 when there is none.
func (m *ClusterModel) Label(i int) int {
	if m.Empty() || i < 0 || i >= len(m.Labels) {
		return -1
	}
	return m.Labels[i]
}

// KMeans fits k-means with seeded k-means++ initialization.
type KMeans struct {
	K             int
	MaxIterations int
	Restarts      int
	Seed          int64
}

// NewKMeans creates a k-means fitter from the clustering config and seed.
func NewKMeans(cfg ClusteringConfig, seed int64) *KMeans {
	return &KMeans{
		K:             cfg.K,
		MaxIterations: cfg.MaxIterations,
		Restarts:      cfg.Restarts,
		Seed:          seed,
	}
}

// Fit clusters rows and returns the lowest-inertia model across restarts.
//
// An empty input yields an empty model. When there are fewer distinct rows
// than K, the effective cluster count is reduced to the distinct count.
func (km *KMeans) Fit(rows [][]float64) *ClusterModel {
	if len(rows) == 0 {
		return &ClusterModel{}
	}

	k := km.K
	if distinct := countDistinct(rows); distinct < k {
		k = distinct
	}
	if k < 1 {
		k = 1
	}

	restarts := km.Restarts
	if restarts < 1 {
		restarts = 1
	}
	maxIter := km.MaxIterations
	if maxIter < 1 {
		maxIter = 1
	}

	rng := rand.New(rand.NewSource(km.Seed)) //nolint:gosec // math/rand is fine for centroid seeding

	var best *ClusterModel
	for r := 0; r < restarts; r++ {
		centroids := initCentroidsPlusPlus(rows, k, rng)
		model := lloyd(rows, centroids, maxIter)
		if best == nil || model.Inertia < best.Inertia {
			best = model
		}
	}
	return best
}

// lloyd runs assign/update rounds until labels stop changing or maxIter is hit.
func lloyd(rows, centroids [][]float64, maxIter int) *ClusterModel {
	labels := make([]int, len(rows))
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	for iterations < maxIter {
		iterations++
		changed := false
		for i, row := range rows {
			nearest := nearestCentroid(row, centroids)
			if nearest != labels[i] {
				labels[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}
		recomputeCentroids(rows, labels, centroids)
	}

	inertia := 0.0
	for i, row := range rows {
		inertia += squaredDistance(row, centroids[labels[i]])
	}

	return &ClusterModel{
		Labels:     labels,
		Centroids:  centroids,
		EffectiveK: len(centroids),
		Iterations: iterations,
		Inertia:    inertia,
	}
}

// recomputeCentroids sets each centroid to the mean of its members.
// A cluster with no members keeps its previous centroid.
func recomputeCentroids(rows [][]float64, labels []int, centroids [][]float64) {
	dim := len(rows[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, row := range rows {
		c := labels[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		n := float64(counts[c])
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / n
		}
	}
}

// initCentroidsPlusPlus picks k centroids with k-means++ seeding.
// Rows already chosen have zero weight, so k distinct rows yield k distinct centroids.
func initCentroidsPlusPlus(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(rows)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(rows[rng.Intn(n)]))

	dist := make([]float64, n)
	for i := range dist {
		dist[i] = squaredDistance(rows[i], centroids[0])
	}

	for len(centroids) < k {
		total := 0.0
		for _, d := range dist {
			total += d
		}
		if total == 0 {
			break
		}

		target := rng.Float64() * total
		chosen := -1
		cumulative := 0.0
		for i, d := range dist {
			if d == 0 {
				continue
			}
			chosen = i
			cumulative += d
			if cumulative >= target {
				break
			}
		}

		c := cloneRow(rows[chosen])
		centroids = append(centroids, c)
		for i := range dist {
			if d := squaredDistance(rows[i], c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

// nearestCentroid returns the closest centroid index; ties go to the lower index.
func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for c, centroid := range centroids {
		if d := squaredDistance(row, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func cloneRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}

// countDistinct returns the number of distinct rows by exact bit pattern.
func countDistinct(rows [][]float64) int {
	seen := make(map[string]struct{}, len(rows))
	buf := make([]byte, 0, 8*len(rows[0]))
	for _, row := range rows {
		buf = buf[:0]
		for _, v := range row {
			if v == 0 {
				v = 0 // fold -0 into +0
			}
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		seen[string(buf)] = struct{}{}
	}
	return len(seen)
}
