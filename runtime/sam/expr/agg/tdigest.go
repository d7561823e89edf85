package agg

import (
	"slices"
	"sort"
)

type centroid struct {
	mean   float64
	weight float64
}

// TDigest is a merging t-digest.  Values are buffered as unit centroids
// and merged into the sorted centroid list when queried.  The list is
// compressed under the k2 scale function whenever it grows past ten
// times the compression parameter.
type TDigest struct {
	compression float64
	centroids   []centroid
	buffer      []centroid
	total       float64
}

func NewTDigest(compression float64) *TDigest {
	return &TDigest{compression: compression}
}

func (t *TDigest) Add(x, weight float64) {
	t.buffer = append(t.buffer, centroid{x, weight})
	t.total += weight
	if float64(len(t.centroids)+len(t.buffer)) > 10*t.compression {
		t.compress()
	}
}

// Count returns the total weight added.
func (t *TDigest) Count() float64 {
	return t.total
}

// Centroids returns the number of centroids after merging buffered values.
func (t *TDigest) Centroids() int {
	t.flush()
	return len(t.centroids)
}

// k2 is the scale function.
func k2(q float64) float64 {
	if q <= 0.5 {
		return 2 * q * q
	}
	return 1 - 2*(1-q)*(1-q)
}

func byMean(a, b centroid) int {
	switch {
	case a.mean < b.mean:
		return -1
	case a.mean > b.mean:
		return 1
	}
	return 0
}

// flush merges the buffer into the sorted centroid list without
// combining centroids.
func (t *TDigest) flush() {
	if len(t.buffer) == 0 {
		return
	}
	slices.SortStableFunc(t.buffer, byMean)
	merged := make([]centroid, 0, len(t.centroids)+len(t.buffer))
	i, j := 0, 0
	for i < len(t.centroids) && j < len(t.buffer) {
		if t.buffer[j].mean < t.centroids[i].mean {
			merged = append(merged, t.buffer[j])
			j++
		} else {
			merged = append(merged, t.centroids[i])
			i++
		}
	}
	merged = append(merged, t.centroids[i:]...)
	merged = append(merged, t.buffer[j:]...)
	t.centroids = merged
	t.buffer = t.buffer[:0]
}

// compress merges adjacent centroids while the k2 distance spanned by the
// merged centroid stays within 1/compression.
func (t *TDigest) compress() {
	t.flush()
	if len(t.centroids) < 2 {
		return
	}
	limit := 1 / t.compression
	out := t.centroids[:1]
	var before float64
	for _, c := range t.centroids[1:] {
		cur := &out[len(out)-1]
		qLeft := before / t.total
		qRight := (before + cur.weight + c.weight) / t.total
		if k2(qRight)-k2(qLeft) <= limit {
			w := cur.weight + c.weight
			cur.mean += (c.mean - cur.mean) * c.weight / w
			cur.weight = w
			continue
		}
		before += cur.weight
		out = append(out, c)
	}
	t.centroids = out
}

// Quantile returns the estimated value at quantile q in [0,1].  Each
// centroid stands at the midpoint of its weight in the cumulative
// distribution and the result interpolates linearly between the two
// centroids surrounding the target rank.
func (t *TDigest) Quantile(q float64) float64 {
	t.flush()
	n := len(t.centroids)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return t.centroids[0].mean
	}
	centers := make([]float64, n)
	var cum float64
	for k, c := range t.centroids {
		centers[k] = cum + c.weight/2
		cum += c.weight
	}
	target := q * t.total
	if target <= centers[0] {
		return t.centroids[0].mean
	}
	if target >= centers[n-1] {
		return t.centroids[n-1].mean
	}
	k := sort.SearchFloat64s(centers, target)
	if centers[k] == target {
		return t.centroids[k].mean
	}
	lo, hi := t.centroids[k-1], t.centroids[k]
	frac := (target - centers[k-1]) / (centers[k] - centers[k-1])
	return lo.mean + frac*(hi.mean-lo.mean)
}
