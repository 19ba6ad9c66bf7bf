package segmentation

import (
	"math"
	"math/rand"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/treelogy/barkseg/bimage"
)

// ClusterConfig parameterizes color clustering. Restarts independent runs are
// scored by their within-cluster sum of squared distances and the best one
// wins. A zero Seed leaves the library's time-based initialization in place;
// any other value makes the run reproducible.
type ClusterConfig struct {
	Clusters int   `json:"clusters"`
	Restarts int   `json:"restarts"`
	Seed     int64 `json:"seed"`
}

// Center is an RGB cluster centroid.
type Center []float64

const lloydIterations = 96

// ClusterColors groups every pixel of an image by color with k-means and
// returns the per-pixel cluster indices alongside the cluster centers, in
// the clustering's own arbitrary order. RankByBrightness and Relabel turn
// that order into a canonical one.
func ClusterColors(img *bimage.Image, cfg ClusterConfig) (*bimage.Markers, []Center, error) {
	w, h := img.Width(), img.Height()
	k := cfg.Clusters
	if k < 2 {
		return nil, nil, errors.Errorf("need at least 2 clusters, got %d", k)
	}
	if w*h < k {
		return nil, nil, errors.Errorf("cannot split %d pixels into %d clusters", w*h, k)
	}

	dataset := make(clusters.Observations, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := img.GetXY(x, y)
			dataset = append(dataset, clusters.Coordinates{r, g, b})
		}
	}

	restarts := cfg.Restarts
	if restarts < 1 {
		restarts = 1
	}
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	var best clusters.Clusters
	bestScore := math.Inf(1)
	for i := 0; i < restarts; i++ {
		var cc clusters.Clusters
		var err error
		if rng != nil {
			cc = lloyd(rng, dataset, k)
		} else {
			km := kmeans.New()
			cc, err = km.Partition(dataset, k)
			if err != nil {
				return nil, nil, errors.Wrap(err, "kmeans partition")
			}
		}
		if score := withinClusterSum(cc, dataset); score < bestScore {
			bestScore = score
			best = cc
		}
	}

	markers := bimage.NewMarkers(w, h)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			markers.Set(x, y, nearestCluster(best, dataset[i]))
			i++
		}
	}
	centers := make([]Center, k)
	for j, c := range best {
		centers[j] = append(Center(nil), c.Center...)
	}
	return markers, centers, nil
}

// lloyd is the reproducible counterpart of the library's Partition: the same
// assign/recenter loop over the library's observation types, but every random
// draw comes from the caller's generator.
func lloyd(rng *rand.Rand, dataset clusters.Observations, k int) clusters.Clusters {
	perm := rng.Perm(len(dataset))
	cc := make(clusters.Clusters, k)
	for i := 0; i < k; i++ {
		cc[i] = clusters.Cluster{
			Center: append(clusters.Coordinates(nil), dataset[perm[i]].Coordinates()...),
		}
	}
	assigned := make([]int, len(dataset))
	for i := range assigned {
		assigned[i] = -1
	}
	for iter := 0; iter < lloydIterations; iter++ {
		cc.Reset()
		changed := 0
		for i, obs := range dataset {
			n := nearestCluster(cc, obs)
			if n != assigned[i] {
				assigned[i] = n
				changed++
			}
			cc[n].Append(obs)
		}
		cc.Recenter()
		if changed == 0 {
			break
		}
	}
	return cc
}

// nearestCluster is a zero-distance-safe argmin over cluster centers.
func nearestCluster(cc clusters.Clusters, obs clusters.Observation) int {
	best, bestDist := 0, math.Inf(1)
	for i, cluster := range cc {
		if d := obs.Distance(cluster.Center); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func withinClusterSum(cc clusters.Clusters, dataset clusters.Observations) float64 {
	sum := 0.0
	for _, obs := range dataset {
		sum += obs.Distance(cc[nearestCluster(cc, obs)].Center)
	}
	return sum
}

// RankByBrightness returns, for each center, its position when the centers
// are ordered brightest (largest norm) first. Ties keep the lower original
// index first, so ranking an already ranked set is the identity.
func RankByBrightness(centers []Center) []int {
	idx := make([]int, len(centers))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return floats.Norm(centers[idx[a]], 2) > floats.Norm(centers[idx[b]], 2)
	})
	rank := make([]int, len(centers))
	for pos, orig := range idx {
		rank[orig] = pos
	}
	return rank
}

// Relabel rewrites every marker label through the mapping; the input is left
// untouched.
func Relabel(markers *bimage.Markers, mapping []int) (*bimage.Markers, error) {
	out := bimage.NewMarkers(markers.Width(), markers.Height())
	for y := 0; y < markers.Height(); y++ {
		for x := 0; x < markers.Width(); x++ {
			label := markers.Get(x, y)
			if label < 0 || label >= len(mapping) {
				return nil, errors.Errorf("label %d at (%d,%d) outside mapping of size %d",
					label, x, y, len(mapping))
			}
			out.Set(x, y, mapping[label])
		}
	}
	return out, nil
}

// ReorderCenters applies the rank permutation to the centers themselves, so
// centers and a relabeled raster stay aligned.
func ReorderCenters(centers []Center, rank []int) []Center {
	out := make([]Center, len(centers))
	for i, c := range centers {
		out[rank[i]] = c
	}
	return out
}
