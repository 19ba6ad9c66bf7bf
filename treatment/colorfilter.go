package treatment

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/bimage"
	"github.com/treelogy/barkseg/segmentation"
)

const (
	colorClusters = 4
	colorRestarts = 50
)

// ColorFilter clusters pixel colors with k-means and renders the clusters in
// canonical brightest-first rank order. The raw rank raster comes last in the
// output so composite strategies can reuse it as watershed seeds.
type ColorFilter struct {
	// Seed makes the clustering reproducible; zero leaves it time-seeded.
	Seed int64

	clusters int
	restarts int
}

// NewColorFilter returns a ColorFilter.
func NewColorFilter() *ColorFilter {
	return &ColorFilter{clusters: colorClusters, restarts: colorRestarts}
}

// NewColorFilterSeeded returns a ColorFilter with a fixed clustering seed.
func NewColorFilterSeeded(seed int64) *ColorFilter {
	cf := NewColorFilter()
	cf.Seed = seed
	return cf
}

func (c *ColorFilter) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	downscaled := bimage.Rescale(img, downscaleFactor)
	ranked, err := c.RankedClusters(downscaled)
	if err != nil {
		return nil, errors.Wrap(err, "color filter")
	}
	return colorFilterStages(downscaled, ranked)
}

// RankedClusters clusters the given image's colors and returns the per-pixel
// cluster ranks, brightest cluster first (rank 0). Callers downscale first.
func (c *ColorFilter) RankedClusters(img *bimage.Image) (*bimage.Markers, error) {
	cfg := segmentation.ClusterConfig{Clusters: c.clusters, Restarts: c.restarts, Seed: c.Seed}
	markers, centers, err := segmentation.ClusterColors(img, cfg)
	if err != nil {
		return nil, err
	}
	return segmentation.Relabel(markers, segmentation.RankByBrightness(centers))
}

// colorFilterStages renders the rank raster: the downscaled input, its blend
// with the inverted rank view, the inverted rank view alone, and the raw rank
// raster.
func colorFilterStages(downscaled *bimage.Image, ranked *bimage.Markers) ([]*bimage.Image, error) {
	h, w := ranked.Height(), ranked.Width()
	inverted := mat.NewDense(h, w, nil)
	maxRank := float64(ranked.Max())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 1.0
			if maxRank > 0 {
				v = 1 - float64(ranked.Get(x, y))/maxRank
			}
			inverted.Set(y, x, v)
		}
	}
	invertedImg := bimage.GreyToImage(inverted)
	blend, err := bimage.Average(invertedImg, downscaled)
	if err != nil {
		return nil, err
	}
	return []*bimage.Image{downscaled, blend, invertedImg, bimage.GreyToImage(ranked.ToDense(1))}, nil
}
