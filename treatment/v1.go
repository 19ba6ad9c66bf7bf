package treatment

import (
	"github.com/pkg/errors"

	"github.com/treelogy/barkseg/bimage"
)

// V1 chains the color-filter clustering and the component-detection
// watershed: both run from scratch on the same input, and a final watershed
// is re-seeded from the clustering's extreme ranks.
type V1 struct {
	// Seed feeds the nested color filter's clustering.
	Seed int64
}

// NewV1 returns a V1.
func NewV1() *V1 {
	return &V1{}
}

// NewV1Seeded returns a V1 with a fixed clustering seed.
func NewV1Seeded(seed int64) *V1 {
	return &V1{Seed: seed}
}

func (v *V1) TreatImage(img *bimage.Image, typ ImageType) ([]*bimage.Image, error) {
	downscaled := bimage.Rescale(img, downscaleFactor)
	out := []*bimage.Image{downscaled}

	ranked, err := NewColorFilterSeeded(v.Seed).RankedClusters(downscaled)
	if err != nil {
		return nil, errors.Wrap(err, "v1 color filter")
	}
	colorStages, err := colorFilterStages(downscaled, ranked)
	if err != nil {
		return nil, errors.Wrap(err, "v1 color filter")
	}
	out = append(out, colorStages[1:len(colorStages)-1]...)

	detector := NewComponentDetection()
	componentStages, err := detector.TreatImage(img, typ)
	if err != nil {
		return nil, errors.Wrap(err, "v1 component detection")
	}
	out = append(out, componentStages[1:]...)

	// seed a final watershed from the clustering's extreme ranks
	seeds := bimage.NewMarkers(ranked.Width(), ranked.Height())
	maxRank, minRank := ranked.Max(), ranked.Min()
	for y := 0; y < ranked.Height(); y++ {
		for x := 0; x < ranked.Width(); x++ {
			switch r := ranked.Get(x, y); {
			case r == minRank:
				seeds.Set(x, y, backgroundLabel)
			case r == maxRank:
				seeds.Set(x, y, barkLabel)
			}
		}
	}
	seeded, err := detector.TreatImageWithMarkers(img, seeds)
	if err != nil {
		return nil, errors.Wrap(err, "v1 seeded watershed")
	}
	return append(out, seeded[2]), nil
}
