package treatment

import (
	"github.com/pkg/errors"

	"github.com/treelogy/barkseg/bimage"
)

// entropyRadii are the disk radii of the multi-scale texture descriptor set.
var entropyRadii = []int{10, 12, 15, 20, 25}

// Entropy returns the original image plus local-entropy maps over growing
// disk neighborhoods.
type Entropy struct{}

// NewEntropy returns an Entropy.
func NewEntropy() *Entropy {
	return &Entropy{}
}

func (Entropy) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	grey := bimage.Grey(img)
	out := []*bimage.Image{img}
	for _, r := range entropyRadii {
		filtered, err := bimage.LocalEntropy(grey, r)
		if err != nil {
			return nil, errors.Wrapf(err, "entropy radius %d", r)
		}
		out = append(out, bimage.GreyToImage(filtered))
	}
	return out, nil
}
