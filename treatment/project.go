package treatment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/bimage"
	"github.com/treelogy/barkseg/segmentation"
)

// downscaleFactor is the linear shrink the projection-based strategies apply
// before any per-pixel work.
const downscaleFactor = 1.0 / 8.0

// projectIntensity computes the shared reduction the edge, component, and
// threshold strategies start from: the black mask of the (already downscaled)
// image, and the PCA-projected intensity raster over its valid pixels.
func projectIntensity(masker *BlackMask, img *bimage.Image) (*mat.Dense, *bimage.Mask, error) {
	mask, err := masker.MakeMask(img)
	if err != nil {
		return nil, nil, err
	}
	proj, err := segmentation.ProjectPCA(img, mask)
	if err != nil {
		return nil, nil, err
	}
	return proj, mask, nil
}
