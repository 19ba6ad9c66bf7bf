package treatment

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/bimage"
	"github.com/treelogy/barkseg/segmentation"
)

// Marker cuts on the projected raster: values above barkCutoff seed the bark
// label, values below backgroundCutoff seed the background label.
const (
	barkCutoff       = 0.6
	backgroundCutoff = 0.45

	backgroundLabel = 1
	barkLabel       = 2
)

// ComponentDetection segments the projected raster with a marker-controlled
// watershed over its sobel edge map.
type ComponentDetection struct {
	masker *BlackMask
}

// NewComponentDetection returns a ComponentDetection.
func NewComponentDetection() *ComponentDetection {
	return &ComponentDetection{masker: NewBlackMask()}
}

func (c *ComponentDetection) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	downscaled := bimage.Rescale(img, downscaleFactor)
	proj, mask, err := projectIntensity(c.masker, downscaled)
	if err != nil {
		return nil, errors.Wrap(err, "component detection")
	}

	markers := bimage.NewMarkers(downscaled.Width(), downscaled.Height())
	for y := 0; y < downscaled.Height(); y++ {
		for x := 0; x < downscaled.Width(); x++ {
			switch v := proj.At(y, x); {
			case v > barkCutoff:
				markers.Set(x, y, barkLabel)
			case v < backgroundCutoff:
				markers.Set(x, y, backgroundLabel)
			}
		}
	}
	return c.watershedStages(downscaled, proj, markers, mask)
}

// TreatImageWithMarkers runs the same watershed but with externally supplied
// seeds, so a prior strategy's cluster assignment can drive the flooding. The
// markers must match the downscaled size.
func (c *ComponentDetection) TreatImageWithMarkers(img *bimage.Image, markers *bimage.Markers) ([]*bimage.Image, error) {
	downscaled := bimage.Rescale(img, downscaleFactor)
	if markers.Width() != downscaled.Width() || markers.Height() != downscaled.Height() {
		return nil, errors.Errorf("markers are %dx%d but the downscaled image is %dx%d",
			markers.Width(), markers.Height(), downscaled.Width(), downscaled.Height())
	}
	proj, mask, err := projectIntensity(c.masker, downscaled)
	if err != nil {
		return nil, errors.Wrap(err, "component detection")
	}
	return c.watershedStages(downscaled, proj, markers, mask)
}

func (c *ComponentDetection) watershedStages(
	downscaled *bimage.Image,
	proj *mat.Dense,
	markers *bimage.Markers,
	mask *bimage.Mask,
) ([]*bimage.Image, error) {
	edges, err := bimage.SobelMagnitude(proj)
	if err != nil {
		return nil, errors.Wrap(err, "component detection")
	}
	ws, err := segmentation.Watershed(edges, markers.Masked(mask), mask)
	if err != nil {
		return nil, errors.Wrap(err, "component detection")
	}
	wsImg := bimage.GreyToImage(ws.ToDense(0.5))
	blend, err := bimage.Average(downscaled, wsImg)
	if err != nil {
		return nil, err
	}
	return []*bimage.Image{downscaled, blend, wsImg}, nil
}
