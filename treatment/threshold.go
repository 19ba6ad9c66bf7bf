package treatment

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/bimage"
	"github.com/treelogy/barkseg/segmentation"
)

// ThresholdMode selects how watershed markers are derived from the projected
// raster.
type ThresholdMode int

const (
	// ThresholdAdaptive compares each pixel against a gaussian-weighted
	// local threshold surface.
	ThresholdAdaptive ThresholdMode = iota
	// ThresholdOtsu uses a single global Otsu cutoff.
	ThresholdOtsu
)

// adaptiveBlockSize is the local-threshold window width.
const adaptiveBlockSize = 35

// Thresholding seeds every valid pixel from a threshold decision and floods
// the sobel edge map from there.
type Thresholding struct {
	Mode ThresholdMode

	masker *BlackMask
}

// NewThresholding returns a Thresholding in adaptive mode.
func NewThresholding() *Thresholding {
	return &Thresholding{masker: NewBlackMask()}
}

func (s *Thresholding) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	downscaled := bimage.Rescale(img, downscaleFactor)
	proj, mask, err := projectIntensity(s.masker, downscaled)
	if err != nil {
		return nil, errors.Wrap(err, "thresholding")
	}

	markers, err := s.markers(proj)
	if err != nil {
		return nil, errors.Wrap(err, "thresholding")
	}
	edges, err := bimage.SobelMagnitude(proj)
	if err != nil {
		return nil, errors.Wrap(err, "thresholding")
	}
	ws, err := segmentation.Watershed(edges, markers.Masked(mask), mask)
	if err != nil {
		return nil, errors.Wrap(err, "thresholding")
	}
	return []*bimage.Image{bimage.GreyToImage(proj), bimage.GreyToImage(ws.ToDense(1))}, nil
}

// markers labels each pixel 2 where the raster clears its threshold and 1
// elsewhere.
func (s *Thresholding) markers(proj *mat.Dense) (*bimage.Markers, error) {
	h, w := proj.Dims()
	markers := bimage.NewMarkers(w, h)
	var above func(x, y int) bool

	switch s.Mode {
	case ThresholdAdaptive:
		surface, err := bimage.AdaptiveThreshold(proj, adaptiveBlockSize)
		if err != nil {
			return nil, err
		}
		above = func(x, y int) bool { return proj.At(y, x) > surface.At(y, x) }
	case ThresholdOtsu:
		cutoff, err := bimage.OtsuMask(proj)
		if err != nil {
			return nil, err
		}
		above = cutoff.Get
	default:
		return nil, errors.Errorf("unknown threshold mode %d", s.Mode)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if above(x, y) {
				markers.Set(x, y, barkLabel)
			} else {
				markers.Set(x, y, backgroundLabel)
			}
		}
	}
	return markers, nil
}
