package treatment

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/bimage"
)

// AutoCanny parameters: blur width and the hysteresis cuts as fractions of
// the maximum gradient magnitude.
const (
	cannySigma     = 1.6
	cannyLowRatio  = 0.1
	cannyHighRatio = 0.2
)

// EdgeDetection emits a side-by-side comparison set of edge operators
// computed over the PCA-projected intensity raster.
type EdgeDetection struct {
	// IncludeCanny appends the canny edge mask to the comparison set.
	IncludeCanny bool

	masker *BlackMask
}

// NewEdgeDetection returns an EdgeDetection.
func NewEdgeDetection() *EdgeDetection {
	return &EdgeDetection{masker: NewBlackMask()}
}

// TreatImage downscales the image and returns its greyscale plus the edge
// maps of the five operators over the projected raster.
func (e *EdgeDetection) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	downscaled := bimage.Rescale(img, downscaleFactor)
	out := []*bimage.Image{bimage.GreyToImage(bimage.Grey(downscaled))}

	proj, _, err := projectIntensity(e.masker, downscaled)
	if err != nil {
		return nil, errors.Wrap(err, "edge detection")
	}
	for _, op := range []func(*mat.Dense) (*mat.Dense, error){
		bimage.SobelMagnitude,
		bimage.Laplace,
		bimage.PrewittMagnitude,
		bimage.ScharrMagnitude,
		bimage.RobertsMagnitude,
	} {
		edges, err := op(proj)
		if err != nil {
			return nil, errors.Wrap(err, "edge detection")
		}
		out = append(out, bimage.GreyToImage(edges))
	}

	if e.IncludeCanny {
		edges, err := e.AutoCanny(downscaled)
		if err != nil {
			return nil, errors.Wrap(err, "edge detection")
		}
		out = append(out, bimage.GreyToImage(edges.ToDense()))
	}
	return out, nil
}

// AutoCanny runs the canny detector over the PCA-projected raster of an
// already downscaled image.
func (e *EdgeDetection) AutoCanny(img *bimage.Image) (*bimage.Mask, error) {
	proj, _, err := projectIntensity(e.masker, img)
	if err != nil {
		return nil, err
	}
	return bimage.Canny(proj, cannySigma, cannyLowRatio, cannyHighRatio)
}
