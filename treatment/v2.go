package treatment

import (
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/bimage"
)

// v2CanvasSize is the square canvas V2 normalizes every image onto before
// trimming.
const v2CanvasSize = 2048

// SpeciesThresholds holds the two marker band pairs calibrated for one wood
// species.
type SpeciesThresholds struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Low2  float64 `json:"low_2"`
	High2 float64 `json:"high_2"`
}

// ThresholdConfig maps a wood species to its marker thresholds.
type ThresholdConfig map[ImageType]SpeciesThresholds

// DefaultThresholds returns the calibrated per-species threshold table.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		"epinette_gelee":     {Low: 0.50, High: 0.65, Low2: 0.4, High2: 0.6},
		"epinette_javel":     {Low: 0.50, High: 0.65, Low2: 0.4, High2: 0.6},
		"epinette_non_gelee": {Low: 0.4, High: 0.58, Low2: 0.5, High2: 1.0},
		"sapin":              {Low: 0.52, High: 0.64, Low2: 0.5, High2: 0.7},
	}
}

// V2 normalizes the image onto a fixed canvas and crops it to its content
// bounds.
type V2 struct {
	// Thresholds drives MarkersForType; the default table covers the four
	// known species.
	Thresholds ThresholdConfig

	trimmer *BlackTrimmer
}

// NewV2 returns a V2 with the default threshold table.
func NewV2() *V2 {
	return &V2{Thresholds: DefaultThresholds(), trimmer: NewBlackTrimmer()}
}

func (v *V2) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	canvas := bimage.ResizeTo(img, v2CanvasSize, v2CanvasSize, resize.Bicubic)
	bounds, err := v.trimmer.MakeTrimmer(canvas)
	if err != nil {
		return nil, errors.Wrap(err, "v2 trim")
	}
	return []*bimage.Image{canvas.Crop(bounds)}, nil
}

// MarkersForType builds the two-tier marker raster for a species: the
// background label below the species' low band, the bark label above its
// high band.
func (v *V2) MarkersForType(grey *mat.Dense, typ ImageType) (*bimage.Markers, error) {
	th, ok := v.Thresholds[typ]
	if !ok {
		return nil, errors.Errorf("no thresholds for image type %q", typ)
	}
	h, w := grey.Dims()
	markers := bimage.NewMarkers(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch g := grey.At(y, x); {
			case g < th.Low:
				markers.Set(x, y, backgroundLabel)
			case g > th.High:
				markers.Set(x, y, barkLabel)
			}
		}
	}
	return markers, nil
}
