package treatment

import (
	"image"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/treelogy/barkseg/bimage"
)

// Near-black exclusion cuts. A pixel is invalid when its grey intensity falls
// below DarknessThreshold; an entire scan line is invalid when its mean grey
// intensity falls below RowMeanThreshold, even where individual pixels pass
// the pointwise cut. The row cut handles sensor letterboxing.
const (
	DarknessThreshold = 0.15
	RowMeanThreshold  = 0.1
)

// BlackMask computes a validity mask excluding near-black background pixels
// and near-black scan lines from an image.
type BlackMask struct{}

// NewBlackMask returns a BlackMask.
func NewBlackMask() *BlackMask {
	return &BlackMask{}
}

// MakeMask returns the valid-pixel mask of the image.
func (b *BlackMask) MakeMask(img *bimage.Image) (*bimage.Mask, error) {
	grey := bimage.Grey(img)
	rowMeans, err := bimage.RowMeans(grey)
	if err != nil {
		return nil, err
	}
	mask := bimage.NewMask(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		if rowMeans[y] < RowMeanThreshold {
			continue
		}
		for x := 0; x < img.Width(); x++ {
			mask.Set(x, y, grey.At(y, x) >= DarknessThreshold)
		}
	}
	return mask, nil
}

// TreatImage pairs the original with its greyscale view, invalid pixels
// zeroed out.
func (b *BlackMask) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	mask, err := b.MakeMask(img)
	if err != nil {
		return nil, err
	}
	grey := bimage.Grey(img)
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if !mask.Get(x, y) {
				grey.Set(y, x, 0)
			}
		}
	}
	return []*bimage.Image{img, bimage.GreyToImage(grey)}, nil
}

// BlackFilter pairs the original with a copy whose invalid pixels are painted
// with an out-of-band white fill.
type BlackFilter struct {
	masker *BlackMask
}

// NewBlackFilter returns a BlackFilter.
func NewBlackFilter() *BlackFilter {
	return &BlackFilter{masker: NewBlackMask()}
}

func (b *BlackFilter) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	filtered, err := b.RemoveBlackRegions(img)
	if err != nil {
		return nil, err
	}
	return []*bimage.Image{img, filtered}, nil
}

// RemoveBlackRegions returns a copy of the image with every invalid pixel
// painted white. The original is left untouched.
func (b *BlackFilter) RemoveBlackRegions(img *bimage.Image) (*bimage.Image, error) {
	mask, err := b.masker.MakeMask(img)
	if err != nil {
		return nil, err
	}
	out := img.Clone()
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if !mask.Get(x, y) {
				out.SetXY(x, y, 1, 1, 1)
			}
		}
	}
	return out, nil
}

// Content-coverage cuts for border trimming: a pixel counts as content when
// its summed channels exceed trimDarkCutoff, and a row or column is kept when
// more than trimCoverage of its pixels are content.
const (
	trimDarkCutoff = 1e-3
	trimCoverage   = 0.85
)

// BlackTrimmer finds the content bounds of an image with near-black borders.
// It has no standalone treatment; calling TreatImage on it is a programming
// error.
type BlackTrimmer struct {
	Unimplemented
}

// NewBlackTrimmer returns a BlackTrimmer.
func NewBlackTrimmer() *BlackTrimmer {
	return &BlackTrimmer{}
}

// MakeTrimmer returns the rectangle spanning every row and column with
// enough content coverage. An image with no such row or column keeps its
// full bounds.
func (t *BlackTrimmer) MakeTrimmer(img *bimage.Image) (image.Rectangle, error) {
	w, h := img.Width(), img.Height()
	content := func(x, y int) float64 {
		r, g, b := img.GetXY(x, y)
		if r+g+b > trimDarkCutoff {
			return 1
		}
		return 0
	}

	rowCover := make([]float64, h)
	line := make([]float64, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			line[x] = content(x, y)
		}
		mean, err := stats.Mean(stats.Float64Data(line))
		if err != nil {
			return image.Rectangle{}, errors.Wrap(err, "row coverage")
		}
		rowCover[y] = mean
	}

	colCover := make([]float64, w)
	column := make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			column[y] = content(x, y)
		}
		mean, err := stats.Mean(stats.Float64Data(column))
		if err != nil {
			return image.Rectangle{}, errors.Wrap(err, "column coverage")
		}
		colCover[x] = mean
	}

	y0, y1 := coverageSpan(rowCover)
	x0, x1 := coverageSpan(colCover)
	return image.Rect(x0, y0, x1+1, y1+1), nil
}

// coverageSpan returns the first and last index whose coverage clears the
// cut; a span with no such index keeps the full range.
func coverageSpan(cover []float64) (int, int) {
	first, last := 0, len(cover)-1
	for i, c := range cover {
		if c > trimCoverage {
			first = i
			break
		}
	}
	for i := len(cover) - 1; i >= 0; i-- {
		if cover[i] > trimCoverage {
			last = i
			break
		}
	}
	return first, last
}
