package bimage

import (
	"image"
	"image/color"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/utils"
)

// Grey rasters are *mat.Dense with rows indexed by y and columns by x.

// Luminance weights, the same ITU BT.709-derived triplet scikit-image uses
// for its rgb2grey conversion.
const (
	lumaR = 0.2125
	lumaG = 0.7154
	lumaB = 0.0721
)

// Grey collapses an RGB image to a luminance raster.
func Grey(img *Image) *mat.Dense {
	h, w := img.Height(), img.Width()
	out := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := img.GetXY(x, y)
			out.Set(y, x, lumaR*r+lumaG*g+lumaB*b)
		}
	}
	return out
}

// GreyToImage broadcasts a grey raster into all three channels.
func GreyToImage(m *mat.Dense) *Image {
	h, w := m.Dims()
	out := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := m.At(y, x)
			out.SetXY(x, y, v, v, v)
		}
	}
	return out
}

// GreyToGoGray quantizes a grey raster into an 8-bit stdlib image, the
// interchange format for libraries that binarize uint8 luminance.
func GreyToGoGray(m *mat.Dense) *image.Gray {
	h, w := m.Dims()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetGray(x, y, color.Gray{Y: uint8(utils.ClampF64(m.At(y, x), 0, 1)*255.0 + 0.5)})
		}
	}
	return out
}

// RowMeans returns the mean intensity of every row of a grey raster.
func RowMeans(m *mat.Dense) ([]float64, error) {
	h, _ := m.Dims()
	means := make([]float64, h)
	for y := 0; y < h; y++ {
		mean, err := stats.Mean(stats.Float64Data(m.RawRowView(y)))
		if err != nil {
			return nil, errors.Wrapf(err, "cannot take the mean of row %d", y)
		}
		means[y] = mean
	}
	return means, nil
}

// ColMeans returns the mean intensity of every column of a grey raster.
func ColMeans(m *mat.Dense) ([]float64, error) {
	h, w := m.Dims()
	means := make([]float64, w)
	col := make([]float64, h)
	for x := 0; x < w; x++ {
		mat.Col(col, x, m)
		mean, err := stats.Mean(stats.Float64Data(col))
		if err != nil {
			return nil, errors.Wrapf(err, "cannot take the mean of column %d", x)
		}
		means[x] = mean
	}
	return means, nil
}
