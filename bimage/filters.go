package bimage

import (
	"math"

	"github.com/ernyoke/imger/threshold"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/utils"
)

// Helper function for convolving matrices together. When used with i, dx := range makeRangeArray(n)
// i is the position within the kernel and dx gives the offset within the raster.
// if length is even, then the origin is to the right of middle i.e. 4 -> {-2, -1, 0, 1}
func makeRangeArray(length int) []int {
	if length <= 0 {
		return make([]int, 0)
	}
	rangeArray := make([]int, length)
	var span int
	if length%2 == 0 {
		oddArr := makeRangeArray(length - 1)
		span = length / 2
		rangeArray = append([]int{-span}, oddArr...)
	} else {
		span = (length - 1) / 2
		for i := 0; i < span; i++ {
			rangeArray[length-1-i] = span - i
			rangeArray[i] = -span + i
		}
	}
	return rangeArray
}

// GaussianFunction1D takes in a sigma and returns a gaussian function useful for weighing averages or blurring.
func GaussianFunction1D(sigma float64) func(p float64) float64 {
	if sigma <= 0. {
		return func(p float64) float64 {
			return 1.
		}
	}
	return func(p float64) float64 {
		return math.Exp(-0.5*math.Pow(p, 2)/math.Pow(sigma, 2)) / (sigma * math.Sqrt(2.*math.Pi))
	}
}

// GaussianKernel1D samples the gaussian at integer offsets out to four sigma
// and normalizes the weights to sum to 1.
func GaussianKernel1D(sigma float64) []float64 {
	gaus := GaussianFunction1D(sigma)
	radius := utils.MaxInt(1, int(4.*sigma+0.5))
	weights := make([]float64, 2*radius+1)
	sum := 0.0
	for i, dx := range makeRangeArray(len(weights)) {
		weights[i] = gaus(float64(dx))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// GaussianBlur smooths a grey raster with a separable gaussian; borders are
// mirrored. A non-positive sigma returns an untouched copy.
func GaussianBlur(m *mat.Dense, sigma float64) *mat.Dense {
	h, w := m.Dims()
	out := mat.NewDense(h, w, nil)
	if sigma <= 0. {
		out.Copy(m)
		return out
	}
	weights := GaussianKernel1D(sigma)
	offsets := makeRangeArray(len(weights))
	horiz := mat.NewDense(h, w, nil)
	utils.ParallelForEachRow(h, func(y int) {
		for x := 0; x < w; x++ {
			sum := 0.0
			for i, dx := range offsets {
				sum += weights[i] * m.At(y, reflectIndex(x+dx, w))
			}
			horiz.Set(y, x, sum)
		}
	})
	utils.ParallelForEachRow(h, func(y int) {
		for x := 0; x < w; x++ {
			sum := 0.0
			for i, dy := range offsets {
				sum += weights[i] * horiz.At(reflectIndex(y+dy, h), x)
			}
			out.Set(y, x, sum)
		}
	})
	return out
}

// AdaptiveThreshold returns the per-pixel threshold surface of a grey raster:
// a gaussian-weighted local mean whose footprint is set by the odd blockSize
// (sigma = (blockSize-1)/6). Pixels above their surface value count as
// foreground, pixels below as background.
func AdaptiveThreshold(m *mat.Dense, blockSize int) (*mat.Dense, error) {
	if blockSize < 3 || blockSize%2 == 0 {
		return nil, errors.Errorf("block size must be an odd integer >= 3, got %d", blockSize)
	}
	sigma := float64(blockSize-1) / 6.
	return GaussianBlur(m, sigma), nil
}

// OtsuMask binarizes a grey raster at the global Otsu cutoff; true marks
// pixels above the cutoff. The raster passes through 8-bit quantization.
func OtsuMask(m *mat.Dense) (*Mask, error) {
	bin, err := threshold.OtsuThreshold(GreyToGoGray(m), threshold.ThreshBinary)
	if err != nil {
		return nil, errors.Wrap(err, "otsu cutoff")
	}
	h, w := m.Dims()
	mask := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask.Set(x, y, bin.GrayAt(x, y).Y > 0)
		}
	}
	return mask, nil
}
