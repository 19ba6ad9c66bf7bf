package bimage

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/utils"
)

// Kernel is a 2 dimensional matrix used for convolution, stored row-major.
type Kernel struct {
	Content [][]float64
	Width   int
	Height  int
}

// At returns the kernel entry at column x, row y.
func (k *Kernel) At(x, y int) float64 {
	return k.Content[y][x]
}

// Size returns the kernel dimensions as a point.
func (k *Kernel) Size() image.Point {
	return image.Point{k.Width, k.Height}
}

// Normalize scales the kernel in place so its entries sum to 1. Kernels whose
// entries sum to 0 (differencing kernels) are left untouched.
func (k *Kernel) Normalize() {
	sum := 0.0
	for y := 0; y < k.Height; y++ {
		for x := 0; x < k.Width; x++ {
			sum += k.Content[y][x]
		}
	}
	if sum == 0 {
		return
	}
	for y := 0; y < k.Height; y++ {
		for x := 0; x < k.Width; x++ {
			k.Content[y][x] /= sum
		}
	}
}

// GetSobelX returns the Kernel corresponding to the Sobel kernel in the x direction.
func GetSobelX() Kernel {
	return Kernel{[][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	},
		3,
		3,
	}
}

// GetSobelY returns the Kernel corresponding to the Sobel kernel in the y direction.
func GetSobelY() Kernel {
	return Kernel{[][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	},
		3,
		3,
	}
}

// GetPrewittX returns the Kernel corresponding to the Prewitt kernel in the x direction.
func GetPrewittX() Kernel {
	return Kernel{[][]float64{
		{-1, 0, 1},
		{-1, 0, 1},
		{-1, 0, 1},
	},
		3,
		3,
	}
}

// GetPrewittY returns the Kernel corresponding to the Prewitt kernel in the y direction.
func GetPrewittY() Kernel {
	return Kernel{[][]float64{
		{-1, -1, -1},
		{0, 0, 0},
		{1, 1, 1},
	},
		3,
		3,
	}
}

// GetScharrX returns the Kernel corresponding to the Scharr kernel in the x direction.
func GetScharrX() Kernel {
	return Kernel{[][]float64{
		{-3, 0, 3},
		{-10, 0, 10},
		{-3, 0, 3},
	},
		3,
		3,
	}
}

// GetScharrY returns the Kernel corresponding to the Scharr kernel in the y direction.
func GetScharrY() Kernel {
	return Kernel{[][]float64{
		{-3, -10, -3},
		{0, 0, 0},
		{3, 10, 3},
	},
		3,
		3,
	}
}

// GetRobertsX returns the positive-diagonal Roberts cross kernel.
func GetRobertsX() Kernel {
	return Kernel{[][]float64{
		{1, 0},
		{0, -1},
	},
		2,
		2,
	}
}

// GetRobertsY returns the negative-diagonal Roberts cross kernel.
func GetRobertsY() Kernel {
	return Kernel{[][]float64{
		{0, 1},
		{-1, 0},
	},
		2,
		2,
	}
}

// GetLaplacian returns the 3x3 discrete Laplacian kernel.
func GetLaplacian() Kernel {
	return Kernel{[][]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	},
		3,
		3,
	}
}

// BorderPad selects how pixels beyond the raster edge are synthesized
// during convolution.
type BorderPad int

const (
	// BorderConstant pads with zeros.
	BorderConstant BorderPad = iota
	// BorderReplicate repeats the edge pixel.
	BorderReplicate
	// BorderReflect mirrors the raster about its edge, edge pixel included.
	BorderReflect
)

// kernelAnchor is the center cell for odd kernels; for even kernels the
// origin sits above-left of middle.
func kernelAnchor(size image.Point) image.Point {
	return image.Point{(size.X - 1) / 2, (size.Y - 1) / 2}
}

func reflectIndex(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}

// PaddingFloat64 returns a copy of m grown by the kernel's reach on every
// side, filled according to the border mode.
func PaddingFloat64(m *mat.Dense, kernelSize, anchor image.Point, border BorderPad) (*mat.Dense, error) {
	h, w := m.Dims()
	if kernelSize.X <= 0 || kernelSize.Y <= 0 {
		return nil, errors.Errorf("kernel size must be positive, got (%d, %d)", kernelSize.X, kernelSize.Y)
	}
	if anchor.X < 0 || anchor.Y < 0 || anchor.X >= kernelSize.X || anchor.Y >= kernelSize.Y {
		return nil, errors.Errorf("anchor (%d, %d) outside kernel of size (%d, %d)", anchor.X, anchor.Y, kernelSize.X, kernelSize.Y)
	}
	padLeft, padTop := anchor.X, anchor.Y
	padRight, padBottom := kernelSize.X-anchor.X-1, kernelSize.Y-anchor.Y-1
	padded := mat.NewDense(h+padTop+padBottom, w+padLeft+padRight, nil)
	pH, pW := padded.Dims()
	for y := 0; y < pH; y++ {
		for x := 0; x < pW; x++ {
			sx, sy := x-padLeft, y-padTop
			switch border {
			case BorderConstant:
				if sx < 0 || sy < 0 || sx >= w || sy >= h {
					continue
				}
			case BorderReplicate:
				sx = utils.MinInt(utils.MaxInt(sx, 0), w-1)
				sy = utils.MinInt(utils.MaxInt(sy, 0), h-1)
			case BorderReflect:
				sx = reflectIndex(sx, w)
				sy = reflectIndex(sy, h)
			default:
				return nil, errors.Errorf("unknown border mode %d", border)
			}
			padded.Set(y, x, m.At(sy, sx))
		}
	}
	return padded, nil
}

// ConvolveGrayFloat64 implements a gray float64 image convolution with the
// Kernel filter. Borders are mirrored and there is no clamping.
func ConvolveGrayFloat64(m *mat.Dense, filter *Kernel) (*mat.Dense, error) {
	h, w := m.Dims()
	result := mat.NewDense(h, w, nil)
	kernelSize := filter.Size()
	padded, err := PaddingFloat64(m, kernelSize, kernelAnchor(kernelSize), BorderReflect)
	if err != nil {
		return nil, err
	}

	utils.ParallelForEachPixel(image.Point{w, h}, func(x int, y int) {
		sum := float64(0)
		for ky := 0; ky < kernelSize.Y; ky++ {
			for kx := 0; kx < kernelSize.X; kx++ {
				pixel := padded.At(y+ky, x+kx)
				kE := filter.At(kx, ky)
				sum += pixel * kE
			}
		}
		result.Set(y, x, sum)
	})
	return result, nil
}
