package bimage

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Canny extracts a thin edge mask from a grey raster: gaussian smoothing,
// Sobel gradient, non-maximum suppression along the gradient direction, then
// double-threshold hysteresis. low and high are fractions of the maximum
// gradient magnitude, so the cutoffs track the contrast of the raster.
func Canny(m *mat.Dense, sigma, low, high float64) (*Mask, error) {
	if low < 0 || high > 1 || low > high {
		return nil, errors.Errorf("canny thresholds must satisfy 0 <= low <= high <= 1, got (%v, %v)", low, high)
	}
	blurred := GaussianBlur(m, sigma)
	vf, err := SobelGradient(blurred)
	if err != nil {
		return nil, err
	}
	h, w := m.Dims()
	edges := NewMask(w, h)
	if vf.MaxMagnitude() == 0 {
		return edges, nil
	}

	thin := nonMaximumSuppression(&vf)
	lowCut := low * vf.MaxMagnitude()
	highCut := high * vf.MaxMagnitude()

	// seed from the strong pixels, then grow through connected weak ones
	queue := make([]image.Point, 0, w*h/8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if thin.At(y, x) >= highCut {
				edges.Set(x, y, true)
				queue = append(queue, image.Point{x, y})
			}
		}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h || edges.Get(nx, ny) {
					continue
				}
				if thin.At(ny, nx) >= lowCut {
					edges.Set(nx, ny, true)
					queue = append(queue, image.Point{nx, ny})
				}
			}
		}
	}
	return edges, nil
}

// nonMaximumSuppression zeroes every gradient magnitude that is not a local
// maximum along its own direction, quantized to the four raster axes.
func nonMaximumSuppression(vf *VectorField2D) *mat.Dense {
	w, h := vf.Width(), vf.Height()
	thin := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := vf.GetVec2D(x, y)
			if g.Magnitude() == 0 {
				continue
			}
			dx, dy := neighborOffsets(g.Direction())
			if g.Magnitude() >= magnitudeAt(vf, x+dx, y+dy) &&
				g.Magnitude() >= magnitudeAt(vf, x-dx, y-dy) {
				thin.Set(y, x, g.Magnitude())
			}
		}
	}
	return thin
}

// neighborOffsets maps a gradient direction onto the pair of opposing
// neighbors to compare against. Orientation is taken modulo pi.
func neighborOffsets(direction float64) (int, int) {
	theta := math.Mod(direction, math.Pi)
	switch {
	case theta < math.Pi/8 || theta >= 7*math.Pi/8:
		return 1, 0
	case theta < 3*math.Pi/8:
		return 1, 1
	case theta < 5*math.Pi/8:
		return 0, 1
	default:
		return -1, 1
	}
}

func magnitudeAt(vf *VectorField2D, x, y int) float64 {
	if !vf.Contains(image.Point{x, y}) {
		return 0
	}
	return vf.GetVec2D(x, y).Magnitude()
}
