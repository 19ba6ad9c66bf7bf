// Package segmentation implements the region-finding algorithms the
// treatment strategies compose: PCA intensity projection, marker-controlled
// watershed flooding, color clustering, and connected component labeling.
package segmentation

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/treelogy/barkseg/bimage"
)

// ErrEmptyRegion is returned when an operation is given a mask with no valid
// pixels to work on.
var ErrEmptyRegion = errors.New("no valid pixels in region")

// ProjectPCA reduces the valid pixels of an RGB image to a single intensity
// axis: it fits a one-component PCA over their color vectors, projects every
// valid pixel onto that axis, minmax-scales the projections to [0,1] and
// inverts them, then scatters the result back into a zeroed raster. Invalid
// pixels stay 0. The component sign is canonicalized so that its largest
// coefficient is positive, making the output deterministic.
func ProjectPCA(img *bimage.Image, mask *bimage.Mask) (*mat.Dense, error) {
	w, h := img.Width(), img.Height()
	if mask.Width() != w || mask.Height() != h {
		return nil, errors.Errorf("mask size (%d,%d) does not match image size (%d,%d)",
			mask.Width(), mask.Height(), w, h)
	}
	n := mask.CountValid()
	if n == 0 {
		return nil, ErrEmptyRegion
	}

	samples := mat.NewDense(n, 3, nil)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.Get(x, y) {
				continue
			}
			r, g, b := img.GetXY(x, y)
			samples.SetRow(i, []float64{r, g, b})
			i++
		}
	}

	proj := make([]float64, n)
	if n > 1 {
		var pc stat.PC
		if ok := pc.PrincipalComponents(samples, nil); !ok {
			return nil, errors.New("principal component analysis failed")
		}
		var vec mat.Dense
		pc.VectorsTo(&vec)
		axis := []float64{vec.At(0, 0), vec.At(1, 0), vec.At(2, 0)}
		canonicalizeSign(axis)

		means := columnMeans(samples)
		for j := 0; j < n; j++ {
			row := samples.RawRowView(j)
			proj[j] = (row[0]-means[0])*axis[0] + (row[1]-means[1])*axis[1] + (row[2]-means[2])*axis[2]
		}
	}

	lo, hi := floats.Min(proj), floats.Max(proj)
	span := hi - lo
	out := mat.NewDense(h, w, nil)
	i = 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.Get(x, y) {
				continue
			}
			scaled := 0.0
			if span > 0 {
				scaled = (proj[i] - lo) / span
			}
			out.Set(y, x, 1-scaled)
			i++
		}
	}
	return out, nil
}

// canonicalizeSign flips the axis if its largest-magnitude coefficient is
// negative, removing the SVD sign ambiguity.
func canonicalizeSign(axis []float64) {
	arg := 0
	for i, v := range axis {
		if math.Abs(v) > math.Abs(axis[arg]) {
			arg = i
		}
	}
	if axis[arg] < 0 {
		floats.Scale(-1, axis)
	}
}

func columnMeans(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	means := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		means[j] = floats.Sum(col) / float64(rows)
	}
	return means
}
