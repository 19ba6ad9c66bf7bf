package bimage

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/utils"
)

// LocalEntropy computes the Shannon entropy in bits of the 8-bit quantized
// neighborhood around every pixel. The neighborhood is a disk of the given
// radius clipped to the raster, so border pixels see smaller populations.
// Flat regions score zero; the texture-rich bark face scores high.
func LocalEntropy(m *mat.Dense, radius int) (*mat.Dense, error) {
	if radius < 1 {
		return nil, errors.Errorf("disk radius must be >= 1, got %d", radius)
	}
	h, w := m.Dims()
	bins := make([]uint8, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bins[y*w+x] = uint8(utils.ClampF64(m.At(y, x), 0, 1)*255 + 0.5)
		}
	}

	// horizontal reach of the disk at each vertical offset
	offsets := makeRangeArray(2*radius + 1)
	reach := make([]int, len(offsets))
	for i, dy := range offsets {
		reach[i] = int(math.Sqrt(float64(radius*radius - dy*dy)))
	}

	out := mat.NewDense(h, w, nil)
	utils.ParallelForEachRow(h, func(y int) {
		var hist [256]int
		total := 0
		add := func(x, yy int) {
			if x >= 0 && x < w && yy >= 0 && yy < h {
				hist[bins[yy*w+x]]++
				total++
			}
		}
		del := func(x, yy int) {
			if x >= 0 && x < w && yy >= 0 && yy < h {
				hist[bins[yy*w+x]]--
				total--
			}
		}
		for i, dy := range offsets {
			for dx := -reach[i]; dx <= reach[i]; dx++ {
				add(dx, y+dy)
			}
		}
		out.Set(y, 0, histogramEntropy(&hist, total))
		// slide the disk one column at a time, trading boundary columns
		for x := 1; x < w; x++ {
			for i, dy := range offsets {
				del(x-1-reach[i], y+dy)
				add(x+reach[i], y+dy)
			}
			out.Set(y, x, histogramEntropy(&hist, total))
		}
	})
	return out, nil
}

func histogramEntropy(hist *[256]int, total int) float64 {
	if total == 0 {
		return 0
	}
	e := 0.0
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}
