package bimage

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/utils"
)

const equalizeBins = 256

// EqualizeHist remaps a grey raster through its global intensity histogram so
// the output intensities are spread evenly across [0,1].
func EqualizeHist(m *mat.Dense) *mat.Dense {
	h, w := m.Dims()
	var hist [equalizeBins]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hist[quantizeBin(m.At(y, x))]++
		}
	}
	lut := cdfLookup(&hist, h*w)
	out := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(y, x, lut[quantizeBin(m.At(y, x))])
		}
	}
	return out
}

// Clahe applies contrast-limited adaptive histogram equalization to a grey
// raster. The raster is divided into tilesX x tilesY tiles; each tile's
// histogram is clipped at clipLimit (a fraction of the tile population per
// bin, excess redistributed) before equalization, and every pixel blends the
// lookup tables of its four surrounding tiles bilinearly. Output stays in
// [0,1].
func Clahe(m *mat.Dense, tilesX, tilesY int, clipLimit float64) (*mat.Dense, error) {
	h, w := m.Dims()
	if tilesX < 1 || tilesY < 1 {
		return nil, errors.Errorf("tile grid must be at least 1x1, got %dx%d", tilesX, tilesY)
	}
	if clipLimit <= 0 || clipLimit > 1 {
		return nil, errors.Errorf("clip limit must be in (0,1], got %v", clipLimit)
	}
	if w < tilesX || h < tilesY {
		return nil, errors.Errorf("raster %dx%d smaller than tile grid %dx%d", w, h, tilesX, tilesY)
	}
	tileW := (w + tilesX - 1) / tilesX
	tileH := (h + tilesY - 1) / tilesY

	luts := make([][][]float64, tilesY)
	for ty := 0; ty < tilesY; ty++ {
		luts[ty] = make([][]float64, tilesX)
		for tx := 0; tx < tilesX; tx++ {
			x0, x1 := tx*tileW, utils.MinInt((tx+1)*tileW, w)
			y0, y1 := ty*tileH, utils.MinInt((ty+1)*tileH, h)
			var hist [equalizeBins]int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[quantizeBin(m.At(y, x))]++
				}
			}
			clipHistogram(&hist, (x1-x0)*(y1-y0), clipLimit)
			luts[ty][tx] = cdfLookup(&hist, (x1-x0)*(y1-y0))
		}
	}

	out := mat.NewDense(h, w, nil)
	utils.ParallelForEachRow(h, func(y int) {
		gy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := int(gy)
		if gy < 0 {
			ty0 = -1
		}
		fy := gy - float64(ty0)
		ty1 := utils.MinInt(ty0+1, tilesY-1)
		ty0 = utils.MaxInt(ty0, 0)
		for x := 0; x < w; x++ {
			gx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := int(gx)
			if gx < 0 {
				tx0 = -1
			}
			fx := gx - float64(tx0)
			tx1 := utils.MinInt(tx0+1, tilesX-1)
			tx0 = utils.MaxInt(tx0, 0)

			b := quantizeBin(m.At(y, x))
			top := (1-fx)*luts[ty0][tx0][b] + fx*luts[ty0][tx1][b]
			bottom := (1-fx)*luts[ty1][tx0][b] + fx*luts[ty1][tx1][b]
			out.Set(y, x, (1-fy)*top+fy*bottom)
		}
	})
	return out, nil
}

func quantizeBin(v float64) int {
	return int(utils.ClampF64(v, 0, 1)*(equalizeBins-1) + 0.5)
}

// clipHistogram caps every bin at clipLimit * total and hands the excess back
// to all bins evenly, the redistribution step that bounds contrast gain.
func clipHistogram(hist *[equalizeBins]int, total int, clipLimit float64) {
	limit := utils.MaxInt(1, int(clipLimit*float64(total)))
	excess := 0
	for i, c := range hist {
		if c > limit {
			excess += c - limit
			hist[i] = limit
		}
	}
	if excess == 0 {
		return
	}
	share := excess / equalizeBins
	rem := excess % equalizeBins
	for i := range hist {
		hist[i] += share
		if i < rem {
			hist[i]++
		}
	}
}

func cdfLookup(hist *[equalizeBins]int, total int) []float64 {
	lut := make([]float64, equalizeBins)
	if total == 0 {
		return lut
	}
	cum := 0
	for i, c := range hist {
		cum += c
		lut[i] = float64(cum) / float64(total)
	}
	return lut
}
