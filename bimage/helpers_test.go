package bimage

import "gonum.org/v1/gonum/mat"

func matFromRows(rows [][]float64) *mat.Dense {
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for y, row := range rows {
		for x, v := range row {
			m.Set(y, x, v)
		}
	}
	return m
}

// stepRaster returns a width x height raster whose columns left of split hold
// lo and the rest hold hi.
func stepRaster(width, height, split int, lo, hi float64) *mat.Dense {
	m := mat.NewDense(height, width, nil)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < split {
				m.Set(y, x, lo)
			} else {
				m.Set(y, x, hi)
			}
		}
	}
	return m
}
