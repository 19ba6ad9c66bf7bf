package bimage

import (
	"gonum.org/v1/gonum/mat"
)

// Mask is a boolean raster; true marks a valid (foreground) pixel. A mask
// always shares the spatial shape of the raster it was computed from.
type Mask struct {
	data          []bool
	width, height int
}

// NewMask returns an all-false mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		data:   make([]bool, width*height),
		width:  width,
		height: height,
	}
}

func (m *Mask) kxy(x, y int) int {
	return (y * m.width) + x
}

func (m *Mask) Width() int {
	return m.width
}

func (m *Mask) Height() int {
	return m.height
}

func (m *Mask) Get(x, y int) bool {
	return m.data[m.kxy(x, y)]
}

func (m *Mask) Set(x, y int, v bool) {
	m.data[m.kxy(x, y)] = v
}

// SetAll sets every pixel to v.
func (m *Mask) SetAll(v bool) {
	for k := range m.data {
		m.data[k] = v
	}
}

// Negate flips every pixel in place, turning a validity mask into its
// invalid-region complement.
func (m *Mask) Negate() {
	for k := range m.data {
		m.data[k] = !m.data[k]
	}
}

// CountValid returns the number of true pixels.
func (m *Mask) CountValid() int {
	n := 0
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.width, m.height)
	copy(out.data, m.data)
	return out
}

// ToDense converts the mask to a grey raster: 1 where valid, 0 elsewhere.
func (m *Mask) ToDense() *mat.Dense {
	out := mat.NewDense(m.height, m.width, nil)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				out.Set(y, x, 1)
			}
		}
	}
	return out
}

// Markers is an integer-labeled raster seeding a watershed transform.
// Label 0 is reserved for unlabeled/background and never floods.
type Markers struct {
	data          []int
	width, height int
}

// NewMarkers returns an all-zero marker raster.
func NewMarkers(width, height int) *Markers {
	return &Markers{
		data:   make([]int, width*height),
		width:  width,
		height: height,
	}
}

func (mk *Markers) kxy(x, y int) int {
	return (y * mk.width) + x
}

func (mk *Markers) Width() int {
	return mk.width
}

func (mk *Markers) Height() int {
	return mk.height
}

func (mk *Markers) Get(x, y int) int {
	return mk.data[mk.kxy(x, y)]
}

func (mk *Markers) Set(x, y, label int) {
	mk.data[mk.kxy(x, y)] = label
}

// Max returns the largest label present, 0 for an empty raster.
func (mk *Markers) Max() int {
	max := 0
	for _, v := range mk.data {
		if v > max {
			max = v
		}
	}
	return max
}

// Min returns the smallest label present, 0 for an empty raster.
func (mk *Markers) Min() int {
	if len(mk.data) == 0 {
		return 0
	}
	min := mk.data[0]
	for _, v := range mk.data {
		if v < min {
			min = v
		}
	}
	return min
}

// Clone returns a deep copy.
func (mk *Markers) Clone() *Markers {
	out := NewMarkers(mk.width, mk.height)
	copy(out.data, mk.data)
	return out
}

// Masked returns a copy with every label outside the valid mask zeroed; the
// receiver is left untouched.
func (mk *Markers) Masked(valid *Mask) *Markers {
	out := mk.Clone()
	for y := 0; y < mk.height; y++ {
		for x := 0; x < mk.width; x++ {
			if !valid.Get(x, y) {
				out.Set(x, y, 0)
			}
		}
	}
	return out
}

// ToDense converts labels to a grey raster, multiplying each label by scale.
// Watershed consumers pass 0.5 to map the {0,1,2} alphabet onto {0,0.5,1}.
func (mk *Markers) ToDense(scale float64) *mat.Dense {
	out := mat.NewDense(mk.height, mk.width, nil)
	for y := 0; y < mk.height; y++ {
		for x := 0; x < mk.width; x++ {
			out.Set(y, x, float64(mk.Get(x, y))*scale)
		}
	}
	return out
}
