package segmentation

import (
	"container/heap"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/bimage"
)

// Watershed floods an elevation raster outward from labeled seed pixels,
// always expanding the lowest-elevation frontier pixel first. Flooding is
// 4-connected and confined to the valid mask; ties break in insertion order,
// so the result is deterministic. Label 0 never floods, and valid pixels
// unreachable from any seed keep label 0.
func Watershed(elevation *mat.Dense, seeds *bimage.Markers, valid *bimage.Mask) (*bimage.Markers, error) {
	h, w := elevation.Dims()
	if seeds.Width() != w || seeds.Height() != h {
		return nil, errors.Errorf("seed size (%d,%d) does not match elevation size (%d,%d)",
			seeds.Width(), seeds.Height(), w, h)
	}
	if valid.Width() != w || valid.Height() != h {
		return nil, errors.Errorf("mask size (%d,%d) does not match elevation size (%d,%d)",
			valid.Width(), valid.Height(), w, h)
	}

	out := bimage.NewMarkers(w, h)
	pq := &floodQueue{}
	order := 0
	claim := func(x, y, label int) {
		out.Set(x, y, label)
		heap.Push(pq, &floodItem{x: x, y: y, level: elevation.At(y, x), order: order, label: label})
		order++
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if label := seeds.Get(x, y); label > 0 && valid.Get(x, y) {
				claim(x, y, label)
			}
		}
	}

	deltas := [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	for pq.Len() > 0 {
		it := heap.Pop(pq).(*floodItem)
		for _, d := range deltas {
			nx, ny := it.x+d[0], it.y+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if !valid.Get(nx, ny) || out.Get(nx, ny) != 0 {
				continue
			}
			claim(nx, ny, it.label)
		}
	}
	return out, nil
}

type floodItem struct {
	x, y  int
	level float64
	order int
	label int
}

// floodQueue is a min-heap on elevation with first-in-first-out ties.
type floodQueue []*floodItem

func (q floodQueue) Len() int { return len(q) }

func (q floodQueue) Less(i, j int) bool {
	if q[i].level != q[j].level {
		return q[i].level < q[j].level
	}
	return q[i].order < q[j].order
}

func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *floodQueue) Push(x interface{}) {
	*q = append(*q, x.(*floodItem))
}

func (q *floodQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}
