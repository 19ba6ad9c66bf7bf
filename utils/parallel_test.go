package utils

import (
	"image"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestParallelForEachPixel(t *testing.T) {
	const w, h = 97, 43

	var visits [w][h]int32
	var total int64
	ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		atomic.AddInt32(&visits[x][y], 1)
		atomic.AddInt64(&total, 1)
	})

	test.That(t, total, test.ShouldEqual, int64(w*h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			test.That(t, visits[x][y], test.ShouldEqual, int32(1))
		}
	}
}

func TestParallelForEachRow(t *testing.T) {
	const h = 37

	var visits [h]int32
	ParallelForEachRow(h, func(y int) {
		atomic.AddInt32(&visits[y], 1)
	})
	for y := 0; y < h; y++ {
		test.That(t, visits[y], test.ShouldEqual, int32(1))
	}

	// fewer rows than processor threads still covers everything once
	var single [2]int32
	ParallelForEachRow(2, func(y int) {
		atomic.AddInt32(&single[y], 1)
	})
	test.That(t, single[0], test.ShouldEqual, int32(1))
	test.That(t, single[1], test.ShouldEqual, int32(1))
}
