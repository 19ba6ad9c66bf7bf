package utils

import (
	"image"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestClampF64(t *testing.T) {
	test.That(t, ClampF64(0.5, 0, 1), test.ShouldEqual, 0.5)
	test.That(t, ClampF64(-0.5, 0, 1), test.ShouldEqual, 0.0)
	test.That(t, ClampF64(1.5, 0, 1), test.ShouldEqual, 1.0)
}

func TestIntHelpers(t *testing.T) {
	test.That(t, MaxInt(3, 7), test.ShouldEqual, 7)
	test.That(t, MinInt(3, 7), test.ShouldEqual, 3)
	test.That(t, AbsInt(-4), test.ShouldEqual, 4)
	test.That(t, AbsInt(4), test.ShouldEqual, 4)
}

func TestParallelForEachPixel(t *testing.T) {
	var count int64
	ParallelForEachPixel(image.Point{17, 23}, func(x, y int) {
		atomic.AddInt64(&count, 1)
	})
	test.That(t, count, test.ShouldEqual, int64(17*23))
}

func TestParallelForEachRow(t *testing.T) {
	hits := make([]int64, 31)
	ParallelForEachRow(31, func(y int) {
		atomic.AddInt64(&hits[y], 1)
	})
	for y := range hits {
		test.That(t, hits[y], test.ShouldEqual, int64(1))
	}
}
