package bimage

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestLocalEntropyFlat(t *testing.T) {
	flat := mat.NewDense(12, 12, nil)
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			flat.Set(y, x, 0.4)
		}
	}
	e, err := LocalEntropy(flat, 5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Max(e), test.ShouldEqual, 0.0)
}

func TestLocalEntropyStep(t *testing.T) {
	step := stepRaster(16, 16, 8, 0, 1)

	e, err := LocalEntropy(step, 3)
	test.That(t, err, test.ShouldBeNil)

	// a disk far from the boundary sees one intensity
	test.That(t, e.At(8, 2), test.ShouldEqual, 0.0)
	test.That(t, e.At(8, 13), test.ShouldEqual, 0.0)

	// straddling the boundary it sees a near-even split, close to one bit
	test.That(t, e.At(8, 7), test.ShouldBeGreaterThan, 0.5)
	test.That(t, e.At(8, 7), test.ShouldBeLessThanOrEqualTo, 1.0)
	test.That(t, e.At(8, 8), test.ShouldBeGreaterThan, 0.5)
}

func TestLocalEntropyBadRadius(t *testing.T) {
	_, err := LocalEntropy(mat.NewDense(4, 4, nil), 0)
	test.That(t, err, test.ShouldNotBeNil)
}
