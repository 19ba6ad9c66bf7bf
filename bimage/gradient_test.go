package bimage

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestSobelGradient(t *testing.T) {
	step := stepRaster(8, 8, 4, 0, 1)

	vf, err := SobelGradient(step)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vf.Width(), test.ShouldEqual, 8)
	test.That(t, vf.Height(), test.ShouldEqual, 8)
	test.That(t, vf.MaxMagnitude(), test.ShouldAlmostEqual, 4.0, .0001)

	// the gradient at the step points along +x
	g := vf.GetVec2D(3, 4)
	test.That(t, g.Magnitude(), test.ShouldAlmostEqual, 4.0, .0001)
	test.That(t, g.Direction(), test.ShouldAlmostEqual, 0.0, .0001)

	// far from the step there is no gradient
	test.That(t, vf.GetVec2D(0, 4).Magnitude(), test.ShouldAlmostEqual, 0.0, .0001)

	mags := vf.MagnitudeField()
	h, w := mags.Dims()
	test.That(t, h, test.ShouldEqual, 8)
	test.That(t, w, test.ShouldEqual, 8)
	test.That(t, mags.At(4, 3), test.ShouldAlmostEqual, 4.0, .0001)
}

func TestEdgeMagnitudes(t *testing.T) {
	step := stepRaster(8, 8, 4, 0, 1)
	flat := mat.NewDense(8, 8, nil)

	for _, op := range []func(*mat.Dense) (*mat.Dense, error){
		SobelMagnitude, PrewittMagnitude, ScharrMagnitude, RobertsMagnitude,
	} {
		edges, err := op(step)
		test.That(t, err, test.ShouldBeNil)
		// response peaks at the step and vanishes on the flanks
		test.That(t, edges.At(4, 3), test.ShouldBeGreaterThan, 0.5)
		test.That(t, edges.At(4, 3), test.ShouldBeLessThanOrEqualTo, 1.0001)
		test.That(t, edges.At(4, 0), test.ShouldAlmostEqual, 0.0, .0001)

		quiet, err := op(flat)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, mat.Max(quiet), test.ShouldEqual, 0.0)
	}
}

func TestSobelMagnitudeScale(t *testing.T) {
	step := stepRaster(8, 8, 4, 0, 1)
	edges, err := SobelMagnitude(step)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, edges.At(4, 3), test.ShouldAlmostEqual, 1./math.Sqrt2, .0001)
}

func TestLaplace(t *testing.T) {
	flat := mat.NewDense(6, 6, nil)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			flat.Set(y, x, 0.7)
		}
	}
	out, err := Laplace(flat)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Max(out), test.ShouldAlmostEqual, 0.0, .0001)
	test.That(t, mat.Min(out), test.ShouldAlmostEqual, 0.0, .0001)

	// an isolated bright pixel is a strong negative response at its center
	spike := mat.NewDense(5, 5, nil)
	spike.Set(2, 2, 1)
	out, err = Laplace(spike)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.At(2, 2), test.ShouldAlmostEqual, -4.0, .0001)
	test.That(t, out.At(2, 1), test.ShouldAlmostEqual, 1.0, .0001)
}
