package treatment

import (
	"testing"

	"go.viam.com/test"
)

func TestIdentity(t *testing.T) {
	img := uniformImage(16, 16, 0.3)
	out, err := NewIdentity().TreatImage(img, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(out), test.ShouldEqual, 1)
	test.That(t, out[0], test.ShouldEqual, img)
}

func TestGreyMethod(t *testing.T) {
	img := uniformImage(8, 8, 0)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetXY(x, y, 0.2, 0.4, 0.6)
		}
	}
	out, err := NewGrey().TreatImage(img, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(out), test.ShouldEqual, 1)

	r, g, b := out[0].GetXY(3, 3)
	test.That(t, r, test.ShouldAlmostEqual, 0.37192, 0.0001)
	test.That(t, g, test.ShouldEqual, r)
	test.That(t, b, test.ShouldEqual, r)
}

func TestUpsampling(t *testing.T) {
	img := uniformImage(8, 6, 0.5)
	out, err := NewUpsampling().TreatImage(img, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(out), test.ShouldEqual, 1)
	test.That(t, out[0].Width(), test.ShouldEqual, 32)
	test.That(t, out[0].Height(), test.ShouldEqual, 24)

	r, _, _ := out[0].GetXY(16, 12)
	test.That(t, r, test.ShouldAlmostEqual, 0.5, 0.001)
}

func TestEqualizer(t *testing.T) {
	img := uniformImage(64, 64, 0)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := 0.3 + 0.4*float64(x)/63
			img.SetXY(x, y, v, v, v)
		}
	}
	out, err := NewEqualizer().TreatImage(img, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(out), test.ShouldEqual, 1)
	test.That(t, out[0].Width(), test.ShouldEqual, 64)
	test.That(t, out[0].Height(), test.ShouldEqual, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			r, _, _ := out[0].GetXY(x, y)
			test.That(t, r, test.ShouldBeGreaterThanOrEqualTo, 0.0)
			test.That(t, r, test.ShouldBeLessThanOrEqualTo, 1.0)
		}
	}
}
