package treatment

import (
	"testing"

	"go.viam.com/test"
)

func TestEntropyFlat(t *testing.T) {
	img := uniformImage(16, 16, 0.4)
	out, err := NewEntropy().TreatImage(img, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(out), test.ShouldEqual, 6)
	test.That(t, out[0], test.ShouldEqual, img)

	for _, stage := range out[1:] {
		test.That(t, stage.Width(), test.ShouldEqual, 16)
		test.That(t, stage.Height(), test.ShouldEqual, 16)
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				v, _, _ := stage.GetXY(x, y)
				test.That(t, v, test.ShouldEqual, 0.0)
			}
		}
	}
}

func TestEntropyTwoTone(t *testing.T) {
	img := uniformImage(16, 16, 0.8)
	for y := 0; y < 16; y++ {
		for x := 0; x < 8; x++ {
			img.SetXY(x, y, 0.2, 0.2, 0.2)
		}
	}
	out, err := NewEntropy().TreatImage(img, "")
	test.That(t, err, test.ShouldBeNil)

	// an even two-tone neighborhood carries close to one bit
	v, _, _ := out[1].GetXY(8, 8)
	test.That(t, v, test.ShouldBeGreaterThan, 0.9)
	test.That(t, v, test.ShouldBeLessThanOrEqualTo, 1.0)
}
