package segmentation

import (
	"testing"

	"go.viam.com/test"

	"github.com/treelogy/barkseg/bimage"
)

func twoToneImage(width, height, split int, lo, hi float64) *bimage.Image {
	img := bimage.NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := lo
			if x >= split {
				v = hi
			}
			img.SetXY(x, y, v, v, v)
		}
	}
	return img
}

func fullMask(width, height int) *bimage.Mask {
	m := bimage.NewMask(width, height)
	m.SetAll(true)
	return m
}

func TestProjectPCA(t *testing.T) {
	img := twoToneImage(8, 8, 4, 0.1, 0.9)
	mask := fullMask(8, 8)

	proj, err := ProjectPCA(img, mask)
	test.That(t, err, test.ShouldBeNil)
	h, w := proj.Dims()
	test.That(t, h, test.ShouldEqual, 8)
	test.That(t, w, test.ShouldEqual, 8)

	// projection is inverted: dark pixels land at 1, bright at 0
	test.That(t, proj.At(3, 1), test.ShouldAlmostEqual, 1.0, .0001)
	test.That(t, proj.At(3, 6), test.ShouldAlmostEqual, 0.0, .0001)
}

func TestProjectPCAMasked(t *testing.T) {
	img := twoToneImage(8, 8, 4, 0.1, 0.9)
	mask := fullMask(8, 8)
	mask.Set(7, 7, false)
	mask.Set(0, 0, false)

	proj, err := ProjectPCA(img, mask)
	test.That(t, err, test.ShouldBeNil)
	// invalid pixels stay at zero no matter their color
	test.That(t, proj.At(7, 7), test.ShouldEqual, 0.0)
	test.That(t, proj.At(0, 0), test.ShouldEqual, 0.0)
	// valid pixels are unaffected by the holes
	test.That(t, proj.At(3, 1), test.ShouldAlmostEqual, 1.0, .0001)
}

func TestProjectPCAFlat(t *testing.T) {
	img := twoToneImage(6, 6, 6, 0.5, 0.5)
	mask := fullMask(6, 6)

	proj, err := ProjectPCA(img, mask)
	test.That(t, err, test.ShouldBeNil)
	// a single color collapses the projection; everything valid maps to 1
	test.That(t, proj.At(2, 2), test.ShouldEqual, 1.0)
	test.That(t, proj.At(5, 5), test.ShouldEqual, 1.0)
}

func TestProjectPCAEmptyMask(t *testing.T) {
	img := twoToneImage(4, 4, 2, 0.1, 0.9)
	mask := bimage.NewMask(4, 4)

	_, err := ProjectPCA(img, mask)
	test.That(t, err, test.ShouldEqual, ErrEmptyRegion)
}

func TestProjectPCASizeMismatch(t *testing.T) {
	img := twoToneImage(4, 4, 2, 0.1, 0.9)
	_, err := ProjectPCA(img, bimage.NewMask(3, 4))
	test.That(t, err, test.ShouldNotBeNil)
}
