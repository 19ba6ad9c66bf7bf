package segmentation

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/treelogy/barkseg/bimage"
)

// twoWellElevation has basins around x=1 and x=5 separated by a ridge at x=3.
func twoWellElevation(width, height int) *mat.Dense {
	m := mat.NewDense(height, width, nil)
	profile := []float64{1, 0, 1, 2, 1, 0, 1}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Set(y, x, profile[x])
		}
	}
	return m
}

func TestWatershedTwoWells(t *testing.T) {
	el := twoWellElevation(7, 5)
	seeds := bimage.NewMarkers(7, 5)
	seeds.Set(1, 2, 1)
	seeds.Set(5, 2, 2)
	valid := fullMask(7, 5)

	labels, err := Watershed(el, seeds, valid)
	test.That(t, err, test.ShouldBeNil)

	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			l := labels.Get(x, y)
			switch {
			case x < 3:
				test.That(t, l, test.ShouldEqual, 1)
			case x > 3:
				test.That(t, l, test.ShouldEqual, 2)
			default:
				// the ridge goes to whichever basin got there first,
				// but it never stays unlabeled
				test.That(t, l, test.ShouldBeGreaterThan, 0)
				test.That(t, l, test.ShouldBeLessThanOrEqualTo, 2)
			}
		}
	}
}

func TestWatershedDeterministic(t *testing.T) {
	el := twoWellElevation(7, 5)
	seeds := bimage.NewMarkers(7, 5)
	seeds.Set(1, 2, 1)
	seeds.Set(5, 2, 2)
	valid := fullMask(7, 5)

	first, err := Watershed(el, seeds, valid)
	test.That(t, err, test.ShouldBeNil)
	second, err := Watershed(el, seeds, valid)
	test.That(t, err, test.ShouldBeNil)
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			test.That(t, second.Get(x, y), test.ShouldEqual, first.Get(x, y))
		}
	}
}

func TestWatershedMaskConfinement(t *testing.T) {
	el := twoWellElevation(7, 5)
	seeds := bimage.NewMarkers(7, 5)
	seeds.Set(1, 2, 1)
	valid := fullMask(7, 5)
	for y := 0; y < 5; y++ {
		valid.Set(3, y, false)
	}

	labels, err := Watershed(el, seeds, valid)
	test.That(t, err, test.ShouldBeNil)

	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			switch {
			case x < 3:
				test.That(t, labels.Get(x, y), test.ShouldEqual, 1)
			default:
				// the invalid wall and everything beyond it stays 0
				test.That(t, labels.Get(x, y), test.ShouldEqual, 0)
			}
		}
	}
}

func TestWatershedSeedOutsideMask(t *testing.T) {
	el := twoWellElevation(7, 5)
	seeds := bimage.NewMarkers(7, 5)
	seeds.Set(3, 2, 1)
	valid := fullMask(7, 5)
	valid.Set(3, 2, false)

	labels, err := Watershed(el, seeds, valid)
	test.That(t, err, test.ShouldBeNil)
	// an off-mask seed never floods
	test.That(t, labels.Max(), test.ShouldEqual, 0)
}

func TestWatershedSizeMismatch(t *testing.T) {
	el := twoWellElevation(7, 5)
	_, err := Watershed(el, bimage.NewMarkers(6, 5), fullMask(7, 5))
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Watershed(el, bimage.NewMarkers(7, 5), fullMask(7, 4))
	test.That(t, err, test.ShouldNotBeNil)
}
