package treatment

import (
	"github.com/treelogy/barkseg/bimage"
)

// uniformImage returns a w x h image with every channel set to v.
func uniformImage(w, h int, v float64) *bimage.Image {
	img := bimage.NewImage(w, h)
	img.Fill(v)
	return img
}

// cornerImage returns a mid-grey image with a pure-black square block in the
// top-left corner.
func cornerImage(w, h, block int) *bimage.Image {
	img := uniformImage(w, h, 0.5)
	for y := 0; y < block; y++ {
		for x := 0; x < block; x++ {
			img.SetXY(x, y, 0, 0, 0)
		}
	}
	return img
}

// quadImage returns an image split into four uniform quadrants with strictly
// decreasing brightness: top-left, top-right, bottom-left, bottom-right.
func quadImage(size int) *bimage.Image {
	img := bimage.NewImage(size, size)
	half := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			switch {
			case x < half && y < half:
				img.SetXY(x, y, 0.9, 0.9, 0.9)
			case x >= half && y < half:
				img.SetXY(x, y, 0.5, 0.5, 0.9)
			case x < half && y >= half:
				img.SetXY(x, y, 0.7, 0.2, 0.2)
			default:
				img.SetXY(x, y, 0.1, 0.1, 0.1)
			}
		}
	}
	return img
}
