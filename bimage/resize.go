package bimage

import (
	"math"

	"github.com/nfnt/resize"
)

// Rescale resizes an image by a uniform factor with bilinear interpolation,
// the geometry step every downscaling strategy applies before analysis.
// The resize runs over a 16-bit raster so repeated rescales do not collapse
// to 8-bit quantization.
func Rescale(img *Image, factor float64) *Image {
	w := int(math.Round(float64(img.Width()) * factor))
	h := int(math.Round(float64(img.Height()) * factor))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return ResizeTo(img, w, h, resize.Bilinear)
}

// ResizeTo resizes an image onto an exact width x height canvas.
func ResizeTo(img *Image, width, height int, interp resize.InterpolationFunction) *Image {
	resized := resize.Resize(uint(width), uint(height), img.ToRGBA64(), interp)
	return ConvertImage(resized)
}
