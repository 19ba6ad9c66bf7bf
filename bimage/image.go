// Package bimage implements the raster fundamentals for bark-scan
// treatment: a float RGB image type, grey rasters as gonum matrices,
// validity masks, watershed markers, and the filtering primitives the
// treatment strategies are assembled from.
//
// All samples are float64 and normalized to [0,1] by convention. Label
// rasters ride through the same types with small integer values; the range
// is conventional, not enforced.
package bimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/treelogy/barkseg/utils"
)

// Image is a 3-channel float64 raster, interleaved RGB.
type Image struct {
	data          []float64
	width, height int
}

// NewImage returns a zeroed width x height image.
func NewImage(width, height int) *Image {
	return &Image{
		data:   make([]float64, 3*width*height),
		width:  width,
		height: height,
	}
}

// ConvertImage copies any Go image into a normalized float image.
func ConvertImage(img image.Image) *Image {
	if fi, ok := img.(*Image); ok {
		return fi.Clone()
	}
	bounds := img.Bounds()
	out := NewImage(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.SetXY(x, y, float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
		}
	}
	return out
}

// NewImageFromFile decodes the image at path (PNG, JPEG, ...).
func NewImageFromFile(path string) (*Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read image %q", path)
	}
	return ConvertImage(img), nil
}

// WriteImageToFile encodes img into the file at path; the format follows the
// file extension.
func WriteImageToFile(path string, img image.Image) error {
	return imaging.Save(imaging.Clone(img), path)
}

func (i *Image) kxy(x, y int) int {
	return 3 * ((y * i.width) + x)
}

// In reports whether (x, y) lies inside the image.
func (i *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < i.width && y < i.height
}

func (i *Image) Width() int {
	return i.width
}

func (i *Image) Height() int {
	return i.height
}

// GetXY returns the three channel samples at (x, y).
func (i *Image) GetXY(x, y int) (r, g, b float64) {
	k := i.kxy(x, y)
	return i.data[k], i.data[k+1], i.data[k+2]
}

// SetXY sets the three channel samples at (x, y).
func (i *Image) SetXY(x, y int, r, g, b float64) {
	k := i.kxy(x, y)
	i.data[k] = r
	i.data[k+1] = g
	i.data[k+2] = b
}

// Clone returns a deep copy.
func (i *Image) Clone() *Image {
	out := NewImage(i.width, i.height)
	copy(out.data, i.data)
	return out
}

// Crop returns a copy of the pixels inside r, which must lie within bounds.
func (i *Image) Crop(r image.Rectangle) *Image {
	r = r.Intersect(i.Bounds())
	out := NewImage(r.Dx(), r.Dy())
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			cr, cg, cb := i.GetXY(r.Min.X+x, r.Min.Y+y)
			out.SetXY(x, y, cr, cg, cb)
		}
	}
	return out
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.width, i.height)
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return color.RGBA64Model
}

// At implements image.Image; samples are clamped to [0,1] on the way out.
func (i *Image) At(x, y int) color.Color {
	r, g, b := i.GetXY(x, y)
	return color.RGBA64{
		R: uint16(utils.ClampF64(r, 0, 1) * 65535.0),
		G: uint16(utils.ClampF64(g, 0, 1) * 65535.0),
		B: uint16(utils.ClampF64(b, 0, 1) * 65535.0),
		A: 65535,
	}
}

// ToNRGBA renders the image into an 8-bit raster for encoders and drawing
// libraries.
func (i *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(i.Bounds())
	for y := 0; y < i.height; y++ {
		for x := 0; x < i.width; x++ {
			r, g, b := i.GetXY(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(utils.ClampF64(r, 0, 1)*255.0 + 0.5),
				G: uint8(utils.ClampF64(g, 0, 1)*255.0 + 0.5),
				B: uint8(utils.ClampF64(b, 0, 1)*255.0 + 0.5),
				A: 255,
			})
		}
	}
	return out
}

// ToRGBA64 renders the image into a 16-bit raster, the interchange format for
// geometry operations that should not be quantized down to 8 bits.
func (i *Image) ToRGBA64() *image.RGBA64 {
	out := image.NewRGBA64(i.Bounds())
	for y := 0; y < i.height; y++ {
		for x := 0; x < i.width; x++ {
			out.SetRGBA64(x, y, i.At(x, y).(color.RGBA64))
		}
	}
	return out
}

// SameSize reports whether two images share spatial dimensions.
func SameSize(a, b *Image) bool {
	return a.width == b.width && a.height == b.height
}

// Average returns the pixelwise mean of a and b, the blend the watershed and
// cluster strategies use to overlay a result on its source image.
func Average(a, b *Image) (*Image, error) {
	if !SameSize(a, b) {
		return nil, errors.Errorf("cannot average images of different sizes (%d,%d) != (%d,%d)",
			a.width, a.height, b.width, b.height)
	}
	out := NewImage(a.width, a.height)
	for k := range out.data {
		out.data[k] = (a.data[k] + b.data[k]) / 2
	}
	return out, nil
}

// Fill sets every sample of every pixel to v.
func (i *Image) Fill(v float64) {
	for k := range i.data {
		i.data[k] = v
	}
}
