package treatment

import (
	"github.com/pkg/errors"

	"github.com/treelogy/barkseg/bimage"
)

// Identity passes its input through unchanged.
type Identity struct{}

// NewIdentity returns an Identity.
func NewIdentity() *Identity {
	return &Identity{}
}

func (Identity) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	return []*bimage.Image{img}, nil
}

// Grey reduces the image to its broadcast greyscale.
type Grey struct{}

// NewGrey returns a Grey.
func NewGrey() *Grey {
	return &Grey{}
}

func (Grey) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	return []*bimage.Image{bimage.GreyToImage(bimage.Grey(img))}, nil
}

const upsampleFactor = 4.0

// Upsampling scales the image up by a fixed factor.
type Upsampling struct{}

// NewUpsampling returns an Upsampling.
func NewUpsampling() *Upsampling {
	return &Upsampling{}
}

func (Upsampling) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	return []*bimage.Image{bimage.Rescale(img, upsampleFactor)}, nil
}

const (
	equalizerTiles = 8
	equalizerClip  = 0.01
)

// Equalizer applies contrast-limited adaptive histogram equalization to the
// greyscale image.
type Equalizer struct{}

// NewEqualizer returns an Equalizer.
func NewEqualizer() *Equalizer {
	return &Equalizer{}
}

func (Equalizer) TreatImage(img *bimage.Image, _ ImageType) ([]*bimage.Image, error) {
	eq, err := bimage.Clahe(bimage.Grey(img), equalizerTiles, equalizerTiles, equalizerClip)
	if err != nil {
		return nil, errors.Wrap(err, "equalizer")
	}
	return []*bimage.Image{bimage.GreyToImage(eq)}, nil
}
