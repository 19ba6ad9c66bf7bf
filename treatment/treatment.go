// Package treatment implements composable wood-bark image treatment
// strategies. Each Method turns one raster into an ordered sequence of
// derived rasters: diagnostic stages first, final result last.
package treatment

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/treelogy/barkseg/bimage"
	"github.com/treelogy/barkseg/utils"
)

// ImageType tags an image with a categorical label, e.g. the wood species.
// The empty string means untyped. Methods that do not discriminate by type
// accept the tag and discard it.
type ImageType string

// A Method treats one image and returns a non-empty ordered sequence of
// derived images. Implementations never mutate the input.
type Method interface {
	TreatImage(img *bimage.Image, typ ImageType) ([]*bimage.Image, error)
}

// ErrNotImplemented is returned when TreatImage is called on a method that
// does not support standalone treatment. Hitting it is a programming error,
// not a runtime condition to recover from.
var ErrNotImplemented = errors.New("treatment method not implemented")

// Unimplemented is embedded by helper types that satisfy Method without
// supporting standalone treatment.
type Unimplemented struct{}

// TreatImage returns ErrNotImplemented.
func (Unimplemented) TreatImage(*bimage.Image, ImageType) ([]*bimage.Image, error) {
	return nil, ErrNotImplemented
}

// TreatImages applies the method to every image pairwise, in input order.
// typs may be nil (all images untyped) or must match imgs in length. The
// output always has one sequence per input image.
func TreatImages(m Method, imgs []*bimage.Image, typs []ImageType) ([][]*bimage.Image, error) {
	if typs != nil && len(typs) != len(imgs) {
		return nil, errors.Errorf("got %d images but %d types", len(imgs), len(typs))
	}
	out := make([][]*bimage.Image, len(imgs))
	for i, img := range imgs {
		var typ ImageType
		if typs != nil {
			typ = typs[i]
		}
		seq, err := m.TreatImage(img, typ)
		if err != nil {
			return nil, errors.Wrapf(err, "treating image %d", i)
		}
		out[i] = seq
	}
	return out, nil
}

// TreatImagesParallel behaves exactly like TreatImages but fans the images
// out over the available processor threads. Output order still matches
// input order; per-image failures are aggregated into one error.
func TreatImagesParallel(m Method, imgs []*bimage.Image, typs []ImageType) ([][]*bimage.Image, error) {
	if typs != nil && len(typs) != len(imgs) {
		return nil, errors.Errorf("got %d images but %d types", len(imgs), len(typs))
	}
	out := make([][]*bimage.Image, len(imgs))
	errs := make([]error, len(imgs))
	limit := make(chan struct{}, utils.ParallelFactor)
	var wg sync.WaitGroup
	for i, img := range imgs {
		var typ ImageType
		if typs != nil {
			typ = typs[i]
		}
		iCopy, imgCopy, typCopy := i, img, typ
		wg.Add(1)
		limit <- struct{}{}
		goutils.PanicCapturingGo(func() {
			defer func() {
				<-limit
				wg.Done()
			}()
			seq, err := m.TreatImage(imgCopy, typCopy)
			if err != nil {
				errs[iCopy] = errors.Wrapf(err, "treating image %d", iCopy)
				return
			}
			out[iCopy] = seq
		})
	}
	wg.Wait()
	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
