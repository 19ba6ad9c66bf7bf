package main

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/treelogy/barkseg/bimage"
)

const (
	sheetThumb   = 256
	sheetCaption = 20
	sheetPad     = 6
	sheetCols    = 3
	captionSize  = 13

	// rasters with at most this many distinct values are treated as label
	// maps and tinted
	maxLabelLevels = 6
)

var sheetFont *truetype.Font

func init() {
	var err error
	sheetFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// writeSheet lays the stages out on a contact sheet with captions so a whole
// treatment run can be reviewed at a glance.
func writeSheet(path string, stages []*bimage.Image) error {
	if len(stages) == 0 {
		return errors.New("no stages to lay out")
	}
	cols := sheetCols
	if len(stages) < cols {
		cols = len(stages)
	}
	rows := (len(stages) + cols - 1) / cols
	cellH := sheetThumb + sheetCaption + sheetPad

	dc := gg.NewContext(cols*(sheetThumb+sheetPad)+sheetPad, rows*cellH+sheetPad)
	dc.SetRGB(0.12, 0.12, 0.12)
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(sheetFont, &truetype.Options{Size: captionSize}))

	for i, stage := range stages {
		x := sheetPad + (i%cols)*(sheetThumb+sheetPad)
		y := sheetPad + (i/cols)*cellH

		thumb := imaging.Fit(tintLabels(stage), sheetThumb, sheetThumb, imaging.Lanczos)
		b := thumb.Bounds()
		dc.DrawImage(thumb, x+(sheetThumb-b.Dx())/2, y+(sheetThumb-b.Dy())/2)

		dc.SetColor(color.White)
		caption := fmt.Sprintf("stage %d  %dx%d", i, stage.Width(), stage.Height())
		dc.DrawString(caption, float64(x), float64(y+sheetThumb+sheetCaption-sheetPad))
	}
	return dc.SavePNG(path)
}

// tintLabels recolors a label raster with a warm palette so regions stand
// apart on the sheet; continuous rasters pass through unchanged.
func tintLabels(img *bimage.Image) image.Image {
	seen := map[float64]bool{}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			r, _, _ := img.GetXY(x, y)
			seen[r] = true
			if len(seen) > maxLabelLevels {
				return img.ToNRGBA()
			}
		}
	}

	levels := make([]float64, 0, len(seen))
	for v := range seen {
		levels = append(levels, v)
	}
	sort.Float64s(levels)
	index := make(map[float64]int, len(levels))
	for i, v := range levels {
		index[v] = i
	}

	palette := colorful.FastWarmPalette(len(levels))
	out := image.NewNRGBA(img.Bounds())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			r, _, _ := img.GetXY(x, y)
			cr, cg, cb := palette[index[r]].RGB255()
			out.SetNRGBA(x, y, color.NRGBA{R: cr, G: cg, B: cb, A: 255})
		}
	}
	return out
}
