// Package main provides the barktreat CLI for running bark treatment
// strategies over scan images.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/treelogy/barkseg/bimage"
	"github.com/treelogy/barkseg/segmentation"
	"github.com/treelogy/barkseg/treatment"
)

const histBins = 256

var logger = golog.NewDevelopmentLogger("barktreat")

// The composite and exploratory strategies stay out of the library's default
// registry; the tool is the place that wants them all reachable by name.
func init() {
	treatment.Register("entropy", func() treatment.Method { return treatment.NewEntropy() })
	treatment.Register("equalizer", func() treatment.Method { return treatment.NewEqualizer() })
	treatment.Register("grey", func() treatment.Method { return treatment.NewGrey() })
	treatment.Register("upsampling", func() treatment.Method { return treatment.NewUpsampling() })
	treatment.Register("v1", func() treatment.Method { return treatment.NewV1() })
	treatment.Register("v2", func() treatment.Method { return treatment.NewV2() })
}

var app = &cli.App{
	Name:            "barktreat",
	Usage:           "run bark treatment strategies over scan images",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "fix the clustering seed for reproducible runs",
		},
		&cli.PathFlag{
			Name:  "threshold-config",
			Usage: "load the per-species threshold table for v2 from `FILE`",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	},
	Before: func(c *cli.Context) error {
		if c.Bool("debug") {
			logger = golog.NewDebugLogger("barktreat")
		}
		return nil
	},
	Commands: []*cli.Command{
		{
			Name:      "treat",
			Usage:     "run a treatment strategy and write its stage images",
			ArgsUsage: "FILES...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "method",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "treatment method name (see the methods command)",
				},
				&cli.StringFlag{
					Name:  "type",
					Usage: "wood species of the scans (sapin, epinette_gelee, ...)",
				},
				&cli.PathFlag{
					Name:  "out",
					Value: ".",
					Usage: "output directory for stage images",
				},
				&cli.BoolFlag{
					Name:  "canny",
					Usage: "include the automatic Canny stage in edge_detection output",
				},
			},
			Action: treatAction,
		},
		{
			Name:   "methods",
			Usage:  "list the registered treatment methods",
			Action: methodsAction,
		},
		{
			Name:      "hist",
			Usage:     "plot the grey-intensity histogram of an image",
			ArgsUsage: "IMAGE",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:  "out",
					Value: "hist.png",
					Usage: "output plot file",
				},
			},
			Action: histAction,
		},
	},
}

func treatAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("need at least one image file")
	}
	name := c.String("method")
	method, err := treatment.New(name)
	if err != nil {
		return err
	}
	method, err = applyOptions(c, method)
	if err != nil {
		return err
	}
	typ := treatment.ImageType(c.String("type"))
	outDir := c.Path("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "output directory")
	}
	for _, path := range c.Args().Slice() {
		if err := treatOne(method, name, typ, path, outDir); err != nil {
			return errors.Wrapf(err, "treating %q", path)
		}
	}
	return nil
}

// applyOptions rebuilds strategies whose knobs arrive on the command line.
func applyOptions(c *cli.Context, method treatment.Method) (treatment.Method, error) {
	if c.IsSet("seed") {
		seed := c.Int64("seed")
		switch method.(type) {
		case *treatment.ColorFilter:
			method = treatment.NewColorFilterSeeded(seed)
		case *treatment.V1:
			method = treatment.NewV1Seeded(seed)
		}
	}
	if ed, ok := method.(*treatment.EdgeDetection); ok {
		ed.IncludeCanny = c.Bool("canny")
	}
	if c.IsSet("threshold-config") {
		if v2, ok := method.(*treatment.V2); ok {
			cfg, err := loadThresholds(c.Path("threshold-config"))
			if err != nil {
				return nil, err
			}
			v2.Thresholds = cfg
		}
	}
	return method, nil
}

func loadThresholds(path string) (treatment.ThresholdConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "threshold config")
	}
	var cfg treatment.ThresholdConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing threshold config %q", path)
	}
	return cfg, nil
}

func treatOne(method treatment.Method, name string, typ treatment.ImageType, path, outDir string) error {
	img, err := bimage.NewImageFromFile(path)
	if err != nil {
		return err
	}
	logRegionStats(path, img)

	stages, err := method.TreatImage(img, typ)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, stage := range stages {
		out := filepath.Join(outDir, fmt.Sprintf("%s_%s_%02d.png", base, name, i))
		if err := bimage.WriteImageToFile(out, stage); err != nil {
			return err
		}
		logger.Debugw("wrote stage", "path", out)
	}

	sheet := filepath.Join(outDir, fmt.Sprintf("%s_%s_sheet.png", base, name))
	if err := writeSheet(sheet, stages); err != nil {
		return errors.Wrap(err, "contact sheet")
	}
	logger.Infow("treated", "image", path, "method", name, "stages", len(stages), "sheet", sheet)
	return nil
}

// logRegionStats reports how the darkness mask partitions the scan, a quick
// sanity check before a long treatment run.
func logRegionStats(path string, img *bimage.Image) {
	mask, err := treatment.NewBlackMask().MakeMask(img)
	if err != nil {
		logger.Debugw("mask stats unavailable", "image", path, "error", err)
		return
	}
	labels, count := segmentation.ConnectedComponents(mask)
	largest := 0
	for _, size := range segmentation.RegionSizes(labels, count) {
		if size > largest {
			largest = size
		}
	}
	logger.Infow("loaded",
		"image", path,
		"width", img.Width(),
		"height", img.Height(),
		"valid", mask.CountValid(),
		"regions", count,
		"largest", largest,
	)
}

func methodsAction(c *cli.Context) error {
	for _, name := range treatment.Names() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func histAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("need exactly one image argument")
	}
	path := c.Args().First()
	img, err := bimage.NewImageFromFile(path)
	if err != nil {
		return err
	}

	grey := bimage.Grey(img)
	h, w := grey.Dims()
	values := make(plotter.Values, 0, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			values = append(values, grey.At(y, x))
		}
	}

	p := plot.New()
	p.Title.Text = filepath.Base(path)
	p.X.Label.Text = "intensity"
	p.Y.Label.Text = "pixels"
	hist, err := plotter.NewHist(values, histBins)
	if err != nil {
		return errors.Wrap(err, "histogram")
	}
	p.Add(hist)

	out := c.Path("out")
	if err := p.Save(8*vg.Inch, 5*vg.Inch, out); err != nil {
		return errors.Wrapf(err, "saving %q", out)
	}
	logger.Infow("histogram written", "image", path, "out", out)
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}
