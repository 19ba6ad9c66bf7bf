package segmentation

import (
	"image"

	"github.com/treelogy/barkseg/bimage"
)

// ConnectedComponents labels every 4-connected region of valid pixels with a
// distinct positive integer, assigned in scan order, and returns the region
// count. Invalid pixels keep label 0.
func ConnectedComponents(mask *bimage.Mask) (*bimage.Markers, int) {
	w, h := mask.Width(), mask.Height()
	labels := bimage.NewMarkers(w, h)
	deltas := [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

	count := 0
	queue := make([]image.Point, 0, 64)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.Get(x, y) || labels.Get(x, y) != 0 {
				continue
			}
			count++
			labels.Set(x, y, count)
			queue = append(queue[:0], image.Point{X: x, Y: y})
			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				for _, d := range deltas {
					nx, ny := p.X+d[0], p.Y+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if mask.Get(nx, ny) && labels.Get(nx, ny) == 0 {
						labels.Set(nx, ny, count)
						queue = append(queue, image.Point{X: nx, Y: ny})
					}
				}
			}
		}
	}
	return labels, count
}

// RegionSizes returns the pixel count of every labeled region, indexed by
// label minus one.
func RegionSizes(labels *bimage.Markers, count int) []int {
	sizes := make([]int, count)
	for y := 0; y < labels.Height(); y++ {
		for x := 0; x < labels.Width(); x++ {
			if l := labels.Get(x, y); l > 0 && l <= count {
				sizes[l-1]++
			}
		}
	}
	return sizes
}
