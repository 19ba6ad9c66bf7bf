// Package utils contains small shared helpers for raster math and
// parallel pixel iteration.
package utils

import (
	"image"
	"math"
	"runtime"
	"sync"

	goutils "go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// ParallelForEachPixel loops through the image and calls f for each [x, y] position.
// The image is divided into N * N blocks, where N is the number of available processor
// threads. For each block a parallel goroutine is started.
func ParallelForEachPixel(size image.Point, f func(x, y int)) {
	procs := ParallelFactor
	var waitGroup sync.WaitGroup
	waitGroup.Add(procs * procs)
	for i := 0; i < procs; i++ {
		startX := i * int(math.Floor(float64(size.X)/float64(procs)))
		var endX int
		if i < procs-1 {
			endX = (i + 1) * int(math.Floor(float64(size.X)/float64(procs)))
		} else {
			endX = size.X
		}
		for j := 0; j < procs; j++ {
			startY := j * int(math.Floor(float64(size.Y)/float64(procs)))
			var endY int
			if j < procs-1 {
				endY = (j + 1) * int(math.Floor(float64(size.Y)/float64(procs)))
			} else {
				endY = size.Y
			}
			sX, eX, sY, eY := startX, endX, startY, endY
			goutils.PanicCapturingGo(func() {
				defer waitGroup.Done()
				for x := sX; x < eX; x++ {
					for y := sY; y < eY; y++ {
						f(x, y)
					}
				}
			})
		}
	}
	waitGroup.Wait()
}

// ParallelForEachRow splits the row range [0, height) over the available
// processor threads and calls f once per row. Useful when per-row work keeps
// sliding state that must not interleave with neighboring rows.
func ParallelForEachRow(height int, f func(y int)) {
	procs := ParallelFactor
	if procs > height {
		procs = height
	}
	if procs <= 1 {
		for y := 0; y < height; y++ {
			f(y)
		}
		return
	}
	var waitGroup sync.WaitGroup
	waitGroup.Add(procs)
	chunk := height / procs
	for i := 0; i < procs; i++ {
		start := i * chunk
		end := start + chunk
		if i == procs-1 {
			end = height
		}
		s, e := start, end
		goutils.PanicCapturingGo(func() {
			defer waitGroup.Done()
			for y := s; y < e; y++ {
				f(y)
			}
		})
	}
	waitGroup.Wait()
}
