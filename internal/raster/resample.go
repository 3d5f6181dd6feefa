package raster

import (
	"fmt"
	"math"
)

// Downscale shrinks the raster to newWidth × newHeight by bilinear
// interpolation. Both sizes must lie in [1, current size]; upscaling is
// rejected with ErrArgument.
//
// Destination cell (i,j) samples the source at x = i*width/newWidth,
// y = j*height/newHeight. The four neighbors are taken at floor(v) and at
// the next integer strictly greater than v, so an integral coordinate gives
// full weight to floor(v). The upper neighbor is clamped to the last
// row/column. Alpha is copied from the floor-floor neighbor only.
func (r *Raster) Downscale(newWidth, newHeight int) error {
	if newWidth < 1 || newWidth > r.width || newHeight < 1 || newHeight > r.height {
		return fmt.Errorf("cannot resize %dx%d raster to %dx%d: %w",
			r.width, r.height, newWidth, newHeight, ErrArgument)
	}

	pix := make([]Pixel, newWidth*newHeight)
	for i := 0; i < newWidth; i++ {
		x := float64(i*r.width) / float64(newWidth)
		x0, x1, fx := sampleAxis(x, r.width)
		for j := 0; j < newHeight; j++ {
			y := float64(j*r.height) / float64(newHeight)
			y0, y1, fy := sampleAxis(y, r.height)

			p00 := r.at(x0, y0)
			p10 := r.at(x1, y0)
			p01 := r.at(x0, y1)
			p11 := r.at(x1, y1)
			lerp := func(c00, c10, c01, c11 uint8) int {
				top := float64(c10)*fx + float64(c00)*(1-fx)
				bottom := float64(c11)*fx + float64(c01)*(1-fx)
				return clampChannel(bottom*fy + top*(1-fy))
			}
			pix[i*newHeight+j] = p00.withRGB(
				lerp(p00.r, p10.r, p01.r, p11.r),
				lerp(p00.g, p10.g, p01.g, p11.g),
				lerp(p00.b, p10.b, p01.b, p11.b),
			)
		}
	}
	r.replace(newWidth, newHeight, pix)
	return nil
}

// sampleAxis returns the lower and upper sample indices for coordinate v on
// an axis of length n, and the weight of the upper one.
func sampleAxis(v float64, n int) (lo, hi int, frac float64) {
	f := math.Floor(v)
	lo = int(f)
	hi = lo + 1
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi, v - f
}
