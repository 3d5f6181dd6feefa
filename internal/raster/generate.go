package raster

import "fmt"

// DefaultBlankSize is the width and height of the raster given to newly
// created layers.
const DefaultBlankSize = 500

// White is fully opaque white.
var White = Opaque(255, 255, 255)

// Blank returns a fully opaque white raster of the given size.
func Blank(width, height int) (*Raster, error) {
	return Filled(width, height, White)
}

// DefaultBlank returns the 500x500 opaque white raster used for new layers.
func DefaultBlank() *Raster {
	r, _ := Blank(DefaultBlankSize, DefaultBlankSize)
	return r
}

// Checkerboard returns a raster of cols × rows squares, each size pixels on
// a side, alternating between c1 and c2 starting with c1 at the top-left.
func Checkerboard(cols, rows, size int, c1, c2 Pixel) (*Raster, error) {
	if cols < 1 || rows < 1 || size < 1 {
		return nil, fmt.Errorf("checkerboard %dx%d squares of %d pixels must be positive: %w",
			cols, rows, size, ErrArgument)
	}
	r := &Raster{width: cols * size, height: rows * size}
	r.pix = make([]Pixel, r.width*r.height)
	for x := 0; x < r.width; x++ {
		for y := 0; y < r.height; y++ {
			p := c1
			if (x/size+y/size)%2 == 1 {
				p = c2
			}
			r.pix[x*r.height+y] = p
		}
	}
	return r, nil
}
