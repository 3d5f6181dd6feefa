package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Raster is a rectangular grid of Pixels forming one image.
type Raster struct {
	width  int
	height int
	// pix holds the grid column by column: pixel (x,y) is pix[x*height+y].
	pix []Pixel
}

// New builds a Raster from a grid given as columns, columns[x][y] being the
// pixel at (x,y). The grid is copied. It fails with ErrArgument if the grid
// is empty or its columns differ in length.
func New(columns [][]Pixel) (*Raster, error) {
	if len(columns) == 0 || len(columns[0]) == 0 {
		return nil, fmt.Errorf("raster must have at least one pixel: %w", ErrArgument)
	}
	height := len(columns[0])
	r := &Raster{width: len(columns), height: height, pix: make([]Pixel, 0, len(columns)*height)}
	for x, col := range columns {
		if len(col) != height {
			return nil, fmt.Errorf("raster must be rectangular: column %d has %d pixels, want %d: %w",
				x, len(col), height, ErrArgument)
		}
		r.pix = append(r.pix, col...)
	}
	return r, nil
}

// Filled returns a width × height raster with every pixel set to p.
func Filled(width, height int, p Pixel) (*Raster, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("raster size %dx%d must be positive: %w", width, height, ErrArgument)
	}
	r := &Raster{width: width, height: height, pix: make([]Pixel, width*height)}
	for i := range r.pix {
		r.pix[i] = p
	}
	return r, nil
}

// FromImage copies any image.Image into a new Raster, converting each
// pixel to non-premultiplied 8-bit RGBA.
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("image is nil: %w", ErrArgument)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("image bounds %v are empty: %w", b, ErrArgument)
	}
	r := &Raster{width: b.Dx(), height: b.Dy(), pix: make([]Pixel, b.Dx()*b.Dy())}
	for x := 0; x < r.width; x++ {
		for y := 0; y < r.height; y++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			r.pix[x*r.height+y] = RGBA(c.R, c.G, c.B, c.A)
		}
	}
	return r, nil
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Height returns the number of pixels in each column.
func (r *Raster) Height() int { return r.height }

// Bounds returns the raster's extent as an image rectangle anchored at (0,0).
func (r *Raster) Bounds() image.Rectangle { return image.Rect(0, 0, r.width, r.height) }

func (r *Raster) inBounds(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

// at returns the pixel at (x,y) without bounds checking.
func (r *Raster) at(x, y int) Pixel { return r.pix[x*r.height+y] }

// PixelAt returns a copy of the pixel at (x,y).
func (r *Raster) PixelAt(x, y int) (Pixel, error) {
	if !r.inBounds(x, y) {
		return Pixel{}, fmt.Errorf("coordinates (%d,%d) outside %dx%d raster: %w",
			x, y, r.width, r.height, ErrArgument)
	}
	return r.at(x, y), nil
}

// SetPixelAt replaces the pixel at (x,y).
func (r *Raster) SetPixelAt(x, y int, p Pixel) error {
	if !r.inBounds(x, y) {
		return fmt.Errorf("coordinates (%d,%d) outside %dx%d raster: %w",
			x, y, r.width, r.height, ErrArgument)
	}
	r.pix[x*r.height+y] = p
	return nil
}

// Pixels returns a copy of the whole grid as columns.
func (r *Raster) Pixels() [][]Pixel {
	cols := make([][]Pixel, r.width)
	for x := range cols {
		cols[x] = make([]Pixel, r.height)
		copy(cols[x], r.pix[x*r.height:(x+1)*r.height])
	}
	return cols
}

// Clone returns a deep copy of r.
func (r *Raster) Clone() *Raster {
	c := &Raster{width: r.width, height: r.height, pix: make([]Pixel, len(r.pix))}
	copy(c.pix, r.pix)
	return c
}

// Equal reports whether r and o have the same size and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.width != o.width || r.height != o.height {
		return false
	}
	for i := range r.pix {
		if r.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// MakeTransparent sets the alpha channel of every pixel to zero.
func (r *Raster) MakeTransparent() {
	for i := range r.pix {
		r.pix[i].a = 0
	}
}

// ToNRGBA converts the raster into a standard library image.
func (r *Raster) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(r.Bounds())
	for x := 0; x < r.width; x++ {
		for y := 0; y < r.height; y++ {
			p := r.at(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: p.r, G: p.g, B: p.b, A: p.a})
		}
	}
	return img
}

// replace swaps in a new grid, used by operations that change dimensions.
func (r *Raster) replace(width, height int, pix []Pixel) {
	r.width, r.height, r.pix = width, height, pix
}
