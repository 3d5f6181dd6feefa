package layers

import "github.com/ironsheep/layer-editor/internal/raster"

// Editable is the editing surface shared by a bare raster and a layer stack.
type Editable interface {
	Blur() error
	Sharpen() error
	Greyscale() error
	Sepia() error
	Downscale(width, height int) error
	Mosaic(seeds int) error
	MakeTransparent()
}

var (
	_ Editable = (*raster.Raster)(nil)
	_ Editable = (*Stack)(nil)
)
