package layers

import (
	"fmt"

	"github.com/ironsheep/layer-editor/internal/raster"
)

// Layer is a named raster within a Stack.
type Layer struct {
	// Number is the 1-based position the layer was created at. It is
	// informational and is not renumbered when the stack changes.
	Number  int
	Name    string
	Visible bool

	raster  *raster.Raster
	current bool
}

// NewLayer returns a visible layer holding a copy of r.
func NewLayer(number int, name string, r *raster.Raster) (*Layer, error) {
	if r == nil {
		return nil, fmt.Errorf("layer %q needs a raster: %w", name, ErrArgument)
	}
	return &Layer{Number: number, Name: name, Visible: true, raster: r.Clone()}, nil
}

// Raster returns a copy of the layer's raster.
func (l *Layer) Raster() *raster.Raster {
	return l.raster.Clone()
}

// IsCurrent reports whether the layer was current when this copy was taken
// from its Stack. It is always false for layers built with NewLayer.
func (l *Layer) IsCurrent() bool {
	return l.current
}

func (l *Layer) String() string {
	return fmt.Sprintf("%d:%s (%dx%d visible=%t current=%t)",
		l.Number, l.Name, l.raster.Width(), l.raster.Height(), l.Visible, l.current)
}

func (l *Layer) clone() *Layer {
	c := *l
	c.raster = l.raster.Clone()
	return &c
}
