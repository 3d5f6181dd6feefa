package layers

import (
	"errors"

	"github.com/ironsheep/layer-editor/internal/raster"
)

var (
	// ErrArgument reports a nil, missing or out-of-range argument.
	ErrArgument = raster.ErrArgument

	// ErrNotFound reports that no layer has the requested name.
	ErrNotFound = errors.New("layer not found")

	// ErrInvariant reports an operation that would break the stack's
	// structure, such as removing its last layer.
	ErrInvariant = errors.New("layer stack invariant violated")
)
