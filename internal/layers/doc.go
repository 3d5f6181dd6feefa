// Package layers organizes rasters as an ordered stack of named layers and
// routes editing operations to the right one.
//
// # Current Layer
//
// A Stack tracks at most one current layer by index. Per-layer operations
// (Blur, Sharpen, Greyscale, Sepia, Mosaic, LoadImage) act on the current
// layer and do nothing when there is none. Downscale and MakeTransparent act
// on every layer. A failed SetCurrent leaves the stack with no current layer.
//
// Layer names are not unique. SetCurrent selects the first match, while
// RemoveLayer and SetInvisible act on every match in stack order.
//
// # Ownership
//
// The Stack owns its layers and their rasters. Layers, LayerAt and Topmost
// return copies; SetLayerAt, LoadImage and ReplaceLayeredImage store copies.
//
// A Stack is not safe for concurrent use. Front-ends that share one across
// goroutines must serialize calls.
//
// # Errors
//
// Failures wrap ErrArgument, ErrNotFound or ErrInvariant. Apart from the
// documented SetCurrent case, a failed call leaves the stack unchanged.
package layers
