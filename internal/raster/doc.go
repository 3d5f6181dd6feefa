// Package raster implements the in-memory pixel grid that every layer owns,
// together with the image algorithms that operate on it.
//
// A Raster is a dense width × height grid of Pixels. Storage is column-major:
// the grid is a sequence of width columns, each holding height pixels, and
// (0,0) is the top-left corner with X increasing rightward and Y downward.
//
// # Algorithms
//
//   - Filter: Blur (3x3) and Sharpen (5x5) convolution with zero padding.
//   - ColorTransform: Greyscale and Sepia, a 3x3 linear map on (R,G,B).
//   - Resampler: Downscale by bilinear interpolation.
//   - Segmenter: Mosaic, averaging the pixels nearest to random seeds.
//
// Every algorithm leaves the alpha channel alone except where noted, and
// clamps every output channel into [0,255] after truncating toward zero.
//
// # Ownership
//
// A Raster is not safe for concurrent mutation. Accessors such as PixelAt,
// Pixels and Clone return copies, so a value handed to a caller never
// changes underneath it.
//
// # Error Handling
//
// Every validation failure wraps ErrArgument, so callers can test for it
// with errors.Is regardless of the message.
package raster
