// Package codec moves rasters and layer stacks between memory and files.
//
// Single rasters are read and written in any FileType. PNG, JPEG, GIF, BMP
// and TIFF go through the imaging library; PPM is the plain-text "P3"
// variant. JPEG has no alpha channel, so transparency is dropped on export.
//
// A layer stack can be saved two ways:
//
//   - ExportLayered writes a directory with one image per layer and a
//     layers.txt manifest. The first manifest line is the file extension,
//     followed by one layer name per line in stack order.
//   - WriteBundle writes a single zstd-compressed file holding every layer's
//     raw pixels, names and visibility, plus the current layer.
//
// The directory form is lossy for JPEG and drops visibility; the bundle is
// exact.
package codec
