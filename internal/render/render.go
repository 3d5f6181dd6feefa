// Package render turns rasters into displayable bitmaps. Transparent areas
// are shown over a grey checkerboard, and large images can be shrunk to a
// bounded preview.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"

	"github.com/ironsheep/layer-editor/internal/layers"
	"github.com/ironsheep/layer-editor/internal/raster"
)

// DefaultCheckerSize is the side of one backdrop square in pixels.
const DefaultCheckerSize = 8

var (
	checkerLight = raster.Opaque(204, 204, 204)
	checkerDark  = raster.Opaque(153, 153, 153)
)

// ErrNothingToRender reports a stack with no layer that is both current
// and visible.
var ErrNothingToRender = errors.New("no layer is both current and visible")

// Result contains a rendered image encoded as base64 PNG.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Options controls rendering. Zero values select the defaults.
type Options struct {
	// MaxSize bounds the longer side of the output; 0 means full size.
	MaxSize int
	// CheckerSize is the backdrop square size; 0 means DefaultCheckerSize.
	CheckerSize int
	// GridSpacing draws a coordinate grid every GridSpacing source pixels;
	// 0 disables it.
	GridSpacing int
	// GridLabels prints the source coordinates at grid intersections.
	GridLabels bool
	// GridColor is "#RRGGBB" or "#RRGGBBAA"; empty means DefaultGridColor.
	GridColor string
}

// Composite draws img over a checkerboard backdrop so that transparency is
// visible. The result has the raster's size.
func Composite(img *raster.Raster, checkerSize int) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("raster is nil: %w", raster.ErrArgument)
	}
	if checkerSize <= 0 {
		checkerSize = DefaultCheckerSize
	}
	w, h := img.Width(), img.Height()
	board, err := raster.Checkerboard(
		(w+checkerSize-1)/checkerSize, (h+checkerSize-1)/checkerSize,
		checkerSize, checkerLight, checkerDark)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), board.ToNRGBA(), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img.ToNRGBA(), image.Point{}, draw.Over)
	return dst, nil
}

// Preview composites img and shrinks it, keeping the aspect ratio, so its
// longer side is at most MaxSize. Images already small enough are not
// resized. The optional grid is drawn after resizing and labelled in source
// pixel coordinates.
func Preview(img *raster.Raster, opts Options) (image.Image, error) {
	out, err := Composite(img, opts.CheckerSize)
	if err != nil {
		return nil, err
	}
	srcW := out.Bounds().Dx()
	w, h := srcW, out.Bounds().Dy()
	if opts.MaxSize > 0 && (w > opts.MaxSize || h > opts.MaxSize) {
		if w >= h {
			h = max(1, h*opts.MaxSize/w)
			w = opts.MaxSize
		} else {
			w = max(1, w*opts.MaxSize/h)
			h = opts.MaxSize
		}
		out = transform.Resize(out, w, h, transform.Linear)
	}

	if opts.GridSpacing > 0 {
		c, err := parseGridColor(opts.GridColor)
		if err != nil {
			return nil, err
		}
		drawGrid(out, opts.GridSpacing, float64(w)/float64(srcW), opts.GridLabels, c)
	}
	return out, nil
}

// Raster renders img as a base64 PNG.
func Raster(img *raster.Raster, opts Options) (*Result, error) {
	out, err := Preview(img, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode rendered image: %w", err)
	}

	return &Result{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Stack renders the layer that is both current and visible. Other layers
// are not blended in.
func Stack(s *layers.Stack, opts Options) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("stack is nil: %w", raster.ErrArgument)
	}
	img, ok := s.Topmost()
	if !ok {
		return nil, ErrNothingToRender
	}
	return Raster(img, opts)
}
