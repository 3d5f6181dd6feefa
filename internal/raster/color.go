package raster

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel value in several representations.
//
// Hex excludes alpha; use RGBA.A to get transparency information.
type ColorResult struct {
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Hex  string    `json:"hex"`
	RGB  RGBColor  `json:"rgb"`
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
}

// SampleColor reports the color of the pixel at (x,y).
//
// Coordinates are 0-based with origin at top-left; anything outside
// [0,width) × [0,height) fails with ErrArgument.
func SampleColor(r *Raster, x, y int) (*ColorResult, error) {
	p, err := r.PixelAt(x, y)
	if err != nil {
		return nil, err
	}
	return &ColorResult{
		X:    x,
		Y:    y,
		Hex:  hexOf(p.r, p.g, p.b),
		RGB:  RGBColor{R: p.r, G: p.g, B: p.b},
		RGBA: RGBAColor{R: p.r, G: p.g, B: p.b, A: p.a},
		HSL:  hslOf(p.r, p.g, p.b),
	}, nil
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// hexOf formats the color as "#RRGGBB".
func hexOf(r, g, b uint8) string {
	return strings.ToUpper(toColorful(r, g, b).Hex())
}

func hslOf(r, g, b uint8) HSLColor {
	h, s, l := toColorful(r, g, b).Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
