package raster

import (
	"errors"
	"fmt"
)

// ErrArgument is returned for any invalid argument: an out-of-range channel
// value, a malformed kernel or matrix, an invalid resize or seed count, an
// out-of-bounds coordinate, or a missing required value.
var ErrArgument = errors.New("invalid argument")

// MaxChannel is the largest value any channel may hold.
const MaxChannel = 255

// Pixel is a 4-channel color value. Each channel is kept in [0,255] by the
// setters; the zero value is transparent black.
//
// Pixels compare by value with ==.
type Pixel struct {
	r, g, b, a uint8
}

// NewPixel returns a pixel with the given channels, or an error wrapping
// ErrArgument if any channel is outside [0,255].
func NewPixel(r, g, b, a int) (Pixel, error) {
	var p Pixel
	for _, set := range []struct {
		fn func(int) error
		v  int
	}{{p.SetRed, r}, {p.SetGreen, g}, {p.SetBlue, b}, {p.SetAlpha, a}} {
		if err := set.fn(set.v); err != nil {
			return Pixel{}, err
		}
	}
	return p, nil
}

// Opaque returns a fully opaque pixel from 8-bit components.
func Opaque(r, g, b uint8) Pixel {
	return Pixel{r: r, g: g, b: b, a: MaxChannel}
}

// RGBA returns a pixel from 8-bit components.
func RGBA(r, g, b, a uint8) Pixel {
	return Pixel{r: r, g: g, b: b, a: a}
}

func (p Pixel) Red() int   { return int(p.r) }
func (p Pixel) Green() int { return int(p.g) }
func (p Pixel) Blue() int  { return int(p.b) }
func (p Pixel) Alpha() int { return int(p.a) }

func (p *Pixel) SetRed(v int) error   { return setChannel(&p.r, "red", v) }
func (p *Pixel) SetGreen(v int) error { return setChannel(&p.g, "green", v) }
func (p *Pixel) SetBlue(v int) error  { return setChannel(&p.b, "blue", v) }
func (p *Pixel) SetAlpha(v int) error { return setChannel(&p.a, "alpha", v) }

func setChannel(dst *uint8, name string, v int) error {
	if v < 0 || v > MaxChannel {
		return fmt.Errorf("%s value %d outside [0,%d]: %w", name, v, MaxChannel, ErrArgument)
	}
	*dst = uint8(v)
	return nil
}

// withRGB returns p with its color channels replaced and alpha kept.
// Callers pass values already clamped into [0,255].
func (p Pixel) withRGB(r, g, b int) Pixel {
	return Pixel{r: uint8(r), g: uint8(g), b: uint8(b), a: p.a}
}

func (p Pixel) String() string {
	return fmt.Sprintf("R: %d G: %d B: %d A: %d", p.r, p.g, p.b, p.a)
}

// clampChannel truncates v toward zero and clamps it into [0,255].
func clampChannel(v float64) int {
	i := int(v)
	if i < 0 {
		return 0
	}
	if i > MaxChannel {
		return MaxChannel
	}
	return i
}
