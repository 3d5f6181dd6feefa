package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ironsheep/layer-editor/internal/raster"
)

// DefaultGridColor is semi-transparent red.
const DefaultGridColor = "#FF000080"

var (
	labelFg = color.RGBA{255, 255, 255, 255}
	labelBg = color.RGBA{0, 0, 0, 180}
)

// drawGrid draws lines every spacing source pixels over dst, where scale is
// the ratio of dst's width to the source width.
func drawGrid(dst *image.RGBA, spacing int, scale float64, labels bool, c color.RGBA) {
	b := dst.Bounds()
	line := image.NewUniform(c)

	var xs, ys []int
	for src := spacing; ; src += spacing {
		x := int(float64(src) * scale)
		if x >= b.Dx() {
			break
		}
		xs = append(xs, src)
		draw.Draw(dst, image.Rect(x, 0, x+1, b.Dy()), line, image.Point{}, draw.Over)
	}
	for src := spacing; ; src += spacing {
		y := int(float64(src) * scale)
		if y >= b.Dy() {
			break
		}
		ys = append(ys, src)
		draw.Draw(dst, image.Rect(0, y, b.Dx(), y+1), line, image.Point{}, draw.Over)
	}

	if !labels {
		return
	}
	for _, sy := range ys {
		for _, sx := range xs {
			x, y := int(float64(sx)*scale), int(float64(sy)*scale)
			drawLabel(dst, x+2, y+2, fmt.Sprintf("%d,%d", sx, sy))
		}
	}
}

// 3x5 glyphs for digits and the comma.
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

const glyphAdvance = 4

func drawLabel(dst *image.RGBA, x, y int, text string) {
	bg := image.Rect(x-1, y-1, x+len(text)*glyphAdvance, y+7).Intersect(dst.Bounds())
	draw.Draw(dst, bg, image.NewUniform(labelBg), image.Point{}, draw.Over)

	for i, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			continue
		}
		cx := x + i*glyphAdvance
		for row, bits := range glyph {
			for col, bit := range bits {
				if bit == '1' && image.Pt(cx+col, y+row).In(dst.Bounds()) {
					dst.SetRGBA(cx+col, y+row, labelFg)
				}
			}
		}
	}
}

// parseGridColor parses "#RRGGBB" or "#RRGGBBAA"; the leading '#' is optional.
func parseGridColor(hex string) (color.RGBA, error) {
	if hex == "" {
		hex = DefaultGridColor
	}
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) == 6 {
		digits += "ff"
	}
	val, err := strconv.ParseUint(digits, 16, 32)
	if len(digits) != 8 || err != nil {
		return color.RGBA{}, fmt.Errorf("grid color %q is not #RRGGBB or #RRGGBBAA: %w", hex, raster.ErrArgument)
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}
