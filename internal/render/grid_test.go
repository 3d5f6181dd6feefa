package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/layer-editor/internal/raster"
)

// createBlackRaster creates an opaque black raster
func createBlackRaster(t *testing.T, width, height int) *raster.Raster {
	t.Helper()
	img, err := raster.Filled(width, height, raster.Opaque(0, 0, 0))
	if err != nil {
		t.Fatalf("Filled failed: %v", err)
	}
	return img
}

func TestPreview_GridLines(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	black := color.RGBA{0, 0, 0, 255}

	tests := []struct {
		name    string
		w, h    int
		maxSize int
		on, off image.Point
	}{
		{"full size", 100, 100, 0, image.Pt(25, 50), image.Pt(15, 15)},
		// 200x100 shrinks by half, so source x=50 lands on x=25.
		{"scaled", 200, 100, 100, image.Pt(25, 10), image.Pt(10, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Preview(createBlackRaster(t, tt.w, tt.h), Options{
				MaxSize:     tt.maxSize,
				GridSpacing: 25 * tt.w / 100,
				GridColor:   "#FF0000FF",
			})
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			rgba := out.(*image.RGBA)
			if got := rgba.RGBAAt(tt.on.X, tt.on.Y); got != red {
				t.Errorf("grid line at %v: got %v, want %v", tt.on, got, red)
			}
			if got := rgba.RGBAAt(tt.off.X, tt.off.Y); got != black {
				t.Errorf("background at %v: got %v, want %v", tt.off, got, black)
			}
		})
	}
}

func TestPreview_GridLabels(t *testing.T) {
	out, err := Preview(createBlackRaster(t, 60, 60), Options{GridSpacing: 25, GridLabels: true})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	// Top-left stroke of the "2" in "25,25".
	if got := out.(*image.RGBA).RGBAAt(27, 27); got != labelFg {
		t.Errorf("label pixel: got %v, want %v", got, labelFg)
	}
}

func TestParseGridColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"", color.RGBA{255, 0, 0, 128}},
		{"#00FF00", color.RGBA{0, 255, 0, 255}},
		{"0000ff40", color.RGBA{0, 0, 255, 64}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseGridColor(tt.in)
			if err != nil {
				t.Fatalf("parseGridColor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, bad := range []string{"#FFF", "#GGGGGG", "#FF00FF00FF"} {
		if _, err := parseGridColor(bad); !errors.Is(err, raster.ErrArgument) {
			t.Errorf("%q: got %v, want ErrArgument", bad, err)
		}
	}
}
