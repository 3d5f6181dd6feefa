package raster

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGreyscale_ChannelsEqual(t *testing.T) {
	r := createPatternRaster(t, 8, 8)
	_ = r.SetPixelAt(1, 1, RGBA(10, 200, 30, 77))
	if err := r.Greyscale(); err != nil {
		t.Fatalf("Greyscale failed: %v", err)
	}

	for x := 0; x < r.Width(); x++ {
		for y := 0; y < r.Height(); y++ {
			p, _ := r.PixelAt(x, y)
			if p.Red() != p.Green() || p.Green() != p.Blue() {
				t.Fatalf("(%d,%d) not grey: %v", x, y, p)
			}
		}
	}

	// 0.2126*10 + 0.7152*200 + 0.0722*30 = 147.332
	p, _ := r.PixelAt(1, 1)
	if p.Red() != 147 {
		t.Errorf("luma: got %d, want 147", p.Red())
	}
	if p.Alpha() != 77 {
		t.Errorf("alpha: got %d, want 77", p.Alpha())
	}
}

func TestSepia(t *testing.T) {
	tests := []struct {
		name    string
		in      Pixel
		r, g, b int
	}{
		{"mid grey", Opaque(100, 100, 100), 135, 120, 93},
		{"black", Opaque(0, 0, 0), 0, 0, 0},
		{"clamped", Opaque(200, 200, 200), 255, 240, 187},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := createFilledRaster(t, 2, 2, tt.in)
			if err := r.Sepia(); err != nil {
				t.Fatalf("Sepia failed: %v", err)
			}
			p, _ := r.PixelAt(1, 1)
			if p.Red() != tt.r || p.Green() != tt.g || p.Blue() != tt.b {
				t.Errorf("got %v, want (%d,%d,%d)", p, tt.r, tt.g, tt.b)
			}
			if p.Alpha() != 255 {
				t.Errorf("alpha changed to %d", p.Alpha())
			}
		})
	}
}

func TestColorTransform_InvalidMatrix(t *testing.T) {
	tests := []struct {
		name string
		m    mat.Matrix
	}{
		{"nil", nil},
		{"2x3", mat.NewDense(2, 3, nil)},
		{"4x4", mat.NewDense(4, 4, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := createPatternRaster(t, 4, 4)
			if err := r.ColorTransform(tt.m); !errors.Is(err, ErrArgument) {
				t.Errorf("got %v, want ErrArgument", err)
			}
		})
	}
}
