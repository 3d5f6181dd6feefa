package raster

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// createRedRamp creates a width x 1 raster whose red channel holds values
func createRedRamp(t *testing.T, values ...uint8) *Raster {
	t.Helper()
	cols := make([][]Pixel, len(values))
	for x, v := range values {
		cols[x] = []Pixel{RGBA(v, 0, 0, uint8(100+x))}
	}
	r, err := New(cols)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func reds(r *Raster) []int {
	out := make([]int, r.Width())
	for x := range out {
		p, _ := r.PixelAt(x, 0)
		out[x] = p.Red()
	}
	return out
}

func TestMosaic_EverySeedLeavesImageUnchanged(t *testing.T) {
	r := createPatternRaster(t, 6, 4)
	_ = r.SetPixelAt(3, 3, RGBA(7, 8, 9, 10))
	before := r.Clone()

	rng := rand.New(rand.NewPCG(1, 2))
	if err := r.MosaicRand(6*4, rng); err != nil {
		t.Fatalf("MosaicRand failed: %v", err)
	}
	if !r.Equal(before) {
		t.Error("mosaic with one seed per pixel changed the image")
	}
}

func TestMosaicSeeds_NearestSeed(t *testing.T) {
	r := createRedRamp(t, 0, 10, 20, 30)
	if err := r.MosaicSeeds([]Seed{{0, 0}, {3, 0}}); err != nil {
		t.Fatalf("MosaicSeeds failed: %v", err)
	}

	want := []int{5, 5, 25, 25}
	got := reds(r)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	// Alpha stays per pixel.
	if p, _ := r.PixelAt(3, 0); p.Alpha() != 103 {
		t.Errorf("alpha: got %d, want 103", p.Alpha())
	}
}

func TestMosaicSeeds_TieGoesToLastSeed(t *testing.T) {
	tests := []struct {
		name  string
		seeds []Seed
		want  []int
	}{
		{"right seed last", []Seed{{0, 0}, {2, 0}}, []int{0, 60, 60}},
		{"left seed last", []Seed{{2, 0}, {0, 0}}, []int{15, 15, 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := createRedRamp(t, 0, 30, 90)
			if err := r.MosaicSeeds(tt.seeds); err != nil {
				t.Fatalf("MosaicSeeds failed: %v", err)
			}
			got := reds(r)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMosaicSeeds_SameColorSeedsStayDistinct(t *testing.T) {
	// Two seeds share a color; each still owns its own neighborhood.
	r := createRedRamp(t, 50, 0, 200, 50)
	if err := r.MosaicSeeds([]Seed{{0, 0}, {3, 0}}); err != nil {
		t.Fatalf("MosaicSeeds failed: %v", err)
	}
	want := []int{25, 25, 125, 125}
	got := reds(r)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMosaicSeeds_DuplicatesCollapse(t *testing.T) {
	a := createRedRamp(t, 0, 30, 90)
	b := a.Clone()
	if err := a.MosaicSeeds([]Seed{{0, 0}, {0, 0}, {2, 0}}); err != nil {
		t.Fatalf("MosaicSeeds failed: %v", err)
	}
	if err := b.MosaicSeeds([]Seed{{0, 0}, {2, 0}}); err != nil {
		t.Fatalf("MosaicSeeds failed: %v", err)
	}
	if !a.Equal(b) {
		t.Error("duplicate seed changed the result")
	}
}

func TestMosaic_LimitsDistinctColors(t *testing.T) {
	r := createPatternRaster(t, 8, 8)
	rng := rand.New(rand.NewPCG(42, 7))
	if err := r.MosaicRand(3, rng); err != nil {
		t.Fatalf("MosaicRand failed: %v", err)
	}

	distinct := make(map[Pixel]bool)
	for _, col := range r.Pixels() {
		for _, p := range col {
			distinct[p] = true
		}
	}
	if len(distinct) > 3 {
		t.Errorf("got %d distinct colors, want at most 3", len(distinct))
	}
}

func TestMosaic_InvalidSeeds(t *testing.T) {
	r := createPatternRaster(t, 4, 4)

	for _, n := range []int{0, -1, 17} {
		if err := r.Mosaic(n); !errors.Is(err, ErrArgument) {
			t.Errorf("Mosaic(%d): got %v, want ErrArgument", n, err)
		}
	}
	if err := r.MosaicSeeds(nil); !errors.Is(err, ErrArgument) {
		t.Errorf("no seeds: got %v, want ErrArgument", err)
	}
	if err := r.MosaicSeeds([]Seed{{4, 0}}); !errors.Is(err, ErrArgument) {
		t.Errorf("out-of-bounds seed: got %v, want ErrArgument", err)
	}
}

func TestPickSeeds_Distinct(t *testing.T) {
	r := createPatternRaster(t, 5, 3)
	rng := rand.New(rand.NewPCG(3, 4))
	seeds := r.pickSeeds(15, rng)

	seen := make(map[Seed]bool)
	for _, s := range seeds {
		if !r.inBounds(s.X, s.Y) {
			t.Fatalf("seed %v out of bounds", s)
		}
		if seen[s] {
			t.Fatalf("seed %v picked twice", s)
		}
		seen[s] = true
	}
	if len(seen) != 15 {
		t.Errorf("got %d seeds, want 15", len(seen))
	}
}
