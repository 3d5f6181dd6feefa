package raster

import (
	"fmt"
	"math/rand/v2"
)

// Seed is a mosaic seed coordinate.
type Seed struct {
	X, Y int
}

// Mosaic picks seeds distinct random coordinates and replaces the color of
// every pixel with the mean color of the group of pixels sharing its
// nearest seed. It fails with ErrArgument unless 1 <= seeds <= width*height.
//
// Seeds are drawn without replacement rather than with it, so no two seeds
// share a pixel and asking for width*height seeds leaves the image as is.
func (r *Raster) Mosaic(seeds int) error {
	return r.MosaicRand(seeds, nil)
}

// MosaicRand is Mosaic with an explicit random source; a nil rng uses the
// package-level generator.
func (r *Raster) MosaicRand(seeds int, rng *rand.Rand) error {
	if seeds < 1 || seeds > r.width*r.height {
		return fmt.Errorf("seed count %d outside [1,%d]: %w", seeds, r.width*r.height, ErrArgument)
	}
	return r.MosaicSeeds(r.pickSeeds(seeds, rng))
}

// pickSeeds draws n distinct pixel indices by a partial Fisher-Yates
// shuffle, so asking for every pixel yields every pixel.
func (r *Raster) pickSeeds(n int, rng *rand.Rand) []Seed {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	total := r.width * r.height
	swapped := make(map[int]int, n)
	lookup := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	seeds := make([]Seed, 0, n)
	for i := 0; i < n; i++ {
		j := i + intN(total-i)
		vi, vj := lookup(i), lookup(j)
		swapped[i], swapped[j] = vj, vi
		seeds = append(seeds, Seed{X: vj / r.height, Y: vj % r.height})
	}
	return seeds
}

// MosaicSeeds runs the segmenter with caller-chosen seeds. Seeds are
// evaluated in slice order and a pixel equidistant from several seeds joins
// the one evaluated last. Repeated coordinates collapse into the first
// occurrence. Each group's R, G and B become the truncated mean over the
// group; alpha is unchanged per pixel.
func (r *Raster) MosaicSeeds(seeds []Seed) error {
	if len(seeds) == 0 {
		return fmt.Errorf("at least one seed is required: %w", ErrArgument)
	}
	unique := make([]Seed, 0, len(seeds))
	seen := make(map[Seed]bool, len(seeds))
	for _, s := range seeds {
		if !r.inBounds(s.X, s.Y) {
			return fmt.Errorf("seed (%d,%d) outside %dx%d raster: %w", s.X, s.Y, r.width, r.height, ErrArgument)
		}
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}

	type sum struct{ r, g, b, n int }
	sums := make([]sum, len(unique))
	owner := make([]int, len(r.pix))
	for x := 0; x < r.width; x++ {
		for y := 0; y < r.height; y++ {
			best, bestDist := 0, -1
			for k, s := range unique {
				dx, dy := s.X-x, s.Y-y
				d := dx*dx + dy*dy
				if bestDist < 0 || d <= bestDist {
					best, bestDist = k, d
				}
			}
			idx := x*r.height + y
			owner[idx] = best
			p := r.pix[idx]
			sums[best].r += int(p.r)
			sums[best].g += int(p.g)
			sums[best].b += int(p.b)
			sums[best].n++
		}
	}

	for idx, k := range owner {
		s := sums[k]
		r.pix[idx] = r.pix[idx].withRGB(s.r/s.n, s.g/s.n, s.b/s.n)
	}
	return nil
}
