package raster

import (
	"fmt"
	"math"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// PaletteMethod selects how DominantColors groups pixels.
type PaletteMethod int

const (
	// PaletteHistogram quantizes every channel to multiples of 16 and counts.
	PaletteHistogram PaletteMethod = iota
	// PaletteDominant uses dominant-color extraction.
	PaletteDominant
	// PaletteKMeans clusters colors with k-means.
	PaletteKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteDominant:
		return "dominant"
	case PaletteKMeans:
		return "kmeans"
	default:
		return "histogram"
	}
}

// ParsePaletteMethod maps a method name to a PaletteMethod. The empty string
// selects PaletteHistogram.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "", "histogram":
		return PaletteHistogram, nil
	case "dominant":
		return PaletteDominant, nil
	case "kmeans":
		return PaletteKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q: %w", s, ErrArgument)
}

// ColorFrequency represents a color and its share of the raster.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB"
	Percentage float64  `json:"percentage"` // Share of pixels (0-100)
	RGB        RGBColor `json:"rgb"`
}

// DominantColorsResult holds colors sorted by frequency, most common first.
type DominantColorsResult struct {
	Method string           `json:"method"`
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors extracts up to count representative colors of the raster.
// Fully transparent pixels are ignored by the k-means method only.
func DominantColors(r *Raster, count int, method PaletteMethod) (*DominantColorsResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("color count %d must be positive: %w", count, ErrArgument)
	}

	var colors []ColorFrequency
	switch method {
	case PaletteDominant:
		colors = dominantPalette(r, count)
	case PaletteKMeans:
		var err error
		if colors, err = kmeansPalette(r, count); err != nil {
			return nil, err
		}
	default:
		colors = histogramPalette(r)
	}

	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].Percentage > colors[j].Percentage
	})
	if len(colors) > count {
		colors = colors[:count]
	}
	return &DominantColorsResult{Method: method.String(), Colors: colors}, nil
}

func frequency(r, g, b uint8, share float64) ColorFrequency {
	return ColorFrequency{
		Hex:        hexOf(r, g, b),
		Percentage: math.Round(share*1000) / 10,
		RGB:        RGBColor{R: r, G: g, B: b},
	}
}

func histogramPalette(r *Raster) []ColorFrequency {
	counts := make(map[RGBColor]int)
	for _, p := range r.pix {
		// Quantize to reduce color space (group similar colors)
		counts[RGBColor{R: p.r / 16 * 16, G: p.g / 16 * 16, B: p.b / 16 * 16}]++
	}
	total := float64(len(r.pix))
	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, frequency(c.R, c.G, c.B, float64(n)/total))
	}
	// Map iteration order is random; break ties by hex for stable output.
	sort.Slice(colors, func(i, j int) bool { return colors[i].Hex < colors[j].Hex })
	return colors
}

func dominantPalette(r *Raster, count int) []ColorFrequency {
	found := dominantcolor.FindWeight(r.ToNRGBA(), count)
	colors := make([]ColorFrequency, 0, len(found))
	for _, c := range found {
		colors = append(colors, frequency(c.RGBA.R, c.RGBA.G, c.RGBA.B, c.Weight))
	}
	return colors
}

func kmeansPalette(r *Raster, count int) ([]ColorFrequency, error) {
	dataset := make(clusters.Observations, 0, len(r.pix))
	for _, p := range r.pix {
		if p.a == 0 {
			continue
		}
		dataset = append(dataset, clusters.Coordinates{
			float64(p.r) / 255, float64(p.g) / 255, float64(p.b) / 255,
		})
	}
	if len(dataset) == 0 {
		return nil, nil
	}
	k := min(count, len(dataset))
	cc, err := kmeans.New().Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("kmeans partition: %w", err)
	}

	colors := make([]ColorFrequency, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		rgb := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		cr, cg, cb := rgb.RGB255()
		colors = append(colors, frequency(cr, cg, cb, float64(len(c.Observations))/float64(len(dataset))))
	}
	return colors, nil
}
