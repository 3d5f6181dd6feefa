package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/layer-editor/internal/raster"
)

// decodePPM reads a plain "P3" PPM. Lines starting with '#' are skipped.
// Samples are rescaled to 0-255 when maxval differs and alpha is opaque.
func decodePPM(r io.Reader) (*raster.Raster, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	var tokens []string
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ppm: %w", err)
	}

	if len(tokens) < 4 || tokens[0] != "P3" {
		return nil, fmt.Errorf("invalid ppm: plain ppm must begin with P3: %w", raster.ErrArgument)
	}
	header := make([]int, 3)
	for i := range header {
		v, err := strconv.Atoi(tokens[i+1])
		if err != nil || v < 1 {
			return nil, fmt.Errorf("invalid ppm header value %q: %w", tokens[i+1], raster.ErrArgument)
		}
		header[i] = v
	}
	width, height, maxval := header[0], header[1], header[2]
	if err := checkImageSize(int64(width), int64(height)); err != nil {
		return nil, fmt.Errorf("invalid ppm: %w", err)
	}
	samples := tokens[4:]
	if len(samples) < width*height*3 {
		return nil, fmt.Errorf("invalid ppm: %d samples for %dx%d image: %w",
			len(samples), width, height, raster.ErrArgument)
	}

	cols := make([][]raster.Pixel, width)
	for x := range cols {
		cols[x] = make([]raster.Pixel, height)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rgb [3]int
			for c := range rgb {
				s := samples[(y*width+x)*3+c]
				v, err := strconv.Atoi(s)
				if err != nil || v < 0 || v > maxval {
					return nil, fmt.Errorf("invalid ppm sample %q at (%d,%d): %w", s, x, y, raster.ErrArgument)
				}
				rgb[c] = v * raster.MaxChannel / maxval
			}
			p, err := raster.NewPixel(rgb[0], rgb[1], rgb[2], raster.MaxChannel)
			if err != nil {
				return nil, err
			}
			cols[x][y] = p
		}
	}
	return raster.New(cols)
}

// encodePPM writes img as a plain "P3" PPM with maxval 255, one image row
// per line. Alpha is not stored.
func encodePPM(w io.Writer, img *raster.Raster) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n%d\n", img.Width(), img.Height(), raster.MaxChannel)
	cols := img.Pixels()
	for y := 0; y < img.Height(); y++ {
		for x := range cols {
			p := cols[x][y]
			if x > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d %d %d", p.Red(), p.Green(), p.Blue())
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write ppm: %w", err)
	}
	return nil
}
