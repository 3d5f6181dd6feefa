package raster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BlurKernel returns the 3x3 Gaussian-style blur kernel. Its weights sum to 1.
//
//	1/16 1/8 1/16
//	1/8  1/4 1/8
//	1/16 1/8 1/16
func BlurKernel() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1.0 / 16, 1.0 / 8, 1.0 / 16,
		1.0 / 8, 1.0 / 4, 1.0 / 8,
		1.0 / 16, 1.0 / 8, 1.0 / 16,
	})
}

// SharpenKernel returns the 5x5 sharpening kernel. Its weights sum to 1.
func SharpenKernel() *mat.Dense {
	const e = -1.0 / 8
	const q = 1.0 / 4
	return mat.NewDense(5, 5, []float64{
		e, e, e, e, e,
		e, q, q, q, e,
		e, q, 1, q, e,
		e, q, q, q, e,
		e, e, e, e, e,
	})
}

// Blur convolves the raster with BlurKernel.
func (r *Raster) Blur() error {
	return r.Convolve(BlurKernel())
}

// Sharpen convolves the raster with SharpenKernel.
func (r *Raster) Sharpen() error {
	return r.Convolve(SharpenKernel())
}

// Convolve applies an odd-sized square kernel to the R, G and B channels of
// every pixel. Row ky of the kernel weighs the neighbor at vertical offset
// ky-n/2, column kx the neighbor at horizontal offset kx-n/2. Neighbors
// outside the raster contribute 0. Each weighted sum is truncated toward
// zero and clamped into [0,255]; alpha is passed through.
//
// The kernel is validated before anything is written, so a rejected kernel
// leaves the raster untouched.
func (r *Raster) Convolve(kernel mat.Matrix) error {
	if kernel == nil {
		return fmt.Errorf("kernel is nil: %w", ErrArgument)
	}
	rows, cols := kernel.Dims()
	if rows != cols {
		return fmt.Errorf("kernel must be square, got %dx%d: %w", rows, cols, ErrArgument)
	}
	if rows%2 == 0 {
		return fmt.Errorf("kernel size %d must be odd: %w", rows, ErrArgument)
	}

	half := rows / 2
	out := make([]Pixel, len(r.pix))
	for x := 0; x < r.width; x++ {
		for y := 0; y < r.height; y++ {
			var sumR, sumG, sumB float64
			for ky := 0; ky < rows; ky++ {
				sy := y + ky - half
				if sy < 0 || sy >= r.height {
					continue
				}
				for kx := 0; kx < cols; kx++ {
					sx := x + kx - half
					if sx < 0 || sx >= r.width {
						continue
					}
					w := kernel.At(ky, kx)
					p := r.at(sx, sy)
					sumR += float64(p.r) * w
					sumG += float64(p.g) * w
					sumB += float64(p.b) * w
				}
			}
			out[x*r.height+y] = r.at(x, y).withRGB(clampChannel(sumR), clampChannel(sumG), clampChannel(sumB))
		}
	}
	r.pix = out
	return nil
}
