package raster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// GreyscaleMatrix maps every pixel to its Rec. 709 luma on all three
// channels. Row i holds the weights of input channel i, column j feeds
// output channel j.
func GreyscaleMatrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0.2126, 0.2126, 0.2126,
		0.7152, 0.7152, 0.7152,
		0.0722, 0.0722, 0.0722,
	})
}

// SepiaMatrix is the classic sepia tone map, laid out like GreyscaleMatrix.
func SepiaMatrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0.393, 0.349, 0.272,
		0.769, 0.686, 0.534,
		0.189, 0.168, 0.131,
	})
}

// Greyscale replaces every pixel's color with its luma.
func (r *Raster) Greyscale() error {
	return r.ColorTransform(GreyscaleMatrix())
}

// Sepia tints the raster with SepiaMatrix.
func (r *Raster) Sepia() error {
	return r.ColorTransform(SepiaMatrix())
}

// ColorTransform applies a 3x3 linear map to each pixel's (R,G,B) vector:
// output channel j is the sum over input channels i of m[i][j]*in[i],
// truncated toward zero and clamped into [0,255]. Alpha is untouched.
func (r *Raster) ColorTransform(m mat.Matrix) error {
	if m == nil {
		return fmt.Errorf("color matrix is nil: %w", ErrArgument)
	}
	if rows, cols := m.Dims(); rows != 3 || cols != 3 {
		return fmt.Errorf("color matrix must be 3x3, got %dx%d: %w", rows, cols, ErrArgument)
	}

	t := m.T()
	in := mat.NewVecDense(3, nil)
	var out mat.VecDense
	for i, p := range r.pix {
		in.SetVec(0, float64(p.r))
		in.SetVec(1, float64(p.g))
		in.SetVec(2, float64(p.b))
		out.MulVec(t, in)
		r.pix[i] = p.withRGB(clampChannel(out.AtVec(0)), clampChannel(out.AtVec(1)), clampChannel(out.AtVec(2)))
	}
	return nil
}
