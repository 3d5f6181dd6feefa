package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/layer-editor/internal/raster"
)

// jpegQuality matches the quality the imaging library uses by default.
const jpegQuality = 95

// maxImagePixels bounds the size declared by a PPM header or bundle record.
const maxImagePixels = 1 << 26

// readChunk caps up-front allocation while reading declared dimensions.
const readChunk = 4096

// checkImageSize rejects non-positive dimensions and images larger than
// maxImagePixels. The product is never formed unchecked.
func checkImageSize(width, height int64) error {
	if width < 1 || height < 1 || width > maxImagePixels/height {
		return fmt.Errorf("image size %dx%d outside 1..%d pixels: %w",
			width, height, int64(maxImagePixels), raster.ErrArgument)
	}
	return nil
}

// Decode reads one image of type ft from r.
func Decode(r io.Reader, ft FileType) (*raster.Raster, error) {
	if ft == PPM {
		return decodePPM(r)
	}
	if _, err := ft.imagingFormat(); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %v image: %w", ft, err)
	}
	return raster.FromImage(imaging.Clone(img))
}

// Encode writes img to w as type ft. JPEG output is opaque: alpha is
// discarded rather than blended.
func Encode(w io.Writer, img *raster.Raster, ft FileType) error {
	if img == nil {
		return fmt.Errorf("raster is nil: %w", raster.ErrArgument)
	}
	if ft == PPM {
		return encodePPM(w, img)
	}
	format, err := ft.imagingFormat()
	if err != nil {
		return err
	}

	nrgba := img.ToNRGBA()
	if format == imaging.JPEG {
		for i := 3; i < len(nrgba.Pix); i += 4 {
			nrgba.Pix[i] = 0xff
		}
	}
	if err := imaging.Encode(w, nrgba, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to encode %v image: %w", ft, err)
	}
	return nil
}

// Import reads the image at path, choosing the decoder from its extension.
func Import(path string) (*raster.Raster, error) {
	ft, err := FileTypeOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := Decode(f, ft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Export writes img to path as type ft, appending the extension if path
// does not already end with it. It returns the path written.
func Export(path string, img *raster.Raster, ft FileType) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), "."+ft.String()) {
		path += "." + ft.String()
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if err := Encode(f, img, ft); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
