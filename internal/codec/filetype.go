package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/layer-editor/internal/raster"
)

var (
	// ErrUnknownFileType reports an unsupported file type or extension.
	ErrUnknownFileType = fmt.Errorf("unknown file type: %w", raster.ErrArgument)

	// ErrNoTopmost reports that no layer is both current and visible, so
	// there is nothing to export.
	ErrNoTopmost = errors.New("no layer is both current and visible")

	// ErrBadBundle reports a layer bundle that cannot be parsed.
	ErrBadBundle = errors.New("malformed layer bundle")
)

// FileType is an image file format.
type FileType int

const (
	JPG FileType = iota
	JPEG
	PNG
	BMP
	GIF
	TIFF
	PPM
)

var fileTypeNames = [...]string{
	JPG:  "jpg",
	JPEG: "jpeg",
	PNG:  "png",
	BMP:  "bmp",
	GIF:  "gif",
	TIFF: "tiff",
	PPM:  "ppm",
}

// String returns the file extension without a dot.
func (ft FileType) String() string {
	if ft < 0 || int(ft) >= len(fileTypeNames) {
		return fmt.Sprintf("FileType(%d)", int(ft))
	}
	return fileTypeNames[ft]
}

// ParseFileType maps an extension such as "png" or ".JPG" to a FileType.
func ParseFileType(s string) (FileType, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	if s == "tif" {
		return TIFF, nil
	}
	for ft, name := range fileTypeNames {
		if s == name {
			return FileType(ft), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownFileType)
}

// FileTypeOf returns the FileType named by path's extension.
func FileTypeOf(path string) (FileType, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%s has no extension: %w", path, ErrUnknownFileType)
	}
	return ParseFileType(ext)
}

func (ft FileType) imagingFormat() (imaging.Format, error) {
	switch ft {
	case JPG, JPEG:
		return imaging.JPEG, nil
	case PNG:
		return imaging.PNG, nil
	case BMP:
		return imaging.BMP, nil
	case GIF:
		return imaging.GIF, nil
	case TIFF:
		return imaging.TIFF, nil
	}
	return 0, fmt.Errorf("%v has no imaging encoder: %w", ft, ErrUnknownFileType)
}
