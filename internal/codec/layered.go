package codec

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/layer-editor/internal/layers"
	"github.com/ironsheep/layer-editor/internal/raster"
)

// ManifestName is the file listing a layered directory's contents.
const ManifestName = "layers.txt"

// ExportLayered writes every layer of s into dir as <name>.<ext>, plus the
// layers.txt manifest. Layers that share a name overwrite each other.
func ExportLayered(dir string, s *layers.Stack, ft FileType) error {
	if s == nil {
		return fmt.Errorf("stack is nil: %w", raster.ErrArgument)
	}
	if _, err := ft.imagingFormat(); err != nil && ft != PPM {
		return err
	}
	all := s.Layers()
	for _, l := range all {
		if err := checkLayerName(l.Name); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create layer directory: %w", err)
	}

	var manifest strings.Builder
	manifest.WriteString(ft.String() + "\n")
	for _, l := range all {
		if _, err := Export(filepath.Join(dir, l.Name+"."+ft.String()), l.Raster(), ft); err != nil {
			return fmt.Errorf("layer %q: %w", l.Name, err)
		}
		manifest.WriteString(l.Name + "\n")
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ImportLayered reads a directory written by ExportLayered into a new
// Stack, numbering layers from 1 and making the first one current.
func ImportLayered(dir string, opts ...layers.Option) (*layers.Stack, error) {
	f, err := os.Open(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	var ft FileType
	var loaded []*layers.Layer
	header := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if header {
			if ft, err = ParseFileType(line); err != nil {
				return nil, fmt.Errorf("manifest: %w", err)
			}
			header = false
			continue
		}
		if err := checkLayerName(line); err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		img, err := Import(filepath.Join(dir, line+"."+ft.String()))
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", line, err)
		}
		l, err := layers.NewLayer(len(loaded)+1, line, img)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if header {
		return nil, fmt.Errorf("manifest is empty: %w", raster.ErrArgument)
	}
	return layers.New(loaded, opts...)
}

// ExportTopmost writes the layer that is both current and visible to path.
// It writes nothing and returns ErrNoTopmost when there is no such layer.
func ExportTopmost(path string, s *layers.Stack, ft FileType) (string, error) {
	if s == nil {
		return "", fmt.Errorf("stack is nil: %w", raster.ErrArgument)
	}
	img, ok := s.Topmost()
	if !ok {
		return "", ErrNoTopmost
	}
	return Export(path, img, ft)
}

func checkLayerName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("layer name %q cannot be used as a file name: %w", name, raster.ErrArgument)
	}
	return nil
}
