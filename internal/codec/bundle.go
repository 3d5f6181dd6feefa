package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/layer-editor/internal/layers"
	"github.com/ironsheep/layer-editor/internal/raster"
)

// BundleExt is the conventional extension of a layer bundle file.
const BundleExt = ".lyrz"

var bundleMagic = [4]byte{'L', 'Y', 'R', '1'}

// bundleHeader follows the magic. Current is -1 when no layer is current.
type bundleHeader struct {
	Layers  uint32
	Current int32
}

type layerHeader struct {
	Number  int32
	NameLen uint16
	Visible uint8
	Width   uint32
	Height  uint32
}

// WriteBundle writes every layer of s to w as one zstd-compressed stream.
// Pixels are stored column by column as R, G, B, A bytes.
func WriteBundle(w io.Writer, s *layers.Stack) error {
	if s == nil {
		return fmt.Errorf("stack is nil: %w", raster.ErrArgument)
	}
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return fmt.Errorf("zstd encoder: %w", err)
	}
	bw := bufio.NewWriter(enc)

	current, ok := s.Current()
	if !ok {
		current = -1
	}
	all := s.Layers()
	writeErr := func() error {
		if _, err := bw.Write(bundleMagic[:]); err != nil {
			return err
		}
		hdr := bundleHeader{Layers: uint32(len(all)), Current: int32(current)}
		if err := binary.Write(bw, binary.BigEndian, hdr); err != nil {
			return err
		}
		for _, l := range all {
			if len(l.Name) > math.MaxUint16 {
				return fmt.Errorf("layer name of %d bytes is too long: %w", len(l.Name), raster.ErrArgument)
			}
			img := l.Raster()
			lh := layerHeader{
				Number:  int32(l.Number),
				NameLen: uint16(len(l.Name)),
				Width:   uint32(img.Width()),
				Height:  uint32(img.Height()),
			}
			if l.Visible {
				lh.Visible = 1
			}
			if err := binary.Write(bw, binary.BigEndian, lh); err != nil {
				return err
			}
			if _, err := bw.WriteString(l.Name); err != nil {
				return err
			}
			for _, col := range img.Pixels() {
				for _, p := range col {
					px := [4]byte{uint8(p.Red()), uint8(p.Green()), uint8(p.Blue()), uint8(p.Alpha())}
					if _, err := bw.Write(px[:]); err != nil {
						return err
					}
				}
			}
		}
		return bw.Flush()
	}()
	if writeErr != nil {
		enc.Close()
		return fmt.Errorf("failed to write bundle: %w", writeErr)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}

// ReadBundle reads a stream written by WriteBundle. Visibility, layer
// numbers and the current layer are restored as saved on the returned
// stack. Passing it to Stack.ReplaceLayeredImage selects its first layer.
func ReadBundle(r io.Reader, opts ...layers.Option) (*layers.Stack, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}
	if magic != bundleMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadBundle, magic[:])
	}
	var hdr bundleHeader
	if err := binary.Read(br, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}
	if hdr.Layers == 0 || int64(hdr.Current) >= int64(hdr.Layers) {
		return nil, fmt.Errorf("%w: %d layers with current %d", ErrBadBundle, hdr.Layers, hdr.Current)
	}

	loaded := make([]*layers.Layer, 0, min(hdr.Layers, 1024))
	for i := uint32(0); i < hdr.Layers; i++ {
		l, err := readBundleLayer(br)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		loaded = append(loaded, l)
	}
	opts = append([]layers.Option{layers.WithCurrent(int(hdr.Current))}, opts...)
	return layers.New(loaded, opts...)
}

func readBundleLayer(br *bufio.Reader) (*layers.Layer, error) {
	var lh layerHeader
	if err := binary.Read(br, binary.BigEndian, &lh); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}
	if err := checkImageSize(int64(lh.Width), int64(lh.Height)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}
	name := make([]byte, lh.NameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}

	// Columns grow as pixel bytes arrive, so a truncated stream with a large
	// header fails before it can reserve the whole image.
	width, height := int(lh.Width), int(lh.Height)
	cols := make([][]raster.Pixel, 0, min(width, readChunk))
	var px [4]byte
	for x := 0; x < width; x++ {
		col := make([]raster.Pixel, 0, min(height, readChunk))
		for y := 0; y < height; y++ {
			if _, err := io.ReadFull(br, px[:]); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadBundle, err)
			}
			col = append(col, raster.RGBA(px[0], px[1], px[2], px[3]))
		}
		cols = append(cols, col)
	}
	img, err := raster.New(cols)
	if err != nil {
		return nil, err
	}
	l, err := layers.NewLayer(int(lh.Number), string(name), img)
	if err != nil {
		return nil, err
	}
	l.Visible = lh.Visible != 0
	return l, nil
}
