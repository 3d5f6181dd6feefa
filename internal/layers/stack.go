package layers

import (
	"fmt"
	"math/rand/v2"

	"github.com/ironsheep/layer-editor/internal/raster"
)

// noCurrent marks a stack with no current layer.
const noCurrent = -1

// Stack is an ordered sequence of layers with at most one current layer.
type Stack struct {
	layers  []*Layer
	current int

	blankWidth  int
	blankHeight int
	rng         *rand.Rand
}

// Option configures a Stack.
type Option func(*Stack)

// WithBlankSize sets the size of the blank raster given to layers created
// by AddLayer. The default is raster.DefaultBlankSize on both sides.
func WithBlankSize(width, height int) Option {
	return func(s *Stack) {
		s.blankWidth, s.blankHeight = width, height
	}
}

// WithRand sets the random source used to place mosaic seeds.
func WithRand(rng *rand.Rand) Option {
	return func(s *Stack) {
		s.rng = rng
	}
}

// WithCurrent selects the current layer by index instead of the first one.
// A negative index leaves the stack with no current layer.
func WithCurrent(index int) Option {
	return func(s *Stack) {
		s.current = max(index, noCurrent)
	}
}

// New builds a Stack holding copies of layers. The first layer becomes
// current. It fails with ErrInvariant if layers is empty.
func New(layers []*Layer, opts ...Option) (*Stack, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("stack needs at least one layer: %w", ErrInvariant)
	}
	s := &Stack{
		layers:      make([]*Layer, 0, len(layers)),
		blankWidth:  raster.DefaultBlankSize,
		blankHeight: raster.DefaultBlankSize,
	}
	for i, l := range layers {
		if l == nil || l.raster == nil {
			return nil, fmt.Errorf("layer %d is nil: %w", i, ErrArgument)
		}
		s.layers = append(s.layers, l.clone())
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.current >= len(s.layers) {
		return nil, fmt.Errorf("current index %d outside stack of %d layers: %w",
			s.current, len(s.layers), ErrArgument)
	}
	return s, nil
}

// NewBlank returns a Stack with one blank layer called name.
func NewBlank(name string, opts ...Option) (*Stack, error) {
	s := &Stack{blankWidth: raster.DefaultBlankSize, blankHeight: raster.DefaultBlankSize}
	for _, opt := range opts {
		opt(s)
	}
	blank, err := raster.Blank(s.blankWidth, s.blankHeight)
	if err != nil {
		return nil, fmt.Errorf("create blank layer %q: %w", name, err)
	}
	s.layers = []*Layer{{Number: 1, Name: name, Visible: true, raster: blank}}
	s.current = 0
	return s, nil
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Current returns the index of the current layer, if any.
func (s *Stack) Current() (int, bool) {
	if s.currentLayer() == nil {
		return noCurrent, false
	}
	return s.current, true
}

// Names returns the layer names in stack order.
func (s *Stack) Names() []string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.Name
	}
	return names
}

// Layers returns copies of every layer in stack order.
func (s *Stack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	for i := range s.layers {
		out[i] = s.snapshot(i)
	}
	return out
}

// Summary describes one layer without its pixels.
type Summary struct {
	Number  int
	Name    string
	Width   int
	Height  int
	Visible bool
	Current bool
}

// Summaries describes every layer in stack order. Unlike Layers it copies
// no pixel data.
func (s *Stack) Summaries() []Summary {
	out := make([]Summary, len(s.layers))
	for i, l := range s.layers {
		out[i] = Summary{
			Number:  l.Number,
			Name:    l.Name,
			Width:   l.raster.Width(),
			Height:  l.raster.Height(),
			Visible: l.Visible,
			Current: i == s.current,
		}
	}
	return out
}

// LayerAt returns a copy of the layer at index i.
func (s *Stack) LayerAt(i int) (*Layer, error) {
	if i < 0 || i >= len(s.layers) {
		return nil, fmt.Errorf("layer index %d outside [0,%d): %w", i, len(s.layers), ErrArgument)
	}
	return s.snapshot(i), nil
}

// SetLayerAt replaces the layer at index i with a copy of l. The current
// index is positional and is not changed.
func (s *Stack) SetLayerAt(i int, l *Layer) error {
	if i < 0 || i >= len(s.layers) {
		return fmt.Errorf("layer index %d outside [0,%d): %w", i, len(s.layers), ErrArgument)
	}
	if l == nil || l.raster == nil {
		return fmt.Errorf("layer is nil: %w", ErrArgument)
	}
	c := l.clone()
	c.current = false
	s.layers[i] = c
	return nil
}

// SetCurrent makes the first layer called name current. If none matches,
// the stack is left with no current layer and ErrNotFound is returned.
func (s *Stack) SetCurrent(name string) error {
	i := s.index(name)
	s.current = i
	if i == noCurrent {
		return fmt.Errorf("set current %q: %w", name, ErrNotFound)
	}
	return nil
}

// AddLayer appends a blank opaque layer called name and makes it current.
// Duplicate names are accepted.
func (s *Stack) AddLayer(name string) error {
	blank, err := raster.Blank(s.blankWidth, s.blankHeight)
	if err != nil {
		return fmt.Errorf("add layer %q: %w", name, err)
	}
	s.layers = append(s.layers, &Layer{
		Number:  len(s.layers) + 1,
		Name:    name,
		Visible: true,
		raster:  blank,
	})
	s.current = len(s.layers) - 1
	return nil
}

// RemoveLayer removes every layer called name. If the current layer is
// among them the stack is left with no current layer.
func (s *Stack) RemoveLayer(name string) error {
	kept := make([]*Layer, 0, len(s.layers))
	current := s.current
	for i, l := range s.layers {
		if l.Name == name {
			if i == s.current {
				current = noCurrent
			} else if i < s.current && current != noCurrent {
				current--
			}
			continue
		}
		kept = append(kept, l)
	}
	switch {
	case len(kept) == len(s.layers):
		return fmt.Errorf("remove %q: %w", name, ErrNotFound)
	case len(kept) == 0:
		return fmt.Errorf("remove %q: cannot remove the last layer: %w", name, ErrInvariant)
	}
	s.layers = kept
	s.current = current
	return nil
}

// SetInvisible hides every layer called name, in stack order: each one is
// made invisible, its alpha is zeroed, and the layer after it becomes
// current. It fails with ErrInvariant, changing nothing, if a match is the
// last layer.
func (s *Stack) SetInvisible(name string) error {
	var matches []int
	for i, l := range s.layers {
		if l.Name == name {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return fmt.Errorf("set invisible %q: %w", name, ErrNotFound)
	}
	if matches[len(matches)-1] == len(s.layers)-1 {
		return fmt.Errorf("set invisible %q: cannot make last layer invisible: %w", name, ErrInvariant)
	}
	for _, i := range matches {
		l := s.layers[i]
		l.Visible = false
		l.raster.MakeTransparent()
		s.current = i + 1
	}
	return nil
}

// ReplaceLayeredImage replaces every layer with copies of other's layers
// and makes the first of them current. The new layers are added before the
// old ones are dropped, so the stack is never empty.
func (s *Stack) ReplaceLayeredImage(other *Stack) error {
	if other == nil || len(other.layers) == 0 {
		return fmt.Errorf("replacement stack is empty: %w", ErrArgument)
	}
	old := len(s.layers)
	for _, l := range other.layers {
		s.layers = append(s.layers, l.clone())
	}
	s.layers = append(s.layers[:0:0], s.layers[old:]...)
	s.current = 0
	return nil
}

// LoadImage replaces the current layer's raster with a copy of r. It does
// nothing when no layer is current.
func (s *Stack) LoadImage(r *raster.Raster) error {
	if r == nil {
		return fmt.Errorf("raster is nil: %w", ErrArgument)
	}
	if l := s.currentLayer(); l != nil {
		l.raster = r.Clone()
	}
	return nil
}

// Topmost returns a copy of the raster that would be rendered: that of the
// layer which is both current and visible.
func (s *Stack) Topmost() (*raster.Raster, bool) {
	l := s.currentLayer()
	if l == nil || !l.Visible {
		return nil, false
	}
	return l.raster.Clone(), true
}

// Blur blurs the current layer.
func (s *Stack) Blur() error {
	return s.onCurrent((*raster.Raster).Blur)
}

// Sharpen sharpens the current layer.
func (s *Stack) Sharpen() error {
	return s.onCurrent((*raster.Raster).Sharpen)
}

// Greyscale converts the current layer to greyscale.
func (s *Stack) Greyscale() error {
	return s.onCurrent((*raster.Raster).Greyscale)
}

// Sepia applies the sepia tone to the current layer.
func (s *Stack) Sepia() error {
	return s.onCurrent((*raster.Raster).Sepia)
}

// Mosaic segments the current layer around seeds random points.
func (s *Stack) Mosaic(seeds int) error {
	return s.onCurrent(func(r *raster.Raster) error {
		return r.MosaicRand(seeds, s.rng)
	})
}

// Downscale shrinks every layer, current or not. The size is checked
// against all layers before any is changed.
func (s *Stack) Downscale(width, height int) error {
	for _, l := range s.layers {
		if width < 1 || height < 1 || width > l.raster.Width() || height > l.raster.Height() {
			return fmt.Errorf("downscale layer %q (%dx%d) to %dx%d: %w",
				l.Name, l.raster.Width(), l.raster.Height(), width, height, ErrArgument)
		}
	}
	for _, l := range s.layers {
		if err := l.raster.Downscale(width, height); err != nil {
			return fmt.Errorf("downscale layer %q: %w", l.Name, err)
		}
	}
	return nil
}

// MakeTransparent zeroes the alpha of every layer and hides them all.
func (s *Stack) MakeTransparent() {
	for _, l := range s.layers {
		l.raster.MakeTransparent()
		l.Visible = false
	}
}

func (s *Stack) onCurrent(fn func(*raster.Raster) error) error {
	l := s.currentLayer()
	if l == nil {
		return nil
	}
	if err := fn(l.raster); err != nil {
		return fmt.Errorf("layer %q: %w", l.Name, err)
	}
	return nil
}

func (s *Stack) currentLayer() *Layer {
	if s.current < 0 || s.current >= len(s.layers) {
		return nil
	}
	return s.layers[s.current]
}

func (s *Stack) index(name string) int {
	for i, l := range s.layers {
		if l.Name == name {
			return i
		}
	}
	return noCurrent
}

func (s *Stack) snapshot(i int) *Layer {
	c := s.layers[i].clone()
	c.current = i == s.current
	return c
}
