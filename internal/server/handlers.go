package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/layer-editor/internal/codec"
	"github.com/ironsheep/layer-editor/internal/layers"
	"github.com/ironsheep/layer-editor/internal/raster"
	"github.com/ironsheep/layer-editor/internal/render"
)

// defaultRenderSize bounds image_render output unless max_size is given.
const defaultRenderSize = 1024

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "layer_create", "image_blur").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// LayerInfo describes one layer of the session stack.
type LayerInfo struct {
	Index   int    `json:"index"`
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Visible bool   `json:"visible"`
	Current bool   `json:"current"`
}

// StackState is returned by every tool that changes the stack.
type StackState struct {
	Layers  []LayerInfo `json:"layers"`
	Current *int        `json:"current"`
}

// SaveResult reports files written by a save tool.
type SaveResult struct {
	Path string `json:"path"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	s.mu.Lock()
	result, err := s.executeTool(params.Name, params.Arguments)
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug("tool complete", zap.String("tool", params.Name))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// The caller holds s.mu.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	// Layer Management
	case "layer_list":
		return s.state(), nil
	case "layer_create":
		return s.withName(args, s.stack.AddLayer)
	case "layer_remove":
		return s.withName(args, s.stack.RemoveLayer)
	case "layer_current":
		return s.withName(args, s.stack.SetCurrent)
	case "layer_invisible":
		return s.withName(args, s.stack.SetInvisible)
	case "image_transparent":
		s.stack.MakeTransparent()
		return s.state(), nil

	// Filters and Transforms
	case "image_blur":
		return s.apply(s.stack.Blur)
	case "image_sharpen":
		return s.apply(s.stack.Sharpen)
	case "image_greyscale":
		return s.apply(s.stack.Greyscale)
	case "image_sepia":
		return s.apply(s.stack.Sepia)
	case "image_downscale":
		return s.handleImageDownscale(args)
	case "image_mosaic":
		return s.handleImageMosaic(args)

	// Files
	case "image_load":
		return s.handleImageLoad(args)
	case "image_save":
		return s.handleImageSave(args)
	case "image_save_topmost":
		return s.handleImageSaveTopmost(args)
	case "image_load_layered":
		return s.handleImageLoadLayered(args)

	// Inspection
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_render":
		return s.handleImageRender(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func (s *Server) state() *StackState {
	st := &StackState{Layers: make([]LayerInfo, 0, s.stack.Len())}
	for i, l := range s.stack.Summaries() {
		st.Layers = append(st.Layers, LayerInfo{
			Index:   i,
			Number:  l.Number,
			Name:    l.Name,
			Width:   l.Width,
			Height:  l.Height,
			Visible: l.Visible,
			Current: l.Current,
		})
	}
	if i, ok := s.stack.Current(); ok {
		st.Current = &i
	}
	return st
}

func (s *Server) apply(op func() error) (interface{}, error) {
	if err := op(); err != nil {
		return nil, err
	}
	return s.state(), nil
}

// currentRaster returns a copy of the current layer's raster, visible or not.
func (s *Server) currentRaster() (*raster.Raster, error) {
	i, ok := s.stack.Current()
	if !ok {
		return nil, errors.New("no current layer")
	}
	l, err := s.stack.LayerAt(i)
	if err != nil {
		return nil, err
	}
	return l.Raster(), nil
}

// === Layer Management Handlers ===

type layerNameArgs struct {
	Name string `json:"name"`
}

func (s *Server) withName(args json.RawMessage, op func(string) error) (interface{}, error) {
	var a layerNameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Name == "" {
		return nil, fmt.Errorf("name is required: %w", layers.ErrArgument)
	}
	return s.apply(func() error { return op(a.Name) })
}

// === Filter and Transform Handlers ===

type imageDownscaleArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleImageDownscale(args json.RawMessage) (interface{}, error) {
	var a imageDownscaleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.apply(func() error { return s.stack.Downscale(a.Width, a.Height) })
}

type imageMosaicArgs struct {
	Seeds int `json:"seeds"`
}

func (s *Server) handleImageMosaic(args json.RawMessage) (interface{}, error) {
	var a imageMosaicArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.apply(func() error { return s.stack.Mosaic(a.Seeds) })
}

// === File Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

func (a *imagePathArgs) fileType() (codec.FileType, error) {
	if a.Type == "" {
		a.Type = "png"
	}
	return codec.ParseFileType(a.Type)
}

func parsePathArgs(args json.RawMessage) (*imagePathArgs, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required: %w", layers.ErrArgument)
	}
	return &a, nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.apply(func() error { return s.stack.LoadImage(img) })
}

func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	defer s.cache.Clear()

	if isBundle(a.Path) {
		f, err := os.Create(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create bundle: %w", err)
		}
		if err := codec.WriteBundle(f, s.stack); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		return &SaveResult{Path: a.Path}, nil
	}

	ft, err := a.fileType()
	if err != nil {
		return nil, err
	}
	if err := codec.ExportLayered(a.Path, s.stack, ft); err != nil {
		return nil, err
	}
	return &SaveResult{Path: a.Path}, nil
}

func (s *Server) handleImageSaveTopmost(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	ft, err := a.fileType()
	if err != nil {
		return nil, err
	}
	defer s.cache.Clear()

	path, err := codec.ExportTopmost(a.Path, s.stack, ft)
	if err != nil {
		return nil, err
	}
	return &SaveResult{Path: path}, nil
}

func (s *Server) handleImageLoadLayered(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}

	var loaded *layers.Stack
	if isBundle(a.Path) {
		f, err := os.Open(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bundle: %w", err)
		}
		defer f.Close()
		loaded, err = codec.ReadBundle(f, s.opts...)
		if err != nil {
			return nil, err
		}
	} else if loaded, err = codec.ImportLayered(a.Path, s.opts...); err != nil {
		return nil, err
	}
	return s.apply(func() error { return s.stack.ReplaceLayeredImage(loaded) })
}

func isBundle(path string) bool {
	return strings.EqualFold(filepath.Ext(path), codec.BundleExt)
}

// === Inspection Handlers ===

type imageSampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.currentRaster()
	if err != nil {
		return nil, err
	}
	return raster.SampleColor(img, a.X, a.Y)
}

type imageDominantColorsArgs struct {
	Count  int    `json:"count"`
	Method string `json:"method"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	method, err := raster.ParsePaletteMethod(a.Method)
	if err != nil {
		return nil, err
	}
	img, err := s.currentRaster()
	if err != nil {
		return nil, err
	}
	return raster.DominantColors(img, a.Count, method)
}

type imageRenderArgs struct {
	MaxSize     *int   `json:"max_size,omitempty"`
	CheckerSize int    `json:"checker_size"`
	GridSpacing int    `json:"grid_spacing"`
	GridLabels  bool   `json:"grid_labels"`
	GridColor   string `json:"grid_color"`
}

func (s *Server) handleImageRender(args json.RawMessage) (interface{}, error) {
	var a imageRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := render.Options{
		MaxSize:     defaultRenderSize,
		CheckerSize: a.CheckerSize,
		GridSpacing: a.GridSpacing,
		GridLabels:  a.GridLabels,
		GridColor:   a.GridColor,
	}
	if a.MaxSize != nil {
		opts.MaxSize = *a.MaxSize
	}
	return render.Stack(s.stack, opts)
}
