package server

import (
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and decodes the text content into out.
// It returns the JSON-RPC error, if any.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPError {
	t.Helper()

	params := map[string]interface{}{"name": name, "arguments": args}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	if out != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
			t.Fatalf("failed to decode %s result: %v", name, err)
		}
	}
	return nil
}

// mustCallTool is callTool for calls expected to succeed
func mustCallTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) {
	t.Helper()
	if err := callTool(t, s, name, args, out); err != nil {
		t.Fatalf("%s failed: %s: %v", name, err.Message, err.Data)
	}
}

func names(st StackState) []string {
	out := make([]string, len(st.Layers))
	for i, l := range st.Layers {
		out[i] = l.Name
	}
	return out
}

func assertState(t *testing.T, st StackState, wantNames []string, wantCurrent int) {
	t.Helper()
	got := names(st)
	if len(got) != len(wantNames) {
		t.Fatalf("layers: got %v, want %v", got, wantNames)
	}
	for i := range got {
		if got[i] != wantNames[i] {
			t.Fatalf("layers: got %v, want %v", got, wantNames)
		}
	}
	switch {
	case wantCurrent < 0 && st.Current != nil:
		t.Errorf("current: got %d, want none", *st.Current)
	case wantCurrent >= 0 && (st.Current == nil || *st.Current != wantCurrent):
		t.Errorf("current: got %v, want %d", st.Current, wantCurrent)
	}
	for i, l := range st.Layers {
		if l.Current != (i == wantCurrent) {
			t.Errorf("layer %d current flag: got %v", i, l.Current)
		}
	}
}

func TestHandleToolsCall_LayerLifecycle(t *testing.T) {
	s := createTestServer(t)
	var st StackState

	mustCallTool(t, s, "layer_create", map[string]interface{}{"name": "sky"}, &st)
	assertState(t, st, []string{"base", "sky"}, 1)
	if st.Layers[1].Width != 8 || st.Layers[1].Height != 8 || !st.Layers[1].Visible {
		t.Errorf("new layer: got %+v, want visible 8x8", st.Layers[1])
	}

	mustCallTool(t, s, "layer_create", map[string]interface{}{"name": "sun"}, &st)
	mustCallTool(t, s, "layer_current", map[string]interface{}{"name": "base"}, &st)
	assertState(t, st, []string{"base", "sky", "sun"}, 0)

	mustCallTool(t, s, "layer_remove", map[string]interface{}{"name": "sky"}, &st)
	assertState(t, st, []string{"base", "sun"}, 0)

	mustCallTool(t, s, "layer_invisible", map[string]interface{}{"name": "base"}, &st)
	assertState(t, st, []string{"base", "sun"}, 1)
	if st.Layers[0].Visible {
		t.Error("base should be invisible")
	}

	mustCallTool(t, s, "layer_list", nil, &st)
	assertState(t, st, []string{"base", "sun"}, 1)
}

func TestHandleToolsCall_LayerErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"remove last layer", "layer_remove", map[string]interface{}{"name": "base"}},
		{"remove missing", "layer_remove", map[string]interface{}{"name": "nope"}},
		{"hide last layer", "layer_invisible", map[string]interface{}{"name": "base"}},
		{"empty name", "layer_create", map[string]interface{}{"name": ""}},
		{"missing name", "layer_current", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestServer(t)
			err := callTool(t, s, tt.tool, tt.args, nil)
			if err == nil {
				t.Fatal("expected tool error")
			}
			if err.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", err.Code)
			}
			if got := s.stack.Names(); len(got) != 1 || got[0] != "base" {
				t.Errorf("stack changed: %v", got)
			}
		})
	}
}

func TestHandleToolsCall_CurrentMissingClearsSelection(t *testing.T) {
	s := createTestServer(t)
	if err := callTool(t, s, "layer_current", map[string]interface{}{"name": "nope"}, nil); err == nil {
		t.Fatal("expected tool error")
	}

	var st StackState
	mustCallTool(t, s, "layer_list", nil, &st)
	assertState(t, st, []string{"base"}, -1)

	// Filters are no-ops without a current layer.
	mustCallTool(t, s, "image_blur", nil, &st)
	if err := callTool(t, s, "image_sample_color", map[string]interface{}{"x": 0, "y": 0}, nil); err == nil {
		t.Error("sampling without a current layer should fail")
	}
	if err := callTool(t, s, "image_render", nil, nil); err == nil {
		t.Error("rendering without a current layer should fail")
	}
}

func TestHandleToolsCall_LoadAndSample(t *testing.T) {
	s := createTestServer(t)
	imgPath := createTestImageFile(t, 4, 3, color.RGBA{255, 0, 0, 255})

	var st StackState
	mustCallTool(t, s, "image_load", map[string]interface{}{"path": imgPath}, &st)
	if st.Layers[0].Width != 4 || st.Layers[0].Height != 3 {
		t.Errorf("loaded size: got %dx%d, want 4x3", st.Layers[0].Width, st.Layers[0].Height)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache entries: got %d, want 1", s.cache.Len())
	}

	var c struct {
		Hex string `json:"hex"`
	}
	mustCallTool(t, s, "image_sample_color", map[string]interface{}{"x": 3, "y": 2}, &c)
	if c.Hex != "#FF0000" {
		t.Errorf("hex: got %s, want #FF0000", c.Hex)
	}

	if err := callTool(t, s, "image_sample_color", map[string]interface{}{"x": 4, "y": 0}, nil); err == nil {
		t.Error("out-of-bounds sample should fail")
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := createTestServer(t)
	err := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}, nil)
	if err == nil {
		t.Fatal("expected error for non-existent file")
	}
	if err.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", err.Code)
	}
}

func TestHandleToolsCall_FiltersAndTransforms(t *testing.T) {
	s := createTestServer(t)
	var st StackState

	for _, tool := range []string{"image_blur", "image_sharpen", "image_greyscale", "image_sepia"} {
		mustCallTool(t, s, tool, nil, &st)
	}
	mustCallTool(t, s, "image_mosaic", map[string]interface{}{"seeds": 4}, &st)

	mustCallTool(t, s, "layer_create", map[string]interface{}{"name": "top"}, &st)
	mustCallTool(t, s, "image_downscale", map[string]interface{}{"width": 5, "height": 3}, &st)
	for _, l := range st.Layers {
		if l.Width != 5 || l.Height != 3 {
			t.Errorf("layer %s: got %dx%d, want 5x3", l.Name, l.Width, l.Height)
		}
	}

	if err := callTool(t, s, "image_downscale", map[string]interface{}{"width": 6, "height": 3}, nil); err == nil {
		t.Error("upscaling should fail")
	}
	if err := callTool(t, s, "image_mosaic", map[string]interface{}{"seeds": 0}, nil); err == nil {
		t.Error("zero seeds should fail")
	}

	mustCallTool(t, s, "image_transparent", nil, &st)
	for _, l := range st.Layers {
		if l.Visible {
			t.Errorf("layer %s still visible", l.Name)
		}
	}
}

func TestHandleToolsCall_DominantColors(t *testing.T) {
	s := createTestServer(t)

	var res struct {
		Method string `json:"method"`
		Colors []struct {
			Hex        string  `json:"hex"`
			Percentage float64 `json:"percentage"`
		} `json:"colors"`
	}
	mustCallTool(t, s, "image_dominant_colors", nil, &res)
	if res.Method != "histogram" {
		t.Errorf("method: got %s, want histogram", res.Method)
	}
	// Histogram buckets are reported by their lower bound, 16 levels wide.
	if len(res.Colors) != 1 || res.Colors[0].Hex != "#F0F0F0" || res.Colors[0].Percentage != 100 {
		t.Errorf("colors: got %+v, want only #F0F0F0 at 100%%", res.Colors)
	}

	if err := callTool(t, s, "image_dominant_colors", map[string]interface{}{"method": "median"}, nil); err == nil {
		t.Error("unknown method should fail")
	}
}

func TestHandleToolsCall_Render(t *testing.T) {
	s := createTestServer(t)

	var res struct {
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		ImageBase64 string `json:"image_base64"`
		MimeType    string `json:"mime_type"`
	}
	mustCallTool(t, s, "image_render", map[string]interface{}{"max_size": 4}, &res)
	if res.Width != 4 || res.Height != 4 {
		t.Errorf("size: got %dx%d, want 4x4", res.Width, res.Height)
	}
	if res.MimeType != "image/png" {
		t.Errorf("mime type: got %s", res.MimeType)
	}
	if _, err := base64.StdEncoding.DecodeString(res.ImageBase64); err != nil {
		t.Errorf("image is not base64: %v", err)
	}

	mustCallTool(t, s, "image_render", map[string]interface{}{"grid_spacing": 2, "grid_labels": true}, &res)
	if err := callTool(t, s, "image_render", map[string]interface{}{"grid_spacing": 2, "grid_color": "red"}, nil); err == nil {
		t.Error("bad grid color should fail")
	}
}

func TestHandleToolsCall_SaveAndLoadLayered(t *testing.T) {
	for _, target := range []string{"layered", "layered.lyrz"} {
		t.Run(target, func(t *testing.T) {
			s := createTestServer(t)
			dir := filepath.Join(t.TempDir(), target)

			mustCallTool(t, s, "layer_create", map[string]interface{}{"name": "top"}, nil)
			mustCallTool(t, s, "image_greyscale", nil, nil)
			mustCallTool(t, s, "image_load", map[string]interface{}{
				"path": createTestImageFile(t, 2, 2, color.RGBA{0, 0, 255, 255}),
			}, nil)

			var saved SaveResult
			mustCallTool(t, s, "image_save", map[string]interface{}{"path": dir}, &saved)
			if saved.Path != dir {
				t.Errorf("path: got %s, want %s", saved.Path, dir)
			}
			if s.cache.Len() != 0 {
				t.Error("cache should be cleared after save")
			}

			other := createTestServer(t)
			var st StackState
			mustCallTool(t, other, "image_load_layered", map[string]interface{}{"path": dir}, &st)
			assertState(t, st, []string{"base", "top"}, 0)
			if st.Layers[1].Width != 2 || st.Layers[1].Height != 2 {
				t.Errorf("top: got %dx%d, want 2x2", st.Layers[1].Width, st.Layers[1].Height)
			}
		})
	}
}

func TestHandleToolsCall_SaveTopmost(t *testing.T) {
	s := createTestServer(t)
	base := filepath.Join(t.TempDir(), "out")

	var saved SaveResult
	mustCallTool(t, s, "image_save_topmost", map[string]interface{}{"path": base, "type": "bmp"}, &saved)
	if saved.Path != base+".bmp" {
		t.Errorf("path: got %s, want %s.bmp", saved.Path, base)
	}
	if _, err := os.Stat(saved.Path); err != nil {
		t.Errorf("file not written: %v", err)
	}

	if err := callTool(t, s, "image_save_topmost", map[string]interface{}{"path": base, "type": "webp"}, nil); err == nil {
		t.Error("unknown file type should fail")
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := createTestServer(t)
	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid`),
	})

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := createTestServer(t)
	imgPath := createTestImageFile(t, 8, 8, color.RGBA{128, 128, 128, 255})
	dir := t.TempDir()

	// Test each tool to ensure executeTool correctly dispatches
	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"layer_list", nil},
		{"layer_create", map[string]interface{}{"name": "top"}},
		{"layer_current", map[string]interface{}{"name": "base"}},
		{"image_blur", nil},
		{"image_sharpen", nil},
		{"image_greyscale", nil},
		{"image_sepia", nil},
		{"image_mosaic", map[string]interface{}{"seeds": 3}},
		{"image_load", map[string]interface{}{"path": imgPath}},
		{"image_sample_color", map[string]interface{}{"x": 1, "y": 1}},
		{"image_dominant_colors", map[string]interface{}{"count": 2, "method": "dominant"}},
		{"image_render", nil},
		{"image_save_topmost", map[string]interface{}{"path": filepath.Join(dir, "top")}},
		{"image_save", map[string]interface{}{"path": filepath.Join(dir, "stack")}},
		{"image_load_layered", map[string]interface{}{"path": filepath.Join(dir, "stack")}},
		{"image_downscale", map[string]interface{}{"width": 4, "height": 4}},
		{"layer_invisible", map[string]interface{}{"name": "base"}},
		{"layer_remove", map[string]interface{}{"name": "base"}},
		{"image_transparent", nil},
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := createTestServer(t)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := createTestServer(t)

	_, err := s.executeTool("image_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}
