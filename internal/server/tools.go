package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func nameArg(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"name"},
	}
}

func pathArgs(pathDescription string, withType bool) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": pathDescription,
		},
	}
	if withType {
		props["type"] = map[string]interface{}{
			"type":        "string",
			"description": "Image format: png, jpg, jpeg, bmp, gif, tiff or ppm (default png)",
			"default":     "png",
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Layer Management
		{
			Name:        "layer_list",
			Description: "List the layers of the session image in stack order, with sizes, visibility and the current layer.",
			InputSchema: noArgs(),
		},
		{
			Name:        "layer_create",
			Description: "Append a blank white layer and make it current.",
			InputSchema: nameArg("Name of the new layer"),
		},
		{
			Name:        "layer_remove",
			Description: "Remove every layer with the given name. The last remaining layer cannot be removed.",
			InputSchema: nameArg("Name of the layer(s) to remove"),
		},
		{
			Name:        "layer_current",
			Description: "Make the first layer with the given name current. Filters apply to the current layer.",
			InputSchema: nameArg("Name of the layer to select"),
		},
		{
			Name:        "layer_invisible",
			Description: "Hide every layer with the given name and make the layer above it current. The last layer cannot be hidden.",
			InputSchema: nameArg("Name of the layer(s) to hide"),
		},
		{
			Name:        "image_transparent",
			Description: "Make every layer fully transparent and invisible.",
			InputSchema: noArgs(),
		},

		// Filters and Transforms
		{
			Name:        "image_blur",
			Description: "Apply a 3x3 Gaussian blur to the current layer.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_sharpen",
			Description: "Apply a 5x5 sharpen kernel to the current layer.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_greyscale",
			Description: "Convert the current layer to luma greyscale.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_sepia",
			Description: "Apply a sepia tone to the current layer.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_downscale",
			Description: "Shrink every layer to the given size using bilinear sampling. The size may not exceed any layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Target width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Target height in pixels",
					},
				},
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "image_mosaic",
			Description: "Segment the current layer into regions around randomly placed seeds, each filled with its average color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"seeds": map[string]interface{}{
						"type":        "integer",
						"description": "Number of seeds, between 1 and the pixel count",
					},
				},
				"required": []string{"seeds"},
			},
		},

		// Files
		{
			Name:        "image_load",
			Description: "Load an image file into the current layer.",
			InputSchema: pathArgs("Absolute path to the image file", false),
		},
		{
			Name:        "image_save",
			Description: "Save every layer into a directory with a layers.txt manifest. A path ending in .lyrz writes a single compressed bundle instead.",
			InputSchema: pathArgs("Directory to create, or a .lyrz bundle file", true),
		},
		{
			Name:        "image_save_topmost",
			Description: "Save the current visible layer as a single image. The format extension is appended to the path.",
			InputSchema: pathArgs("Output path without extension", true),
		},
		{
			Name:        "image_load_layered",
			Description: "Replace the session image with a layered directory previously saved by image_save, or a .lyrz bundle.",
			InputSchema: pathArgs("Layered directory or .lyrz bundle file", false),
		},

		// Inspection
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel of the current layer in RGB, hex and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{"type": "integer", "description": "X coordinate"},
					"y": map[string]interface{}{"type": "integer", "description": "Y coordinate"},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the most common colors of the current layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return (default 5)",
						"default":     5,
					},
					"method": map[string]interface{}{
						"type":        "string",
						"description": "Palette method: histogram, dominant or kmeans (default histogram). Histogram colors are quantized to 16 levels per channel and reported as the bucket's lower bound (white reads #F0F0F0).",
						"default":     "histogram",
					},
				},
			},
		},
		{
			Name:        "image_render",
			Description: "Render the current visible layer over a checkerboard, optionally with a coordinate grid, and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Longest side of the preview in pixels, 0 for full size (default 1024)",
						"default":     1024,
					},
					"checker_size": map[string]interface{}{
						"type":        "integer",
						"description": "Checkerboard square size in pixels (default 8)",
						"default":     8,
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Draw a coordinate grid every N image pixels (default 0, no grid)",
					},
					"grid_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with their coordinates",
						"default":     false,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as hex (default #FF000080 - semi-transparent red)",
						"default":     "#FF000080",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
