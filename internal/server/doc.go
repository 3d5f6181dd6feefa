// Package server implements the MCP (Model Context Protocol) server for the
// layer editor.
//
// The server owns one layer stack for its lifetime and exposes the editing
// commands as MCP tools, so a client can build and inspect a layered image
// one call at a time.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Layer Management:
//   - layer_list: Show the stack
//   - layer_create: Append a blank layer
//   - layer_remove: Remove layers by name
//   - layer_current: Select the current layer
//   - layer_invisible: Hide layers by name
//   - image_transparent: Hide and clear every layer
//
// Filters and Transforms:
//   - image_blur, image_sharpen: Convolution filters on the current layer
//   - image_greyscale, image_sepia: Color transforms on the current layer
//   - image_downscale: Shrink every layer
//   - image_mosaic: Seed-based segmentation of the current layer
//
// Files:
//   - image_load: Load an image into the current layer
//   - image_save: Save all layers as a directory or .lyrz bundle
//   - image_save_topmost: Save the current visible layer
//   - image_load_layered: Replace the stack from a directory or bundle
//
// Inspection:
//   - image_sample_color: Color at a pixel
//   - image_dominant_colors: Palette of the current layer
//   - image_render: Base64 PNG preview over a checkerboard
//
// Tools that change the stack return the resulting layer list.
//
// # Concurrency
//
// Tool calls are serialized on a mutex; the stack is never touched by two
// calls at once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
package server
