// Package server implements the MCP (Model Context Protocol) server for the image engine.
//
// This package provides a JSON-RPC 2.0 server that exposes every engine
// operation as an MCP tool. Images travel inline, so the server never touches
// the file system.
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
// Geometric operations (accept "image" or a batch in "images"):
//   - image_resize: Absolute, multiplier or aspect-preserving resize
//   - image_rotate: Arbitrary-angle rotation with a pad color
//   - image_crop: Clamped rectangle or named region
//   - image_padding: Solid border
//   - image_filter: blur, sharpen, edge, emboss, gaussian
//
// Composite operations:
//   - image_concat: Join images along an axis
//   - image_blend: Weighted mix of two images
//   - image_mosaic: Fixed placements on a canvas
//   - image_advanced_mosaic: Resized, rotated placements in z-order
//
// # Images
//
// An image argument is either raw pixels
//
//	{"data": "<base64>", "width": 4, "height": 4, "channels": 3, "colorSpace": "RGB", "dtype": "uint8"}
//
// or an encoded file, {"encoded": "<base64>"}. Results are returned as
// {"image": ..., "timing": {"convertMs", "taskMs", "encodeMs"}} where image
// has the raw form for outputFormat "raw" and {format, mimeType, data}
// otherwise. Batches return {"results": [...]} in input order.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for input errors, -32000 for processing and encoding errors
//   - message: "Tool execution failed"
//   - data: {"kind": "input"|"processing"|"encoding", "detail": "<error>"}
//
// # Usage
//
//	eng := engine.New(engine.Options{}, logger)
//	defer eng.Close()
//	srv := server.New(eng, logger, server.Options{})
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
