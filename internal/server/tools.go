package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSchema describes one image argument: raw pixels or an encoded file.
func imageSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description + ". Either raw pixels {data, width, height, channels?, colorSpace?, dtype?} or {encoded} holding a base64 JPEG, PNG, WebP or BMP file.",
		"properties": map[string]interface{}{
			"data": map[string]interface{}{
				"type":        "string",
				"description": "Base64 interleaved samples, little-endian for uint16 and float32",
			},
			"width":  map[string]interface{}{"type": "integer"},
			"height": map[string]interface{}{"type": "integer"},
			"channels": map[string]interface{}{
				"type":        []string{"integer", "string"},
				"description": "Channel count (1, 3, 4) or a legacy \"<dtype>_<colorspace>\" string",
			},
			"colorSpace": map[string]interface{}{
				"type": "string",
				"enum": []string{"GRAY", "RGB", "RGBA", "BGR", "BGRA"},
			},
			"dtype": map[string]interface{}{
				"type": "string",
				"enum": []string{"uint8", "uint16", "float32"},
			},
			"encoded": map[string]interface{}{
				"type":        "string",
				"description": "Base64 encoded image file",
			},
		},
	}
}

func imagesSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       imageSchema("An input image"),
		"description": description,
	}
}

func colorSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description + " as #RRGGBB or #RRGGBBAA (default #000000)",
	}
}

// schema builds an object schema from tool-specific properties, adding the
// output options every tool accepts.
func schema(props map[string]interface{}, required ...string) map[string]interface{} {
	props["outputFormat"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"raw", "jpg", "jpeg", "png", "webp"},
		"description": "Output encoding (default raw)",
		"default":     "raw",
	}
	props["quality"] = map[string]interface{}{
		"type":        "integer",
		"description": "JPEG/WebP quality 1-100 (default 90); WebP is lossless at 100",
		"default":     90,
	}
	props["pngOptimize"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Use the best PNG compression instead of the fastest",
	}
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// single adds the image and images arguments of the single-image tools.
func single(props map[string]interface{}, required ...string) map[string]interface{} {
	props["image"] = imageSchema("The input image")
	props["images"] = imagesSchema("Process several images independently; results are returned in the same order")
	return schema(props, required...)
}

func placementsSchema(advanced bool) map[string]interface{} {
	props := map[string]interface{}{
		"index": map[string]interface{}{
			"type":        "integer",
			"description": "Index into images; invalid indices are skipped",
		},
		"x": map[string]interface{}{"type": "number", "description": "Left edge, pixels or fraction of canvas width"},
		"y": map[string]interface{}{"type": "number", "description": "Top edge, pixels or fraction of canvas height"},
	}
	if advanced {
		props["width"] = map[string]interface{}{"type": "integer", "description": "Resize width; omit to keep aspect ratio"}
		props["height"] = map[string]interface{}{"type": "integer", "description": "Resize height; omit to keep aspect ratio"}
		props["rotation"] = map[string]interface{}{"type": "number", "description": "Clockwise rotation in degrees"}
		props["zIndex"] = map[string]interface{}{"type": "integer", "description": "Stacking order, higher draws on top (default list position)"}
	}
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   []string{"index", "x", "y"},
		},
	}
}

func mosaicSchema(advanced bool) map[string]interface{} {
	return schema(map[string]interface{}{
		"images":          imagesSchema("Images referenced by the placements"),
		"canvasWidth":     map[string]interface{}{"type": "integer", "description": "Canvas width in pixels"},
		"canvasHeight":    map[string]interface{}{"type": "integer", "description": "Canvas height in pixels"},
		"backgroundColor": colorSchema("Canvas fill color"),
		"placements":      placementsSchema(advanced),
		"normalized": map[string]interface{}{
			"type":        "boolean",
			"description": "Interpret x and y as fractions of the canvas size",
		},
	}, "images", "canvasWidth", "canvasHeight")
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Geometric Operations
		{
			Name:        "image_resize",
			Description: "Resize an image with bilinear sampling. Each dimension is absolute pixels, a multiplier of the original, or auto to keep the aspect ratio.",
			InputSchema: single(map[string]interface{}{
				"widthMode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"absolute", "multiply", "auto"},
					"description": "Defaults to absolute when widthValue is set, auto otherwise",
				},
				"widthValue": map[string]interface{}{"type": "number"},
				"heightMode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"absolute", "multiply", "auto"},
					"description": "Defaults to absolute when heightValue is set, auto otherwise",
				},
				"heightValue": map[string]interface{}{"type": "number"},
			}),
		},
		{
			Name:        "image_rotate",
			Description: "Rotate an image clockwise by any angle. The canvas grows to fit and exposed corners are filled with padColor. Multiples of 90 degrees are exact.",
			InputSchema: single(map[string]interface{}{
				"angle":    map[string]interface{}{"type": "number", "description": "Degrees, positive is clockwise"},
				"padColor": colorSchema("Corner fill color"),
			}, "angle"),
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangle, clamped to the image so the result is always at least 1x1. A named region (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center) may be given instead.",
			InputSchema: single(map[string]interface{}{
				"x":      map[string]interface{}{"type": "number"},
				"y":      map[string]interface{}{"type": "number"},
				"width":  map[string]interface{}{"type": "number"},
				"height": map[string]interface{}{"type": "number"},
				"normalized": map[string]interface{}{
					"type":        "boolean",
					"description": "Interpret the rectangle as fractions of the image size",
				},
				"region": map[string]interface{}{
					"type": "string",
					"enum": []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
				},
			}),
		},
		{
			Name:        "image_padding",
			Description: "Add a solid border around an image.",
			InputSchema: single(map[string]interface{}{
				"top":      map[string]interface{}{"type": "integer", "minimum": 0},
				"bottom":   map[string]interface{}{"type": "integer", "minimum": 0},
				"left":     map[string]interface{}{"type": "integer", "minimum": 0},
				"right":    map[string]interface{}{"type": "integer", "minimum": 0},
				"padColor": colorSchema("Border color"),
			}),
		},
		{
			Name:        "image_filter",
			Description: "Apply a convolution filter. Kernel sizes are made odd and clamped to 3-15; intensity is clamped to 0-2.",
			InputSchema: single(map[string]interface{}{
				"filterType": map[string]interface{}{
					"type": "string",
					"enum": []string{"blur", "sharpen", "edge", "emboss", "gaussian"},
				},
				"kernelSize": map[string]interface{}{"type": "integer", "default": 3},
				"intensity":  map[string]interface{}{"type": "number", "default": 1.0},
			}, "filterType"),
		},

		// Composite Operations
		{
			Name:        "image_concat",
			Description: "Join images side by side or stacked. Images are converted to a common channel format and matched on the cross axis by resizing or padding.",
			InputSchema: schema(map[string]interface{}{
				"images": imagesSchema("Images in join order"),
				"direction": map[string]interface{}{
					"type":    "string",
					"enum":    []string{"right", "left", "up", "down"},
					"default": "right",
				},
				"strategy": map[string]interface{}{
					"type":    "string",
					"enum":    []string{"resize", "pad-start", "pad-end", "pad-both"},
					"default": "resize",
				},
				"padColor": colorSchema("Fill color for pad strategies"),
			}, "images"),
		},
		{
			Name:        "image_blend",
			Description: "Blend two images. Both are resized to the larger extent; opacity weights image1 (1 returns image1, 0 returns image2).",
			InputSchema: schema(map[string]interface{}{
				"image1":  imageSchema("The first image"),
				"image2":  imageSchema("The second image"),
				"opacity": map[string]interface{}{"type": "number", "default": 0.5, "minimum": 0, "maximum": 1},
			}, "image1", "image2"),
		},
		{
			Name:        "image_mosaic",
			Description: "Place images at fixed positions on a background-filled canvas. Later placements draw on top; off-canvas parts are clipped.",
			InputSchema: mosaicSchema(false),
		},
		{
			Name:        "image_advanced_mosaic",
			Description: "Place resized and rotated images on a canvas in zIndex order.",
			InputSchema: mosaicSchema(true),
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
