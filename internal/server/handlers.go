package server

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/image-engine/internal/composite"
	"github.com/ironsheep/image-engine/internal/encode"
	"github.com/ironsheep/image-engine/internal/engine"
	"github.com/ironsheep/image-engine/internal/imaging"
	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/ingest"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_resize", "image_mosaic").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Input errors return JSON-RPC code -32602; processing and encoding errors
// return -32000. The error data carries the error kind. A panicking tool is
// reported as a processing error instead of taking the server down.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) (resp *MCPResponse) {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Error("invalid tools/call params", zap.Error(err))
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool panicked", zap.String("tool", params.Name), zap.Any("panic", r))
			resp = s.toolError(req.ID, params.Name, imgerr.Processing("tool panicked: %v", r))
		}
	}()

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.toolError(req.ID, params.Name, err)
	}

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
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Submits one engine task per image (or one for composites)
//  4. Waits for the tasks and renders {image, timing}
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Geometric operations
	case "image_resize":
		return s.handleImageResize(ctx, args)
	case "image_rotate":
		return s.handleImageRotate(ctx, args)
	case "image_crop":
		return s.handleImageCrop(ctx, args)
	case "image_padding":
		return s.handleImagePadding(ctx, args)
	case "image_filter":
		return s.handleImageFilter(ctx, args)

	// Composite operations
	case "image_concat":
		return s.handleImageConcat(ctx, args)
	case "image_blend":
		return s.handleImageBlend(ctx, args)
	case "image_mosaic":
		return s.handleImageMosaic(ctx, args, false)
	case "image_advanced_mosaic":
		return s.handleImageMosaic(ctx, args, true)

	default:
		return nil, imgerr.Input("unknown tool: %s", name)
	}
}

// toolError maps a tool failure to a JSON-RPC error by its kind.
func (s *Server) toolError(id interface{}, tool string, err error) *MCPResponse {
	kind := imgerr.KindOf(err)
	s.logger.Debug("tool failed", zap.String("tool", tool), zap.String("kind", kind.String()), zap.Error(err))
	code := -32000
	if kind == imgerr.KindInput {
		code = -32602
	}
	return s.errorResponse(id, code, "Tool execution failed", map[string]interface{}{
		"kind":   kind.String(),
		"detail": err.Error(),
	})
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return imgerr.WrapInput(err, "invalid arguments")
	}
	return nil
}

// === Shared argument types ===

// imageArg is either a raw pixel object or {"encoded": base64}.
type imageArg struct {
	ingest.RawImage
	Encoded []byte `json:"encoded,omitempty"`
}

func (a *imageArg) source() ingest.Source {
	switch {
	case a == nil:
		return ingest.Source{}
	case len(a.Encoded) > 0:
		return ingest.Source{Encoded: a.Encoded}
	case len(a.Data) == 0 && a.Width == 0 && a.Height == 0:
		return ingest.Source{}
	}
	raw := a.RawImage
	return ingest.Source{Raw: &raw}
}

func sources(imgs []imageArg) []ingest.Source {
	out := make([]ingest.Source, len(imgs))
	for i := range imgs {
		out[i] = imgs[i].source()
	}
	return out
}

type outputArgs struct {
	OutputFormat string `json:"outputFormat"`
	Quality      int    `json:"quality"`
	PNGOptimize  bool   `json:"pngOptimize"`
}

func (o outputArgs) spec() (encode.OutputSpec, error) {
	f, err := encode.ParseFormat(o.OutputFormat)
	if err != nil {
		return encode.OutputSpec{}, err
	}
	return encode.OutputSpec{Format: f, Quality: o.Quality, PNGOptimize: o.PNGOptimize}, nil
}

// singleArgs is shared by the single-image tools. Supplying images instead
// of image runs the operation once per image.
type singleArgs struct {
	Image  *imageArg  `json:"image"`
	Images []imageArg `json:"images"`
	outputArgs
}

type encodedImage struct {
	Format   encode.Format `json:"format"`
	MimeType string        `json:"mimeType"`
	Data     []byte        `json:"data"`
}

type toolResult struct {
	Image  interface{}   `json:"image"`
	Timing engine.Timing `json:"timing"`
}

type batchResult struct {
	Results []toolResult `json:"results"`
}

func renderResult(res *engine.Result) toolResult {
	if res.Image.Format == encode.Raw {
		return toolResult{Image: ingest.ToRaw(res.Image.Raw), Timing: res.Timing}
	}
	return toolResult{
		Image: encodedImage{
			Format:   res.Image.Format,
			MimeType: res.Image.Format.MimeType(),
			Data:     res.Image.Data,
		},
		Timing: res.Timing,
	}
}

type submitFunc func(src ingest.Source, out encode.OutputSpec) (*engine.Task, error)

// runSingle submits one task per image and waits for all of them.
func (s *Server) runSingle(ctx context.Context, a singleArgs, submit submitFunc) (interface{}, error) {
	out, err := a.spec()
	if err != nil {
		return nil, err
	}

	if len(a.Images) == 0 {
		task, err := submit(a.Image.source(), out)
		if err != nil {
			return nil, err
		}
		return wait(ctx, task)
	}

	tasks := make([]*engine.Task, len(a.Images))
	for i := range a.Images {
		task, err := submit(a.Images[i].source(), out)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		tasks[i] = task
	}
	results, err := engine.WaitAll(ctx, tasks)
	if err != nil {
		return nil, err
	}
	batch := batchResult{Results: make([]toolResult, len(results))}
	for i, res := range results {
		batch.Results[i] = renderResult(res)
	}
	return batch, nil
}

func wait(ctx context.Context, task *engine.Task) (interface{}, error) {
	res, err := task.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return renderResult(res), nil
}

// === Geometric Operation Handlers ===

type imageResizeArgs struct {
	singleArgs
	WidthMode   string  `json:"widthMode"`
	WidthValue  float64 `json:"widthValue"`
	HeightMode  string  `json:"heightMode"`
	HeightValue float64 `json:"heightValue"`
}

func (s *Server) handleImageResize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	wm, err := sizeMode(a.WidthMode, a.WidthValue)
	if err != nil {
		return nil, err
	}
	hm, err := sizeMode(a.HeightMode, a.HeightValue)
	if err != nil {
		return nil, err
	}
	p := imaging.ResizeParams{WidthMode: wm, WidthValue: a.WidthValue, HeightMode: hm, HeightValue: a.HeightValue}
	return s.runSingle(ctx, a.singleArgs, func(src ingest.Source, out encode.OutputSpec) (*engine.Task, error) {
		return s.engine.Resize(ctx, src, p, out)
	})
}

// sizeMode parses a resize mode. A value given without a mode is a pixel
// count.
func sizeMode(mode string, value float64) (imaging.SizeMode, error) {
	if mode == "" && value != 0 {
		return imaging.ModeAbsolute, nil
	}
	return imaging.ParseSizeMode(mode)
}

type imageRotateArgs struct {
	singleArgs
	Angle    float64 `json:"angle"`
	PadColor string  `json:"padColor"`
}

func (s *Server) handleImageRotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	pad, err := pixel.ParseColor(a.PadColor)
	if err != nil {
		return nil, err
	}
	p := imaging.RotateParams{Angle: a.Angle, Pad: pad}
	return s.runSingle(ctx, a.singleArgs, func(src ingest.Source, out encode.OutputSpec) (*engine.Task, error) {
		return s.engine.Rotate(ctx, src, p, out)
	})
}

type imageCropArgs struct {
	singleArgs
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Normalized bool    `json:"normalized"`

	// Region names a preset area and replaces the rectangle when set.
	Region string `json:"region"`
}

func (s *Server) handleImageCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p := imaging.CropParams{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height, Normalized: a.Normalized}
	if a.Region != "" {
		var err error
		if p, err = imaging.RegionParams(a.Region); err != nil {
			return nil, err
		}
	}
	return s.runSingle(ctx, a.singleArgs, func(src ingest.Source, out encode.OutputSpec) (*engine.Task, error) {
		return s.engine.Crop(ctx, src, p, out)
	})
}

type imagePaddingArgs struct {
	singleArgs
	Top      int    `json:"top"`
	Bottom   int    `json:"bottom"`
	Left     int    `json:"left"`
	Right    int    `json:"right"`
	PadColor string `json:"padColor"`
}

func (s *Server) handleImagePadding(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imagePaddingArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	pad, err := pixel.ParseColor(a.PadColor)
	if err != nil {
		return nil, err
	}
	p := imaging.PaddingParams{Top: a.Top, Bottom: a.Bottom, Left: a.Left, Right: a.Right, Pad: pad}
	return s.runSingle(ctx, a.singleArgs, func(src ingest.Source, out encode.OutputSpec) (*engine.Task, error) {
		return s.engine.Padding(ctx, src, p, out)
	})
}

type imageFilterArgs struct {
	singleArgs
	FilterType string   `json:"filterType"`
	KernelSize int      `json:"kernelSize"`
	Intensity  *float64 `json:"intensity"`
}

func (s *Server) handleImageFilter(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.FilterType == "" {
		return nil, imgerr.Input("filterType is required")
	}
	intensity := 1.0
	if a.Intensity != nil {
		intensity = *a.Intensity
	}
	p := imaging.FilterParams{Type: imaging.FilterType(a.FilterType), KernelSize: a.KernelSize, Intensity: intensity}
	return s.runSingle(ctx, a.singleArgs, func(src ingest.Source, out encode.OutputSpec) (*engine.Task, error) {
		return s.engine.Filter(ctx, src, p, out)
	})
}

// === Composite Operation Handlers ===

type imageConcatArgs struct {
	Images    []imageArg `json:"images"`
	Direction string     `json:"direction"`
	Strategy  string     `json:"strategy"`
	PadColor  string     `json:"padColor"`
	outputArgs
}

func (s *Server) handleImageConcat(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageConcatArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Direction == "" {
		a.Direction = string(composite.Right)
	}
	if a.Strategy == "" {
		a.Strategy = string(composite.StrategyResize)
	}
	pad, err := pixel.ParseColor(a.PadColor)
	if err != nil {
		return nil, err
	}
	out, err := a.spec()
	if err != nil {
		return nil, err
	}

	p := composite.ConcatParams{
		Direction: composite.Direction(a.Direction),
		Strategy:  composite.Strategy(a.Strategy),
		Pad:       pad,
	}
	task, err := s.engine.Concat(ctx, sources(a.Images), p, out)
	if err != nil {
		return nil, err
	}
	return wait(ctx, task)
}

type imageBlendArgs struct {
	Image1  *imageArg `json:"image1"`
	Image2  *imageArg `json:"image2"`
	Opacity *float64  `json:"opacity"`
	outputArgs
}

func (s *Server) handleImageBlend(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageBlendArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opacity := 0.5
	if a.Opacity != nil {
		opacity = *a.Opacity
	}
	out, err := a.spec()
	if err != nil {
		return nil, err
	}

	task, err := s.engine.Blend(ctx, a.Image1.source(), a.Image2.source(), opacity, out)
	if err != nil {
		return nil, err
	}
	return wait(ctx, task)
}

type imageMosaicArgs struct {
	Images          []imageArg            `json:"images"`
	CanvasWidth     int                   `json:"canvasWidth"`
	CanvasHeight    int                   `json:"canvasHeight"`
	BackgroundColor string                `json:"backgroundColor"`
	Placements      []composite.Placement `json:"placements"`
	Normalized      bool                  `json:"normalized"`
	outputArgs
}

func (s *Server) handleImageMosaic(ctx context.Context, args json.RawMessage, advanced bool) (interface{}, error) {
	var a imageMosaicArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	bg, err := pixel.ParseColor(a.BackgroundColor)
	if err != nil {
		return nil, err
	}
	out, err := a.spec()
	if err != nil {
		return nil, err
	}

	p := composite.MosaicParams{
		Width:      a.CanvasWidth,
		Height:     a.CanvasHeight,
		Background: bg,
		Placements: a.Placements,
		Normalized: a.Normalized,
	}
	var task *engine.Task
	if advanced {
		task, err = s.engine.AdvancedMosaic(ctx, sources(a.Images), p, out)
	} else {
		task, err = s.engine.Mosaic(ctx, sources(a.Images), p, out)
	}
	if err != nil {
		return nil, err
	}
	return wait(ctx, task)
}
