package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xob0t/photocanvas/pkg/session"
)

type renderResult struct {
	Path     string   `json:"path"`
	Template string   `json:"template"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Filled   int      `json:"filledSlots"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) registerRenderTools() {
	s.mcp.AddTool(mcp.NewTool("render_collage",
		mcp.WithDescription("Compose photos into a template and write the result as an image file. Slots are filled in order; empty strings leave a slot empty."),
		mcp.WithString("template", mcp.Description("Template id (see list_templates)"), mcp.Required()),
		mcp.WithString("images", mcp.Description("Image paths, one per slot: a JSON array or a comma/newline separated list"), mcp.Required()),
		mcp.WithString("output", mcp.Description("Output file path; the extension picks the format (.png, .jpg, .bmp, .tiff)"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Canvas width in pixels, 400-3000 (optional)")),
		mcp.WithNumber("margin", mcp.Description("Gap between slots in pixels (optional)")),
		mcp.WithNumber("radius", mcp.Description("Slot corner radius in pixels (optional)")),
		mcp.WithString("background", mcp.Description("Background color hex, e.g. #ffffff (optional)")),
	), s.handleRenderCollage)
}

func (s *Server) handleRenderCollage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	tplID, _ := args["template"].(string)
	output, _ := args["output"].(string)
	if tplID == "" || output == "" {
		return nil, fmt.Errorf("template and output are required")
	}
	if _, ok := s.catalog.Find(tplID); !ok {
		return nil, fmt.Errorf("unknown template %q", tplID)
	}
	images, err := parseImages(args["images"])
	if err != nil {
		return nil, err
	}

	base := s.settings.ToCanvasConfig()
	margin := numberArg(args, "margin", base.Margin)
	radius := numberArg(args, "radius", base.CornerRadius)
	scene := &session.Scene{
		Template: tplID,
		Canvas: session.SceneCanvas{
			Width:  int(numberArg(args, "width", float64(base.Width))),
			Margin: &margin,
			Radius: &radius,
		},
	}
	if bg, ok := args["background"].(string); ok {
		scene.Canvas.Background = bg
	}
	for _, p := range images {
		scene.Slots = append(scene.Slots, session.SceneSlot{Image: p})
	}

	sess := session.New(s.catalog, s.settings.SessionOptions()...)
	warnings, err := sess.ApplyScene(ctx, scene, "")
	if err != nil {
		return nil, err
	}
	if err := sess.ExportTo(output); err != nil {
		return nil, fmt.Errorf("render %s: %w", tplID, err)
	}

	abs, _ := filepath.Abs(output)
	w, h := sess.CanvasSize()
	log.Printf("[MCP] rendered %s (%dx%d) to %s", tplID, w, h, abs)
	return jsonResult(renderResult{
		Path:     abs,
		Template: tplID,
		Width:    w,
		Height:   h,
		Filled:   sess.FilledSlots(),
		Warnings: warnings,
	})
}

// parseImages accepts a JSON array (as a string or already decoded) or a
// comma/newline separated list.
func parseImages(v any) ([]string, error) {
	switch v := v.(type) {
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("images[%d] is not a string", i)
			}
			out[i] = strings.TrimSpace(s)
		}
		return out, nil

	case string:
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var out []string
			if err := json.Unmarshal([]byte(v), &out); err != nil {
				return nil, fmt.Errorf("parse images: %w", err)
			}
			return out, nil
		}
		fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '\n' })
		out := make([]string, len(fields))
		for i, f := range fields {
			out[i] = strings.TrimSpace(f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("images is required")
}
