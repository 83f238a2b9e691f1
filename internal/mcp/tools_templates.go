package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xob0t/photocanvas/pkg/template"
)

type templateSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	AspectRatio float64         `json:"aspectRatio"`
	Slots       []template.Rect `json:"slots"`
}

func (s *Server) registerTemplateTools() {
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the collage layouts: id, name, aspect ratio (height/width) and normalized slot rectangles"),
	), s.handleListTemplates)
}

func (s *Server) summaries() []templateSummary {
	var out []templateSummary
	for _, t := range s.catalog.List() {
		out = append(out, templateSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			AspectRatio: t.AspectRatio,
			Slots:       t.Slots,
		})
	}
	return out
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.summaries())
}

func (s *Server) registerResources() {
	// ── photocanvas://templates ────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"photocanvas://templates",
		"Collage Templates",
		mcp.WithMIMEType("application/json"),
	), s.handleTemplatesResource)
}

func (s *Server) handleTemplatesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, _ := json.MarshalIndent(s.summaries(), "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "photocanvas://templates",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
