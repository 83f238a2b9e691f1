package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xob0t/photocanvas/internal/config"
	"github.com/xob0t/photocanvas/pkg/template"
)

// Server is the MCP server for photocanvas.
// It exposes the template catalog and collage rendering so AI agents can
// compose images without the interactive front ends.
type Server struct {
	mcp      *server.MCPServer
	catalog  *template.Catalog
	settings *config.Settings
}

// Deps holds the dependencies passed from the CLI.
type Deps struct {
	Catalog  *template.Catalog
	Settings *config.Settings
	Version  string
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	if deps.Catalog == nil {
		deps.Catalog = template.Builtin()
	}
	if deps.Settings == nil {
		deps.Settings = config.DefaultSettings()
	}
	if deps.Version == "" {
		deps.Version = "1.0.0"
	}

	s := &Server{
		catalog:  deps.Catalog,
		settings: deps.Settings,
	}

	s.mcp = server.NewMCPServer(
		"photocanvas-mcp",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTemplateTools()
	s.registerRenderTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// numberArg returns args[name] as a float64, or def when absent.
func numberArg(args map[string]any, name string, def float64) float64 {
	switch v := args[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return def
}
