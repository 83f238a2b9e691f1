// Package server provides the photocanvas HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/xob0t/photocanvas/internal/config"
	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/generator"
	"github.com/xob0t/photocanvas/pkg/imageio"
	"github.com/xob0t/photocanvas/pkg/session"
	"github.com/xob0t/photocanvas/pkg/template"
)

const maxUpload = 32 << 20

// Deps holds what the server needs from the CLI.
type Deps struct {
	Catalog  *template.Catalog
	Settings *config.Settings
	Fonts    *compose.FontManager // placeholder labels on previews; nil disables
}

// ── Server ──

type srv struct {
	assets   *assetManager
	catalog  *template.Catalog
	settings *config.Settings
	preview  *compose.Compositor
}

// NewHandler builds the API handler. Uploaded assets live in a temporary
// directory; call the returned cleanup when the server stops.
func NewHandler(deps Deps) (http.Handler, func(), error) {
	if deps.Catalog == nil {
		deps.Catalog = template.Builtin()
	}
	if deps.Settings == nil {
		deps.Settings = config.DefaultSettings()
	}

	tmpDir, err := os.MkdirTemp("", "photocanvas-serve-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create temp dir: %w", err)
	}

	s := &srv{
		assets:   newAssetManager(tmpDir),
		catalog:  deps.Catalog,
		settings: deps.Settings,
	}
	if deps.Fonts != nil {
		s.preview = compose.New(
			compose.WithInterpolator(deps.Settings.ToInterpolator()),
			compose.WithPlaceholders(deps.Fonts),
		)
	}

	mux := http.NewServeMux()

	// API routes.
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("POST /api/upload/image", s.handleUploadImage)
	mux.HandleFunc("GET /api/assets/{id}", s.handleGetAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)
	mux.HandleFunc("GET /api/assets", s.handleListAssets)

	return mux, func() { os.RemoveAll(tmpDir) }, nil
}

// RunServe starts the API server on the given port.
func RunServe(port string, deps Deps) error {
	handler, cleanup, err := NewHandler(deps)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := ":" + port
	log.Printf("PhotoCanvas API → http://localhost%s/api/templates", addr)
	return http.ListenAndServe(addr, logRequests(handler))
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// ── Templates ──

func (s *srv) handleTemplates(w http.ResponseWriter, r *http.Request) {
	type summary struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Description string          `json:"description,omitempty"`
		AspectRatio float64         `json:"aspectRatio"`
		Slots       []template.Rect `json:"slots"`
	}
	var out []summary
	for _, t := range s.catalog.List() {
		out = append(out, summary{t.ID, t.Name, t.Description, t.AspectRatio, t.Slots})
	}
	writeJSON(w, http.StatusOK, out)
}

// ── Render (core) ──

// renderRequest is a scene whose slot images are asset ids, plus the export
// format.
type renderRequest struct {
	session.Scene
	Format string `json:"format,omitempty"`
}

// buildSession applies the scene in body to a fresh request-scoped session.
func (s *srv) buildSession(r *http.Request) (*session.Session, *renderRequest, []string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read request: %w", err)
	}
	var req renderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, nil, nil, fmt.Errorf("decode request: %w", err)
	}

	// Resolve asset references to stored files.
	var warnings []string
	for i, slot := range req.Slots {
		if slot.Image == "" {
			continue
		}
		path, ok := s.assets.resolve(slot.Image)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("slot %d: unknown asset %q", i+1, slot.Image))
		}
		req.Slots[i].Image = path
	}

	opts := s.settings.SessionOptions()
	if s.preview != nil {
		opts = append(opts, session.WithPreviewCompositor(s.preview))
	}
	sess := session.New(s.catalog, opts...)
	applied, err := sess.ApplyScene(r.Context(), &req.Scene, s.assets.dir)
	if err != nil {
		return nil, nil, nil, err
	}
	return sess, &req, append(warnings, applied...), nil
}

func (s *srv) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, _, warnings, err := s.buildSession(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := generator.GenerateToWriter(&buf, "png", generator.Config{Image: sess.Preview()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setWarnings(w, warnings)
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// ── Export ──

func (s *srv) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, req, warnings, err := s.buildSession(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := req.Format
	if format == "" {
		format = s.settings.ExportFormat()
	}
	if generator.ContentType(format) == "" {
		http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	name, err := sess.Export(&buf, format)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrNothingToExport) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	setWarnings(w, warnings)
	w.Header().Set("Content-Type", generator.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Write(buf.Bytes())
}

// ── Upload ──

func (s *srv) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	cfg, format, err := imageio.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		http.Error(w, fmt.Sprintf("%s: %v", header.Filename, err), http.StatusUnsupportedMediaType)
		return
	}
	if err := imageio.CheckSize(cfg, s.settings.ToDecodeOptions()); err != nil {
		http.Error(w, fmt.Sprintf("%s: %v", header.Filename, err), http.StatusRequestEntityTooLarge)
		return
	}

	a, err := s.assets.add(sanitizeFilename(header.Filename), data, "image/"+format, "."+format, cfg.Width, cfg.Height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ── Asset serving ──

func (s *srv) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assets.get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", a.Mime)
	http.ServeFile(w, r, a.path)
}

func (s *srv) handleListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.assets.listAll())
}

func (s *srv) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.assets.remove(id) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// ── Helpers ──

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setWarnings(w http.ResponseWriter, warnings []string) {
	if len(warnings) > 0 {
		w.Header().Set("X-Photocanvas-Warnings", strings.Join(warnings, "; "))
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
