// PhotoCanvas: photo collage compositing.
//
// Usage:
//
//	photocanvas -o <file> --template <id> --images a.jpg,b.jpg [options]
//	photocanvas -o <file> --scene <scene.json>
//	photocanvas templates
//	photocanvas init
//	photocanvas serve [--port 8080]
//	photocanvas tui
//	photocanvas watch --scene <scene.json> -o <file>
//	photocanvas mcp
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/xob0t/photocanvas/clients/server"
	"github.com/xob0t/photocanvas/internal/config"
	mcpserver "github.com/xob0t/photocanvas/internal/mcp"
	"github.com/xob0t/photocanvas/internal/tui"
	"github.com/xob0t/photocanvas/internal/watch"
	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/session"
	"github.com/xob0t/photocanvas/pkg/template"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = run(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "templates":
		err = runTemplates(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "tui":
		err = runTUI(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "version":
		fmt.Println("photocanvas", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		// Default: render mode (all flags on root).
		err = run(os.Args[1:])
	}
	if err != nil {
		fatal(err)
	}
}

// ── Shared setup ──

// env is what every subcommand loads before doing its work.
type env struct {
	settings *config.Settings
	catalog  *template.Catalog
}

func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", config.DefaultPath(), "Settings file")
}

func loadEnv(settingsPath string) (*env, error) {
	settings, err := config.Load(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	for _, w := range settings.Validate() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	catalog, warnings, err := template.LoadCatalog(settings.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return &env{settings: settings, catalog: catalog}, nil
}

// newSession builds a session from the settings. Extra options are applied
// last.
func (e *env) newSession(extra ...session.Option) *session.Session {
	opts := append(e.settings.SessionOptions(), extra...)
	sess := session.New(e.catalog, opts...)
	if id := e.settings.DefaultTemplate; id != "" && !sess.SelectTemplate(id) {
		fmt.Fprintf(os.Stderr, "Warning: default template %q not found, using %q\n", id, sess.Active().ID)
	}
	return sess
}

func (e *env) fonts() (*compose.FontManager, error) {
	fm, err := compose.NewFontManager(e.settings.FontPath)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return fm, nil
}

func stderrLogger() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

// ── Render ──

func run(args []string) error {
	fs := flag.NewFlagSet("photocanvas", flag.ExitOnError)

	var (
		output     string
		scenePath  string
		templateID string
		images     string
		width      int
		background string
		margin     float64
		radius     float64
		outDir     string
		format     string
	)
	settingsPath := configFlag(fs)
	fs.StringVar(&output, "o", "", "Output file path (.png, .jpg, .bmp, .tiff)")
	fs.StringVar(&output, "output", "", "Output file path (.png, .jpg, .bmp, .tiff)")
	fs.StringVar(&scenePath, "scene", "", "Scene JSON describing template, canvas and slots")
	fs.StringVar(&templateID, "template", "", "Template id (see: photocanvas templates)")
	fs.StringVar(&images, "images", "", "Comma-separated image paths, one per slot")
	fs.IntVar(&width, "width", 0, "Canvas width in pixels")
	fs.StringVar(&background, "background", "", "Background color (#rgb or #rrggbb)")
	fs.Float64Var(&margin, "margin", -1, "Gap between slots in pixels")
	fs.Float64Var(&radius, "radius", -1, "Slot corner radius in pixels")
	fs.StringVar(&outDir, "dir", "", "Output directory when -o is not given")
	fs.StringVar(&format, "format", "", "Export format when -o is not given (png, jpg, bmp, tiff)")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*settingsPath)
	if err != nil {
		return err
	}

	var (
		sc      *session.Scene
		baseDir = "."
	)
	if scenePath != "" {
		if sc, err = session.LoadScene(scenePath); err != nil {
			return err
		}
		baseDir = filepath.Dir(scenePath)
	} else {
		if templateID == "" && images == "" {
			printUsage()
			return fmt.Errorf("either --scene or --template/--images is required")
		}
		sc = &session.Scene{Template: templateID}
		if sc.Template == "" {
			sc.Template = e.newSession().Active().ID
		}
		for _, p := range splitList(images) {
			sc.Slots = append(sc.Slots, session.SceneSlot{Image: p})
		}
	}

	// Command-line canvas flags win over the scene.
	if width > 0 {
		sc.Canvas.Width = width
	}
	if background != "" {
		sc.Canvas.Background = background
	}
	if margin >= 0 {
		sc.Canvas.Margin = &margin
	}
	if radius >= 0 {
		sc.Canvas.Radius = &radius
	}

	sess := e.newSession()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	warnings, err := sess.ApplyScene(ctx, sc, baseDir)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if output == "" {
		if outDir == "" {
			outDir = e.settings.OutputDir
		}
		if format == "" {
			format = e.settings.ExportFormat()
		}
		output, err = sess.ExportFile(outDir, format)
	} else {
		err = sess.ExportTo(output)
	}
	if err != nil {
		return err
	}

	w, h := sess.CanvasSize()
	fmt.Printf("Done: %s (%s, %dx%d, %d/%d slots)\n", output, sess.Active().ID, w, h, sess.FilledSlots(), sess.SlotCount())
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		out = append(out, strings.TrimSpace(p))
	}
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}

// ── Templates ──

func runTemplates(args []string) error {
	fs := flag.NewFlagSet("templates", flag.ExitOnError)
	settingsPath := configFlag(fs)
	catalogPath := fs.String("catalog", "", "Extra templates JSON (overrides the settings file)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*settingsPath)
	if err != nil {
		return err
	}
	if *catalogPath != "" {
		extra, warnings, err := template.ParseCatalogFile(*catalogPath)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		e.catalog = template.Merge(e.catalog, extra)
	}
	fmt.Print(template.Format(e.catalog))
	return nil
}

// ── Init ──

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var catalogOut, sceneOut, settingsOut string
	fs.StringVar(&catalogOut, "templates", "templates.json", "Output path for sample templates")
	fs.StringVar(&sceneOut, "scene", "scene.json", "Output path for sample scene")
	fs.StringVar(&settingsOut, "settings", "", "Also write default settings to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, s := template.ExampleJSON()

	if err := os.WriteFile(catalogOut, []byte(c), 0644); err != nil {
		return fmt.Errorf("write templates: %w", err)
	}
	if err := os.WriteFile(sceneOut, []byte(s), 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	created := []string{catalogOut, sceneOut}

	if settingsOut != "" {
		settings := config.DefaultSettings()
		settings.CatalogPath = catalogOut
		if err := settings.Save(settingsOut); err != nil {
			return fmt.Errorf("write settings: %w", err)
		}
		created = append(created, settingsOut)
	}

	fmt.Printf("Created: %s\n", strings.Join(created, ", "))
	fmt.Printf("Run: photocanvas -o collage.png --scene %s\n", sceneOut)
	return nil
}

// ── Serve ──

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", "8080", "Port to listen on")
	settingsPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*settingsPath)
	if err != nil {
		return err
	}
	fm, err := e.fonts()
	if err != nil {
		return err
	}
	return server.RunServe(*port, server.Deps{Catalog: e.catalog, Settings: e.settings, Fonts: fm})
}

// ── TUI ──

func runTUI(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	settingsPath := configFlag(fs)
	templateID := fs.String("template", "", "Template to start with")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*settingsPath)
	if err != nil {
		return err
	}
	fm, err := e.fonts()
	if err != nil {
		return err
	}

	preview := compose.New(
		compose.WithInterpolator(e.settings.ToInterpolator()),
		compose.WithPlaceholders(fm),
	)
	sess := e.newSession(session.WithPreviewCompositor(preview))
	if *templateID != "" && !sess.SelectTemplate(*templateID) {
		return fmt.Errorf("unknown template %q", *templateID)
	}
	return tui.Run(sess, e.settings)
}

// ── Watch ──

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	settingsPath := configFlag(fs)
	var scenePath, output string
	fs.StringVar(&scenePath, "scene", "scene.json", "Scene JSON to watch")
	fs.StringVar(&output, "o", "collage.png", "Output file path")
	fs.StringVar(&output, "output", "collage.png", "Output file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*settingsPath)
	if err != nil {
		return err
	}
	logger := stderrLogger()

	render := func(ctx context.Context) error {
		sc, err := session.LoadScene(scenePath)
		if err != nil {
			return err
		}
		sess := e.newSession(session.WithLogger(logger))
		if _, err := sess.ApplyScene(ctx, sc, filepath.Dir(scenePath)); err != nil {
			return err
		}
		if err := sess.ExportTo(output); err != nil {
			return err
		}
		logger.Printf("watch: wrote %s", output)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Printf("watch: %s → %s (Ctrl+C to stop)", scenePath, output)
	err = watch.New(scenePath, render, watch.WithLogger(logger)).Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// ── MCP ──

func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	settingsPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// stdout carries the protocol; keep logs on stderr.
	log.SetOutput(os.Stderr)

	e, err := loadEnv(*settingsPath)
	if err != nil {
		return err
	}
	return mcpserver.New(mcpserver.Deps{
		Catalog:  e.catalog,
		Settings: e.settings,
		Version:  version,
	}).ServeStdio()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`PhotoCanvas - Photo Collage Compositing (Pure Go)

USAGE:
    photocanvas [render] -o <file> --template <id> --images <a,b,...> [options]
    photocanvas [render] --scene <scene.json> [--dir <dir> --format <ext>]
    photocanvas templates [--catalog <templates.json>]
    photocanvas init [options]
    photocanvas serve [--port 8080]
    photocanvas tui [--template <id>]
    photocanvas watch --scene <scene.json> -o <file>
    photocanvas mcp

RENDER:
    --template <id>        Layout to fill (default: first template)
    --images <paths>       Comma-separated images, one per slot; empty entries skip a slot
    --scene <path>         Scene JSON with per-slot zoom, rotation and offsets
    -o, --output <path>    Output file (.png, .jpg, .bmp, .tiff); default:
                           <dir>/photo-canvas-<template>.<format>
    --dir <path>           Output directory (default from settings)
    --format <ext>         png, jpg, bmp or tiff (default from settings)
    --width <px>           Canvas width (400-3000, default from settings)
    --background <hex>     Background color
    --margin <px>          Gap between slots
    --radius <px>          Slot corner radius

COMMON:
    --config <path>        Settings file (default: user config dir)

SUBCOMMANDS:
    templates              List available templates
    init                   Write sample templates.json and scene.json
    serve                  Start the HTTP API
    tui                    Interactive terminal editor
    watch                  Re-render whenever the scene or its images change
    mcp                    Serve tools over MCP on stdio

EXAMPLES:
    photocanvas init
    photocanvas -o collage.png --scene scene.json
    photocanvas -o strip.jpg --template wide-film --images a.jpg,b.jpg,c.jpg
    photocanvas watch --scene scene.json -o collage.png
`)
}
