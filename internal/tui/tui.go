// Package tui provides a Bubble Tea terminal user interface for photocanvas.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xob0t/photocanvas/internal/config"
	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/session"
	"github.com/xob0t/photocanvas/pkg/slots"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4"))
)

// Control steps per key press.
const (
	zoomStep     = 0.1
	rotateStep   = 5.0
	marginStep   = 2.0
	radiusStep   = 4.0
	widthStep    = 100
	maxLogs      = 6
	defaultCols  = 48
	minPreview   = 16
	maxPreview   = 96
	sceneFile    = "scene.json"
	pathInputMax = 1024
)

// backgrounds is the palette cycled by the background key.
var backgrounds = []string{"#ffffff", "#000000", "#1e1e2e", "#f5e6d3", "#2e3440"}

// State represents the current UI state.
type State int

const (
	StateBrowse State = iota
	StateInput
)

// Level classifies a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   Level
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	settings  *config.Settings
	sess      *session.Session
	logs      []LogEntry

	ctx    context.Context
	cancel context.CancelFunc

	selected int
	paths    []string             // source path per slot, for scene saving
	pending  map[int]slots.Ticket // loads in flight
	bgIndex  int

	width  int
	height int
}

// NewModel creates a new TUI model around sess.
func NewModel(sess *session.Session, settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "path/to/photo.jpg"
	ti.CharLimit = pathInputMax
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateBrowse,
		textInput: ti,
		spinner:   sp,
		settings:  settings,
		sess:      sess,
		ctx:       ctx,
		cancel:    cancel,
		paths:     make([]string, sess.SlotCount()),
		pending:   make(map[int]slots.Ticket),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// LoadedMsg is sent when a slot image finishes decoding.
	LoadedMsg struct {
		Result session.LoadResult
		Path   string
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		if m.state == StateInput {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case LoadedMsg:
		m.applyLoad(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateBrowse
		m.textInput.Blur()
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.textInput.Value())
		m.state = StateBrowse
		m.textInput.Blur()
		if path == "" {
			return m, nil
		}
		return m, m.startLoad(m.selected, path)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	slot := m.selected

	switch key {
	case "q", "esc":
		m.cancel()
		return m, tea.Quit

	case "t", "T":
		m.cycleTemplate(key == "T")

	case "tab", "shift+tab":
		n := m.sess.SlotCount()
		if n > 0 {
			step := 1
			if key == "shift+tab" {
				step = n - 1
			}
			m.selected = (m.selected + step) % n
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if i := int(key[0] - '1'); i < m.sess.SlotCount() {
			m.selected = i
		}

	case "enter", "o":
		m.state = StateInput
		m.textInput.SetValue(m.paths[slot])
		m.textInput.Focus()
		return m, textinput.Blink

	case "x", "backspace", "delete":
		_ = m.sess.ClearSlot(slot)
		delete(m.pending, slot)
		m.paths[slot] = ""

	case "+", "=":
		m.adjust(func(st slots.State) { _ = m.sess.SetZoom(slot, st.Zoom+zoomStep) })
	case "-", "_":
		m.adjust(func(st slots.State) { _ = m.sess.SetZoom(slot, st.Zoom-zoomStep) })
	case "]":
		m.adjust(func(st slots.State) { _ = m.sess.SetRotation(slot, st.Rotation+rotateStep) })
	case "[":
		m.adjust(func(st slots.State) { _ = m.sess.SetRotation(slot, st.Rotation-rotateStep) })

	case "left", "h":
		m.drag(-1, 0)
	case "right", "l":
		m.drag(1, 0)
	case "up", "k":
		m.drag(0, -2)
	case "down", "j":
		m.drag(0, 2)

	case "m", "M", "r", "R", "w", "W", "b":
		m.adjustCanvas(key)

	case "e":
		m.export()

	case "s":
		m.saveScene()
	}

	return m, nil
}

// adjust runs f on the selected slot's current state, only if it is filled.
func (m *Model) adjust(f func(slots.State)) {
	st, ok := m.sess.Slot(m.selected)
	if !ok || !st.Filled() {
		return
	}
	f(st)
}

// drag pans the selected slot by preview pixels. Each cell is one pixel
// wide and two pixels tall.
func (m *Model) drag(dx, dy float64) {
	cols, rows := m.previewSize()
	_ = m.sess.Drag(m.selected, dx, dy, float64(cols), float64(rows*2))
}

func (m *Model) cycleTemplate(backwards bool) {
	list := m.sess.Templates()
	if len(list) == 0 {
		return
	}
	cur := 0
	for i, t := range list {
		if t.ID == m.sess.Active().ID {
			cur = i
		}
	}
	step := 1
	if backwards {
		step = len(list) - 1
	}
	next := list[(cur+step)%len(list)]
	if m.sess.SelectTemplate(next.ID) {
		m.selected = 0
		m.paths = make([]string, m.sess.SlotCount())
		m.pending = make(map[int]slots.Ticket)
	}
}

func (m *Model) adjustCanvas(key string) {
	cfg := m.sess.Config()
	switch key {
	case "m":
		cfg.Margin += marginStep
	case "M":
		cfg.Margin = max(cfg.Margin-marginStep, 0)
	case "r":
		cfg.CornerRadius += radiusStep
	case "R":
		cfg.CornerRadius = max(cfg.CornerRadius-radiusStep, 0)
	case "w":
		cfg.Width += widthStep
	case "W":
		cfg.Width -= widthStep
	case "b":
		m.bgIndex = (m.bgIndex + 1) % len(backgrounds)
		cfg.Background = compose.ParseHexRGBA(backgrounds[m.bgIndex])
	}
	m.sess.SetConfig(cfg)
}

// startLoad begins a decode for slot and returns the command running it.
func (m *Model) startLoad(slot int, path string) tea.Cmd {
	t, ok := m.sess.BeginLoad(slot)
	if !ok {
		return nil
	}
	m.pending[slot] = t
	m.addLog(fmt.Sprintf("Loading %s into slot %d…", filepath.Base(path), slot+1), LevelInfo)

	sess, ctx := m.sess, m.ctx
	return tea.Batch(func() tea.Msg {
		return LoadedMsg{Result: sess.LoadPath(ctx, t, path), Path: path}
	}, m.spinner.Tick)
}

func (m *Model) applyLoad(msg LoadedMsg) {
	slot := msg.Result.Ticket.Slot
	if t, ok := m.pending[slot]; ok && t == msg.Result.Ticket {
		delete(m.pending, slot)
	}

	err := m.sess.Apply(msg.Result)
	switch {
	case errors.Is(err, session.ErrStaleLoad):
		m.addLog(fmt.Sprintf("Slot %d: discarded outdated load of %s", slot+1, filepath.Base(msg.Path)), LevelWarning)
	case err != nil:
		m.paths[slot] = ""
		m.addLog(err.Error(), LevelError)
	default:
		m.paths[slot] = msg.Path
		m.addLog(fmt.Sprintf("Slot %d: %s", slot+1, filepath.Base(msg.Path)), LevelSuccess)
	}
}

func (m *Model) export() {
	path, err := m.sess.ExportFile(m.settings.OutputDir, m.settings.ExportFormat())
	if err != nil {
		if errors.Is(err, session.ErrNothingToExport) {
			m.addLog("Add at least one photo before exporting", LevelWarning)
			return
		}
		m.addLog(fmt.Sprintf("Export failed: %v", err), LevelError)
		return
	}
	m.addLog(fmt.Sprintf("Exported %s", path), LevelSuccess)
}

func (m *Model) saveScene() {
	dir := m.settings.OutputDir
	if dir == "" {
		dir = "."
	}
	data, err := marshalScene(m.sess.Scene(m.paths))
	if err == nil {
		err = os.MkdirAll(dir, 0755)
	}
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, sceneFile), data, 0644)
	}
	if err != nil {
		m.addLog(fmt.Sprintf("Save scene failed: %v", err), LevelError)
		return
	}
	m.addLog(fmt.Sprintf("Saved %s", filepath.Join(dir, sceneFile)), LevelSuccess)
}

func (m *Model) addLog(msg string, level Level) {
	m.logs = append(m.logs, LogEntry{Message: msg, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Run starts the TUI on the terminal.
func Run(sess *session.Session, settings *config.Settings) error {
	p := tea.NewProgram(NewModel(sess, settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
