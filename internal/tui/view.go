package tui

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/session"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("PhotoCanvas"))
	b.WriteString("\n")

	t := m.sess.Active()
	cfg := m.sess.Config()
	w, h := m.sess.CanvasSize()
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s (%s)", t.Name, t.ID)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d×%d  margin %.0f  radius %.0f  bg %s",
		w, h, cfg.Margin, cfg.CornerRadius, compose.FormatHex(cfg.Background))))
	b.WriteString("\n\n")

	preview := boxStyle.Render(m.renderPreview())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, preview, "  ", m.renderSlots()))
	b.WriteString("\n")

	if m.state == StateInput {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Image for slot %d:", m.selected+1)))
		b.WriteString("\n")
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderLogs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) renderSlots() string {
	var b strings.Builder

	b.WriteString(infoStyle.Render("Slots:"))
	b.WriteString("\n")
	for i, st := range m.sess.States() {
		marker := "  "
		style := dimStyle
		if i == m.selected {
			marker = "› "
			style = selectedStyle
		}

		desc := "empty"
		if _, loading := m.pending[i]; loading {
			desc = m.spinner.View() + " loading"
		} else if st.Filled() {
			name := "image"
			if m.paths[i] != "" {
				name = filepath.Base(m.paths[i])
			}
			desc = fmt.Sprintf("%s  zoom %.1f  rot %.0f°  pan %.0f,%.0f", name, st.Zoom, st.Rotation, st.OffsetX, st.OffsetY)
		}
		b.WriteString(style.Render(fmt.Sprintf("%sSlot %d: %s", marker, i+1, desc)))
		b.WriteString("\n")
	}

	filled := m.sess.FilledSlots()
	b.WriteString("\n")
	if filled == 0 {
		b.WriteString(warningStyle.Render("Export disabled: no photos yet"))
	} else {
		b.WriteString(successStyle.Render(fmt.Sprintf("Ready to export %s", m.sess.ExportName(m.settings.ExportFormat()))))
	}
	b.WriteString("\n")
	return b.String()
}

// previewSize returns the preview size in terminal cells.
func (m Model) previewSize() (cols, rows int) {
	cols = defaultCols
	if m.width > 0 {
		cols = m.width / 2
	}
	cols = min(max(cols, minPreview), maxPreview)

	w, h := m.sess.CanvasSize()
	rows = max((cols*h/w+1)/2, 1)
	return cols, rows
}

// renderPreview draws the canvas with half-block cells: each cell shows two
// vertically stacked pixels as foreground and background colors.
func (m Model) renderPreview() string {
	cols, rows := m.previewSize()
	canvas := m.sess.Preview()

	small := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := small.RGBAAt(x, 2*y)
			bottom := small.RGBAAt(x, 2*y+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(compose.FormatHex(opaque(top)))).
				Background(lipgloss.Color(compose.FormatHex(opaque(bottom))))
			b.WriteString(cell.Render("▀"))
		}
		if y < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case LevelError:
			style = errorStyle
			prefix = "✗"
		case LevelWarning:
			style = warningStyle
			prefix = "!"
		case LevelSuccess:
			style = successStyle
			prefix = "✓"
		default:
			style = infoStyle
			prefix = "›"
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: load • esc: cancel"
	default:
		return "t/T: template • tab/1-9: slot • o: open • x: clear • +/-: zoom • [/]: rotate • arrows: pan\n" +
			"m/M: margin • r/R: radius • w/W: width • b: background • e: export • s: save scene • q: quit"
	}
}

func marshalScene(sc *session.Scene) ([]byte, error) {
	return json.MarshalIndent(sc, "", "  ")
}

// opaque drops alpha so translucent backgrounds still map to a terminal color.
func opaque(c color.RGBA) color.RGBA {
	c.A = 0xff
	return c
}
