package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shellmenu/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimmedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	adviceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

const helpText = `shellmenu keys

  ↑/↓ j/k   move in the focused panel
  tab       switch between scenes and entries
  enter     activate row (jump, fold, edit selection, add item)
  space     fold or unfold a drag-drop group
  x         enable or disable the selected item
  s         toggle shift-only for commands
  n         add an item ({GUID} handler or name=command)
  D         delete the selected command or handler
  e p t g   set extension, perceived type, directory type, registry path
  a         analyze a file or folder
  r         scene report (v toggles verbose)
  q         quit

Press any key to close.`

func (m AppModel) View() string {
	if m.ShowHelp {
		return m.renderDialog(helpText, borderColor)
	}
	if m.ShowReport {
		return m.renderDialog(titleStyle.Render("Scene report")+"\n\n"+m.ReportViewport.View()+
			dimmedStyle.Render("\n↑/↓ scroll • v verbose • r/Esc close"), lipgloss.Color("208"))
	}

	width, height := m.WindowSize.Width, m.WindowSize.Height
	netWidth := width - 6
	if netWidth < 40 {
		netWidth = 40
	}
	leftWidth := netWidth / 3
	rightWidth := netWidth - leftWidth
	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	left := m.renderScenes(leftWidth, interiorHeight)
	right := m.renderEntries(rightWidth, interiorHeight)

	footer := "\n" + dimmedStyle.Render("↑/↓: Navigate • Tab: Switch Panel • Enter: Activate • x: Toggle • ?: Help • q: Quit")
	switch {
	case m.InputMode:
		footer = "\n" + m.InputBuffer.View()
	case m.Err != nil:
		footer = "\n" + errorStyle.Render("Error: "+m.Err.Error())
	case m.Status != "":
		footer = "\n" + adviceStyle.Render(m.Status)
	}

	header := titleStyle.Render("shellmenu "+model.Version) + " " +
		dimmedStyle.Render("Windows "+m.Loader.Catalog().Caps().String())
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

func (m AppModel) renderScenes(width, height int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Scenes"))
	b.WriteString("\n\n")

	start, end := window(len(model.AllScenes), m.SceneIdx, height-2)
	c := m.Loader.Catalog()
	for i := start; i < end; i++ {
		s := model.AllScenes[i]
		line := truncate(s.Title(), width-2)
		style := normalStyle
		switch {
		case i == m.SceneIdx:
			style = selectedStyle
		case !c.Supported(s):
			style = dimmedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return box(b.String(), width, height, !m.RightFocus)
}

func (m AppModel) renderEntries(width, height int) string {
	var b strings.Builder
	scene := m.scene()
	b.WriteString(headingStyle.Render(scene.Title()))
	if p, ok := m.Menu.BasePath(); ok {
		b.WriteString(" " + dimmedStyle.Render(truncate(p, width-len(scene.Title())-3)))
	}
	b.WriteString("\n\n")

	rows := m.rows()
	if !m.Loader.Catalog().Supported(scene) {
		b.WriteString(adviceStyle.Render("Not available on this Windows version."))
	} else if len(rows) == 0 {
		b.WriteString(dimmedStyle.Render("No entries."))
	}

	start, end := window(len(rows), m.EntryIdx, height-2)
	for i := start; i < end; i++ {
		e := rows[i]
		mark := model.IconOK
		if !e.Enabled {
			mark = model.IconDisabled
		}
		indent := ""
		if e.Group != nil && e.Kind != model.KindGroup {
			indent = "  "
		}
		text := strings.ReplaceAll(e.Text, "\n", " ")
		line := fmt.Sprintf("%s%s %s %s", indent, mark, model.Icon(e), text)
		if e.OnlyWithShift {
			line += " (shift)"
		}
		line = truncate(line, width-2)

		style := normalStyle
		switch {
		case m.RightFocus && i == m.EntryIdx:
			style = selectedStyle
		case !e.Enabled:
			style = dimmedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return box(b.String(), width, height, m.RightFocus)
}

func (m AppModel) renderDialog(content string, border lipgloss.Color) string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}
	dialogWidth := w * 90 / 100
	if dialogWidth > w-4 {
		dialogWidth = w - 4
	}
	dialog := lipgloss.NewStyle().
		Width(dialogWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(content)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dialog)
}

func box(content string, width, height int, focused bool) string {
	color := borderColor
	if focused {
		color = activeColor
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(lipgloss.NormalBorder()).
		BorderForeground(color).
		Render(strings.TrimSuffix(content, "\n"))
}

// window returns the slice bounds that keep cursor near the middle of a
// panel showing visible rows.
func window(n, cursor, visible int) (start, end int) {
	if visible < 1 {
		visible = 1
	}
	if n <= visible {
		return 0, n
	}
	start = cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > n {
		start = n - visible
	}
	return start, start + visible
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
