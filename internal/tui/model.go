package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"shellmenu/internal/analysis"
	"shellmenu/internal/menu"
	"shellmenu/internal/model"
	"shellmenu/internal/selection"
)

// prompt identifies what the input line is collecting.
type prompt int

const (
	promptNone prompt = iota
	promptExtension
	promptPerceivedType
	promptDirectoryType
	promptRegPath
	promptAnalyze
	promptNewItem
	promptSetPerceivedType
)

func (p prompt) label() string {
	switch p {
	case promptExtension:
		return "Extension"
	case promptPerceivedType:
		return "Perceived type"
	case promptDirectoryType:
		return "Directory type"
	case promptRegPath:
		return "Registry path"
	case promptAnalyze:
		return "Analyze path"
	case promptNewItem:
		return "New item ({GUID} or name=command)"
	case promptSetPerceivedType:
		return "Perceived type of extension"
	}
	return ""
}

// AppModel holds the TUI state.
type AppModel struct {
	// Collaborators
	Loader   *menu.Loader
	Sel      *selection.State
	Analyzer *analysis.Engine
	Menu     *menu.View
	Logger   *log.Logger

	// UI State
	SceneIdx   int
	EntryIdx   int
	RightFocus bool
	WindowSize tea.WindowSizeMsg
	Status     string
	Err        error

	// Input State
	InputMode   bool
	Prompt      prompt
	InputBuffer textinput.Model

	// Popups
	ShowHelp       bool
	ShowReport     bool
	ReportVerbose  bool
	ReportViewport viewport.Model
}

// InitialModel binds a view of the first scene to sel. analyzer may be nil,
// which disables the analysis prompt.
func InitialModel(ld *menu.Loader, sel *selection.State, analyzer *analysis.Engine, logger *log.Logger) AppModel {
	ti := textinput.New()
	ti.CharLimit = 260
	ti.Width = 50

	if logger == nil {
		logger = log.New(io.Discard)
	}
	return AppModel{
		Loader:         ld,
		Sel:            sel,
		Analyzer:       analyzer,
		Menu:           menu.NewView(ld, sel, model.AllScenes[0]),
		Logger:         logger,
		InputBuffer:    ti,
		ReportViewport: viewport.New(80, 20),
	}
}

// StartAt shows scene first.
func (m *AppModel) StartAt(scene model.Scene) {
	for i, s := range model.AllScenes {
		if s == scene {
			m.SceneIdx = i
		}
	}
	m.Menu.SetScene(scene)
	m.EntryIdx = 0
}

func (m AppModel) scene() model.Scene {
	return model.AllScenes[m.SceneIdx]
}

// rows are the entries currently shown in the right panel.
func (m AppModel) rows() model.List {
	return m.Menu.Entries().VisibleEntries()
}

func (m AppModel) selected() *model.Entry {
	rows := m.rows()
	if m.EntryIdx < 0 || m.EntryIdx >= len(rows) {
		return nil
	}
	return rows[m.EntryIdx]
}

func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}
