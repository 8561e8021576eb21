package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"shellmenu/internal/menu"
	"shellmenu/internal/model"
	"shellmenu/internal/report"
	"shellmenu/internal/selection"
)

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.ReportViewport.Width = msg.Width * 90 / 100
		m.ReportViewport.Height = msg.Height - 10
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.submit(strings.TrimSpace(m.InputBuffer.Value()))
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.Prompt = promptNone
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		if m.ShowReport {
			switch msg.String() {
			case "r", "esc", "q":
				m.ShowReport = false
			case "v":
				m.ReportVerbose = !m.ReportVerbose
				m.refreshReport()
			default:
				m.ReportViewport, cmd = m.ReportViewport.Update(msg)
			}
			return m, cmd
		}

		if m.ShowHelp {
			m.ShowHelp = false
			return m, nil
		}

		m.Status, m.Err = "", nil
		switch msg.String() {
		case "ctrl+c", "q":
			m.Menu.Close()
			return m, tea.Quit
		case "?":
			m.ShowHelp = true
		case "tab":
			m.RightFocus = !m.RightFocus
		case "up", "k":
			if m.RightFocus {
				if m.EntryIdx > 0 {
					m.EntryIdx--
				}
			} else if m.SceneIdx > 0 {
				m.moveScene(m.SceneIdx - 1)
			}
		case "down", "j":
			if m.RightFocus {
				if m.EntryIdx < len(m.rows())-1 {
					m.EntryIdx++
				}
			} else if m.SceneIdx < len(model.AllScenes)-1 {
				m.moveScene(m.SceneIdx + 1)
			}
		case " ":
			if e := m.selected(); e != nil && e.Kind == model.KindGroup {
				e.Group.Toggle()
			}
		case "x":
			m.toggleEnabled()
		case "s":
			m.toggleShift()
		case "D":
			m.deleteSelected()
		case "n":
			return m, m.ask(promptNewItem, "")
		case "e":
			ext, _ := m.Sel.Extension()
			return m, m.ask(promptExtension, ext)
		case "p":
			pt, _ := m.Sel.PerceivedType()
			return m, m.ask(promptPerceivedType, pt)
		case "t":
			dt, _ := m.Sel.DirectoryType()
			return m, m.ask(promptDirectoryType, dt)
		case "g":
			p, _ := m.Sel.CustomPath()
			return m, m.ask(promptRegPath, p)
		case "a":
			if m.Analyzer == nil {
				m.Status = "analysis is not available"
				return m, nil
			}
			p, _ := m.Sel.AnalysisTarget()
			return m, m.ask(promptAnalyze, p)
		case "r":
			m.ShowReport = true
			m.refreshReport()
		case "enter":
			return m, m.activate()
		}
	}

	return m, cmd
}

func (m *AppModel) moveScene(i int) {
	m.SceneIdx = i
	m.EntryIdx = 0
	m.Menu.SetScene(m.scene())
}

func (m *AppModel) ask(p prompt, value string) tea.Cmd {
	m.InputMode = true
	m.Prompt = p
	m.InputBuffer.Prompt = p.label() + ": "
	m.InputBuffer.SetValue(value)
	m.InputBuffer.Focus()
	return textinput.Blink
}

// submit applies a finished prompt. Selection writes reload the bound view
// before they return.
func (m *AppModel) submit(value string) {
	p := m.Prompt
	m.Prompt = promptNone
	var err error
	switch p {
	case promptExtension:
		m.Sel.SetExtension(value)
		m.jumpTo(model.SceneCustomExtension)
	case promptPerceivedType:
		if _, err = m.Sel.SetPerceivedType(value); err == nil {
			m.jumpTo(model.ScenePerceivedType)
		}
	case promptDirectoryType:
		if _, err = m.Sel.SetDirectoryType(value); err == nil {
			m.jumpTo(model.SceneDirectoryType)
		}
	case promptRegPath:
		var ok bool
		_, ok, err = m.Sel.ChooseCustomPath(selection.PrompterFunc(func() (string, bool) {
			return value, value != ""
		}))
		if ok {
			m.jumpTo(model.SceneCustomRegPath)
		}
	case promptAnalyze:
		m.Sel.SetAnalysisTarget(model.ExpandTilde(value))
		m.jumpTo(model.SceneMenuAnalysis)
	case promptNewItem:
		err = m.addItem(value)
	case promptSetPerceivedType:
		ext, _ := m.Sel.Extension()
		if err = m.Loader.SetPerceivedType(ext, value); err == nil {
			m.Menu.Reload()
		}
	}
	m.report(err)
}

func (m *AppModel) jumpTo(scene model.Scene) {
	if m.scene() != scene {
		for i, s := range model.AllScenes {
			if s == scene {
				m.moveScene(i)
			}
		}
	}
	m.RightFocus = true
	m.EntryIdx = 0
}

// addItem registers a handler when value parses as a GUID and a command
// written as name=command otherwise.
func (m *AppModel) addItem(value string) error {
	base, ok := m.Menu.BasePath()
	scene := m.scene()
	switch scene {
	case model.SceneCommandStore:
		base, ok = model.CommandStorePath, true
	case model.SceneDragDrop:
		base, ok = model.MenuPathFolder, true
		if e := m.selected(); e != nil && e.Group != nil {
			base = strings.TrimSuffix(e.Group.Target, `\`+model.ShellExKey)
		}
	}
	if !ok {
		return menu.ErrNoBasePath
	}
	if _, err := uuid.Parse(value); err == nil || scene == model.SceneDragDrop {
		_, err := m.Loader.AddHandler(m.Menu.List(), scene, base, value)
		return err
	}
	name, command, found := strings.Cut(value, "=")
	if !found {
		return fmt.Errorf("%w: expected {GUID} or name=command", menu.ErrInvalidName)
	}
	_, err := m.Loader.AddCommand(m.Menu.List(), scene, base, name, "", strings.TrimSpace(command))
	return err
}

func (m *AppModel) toggleEnabled() {
	e := m.selected()
	if e == nil {
		return
	}
	var err error
	switch e.Kind {
	case model.KindCommand, model.KindStoreCommand:
		err = m.Loader.SetCommandEnabled(e, !e.Enabled)
	case model.KindHandler:
		err = m.Loader.SetHandlerEnabled(e, !e.Enabled)
	case model.KindRule:
		err = m.Loader.SetRuleVisible(e, !e.Enabled)
	case model.KindUWPMode:
		err = m.Loader.SetUWPModeEnabled(e, !e.Enabled)
	default:
		return
	}
	m.report(err)
}

func (m *AppModel) toggleShift() {
	if e := m.selected(); e != nil {
		err := m.Loader.SetCommandShiftOnly(e, !e.OnlyWithShift)
		if !errors.Is(err, menu.ErrWrongKind) {
			m.report(err)
		}
	}
}

func (m *AppModel) deleteSelected() {
	e := m.selected()
	if e == nil {
		return
	}
	err := m.Loader.Delete(m.Menu.List(), e)
	if err == nil && m.EntryIdx >= len(m.rows()) && m.EntryIdx > 0 {
		m.EntryIdx--
	}
	m.report(err)
}

// activate handles enter on the selected row.
func (m *AppModel) activate() tea.Cmd {
	e := m.selected()
	if e == nil {
		return nil
	}
	switch e.Kind {
	case model.KindGroup:
		e.Group.Toggle()
	case model.KindNew:
		return m.ask(promptNewItem, "")
	case model.KindPerceivedType:
		ext, _ := m.Sel.Extension()
		pt, _ := m.Loader.Catalog().PerceivedType(ext)
		return m.ask(promptSetPerceivedType, pt)
	case model.KindSelector:
		switch e.Scene {
		case model.SceneCustomExtension:
			return m.ask(promptExtension, "")
		case model.ScenePerceivedType:
			return m.ask(promptPerceivedType, "")
		case model.SceneDirectoryType:
			return m.ask(promptDirectoryType, "")
		case model.SceneCustomRegPath:
			return m.ask(promptRegPath, "")
		case model.SceneMenuAnalysis:
			if m.Analyzer != nil {
				return m.ask(promptAnalyze, "")
			}
		}
	case model.KindJump:
		if m.Analyzer == nil || e.Candidate == nil {
			return nil
		}
		scene, err := m.Analyzer.Activate(*e.Candidate, m.Sel)
		if err != nil {
			m.report(err)
			return nil
		}
		m.jumpTo(scene)
	}
	return nil
}

func (m *AppModel) refreshReport() {
	res := report.Collect(m.Loader, m.Sel, []model.Scene{m.scene()})
	m.ReportViewport.SetContent(report.Generate(res, m.ReportVerbose))
	m.ReportViewport.GotoTop()
}

func (m *AppModel) report(err error) {
	if err != nil {
		m.Err = err
		m.Logger.Warn("action failed", "scene", m.scene(), "err", err)
		return
	}
	m.Logger.Debug("action applied", "scene", m.scene())
}
