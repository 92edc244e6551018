package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"fexplorer/internal/explorer"
	"fexplorer/internal/fsio"
)

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusLocation:
		return m.updateLocation(msg)
	case focusFilter:
		return m.updateFilter(msg)
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.SwitchTab):
		m.tab = tabSettings
		return m, nil
	case key.Matches(msg, m.keys.Rebuild):
		return m.rebuild()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-m.listRows())
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(m.listRows())
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(0, len(m.entries)-1)

	case key.Matches(msg, m.keys.Open):
		return m.activate()
	case key.Matches(msg, m.keys.Parent):
		return m.dispatch(explorer.GotoParent{})
	case key.Matches(msg, m.keys.Back):
		return m.dispatch(explorer.HistoryBack{})
	case key.Matches(msg, m.keys.Next):
		return m.dispatch(explorer.HistoryNext{})
	case key.Matches(msg, m.keys.Reload):
		return m.dispatch(explorer.Reload{})

	case key.Matches(msg, m.keys.Location):
		m.focus = focusLocation
		m.location.SetValue(m.nav.Current())
		m.location.CursorEnd()
		return m, m.location.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.focus = focusFilter
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Hidden):
		m.cfg.ShowHidden = !m.cfg.ShowHidden
		m.applyFilter()
		m.saveConfig()
	case key.Matches(msg, m.keys.Recent):
		m.showRecent = true
		return m, m.loadRecent()

	case key.Matches(msg, m.keys.PreviewUp):
		m.scrollPreview(-max(1, m.previewVP.Height/2))
	case key.Matches(msg, m.keys.PreviewDown):
		m.scrollPreview(max(1, m.previewVP.Height/2))
	case msg.String() == "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	}
	return m, nil
}

func (m *model) moveSelection(delta int) {
	if len(m.entries) == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(0, m.selected+delta), len(m.entries)-1)
}

// scrollPreview moves the preview by delta lines; the viewport clamps.
func (m *model) scrollPreview(delta int) {
	m.previewVP.SetYOffset(m.previewVP.YOffset + delta)
}

func (m model) updateLocation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Clear completions if showing, otherwise stop editing
		if len(m.completions) > 0 {
			m.completions = nil
			return m, nil
		}
		m.blurLocation()
		m.location.SetValue(m.nav.Current())
		return m, nil

	case "tab":
		return m.handleTabCompletion(), nil

	case "down":
		if len(m.completions) > 0 {
			m.completionIndex = (m.completionIndex + 1) % len(m.completions)
		}
		return m, nil

	case "up", "shift+tab":
		if len(m.completions) > 0 {
			m.completionIndex = (m.completionIndex + len(m.completions) - 1) % len(m.completions)
		}
		return m, nil

	case "enter":
		if len(m.completions) > 0 {
			return m.selectCompletion(), nil
		}
		// The navigator resolves relative input itself so that links are
		// followed before "..".
		target := expandHome(strings.TrimSpace(m.location.Value()))
		if target == "" {
			target = m.nav.Current()
		}
		m.blurLocation()
		return m.dispatch(explorer.SetDirectory{Path: target})
	}

	var cmd tea.Cmd
	m.location, cmd = m.location.Update(msg)
	m.completions = nil
	m.suggestion = suggestPath(m.location.Value(), m.nav.Current())
	return m, cmd
}

func (m *model) blurLocation() {
	m.focus = focusList
	m.location.Blur()
	m.completions = nil
	m.suggestion = ""
}

// handleTabCompletion completes the location. A single match is applied,
// several are offered in a list. With no match the suggestion, if any, is
// taken.
func (m model) handleTabCompletion() model {
	completions := getPathCompletions(m.location.Value(), m.nav.Current())

	switch len(completions) {
	case 0:
		if m.suggestion != "" {
			m.location.SetValue(m.suggestion)
			m.location.CursorEnd()
			m.suggestion = ""
		}
	case 1:
		m.location.SetValue(completions[0])
		m.location.CursorEnd()
		m.completions = nil
		m.suggestion = ""
	default:
		m.completions = completions
		m.completionIndex = 0
	}
	return m
}

func (m model) selectCompletion() model {
	if len(m.completions) == 0 {
		return m
	}

	m.location.SetValue(m.completions[m.completionIndex])
	m.location.CursorEnd()
	m.completions = nil
	m.completionIndex = 0
	m.suggestion = ""
	return m
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.focus = focusList
		m.applyFilter()
		return m, nil
	case "enter":
		// Keep the filter, go back to the list.
		m.filter.Blur()
		m.focus = focusList
		return m, nil
	case "up", "down":
		if msg.String() == "up" {
			m.moveSelection(-1)
		} else {
			m.moveSelection(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.selected = 0
	m.applyFilter()
	return m, cmd
}

func (m model) updateRecent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "ctrl+o":
		m.showRecent = false
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// Quick select recent location
		index := int(msg.String()[0] - '1')
		if index < len(m.recent) {
			m.showRecent = false
			return m.dispatch(explorer.SetDirectory{Path: m.recent[index].Path})
		}
	}
	return m, nil
}

type settingItem int

const (
	settingLayout settingItem = iota
	settingIcons
	settingHidden
	settingResume
	settingHash
	settingCount
)

func (m model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.SwitchTab), msg.String() == "esc":
		m.tab = tabMain
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.settingsIndex = (m.settingsIndex + int(settingCount) - 1) % int(settingCount)
	case key.Matches(msg, m.keys.Down):
		m.settingsIndex = (m.settingsIndex + 1) % int(settingCount)
	case msg.String() == "enter", msg.String() == " ", msg.String() == "left", msg.String() == "right":
		return m.toggleSetting(settingItem(m.settingsIndex))
	}
	return m, nil
}

func (m model) toggleSetting(item settingItem) (tea.Model, tea.Cmd) {
	// Only the toggled field reaches the settings file; the rest of m.saved
	// stays as it was read, without the command line flags.
	switch item {
	case settingLayout:
		m.cfg.PanelLayout = m.cfg.PanelLayout.Next()
		m.saved.PanelLayout = m.cfg.PanelLayout
		m.resizePreview()
	case settingIcons:
		m.cfg.Icons = m.cfg.Icons.Next()
		m.saved.Icons = m.cfg.Icons
		m.icons = iconsFor(m.cfg.Icons)
	case settingHidden:
		m.cfg.ShowHidden = !m.cfg.ShowHidden
		m.saved.ShowHidden = m.cfg.ShowHidden
		m.applyFilter()
	case settingResume:
		m.cfg.ResumeLastDir = !m.cfg.ResumeLastDir
		m.saved.ResumeLastDir = m.cfg.ResumeLastDir
	case settingHash:
		m.cfg.Preview.Hash = !m.cfg.Preview.Hash
		m.saved.Preview.Hash = m.cfg.Preview.Hash
	}
	m.saveConfig()
	return m, nil
}

func (m *model) saveConfig() {
	if err := m.saved.Save(); err != nil {
		m.log.Warn("saving settings failed", zap.String("path", m.saved.Path()), zap.Error(err))
		m.setStatus("Failed to save settings: "+err.Error(), true)
		return
	}
	m.setStatus("Settings saved to "+m.saved.Path(), false)
}

// navButton is one of the buttons left of the location bar.
type navButton struct {
	label   string
	enabled bool
	cmd     explorer.Command
	x, w    int
}

// navButtons lays the navigation buttons out on the navigation row.
func (m model) navButtons() []navButton {
	icons := m.icons.navigation
	buttons := []navButton{
		{label: icons.back, enabled: m.nav.CanBack(), cmd: explorer.HistoryBack{}},
		{label: icons.next, enabled: m.nav.CanNext(), cmd: explorer.HistoryNext{}},
		{label: icons.up, enabled: m.canGoUp(), cmd: explorer.GotoParent{}},
		{label: icons.reload, enabled: true, cmd: explorer.Reload{}},
	}

	x := 0
	for i := range buttons {
		buttons[i].x = x
		buttons[i].w = lipgloss.Width(buttons[i].label)
		x += buttons[i].w + 1
	}
	return buttons
}

// locationX is the column where the location text starts.
func (m model) locationX() int {
	buttons := m.navButtons()
	last := buttons[len(buttons)-1]
	return last.x + last.w + 1
}

// locationText is the location as drawn when it is not being edited, and
// the number of leading runes cut off to make it fit.
func (m model) locationText() (string, int) {
	current := []rune(m.nav.Current())
	avail := m.getWidth() - m.locationX() - 2
	if avail <= 0 || len(current) <= avail {
		return string(current), 0
	}
	skip := len(current) - avail + 1
	return "…" + string(current[skip:]), skip
}

// locationIndex maps a column on the navigation row to a rune index of the
// current directory, or -1 when the column is off the path.
func (m model) locationIndex(x int) int {
	_, skip := m.locationText()
	col := x - m.locationX()
	if skip > 0 {
		col-- // ellipsis
	}
	if col < 0 {
		return -1
	}
	idx := col + skip
	if idx >= len([]rune(m.nav.Current())) {
		return -1
	}
	return idx
}

func (m model) canGoUp() bool {
	_, ok := fsio.Parent(m.nav.Current())
	return ok
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	const navRow = 1

	// The location bar selection follows the pointer while the button is
	// held and jumps to the clicked component on release.
	if (m.focus != focusLocation && msg.Button == tea.MouseButtonLeft) || msg.Action == tea.MouseActionRelease {
		switch msg.Action {
		case tea.MouseActionPress, tea.MouseActionMotion:
			if msg.Y == navRow {
				if idx := m.locationIndex(msg.X); idx >= 0 {
					sel := splitLocation(m.nav.Current(), idx)
					m.selection = &sel
					return m, nil
				}
			}
			if msg.Action == tea.MouseActionMotion {
				m.selection = nil
				return m, nil
			}
		case tea.MouseActionRelease:
			if m.selection == nil {
				return m, nil
			}
			m.selection = nil
			if msg.Y != navRow {
				return m, nil
			}
			idx := m.locationIndex(msg.X)
			if idx < 0 {
				return m, nil
			}
			target := componentAt(m.nav.Current(), idx)
			m.log.Debug("location component clicked", zap.String("path", target))
			return m.dispatch(explorer.SetDirectory{Path: target})
		}
	}

	list, prev := m.panes()

	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		step := 3
		if msg.Button == tea.MouseButtonWheelUp {
			step = -step
		}
		if prev.contains(msg.X, msg.Y) {
			m.scrollPreview(step)
		} else if list.contains(msg.X, msg.Y) {
			m.moveSelection(step)
		}
		return m, nil

	case msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft:
		return m, nil

	case msg.Y == navRow:
		for _, b := range m.navButtons() {
			if msg.X >= b.x && msg.X < b.x+b.w {
				if !b.enabled {
					return m, nil
				}
				return m.dispatch(b.cmd)
			}
		}

	case list.contains(msg.X, msg.Y):
		// Border and title line above the first row.
		row := msg.Y - list.y - 2
		if row < 0 || row >= m.listRows() {
			return m, nil
		}
		idx := m.listWindow() + row
		if idx >= len(m.entries) {
			return m, nil
		}
		if idx == m.selected {
			return m.activate()
		}
		m.selected = idx
	}
	return m, nil
}
