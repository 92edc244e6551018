package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"fexplorer/internal/config"
	"fexplorer/internal/fsio"
	"fexplorer/internal/preview"
)

func (m model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteString("\n")

	switch m.tab {
	case tabSettings:
		b.WriteString(m.viewSettings())
	default:
		b.WriteString(m.viewMain())
	}

	return b.String()
}

func (m model) viewTabs() string {
	tabs := []string{"Main", "Settings"}
	var parts []string
	for i, name := range tabs {
		if appTab(i) == m.tab {
			parts = append(parts, tabActiveStyle.Render(name))
		} else {
			parts = append(parts, tabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m model) viewMain() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", m.viewNavBar())
	fmt.Fprintf(&b, "%s\n", m.viewHintLine())

	if m.showRecent {
		b.WriteString(m.viewRecent())
	} else {
		b.WriteString(m.viewPanels())
	}

	fmt.Fprintf(&b, "\n%s", m.viewFooter())
	return b.String()
}

func (m model) viewNavBar() string {
	var parts []string
	for _, btn := range m.navButtons() {
		parts = append(parts, renderButton(btn.label, btn.enabled))
	}
	bar := strings.Join(parts, " ") + " "

	switch {
	case m.focus == focusLocation:
		m.location.Width = max(10, m.getWidth()-m.locationX()-4)
		bar += m.location.View() + " " + locationStatus(resolveInput(m.location.Value(), m.nav.Current())).indicator()
	case m.selection != nil:
		bar += valueStyle.Render(m.selection.before) +
			locationSelectedStyle.Render(m.selection.selected) +
			valueStyle.Render(m.selection.after)
	default:
		text, _ := m.locationText()
		bar += valueStyle.Render(text)
	}
	return bar
}

// viewHintLine shows completions, the suggestion, the filter or the status
// under the navigation bar.
func (m model) viewHintLine() string {
	width := m.getWidth()

	switch {
	case m.focus == focusLocation && len(m.completions) > 0:
		var parts []string
		for i, c := range m.completions {
			name := filepath.Base(c)
			if i == m.completionIndex {
				parts = append(parts, selectedStyle.Render(name))
			} else {
				parts = append(parts, subtitleStyle.Render(name))
			}
		}
		return truncateStyled(strings.Join(parts, " "), width)

	case m.focus == focusLocation && m.suggestion != "":
		return subtitleStyle.Render("Did you mean ") + accentStyle.Render(truncateLeft(m.suggestion, width-20)) + subtitleStyle.Render("? (tab)")

	case m.focus == focusFilter || m.filter.Value() != "":
		return m.filter.View() + subtitleStyle.Render(fmt.Sprintf("  %d of %d", len(m.entries), len(m.listing.Visible(m.cfg.ShowHidden))))

	case m.status != "":
		if m.statusErr {
			return errorStyle.Render(truncate(m.status, width))
		}
		return accentStyle.Render(truncate(m.status, width))
	}
	return ""
}

func (m model) viewPanels() string {
	list, prev := m.panes()

	listPanel := renderPanel(m.listTitle(), m.viewList(list.w-2), list.w, list.h, m.focus != focusLocation)
	previewPanel := renderPanel(m.previewTitle(), m.viewPreview(prev.w-2), prev.w, prev.h, false)

	if m.horizontal() {
		return lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, listPanel, previewPanel)
}

func (m model) listTitle() string {
	switch {
	case m.task != nil:
		return m.spin.View() + " Loading…"
	case m.loadErr != "":
		return "Error"
	default:
		return fmt.Sprintf("%d entries", len(m.entries))
	}
}

func (m model) viewList(width int) string {
	if m.loadErr != "" {
		return errorStyle.Render(m.loadErr)
	}
	if len(m.entries) == 0 {
		if m.task != nil {
			return ""
		}
		return subtitleStyle.Render("Empty directory")
	}

	rows := m.listRows()
	start := m.listWindow()
	end := min(start+rows, len(m.entries))

	sizeW := 10
	nameW := max(1, width-sizeW-lipgloss.Width(m.icons.fs.directory)-2)

	var lines []string
	for i := start; i < end; i++ {
		e := m.entries[i]
		name := truncate(displayName(e), nameW)
		size := ""
		if e.Type == fsio.File {
			size = formatSize(e.Size)
		}
		line := fmt.Sprintf("%s %-*s %*s", m.icons.entry(e.Type), nameW, name, sizeW, size)

		switch {
		case i == m.selected:
			line = selectedStyle.Render(line)
		case e.Path == m.nav.Preview():
			line = accentStyle.Render(line)
		case e.Type == fsio.Directory:
			line = lipgloss.NewStyle().Foreground(secondary).Render(line)
		case e.Hidden():
			line = subtitleStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m model) previewTitle() string {
	p := m.nav.Preview()
	if p == "" {
		return "Preview"
	}
	return filepath.Base(p)
}

func (m model) viewPreview(width int) string {
	if m.nav.Preview() == "" {
		if e, ok := m.selectedEntry(); ok {
			return subtitleStyle.Render(truncate("enter to preview "+e.Name, width))
		}
		return ""
	}
	if m.previewLoading {
		return m.spin.View() + " Rendering…"
	}

	res := m.preview
	if res.Err != nil {
		// Errors are shown where the content would be.
		return errorStyle.Render(res.Err.Error())
	}

	info := m.previewInfo(res, width)
	return info + "\n" + m.previewVP.View()
}

func (m model) previewInfo(res preview.Result, width int) string {
	parts := []string{
		res.Mode.String(),
		formatSize(res.Info.Size),
		formatAge(res.Info.ModTime),
		res.Info.MIME,
	}
	if res.Info.Language != "" {
		parts = append(parts, res.Info.Language)
	}
	if res.Truncated {
		parts = append(parts, "truncated")
	}
	if res.Info.SHA256 != "" {
		parts = append(parts, "sha256 "+res.Info.SHA256[:12])
	}

	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return labelStyle.Render(truncate(strings.Join(kept, " · "), width))
}

func (m model) viewRecent() string {
	list, prev := m.panes()
	width, height := m.getWidth(), list.h
	if !m.horizontal() {
		height += prev.h
	}

	var b strings.Builder
	if len(m.recent) == 0 {
		b.WriteString(subtitleStyle.Render("No recent locations"))
	}
	for i, loc := range m.recent {
		fmt.Fprintf(&b, "%s %s %s\n",
			accentStyle.Render(fmt.Sprintf("%d", i+1)),
			valueStyle.Render(truncateLeft(loc.Path, width-30)),
			subtitleStyle.Render(fmt.Sprintf("%d visits, %s", loc.Visits, formatAge(loc.LastVisit))))
	}
	b.WriteString("\n" + subtitleStyle.Render("1-9 to open • esc to close"))

	return renderPanel("Recent locations", b.String(), width, height, true)
}

func (m model) viewFooter() string {
	var parts []string
	if m.firstLoad > 0 {
		parts = append(parts, fmt.Sprintf("Loaded in %s seconds", formatSeconds(m.firstLoad)))
	}
	if m.listing.Path != "" {
		hidden := len(m.listing.Entries) - len(m.listing.Visible(false))
		parts = append(parts, fmt.Sprintf("%d hidden", hidden))
	}
	left := subtitleStyle.Render(strings.Join(parts, " • "))
	return left + "  " + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m model) viewSettings() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", headingStyle.Render("Settings"))

	items := []struct {
		label string
		value string
	}{
		{"Panel layout", string(m.cfg.PanelLayout)},
		{"Icons", string(m.cfg.Icons)},
		{"Show hidden files", onOff(m.cfg.ShowHidden)},
		{"Resume last directory", onOff(m.cfg.ResumeLastDir)},
		{"SHA-256 in preview", onOff(m.cfg.Preview.Hash)},
	}

	for i, item := range items {
		prefix := "  "
		label := labelStyle.Render(fmt.Sprintf("%-24s", item.label))
		value := valueStyle.Render(item.value)
		if i == m.settingsIndex {
			prefix = accentStyle.Render("▸ ")
			value = selectedStyle.Render(" " + item.value + " ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, label, value)
	}

	fmt.Fprintf(&b, "\n%s %s\n", labelStyle.Render("Config file:"), subtitleStyle.Render(m.cfg.Path()))
	if m.cfg.PanelLayout == config.LayoutAutomatic {
		orientation := "vertical"
		if m.horizontal() {
			orientation = "horizontal"
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Current layout:"), subtitleStyle.Render(orientation))
	}
	if m.status != "" {
		style := accentStyle
		if m.statusErr {
			style = errorStyle
		}
		fmt.Fprintf(&b, "\n%s\n", style.Render(m.status))
	}

	fmt.Fprintf(&b, "\n%s\n", renderBindings(
		key.NewBinding(key.WithHelp("↑/↓", "select")),
		key.NewBinding(key.WithHelp("enter", "change")),
		key.NewBinding(key.WithHelp(m.keys.SwitchTab.Help().Key, "back")),
		m.keys.Quit,
	))
	return b.String()
}

func (m model) viewHelp() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", headingStyle.Render("fexplorer - Help & Keyboard Shortcuts"))

	m.help.ShowAll = true
	m.help.Width = m.getWidth()
	fmt.Fprintf(&b, "%s\n\n", m.help.View(m.keys))

	fmt.Fprintf(&b, "%s\n", valueStyle.Render("Location bar"))
	fmt.Fprintf(&b, "  %s %s\n", accentStyle.Render("tab"), labelStyle.Render("Complete directory name, or take the suggestion"))
	fmt.Fprintf(&b, "  %s %s\n", accentStyle.Render("↑/↓"), labelStyle.Render("Cycle completions"))
	fmt.Fprintf(&b, "  %s %s\n", accentStyle.Render("enter"), labelStyle.Render("Go to the typed location"))
	fmt.Fprintf(&b, "  %s %s\n\n", accentStyle.Render("click"), labelStyle.Render("Jump to the clicked path component"))

	fmt.Fprintf(&b, "%s\n", labelStyle.Render("Press any key to return"))
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
