package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// Color palette
var (
	// Primary colors
	primary   = lipgloss.Color("#7c3aed") // Purple
	secondary = lipgloss.Color("#06b6d4") // Cyan
	accent    = lipgloss.Color("#10b981") // Emerald

	// Semantic colors
	warning = lipgloss.Color("#f59e0b") // Amber
	danger  = lipgloss.Color("#ef4444") // Red
	info    = lipgloss.Color("#3b82f6") // Blue

	// Neutral colors
	background = lipgloss.Color("#0f172a") // Slate-900
	border     = lipgloss.Color("#334155") // Slate-700
	muted      = lipgloss.Color("#64748b") // Slate-500
	text       = lipgloss.Color("#f1f5f9") // Slate-100
	textMuted  = lipgloss.Color("#94a3b8") // Slate-400
)

// Typography styles
var (
	headingStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(text).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Background(primary).
			Foreground(text).
			Bold(true)

	locationSelectedStyle = lipgloss.NewStyle().
				Background(warning).
				Foreground(background).
				Bold(true)
)

// Layout components
var (
	buttonStyle = lipgloss.NewStyle().
			Foreground(text).
			Background(primary).
			Bold(true)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(muted)

	tabStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Padding(0, 2)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(text).
			Background(primary).
			Bold(true).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border)

	panelFocusStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary)
)

// renderButton draws a navigation button; disabled buttons are dimmed.
func renderButton(label string, enabled bool) string {
	if !enabled {
		return buttonDisabledStyle.Render(label)
	}
	return buttonStyle.Render(label)
}

// renderBindings draws each binding as a colored key chip followed by what
// it does.
func renderBindings(bindings ...key.Binding) string {
	colors := []lipgloss.Color{primary, accent, secondary, info}

	parts := make([]string, 0, len(bindings))
	for i, b := range bindings {
		chip := lipgloss.NewStyle().
			Background(colors[i%len(colors)]).
			Foreground(background).
			Padding(0, 1).
			Bold(true).
			Render(b.Help().Key)
		parts = append(parts, chip+" "+subtitleStyle.Render(b.Help().Desc))
	}

	return strings.Join(parts, "  ")
}

// renderPanel wraps content in a rounded border with a title in the first
// line. width and height are the outer size.
func renderPanel(title, content string, width, height int, focused bool) string {
	style := panelStyle
	if focused {
		style = panelFocusStyle
	}

	innerW := max(1, width-2)
	innerH := max(1, height-2)

	body := []string{headingStyle.Render(truncate(title, innerW))}
	for _, line := range strings.Split(content, "\n") {
		if len(body) == innerH {
			break
		}
		// Content never wraps; long lines are cut at the border.
		body = append(body, ansi.Truncate(line, innerW, ""))
	}

	return style.
		Width(innerW).
		Height(innerH).
		MaxWidth(width).
		MaxHeight(height).
		Render(strings.Join(body, "\n"))
}

// Path validation indicator for the location bar
func (s pathStatus) indicator() string {
	switch s {
	case pathDirectory:
		return accentStyle.Render("✓")
	case pathFile:
		return lipgloss.NewStyle().Foreground(info).Render("≡")
	case pathMissingLeaf:
		return lipgloss.NewStyle().Foreground(warning).Render("⚠")
	case pathUnreachable:
		return errorStyle.Render("✗")
	default:
		return ""
	}
}

// File size formatter
func formatSize(bytes int64) string {
	if bytes < 0 {
		return ""
	}
	return humanize.IBytes(uint64(bytes))
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// truncate cuts s to maxWidth cells, marking the cut with an ellipsis.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// truncateStyled cuts already styled text without breaking escape codes.
func truncateStyled(s string, maxWidth int) string {
	return ansi.Truncate(s, maxWidth, "…")
}

// truncateLeft keeps the end of s, which is the useful part of a long path.
func truncateLeft(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxWidth {
		runes = runes[1:]
	}
	return "…" + string(runes)
}
