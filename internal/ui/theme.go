package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Border  lipgloss.Style
	Hint    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Accent  lipgloss.Color
}

var DefaultTheme = Theme{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Label:   lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
	Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F2CDCD")),
	Border:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	Hint:    lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Accent:  lipgloss.Color("#8B0000"),
}

var HighContrastTheme = Theme{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
	Label:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00")),
	Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
	Border:  lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1),
	Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
	Error:   lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("#FF0000")).Foreground(lipgloss.Color("#FFFFFF")),
	Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00")),
	Accent:  lipgloss.Color("#FF0000"),
}

// ThemeByName maps the config theme key to a Theme. Unknown names fall
// back to the default.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "high-contrast", "highcontrast", "contrast":
		return HighContrastTheme
	}
	return DefaultTheme
}

type style struct {
	topBar      lipgloss.Style
	statusBar   lipgloss.Style
	panelTitle  lipgloss.Style
	border      lipgloss.Style
	textDim     lipgloss.Style
	textBold    lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	errBanner   lipgloss.Style
	success     lipgloss.Style
	modalBox    lipgloss.Style
	modalTitle  lipgloss.Style
}

func newStyle(t Theme) style {
	return style{
		topBar:      lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#1E1E2E")).Background(lipgloss.Color("#A6E3A1")),
		statusBar:   lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#BAC2DE")).Background(lipgloss.Color("#313244")),
		panelTitle:  t.Title,
		border:      t.Border.BorderForeground(lipgloss.Color("#6C7086")),
		textDim:     t.Hint,
		textBold:    lipgloss.NewStyle().Bold(true),
		tabActive:   lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#1E1E2E")).Background(lipgloss.Color("#89B4FA")),
		tabInactive: lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#89B4FA")),
		errBanner:   t.Error.Padding(0, 1),
		success:     t.Success,
		modalBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent).Padding(1, 2),
		modalTitle:  t.Title.MarginBottom(1),
	}
}
