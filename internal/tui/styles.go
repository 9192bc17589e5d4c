package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("99")
	successColor = lipgloss.Color("42")
	errorColor   = lipgloss.Color("196")
	mutedColor   = lipgloss.Color("245")
	accentColor  = lipgloss.Color("212")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(mutedColor)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(accentColor).Underline(true)

	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	cursorStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)

	completeStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	totalStyle    = lipgloss.NewStyle().Bold(true).MarginTop(1)
	statusStyle   = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Background(lipgloss.Color("52")).
				Bold(true).
				Padding(0, 1)

	logStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// swatchBlock renders a two-cell block in the given colour.
func swatchBlock(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
