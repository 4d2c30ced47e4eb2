package tui

import "github.com/charmbracelet/lipgloss"

var (
	paperColor  = lipgloss.Color("#e8dcc2")
	inkColor    = lipgloss.Color("#2b2118")
	fadedColor  = lipgloss.Color("#8a7b66")
	leatherTone = lipgloss.Color("#5a2e1a")
	brassTone   = lipgloss.Color("#c9a227")
	shadowTone  = lipgloss.Color("#7f5af0")
)

var (
	pageStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(fadedColor).Padding(0, 1)
	leafStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(brassTone).Padding(0, 1)
	coverStyle     = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(leatherTone).Padding(0, 1)
	voidStyle      = lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Padding(0, 1)
	looseLeafStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(shadowTone).Padding(0, 1)

	spineStyle       = lipgloss.NewStyle().Foreground(leatherTone).Bold(true)
	coverTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(brassTone)
	coverSubStyle    = lipgloss.NewStyle().Italic(true).Foreground(fadedColor)
	dateStyle        = lipgloss.NewStyle().Bold(true).Foreground(leatherTone)
	footerStyle      = lipgloss.NewStyle().Foreground(fadedColor)
	tocTitleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	tocSelectedStyle = lipgloss.NewStyle().Foreground(inkColor).Background(paperColor)
	ghostStyle       = lipgloss.NewStyle().Faint(true).Italic(true)
	caretStyle       = lipgloss.NewStyle().Foreground(brassTone)
	helperStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(paperColor).Padding(0, 1)
	modeStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(brassTone).Padding(0, 1)
	promptStyle      = lipgloss.NewStyle().Bold(true).Foreground(shadowTone)
)

var (
	lockStyle       = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(leatherTone).Padding(0, 1)
	rollerStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(fadedColor).Padding(0, 1)
	rollerOverStyle = rollerStyle.BorderForeground(brassTone).Foreground(brassTone).Bold(true)
)
