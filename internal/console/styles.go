package console

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	LabelStyle   = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("244"))
	FocusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	DialogStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)
