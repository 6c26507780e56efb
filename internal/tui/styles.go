package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/pavelanni/examterm/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	timerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	faintStyle = lipgloss.NewStyle().Faint(true)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = tabStyle.Bold(true).Reverse(true)

	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	lineStyles = map[model.Style]lipgloss.Style{
		model.StyleDefault:  lipgloss.NewStyle(),
		model.StyleSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		model.StyleCorrect:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		model.StyleWrong:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
	alertStyle = popupStyle.BorderForeground(lipgloss.Color("11"))

	focusStyle = lipgloss.NewStyle().Underline(true)
	caretStyle = lipgloss.NewStyle().Reverse(true)
)
