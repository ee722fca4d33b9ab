package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nsfwStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Padding(0, 1)
	privateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

func Success(text string) string { return successStyle.Render(text) }
func Warning(text string) string { return warningStyle.Render(text) }
func Error(text string) string   { return errorStyle.Render(text) }
func Title(text string) string   { return titleStyle.Render(text) }
func Muted(text string) string   { return mutedStyle.Render(text) }

// NSFWBadge marks adult content in listings.
func NSFWBadge() string { return nsfwStyle.Render("NSFW") }

func PrivateBadge() string { return privateStyle.Render("[private]") }
