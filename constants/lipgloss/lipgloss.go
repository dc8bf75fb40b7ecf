package lipgloss

import "github.com/charmbracelet/lipgloss"

var (
	Red     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	Green   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5AF78E"))
	Yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F3F99D"))
	BlueSky = lipgloss.NewStyle().Foreground(lipgloss.Color("#57C7FF"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("#57C7FF")).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6272A4")).
			Padding(0, 1)
)
