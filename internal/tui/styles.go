package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sanos/tui-go/internal/api"
)

// One Dark Pro color palette
var (
	// Background colors
	ColorBgPrimary   = lipgloss.Color("#282C34")
	ColorBgHighlight = lipgloss.Color("#2C313C")

	// Foreground colors
	ColorFgPrimary   = lipgloss.Color("#ABB2BF")
	ColorFgSecondary = lipgloss.Color("#828997")
	ColorFgMuted     = lipgloss.Color("#636B78")

	// Syntax colors
	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorCyan    = lipgloss.Color("#56B6C2")

	// UI colors
	ColorBorder = lipgloss.Color("#3F4451")
)

// Component styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true).
			PaddingLeft(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBlue).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(ColorBgHighlight).
				Foreground(ColorFgPrimary).
				Bold(true).
				Padding(0, 1)

	RowStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	URLStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Underline(true)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorBlue)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary)
)

// statusColor maps an application status to its display color
func statusColor(s api.Status) lipgloss.Color {
	switch s.Normalize() {
	case api.StatusReady:
		return ColorGreen
	case api.StatusDeploying:
		return ColorYellow
	case api.StatusError:
		return ColorRed
	default:
		return ColorFgMuted
	}
}
