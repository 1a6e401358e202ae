package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors for the console palette.
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"} // Purple
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"} // Cyan
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"} // Green
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"} // Amber
	ColorError     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"} // Red
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"} // Gray
	ColorStreaming = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"} // Blue
)

// MessageIcons provides consistent icons for different message types.
var MessageIcons = map[string]string{
	"success": "✅",
	"error":   "❌",
	"warning": "⚠️ ",
	"info":    "ℹ️ ",
	"hint":    "💡",
	"clip":    "📋",
	"pause":   "⏸️ ",
}

// Styles groups the lipgloss styles used by the console and the renderer.
type Styles struct {
	Error   lipgloss.Style
	Warn    lipgloss.Style
	Success lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style
	Header  lipgloss.Style
	Trigger lipgloss.Style

	// Frame titles for the live region
	StreamTitle   lipgloss.Style
	CompleteTitle lipgloss.Style

	Panel lipgloss.Style
}

// DefaultStyles returns the styles for the default palette.
func DefaultStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warn:    lipgloss.NewStyle().Foreground(ColorWarning),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Info:    lipgloss.NewStyle().Foreground(ColorStreaming),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Bold:    lipgloss.NewStyle().Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted),
		Trigger: lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true),

		StreamTitle:   lipgloss.NewStyle().Foreground(ColorStreaming).Bold(true),
		CompleteTitle: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
	}
}
