package kiosk

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gestaozabele/campanha/internal/site"
)

// Styles são os estilos do terminal derivados das cores do tema do site.
type Styles struct {
	Header   lipgloss.Style
	Step     lipgloss.Style
	Option   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Counter  lipgloss.Style
}

// NewStyles monta os estilos a partir do tema.
func NewStyles(theme site.Theme) Styles {
	primary := lipgloss.Color(theme.Primary)
	secondary := lipgloss.Color(theme.Secondary)
	accent := lipgloss.Color(theme.Accent)

	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(accent).Background(primary).Padding(0, 2),
		Step:     lipgloss.NewStyle().Bold(true).Foreground(primary).MarginTop(1),
		Option:   lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(primary).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(secondary),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935")),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16a34a")),
		Counter:  lipgloss.NewStyle().Foreground(secondary),
	}
}
