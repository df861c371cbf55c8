// Package theme centralizes Lip Gloss styles for the liftlog TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme groups the styles used across the editor surface.
type Theme struct {
	Title    lipgloss.Style
	Date     lipgloss.Style
	Movement lipgloss.Style
	Set      lipgloss.Style
	AddLine  lipgloss.Style
	Selected lipgloss.Style
	Editing  lipgloss.Style

	Chip       lipgloss.Style
	ChipNumber lipgloss.Style

	Warning lipgloss.Style
	Help    lipgloss.Style
	Status  lipgloss.Style

	Frame lipgloss.Style
}

// Default returns the built-in theme.
func Default() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Underline(true),
		Date:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		Movement: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Set:      lipgloss.NewStyle(),
		AddLine:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Selected: lipgloss.NewStyle().Reverse(true),
		Editing:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")),

		Chip:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")).Padding(0, 1),
		ChipNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Background(lipgloss.Color("236")),

		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),

		Frame: lipgloss.NewStyle().Padding(0, 1),
	}
}

// Weight scale endpoints: light work renders cool, heavy work warm.
var (
	weightLow, _  = colorful.Hex("#5fafd7")
	weightHigh, _ = colorful.Hex("#ff5f5f")
)

// WeightStyle blends the weight scale at ratio (0 lightest set in the lift,
// 1 heaviest) so heavier sets stand out in the transcript.
func WeightStyle(ratio float64) lipgloss.Style {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	blended := weightLow.BlendLuv(weightHigh, ratio).Clamped()
	return lipgloss.NewStyle().Foreground(lipgloss.Color(blended.Hex()))
}
