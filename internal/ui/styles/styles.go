// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/soundscape/internal/sound"
)

// Theme colors. ApplyTheme replaces them.
var (
	TextPrimaryColor    lipgloss.AdaptiveColor
	TextSecondaryColor  lipgloss.AdaptiveColor
	TextMutedColor      lipgloss.AdaptiveColor
	StatusSuccessColor  lipgloss.AdaptiveColor
	StatusWarningColor  lipgloss.AdaptiveColor
	StatusErrorColor    lipgloss.AdaptiveColor
	BorderDefaultColor  lipgloss.AdaptiveColor
	BorderFocusColor    lipgloss.AdaptiveColor
	SelectionColor      lipgloss.AdaptiveColor
	CategoryNatureColor lipgloss.AdaptiveColor
	CategoryHumanColor  lipgloss.AdaptiveColor
	CategoryLifeColor   lipgloss.AdaptiveColor

	// Gradient ends for volume bars; bubbles/progress takes plain hex.
	VolumeFullColor  string
	VolumeEmptyColor string
)

// Derived styles.
var (
	TitleStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	SelectedStyle  lipgloss.Style
	PlayingStyle   lipgloss.Style
	LoadingStyle   lipgloss.Style
	ErrorStyle     lipgloss.Style
	ToastStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
)

func init() {
	install(DefaultPreset.Colors)
	rebuildStyles()
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor).Background(SelectionColor)
	PlayingStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	LoadingStyle = lipgloss.NewStyle().Foreground(StatusWarningColor).Italic(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	ToastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(StatusErrorColor).
		Foreground(StatusErrorColor).
		Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
}

// CategoryColor returns the accent color for a sound category.
func CategoryColor(c sound.Category) lipgloss.AdaptiveColor {
	switch c {
	case sound.CategoryNature:
		return CategoryNatureColor
	case sound.CategoryHuman:
		return CategoryHumanColor
	case sound.CategoryLife:
		return CategoryLifeColor
	default:
		return TextSecondaryColor
	}
}
