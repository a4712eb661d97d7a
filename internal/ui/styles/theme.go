package styles

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ColorToken names one themeable color, e.g. "text.primary".
type ColorToken string

// Color tokens.
const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	TokenSelection ColorToken = "selection.background"

	TokenCategoryNature ColorToken = "category.nature"
	TokenCategoryHuman  ColorToken = "category.human"
	TokenCategoryLife   ColorToken = "category.life"

	TokenVolumeFull  ColorToken = "volume.full"
	TokenVolumeEmpty ColorToken = "volume.empty"
)

// ThemeConfig selects a preset and per-token overrides.
type ThemeConfig struct {
	Preset string
	// Mode forces "light" or "dark"; empty uses terminal detection.
	Mode   string
	Colors map[string]string
}

// Preset is a named set of colors.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func isValidHexColor(s string) bool {
	return hexColor.MatchString(s)
}

func isValidToken(t ColorToken) bool {
	_, ok := DefaultPreset.Colors[t]
	return ok
}

// PresetNames returns the built-in preset names, sorted.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(Presets))
}

// ApplyTheme resolves cfg against the presets and installs the result into
// the package color variables, then rebuilds the derived styles.
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		p, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset %q (available: %v)", cfg.Preset, PresetNames())
		}
		maps.Copy(colors, p.Colors)
	}

	for k, v := range cfg.Colors {
		tok := ColorToken(k)
		if !isValidToken(tok) {
			return fmt.Errorf("unknown color token %q", k)
		}
		if !isValidHexColor(v) {
			return fmt.Errorf("invalid hex color %q for %s", v, k)
		}
		colors[tok] = v
	}

	switch cfg.Mode {
	case "":
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	default:
		return fmt.Errorf("invalid theme mode %q (want light, dark or empty)", cfg.Mode)
	}

	install(colors)
	rebuildStyles()
	return nil
}

func adaptive(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
}

func install(c map[ColorToken]string) {
	TextPrimaryColor = adaptive(c[TokenTextPrimary])
	TextSecondaryColor = adaptive(c[TokenTextSecondary])
	TextMutedColor = adaptive(c[TokenTextMuted])
	StatusSuccessColor = adaptive(c[TokenStatusSuccess])
	StatusWarningColor = adaptive(c[TokenStatusWarning])
	StatusErrorColor = adaptive(c[TokenStatusError])
	BorderDefaultColor = adaptive(c[TokenBorderDefault])
	BorderFocusColor = adaptive(c[TokenBorderFocus])
	SelectionColor = adaptive(c[TokenSelection])
	CategoryNatureColor = adaptive(c[TokenCategoryNature])
	CategoryHumanColor = adaptive(c[TokenCategoryHuman])
	CategoryLifeColor = adaptive(c[TokenCategoryLife])
	VolumeFullColor = c[TokenVolumeFull]
	VolumeEmptyColor = c[TokenVolumeEmpty]
}
