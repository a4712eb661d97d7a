package styles

// DefaultPreset holds every token; other presets override a subset.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default soundscape theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:    "#CCCCCC",
		TokenTextSecondary:  "#AAAAAA",
		TokenTextMuted:      "#696969",
		TokenStatusSuccess:  "#73F59F",
		TokenStatusWarning:  "#FECA57",
		TokenStatusError:    "#FF8787",
		TokenBorderDefault:  "#696969",
		TokenBorderFocus:    "#54A0FF",
		TokenSelection:      "#2E3440",
		TokenCategoryNature: "#10B981",
		TokenCategoryHuman:  "#F59E0B",
		TokenCategoryLife:   "#8B5CF6",
		TokenVolumeFull:     "#54A0FF",
		TokenVolumeEmpty:    "#3B3B3B",
	},
}

// Presets are the built-in themes selectable by name.
var Presets = map[string]Preset{
	"catppuccin-mocha": {
		Name:        "catppuccin-mocha",
		Description: "Warm, cozy dark theme",
		Colors: map[ColorToken]string{
			TokenTextPrimary:    "#CDD6F4",
			TokenTextSecondary:  "#BAC2DE",
			TokenTextMuted:      "#6C7086",
			TokenStatusSuccess:  "#A6E3A1",
			TokenStatusWarning:  "#F9E2AF",
			TokenStatusError:    "#F38BA8",
			TokenBorderDefault:  "#45475A",
			TokenBorderFocus:    "#89B4FA",
			TokenSelection:      "#313244",
			TokenCategoryNature: "#94E2D5",
			TokenCategoryHuman:  "#FAB387",
			TokenCategoryLife:   "#CBA6F7",
			TokenVolumeFull:     "#89B4FA",
			TokenVolumeEmpty:    "#313244",
		},
	},
	"dracula": {
		Name:        "dracula",
		Description: "Dark theme with vibrant colors",
		Colors: map[ColorToken]string{
			TokenTextPrimary:    "#F8F8F2",
			TokenTextMuted:      "#6272A4",
			TokenStatusSuccess:  "#50FA7B",
			TokenStatusWarning:  "#F1FA8C",
			TokenStatusError:    "#FF5555",
			TokenBorderFocus:    "#BD93F9",
			TokenSelection:      "#44475A",
			TokenCategoryNature: "#8BE9FD",
			TokenCategoryHuman:  "#FFB86C",
			TokenCategoryLife:   "#FF79C6",
			TokenVolumeFull:     "#BD93F9",
		},
	},
	"nord": {
		Name:        "nord",
		Description: "Arctic, north-bluish palette",
		Colors: map[ColorToken]string{
			TokenTextPrimary:    "#ECEFF4",
			TokenTextSecondary:  "#D8DEE9",
			TokenTextMuted:      "#4C566A",
			TokenStatusSuccess:  "#A3BE8C",
			TokenStatusWarning:  "#EBCB8B",
			TokenStatusError:    "#BF616A",
			TokenBorderDefault:  "#3B4252",
			TokenBorderFocus:    "#88C0D0",
			TokenCategoryNature: "#8FBCBB",
			TokenCategoryHuman:  "#D08770",
			TokenCategoryLife:   "#B48EAD",
			TokenVolumeFull:     "#81A1C1",
			TokenVolumeEmpty:    "#3B4252",
		},
	},
	"high-contrast": {
		Name:        "high-contrast",
		Description: "High contrast for accessibility",
		Colors: map[ColorToken]string{
			TokenTextPrimary:    "#FFFFFF",
			TokenTextSecondary:  "#FFFFFF",
			TokenTextMuted:      "#BBBBBB",
			TokenStatusSuccess:  "#00FF00",
			TokenStatusWarning:  "#FFFF00",
			TokenStatusError:    "#FF0000",
			TokenBorderDefault:  "#FFFFFF",
			TokenBorderFocus:    "#00FFFF",
			TokenSelection:      "#0000AA",
			TokenCategoryNature: "#00FF00",
			TokenCategoryHuman:  "#FFFF00",
			TokenCategoryLife:   "#FF00FF",
			TokenVolumeFull:     "#00FFFF",
			TokenVolumeEmpty:    "#555555",
		},
	},
}
