package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Available themes
var (
	ThemeDark = Theme{
		Name:       "dark",
		Primary:    lipgloss.Color("#8fb8ff"),
		Secondary:  lipgloss.Color("#5a7bbf"),
		Accent:     lipgloss.Color("#ffd166"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#e6e6e6"),
		Muted:      lipgloss.Color("#5c5c70"),
		Success:    lipgloss.Color("#06d6a0"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ef476f"),
	}

	ThemeLight = Theme{
		Name:       "light",
		Primary:    lipgloss.Color("#1d3557"),
		Secondary:  lipgloss.Color("#457b9d"),
		Accent:     lipgloss.Color("#e63946"),
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#1a1a1a"),
		Muted:      lipgloss.Color("#8d99ae"),
		Success:    lipgloss.Color("#2a9d8f"),
		Warning:    lipgloss.Color("#e9c46a"),
		Error:      lipgloss.Color("#d62828"),
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#ff00ff"), // Magenta
		Secondary:  lipgloss.Color("#00ffff"), // Cyan
		Accent:     lipgloss.Color("#ffff00"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ff8800"),
		Error:      lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#0077be"),
		Secondary:  lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	CurrentTheme = ThemeDark

	Themes = []Theme{
		ThemeDark,
		ThemeLight,
		ThemeCyberpunk,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to the dark theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the theme after t in Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// backdrop is the theme background as a colour trails fade into.
func (t Theme) backdrop() colorful.Color {
	c, err := colorful.Hex(string(t.Background))
	if err != nil {
		return colorful.Color{}
	}
	return c
}
