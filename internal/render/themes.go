package render

// Glamour standard styles accepted for Options.Style
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleASCII      = "ascii"
	StyleNoTTY      = "notty"
)

// StyleInfo describes a markdown style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles returns the built-in markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleASCII, Description: "ASCII-only output"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
	}
}

// IsBuiltinStyle reports whether style names a built-in glamour style.
// Anything else is treated as a path to a JSON style file.
func IsBuiltinStyle(style string) bool {
	for _, s := range AvailableStyles() {
		if s.Name == style {
			return true
		}
	}
	return false
}
