package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the color scheme of the chat widget
type Palette struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	// Primary colors assistant bubbles, Secondary colors user bubbles
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// DefaultPaletteName is used when the configured theme is unknown
const DefaultPaletteName = "tokyonight"

var palettes = []Palette{
	{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Surface:     "#24283b",
		Border:      "#414868",
		Primary:     "#7aa2f7",
		Secondary:   "#9ece6a",
		Accent:      "#bb9af7",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
		TextMute:    "#3b4261",
	},
	{
		Name:        "glass",
		Description: "Glass - indigo user bubbles on slate",
		Surface:     "#1e293b",
		Border:      "#334155",
		Primary:     "#a5b4fc",
		Secondary:   "#4f46e5",
		Accent:      "#c084fc",
		Warning:     "#fbbf24",
		Error:       "#f87171",
		Text:        "#e2e8f0",
		TextDim:     "#94a3b8",
		TextMute:    "#475569",
	},
	{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - warm pastels",
		Surface:     "#313244",
		Border:      "#45475a",
		Primary:     "#89b4fa",
		Secondary:   "#a6e3a1",
		Accent:      "#cba6f7",
		Warning:     "#f9e2af",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		TextDim:     "#6c7086",
		TextMute:    "#45475a",
	},
	{
		Name:        "nord",
		Description: "Nord - arctic cool tones",
		Surface:     "#3b4252",
		Border:      "#4c566a",
		Primary:     "#88c0d0",
		Secondary:   "#a3be8c",
		Accent:      "#b48ead",
		Warning:     "#ebcb8b",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
		TextMute:    "#4c566a",
	},
	{
		Name:        "dracula",
		Description: "Dracula - vibrant dark",
		Surface:     "#44475a",
		Border:      "#6272a4",
		Primary:     "#8be9fd",
		Secondary:   "#50fa7b",
		Accent:      "#ff79c6",
		Warning:     "#f1fa8c",
		Error:       "#ff5555",
		Text:        "#f8f8f2",
		TextDim:     "#6272a4",
		TextMute:    "#44475a",
	},
}

var (
	paletteMu      sync.RWMutex
	currentPalette = palettes[0]
)

// CurrentPalette returns the active palette
func CurrentPalette() Palette {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return currentPalette
}

// SetPalette activates the palette called name. Unknown names are rejected.
func SetPalette(name string) bool {
	p, ok := PaletteByName(name)
	if !ok {
		return false
	}
	paletteMu.Lock()
	currentPalette = p
	paletteMu.Unlock()
	return true
}

// PaletteByName looks up a palette
func PaletteByName(name string) (Palette, bool) {
	for _, p := range palettes {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// PaletteNames lists the available palettes in display order
func PaletteNames() []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.Name
	}
	return names
}
