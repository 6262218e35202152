// Package render turns assistant markdown into sanitized HTML and renders
// that HTML for the terminal.
package render

// Options configures the markdown renderers.
type Options struct {
	// Width is the word-wrap column for terminal output (default: 80)
	Width int

	// Style is a glamour standard style name or a path to a JSON style
	Style string

	// EnableEmoji converts :emoji: shortcodes in both HTML and terminal output
	EnableEmoji bool

	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}
