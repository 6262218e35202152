package render

import (
	"os"

	"github.com/diogo/chaindocs/internal/config"
)

// OptionsFromConfig maps the user's markdown settings onto render options.
// GLAMOUR_STYLE takes precedence over the configured style.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}

// LoadOptionsFromConfig loads render options from the config file.
func LoadOptionsFromConfig() Options {
	cfg, err := config.LoadConfig()
	if err != nil {
		return OptionsFromConfig(config.DefaultConfig())
	}
	return OptionsFromConfig(cfg)
}
