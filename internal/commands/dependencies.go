package commands

import (
	"github.com/atotto/clipboard"

	"github.com/diogo/chaindocs/internal/api"
	"github.com/diogo/chaindocs/internal/config"
	"github.com/diogo/chaindocs/internal/tui"
	"github.com/diogo/chaindocs/internal/widget"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(chat *widget.Controller, opts tui.Options) error
	RunConfig(cfg config.Config) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client overrides the ChainDocs client built from config and flags.
	Client api.ClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(chat *widget.Controller, opts tui.Options) error {
	return tui.RunChat(chat, opts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config) error {
	return tui.RunConfig(cfg)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Clipboard: clipboard.WriteAll,
	}
}
