package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/chaindocs/internal/render"
	"github.com/diogo/chaindocs/internal/tui"
)

func newChatCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat widget",
		Long: `Start the interactive chat widget.

Each message is sent on its own; the server does not see earlier turns.
Type /copy to copy the last answer, and 'exit', 'quit' or Ctrl+C to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChat()
		},
	}
}

func (c *cli) runChat() error {
	client, err := c.client()
	if err != nil {
		return err
	}

	opts := tui.Options{
		Host:            client.BaseURL(),
		Timeout:         c.cfg.Timeout(),
		Render:          render.OptionsFromConfig(c.cfg),
		CopyToClipboard: c.cfg.CopyToClipboard,
	}
	return c.deps.TUI.RunChat(c.newController(client), opts)
}
