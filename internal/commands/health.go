package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/chaindocs/internal/tui"
)

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the ChainDocs server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}

			status, err := client.Health(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), tui.FormatError(err))
				return errReported
			}

			fmt.Fprintln(cmd.OutOrStdout(), successLine(fmt.Sprintf("%s is %s", client.BaseURL(), status.Status)))
			return nil
		},
	}
}
