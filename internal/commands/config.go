package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/chaindocs/internal/config"
	"github.com/diogo/chaindocs/internal/render"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure chaindocs settings.

Use the subcommands to inspect or change settings from scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.deps.TUI.RunConfig(c.cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(c.cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List the settable keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.Keys(), "\n"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Example: `  chaindocs config set host https://chaindocs.example.com
  chaindocs config set tui_theme nord
  chaindocs config set markdown.style light`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := validateRenderSetting(key, value); err != nil {
				return err
			}

			cfg := c.cfg
			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			c.cfg = cfg

			fmt.Fprintln(cmd.OutOrStdout(), successLine(fmt.Sprintf("%s = %s", key, value)))
			return nil
		},
	})

	return cmd
}

// validateRenderSetting checks values that name themes or styles
func validateRenderSetting(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "tui_theme":
		if _, ok := render.PaletteByName(value); !ok {
			return fmt.Errorf("unknown tui_theme %q (available: %s)", value, strings.Join(render.PaletteNames(), ", "))
		}
	case "markdown.style":
		if render.IsBuiltinStyle(value) {
			return nil
		}
		if _, err := os.Stat(value); err != nil {
			var names []string
			for _, s := range render.AvailableStyles() {
				names = append(names, s.Name)
			}
			return fmt.Errorf("unknown markdown.style %q: use one of %s or a path to a JSON style", value, strings.Join(names, ", "))
		}
	}
	return nil
}
