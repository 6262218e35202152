// Package commands provides CLI commands for chaindocs.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chaindocs/internal/api"
	"github.com/diogo/chaindocs/internal/config"
	"github.com/diogo/chaindocs/internal/logging"
	"github.com/diogo/chaindocs/internal/render"
	"github.com/diogo/chaindocs/internal/tui"
	"github.com/diogo/chaindocs/internal/widget"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// errReported marks a failure whose message was already printed
var errReported = errors.New("error already reported")

// cli holds the flags and per-run state shared by all commands
type cli struct {
	deps *Dependencies

	hostFlag   string
	verbose    bool
	outputFlag string
	fileFlag   string
	rawFlag    bool

	cfg    config.Config
	logger *zap.Logger
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	c := &cli{
		deps:   deps,
		cfg:    config.DefaultConfig(),
		logger: zap.NewNop(),
	}

	cmd := &cobra.Command{
		Use:   "chaindocs [question]",
		Short: "Ask a ChainDocs server about your smart contract docs",
		Long: `chaindocs is a terminal client for a ChainDocs server. It sends questions
to the server's /ask endpoint and renders the markdown answer, with the
sources the server cited.

Examples:
  chaindocs chat                              Start the interactive chat widget
  chaindocs "What is an ERC20 token?"         Ask a single question
  chaindocs -f question.md                    Read the question from a file
  cat question.md | chaindocs                 Read the question from stdin
  chaindocs "Explain Ownable" -o answer.md    Save the answer to a file
  chaindocs health --host http://10.0.0.5:8000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "chaindocs %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, ok, err := c.readQuestion(cmd, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return c.runQuery(cmd, question)
		},
	}

	cmd.PersistentFlags().StringVar(&c.hostFlag, "host", "",
		fmt.Sprintf("ChainDocs server URL (overrides $%s and config)", config.HostEnvVar))
	cmd.PersistentFlags().BoolVar(&c.verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().StringVarP(&c.outputFlag, "output", "o", "", "Save answer to file")
	cmd.Flags().StringVarP(&c.fileFlag, "file", "f", "", "Read question from file")
	cmd.Flags().BoolVar(&c.rawFlag, "raw", false, "Print only the answer markdown")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(c))
	cmd.AddCommand(newConfigCmd(c))
	cmd.AddCommand(newHealthCmd(c))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// setup loads config, applies the theme and builds the logger
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}
	c.cfg = cfg

	if render.SetPalette(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	opts := logging.Options{Verbose: c.verbose || cfg.Verbose}
	if cmd.Name() == "chat" {
		// the chat widget owns the terminal
		opts.ToFile = true
		opts.Dir, err = config.GetLogsDir()
		if err != nil {
			return err
		}
	}

	logger, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger
	return nil
}

// client returns the injected client or builds one for the resolved host
func (c *cli) client() (api.ClientInterface, error) {
	if c.deps.Client != nil {
		return c.deps.Client, nil
	}

	host := c.cfg.ResolveHost(c.hostFlag)
	client, err := api.NewClient(host,
		api.WithTimeout(c.cfg.Timeout()),
		api.WithLogger(c.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	c.logger.Debug("client ready", zap.String("host", host), zap.Duration("timeout", c.cfg.Timeout()))
	return client, nil
}

// newController builds a chat widget controller configured from the user config
func (c *cli) newController(client api.ClientInterface) *widget.Controller {
	return widget.New(client,
		widget.WithLogger(c.logger),
		widget.WithRenderOptions(render.OptionsFromConfig(c.cfg)),
	)
}

// readQuestion picks the question from --file, the argument, or piped stdin
func (c *cli) readQuestion(cmd *cobra.Command, args []string) (string, bool, error) {
	if c.fileFlag != "" {
		data, err := os.ReadFile(c.fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	in, piped := stdinReader(cmd)
	if !piped {
		return "", false, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", false, nil
	}
	return string(data), true, nil
}

// stdinReader returns the command input and whether it is piped rather than a terminal
func stdinReader(cmd *cobra.Command) (io.Reader, bool) {
	in := cmd.InOrStdin()
	f, ok := in.(*os.File)
	if !ok {
		return in, true
	}
	stat, err := f.Stat()
	if err != nil {
		return nil, false
	}
	return f, (stat.Mode() & os.ModeCharDevice) == 0
}
