package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/wesm/phishcoach/internal/backend"
	"github.com/wesm/phishcoach/internal/config"
)

var (
	cfgFile    string
	homeDir    string
	backendURL string
	verbose    bool
	cfg        *config.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "phishcoach",
	Short: "Phishing awareness training in the terminal",
	Long: `phishcoach is a terminal client for a phishing-awareness coaching backend.

The backend generates a batch of training emails. Open each one, decide
whether it is phishing, and the coach explains what you got right or wrong.
You can also ask the coach free-form questions about the email you are
looking at.

Run without a subcommand in a terminal to open the interactive UI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" {
			return nil
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(),
		}))

		// --home is passed through so it influences where config.toml is
		// loaded from, like PHISHCOACH_HOME.
		var err error
		cfg, err = config.Load(cfgFile, homeDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if backendURL != "" {
			cfg.Backend.URL = backendURL
		}

		if err := cfg.EnsureHomeDir(); err != nil {
			return fmt.Errorf("create home directory %s: %w", cfg.HomeDir, err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !stdoutIsTerminal() {
			return cmd.Help()
		}
		return runTUI(cmd, args)
	},
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newBackendClient creates a client for the configured backend.
func newBackendClient() (*backend.Client, error) {
	client, err := backend.New(backend.Config{
		URL:           cfg.Backend.URL,
		AllowInsecure: cfg.Backend.AllowInsecure,
		Timeout:       cfg.Backend.Timeout.Duration,
		UserAgent:     "phishcoach/" + Version,
	})
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	return client, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.phishcoach/config.toml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "home directory (overrides PHISHCOACH_HOME)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "url", "", "coaching backend URL (overrides [backend] url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
