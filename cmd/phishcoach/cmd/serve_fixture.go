package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesm/phishcoach/internal/fixture"
)

var (
	fixtureSamples string
	fixturePort    int
)

var serveFixtureCmd = &cobra.Command{
	Use:   "serve-fixture",
	Short: "Run a local coaching backend with canned replies",
	Long: `Run a development backend that serves training emails from a samples
file and answers with canned coaching replies.

Samples are read from a TOML file:

  [[message]]
  sender = "IT Support (helpdesk@c0rp-it.example)"
  subject = "Your password expires today"
  content = "Click the link below to keep your password."
  is_phishing = true
  analysis = "The sender domain imitates the company domain."

or from a directory of .eml files carrying X-Phishing and X-Analysis headers.

Configure in config.toml:
  [fixture]
  port = 8081
  samples = "samples.toml"
  batch_size = 1
  generation_delay = "500ms"

Use Ctrl+C to stop the server.`,
	Args: cobra.NoArgs,
	RunE: runServeFixture,
}

func runServeFixture(cmd *cobra.Command, args []string) error {
	if fixtureSamples != "" {
		cfg.Fixture.Samples = fixtureSamples
	}
	if fixturePort != 0 {
		cfg.Fixture.Port = fixturePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	samples, err := fixture.LoadSamples(cfg.Fixture.Samples)
	if err != nil {
		return fmt.Errorf("load samples: %w", err)
	}

	srv := fixture.NewServer(cfg.Fixture, samples, logger)
	addr := cfg.FixtureAddr()

	fmt.Fprintf(cmd.OutOrStdout(), "Fixture backend listening on http://%s (%d samples)\n", addr, len(samples))
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop.")

	if err := srv.ListenAndServe(cmd.Context(), addr); err != nil {
		return fmt.Errorf("serve fixture: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveFixtureCmd)
	serveFixtureCmd.Flags().StringVar(&fixtureSamples, "samples", "", "samples TOML file or .eml directory (overrides [fixture] samples)")
	serveFixtureCmd.Flags().IntVar(&fixturePort, "port", 0, "listen port (overrides [fixture] port)")
}
