package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wesm/phishcoach/internal/coach"
	"github.com/wesm/phishcoach/internal/feed"
	"github.com/wesm/phishcoach/internal/selection"
	"github.com/wesm/phishcoach/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Long: `Open the interactive training UI.

The inbox fills while the backend generates emails. Emails can be opened
once generation has finished.

Navigation:
  ↑/k, ↓/j    Move up/down
  g, G        First / last email
  Enter       Open email
  r           Flag as phishing
  a           Flag as legitimate
  c           Toggle the coach chat
  i, /        Type a question for the coach
  Esc         Leave the question input
  q           Quit

Logs are written to phishcoach.log in the home directory.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// The alternate screen owns stderr, so log to a file instead.
	logFile, err := os.OpenFile(cfg.LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	tuiLogger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: logLevel()}))

	client, err := newBackendClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	bridge := tui.NewBridge()
	controller := coach.NewController(client, bridge, bridge).WithLogger(tuiLogger)
	syncer := feed.NewSyncer(client, bridge).
		WithInterval(cfg.Feed.PollInterval.Duration).
		WithLogger(tuiLogger)
	sel := selection.New(ctx, syncer, client).WithLogger(tuiLogger)

	model := tui.New(ctx, controller, sel, tui.Options{
		BackendURL: client.BaseURL(),
		Version:    Version,
		Logger:     tuiLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)

	tuiLogger.Info("starting tui", "backend", client.BaseURL())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// A failed feed stalls the inbox but keeps the UI open.
		if err := syncer.Run(gctx); err != nil && gctx.Err() == nil {
			bridge.FeedFailed(err)
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	})

	err = g.Wait()
	sel.Wait()
	return err
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
