package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/wesm/phishcoach/internal/config"
	"github.com/wesm/phishcoach/internal/fixture"
	"github.com/wesm/phishcoach/internal/testutil"
)

// newTestRootCmd creates a fresh root command for testing, avoiding mutation
// of the global rootCmd which could cause race conditions in parallel tests.
func newTestRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phishcoach",
		Short: "Phishing awareness training in the terminal",
	}
}

// TestExecuteContext_CancellationPropagates verifies that context cancellation
// from ExecuteContext propagates to command handlers.
func TestExecuteContext_CancellationPropagates(t *testing.T) {
	var contextWasCancelled atomic.Bool
	handlerStarted := make(chan struct{})

	testRoot := newTestRootCmd()
	testRoot.AddCommand(&cobra.Command{
		Use: "test-cancel",
		RunE: func(cmd *cobra.Command, args []string) error {
			close(handlerStarted)
			select {
			case <-cmd.Context().Done():
				contextWasCancelled.Store(true)
				return cmd.Context().Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		testRoot.SetArgs([]string{"test-cancel"})
		done <- testRoot.ExecuteContext(ctx)
	}()

	select {
	case <-handlerStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("command handler did not start in time")
	}

	// Simulates SIGINT/SIGTERM
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled error, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ExecuteContext did not return after context cancellation")
	}

	if !contextWasCancelled.Load() {
		t.Error("command did not observe context cancellation")
	}
}

// TestExecuteContext_PropagatesContext verifies ExecuteContext passes context
// to command handlers.
//
// NOTE: This test modifies the package-level rootCmd variable and must NOT use t.Parallel().
func TestExecuteContext_PropagatesContext(t *testing.T) {
	savedRootCmd := rootCmd
	defer func() { rootCmd = savedRootCmd }()

	testRoot := newTestRootCmd()
	type ctxKey string
	var receivedCtx context.Context
	testRoot.AddCommand(&cobra.Command{
		Use: "test-ctx",
		RunE: func(cmd *cobra.Command, args []string) error {
			receivedCtx = cmd.Context()
			return nil
		},
	})
	rootCmd = testRoot

	testKey := ctxKey("test-key")
	ctx := context.WithValue(context.Background(), testKey, "test-value")

	testRoot.SetArgs([]string{"test-ctx"})
	if err := ExecuteContext(ctx); err != nil {
		t.Fatalf("ExecuteContext returned unexpected error: %v", err)
	}
	if receivedCtx == nil {
		t.Fatal("command did not receive context")
	}
	if got := receivedCtx.Value(testKey); got != "test-value" {
		t.Errorf("context value mismatch: got %v, want test-value", got)
	}
}

// runRoot executes the real command tree against args and returns stdout.
//
// NOTE: uses the package-level rootCmd; tests calling it must NOT use t.Parallel().
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		inboxJSON = false
		askEmailID = ""
		flagPhishing, flagLegit, flagAction = false, false, ""
	})
	err := rootCmd.ExecuteContext(context.Background())
	return ansi.Strip(out.String()), err
}

func newFixtureBackend(t *testing.T) string {
	t.Helper()
	samples := []fixture.Sample{
		{ID: 0, Sender: "IT Helpdesk (it@helpdesk.example)", Subject: "Password expiry", Content: "Click here.", IsPhishing: true, Analysis: "The domain is fake."},
		{ID: 1, Sender: "Facilities (fac@corp.example)", Subject: "Office closed", Content: "Closed Friday."},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := fixture.NewServer(config.FixtureConfig{BatchSize: 1}, samples, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestInboxThenFlag(t *testing.T) {
	url := newFixtureBackend(t)
	home := t.TempDir()

	out, err := runRoot(t, "--home", home, "--url", url, "inbox")
	testutil.MustNoErr(t, err, "inbox")
	testutil.AssertContainsAll(t, out, "IT Helpdesk", "Password expiry", "Facilities", "2 emails ready")
	testutil.AssertContainsNone(t, out, "it@helpdesk.example")

	out, err = runRoot(t, "--home", home, "--url", url, "flag", "0", "--phishing")
	testutil.MustNoErr(t, err, "flag")
	if !strings.HasPrefix(out, "User: Flag as Phishing\n\nCoach: Well spotted!") {
		t.Errorf("flag output =\n%s", out)
	}
}

func TestAskBeforeGenerationFinished(t *testing.T) {
	url := newFixtureBackend(t)

	out, err := runRoot(t, "--home", t.TempDir(), "--url", url, "ask", "is", "this", "safe?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	want := "User: is this safe?\n\nCoach: " + fixture.GeneratingReply + "\n"
	if out != want {
		t.Errorf("ask output = %q, want %q", out, want)
	}
}

func TestFlagUnknownEmail(t *testing.T) {
	url := newFixtureBackend(t)
	home := t.TempDir()

	_, err := runRoot(t, "--home", home, "--url", url, "inbox", "--json")
	testutil.MustNoErr(t, err, "inbox")
	out, err := runRoot(t, "--home", home, "--url", url, "flag", "42", "--action", "allow")
	if err == nil {
		t.Fatal("expected error for unknown email")
	}
	if !strings.Contains(out, "Coach: ") {
		t.Errorf("failed exchange should still print the error turn:\n%s", out)
	}
}
