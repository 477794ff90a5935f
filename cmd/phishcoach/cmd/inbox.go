package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wesm/phishcoach/internal/feed"
	"github.com/wesm/phishcoach/internal/textutil"
)

var inboxJSON bool

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Fetch the generated training emails",
	Long: `Poll the backend until it has finished generating training emails,
printing each email as it arrives.

Use --json to print one JSON object per email.

Examples:
  phishcoach inbox
  phishcoach inbox --json | jq .subject`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newBackendClient()
		if err != nil {
			return err
		}

		printer := newInboxPrinter(cmd.OutOrStdout(), inboxJSON, terminalWidth())
		syncer := feed.NewSyncer(client, printer).
			WithInterval(cfg.Feed.PollInterval.Duration).
			WithLogger(logger)

		if err := syncer.Run(cmd.Context()); err != nil {
			return fmt.Errorf("load emails: %w", err)
		}
		return printer.err
	},
}

var (
	inboxIDStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "243", Dark: "245"})
	inboxSenderStyle = lipgloss.NewStyle().Bold(true)
	inboxReadyStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})
)

// inboxPrinter writes items as the syncer reports them.
type inboxPrinter struct {
	w     io.Writer
	json  bool
	width int
	count int
	err   error
}

func newInboxPrinter(w io.Writer, jsonLines bool, width int) *inboxPrinter {
	return &inboxPrinter{w: w, json: jsonLines, width: width}
}

func (p *inboxPrinter) ItemAdded(item feed.Item) {
	if p.err != nil {
		return
	}
	p.count++
	if p.json {
		p.err = json.NewEncoder(p.w).Encode(item)
		return
	}
	_, p.err = fmt.Fprintln(p.w, p.line(item))
}

func (p *inboxPrinter) Completed() {
	if p.err != nil || p.json {
		return
	}
	msg := fmt.Sprintf("%d emails ready. Open one with 'phishcoach tui'.", p.count)
	if p.count == 1 {
		msg = "1 email ready. Open it with 'phishcoach tui'."
	}
	_, p.err = fmt.Fprintln(p.w, inboxReadyStyle.Render(msg))
}

const (
	inboxIDWidth     = 6
	inboxSenderWidth = 24
)

// line formats one item as "id  sender  subject" within the terminal width.
func (p *inboxPrinter) line(item feed.Item) string {
	id := runewidth.FillRight(runewidth.Truncate(item.ID, inboxIDWidth, ""), inboxIDWidth)
	sender := runewidth.FillRight(
		runewidth.Truncate(textutil.SingleLine(textutil.SenderName(item.Sender)), inboxSenderWidth, "…"),
		inboxSenderWidth)

	subjectWidth := textutil.SubjectWidth
	if avail := p.width - inboxIDWidth - inboxSenderWidth - 4 - len(textutil.Ellipsis); avail > 0 && avail < subjectWidth {
		subjectWidth = avail
	}
	subject := textutil.Shorten(textutil.SingleLine(item.Subject), subjectWidth)

	return inboxIDStyle.Render(id) + "  " + inboxSenderStyle.Render(sender) + "  " + subject
}

// terminalWidth returns the stdout width, or 80 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func init() {
	rootCmd.AddCommand(inboxCmd)
	inboxCmd.Flags().BoolVar(&inboxJSON, "json", false, "print one JSON object per email")
}
