package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesm/phishcoach/internal/coach"
)

var askEmailID string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the coach a question",
	Long: `Send one question to the coach and print the exchange.

Pass --email to ask about a specific training email.

Examples:
  phishcoach ask "How do I check where a link goes?"
  phishcoach ask "Is the sender address suspicious?" --email 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newBackendClient()
		if err != nil {
			return err
		}

		controller := coach.NewController(client, nil, nil).WithLogger(logger)
		err = controller.SubmitQuery(cmd.Context(), strings.Join(args, " "), askEmailID)
		printTranscript(cmd.OutOrStdout(), controller.Turns())
		return err
	},
}

// printTranscript writes the exchange wrapped to the terminal width.
func printTranscript(w io.Writer, turns []coach.Turn) {
	if len(turns) == 0 {
		return
	}
	fmt.Fprintln(w, coach.FormatTranscript(turns, terminalWidth()))
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askEmailID, "email", "", "id of the email the question is about")
}
