package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wesm/phishcoach/internal/coach"
)

var (
	flagPhishing bool
	flagLegit    bool
	flagAction   string
)

var flagCmd = &cobra.Command{
	Use:   "flag <id>",
	Short: "Flag an email as phishing or legitimate",
	Long: `Tell the coach whether you think an email is phishing and print
its feedback.

Examples:
  phishcoach flag 3 --phishing
  phishcoach flag 4 --legit
  phishcoach flag 5 --action report`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := resolveAction(flagPhishing, flagLegit, flagAction)
		if err != nil {
			return err
		}

		client, err := newBackendClient()
		if err != nil {
			return err
		}

		controller := coach.NewController(client, nil, nil).WithLogger(logger)
		err = controller.SubmitFlag(cmd.Context(), action, args[0])
		printTranscript(cmd.OutOrStdout(), controller.Turns())
		return err
	},
}

var errNoVerdict = errors.New("one of --phishing, --legit or --action is required")

// resolveAction turns the verdict flags into an Action. Exactly one must be set.
func resolveAction(phishing, legit bool, action string) (coach.Action, error) {
	set := 0
	for _, b := range []bool{phishing, legit, action != ""} {
		if b {
			set++
		}
	}
	switch {
	case set == 0:
		return 0, errNoVerdict
	case set > 1:
		return 0, errors.New("--phishing, --legit and --action are mutually exclusive")
	case phishing:
		return coach.ActionReport, nil
	case legit:
		return coach.ActionAllow, nil
	}
	return coach.ParseAction(action)
}

func init() {
	rootCmd.AddCommand(flagCmd)
	flagCmd.Flags().BoolVar(&flagPhishing, "phishing", false, "flag the email as phishing")
	flagCmd.Flags().BoolVar(&flagLegit, "legit", false, "flag the email as legitimate")
	flagCmd.Flags().StringVar(&flagAction, "action", "", "verdict: report or allow")
}
