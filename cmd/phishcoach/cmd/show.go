package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Tell the backend an email was opened",
	Long: `Report that an email was opened. The backend uses this to track
which training emails the user has looked at.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newBackendClient()
		if err != nil {
			return err
		}
		if err := client.ReportView(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("report view of %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reported email %s as opened.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
