package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a user's finished jobs",
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		userID, _ := flags.GetInt64("user-id")
		page, _ := flags.GetInt("page")

		if userID <= 0 {
			cmd.Println("Error: --user-id is required")
			return
		}

		client := newClient(cmd)
		if client == nil {
			return
		}

		result, err := client.History(userID, page)
		if err != nil {
			printError(cmd, err)
			return
		}
		printResult(cmd, result)
	},
}

func init() {
	historyCmd.Flags().Int64("user-id", 0, "User whose history to show (required)")
	historyCmd.Flags().Int("page", 0, "Page number")

	rootCmd.AddCommand(historyCmd)
}
