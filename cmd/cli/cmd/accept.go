package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var acceptCmd = &cobra.Command{
	Use:   "accept [job_id]",
	Short: "Accept a pending job as the authenticated translator",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.Printf("Error: invalid job id %q\n", args[0])
			return
		}

		client := newClient(cmd)
		if client == nil {
			return
		}

		result, err := client.AcceptJob(id)
		if err != nil {
			printError(cmd, err)
			return
		}
		printResult(cmd, result)
	},
}

func init() {
	rootCmd.AddCommand(acceptCmd)
}
