package cmd

import (
	"strconv"

	"dtapi/pkg/api"

	"github.com/spf13/cobra"
)

var emailCmd = &cobra.Command{
	Use:   "email [job_id]",
	Short: "Save contact details and send the job confirmation email",
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

		flags := cmd.Flags()
		req := api.JobEmailRequest{JobID: id}
		req.UserEmail, _ = flags.GetString("email")
		req.Reference, _ = flags.GetString("reference")
		req.Address, _ = flags.GetString("address")
		req.Instructions, _ = flags.GetString("instructions")
		req.Town, _ = flags.GetString("town")

		result, err := client.SendJobEmail(req)
		if err != nil {
			printError(cmd, err)
			return
		}
		printResult(cmd, result)
	},
}

func init() {
	flags := emailCmd.Flags()
	flags.StringP("email", "e", "", "Recipient of the confirmation")
	flags.String("reference", "", "Customer reference")
	flags.String("address", "", "Session address")
	flags.String("instructions", "", "Instructions for the translator")
	flags.String("town", "", "Session town")

	rootCmd.AddCommand(emailCmd)
}
