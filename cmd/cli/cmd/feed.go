package cmd

import (
	"strconv"

	"dtapi/pkg/api"

	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed [job_id]",
	Short: "Push distance and admin details for a job",
	Long: `Push a distance feed record for a job.

Flags left unset are sent as absent, which the API stores as "no".

Example:
  bookctl feed 42 --distance 12km --time 00:25 --flagged --comment "late start"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
			cmd.Printf("Error: invalid job id %q\n", args[0])
			return
		}

		client := newClient(cmd)
		if client == nil {
			return
		}

		flags := cmd.Flags()
		req := api.DistanceFeedRequest{JobID: args[0]}
		req.Distance, _ = flags.GetString("distance")
		req.Time, _ = flags.GetString("time")
		req.AdminComment, _ = flags.GetString("comment")
		req.SessionTime, _ = flags.GetString("session-time")
		req.Flagged = trueOrEmpty(flags.GetBool("flagged"))
		req.ManuallyHandled = trueOrEmpty(flags.GetBool("manually-handled"))
		req.ByAdmin = trueOrEmpty(flags.GetBool("by-admin"))

		result, err := client.DistanceFeed(req)
		if err != nil {
			printError(cmd, err)
			return
		}
		printResult(cmd, result)
	},
}

func trueOrEmpty(b bool, _ error) string {
	if b {
		return "true"
	}
	return ""
}

func init() {
	flags := feedCmd.Flags()
	flags.String("distance", "", "Travelled distance")
	flags.String("time", "", "Travel time")
	flags.String("comment", "", "Admin comment")
	flags.String("session-time", "", "Session length")
	flags.Bool("flagged", false, "Flag the job")
	flags.Bool("manually-handled", false, "Mark as manually handled")
	flags.Bool("by-admin", false, "Mark as handled by an admin")

	rootCmd.AddCommand(feedCmd)
}
