package cmd

import (
	"net/url"
	"strconv"
	"strings"

	"dtapi/pkg/api"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	Long: `List the open jobs of a user, or, as an administrator, all jobs.

Example:
  bookctl list --user-id 7
  bookctl list --status pending,assigned --lang 3 --page 2`,
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(cmd)
		if client == nil {
			return
		}

		flags := cmd.Flags()
		query := url.Values{}
		if userID, _ := flags.GetInt64("user-id"); userID > 0 {
			query.Set("user_id", strconv.FormatInt(userID, 10))
		}
		if statuses, _ := flags.GetStringSlice("status"); len(statuses) > 0 {
			query.Set("status", strings.Join(statuses, ","))
		}
		if langs, _ := flags.GetStringSlice("lang"); len(langs) > 0 {
			query.Set("lang", strings.Join(langs, ","))
		}
		if email, _ := flags.GetString("customer-email"); email != "" {
			query.Set("customer_email", email)
		}
		if page, _ := flags.GetInt("page"); page > 0 {
			query.Set("page", strconv.Itoa(page))
		}
		if perPage, _ := flags.GetInt("per-page"); perPage > 0 {
			query.Set("per_page", strconv.Itoa(perPage))
		}

		result, err := client.ListJobs(query)
		if err != nil {
			printError(cmd, err)
			return
		}
		printResult(cmd, result)
	},
}

var getCmd = &cobra.Command{
	Use:   "get [job_id]",
	Short: "Show a job with its translator",
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

		result, err := client.GetJob(id)
		if err != nil {
			printError(cmd, err)
			return
		}
		printResult(cmd, result)
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Book a new job",
	Long: `Book a new interpretation job as the authenticated customer.

Example:
  bookctl create --lang 3 --immediate --duration 30
  bookctl create --lang 3 --due-date 05/20/2024 --due-time 09:30 --phone --duration 60 --job-for female,certified`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		lang, _ := flags.GetInt("lang")
		immediate, _ := flags.GetBool("immediate")
		dueDate, _ := flags.GetString("due-date")
		dueTime, _ := flags.GetString("due-time")
		duration, _ := flags.GetInt("duration")
		phone, _ := flags.GetBool("phone")
		physical, _ := flags.GetBool("physical")
		jobFor, _ := flags.GetStringSlice("job-for")

		if lang == 0 {
			cmd.Println("Error: --lang is required")
			return
		}

		client := newClient(cmd)
		if client == nil {
			return
		}

		req := api.CreateJobRequest{
			FromLanguageID: lang,
			Immediate:      yesNo(immediate),
			DueDate:        dueDate,
			DueTime:        dueTime,
			Duration:       duration,
			JobFor:         jobFor,
		}
		if phone {
			req.CustomerPhoneType = "yes"
		}
		if physical {
			req.CustomerPhysicalType = "yes"
		}

		result, err := client.CreateJob(req)
		if err != nil {
			printError(cmd, err)
			return
		}
		printResult(cmd, result)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [job_id]",
	Short: "Edit fields of a job",
	Long: `Edit fields of an existing job. Every change is written to the job log.

Example:
  bookctl update 42 --set status=assigned --set admin_comments="called customer"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.Printf("Error: invalid job id %q\n", args[0])
			return
		}

		sets, _ := cmd.Flags().GetStringArray("set")
		fields := make(map[string]string, len(sets))
		for _, kv := range sets {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				cmd.Printf("Error: --set expects key=value, got %q\n", kv)
				return
			}
			fields[key] = value
		}
		if len(fields) == 0 {
			cmd.Println("Error: at least one --set is required")
			return
		}

		client := newClient(cmd)
		if client == nil {
			return
		}

		result, err := client.UpdateJob(id, fields)
		if err != nil {
			printError(cmd, err)
			return
		}
		printResult(cmd, result)
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	listFlags := listCmd.Flags()
	listFlags.Int64("user-id", 0, "Show the open jobs of this user")
	listFlags.StringSlice("status", nil, "Filter by status (admin listing)")
	listFlags.StringSlice("lang", nil, "Filter by source language ID (admin listing)")
	listFlags.String("customer-email", "", "Filter by customer email (admin listing)")
	listFlags.Int("page", 0, "Page number")
	listFlags.Int("per-page", 0, "Page size (max 100)")

	createFlags := createCmd.Flags()
	createFlags.IntP("lang", "l", 0, "Source language ID (required)")
	createFlags.Bool("immediate", false, "Book an immediate job")
	createFlags.String("due-date", "", "Due date as MM/DD/YYYY (scheduled jobs)")
	createFlags.String("due-time", "", "Due time as HH:MM (scheduled jobs)")
	createFlags.IntP("duration", "d", 0, "Duration in minutes")
	createFlags.Bool("phone", false, "Session over phone")
	createFlags.Bool("physical", false, "Session in person")
	createFlags.StringSlice("job-for", nil, "Translator requirements: male, female, normal, certified, certified_in_law, certified_in_health")

	updateCmd.Flags().StringArray("set", nil, "Field to change as key=value (repeatable)")

	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd)
}
