package cmd

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

func printResult(cmd *cobra.Command, raw json.RawMessage) {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		cmd.Println(string(raw))
		return
	}
	cmd.Println(out.String())
}

func printError(cmd *cobra.Command, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
		return
	}
	cmd.Printf("Error: %v\n", err)
}
