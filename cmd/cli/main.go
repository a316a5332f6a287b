// Package main is the entry point for bookctl.
// bookctl is the operator terminal tool for the booking API.
package main

import (
	"dtapi/cmd/cli/cmd"
	"os"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
