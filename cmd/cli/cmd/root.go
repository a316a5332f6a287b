package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bookctl",
	Short: "bookctl is a command line tool for the translator booking API",
	Long: `bookctl is the command-line interface for the translator booking API.

Customers book interpretation jobs, translators accept them, and administrators
list and edit every job. Each command maps to one API operation.

Common workflows:

  List your open jobs:
    bookctl list --user-id 7

  Book an immediate job:
    bookctl create --lang 3 --immediate --duration 30

  Accept a pending job as a translator:
    bookctl accept 42

  Show finished jobs:
    bookctl history --user-id 7 --page 2

Configuration:
  Set the API endpoint and credentials via environment variables or a config file:
    BOOKCTL_URL      API endpoint (default: http://localhost:8000)
    BOOKCTL_TOKEN    API token for authentication`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".bookctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".bookctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "BOOKCTL_VARNAME"
	viper.SetEnvPrefix("BOOKCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// newClient builds a client from the configured url and token.
// It prints a hint and returns nil when no token is configured.
func newClient(cmd *cobra.Command) *BookingClient {
	token := viper.GetString("token")
	if token == "" {
		cmd.Println("API token not found. Please set it using the --token flag or the BOOKCTL_TOKEN environment variable")
		return nil
	}
	return NewBookingClient(viper.GetString("url"), token)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bookctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8000", "Booking API URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().StringP("token", "t", "", "API Token for authentication")
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}
