package main

import (
	"github.com/spf13/cobra"
)

const app = "screenctl"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "screenctl screens a resume PDF against a job description from the command line",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
}
