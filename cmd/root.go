// Package cmd wires the renewd command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "renewd",
	Short: "Subscription renewal reminder service",
	Long:  "renewd tracks recurring subscriptions and reminds users before each renewal over email, Telegram and Google Calendar.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tickCmd)
}
