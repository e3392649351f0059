// Package main provides the entry point for the linktolead CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "linktolead",
	Short:         "Turn a LinkedIn job posting into a HubSpot lead",
	Long:          "linktolead scrapes a LinkedIn job posting and the hiring company's profile, formats them into HubSpot Company and Deal records, and publishes them after interactive review.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
