package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load invoice extraction exports into the spend database",
	Long: `seed imports the JSON export produced by the invoice extraction
pipeline into the relational spend schema read by the analytics API.

The export can be read from a local file, an S3 object or a MongoDB
collection. Database and storage settings come from the same
configuration file and environment variables as the API server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
