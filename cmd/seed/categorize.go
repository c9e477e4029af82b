package main

import (
	"fmt"

	"github.com/spendlens/backend/internal/domain/invoice"
	"github.com/spf13/cobra"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize [description]",
	Short: "Print the spend category assigned to a line item description",
	Example: `  seed categorize "Annual software license"
  seed categorize "Hotel Berlin, 2 nights"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), invoice.Categorize(args[0]))
		return err
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)
}
