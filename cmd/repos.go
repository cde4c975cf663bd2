// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reposCmd = &cobra.Command{
	Use:   "repos [owner/name ...]",
	Short: "Looks up repository summaries",
	Long: `Looks up each given repository in parallel and outputs their
summaries as JSON, in the same order as the arguments.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		aggregator, err := newAggregator(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		results, err := aggregator.Repositories(ctx, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch repositories: %v\n", err)
			os.Exit(1)
		}

		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(reposCmd)
}
