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

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Counts issues opened and closed per day over the last three months",
	Long: `Fetches the issue history of the given repositories (state=all,
restricted to the trailing three months) and outputs, per repository, a map
from day (dd/MM/yyyy) to the number of issues opened and closed that day.
Every observed day appears in every repository's maps, zero-filled, so the
matrices chart symmetrically.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		repos, _ := cmd.Flags().GetStringSlice("repos")

		aggregator, err := newAggregator(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		result, err := aggregator.IssuesByDate(ctx, repos)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate issue activity: %v\n", err)
			os.Exit(1)
		}

		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.Flags().StringSliceP("repos", "r", nil, "Target repositories as owner/name, comma separated (required)")
	activityCmd.MarkFlagRequired("repos")
}
