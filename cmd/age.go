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

var ageCmd = &cobra.Command{
	Use:   "age",
	Short: "Computes age statistics for a repository's open issues",
	Long: `Fetches every currently-open issue of the given repository (pull
requests excluded) and outputs count, mean age and population standard
deviation of age in days, as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		repo, _ := cmd.Flags().GetString("repo")

		aggregator, err := newAggregator(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		result, err := aggregator.OpenIssueStats(ctx, repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to compute issue age stats: %v\n", err)
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
	rootCmd.AddCommand(ageCmd)
	ageCmd.Flags().StringP("repo", "r", "", "Target repository as owner/name (required)")
	ageCmd.MarkFlagRequired("repo")
}
