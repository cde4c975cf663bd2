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

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches repositories",
	Long:  `Runs a repository search with the given free-text query and outputs the matching repository summaries as JSON.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		order, _ := cmd.Flags().GetString("order")

		aggregator, err := newAggregator(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		results, err := aggregator.SearchRepositories(ctx, args[0], order)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to search repositories: %v\n", err)
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
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("order", "desc", "Result order: asc or desc")
}
