// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/issue-stats/internal/gateway"
	"github.com/naka-gawa/issue-stats/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "issue-stats",
	Short: "A CLI tool to compute issue statistics for GitHub repositories.",
	Long: `issue-stats fetches issue data for one or more GitHub repositories
and computes descriptive statistics: open-issue age mean/standard deviation,
and per-day opened/closed issue counts over the trailing three months.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newAggregator builds the gateway and aggregator shared by all subcommands.
// GITHUB_TOKEN is optional; without it requests go out anonymously.
func newAggregator(cmd *cobra.Command) (*usecase.Aggregator, error) {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}
	githubGateway, err := gateway.NewGitHubGateway(os.Getenv("GITHUB_TOKEN"), logger)
	if err != nil {
		return nil, err
	}
	return usecase.NewAggregator(githubGateway, logger), nil
}
