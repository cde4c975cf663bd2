// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/issue-stats/internal/domain"
	"github.com/naka-gawa/issue-stats/internal/gateway"
)

// dateLayout is the dd/MM/yyyy key format of the activity maps.
const dateLayout = "02/01/2006"

// activityWindow is how far back the issues-by-date aggregation looks.
const activityWindow = -3 // months

// Aggregator is the use case for aggregating issue statistics.
// It orchestrates the fetching and reduction of issue data.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// OpenIssueStats fetches the full open-issue history of one repository and
// reduces it to count, mean age and population standard deviation of age,
// in whole days. Pull requests are excluded. A repository with no qualifying
// issues yields explicit zeros rather than an undefined statistic.
func (a *Aggregator) OpenIssueStats(ctx context.Context, repo string) (*domain.OpenIssueStats, error) {
	a.logger.Printf("Usecase: computing open-issue age stats for %s...", repo)
	issues, err := a.fetcher.FetchAllIssues(ctx, repo, gateway.IssueListOptions{State: "open"})
	if err != nil {
		return nil, err
	}

	now := a.now()
	var ages []float64
	for _, issue := range issues {
		if issue.PullRequest {
			continue
		}
		// Whole days, truncated toward zero.
		ages = append(ages, float64(int(now.Sub(issue.CreatedAt).Hours()/24)))
	}

	result := &domain.OpenIssueStats{Repository: repo, Count: len(ages)}
	if len(ages) == 0 {
		return result, nil
	}

	mean, err := stats.Mean(ages)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean issue age for %s: %w", repo, err)
	}
	stddev, err := stats.StandardDeviationPopulation(ages)
	if err != nil {
		return nil, fmt.Errorf("failed to compute issue age deviation for %s: %w", repo, err)
	}
	result.MeanAgeDays = mean
	result.StdDevAgeDays = stddev
	a.logger.Printf("Usecase: %s has %d open issues, mean age %.1f days", repo, result.Count, mean)
	return result, nil
}

// IssuesByDate builds the per-day opened/closed count matrix for the trailing
// three months across the given repositories.
//
// Fetching is two-phase: page 1 for every repository goes out in one parallel
// batch, then every remaining page of every repository goes out in a second
// parallel batch. That bounds latency to two round trips regardless of
// repository or page count. Any failed fetch fails the whole aggregation.
func (a *Aggregator) IssuesByDate(ctx context.Context, repos []string) (map[string]*domain.IssueActivity, error) {
	a.logger.Printf("Usecase: bucketing issue activity for %d repositories...", len(repos))
	cutoff := a.now().AddDate(0, activityWindow, 0)
	baseOpts := gateway.IssueListOptions{State: "all", Since: cutoff}

	// Phase 1: first pages.
	type firstPage struct {
		issues   []domain.Issue
		lastPage int
	}
	firsts := make([]firstPage, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		i, repo := i, repo
		eg.Go(func() error {
			opts := baseOpts
			opts.Page = 1
			issues, lastPage, err := a.fetcher.FetchIssuesPage(egCtx, repo, opts)
			if err != nil {
				return err
			}
			firsts[i] = firstPage{issues: issues, lastPage: lastPage}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Phase 2: every remaining page of every repository.
	type pageRequest struct {
		repoIdx int
		page    int
	}
	var pending []pageRequest
	for i, fp := range firsts {
		for page := 2; page <= fp.lastPage; page++ {
			pending = append(pending, pageRequest{repoIdx: i, page: page})
		}
	}
	restPages := make([][]domain.Issue, len(pending))
	eg, egCtx = errgroup.WithContext(ctx)
	for i, req := range pending {
		i, req := i, req
		eg.Go(func() error {
			opts := baseOpts
			opts.Page = req.page
			issues, _, err := a.fetcher.FetchIssuesPage(egCtx, repos[req.repoIdx], opts)
			if err != nil {
				return err
			}
			restPages[i] = issues
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Reduce: bucket every issue into its repository's accumulator.
	activity := make(map[string]*domain.IssueActivity, len(repos))
	for _, repo := range repos {
		activity[repo] = domain.NewIssueActivity()
	}
	for i, repo := range repos {
		for _, issue := range firsts[i].issues {
			bucketIssue(activity[repo], issue, cutoff)
		}
	}
	for i, req := range pending {
		for _, issue := range restPages[i] {
			bucketIssue(activity[repos[req.repoIdx]], issue, cutoff)
		}
	}

	zeroFill(activity)
	a.logger.Println("Usecase: activity bucketing complete.")
	return activity, nil
}

// bucketIssue increments the opened/closed day counters for one issue.
// The window boundary is strictly-after: events exactly at the cutoff are out.
func bucketIssue(act *domain.IssueActivity, issue domain.Issue, cutoff time.Time) {
	if issue.PullRequest {
		return
	}
	if issue.CreatedAt.After(cutoff) {
		act.Opened[issue.CreatedAt.Format(dateLayout)]++
	}
	if issue.ClosedAt != nil && issue.ClosedAt.After(cutoff) {
		act.Closed[issue.ClosedAt.Format(dateLayout)]++
	}
}

// zeroFill inserts a zero count for every date observed anywhere into every
// repository's opened and closed maps, so the matrix is symmetric across
// repositories. Existing counts are never overwritten.
func zeroFill(activity map[string]*domain.IssueActivity) {
	dates := make(map[string]struct{})
	for _, act := range activity {
		for date := range act.Opened {
			dates[date] = struct{}{}
		}
		for date := range act.Closed {
			dates[date] = struct{}{}
		}
	}
	for _, act := range activity {
		for date := range dates {
			if _, ok := act.Opened[date]; !ok {
				act.Opened[date] = 0
			}
			if _, ok := act.Closed[date]; !ok {
				act.Closed[date] = 0
			}
		}
	}
}

// Repositories looks up every identifier in parallel and returns the
// summaries in the same order as the input.
func (a *Aggregator) Repositories(ctx context.Context, repos []string) ([]domain.Repository, error) {
	a.logger.Printf("Usecase: fetching %d repositories...", len(repos))
	results := make([]domain.Repository, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		i, repo := i, repo
		eg.Go(func() error {
			result, err := a.fetcher.GetRepository(egCtx, repo)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SearchRepositories runs a repository search with the given query and order.
func (a *Aggregator) SearchRepositories(ctx context.Context, query, order string) ([]domain.Repository, error) {
	return a.fetcher.SearchRepositories(ctx, query, order)
}
