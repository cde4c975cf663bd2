// Package gateway provides a gateway to the GitHub REST API,
// abstracting away the underlying client and its pagination scheme.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/issue-stats/internal/domain"
)

// perPage is the fixed page size for all list requests.
const perPage = 100

// IssueListOptions narrows an issue listing. Sort direction is always
// ascending and the page size is fixed; callers only choose the state
// filter, the since cutoff and the page number.
type IssueListOptions struct {
	// State filters issues by state ("open", "closed", "all").
	State string
	// Since restricts results to issues updated at or after this time.
	// The zero value applies no restriction.
	Since time.Time
	// Page selects the result page, starting at 1. Zero means page 1.
	Page int
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchIssuesPage fetches one page of issues for repo ("owner/name") and
	// reports the total page count discovered from the pagination header.
	FetchIssuesPage(ctx context.Context, repo string, opts IssueListOptions) ([]domain.Issue, int, error)
	// FetchAllIssues fetches every page of issues for repo, fanning out the
	// requests for pages 2..N concurrently.
	FetchAllIssues(ctx context.Context, repo string, opts IssueListOptions) ([]domain.Issue, error)
	// GetRepository looks up a single repository by its "owner/name" identifier.
	GetRepository(ctx context.Context, repo string) (domain.Repository, error)
	// SearchRepositories runs a repository search with the given free-text
	// query and result order ("asc" or "desc").
	SearchRepositories(ctx context.Context, query, order string) ([]domain.Repository, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client *github.Client
	logger *log.Logger
}

// lastPagePattern extracts the page number embedded in a pagination link.
// Anchored on the parameter separator so per_page=100 never matches.
var lastPagePattern = regexp.MustCompile(`[?&]page=(\d+)`)

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The token is optional; without one, requests are made anonymously against
// the public API at its lower rate limit.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	return &GitHubGateway{
		client: github.NewClient(&http.Client{Transport: transport}),
		logger: logger,
	}, nil
}

// splitRepo splits an "owner/name" identifier into its two parts.
func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository identifier %q: expected owner/name", repo)
	}
	return owner, name, nil
}

// lastPageFromLink parses a Link pagination header and returns the page
// number embedded in its rel="last" entry. An empty header means the result
// fits on a single page. A header that is present but does not yield a page
// number is reported as an error rather than silently treated as one page.
func lastPageFromLink(header string) (int, error) {
	if header == "" {
		return 1, nil
	}
	for _, link := range strings.Split(header, ",") {
		if !strings.Contains(link, `rel="last"`) {
			continue
		}
		m := lastPagePattern.FindStringSubmatch(link)
		if m == nil {
			return 0, fmt.Errorf("malformed pagination header: no page number in %q", strings.TrimSpace(link))
		}
		page, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("malformed pagination header: %w", err)
		}
		return page, nil
	}
	// A header without a rel="last" entry appears on the final page of a
	// multi-page listing; page 1 requests never see it.
	return 0, fmt.Errorf("malformed pagination header: no rel=\"last\" entry in %q", header)
}

// convertIssue maps an API issue onto the domain representation.
func convertIssue(issue *github.Issue) domain.Issue {
	out := domain.Issue{
		Number:      issue.GetNumber(),
		Title:       issue.GetTitle(),
		State:       issue.GetState(),
		CreatedAt:   issue.GetCreatedAt().Time,
		PullRequest: issue.IsPullRequest(),
	}
	if issue.ClosedAt != nil {
		t := issue.ClosedAt.Time
		out.ClosedAt = &t
	}
	return out
}

// convertRepository maps an API repository onto the domain summary.
func convertRepository(repo *github.Repository) domain.Repository {
	return domain.Repository{
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		OpenIssues:  repo.GetOpenIssuesCount(),
	}
}

func (g *GitHubGateway) FetchIssuesPage(ctx context.Context, repo string, opts IssueListOptions) ([]domain.Issue, int, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, 0, err
	}
	page := opts.Page
	if page == 0 {
		page = 1
	}
	apiOpts := &github.IssueListByRepoOptions{
		State:     opts.State,
		Since:     opts.Since,
		Sort:      "created",
		Direction: "asc",
		ListOptions: github.ListOptions{
			PerPage: perPage,
			Page:    page,
		},
	}
	issues, resp, err := g.client.Issues.ListByRepo(ctx, owner, name, apiOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues for %s (page %d): %w", repo, page, err)
	}
	lastPage := page
	if page == 1 {
		lastPage, err = lastPageFromLink(resp.Header.Get("Link"))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to determine page count for %s: %w", repo, err)
		}
	}
	converted := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		converted = append(converted, convertIssue(issue))
	}
	g.logger.Printf("Fetched page %d/%d of issues for %s (%d items)", page, lastPage, repo, len(converted))
	return converted, lastPage, nil
}

// FetchAllIssues fetches page 1, then fans out one concurrent request per
// remaining page and merges the results in page order. A single-page listing
// performs exactly one request.
func (g *GitHubGateway) FetchAllIssues(ctx context.Context, repo string, opts IssueListOptions) ([]domain.Issue, error) {
	opts.Page = 1
	first, lastPage, err := g.FetchIssuesPage(ctx, repo, opts)
	if err != nil {
		return nil, err
	}
	if lastPage <= 1 {
		return first, nil
	}

	// One slot per remaining page so each goroutine writes only its own index.
	rest := make([][]domain.Issue, lastPage-1)
	eg, egCtx := errgroup.WithContext(ctx)
	for page := 2; page <= lastPage; page++ {
		page := page
		eg.Go(func() error {
			pageOpts := opts
			pageOpts.Page = page
			issues, _, err := g.FetchIssuesPage(egCtx, repo, pageOpts)
			if err != nil {
				return err
			}
			rest[page-2] = issues
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := first
	for _, issues := range rest {
		merged = append(merged, issues...)
	}
	g.logger.Printf("Merged %d pages of issues for %s (%d items)", lastPage, repo, len(merged))
	return merged, nil
}

func (g *GitHubGateway) GetRepository(ctx context.Context, repo string) (domain.Repository, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return domain.Repository{}, err
	}
	result, _, err := g.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return domain.Repository{}, fmt.Errorf("failed to get repository %s: %w", repo, err)
	}
	return convertRepository(result), nil
}

func (g *GitHubGateway) SearchRepositories(ctx context.Context, query, order string) ([]domain.Repository, error) {
	opts := &github.SearchOptions{
		Order:       order,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	result, _, err := g.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories with query %q: %w", query, err)
	}
	repos := make([]domain.Repository, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		repos = append(repos, convertRepository(repo))
	}
	g.logger.Printf("Repository search %q returned %d results", query, len(repos))
	return repos, nil
}
