// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Issue is a single work item from a repository's issue tracker.
// Pull requests also appear in the issues API; they carry a pull-request
// marker and are excluded from all statistics.
type Issue struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	PullRequest bool       `json:"pull_request"`
}

// Repository is a summary of a repository, passed through from the API.
type Repository struct {
	FullName    string `json:"full_name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	OpenIssues  int    `json:"open_issues"`
}

// OpenIssueStats holds age statistics for the currently-open, non-PR issues
// of a single repository. Ages are whole days. With zero qualifying issues,
// Count, MeanAgeDays and StdDevAgeDays are all zero.
type OpenIssueStats struct {
	Repository    string  `json:"repository"`
	Count         int     `json:"count"`
	MeanAgeDays   float64 `json:"mean_age_days"`
	StdDevAgeDays float64 `json:"stddev_age_days"`
}

// IssueActivity maps dd/MM/yyyy date keys to the number of issues opened or
// closed on that day within the trailing three-month window. Every date
// observed for any tracked repository is present in both maps of every
// repository, with a zero count where nothing happened.
type IssueActivity struct {
	Opened map[string]int `json:"opened"`
	Closed map[string]int `json:"closed"`
}

// NewIssueActivity returns an IssueActivity with empty, non-nil maps.
func NewIssueActivity() *IssueActivity {
	return &IssueActivity{
		Opened: make(map[string]int),
		Closed: make(map[string]int),
	}
}
