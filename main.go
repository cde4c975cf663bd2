// issue-stats is a CLI tool that fetches repository and issue data from the
// GitHub REST API and computes descriptive statistics: open-issue age
// mean/standard deviation per repository, and per-day opened/closed issue
// counts over the trailing three months across multiple repositories.
package main

import (
	"github.com/naka-gawa/issue-stats/cmd"
)

func main() {
	cmd.Execute()
}
