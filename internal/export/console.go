package export

import (
	"fmt"
	"io"

	"github.com/reillywatson/prcomments/internal/github"
)

const topUsersLimit = 10

// PrintRecordSummary prints totals, the per-type breakdown and the top users
// for a record export written to path.
func PrintRecordSummary(w io.Writer, path string, records []github.CommentRecord) {
	distinctPRs := make(map[int]struct{})
	for _, r := range records {
		distinctPRs[r.PRNumber] = struct{}{}
	}

	fmt.Fprintf(w, "Saved %s\n", path)
	fmt.Fprintf(w, "Total comments: %d\n", len(records))
	fmt.Fprintf(w, "Total PRs: %d\n", len(distinctPRs))

	if len(records) == 0 {
		return
	}

	fmt.Fprintln(w, "\nComments by type:")
	for _, tc := range github.CountByType(records) {
		fmt.Fprintf(w, "  - %s: %d\n", tc.Type, tc.Count)
	}

	top := github.TopUsers(records, topUsersLimit)
	if len(top) == 0 {
		return
	}
	fmt.Fprintf(w, "\nTop %d users:\n", topUsersLimit)
	for _, uc := range top {
		fmt.Fprintf(w, "  - %s: %d\n", uc.User, uc.Count)
	}
}

// PrintCounts prints the counting report written to path.
func PrintCounts(w io.Writer, path string, c github.CommentCounts) {
	fmt.Fprintf(w, "Saved %s\n", path)
	fmt.Fprintf(w, "Total PRs: %d\n", c.TotalPRs)
	fmt.Fprintf(w, "Total comments: %d\n", c.TotalComments)
	fmt.Fprintf(w, "Review comments: %d\n", c.ReviewComments)
	fmt.Fprintf(w, "Reviews: %d\n", c.Reviews)
	fmt.Fprintf(w, "Issue comments: %d\n", c.IssueComments)
	fmt.Fprintf(w, "Average comments per PR: %.2f\n", c.AvgCommentsPerPR)
	fmt.Fprintf(w, "PRs with comments: %d\n", c.PRsWithComments)
	fmt.Fprintf(w, "PRs without comments: %d\n", c.PRsWithoutComments)
}
