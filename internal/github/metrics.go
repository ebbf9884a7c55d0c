package github

import (
	"sort"
	"strconv"
	"time"
)

// Summary aggregates a listing of comment records.
type Summary struct {
	TotalComments int            `json:"total_comments"`
	TotalPRs      int            `json:"total_prs"`
	CommentTypes  map[string]int `json:"comment_types"`
	Users         map[string]int `json:"users"`
	GeneratedAt   string         `json:"generated_at"`
}

// CommentCounts is the counting report. TotalPRs includes pull requests that
// produced no records.
type CommentCounts struct {
	TotalPRs           int     `json:"total_prs"`
	TotalComments      int     `json:"total_comments"`
	ReviewComments     int     `json:"review_comments"`
	Reviews            int     `json:"reviews"`
	IssueComments      int     `json:"issue_comments"`
	AvgCommentsPerPR   float64 `json:"avg_comments_per_pr"`
	PRsWithComments    int     `json:"prs_with_comments"`
	PRsWithoutComments int     `json:"prs_without_comments"`
}

type UserCount struct {
	User  string
	Count int
}

type TypeCount struct {
	Type  CommentType
	Count int
}

// Summarize counts records by type and by user. Only observed types appear in
// CommentTypes, and records with no user are left out of Users. TotalPRs is
// the number of distinct PR numbers among the records.
func Summarize(records []CommentRecord, generatedAt time.Time) Summary {
	s := Summary{
		TotalComments: len(records),
		CommentTypes:  map[string]int{},
		Users:         map[string]int{},
		GeneratedAt:   generatedAt.Format(time.RFC3339),
	}

	prs := make(map[int]struct{})
	for _, r := range records {
		prs[r.PRNumber] = struct{}{}
		s.CommentTypes[string(r.CommentType)]++
		if r.CommentUser != "" {
			s.Users[r.CommentUser]++
		}
	}
	s.TotalPRs = len(prs)

	return s
}

// Count computes the counting report. A PR counts as commented when any of
// its three sources produced a record.
func Count(c Collection) CommentCounts {
	var counts CommentCounts
	counts.TotalPRs = len(c.PullRequests)

	for _, pr := range c.PullRequests {
		for _, r := range pr.Records {
			switch r.CommentType {
			case ReviewComment:
				counts.ReviewComments++
			case Review:
				counts.Reviews++
			case IssueComment:
				counts.IssueComments++
			}
		}
		counts.TotalComments += len(pr.Records)

		if len(pr.Records) > 0 {
			counts.PRsWithComments++
		} else {
			counts.PRsWithoutComments++
		}
	}

	counts.AvgCommentsPerPR = averagePerPR(counts.TotalComments, counts.TotalPRs)
	return counts
}

// averagePerPR is total/prs rounded to two decimals, or 0 when there are no PRs.
// Exact halves round to even (1/8 is 0.12).
func averagePerPR(total, prs int) float64 {
	if prs == 0 {
		return 0
	}
	avg, _ := strconv.ParseFloat(strconv.FormatFloat(float64(total)/float64(prs), 'f', 2, 64), 64)
	return avg
}

// TopUsers returns up to n users with the most records, highest first.
// Users with equal counts keep the order in which they were first seen.
func TopUsers(records []CommentRecord, n int) []UserCount {
	var users []UserCount
	index := make(map[string]int)
	for _, r := range records {
		if r.CommentUser == "" {
			continue
		}
		i, ok := index[r.CommentUser]
		if !ok {
			i = len(users)
			index[r.CommentUser] = i
			users = append(users, UserCount{User: r.CommentUser})
		}
		users[i].Count++
	}

	sort.SliceStable(users, func(a, b int) bool {
		return users[a].Count > users[b].Count
	})
	if len(users) > n {
		users = users[:n]
	}
	return users
}

// CountByType returns per-type counts in the order types were first seen.
func CountByType(records []CommentRecord) []TypeCount {
	var types []TypeCount
	index := make(map[CommentType]int)
	for _, r := range records {
		i, ok := index[r.CommentType]
		if !ok {
			i = len(types)
			index[r.CommentType] = i
			types = append(types, TypeCount{Type: r.CommentType})
		}
		types[i].Count++
	}
	return types
}
