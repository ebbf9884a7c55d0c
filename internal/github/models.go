package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CommentType identifies which GitHub discussion source a record came from.
type CommentType string

const (
	ReviewComment CommentType = "review_comment"
	Review        CommentType = "review"
	IssueComment  CommentType = "issue_comment"
)

// Line is an optional diff line anchor. Absent lines encode as "" so that
// every record has the same shape regardless of comment type. This includes
// review comments whose line is no longer anchored in the diff (outdated),
// which GitHub reports as null.
type Line struct {
	Value int
	Valid bool
}

func LineOf(p *int) Line {
	if p == nil {
		return Line{}
	}
	return Line{Value: *p, Valid: true}
}

func (l Line) String() string {
	if !l.Valid {
		return ""
	}
	return strconv.Itoa(l.Value)
}

func (l Line) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte(`""`), nil
	}
	return strconv.AppendInt(nil, int64(l.Value), 10), nil
}

func (l *Line) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte(`""`)) || bytes.Equal(data, []byte("null")) {
		*l = Line{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("line must be a number or empty string: %w", err)
	}
	*l = Line{Value: n, Valid: true}
	return nil
}

// CommentRecord is one review comment, review, or issue comment flattened
// together with its parent pull request.
type CommentRecord struct {
	PRNumber         int         `json:"pr_number"`
	PRTitle          string      `json:"pr_title"`
	PRState          string      `json:"pr_state"`
	PRCreatedAt      string      `json:"pr_created_at"`
	PRMergedAt       string      `json:"pr_merged_at"`
	CommentType      CommentType `json:"comment_type"`
	CommentID        int64       `json:"comment_id"`
	CommentBody      string      `json:"comment_body"`
	CommentCreatedAt string      `json:"comment_created_at"`
	CommentUpdatedAt string      `json:"comment_updated_at"`
	CommentUser      string      `json:"comment_user"`
	CommentPath      string      `json:"comment_path"`
	CommentLine      Line        `json:"comment_line"`
	CommentSide      string      `json:"comment_side"`
	CommentStartLine Line        `json:"comment_start_line"`
	CommentStartSide string      `json:"comment_start_side"`
}

// CSVHeader is the column order of the CSV export. Row must stay in sync.
var CSVHeader = []string{
	"pr_number",
	"pr_title",
	"pr_state",
	"pr_created_at",
	"pr_merged_at",
	"comment_type",
	"comment_id",
	"comment_body",
	"comment_created_at",
	"comment_updated_at",
	"comment_user",
	"comment_path",
	"comment_line",
	"comment_side",
	"comment_start_line",
	"comment_start_side",
}

// Row returns the record's CSV cells in CSVHeader order.
func (r CommentRecord) Row() []string {
	return []string{
		strconv.Itoa(r.PRNumber),
		r.PRTitle,
		r.PRState,
		r.PRCreatedAt,
		r.PRMergedAt,
		string(r.CommentType),
		strconv.FormatInt(r.CommentID, 10),
		r.CommentBody,
		r.CommentCreatedAt,
		r.CommentUpdatedAt,
		r.CommentUser,
		r.CommentPath,
		r.CommentLine.String(),
		r.CommentSide,
		r.CommentStartLine.String(),
		r.CommentStartSide,
	}
}

// PullRequestComments is every normalized record collected for one pull request.
type PullRequestComments struct {
	Number  int
	Title   string
	Records []CommentRecord
}

// Collection is the materialized result of walking a repository.
type Collection struct {
	PullRequests []PullRequestComments
}

// Records flattens the collection in pull request order. The result is never nil.
func (c Collection) Records() []CommentRecord {
	records := []CommentRecord{}
	for _, pr := range c.PullRequests {
		records = append(records, pr.Records...)
	}
	return records
}
