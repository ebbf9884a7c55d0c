package github

import (
	"time"

	"github.com/google/go-github/v39/github"
)

// isoTime formats t as RFC 3339, or "" for the zero time.
func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// baseRecord fills the pull request columns shared by every comment type.
// Location columns are left empty.
func baseRecord(pr *github.PullRequest, typ CommentType) CommentRecord {
	return CommentRecord{
		PRNumber:    pr.GetNumber(),
		PRTitle:     pr.GetTitle(),
		PRState:     pr.GetState(),
		PRCreatedAt: isoTime(pr.GetCreatedAt()),
		PRMergedAt:  isoTime(pr.GetMergedAt()),
		CommentType: typ,
	}
}

// NormalizeReviewComment converts an inline diff comment. It is the only type
// that carries path, line and side information.
func NormalizeReviewComment(pr *github.PullRequest, c *github.PullRequestComment) CommentRecord {
	r := baseRecord(pr, ReviewComment)
	r.CommentID = c.GetID()
	r.CommentBody = c.GetBody()
	r.CommentCreatedAt = isoTime(c.GetCreatedAt())
	r.CommentUpdatedAt = isoTime(c.GetUpdatedAt())
	r.CommentUser = c.GetUser().GetLogin()
	r.CommentPath = c.GetPath()
	r.CommentLine = LineOf(c.Line)
	r.CommentSide = c.GetSide()
	r.CommentStartLine = LineOf(c.StartLine)
	r.CommentStartSide = c.GetStartSide()
	return r
}

// NormalizeReview converts a review submission. Reviews without a body are
// approve/request-changes clicks with no text and yield no record.
func NormalizeReview(pr *github.PullRequest, rv *github.PullRequestReview) (CommentRecord, bool) {
	if rv.GetBody() == "" {
		return CommentRecord{}, false
	}
	submitted := isoTime(rv.GetSubmittedAt())

	r := baseRecord(pr, Review)
	r.CommentID = rv.GetID()
	r.CommentBody = rv.GetBody()
	r.CommentCreatedAt = submitted
	r.CommentUpdatedAt = submitted
	r.CommentUser = rv.GetUser().GetLogin()
	return r, true
}

// NormalizeIssueComment converts a conversation-thread comment.
func NormalizeIssueComment(pr *github.PullRequest, c *github.IssueComment) CommentRecord {
	r := baseRecord(pr, IssueComment)
	r.CommentID = c.GetID()
	r.CommentBody = c.GetBody()
	r.CommentCreatedAt = isoTime(c.GetCreatedAt())
	r.CommentUpdatedAt = isoTime(c.GetUpdatedAt())
	r.CommentUser = c.GetUser().GetLogin()
	return r
}
