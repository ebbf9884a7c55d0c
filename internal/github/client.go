package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v39/github"
)

// CommentSource lists a repository's pull requests and their discussion.
// Every method returns all pages.
type CommentSource interface {
	ListPullRequests(ctx context.Context, owner, repo string) ([]*github.PullRequest, error)
	ListReviewComments(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestComment, error)
	ListReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error)
}

var _ CommentSource = (*GitHubClient)(nil)

type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient creates a client authenticated with token. See newHTTPClient
// for the transport stack.
func NewGitHubClient(token string, opts ...ClientOption) *GitHubClient {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &GitHubClient{
		client: github.NewClient(newHTTPClient(token, o)),
	}
}

// NewGitHubClientWithHTTPClient points the client at baseURL using httpClient as is.
// Tests use it with an httptest server.
func NewGitHubClientWithHTTPClient(httpClient *http.Client, baseURL string) (*GitHubClient, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	client := github.NewClient(httpClient)
	client.BaseURL = u
	return &GitHubClient{client: client}, nil
}

// ListPullRequests returns every pull request regardless of state.
func (c *GitHubClient) ListPullRequests(ctx context.Context, owner, repo string) ([]*github.PullRequest, error) {
	var allPRs []*github.PullRequest
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		prs, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch pull requests for %s/%s (page %d): %w", owner, repo, opts.Page, err)
		}
		logRateLimit(resp, owner+"/"+repo+"/pulls", opts.Page, len(prs))

		allPRs = append(allPRs, prs...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allPRs, nil
}

func (c *GitHubClient) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestComment, error) {
	var all []*github.PullRequestComment
	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.client.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch review comments for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}
		logRateLimit(resp, fmt.Sprintf("%s/%s#%d/review-comments", owner, repo, number), opts.Page, len(comments))

		all = append(all, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (c *GitHubClient) ListReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, error) {
	var all []*github.PullRequestReview
	opts := &github.ListOptions{PerPage: 100}

	for {
		reviews, resp, err := c.client.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reviews for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}
		logRateLimit(resp, fmt.Sprintf("%s/%s#%d/reviews", owner, repo, number), opts.Page, len(reviews))

		all = append(all, reviews...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (c *GitHubClient) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error) {
	var all []*github.IssueComment
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch issue comments for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}
		logRateLimit(resp, fmt.Sprintf("%s/%s#%d/issue-comments", owner, repo, number), opts.Page, len(comments))

		all = append(all, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// logRateLimit records each page fetch and warns when the primary rate limit runs low.
func logRateLimit(resp *github.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
