package github

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/reillywatson/prcomments/internal/cache"
)

const (
	closedPRTTL = 24 * time.Hour
	openPRTTL   = 1 * time.Hour
	prListTTL   = 1 * time.Hour
)

var _ CommentSource = (*CachedGitHubClient)(nil)

// CachedGitHubClient wraps a CommentSource with a response cache. Discussion on
// closed pull requests rarely changes, so it is kept longer than open ones.
type CachedGitHubClient struct {
	client CommentSource
	cache  cache.Cache
	kb     *cache.KeyBuilder
}

func NewCachedGitHubClient(client CommentSource, cacheImpl cache.Cache) *CachedGitHubClient {
	return &CachedGitHubClient{
		client: client,
		cache:  cacheImpl,
		kb:     cache.NewKeyBuilder("github"),
	}
}

func (c *CachedGitHubClient) ListPullRequests(ctx context.Context, owner, repo string) ([]*github.PullRequest, error) {
	key := c.kb.PullRequestListKey(owner, repo)
	var cached []*github.PullRequest
	if c.lookup(key, &cached) {
		return cached, nil
	}

	prs, err := c.client.ListPullRequests(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	c.store(key, prs, prListTTL)

	// Remember each closed PR so its comment lists can be cached longer.
	for _, pr := range prs {
		if isPRCacheable(pr) {
			c.store(c.kb.PullRequestKey(owner, repo, pr.GetNumber()), pr, closedPRTTL)
		}
	}

	return prs, nil
}

func (c *CachedGitHubClient) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestComment, error) {
	key := c.kb.ReviewCommentsKey(owner, repo, number)
	var cached []*github.PullRequestComment
	if c.lookup(key, &cached) {
		return cached, nil
	}

	comments, err := c.client.ListReviewComments(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	c.store(key, comments, c.commentTTL(owner, repo, number))
	return comments, nil
}

func (c *CachedGitHubClient) ListReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, error) {
	key := c.kb.ReviewsKey(owner, repo, number)
	var cached []*github.PullRequestReview
	if c.lookup(key, &cached) {
		return cached, nil
	}

	reviews, err := c.client.ListReviews(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	c.store(key, reviews, c.commentTTL(owner, repo, number))
	return reviews, nil
}

func (c *CachedGitHubClient) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error) {
	key := c.kb.IssueCommentsKey(owner, repo, number)
	var cached []*github.IssueComment
	if c.lookup(key, &cached) {
		return cached, nil
	}

	comments, err := c.client.ListIssueComments(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	c.store(key, comments, c.commentTTL(owner, repo, number))
	return comments, nil
}

func (c *CachedGitHubClient) Close() error {
	return c.cache.Close()
}

// lookup reports whether key was a cache hit. Cache failures are logged and
// treated as misses.
func (c *CachedGitHubClient) lookup(key string, value any) bool {
	err := c.cache.Get(key, value)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("cache read failed", "key", key, "error", err)
	}
	return false
}

func (c *CachedGitHubClient) store(key string, value any, ttl time.Duration) {
	if err := c.cache.Set(key, value, ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// commentTTL picks the TTL for a PR's comment lists from the PR state recorded
// by ListPullRequests.
func (c *CachedGitHubClient) commentTTL(owner, repo string, number int) time.Duration {
	var pr *github.PullRequest
	if err := c.cache.Get(c.kb.PullRequestKey(owner, repo, number), &pr); err == nil && isPRCacheable(pr) {
		return closedPRTTL
	}
	return openPRTTL
}

// isPRCacheable reports whether a PR is closed (merged or not) and so unlikely
// to receive new discussion.
func isPRCacheable(pr *github.PullRequest) bool {
	if pr == nil {
		return false
	}
	return pr.GetState() == "closed"
}
