package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/go-github/v39/github"
	"golang.org/x/sync/errgroup"
)

// Collector walks every pull request in a repository and normalizes its
// review comments, reviews and issue comments into CommentRecords.
type Collector struct {
	client   CommentSource
	workers  int
	progress io.Writer
	mu       sync.Mutex // guards progress
}

type CollectorOption func(*Collector)

// WithWorkers fetches up to n pull requests concurrently. Results are still
// delivered in enumeration order.
func WithWorkers(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithProgress sets where "PR #n: title" lines are written. Defaults to io.Discard.
func WithProgress(w io.Writer) CollectorOption {
	return func(c *Collector) {
		c.progress = w
	}
}

func NewCollector(client CommentSource, opts ...CollectorOption) *Collector {
	c := &Collector{
		client:   client,
		workers:  1,
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Walk enumerates all pull requests (every state) and calls fn with each one's
// records, in enumeration order. The first error from the API or from fn stops
// the walk and is returned unretried.
func (c *Collector) Walk(ctx context.Context, owner, repo string, fn func(PullRequestComments) error) error {
	prs, err := c.client.ListPullRequests(ctx, owner, repo)
	if err != nil {
		return err
	}
	slog.Info("pull requests found", "repository", owner+"/"+repo, "count", len(prs))

	if c.workers <= 1 {
		for _, pr := range prs {
			batch, err := c.collectPullRequest(ctx, owner, repo, pr)
			if err != nil {
				return err
			}
			if err := fn(batch); err != nil {
				return err
			}
		}
		return nil
	}

	batches := make([]PullRequestComments, len(prs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, pr := range prs {
		g.Go(func() error {
			batch, err := c.collectPullRequest(gctx, owner, repo, pr)
			if err != nil {
				return err
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, batch := range batches {
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

// Collect materializes a Walk.
func (c *Collector) Collect(ctx context.Context, owner, repo string) (Collection, error) {
	var coll Collection
	err := c.Walk(ctx, owner, repo, func(batch PullRequestComments) error {
		coll.PullRequests = append(coll.PullRequests, batch)
		return nil
	})
	if err != nil {
		return Collection{}, err
	}
	return coll, nil
}

// collectPullRequest fetches review comments, then reviews, then issue comments.
func (c *Collector) collectPullRequest(ctx context.Context, owner, repo string, pr *github.PullRequest) (PullRequestComments, error) {
	number := pr.GetNumber()
	c.printProgress(pr)

	batch := PullRequestComments{
		Number:  number,
		Title:   pr.GetTitle(),
		Records: []CommentRecord{},
	}

	reviewComments, err := c.client.ListReviewComments(ctx, owner, repo, number)
	if err != nil {
		return batch, fmt.Errorf("collecting PR #%d: %w", number, err)
	}
	for _, rc := range reviewComments {
		batch.Records = append(batch.Records, NormalizeReviewComment(pr, rc))
	}

	reviews, err := c.client.ListReviews(ctx, owner, repo, number)
	if err != nil {
		return batch, fmt.Errorf("collecting PR #%d: %w", number, err)
	}
	for _, rv := range reviews {
		if rec, ok := NormalizeReview(pr, rv); ok {
			batch.Records = append(batch.Records, rec)
		}
	}

	issueComments, err := c.client.ListIssueComments(ctx, owner, repo, number)
	if err != nil {
		return batch, fmt.Errorf("collecting PR #%d: %w", number, err)
	}
	for _, ic := range issueComments {
		batch.Records = append(batch.Records, NormalizeIssueComment(pr, ic))
	}

	return batch, nil
}

func (c *Collector) printProgress(pr *github.PullRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.progress, "PR #%d: %s\n", pr.GetNumber(), pr.GetTitle())
}
