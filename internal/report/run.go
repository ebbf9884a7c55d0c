package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reillywatson/prcomments/internal/github"
)

// Collector is the part of github.Collector that Run needs.
type Collector interface {
	Collect(ctx context.Context, owner, repo string) (github.Collection, error)
}

// Run collects owner/repo and exports it with mode. A failed collection or a
// failed export is logged and replaced by an export of the empty collection,
// so the artifact exists for downstream consumers. Run returns an error only
// when that empty export also fails.
func Run(ctx context.Context, collector Collector, owner, repo string, mode Mode) error {
	logger := slog.With("mode", mode.Name(), "repository", owner+"/"+repo, "output", mode.Path())

	coll, err := collector.Collect(ctx, owner, repo)
	if err == nil {
		err = mode.Export(coll)
		if err == nil {
			logger.Info("export complete", "pull_requests", len(coll.PullRequests))
			return nil
		}
	}

	logger.Error("export failed, writing empty result", "error", err)
	if fallbackErr := mode.Export(github.Collection{}); fallbackErr != nil {
		logger.Error("empty result write failed", "error", fallbackErr)
		return fmt.Errorf("failed to write empty result to %s: %w", mode.Path(), fallbackErr)
	}
	logger.Info("empty result written")
	return nil
}
