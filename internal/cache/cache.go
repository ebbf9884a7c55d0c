// Package cache stores GitHub API responses between runs so repeated exports of
// a repository's history do not re-fetch discussions on closed pull requests.
package cache

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache miss")
)

// Cache is a TTL key/value store for JSON-serializable values.
type Cache interface {
	// Get decodes the value stored under key into value.
	// It returns ErrCacheMiss when the key is absent or expired.
	Get(key string, value any) error

	// Set stores value under key. A zero ttl never expires.
	Set(key string, value any, ttl time.Duration) error

	Delete(key string) error

	Close() error
}

// Entry is the on-disk envelope around a cached value.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (e *Entry) IsExpired(now time.Time) bool {
	if e.ExpiresAt == nil {
		return false
	}
	return now.After(*e.ExpiresAt)
}

// KeyBuilder builds cache keys for one repository's discussion endpoints.
type KeyBuilder struct {
	prefix string
}

func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{prefix: prefix}
}

func (b *KeyBuilder) PullRequestKey(owner, repo string, number int) string {
	return b.build("pr", owner, repo, strconv.Itoa(number))
}

func (b *KeyBuilder) PullRequestListKey(owner, repo string) string {
	return b.build("prs_all", owner, repo)
}

func (b *KeyBuilder) ReviewCommentsKey(owner, repo string, number int) string {
	return b.build("pr_review_comments", owner, repo, strconv.Itoa(number))
}

func (b *KeyBuilder) ReviewsKey(owner, repo string, number int) string {
	return b.build("pr_reviews", owner, repo, strconv.Itoa(number))
}

func (b *KeyBuilder) IssueCommentsKey(owner, repo string, number int) string {
	return b.build("pr_issue_comments", owner, repo, strconv.Itoa(number))
}

func (b *KeyBuilder) build(parts ...string) string {
	return b.prefix + ":" + strings.Join(parts, ":")
}

// NewDefaultCache opens the file cache under the user cache directory.
func NewDefaultCache() (Cache, error) {
	return NewFileCache("pr-comments")
}
