package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Number int      `json:"number"`
	Users  []string `json:"users"`
}

func TestFileCache_SetGet(t *testing.T) {
	c, err := NewFileCacheWithDir(t.TempDir())
	require.NoError(t, err)

	in := payload{Number: 7, Users: []string{"alice", "たろう"}}
	require.NoError(t, c.Set("k", in, time.Hour))

	var out payload
	require.NoError(t, c.Get("k", &out))
	assert.Equal(t, in, out)
}

func TestFileCache_Miss(t *testing.T) {
	c, err := NewFileCacheWithDir(t.TempDir())
	require.NoError(t, err)

	var out payload
	assert.ErrorIs(t, c.Get("absent", &out), ErrCacheMiss)
}

func TestFileCache_Expired(t *testing.T) {
	c, err := NewFileCacheWithDir(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set("k", payload{Number: 1}, time.Minute))

	now = now.Add(2 * time.Minute)
	var out payload
	assert.ErrorIs(t, c.Get("k", &out), ErrCacheMiss)

	// The expired entry is removed, so a later clock rewind still misses.
	now = now.Add(-time.Hour)
	assert.ErrorIs(t, c.Get("k", &out), ErrCacheMiss)
}

func TestFileCache_NoTTLNeverExpires(t *testing.T) {
	c, err := NewFileCacheWithDir(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set("k", payload{Number: 3}, 0))

	now = now.AddDate(5, 0, 0)
	var out payload
	require.NoError(t, c.Get("k", &out))
	assert.Equal(t, 3, out.Number)
}

func TestFileCache_Delete(t *testing.T) {
	c, err := NewFileCacheWithDir(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set("k", payload{Number: 1}, 0))
	require.NoError(t, c.Delete("k"))
	require.NoError(t, c.Delete("k"))

	var out payload
	assert.ErrorIs(t, c.Get("k", &out), ErrCacheMiss)
}

func TestKeyBuilder(t *testing.T) {
	kb := NewKeyBuilder("github")

	assert.Equal(t, "github:pr:octo:hello:12", kb.PullRequestKey("octo", "hello", 12))
	assert.Equal(t, "github:prs_all:octo:hello", kb.PullRequestListKey("octo", "hello"))
	assert.Equal(t, "github:pr_review_comments:octo:hello:3", kb.ReviewCommentsKey("octo", "hello", 3))
	assert.Equal(t, "github:pr_reviews:octo:hello:3", kb.ReviewsKey("octo", "hello", 3))
	assert.Equal(t, "github:pr_issue_comments:octo:hello:3", kb.IssueCommentsKey("octo", "hello", 3))
}
