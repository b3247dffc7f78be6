package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const commentCountKeyPrefix = "feed:comment_count:"

// CommentCountCache is a read-only accelerator for per-post comment
// counts on feed pages. Entries expire after a bounded TTL and the cache
// is invalidated on every comment write, so it can serve stale aggregates
// only within that window; it is never consulted for mutation decisions.
// All methods are nil-safe: without Redis every lookup is a miss.
type CommentCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCommentCountCache creates a comment-count cache. A nil client
// disables caching.
func NewCommentCountCache(client *redis.Client, ttl time.Duration) *CommentCountCache {
	return &CommentCountCache{client: client, ttl: ttl}
}

// Get returns the cached count for a post, if present
func (c *CommentCountCache) Get(ctx context.Context, postID uuid.UUID) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, commentCountKeyPrefix+postID.String()).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Set stores the count for a post with the bounded TTL
func (c *CommentCountCache) Set(ctx context.Context, postID uuid.UUID, count int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, commentCountKeyPrefix+postID.String(), strconv.FormatInt(count, 10), c.ttl)
}

// Invalidate drops the cached count after a comment write
func (c *CommentCountCache) Invalidate(ctx context.Context, postID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, commentCountKeyPrefix+postID.String())
}
