package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/researchmatch/researchmatch-server/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// --- discovery session seen-sets ---

// KeyForSeenSet generates the Redis key holding the profile ids already
// surfaced during one browsing session.
func (c *RedisCache) KeyForSeenSet(sessionID string) string {
	return "discover:seen:" + sessionID
}

// AddSeen records a surfaced candidate in the session's seen set and
// refreshes the session TTL.
func (c *RedisCache) AddSeen(ctx context.Context, sessionID string, profileID uint64, ttl time.Duration) error {
	key := c.KeyForSeenSet(sessionID)
	if err := c.Client.SAdd(ctx, key, strconv.FormatUint(profileID, 10)).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, ttl).Err()
}

// SeenIDs returns every profile id surfaced to this session so far.
// An unknown session yields an empty set, not an error.
func (c *RedisCache) SeenIDs(ctx context.Context, sessionID string) ([]uint64, error) {
	members, err := c.Client.SMembers(ctx, c.KeyForSeenSet(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue // skip junk members rather than failing discovery
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- unread-notification counters ---

// KeyForUnreadCount generates the Redis key for a user's unread
// notification count.
func (c *RedisCache) KeyForUnreadCount(userID uint64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// GetUnreadCount returns the cached count and whether it was a cache hit.
func (c *RedisCache) GetUnreadCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForUnreadCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat unparsable value as a miss
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	return n, true, nil
}

// SetUnreadCount stores the count with a 1h TTL.
func (c *RedisCache) SetUnreadCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForUnreadCount(userID), count, time.Hour).Err()
}

// InvalidateUnreadCount drops the cached count; the next read falls back
// to the DB.
func (c *RedisCache) InvalidateUnreadCount(ctx context.Context, userID uint64) error {
	return c.Del(ctx, c.KeyForUnreadCount(userID))
}
