package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/llamacto/llama-gin/internal/constants"
	"github.com/llamacto/llama-gin/internal/dto"
	"github.com/llamacto/llama-gin/pkg/cache"
	"github.com/llamacto/llama-gin/pkg/circuit"
	"github.com/llamacto/llama-gin/pkg/logger"
	"github.com/llamacto/llama-gin/pkg/redis"
)

// UserCache is a read-through cache of user representations. Redis is used when
// enabled and guarded by a circuit breaker; otherwise entries live in process.
// Cache failures are logged and treated as misses.
type UserCache struct {
	remote  redis.Client
	local   *cache.Cache
	breaker *circuit.Breaker
	prefix  string
	ttl     time.Duration

	// generation per id, bumped by Invalidate
	mu   sync.Mutex
	gens map[uint]uint64
}

func NewUserCache(remote redis.Client, local *cache.Cache, breaker *circuit.Breaker, prefix string, ttl time.Duration) *UserCache {
	return &UserCache{
		remote:  remote,
		local:   local,
		breaker: breaker,
		prefix:  prefix,
		ttl:     ttl,
		gens:    make(map[uint]uint64),
	}
}

func (c *UserCache) key(id uint) string {
	return fmt.Sprintf("%s:%s%d", c.prefix, constants.CacheKeyUser, id)
}

func (c *UserCache) useRemote() bool {
	return c.remote != nil && c.remote.IsEnabled()
}

func (c *UserCache) Get(ctx context.Context, id uint) (*dto.UserResponse, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	key := c.key(id)

	var data []byte
	if c.useRemote() {
		err := c.breaker.Execute(func() error {
			var err error
			data, err = c.remote.Get(ctx, key)
			if errors.Is(err, redis.ErrCacheMiss) {
				return nil
			}
			return err
		})
		if err != nil {
			logger.WarnWithContext(ctx, "User cache read failed").
				String("key", key).
				Err(err).
				Log()
			return nil, false
		}
	} else if c.local != nil {
		data, _ = c.local.Get(key)
	}

	if len(data) == 0 {
		return nil, false
	}

	var user dto.UserResponse
	if err := json.Unmarshal(data, &user); err != nil {
		logger.WarnWithContext(ctx, "Discarding corrupt user cache entry").
			String("key", key).
			Err(err).
			Log()
		c.Invalidate(ctx, id)
		return nil, false
	}

	return &user, true
}

// Generation returns a stamp for id that changes on every Invalidate.
// Pass it to SetIfCurrent to avoid caching a row read before an invalidation.
func (c *UserCache) Generation(id uint) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id]
}

func (c *UserCache) bump(id uint) {
	c.mu.Lock()
	c.gens[id]++
	c.mu.Unlock()
}

func (c *UserCache) Set(ctx context.Context, user *dto.UserResponse) {
	if c == nil || user == nil {
		return
	}
	c.SetIfCurrent(ctx, user, c.Generation(user.ID))
}

// SetIfCurrent stores user unless the id was invalidated after gen was taken.
func (c *UserCache) SetIfCurrent(ctx context.Context, user *dto.UserResponse, gen uint64) {
	if c == nil || c.ttl <= 0 || user == nil {
		return
	}
	if c.Generation(user.ID) != gen {
		logger.DebugWithContext(ctx, "Skipping stale user cache write").
			Uint("user_id", user.ID).
			Log()
		return
	}
	key := c.key(user.ID)

	data, err := json.Marshal(user)
	if err != nil {
		return
	}

	if c.useRemote() {
		if err := c.breaker.Execute(func() error {
			return c.remote.Set(ctx, key, data, c.ttl)
		}); err != nil {
			logger.WarnWithContext(ctx, "User cache write failed").
				String("key", key).
				Err(err).
				Log()
		}
		return
	}

	if c.local != nil {
		c.local.Set(key, data, c.ttl)
	}
}

func (c *UserCache) Invalidate(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	c.bump(id)
	key := c.key(id)

	if c.useRemote() {
		if err := c.breaker.Execute(func() error {
			return c.remote.Delete(ctx, key)
		}); err != nil {
			logger.WarnWithContext(ctx, "User cache invalidation failed").
				String("key", key).
				Err(err).
				Log()
		}
	}

	if c.local != nil {
		c.local.Delete(key)
	}
}
