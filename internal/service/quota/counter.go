// Package quota 服务端会话消息配额
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix Redis 计数键前缀
const KeyPrefix = "portfolio:quota:"

// Counter 固定窗口计数器
// Incr 返回本窗口内的计数，窗口从第一次计数开始
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// counterClient RedisCounter 用到的命令，*redis.Client 满足该接口
type counterClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RedisCounter INCR + EXPIRE
type RedisCounter struct {
	client counterClient
}

// NewRedisCounter 创建 Redis 计数器
func NewRedisCounter(client counterClient) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr 计数，第一次计数时设置过期时间
// 之前的 EXPIRE 失败时键没有过期时间（TTL 为 -1），此时补设
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = KeyPrefix + key

	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}

	needExpire := n == 1
	if !needExpire {
		ttl, err := c.client.TTL(ctx, key).Result()
		if err != nil {
			return n, fmt.Errorf("ttl %s: %w", key, err)
		}
		needExpire = ttl == noExpiry
	}
	if needExpire {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return n, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return n, nil
}

// noExpiry TTL 对没有过期时间的键返回 -1
const noExpiry = time.Duration(-1)

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryCounter 进程内计数器，用于未配置 Redis 的单实例部署
type MemoryCounter struct {
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryCounter 创建内存计数器
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Incr 计数
func (c *MemoryCounter) Incr(ctx context.Context, key string, d time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now, d)

	w, ok := c.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(d)}
		c.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// sweep 每个窗口周期最多清理一次过期键
func (c *MemoryCounter) sweep(now time.Time, d time.Duration) {
	if now.Sub(c.lastSweep) < d {
		return
	}
	c.lastSweep = now
	for key, w := range c.windows {
		if !now.Before(w.resetAt) {
			delete(c.windows, key)
		}
	}
}

// Len 当前跟踪的键数量
func (c *MemoryCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.windows)
}
