package conversation

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// listClient RedisStore 用到的列表命令，*redis.Client 满足该接口
type listClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisStore 基于 Redis 列表的存储
type RedisStore struct {
	client listClient
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client listClient) *RedisStore {
	return &RedisStore{client: client}
}

// Push LPUSH
func (s *RedisStore) Push(ctx context.Context, key, value string) error {
	if err := s.client.LPush(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}
	return nil
}

// Trim LTRIM key 0 keep-1
func (s *RedisStore) Trim(ctx context.Context, key string, keep int64) error {
	if err := s.client.LTrim(ctx, key, 0, keep-1).Err(); err != nil {
		return fmt.Errorf("ltrim %s: %w", key, err)
	}
	return nil
}

// Range LRANGE key 0 limit-1
func (s *RedisStore) Range(ctx context.Context, key string, limit int64) ([]string, error) {
	vals, err := s.client.LRange(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	return vals, nil
}
