// Package conversation 对话日志：按列表保存最近的问答，写入不阻塞对话响应
package conversation

import (
	"context"
	"errors"
)

// ErrNotConfigured 未配置对话日志存储
var ErrNotConfigured = errors.New("conversation log not configured")

// Store 列表型存储
// Push 插入到列表头部，Range 从头部开始读取，因此结果按从新到旧排列
type Store interface {
	Push(ctx context.Context, key, value string) error
	Trim(ctx context.Context, key string, keep int64) error
	Range(ctx context.Context, key string, limit int64) ([]string, error)
}
