package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
)

// DefaultMaxEntries 列表保留的最大条数
const DefaultMaxEntries = 500

// Log 对话日志
type Log struct {
	handle     *Handle
	key        string
	maxEntries int64
}

// NewLog 创建对话日志
func NewLog(handle *Handle, key string, maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{handle: handle, key: key, maxEntries: int64(maxEntries)}
}

// Key 列表键
func (l *Log) Key() string {
	return l.key
}

// Append 插入到列表头部并裁剪到最大条数
func (l *Log) Append(ctx context.Context, entry model.ConversationLogEntry) error {
	store, err := l.handle.Get(ctx)
	if err != nil {
		return err
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode log entry: %w", err)
	}
	if err := store.Push(ctx, l.key, string(b)); err != nil {
		return err
	}
	return store.Trim(ctx, l.key, l.maxEntries)
}

// Recent 从新到旧读取最多 limit 条
// 无法解码的条目以 {"raw": "<原始字符串>"} 返回
func (l *Log) Recent(ctx context.Context, limit int) ([]json.RawMessage, error) {
	store, err := l.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	vals, err := store.Range(ctx, l.key, int64(limit))
	if err != nil {
		return nil, err
	}

	out := make([]json.RawMessage, 0, len(vals))
	for _, v := range vals {
		if json.Valid([]byte(v)) {
			out = append(out, json.RawMessage(v))
			continue
		}
		raw, err := json.Marshal(map[string]string{"raw": v})
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}
