package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/Anannyachuli/Product-Portfolio/internal/repository"
)

// GormStore 基于关系型数据库的存储，每个列表键对应一组记录
type GormStore struct {
	repo repository.ConversationStore
}

// NewGormStore 创建关系型存储
func NewGormStore(repo repository.ConversationStore) *GormStore {
	return &GormStore{repo: repo}
}

// Push 解码日志条目并写入一行
func (s *GormStore) Push(ctx context.Context, key, value string) error {
	var entry model.ConversationLogEntry
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		return fmt.Errorf("decode log entry: %w", err)
	}

	record := &model.ConversationRecord{
		ListKey:   key,
		Question:  entry.Question,
		Answer:    entry.Answer,
		Timestamp: entry.Timestamp,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to create conversation record: %w", err)
	}
	return nil
}

// Trim 只保留最新的 keep 条
func (s *GormStore) Trim(ctx context.Context, key string, keep int64) error {
	if err := s.repo.KeepNewest(ctx, key, int(keep)); err != nil {
		return fmt.Errorf("failed to trim conversation records: %w", err)
	}
	return nil
}

// Range 按从新到旧返回编码后的日志条目
func (s *GormStore) Range(ctx context.Context, key string, limit int64) ([]string, error) {
	records, err := s.repo.ListNewest(ctx, key, int(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation records: %w", err)
	}

	vals := make([]string, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r.Entry())
		if err != nil {
			return nil, err
		}
		vals = append(vals, string(b))
	}
	return vals, nil
}
