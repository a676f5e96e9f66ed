// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import (
	"context"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
)

// ConversationStore 对话日志数据访问接口
// 记录按列表键分组，ID 越大越新
type ConversationStore interface {
	Create(ctx context.Context, record *model.ConversationRecord) error
	// KeepNewest 删除列表中除最新 keep 条以外的记录
	KeepNewest(ctx context.Context, listKey string, keep int) error
	// ListNewest 按从新到旧返回最多 limit 条
	ListNewest(ctx context.Context, listKey string, limit int) ([]*model.ConversationRecord, error)
}

var _ ConversationStore = (*ConversationRepository)(nil)
