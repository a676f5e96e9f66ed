package repository

import (
	"context"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"gorm.io/gorm"
)

// ConversationRepository 对话日志数据访问
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建对话日志仓库
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create 写入一条记录
func (r *ConversationRepository) Create(ctx context.Context, record *model.ConversationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// KeepNewest 只保留最新的 keep 条
func (r *ConversationRepository) KeepNewest(ctx context.Context, listKey string, keep int) error {
	return keepNewest(r.db.WithContext(ctx), listKey, keep).Error
}

// keepNewest 删除 listKey 下除最新 keep 条以外的记录
func keepNewest(db *gorm.DB, listKey string, keep int) *gorm.DB {
	if keep <= 0 {
		return db.Where("list_key = ?", listKey).Delete(&model.ConversationRecord{})
	}

	newest := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.ConversationRecord{}).
		Select("id").
		Where("list_key = ?", listKey).
		Order("id DESC").
		Limit(keep)

	return db.Where("list_key = ? AND id NOT IN (?)", listKey, newest).
		Delete(&model.ConversationRecord{})
}

// ListNewest 列出最新记录
func (r *ConversationRepository) ListNewest(ctx context.Context, listKey string, limit int) ([]*model.ConversationRecord, error) {
	var records []*model.ConversationRecord
	err := r.db.WithContext(ctx).
		Where("list_key = ?", listKey).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
