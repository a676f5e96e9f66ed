package model

import "time"

// TimestampLayout 对话日志时间格式（ISO8601，毫秒精度，UTC）
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ConversationLogEntry 对话日志条目
type ConversationLogEntry struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// NewConversationLogEntry 创建对话日志条目
func NewConversationLogEntry(question, answer string, at time.Time) ConversationLogEntry {
	return ConversationLogEntry{
		Question:  question,
		Answer:    answer,
		Timestamp: at.UTC().Format(TimestampLayout),
	}
}

// ConversationRecord 对话日志的关系型存储记录
type ConversationRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;index:idx_conversation_key_id,priority:2"`
	ListKey   string    `gorm:"size:128;index:idx_conversation_key_id,priority:1"`
	Question  string    `gorm:"type:text"`
	Answer    string    `gorm:"type:text"`
	Timestamp string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (ConversationRecord) TableName() string {
	return "conversation_logs"
}

// Entry 转换为日志条目
func (r *ConversationRecord) Entry() ConversationLogEntry {
	return ConversationLogEntry{
		Question:  r.Question,
		Answer:    r.Answer,
		Timestamp: r.Timestamp,
	}
}
