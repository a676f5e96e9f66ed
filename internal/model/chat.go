package model

import (
	"encoding/json"
	"strings"
)

// Role 对话角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleModel 发送给网关的历史中助手消息使用的角色名
	RoleModel Role = "model"
)

// ChatTurn 客户端会话中的一轮消息，创建后不再修改
type ChatTurn struct {
	Role     Role        `json:"role"`
	Text     string      `json:"text"`
	Sections []SectionID `json:"sections,omitempty"`
}

// HistoryEntry 网关请求中的历史消息
// 兼容两种线上格式：{role, text} 与 {role, parts: [{text}]}，解码后统一为 Text
type HistoryEntry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// historyWire 历史消息的原始格式
type historyWire struct {
	Role  string  `json:"role"`
	Text  *string `json:"text"`
	Parts []struct {
		Text string `json:"text"`
	} `json:"parts"`
}

// UnmarshalJSON 解码并规范化历史消息
func (h *HistoryEntry) UnmarshalJSON(data []byte) error {
	var w historyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	h.Role = NormalizeRole(w.Role)
	switch {
	case w.Text != nil:
		h.Text = *w.Text
	case len(w.Parts) > 0:
		h.Text = w.Parts[0].Text
	default:
		h.Text = ""
	}
	return nil
}

// NormalizeRole 将角色映射到 user/model，未知角色返回空
func NormalizeRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "user":
		return RoleUser
	case "model", "assistant":
		return RoleModel
	default:
		return ""
	}
}

// ChatRequest 网关请求体
// Message 保持任意类型，由校验器判断是否为文本
type ChatRequest struct {
	Message any            `json:"message"`
	History []HistoryEntry `json:"history"`
}

// ChatResponse 网关响应体
type ChatResponse struct {
	Reply    string      `json:"reply"`
	Sections []SectionID `json:"sections"`
}

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string `json:"error"`
}

// StreamChunk SSE 事件负载
type StreamChunk struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}
