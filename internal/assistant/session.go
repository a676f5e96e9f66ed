// Package assistant 对话网关的客户端：会话状态、本地配额和渲染
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/chat"
)

// MaxMessages 每个会话可以发送的消息数
const MaxMessages = 15

// ContactEmail 达到上限后提供的联系方式
const ContactEmail = "anannya.chuli@duke.edu"

const (
	// DegradedMessage 网关失败时追加的助手消息
	DegradedMessage = "Sorry, I couldn't get a response right now. Please try again in a moment."
	// RateLimitedMessage 达到上限后显示的消息
	RateLimitedMessage = "You've reached the message limit for this session. For anything else, reach out to Anannya directly at " + ContactEmail + "."
)

// Starters 欢迎界面的示例问题
var Starters = []string{
	"What's Anannya's experience with AI?",
	"Tell me about her leadership experience",
	"What products has she shipped?",
	"What's her technical background?",
}

// ErrQuotaExceeded 本会话消息数已用完，未发起网络请求
var ErrQuotaExceeded = errors.New("session message limit reached")

// Session 一次浏览会话的对话状态
// turns 只追加；count 达到上限后不再发送，直到 Reset
type Session struct {
	gateway Gateway

	sendMu sync.Mutex // 串行化 Send

	mu      sync.Mutex
	turns   []model.ChatTurn
	count   int
	greeted bool
}

// NewSession 创建会话
func NewSession(g Gateway) *Session {
	return &Session{gateway: g}
}

// Send 发送一条消息并追加助手回复
// 网关失败时追加一条降级消息并返回错误
func (s *Session) Send(ctx context.Context, text string) (model.ChatTurn, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	text, err := chat.ValidateMessage(text, chat.DefaultMaxMessageLength)
	if err != nil {
		return model.ChatTurn{}, err
	}

	s.mu.Lock()
	if s.count >= MaxMessages {
		s.mu.Unlock()
		return model.ChatTurn{}, ErrQuotaExceeded
	}
	s.count++
	history := projectHistory(s.turns)
	s.turns = append(s.turns, model.ChatTurn{Role: model.RoleUser, Text: text})
	s.mu.Unlock()

	resp, err := s.gateway.Ask(ctx, text, history)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		turn := model.ChatTurn{Role: model.RoleAssistant, Text: DegradedMessage}
		if errors.Is(err, ErrRateLimited) {
			turn.Text = RateLimitedMessage
			s.count = MaxMessages
		}
		s.turns = append(s.turns, turn)
		return turn, err
	}

	turn := model.ChatTurn{Role: model.RoleAssistant, Text: resp.Reply, Sections: resp.Sections}
	s.turns = append(s.turns, turn)
	return turn, nil
}

// projectHistory 历史只保留角色和文本，assistant 映射为 model
func projectHistory(turns []model.ChatTurn) []model.HistoryEntry {
	history := make([]model.HistoryEntry, 0, len(turns))
	for _, t := range turns {
		role := model.RoleUser
		if t.Role != model.RoleUser {
			role = model.RoleModel
		}
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		history = append(history, model.HistoryEntry{Role: role, Text: t.Text})
	}
	return history
}

// Turns 当前的消息副本
func (s *Session) Turns() []model.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatTurn(nil), s.turns...)
}

// Count 已发送的消息数
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Remaining 剩余可发送的消息数
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MaxMessages - s.count
}

// Exhausted 是否已达上限
func (s *Session) Exhausted() bool {
	return s.Remaining() <= 0
}

// Greet 第一次调用时返回示例问题，之后返回 false
func (s *Session) Greet() ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.greeted {
		return nil, false
	}
	s.greeted = true
	return Starters, true
}

// Reset 开始新会话
func (s *Session) Reset() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	s.turns = nil
	s.count = 0
	s.greeted = false
	s.mu.Unlock()

	if r, ok := s.gateway.(interface{ ResetSession() }); ok {
		r.ResetSession()
	}
}
