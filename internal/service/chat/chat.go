// Package chat 对话网关：校验输入、调用模型、提取区域指令、记录对话日志
package chat

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/provider"
	"go.uber.org/zap"
)

// DefaultTimeout 模型调用超时
const DefaultTimeout = 45 * time.Second

// DefaultMaxHistoryText 单条历史消息转发给模型的最大字符数
const DefaultMaxHistoryText = 4000

// Recorder 记录一次问答，必须立即返回，不得阻塞响应
type Recorder interface {
	Record(question, answer string)
}

// Limiter 会话配额检查
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Config 网关参数
type Config struct {
	MaxMessageLength int
	MaxHistory       int
	MaxHistoryText   int // 超出部分截断
	FallbackReply    string
	Timeout          time.Duration
	// Streaming 为 true 时一次性接口也通过流式调用模型
	Streaming bool
}

// Service 聊天服务
type Service struct {
	generator provider.Generator
	streamer  provider.StreamGenerator
	persona   string
	cfg       Config
	recorder  Recorder
	limiter   Limiter
	logger    *zap.Logger
}

// Option 可选依赖
type Option func(*Service)

// WithRecorder 设置对话日志记录器
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLimiter 设置会话配额
func WithLimiter(l Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService 创建聊天服务，p 为 nil 表示未配置模型
func NewService(p provider.Provider, persona string, cfg Config, opts ...Option) *Service {
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = DefaultMaxMessageLength
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxHistoryText <= 0 {
		cfg.MaxHistoryText = DefaultMaxHistoryText
	}

	s := &Service{
		persona: persona,
		cfg:     cfg,
		logger:  zap.NewNop(),
	}
	if p != nil {
		s.streamer = p
		s.generator = p
		if cfg.Streaming {
			s.generator = provider.Buffered(p)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured 是否配置了模型
func (s *Service) Configured() bool {
	return s.generator != nil
}

// Chat 处理一轮对话
// caller 为配额键，为空时不检查配额
func (s *Service) Chat(ctx context.Context, caller string, req *model.ChatRequest) (*model.ChatResponse, error) {
	question, err := s.admit(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	answer, err := s.generator.Generate(callCtx, s.buildRequest(question, req.History))
	if err != nil {
		s.logger.Error("provider call failed", zap.Error(err))
		return nil, ErrUpstream
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = s.cfg.FallbackReply
	}

	reply, sections := ParseDirective(answer)
	if reply == "" {
		reply = s.cfg.FallbackReply
	}

	s.record(question, reply)

	return &model.ChatResponse{Reply: reply, Sections: sections}, nil
}

// admit 在调用模型之前完成配置、输入与配额检查
func (s *Service) admit(ctx context.Context, caller string, req *model.ChatRequest) (string, error) {
	if !s.Configured() {
		return "", ErrServiceUnavailable
	}
	if req == nil {
		return "", &validationError{message: MessageInvalidRequest}
	}

	question, err := ValidateMessage(req.Message, s.cfg.MaxMessageLength)
	if err != nil {
		return "", err
	}

	if s.limiter != nil && caller != "" && !s.limiter.Allow(ctx, caller) {
		return "", ErrRateLimited
	}
	return question, nil
}

// buildRequest 组装模型请求，丢弃角色无效或为空的历史并保留最近的 MaxHistory 条
func (s *Service) buildRequest(question string, history []model.HistoryEntry) *provider.Request {
	msgs := make([]provider.Message, 0, len(history))
	for _, h := range history {
		if h.Role == "" || strings.TrimSpace(h.Text) == "" {
			continue
		}
		msgs = append(msgs, provider.Message{Role: h.Role, Text: truncateRunes(h.Text, s.cfg.MaxHistoryText)})
	}
	if s.cfg.MaxHistory > 0 && len(msgs) > s.cfg.MaxHistory {
		msgs = msgs[len(msgs)-s.cfg.MaxHistory:]
	}

	return &provider.Request{
		SystemInstruction: s.persona,
		History:           msgs,
		Prompt:            question,
	}
}

// truncateRunes 截断到最多 n 个字符
func truncateRunes(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}

func (s *Service) record(question, answer string) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(question, answer)
}
