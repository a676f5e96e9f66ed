package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/provider"
	"go.uber.org/zap"
)

// Stream 一次流式对话
// Fragments 按模型产出顺序发送非空文本，失败时最后一个片段的 Err 为 ErrUpstream
type Stream struct {
	Question  string
	Fragments <-chan provider.Fragment
	cancel    context.CancelFunc
}

// Close 放弃剩余片段
func (st *Stream) Close() {
	st.cancel()
}

// Stream 开始一次流式对话
// 校验、配置和配额错误在流开始之前返回；流结束后解析完整回答并记录日志
func (s *Service) Stream(ctx context.Context, caller string, req *model.ChatRequest) (*Stream, error) {
	question, err := s.admit(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	src, err := s.streamer.GenerateStream(callCtx, s.buildRequest(question, req.History))
	if err != nil {
		cancel()
		s.logger.Error("provider stream failed to start", zap.Error(err))
		return nil, ErrUpstream
	}

	out := make(chan provider.Fragment)
	go s.forward(ctx, callCtx, cancel, question, src, out)

	return &Stream{Question: question, Fragments: out, cancel: cancel}, nil
}

// forward 转发片段并拼接全文
// ctx 为调用方上下文，callCtx 额外带有模型超时
func (s *Service) forward(ctx, callCtx context.Context, cancel context.CancelFunc, question string, src <-chan provider.Fragment, out chan<- provider.Fragment) {
	defer close(out)
	defer cancel()

	var sb strings.Builder
	var failed error

	for f := range src {
		if f.Err != nil {
			failed = f.Err
			break
		}
		if f.Text == "" {
			continue
		}
		sb.WriteString(f.Text)

		select {
		case out <- f:
		case <-ctx.Done():
			return
		case <-callCtx.Done():
		}
	}

	// 模型超时时 src 会被关闭而不携带错误；Close 后不再记录
	if failed == nil {
		switch err := callCtx.Err(); {
		case errors.Is(err, context.DeadlineExceeded):
			failed = err
		case err != nil:
			return
		}
	}

	if failed != nil {
		s.logger.Error("provider stream failed", zap.Error(failed))
		select {
		case out <- provider.Fragment{Err: ErrUpstream}:
		case <-ctx.Done():
		}
		return
	}

	if sb.Len() == 0 {
		return
	}
	reply, _ := ParseDirective(sb.String())
	if reply == "" {
		reply = s.cfg.FallbackReply
	}
	s.record(question, reply)
}
