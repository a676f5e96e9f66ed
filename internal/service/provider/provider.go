// Package provider 封装对外部大模型的调用
// 一次性生成与流式生成是同一能力的两种实现，由配置选择
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Anannyachuli/Product-Portfolio/internal/config"
	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/cloudwego/eino/callbacks"
)

// ErrNotConfigured 未配置模型凭据
var ErrNotConfigured = errors.New("provider not configured")

// Message 发送给模型的历史消息，Role 只会是 user 或 model
type Message struct {
	Role model.Role
	Text string
}

// Request 一次模型调用
type Request struct {
	SystemInstruction string
	History           []Message
	Prompt            string
}

// Fragment 流式输出的一个片段，Err 非空时流结束
type Fragment struct {
	Text string
	Err  error
}

// Generator 一次性生成完整回答
type Generator interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

// StreamGenerator 增量生成回答
// 返回的通道按模型产出顺序发送片段，结束时关闭
type StreamGenerator interface {
	GenerateStream(ctx context.Context, req *Request) (<-chan Fragment, error)
}

// Provider 同时具备两种能力的模型适配器
type Provider interface {
	Generator
	StreamGenerator
	Name() string
}

// Options 构建 Provider 的可选参数
type Options struct {
	HTTPClient *http.Client
	Handlers   []callbacks.Handler
}

// New 根据配置创建 Provider，未配置凭据时返回 ErrNotConfigured
func New(ctx context.Context, cfg config.AIConfig, opts Options) (Provider, error) {
	pc := cfg.Active()
	if strings.TrimSpace(pc.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	switch cfg.Provider {
	case "gemini", "":
		return NewGemini(ctx, pc, cfg.Temperature, opts.HTTPClient)
	case "openai", "deepseek":
		return NewEino(ctx, cfg.Provider, pc, cfg.Temperature, opts)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// Buffered 将流式能力适配为一次性生成
func Buffered(s StreamGenerator) Generator {
	return bufferedGenerator{stream: s}
}

type bufferedGenerator struct {
	stream StreamGenerator
}

func (b bufferedGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	ch, err := b.stream.GenerateStream(ctx, req)
	if err != nil {
		return "", err
	}
	return Collect(ctx, ch)
}

// Collect 拼接所有片段，遇到错误时返回已收到的部分和错误
func Collect(ctx context.Context, ch <-chan Fragment) (string, error) {
	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return sb.String(), ctx.Err()
		case f, ok := <-ch:
			if !ok {
				return sb.String(), nil
			}
			if f.Err != nil {
				return sb.String(), f.Err
			}
			sb.WriteString(f.Text)
		}
	}
}

// send 发送片段，ctx 结束时放弃
func send(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
