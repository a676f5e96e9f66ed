package provider

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Anannyachuli/Product-Portfolio/internal/config"
	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoProvider 基于 eino ChatModel 的适配器（OpenAI 兼容接口）
type EinoProvider struct {
	name      string
	chatModel ecomodel.BaseChatModel
	handlers  []callbacks.Handler
}

// NewEino 创建 OpenAI 兼容的 Provider
func NewEino(ctx context.Context, name string, pc config.ProviderConfig, temperature float32, opts Options) (*EinoProvider, error) {
	modelName := pc.Model
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	cfg := &openai.ChatModelConfig{
		APIKey:  pc.APIKey,
		BaseURL: pc.BaseURL,
		Model:   modelName,
	}
	if temperature > 0 {
		cfg.Temperature = &temperature
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	cm, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return NewEinoWithModel(name, cm, opts.Handlers...), nil
}

// NewEinoWithModel 使用已有的 ChatModel 创建 Provider
func NewEinoWithModel(name string, cm ecomodel.BaseChatModel, handlers ...callbacks.Handler) *EinoProvider {
	return &EinoProvider{
		name:      name,
		chatModel: cm,
		handlers:  handlers,
	}
}

// Name 供应商名称
func (p *EinoProvider) Name() string {
	return p.name
}

// Generate 一次性生成
func (p *EinoProvider) Generate(ctx context.Context, req *Request) (string, error) {
	msg, err := p.chatModel.Generate(p.withCallbacks(ctx), buildMessages(req))
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}

// GenerateStream 流式生成
func (p *EinoProvider) GenerateStream(ctx context.Context, req *Request) (<-chan Fragment, error) {
	sr, err := p.chatModel.Stream(p.withCallbacks(ctx), buildMessages(req))
	if err != nil {
		return nil, err
	}
	if sr == nil {
		return nil, errors.New("chat model returned no stream")
	}

	out := make(chan Fragment, 8)
	go func() {
		defer close(out)
		defer sr.Close()

		for {
			chunk, err := sr.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				send(ctx, out, Fragment{Err: err})
				return
			}
			if chunk == nil || chunk.Content == "" {
				continue
			}
			if !send(ctx, out, Fragment{Text: chunk.Content}) {
				return
			}
		}
	}()

	return out, nil
}

// withCallbacks 为单独调用的组件初始化回调
func (p *EinoProvider) withCallbacks(ctx context.Context) context.Context {
	return callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      "portfolio-assistant",
		Type:      p.name,
		Component: components.ComponentOfChatModel,
	}, p.handlers...)
}

// buildMessages 系统指令 + 历史 + 当前问题
func buildMessages(req *Request) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		messages = append(messages, schema.SystemMessage(req.SystemInstruction))
	}
	for _, h := range req.History {
		if h.Role == model.RoleModel {
			messages = append(messages, schema.AssistantMessage(h.Text, nil))
		} else {
			messages = append(messages, schema.UserMessage(h.Text))
		}
	}
	messages = append(messages, schema.UserMessage(req.Prompt))
	return messages
}
