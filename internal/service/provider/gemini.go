package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Anannyachuli/Product-Portfolio/internal/config"
	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"google.golang.org/genai"
)

// GeminiProvider 基于 Google GenAI SDK 的适配器
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature *float32
}

// NewGemini 创建 Gemini Provider
func NewGemini(ctx context.Context, pc config.ProviderConfig, temperature float32, httpClient *http.Client) (*GeminiProvider, error) {
	if pc.APIKey == "" {
		return nil, ErrNotConfigured
	}

	modelName := pc.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	cc := &genai.ClientConfig{
		APIKey:  pc.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if httpClient != nil {
		cc.HTTPClient = httpClient
	}
	if pc.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: pc.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	p := &GeminiProvider{client: client, model: modelName}
	if temperature > 0 {
		p.temperature = &temperature
	}
	return p, nil
}

// Name 供应商名称
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Generate 一次性生成
func (p *GeminiProvider) Generate(ctx context.Context, req *Request) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, buildContents(req), p.generateConfig(req))
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return responseText(resp), nil
}

// GenerateStream 流式生成
func (p *GeminiProvider) GenerateStream(ctx context.Context, req *Request) (<-chan Fragment, error) {
	seq := p.client.Models.GenerateContentStream(ctx, p.model, buildContents(req), p.generateConfig(req))

	out := make(chan Fragment, 8)
	go func() {
		defer close(out)

		for resp, err := range seq {
			if err != nil {
				send(ctx, out, Fragment{Err: fmt.Errorf("GenAI stream failed: %w", err)})
				return
			}
			text := responseText(resp)
			if text == "" {
				continue
			}
			if !send(ctx, out, Fragment{Text: text}) {
				return
			}
		}
	}()

	return out, nil
}

func (p *GeminiProvider) generateConfig(req *Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{Temperature: p.temperature}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	return cfg
}

// buildContents 历史 + 当前问题，角色使用 user/model
func buildContents(req *Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, h := range req.History {
		var role genai.Role = genai.RoleUser
		if h.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(h.Text, role))
	}
	return append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))
}

// responseText 取第一个候选的全部文本片段
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
