package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/chat"
	"github.com/kaptinlin/jsonrepair"
)

// SessionHeader 网关会话令牌头
const SessionHeader = "X-Chat-Session"

var (
	// ErrRateLimited 网关返回 429
	ErrRateLimited = errors.New("gateway rate limited this session")
	// ErrStreamIncomplete 连接在 [DONE] 之前结束
	ErrStreamIncomplete = errors.New("gateway stream closed before [DONE]")
)

// StatusError 网关返回非 2xx
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned %d", e.Code)
	}
	return fmt.Sprintf("gateway returned %d: %s", e.Code, e.Message)
}

// Gateway 对话网关
type Gateway interface {
	Ask(ctx context.Context, message string, history []model.HistoryEntry) (*model.ChatResponse, error)
}

// HTTPClient 通过 HTTP 调用对话网关
// 流式模式下读取 SSE 片段，拼接后再解析区域指令
type HTTPClient struct {
	baseURL string
	http    *http.Client
	stream  bool

	mu    sync.Mutex
	token string
}

// ClientOption 客户端选项
type ClientOption func(*HTTPClient)

// WithHTTPClient 自定义 HTTP 客户端
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) { c.http = hc }
}

// WithStreaming 使用 /chat/stream
func WithStreaming(stream bool) ClientOption {
	return func(c *HTTPClient) { c.stream = stream }
}

// NewHTTPClient 创建网关客户端，baseURL 形如 http://localhost:8080
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResetSession 丢弃会话令牌
func (c *HTTPClient) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// Ask 发送一轮对话
func (c *HTTPClient) Ask(ctx context.Context, message string, history []model.HistoryEntry) (*model.ChatResponse, error) {
	body, err := json.Marshal(model.ChatRequest{Message: message, History: history})
	if err != nil {
		return nil, err
	}

	path := "/chat"
	if c.stream {
		path = "/chat/stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.sessionToken(); token != "" {
		req.Header.Set(SessionHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if token := resp.Header.Get(SessionHeader); token != "" {
		c.setSessionToken(token)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	if c.stream {
		return readStream(resp.Body)
	}

	var out model.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if out.Sections == nil {
		out.Sections = []model.SectionID{}
	}
	return &out, nil
}

func (c *HTTPClient) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *HTTPClient) setSessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func statusError(resp *http.Response) error {
	var body model.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &body)
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}

// readStream 读取 SSE 直到 [DONE]，无法解析的片段先尝试修复，仍失败则跳过
// 未收到 [DONE] 的流视为不完整
func readStream(r io.Reader) (*model.ChatResponse, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	done := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		if payload == "[DONE]" {
			done = true
			break
		}

		chunk, ok := decodeChunk(payload)
		if !ok {
			continue
		}
		if chunk.Error != "" {
			return nil, &StatusError{Code: http.StatusBadGateway, Message: chunk.Error}
		}
		sb.WriteString(chunk.Text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read gateway stream: %w", err)
	}
	if !done {
		return nil, ErrStreamIncomplete
	}
	if sb.Len() == 0 {
		return nil, errors.New("gateway stream ended without text")
	}

	reply, sections := chat.ParseDirective(sb.String())
	return &model.ChatResponse{Reply: reply, Sections: sections}, nil
}

func decodeChunk(payload string) (model.StreamChunk, bool) {
	var chunk model.StreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err == nil {
		return chunk, true
	}

	repaired, err := jsonrepair.JSONRepair(payload)
	if err != nil {
		return chunk, false
	}
	if err := json.Unmarshal([]byte(repaired), &chunk); err != nil {
		return chunk, false
	}
	return chunk, true
}
