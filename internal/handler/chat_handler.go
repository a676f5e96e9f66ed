package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Anannyachuli/Product-Portfolio/internal/middleware"
	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/Anannyachuli/Product-Portfolio/internal/service"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/chat"
	"github.com/gin-gonic/gin"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// MaxRequestBytes 请求体上限，超出按无效请求处理
const MaxRequestBytes = 256 << 10

// quotaKey 会话中间件设置的配额键
func quotaKey(c *gin.Context) string {
	return c.GetString(middleware.QuotaKey)
}

// bindRequest 解析请求体，失败时已写入 400 响应
func bindRequest(c *gin.Context) (*model.ChatRequest, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBytes)

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusBadRequest, chat.MessageInvalidRequest)
		return nil, false
	}
	return &req, true
}

// Chat 一次性问答
func (h *ChatHandler) Chat(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	resp, err := h.svc.Chat.Chat(c.Request.Context(), quotaKey(c), req)
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Stream 流式问答，SSE 格式：data: {"text": "..."}，以 data: [DONE] 结束
func (h *ChatHandler) Stream(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	st, err := h.svc.Chat.Stream(c.Request.Context(), quotaKey(c), req)
	if err != nil {
		Error(c, err)
		return
	}
	defer st.Close()

	// 设置 SSE 响应头
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for f := range st.Fragments {
		if f.Err != nil {
			writeEvent(c, model.StreamChunk{Error: chat.MessageUpstream})
			break
		}
		writeEvent(c, model.StreamChunk{Text: f.Text})
	}

	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}

func writeEvent(c *gin.Context, chunk model.StreamChunk) {
	b, err := json.Marshal(chunk)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", b)
	c.Writer.Flush()
}
