package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Anannyachuli/Product-Portfolio/internal/service"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/conversation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 200
)

// ConversationHandler 对话日志查询
type ConversationHandler struct {
	svc *service.Services
}

// NewConversationHandler 创建对话日志处理器
func NewConversationHandler(svc *service.Services) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// List 从新到旧列出对话日志，需要管理密钥
func (h *ConversationHandler) List(c *gin.Context) {
	if !h.svc.Auth.CheckAdminKey(c.Query("key")) {
		errorJSON(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entries, err := h.svc.Conversations.Recent(c.Request.Context(), parseLimit(c.Query("limit")))
	if errors.Is(err, conversation.ErrNotConfigured) {
		errorJSON(c, http.StatusInternalServerError, "Conversation log not configured")
		return
	}
	if err != nil {
		h.svc.Logger.Error("failed to fetch conversations", zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         len(entries),
		"conversations": entries,
	})
}

// parseLimit 缺省或无效时为 50，限制在 [1, 200]
func parseLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return defaultConversationLimit
	}
	if n < 1 {
		return 1
	}
	if n > maxConversationLimit {
		return maxConversationLimit
	}
	return n
}
