package handler

import (
	"github.com/Anannyachuli/Product-Portfolio/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Chat:         NewChatHandler(svc),
		Conversation: NewConversationHandler(svc),
	}
}
