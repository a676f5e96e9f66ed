package router

import (
	"net/http"

	"github.com/Anannyachuli/Product-Portfolio/internal/handler"
	"github.com/Anannyachuli/Product-Portfolio/internal/middleware"
	"github.com/Anannyachuli/Product-Portfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
// 路由同时挂载在根路径和 /api 下，兼容两种部署方式
func SetupRouter(h *handler.Handlers, svc *service.Services) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// 中间件
	r.Use(middleware.RecoveryMiddleware(svc.Logger))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(svc.Logger))
	r.Use(middleware.CORSMiddleware(svc.Config.Server.AllowedOrigins))

	r.NoMethod(handler.MethodNotAllowed)
	r.NoRoute(handler.NotFound)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for _, prefix := range []string{"", "/api"} {
		g := r.Group(prefix)

		// Chat 聊天
		chats := g.Group("/chat", middleware.SessionMiddleware(svc))
		{
			chats.POST("", h.Chat.Chat)
			chats.POST("/stream", h.Chat.Stream)
		}

		// Conversations 对话日志
		g.GET("/conversations", h.Conversation.List)
	}

	return r
}
