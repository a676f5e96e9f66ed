package handler

import (
	"errors"
	"net/http"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/chat"
	"github.com/gin-gonic/gin"
)

// errorJSON 错误响应，响应体统一为 {"error": "..."}
func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{Error: msg})
}

// statusFor 将服务错误映射到 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, chat.ErrServiceUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// Error 根据错误类型返回相应的错误响应，只暴露面向用户的信息
func Error(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	errorJSON(c, statusFor(err), chat.UserMessage(err))
}

// MethodNotAllowed 405
func MethodNotAllowed(c *gin.Context) {
	errorJSON(c, http.StatusMethodNotAllowed, "Method not allowed")
}

// NotFound 404
func NotFound(c *gin.Context) {
	errorJSON(c, http.StatusNotFound, "Not found")
}
