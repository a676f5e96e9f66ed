package chat

import "errors"

var (
	// ErrInvalidInput 消息校验失败，包装后的错误信息可直接展示给用户
	ErrInvalidInput = errors.New("invalid input")
	// ErrServiceUnavailable 未配置模型凭据
	ErrServiceUnavailable = errors.New("ai service not configured")
	// ErrUpstream 模型调用失败（网络、状态码、超时、响应格式）
	ErrUpstream = errors.New("upstream provider error")
	// ErrRateLimited 会话消息数已达上限
	ErrRateLimited = errors.New("session message limit reached")
)

// 面向用户的错误信息
const (
	MessageEmpty          = "Please enter a message."
	MessageNotText        = "Message must be text."
	MessageTooLong        = "Message is too long. Please keep it under 500 characters."
	MessageNotConfigured  = "AI service not configured"
	MessageUpstream       = "Something went wrong, try again in a moment."
	MessageRateLimited    = "You've reached the message limit for this session. Feel free to reach out to Anannya directly at anannya.chuli@duke.edu."
	MessageInvalidRequest = "Invalid request body"
)

// validationError 带用户提示的校验错误
type validationError struct {
	message string
}

func (e *validationError) Error() string {
	return e.message
}

func (e *validationError) Unwrap() error {
	return ErrInvalidInput
}

// UserMessage 返回可展示给用户的错误信息，未知错误返回通用提示
func UserMessage(err error) string {
	var ve *validationError
	switch {
	case errors.As(err, &ve):
		return ve.message
	case errors.Is(err, ErrServiceUnavailable):
		return MessageNotConfigured
	case errors.Is(err, ErrRateLimited):
		return MessageRateLimited
	default:
		return MessageUpstream
	}
}
