package chat

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxMessageLength 消息最大长度（按字符计）
const DefaultMaxMessageLength = 500

// ValidateMessage 校验用户消息，返回去除首尾空白后的文本
// 缺失、非字符串、空白或超长时返回包装了 ErrInvalidInput 的错误
func ValidateMessage(v any, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxMessageLength
	}

	if v == nil {
		return "", &validationError{message: MessageEmpty}
	}
	s, ok := v.(string)
	if !ok {
		return "", &validationError{message: MessageNotText}
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", &validationError{message: MessageEmpty}
	}
	if utf8.RuneCountInString(s) > maxLen {
		return "", &validationError{message: MessageTooLong}
	}
	return s, nil
}
