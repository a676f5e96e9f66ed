// Package persona 提供发送给模型的固定系统指令（人设与背景资料）
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed default.md
var defaultDocument string

// Default 返回内置的系统指令
func Default() string {
	return defaultDocument
}

// Load 加载系统指令，path 为空时使用内置文档
func Load(path string) (string, error) {
	if path == "" {
		return defaultDocument, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read persona document: %w", err)
	}

	doc := string(data)
	if strings.TrimSpace(doc) == "" {
		return "", fmt.Errorf("persona document %s is empty", path)
	}
	return doc, nil
}
