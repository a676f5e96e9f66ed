package conversation

import (
	"context"
	"errors"
	"sync"
)

// Opener 建立存储连接，返回 ErrNotConfigured 表示不记录日志
type Opener func(ctx context.Context) (Store, error)

// Handle 延迟初始化的存储句柄
// 成功的存储和 ErrNotConfigured 会被缓存，其他错误在下次 Get 时重试
type Handle struct {
	open Opener

	mu    sync.Mutex
	store Store
	err   error // 只保存 ErrNotConfigured
}

// NewHandle 创建句柄，open 为 nil 表示未配置
func NewHandle(open Opener) *Handle {
	return &Handle{open: open}
}

// StaticHandle 使用已有存储的句柄
func StaticHandle(store Store) *Handle {
	return NewHandle(func(context.Context) (Store, error) {
		return store, nil
	})
}

// Get 返回存储，首次成功前每次调用都会尝试初始化
func (h *Handle) Get(ctx context.Context) (Store, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store != nil || h.err != nil {
		return h.store, h.err
	}
	if h.open == nil {
		h.err = ErrNotConfigured
		return nil, h.err
	}

	store, err := h.open(ctx)
	switch {
	case errors.Is(err, ErrNotConfigured), err == nil && store == nil:
		h.err = ErrNotConfigured
		return nil, h.err
	case err != nil:
		return nil, err
	}
	h.store = store
	return store, nil
}
