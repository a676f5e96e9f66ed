package quota

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxMessages 每个会话允许的消息数
const DefaultMaxMessages = 15

// Guard 会话配额检查
type Guard struct {
	counter Counter
	max     int64
	window  time.Duration
	logger  *zap.Logger
}

// NewGuard 创建配额检查
func NewGuard(counter Counter, maxMessages int, window time.Duration, logger *zap.Logger) *Guard {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{counter: counter, max: int64(maxMessages), window: window, logger: logger}
}

// Allow 计数并判断是否超过上限
// 计数失败时放行
func (g *Guard) Allow(ctx context.Context, key string) bool {
	n, err := g.counter.Incr(ctx, key, g.window)
	if err != nil {
		g.logger.Warn("quota counter failed, allowing request", zap.String("key", key), zap.Error(err))
		return true
	}
	return n <= g.max
}
