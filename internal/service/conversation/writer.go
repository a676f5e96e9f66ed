package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// WriterConfig 后台写入参数
type WriterConfig struct {
	Timeout     time.Duration
	MaxInFlight int64
}

// Writer 后台写入对话日志
// 写入与请求生命周期无关，失败只记录 debug 日志
type Writer struct {
	log     *Log
	timeout time.Duration
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	logger  *zap.Logger
	now     func() time.Time
}

// NewWriter 创建后台写入器
func NewWriter(log *Log, cfg WriterConfig, logger *zap.Logger) *Writer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		log:     log,
		timeout: cfg.Timeout,
		sem:     semaphore.NewWeighted(cfg.MaxInFlight),
		logger:  logger,
		now:     time.Now,
	}
}

// Record 异步写入一条问答，立即返回
func (w *Writer) Record(question, answer string) {
	if !w.sem.TryAcquire(1) {
		w.logger.Debug("conversation log write dropped: too many in flight", zap.String("key", w.log.Key()))
		return
	}

	entry := model.NewConversationLogEntry(question, answer, w.now())

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				w.logger.Debug("conversation log write panicked", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		err := w.log.Append(ctx, entry)
		switch {
		case err == nil:
		case errors.Is(err, ErrNotConfigured):
			// 未配置存储时直接跳过
		default:
			w.logger.Debug("conversation log write discarded", zap.String("key", w.log.Key()), zap.Error(err))
		}
	}()
}

// Wait 等待所有进行中的写入完成，ctx 结束时放弃等待
func (w *Writer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
