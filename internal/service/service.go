package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Anannyachuli/Product-Portfolio/internal/config"
	"github.com/Anannyachuli/Product-Portfolio/internal/database"
	"github.com/Anannyachuli/Product-Portfolio/internal/persona"
	"github.com/Anannyachuli/Product-Portfolio/internal/repository"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/auth"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/callback"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/chat"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/conversation"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/provider"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/quota"
	"github.com/cloudwego/eino/callbacks"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	// 业务服务
	Chat          *chat.Service
	Auth          *auth.Service
	Conversations *conversation.Log
	LogWriter     *conversation.Writer

	// 配置
	Config *config.Config
	Logger *zap.Logger

	// QuotaEnabled 为 true 时每个响应都携带会话令牌
	QuotaEnabled bool

	mu      sync.Mutex
	closers []func() error
}

// Options 构建服务的可选依赖，主要用于测试
type Options struct {
	HTTPClient *http.Client
}

// NewServices 创建所有服务
// 模型凭据缺失不是启动错误，请求时返回 ServiceUnavailable
func NewServices(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Services{Config: cfg, Logger: logger}

	doc, err := persona.Load(cfg.Persona.Path)
	if err != nil {
		return nil, err
	}

	p, err := newProvider(ctx, cfg, logger, opts)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = newRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.addCloser(redisClient.Close)
	}

	s.Conversations = conversation.NewLog(
		conversation.NewHandle(s.conversationOpener(cfg, redisClient, logger)),
		cfg.ConversationLog.Key,
		cfg.ConversationLog.MaxEntries,
	)
	s.LogWriter = conversation.NewWriter(s.Conversations, conversation.WriterConfig{
		Timeout:     secondsOr(cfg.ConversationLog.WriteTimeout, 5),
		MaxInFlight: int64(cfg.ConversationLog.MaxInFlight),
	}, logger.Named("conversation"))

	s.Auth = auth.NewService(cfg.Quota.TokenSecret, cfg.Quota.Window, cfg.Admin.ConversationsSecret)
	if !s.Auth.AdminConfigured() {
		logger.Info("conversations endpoint locked: admin secret not configured")
	}

	chatOpts := []chat.Option{
		chat.WithRecorder(s.LogWriter),
		chat.WithLogger(logger.Named("chat")),
	}
	if cfg.Quota.Enabled {
		s.QuotaEnabled = true
		chatOpts = append(chatOpts, chat.WithLimiter(newQuotaGuard(cfg.Quota, redisClient, logger)))
	}

	s.Chat = chat.NewService(p, doc, chat.Config{
		MaxMessageLength: cfg.Chat.MaxMessageLength,
		MaxHistory:       cfg.Chat.MaxHistory,
		FallbackReply:    cfg.Chat.FallbackReply,
		Timeout:          cfg.AI.TimeoutDuration(),
		Streaming:        cfg.AI.Mode == "stream",
	}, chatOpts...)

	return s, nil
}

// Close 等待后台写入完成并关闭连接
func (s *Services) Close(ctx context.Context) error {
	var errs []error
	if s.LogWriter != nil {
		if err := s.LogWriter.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("conversation log writes still in flight: %w", err))
		}
	}

	s.mu.Lock()
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Services) addCloser(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, fn)
}

// newProvider 创建模型适配器，未配置凭据时返回 nil
func newProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (provider.Provider, error) {
	p, err := provider.New(ctx, cfg.AI, provider.Options{
		HTTPClient: opts.HTTPClient,
		Handlers:   []callbacks.Handler{callback.NewLogger(logger)},
	})
	if errors.Is(err, provider.ErrNotConfigured) {
		logger.Warn("ai provider credential not configured, chat requests will fail", zap.String("provider", cfg.AI.Provider))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create ai provider: %w", err)
	}

	logger.Info("ai provider ready",
		zap.String("provider", p.Name()),
		zap.String("model", cfg.AI.Active().Model),
		zap.String("mode", cfg.AI.Mode))
	return p, nil
}

// newRedisClient URL 优先，否则使用 host/port
func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

// conversationOpener 按配置的后端延迟建立日志存储
func (s *Services) conversationOpener(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) conversation.Opener {
	switch cfg.ConversationLog.Backend {
	case "redis":
		if redisClient == nil {
			logger.Info("conversation log disabled: redis not configured")
			return nil
		}
		return func(context.Context) (conversation.Store, error) {
			return conversation.NewRedisStore(redisClient), nil
		}
	case "postgres":
		return func(ctx context.Context) (conversation.Store, error) {
			db, err := database.New(ctx, cfg.Database, cfg.App.Debug)
			if err != nil {
				logger.Warn("conversation log database unavailable", zap.Error(err))
				return nil, err
			}
			s.addCloser(db.Close)
			repos := repository.NewRepositories(db.DB)
			return conversation.NewGormStore(repos.Conversation), nil
		}
	default:
		logger.Info("conversation log disabled", zap.String("backend", cfg.ConversationLog.Backend))
		return nil
	}
}

func newQuotaGuard(cfg config.QuotaConfig, redisClient *redis.Client, logger *zap.Logger) *quota.Guard {
	var counter quota.Counter = quota.NewMemoryCounter()
	if redisClient != nil {
		counter = quota.NewRedisCounter(redisClient)
	}
	return quota.NewGuard(counter, cfg.MaxMessages, cfg.Window, logger.Named("quota"))
}

func secondsOr(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}
