package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anannyachuli/Product-Portfolio/internal/config"
	"github.com/Anannyachuli/Product-Portfolio/internal/handler"
	"github.com/Anannyachuli/Product-Portfolio/internal/logger"
	"github.com/Anannyachuli/Product-Portfolio/internal/router"
	"github.com/Anannyachuli/Product-Portfolio/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveConfigPath string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat gateway HTTP server",
		Long: `Runs the gateway. Configuration is read from the YAML file given by --config
(or CONFIG_PATH), then overridden by environment variables such as GEMINI_API_KEY and REDIS_URL.`,
		RunE: runServe,
	}
	cmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to config file (defaults to $CONFIG_PATH or ./configs/config.yaml)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// 加载配置
	configPath := serveConfigPath
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.App.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 设置 Gin 模式
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化各层
	services, err := service.NewServices(ctx, cfg, log, service.Options{})
	if err != nil {
		return err
	}
	handlers := handler.NewHandlers(services)
	r := router.SetupRouter(handlers, services)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.Bool("ai_configured", services.Chat.Configured()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("shutting down server")

	// 优雅关闭：先停止接收请求，再等待后台日志写入
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := services.Close(shutdownCtx); err != nil {
		log.Warn("services did not close cleanly", zap.Error(err))
	}

	log.Info("server exited")
	return nil
}
