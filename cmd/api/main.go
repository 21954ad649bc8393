package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"avnu/internal/api"
	"avnu/internal/catalog"
	"avnu/internal/config"
	"avnu/internal/pkg/logger"
)

// main 是 API 服务的入口函数。
//
// 它负责：
// 1. 加载配置
// 2. 初始化日志
// 3. 构建目录（启动时一次）
// 4. 初始化并启动 API 服务器与变更通知 hub
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger := logger.NewDefault(cfg.App.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.Catalog.BrandsPath)
	if err != nil {
		appLogger.Error("build catalog failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	appLogger.Info("catalog built",
		slog.Int("brands", len(cat.Brands())),
		slog.Int("products", cat.Len()),
		slog.Int("series", len(cat.Series())),
		slog.String("fingerprint", cat.Fingerprint()))

	srv, err := api.NewServer(ctx, cfg, appLogger, cat)
	if err != nil {
		appLogger.Error("init server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := srv.SeedDemoProfile(ctx); err != nil {
		appLogger.Error("seed demo profile failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv.StartSync(ctx)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("api server listening", slog.String("addr", cfg.App.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server run failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down api server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// SSE 连接在 ctx 取消后才会结束，Shutdown 超时后强制关闭
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("http shutdown timed out", slog.String("error", err.Error()))
		_ = httpServer.Close()
	}
	if err := srv.Close(); err != nil {
		appLogger.Error("close resources failed", slog.String("error", err.Error()))
	}
}
