package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-list/config"
	"github.com/qs-lzh/movie-list/internal/app"
	"github.com/qs-lzh/movie-list/internal/cache"
	"github.com/qs-lzh/movie-list/internal/handler"
	"github.com/qs-lzh/movie-list/internal/logger"
	"github.com/qs-lzh/movie-list/internal/mq"
	"github.com/qs-lzh/movie-list/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	db, err := repository.OpenDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	var redisCache *cache.RedisCache
	if cfg.CacheURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.CacheURL)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			return err
		}
	} else {
		zapLogger.Warn("CACHE_URL not set, sessions are kept in memory and movie responses are not cached")
	}

	var mqConn *amqp.Connection
	if cfg.MQURL != "" {
		mqConn, err = mq.NewMQConn(cfg.MQURL)
		if err != nil {
			return err
		}
	} else {
		zapLogger.Warn("RABBIT_MQ_URL not set, mails are sent inline")
	}
	if !cfg.MailConfigured() {
		zapLogger.Warn("EMAIL or EMAIL_PASSWORD not set, mails are written to the log")
	}

	application, err := app.New(cfg, db, redisCache, mqConn, zapLogger)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Init(); err != nil {
		return err
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.NewRouter(application),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("server listening", zap.String("addr", cfg.Addr), zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
