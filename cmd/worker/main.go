package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"rollbook/internal/audit"
	"rollbook/internal/config"
	"rollbook/internal/logging"
	"rollbook/internal/queue"
	"rollbook/internal/store"
)

// Worker consumes the attendance change feed from Redis and writes one
// audit log line per edit.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.Production(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.QueueBackend != "redis" {
		logger.Fatal("worker needs QUEUE_BACKEND=redis; the memory queue is drained inside the api process",
			zap.String("queue_backend", cfg.QueueBackend))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		logger.Warn("redis not reachable yet, consumer will keep retrying", zap.String("addr", cfg.RedisAddr))
	}

	q := queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	logger.Info("worker started, waiting for messages", zap.String("key", cfg.QueueKey))

	n, err := audit.Run(ctx, q, logger.Named("audit"))
	if err != nil {
		logger.Fatal("queue consume init failed", zap.Error(err))
	}
	logger.Info("worker stopped", zap.Int("changes", n))
}
