package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rollbook/internal/attendance"
	"rollbook/internal/audit"
	"rollbook/internal/config"
	"rollbook/internal/grid"
	"rollbook/internal/handler"
	"rollbook/internal/httpmiddleware"
	"rollbook/internal/logging"
	"rollbook/internal/queue"
	"rollbook/internal/roster"
	"rollbook/internal/store"
)

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

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg config.App, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database ready", zap.String("driver", db.Driver))

	seed, err := roster.LoadSeedFile(cfg.RosterFile)
	if err != nil {
		return err
	}
	registry := roster.NewRegistry(db.Client)
	if err := registry.Sync(ctx, seed); err != nil {
		return err
	}
	logger.Info("roster synced", zap.Int("students", len(seed)))

	var (
		q           queue.Queue
		redisClient *store.Redis
	)
	switch cfg.QueueBackend {
	case "redis":
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	default:
		mem := queue.NewInMemory(256)
		q = mem
		// With no separate worker process, the audit trail is consumed here.
		go func() {
			if _, err := audit.Run(ctx, mem, logger.Named("audit")); err != nil {
				logger.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	svc := attendance.NewService(attendance.NewRepository(db.Client), q, logger.Named("attendance"))
	views := grid.NewBuilder(registry, svc)

	h := handler.New(registry, svc, views, startWeek(cfg.StartWeek, logger), logger.Named("http"))
	h.AddCheck("db", db.Healthy)
	if redisClient != nil {
		h.AddCheck("redis", redisClient.Healthy)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.AccessLog(logger.Named("access"), "/healthz", "/metrics"))
	r.Use(httpmiddleware.Metrics())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.NewIPRateLimiter(cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("queue", cfg.QueueBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
	return nil
}

// startWeek resolves START_WEEK. The zero time means the current week.
func startWeek(raw string, logger *zap.Logger) time.Time {
	if raw == "" {
		return time.Time{}
	}
	day, err := attendance.ParseDate(raw)
	if err != nil {
		logger.Warn("invalid START_WEEK, using current week", zap.String("value", raw))
		return time.Time{}
	}
	return day
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpmiddleware.HeaderRequestID},
		ExposeHeaders:    []string{httpmiddleware.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
