package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/go-saferoute/internal/advisor"
	"github.com/mr1hm/go-saferoute/internal/api"
	"github.com/mr1hm/go-saferoute/internal/broadcast"
	"github.com/mr1hm/go-saferoute/internal/config"
	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/ingestion"
	"github.com/mr1hm/go-saferoute/internal/logging"
	"github.com/mr1hm/go-saferoute/internal/planner"
	"github.com/mr1hm/go-saferoute/internal/repository"
	"github.com/mr1hm/go-saferoute/internal/risk"
	"github.com/mr1hm/go-saferoute/internal/usage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	hazards, err := hazardlog.NewSource(cfg.HazardLog.Path)
	if err != nil {
		// The source still serves an empty snapshot; routes fall back to neutral labels.
		slog.Error("hazard log unreadable, risk labels will be neutral", "path", cfg.HazardLog.Path, "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Live feed of hazard events appended to the log
	broadcaster := broadcast.NewBroadcaster()

	mgr := ingestion.NewManager(hazards, broadcaster, cfg.HazardLog.PollInterval)
	mgr.Start(ctx)

	recorder := usage.NewRecorder(db, cfg.Worker.Count, cfg.Worker.BufferSize)
	// Queued bumps are drained by recorder.Stop after the server stops taking requests.
	recorder.Start(context.WithoutCancel(ctx))

	adv := advisor.New(newGenerator(ctx, cfg))

	p := planner.New(db, hazards, risk.NewScorer(cfg.HazardLog.Lookback()))

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))

	handler := api.NewHandler(p, db, adv, recorder, broadcaster)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()
	broadcaster.Close() // Ends open hazard streams so Shutdown doesn't wait on them

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	recorder.Stop()

	slog.Info("shutdown complete")
}

// newGenerator returns nil when no API key is set. A Redis URL adds the
// response cache; an unreachable Redis is logged and skipped.
func newGenerator(ctx context.Context, cfg *config.Config) advisor.Generator {
	if !cfg.Advice.Enabled() {
		slog.Info("advice generator disabled, using fallback texts")
		return nil
	}

	var gen advisor.Generator = advisor.NewGeminiClient(cfg.Advice.URL, cfg.Advice.Model, cfg.Advice.APIKey, cfg.Advice.Timeout)
	if cfg.Redis.URL == "" {
		return gen
	}

	rdb, err := advisor.ConnectRedis(ctx, cfg.Redis.URL)
	if err != nil {
		slog.Warn("advice cache disabled", "error", err)
		return gen
	}
	slog.Info("advice cache enabled", "ttl", cfg.Advice.CacheTTL)
	return advisor.NewCachedGenerator(gen, rdb, cfg.Advice.CacheTTL)
}
