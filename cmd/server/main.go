package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/database"
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/codelens-edu/codelens-gateway/internal/handler"
	"github.com/codelens-edu/codelens-gateway/internal/logger"
	"github.com/codelens-edu/codelens-gateway/internal/notify"
	"github.com/codelens-edu/codelens-gateway/internal/router"
	"github.com/codelens-edu/codelens-gateway/internal/service"
	"github.com/codelens-edu/codelens-gateway/internal/session"
	"github.com/codelens-edu/codelens-gateway/internal/validator"
	"github.com/codelens-edu/codelens-gateway/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("upstream", cfg.UpstreamBaseURL).
		Msg("Starting CodeLens Gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Core Wiring ───────────────────────────────────────────────────
	store := session.NewRedisStore(rdb, cfg.SessionTTL)
	gw := gateway.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log)
	hub := notify.NewHub()
	authService := service.NewAuthService(cfg, store, gw, hub, log)

	// The guard answers 503 until this probe completes.
	go func() {
		if err := authService.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Session store probe failed")
		}
		log.Info().Msg("Auth service ready")
	}()

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, cfg),
		View:          handler.NewViewHandler(),
		StudentPortal: handler.NewStudentPortalHandler(gw),
		Advisor:       handler.NewAdvisorHandler(gw),
		Counsellor:    handler.NewCounsellorHandler(gw),
		Admin:         handler.NewAdminHandler(gw),
		Staff:         handler.NewStaffHandler(gw),
		Institution:   handler.NewInstitutionHandler(gw),
		WS:            handler.NewWSHandler(hub, cfg.AllowedOrigins, log),
		System:        handler.NewSystemHandler(rdb, log),
	}

	// ─── Start Background Workers ──────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	monitor := worker.NewUpstreamMonitor(gw, rdb, cfg.MonitorInterval, log)
	go monitor.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
