package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"routing-service/internal/adapters/events"
	"routing-service/internal/adapters/repositories"
	"routing-service/internal/api"
	"routing-service/internal/api/handlers"
	"routing-service/internal/app"
	"routing-service/internal/config"
	"routing-service/internal/platform/db"
	"routing-service/internal/platform/logger"
	"routing-service/internal/platform/metrics"
	"routing-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		logger.Component("server").Fatal().Err(err).Msg("server stopped")
	}
}

// run serves until ctx is cancelled or the listener fails. Every adapter it
// opens is closed before it returns.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	metrics.Register()
	log := logger.Component("server")

	var (
		conn   *sql.DB
		plans  ports.PlanRepository
		checks = map[string]handlers.Check{}
	)
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
		plans = repositories.NewPGPlanRepository(conn)
		checks["postgres"] = conn.PingContext
	} else {
		log.Warn().Msg("DATABASE_URL not set: plans are kept in memory")
		plans = repositories.NewMemoryPlanRepository(1000)
	}

	var publisher ports.PlanPublisher = events.NopPublisher{}
	if cfg.RedisURL != "" {
		rp, err := events.NewRedisPublisher(cfg.RedisURL, events.DefaultChannel)
		if err != nil {
			return fmt.Errorf("redis publisher: %w", err)
		}
		defer rp.Close()
		// An unreachable broker only costs notifications.
		if err := rp.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable at startup")
		}
		publisher = rp
		checks["redis"] = rp.Ping
	}

	svc, err := app.NewRoutingService(cfg, conn)
	if err != nil {
		return fmt.Errorf("routing service: %w", err)
	}

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(api.Deps{Service: svc, Plans: plans, Publisher: publisher, Checks: checks}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
