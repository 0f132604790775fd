package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/Spok95/cinema-bot/internal/billing"
	"github.com/Spok95/cinema-bot/internal/config"
	"github.com/Spok95/cinema-bot/internal/domain/checkins"
	"github.com/Spok95/cinema-bot/internal/domain/invoices"
	"github.com/Spok95/cinema-bot/internal/domain/members"
	"github.com/Spok95/cinema-bot/internal/gym"
	"github.com/Spok95/cinema-bot/internal/infra/db"
	httpx "github.com/Spok95/cinema-bot/internal/infra/http"
	"github.com/Spok95/cinema-bot/internal/infra/logger"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	membersRepo := members.NewRepo(pool)
	checkinsRepo := checkins.NewRepo(pool)
	invoicesRepo := invoices.NewRepo(pool)
	engine := billing.NewEngine(membersRepo, checkinsRepo, invoicesRepo, log)

	h := gym.NewHandler(log, membersRepo, checkinsRepo, invoicesRepo, engine)

	srv := httpx.New(cfg.Gym.Addr, cfg.Metrics.Enabled, map[string]http.Handler{
		"/": h.Routes(),
	})
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("gym billing API started", "addr", cfg.Gym.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
