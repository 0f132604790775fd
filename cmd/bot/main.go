package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/Spok95/cinema-bot/internal/bot"
	"github.com/Spok95/cinema-bot/internal/config"
	"github.com/Spok95/cinema-bot/internal/dialog"
	"github.com/Spok95/cinema-bot/internal/domain/prefs"
	"github.com/Spok95/cinema-bot/internal/infra/db"
	httpx "github.com/Spok95/cinema-bot/internal/infra/http"
	"github.com/Spok95/cinema-bot/internal/infra/logger"
	"github.com/Spok95/cinema-bot/internal/recommend"
	"github.com/Spok95/cinema-bot/internal/tmdb"
	"github.com/Spok95/cinema-bot/internal/vectorstore"
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

	embedder, err := vectorstore.NewEmbedder(cfg.Embeddings.Provider, cfg.Embeddings.BaseURL, cfg.Embeddings.APIKey, cfg.Embeddings.Model)
	if err != nil {
		log.Error("embedder init failed", "err", err)
		return
	}

	index := vectorstore.NewIndex(embedder)
	if err := index.Load(cfg.Index.Path); err != nil {
		// без индекса работаем, но подборка пойдёт через discover
		log.Warn("vector index not loaded, run cmd/ingest to build it", "path", cfg.Index.Path, "err", err)
	} else {
		log.Info("vector index loaded", "docs", index.Len())
	}

	tmdbClient := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, cfg.TMDB.Language)
	genres, err := tmdbClient.Genres(ctx)
	if err != nil {
		log.Error("genre list fetch failed", "err", err)
		return
	}
	log.Info("genres loaded", "count", len(genres))

	translator := recommend.NewTranslator(genres, index, tmdbClient, log)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "username", api.Self.UserName)

	b := bot.New(api, log, dialog.NewRepo(pool), prefs.NewRepo(pool), translator, cfg.Recommend.TopN)
	go func() {
		if err := b.Run(ctx, cfg.Telegram.PollTimeoutSec); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
		}
	}()

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, nil)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
