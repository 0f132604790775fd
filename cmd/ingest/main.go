package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"

	"github.com/Spok95/cinema-bot/internal/config"
	"github.com/Spok95/cinema-bot/internal/infra/logger"
	"github.com/Spok95/cinema-bot/internal/tmdb"
	"github.com/Spok95/cinema-bot/internal/vectorstore"
)

// ingest выкачивает популярные фильмы из TMDb, считает эмбеддинги
// и сохраняет вектор-индекс на диск. Запускается отдельно от бота.
func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pages := cfg.TMDB.Pages
	if pages < 1 {
		pages = 1
	}

	client := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, cfg.TMDB.Language)
	log.Info("fetching movies", "pages", pages)
	movies, err := client.FetchTop(ctx, pages)
	if err != nil {
		log.Error("fetch failed", "err", err)
		return
	}
	log.Info("movies fetched", "count", len(movies))

	embedder, err := vectorstore.NewEmbedder(cfg.Embeddings.Provider, cfg.Embeddings.BaseURL, cfg.Embeddings.APIKey, cfg.Embeddings.Model)
	if err != nil {
		log.Error("embedder init failed", "err", err)
		return
	}

	index := vectorstore.NewIndex(embedder)
	if err := index.Build(ctx, movies); err != nil {
		log.Error("index build failed", "err", err)
		return
	}

	if err := index.Save(cfg.Index.Path); err != nil {
		log.Error("index save failed", "err", err)
		return
	}
	log.Info("vector index saved", "path", cfg.Index.Path, "docs", index.Len())
}
