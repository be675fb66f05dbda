package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/fadedpez/dealerbot/internal/bot"
	"github.com/fadedpez/dealerbot/internal/config"
	"github.com/fadedpez/dealerbot/internal/discord"
	"github.com/fadedpez/dealerbot/pkg/repositories/game"
)

var cli struct {
	Debug   bool   `help:"Enable debug logging."`
	Storage string `help:"Override the STORAGE backend (memory, sqlite, elasticsearch)."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("dealerbot"),
		kong.Description("Single-player blackjack Discord bot"),
		kong.UsageOnError(),
	)

	level := log.InfoLevel
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}
	if cli.Storage != "" {
		cfg.Storage = cli.Storage
	}

	repo, err := newRepository(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "storage", cfg.Storage, "error", err)
	}
	defer repo.Close()

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		logger.Fatal("failed to create Discord session", "error", err)
	}

	b := bot.New(cfg, session, repo, logger)
	if err := b.Start(); err != nil {
		logger.Fatal("failed to start bot", "error", err)
	}
	logger.Info("bot is running, press ctrl+c to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	b.Shutdown()
}

func newRepository(cfg *config.Config, logger *log.Logger) (game.Repository, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		logger.Info("using SQLite storage", "path", cfg.SQLitePath)
		return game.NewSQLiteRepository(cfg.SQLitePath)
	case config.StorageElasticsearch:
		logger.Info("using Elasticsearch storage", "url", cfg.ElasticsearchURL)
		return game.NewElasticsearchRepository(&game.ElasticsearchConfig{URL: cfg.ElasticsearchURL})
	default:
		logger.Info("using in-memory storage, records are lost on restart")
		return game.NewMemoryRepository(), nil
	}
}
