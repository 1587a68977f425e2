package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"tablejack/internal/bot"
	"tablejack/internal/config"
	"tablejack/internal/logger"
	"tablejack/internal/player"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if err := cfg.RequireBotToken(); err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	l := logger.New(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closer, err := player.Open(ctx, cfg)
	if err != nil {
		l.Fatal("failed to open store", "driver", cfg.StoreDriver, "err", err)
	}
	defer closer.Close()

	l.Info("store connected", "driver", cfg.StoreDriver)

	b, err := bot.New(cfg, repo, l)
	if err != nil {
		l.Fatal("failed to create bot", "err", err)
	}

	if err := b.Run(ctx); err != nil {
		l.Error("bot error", "err", err)
	}
}
