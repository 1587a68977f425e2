package bot

import (
	"context"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tablejack/internal/config"
	"tablejack/internal/player"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	log     *log.Logger
}

func New(cfg *config.Config, repo player.Repository, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:     api,
		handler: NewHandler(api, cfg, repo, logger),
		log:     logger,
	}, nil
}

// Run polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("bot started", "user", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}

			if update.CallbackQuery != nil {
				go b.handler.HandleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message != nil {
				go b.handler.HandleMessage(ctx, update.Message)
			}
		}
	}
}
