package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/app"
)

type Bot struct {
	service *app.Service
	api     *tgbotapi.BotAPI
	admins  map[int64]bool
}

func New(service *app.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(service.Config.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	admins := make(map[int64]bool)
	for _, id := range service.Config.Bot.AdminIDs {
		admins[id] = true
	}

	return &Bot{
		service: service,
		api:     api,
		admins:  admins,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			go b.handleMessage(ctx, update.Message)

		case <-sigChan:
			logger.Info.Println("Shutting down bot...")
			return nil

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
