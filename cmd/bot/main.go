package main

import (
	"context"
	"flag"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/app"
	"github.com/shrimpsizemoose/festboard/internal/bot"
	"github.com/shrimpsizemoose/festboard/internal/observability"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	flush, err := observability.InitSentry(service.Config.Sentry.DSN, service.Config.Sentry.Environment, "bot")
	if err != nil {
		logger.Error.Printf("Sentry disabled: %v", err)
	}
	defer flush()

	b, err := bot.New(service)
	if err != nil {
		logger.Error.Fatalf("Failed to create bot: %v", err)
	}

	logger.Info.Println("Bot initialized successfully")
	if err := b.Start(context.Background()); err != nil {
		logger.Error.Fatalf("Bot error: %v", err)
	}
}
