package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/app"
	"github.com/shrimpsizemoose/festboard/internal/handlers"
	"github.com/shrimpsizemoose/festboard/internal/observability"
)

var version = "dev"

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	flush, err := observability.InitSentry(service.Config.Sentry.DSN, service.Config.Sentry.Environment, version)
	if err != nil {
		logger.Error.Printf("Sentry disabled: %v", err)
	}
	defer flush()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := service.SeedUsers(ctx); err != nil {
		logger.Error.Fatalf("Failed to seed users: %v", err)
	}
	cancel()

	server := &http.Server{
		Addr:              service.Config.Server.Port,
		Handler:           handlers.NewRouter(service),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info.Printf("Starting festboard server %s on %s", version, service.Config.Server.Port)
	if !service.Config.Server.EnableAuth {
		logger.Info.Println("Auth is disabled, every caller acts as admin")
	}
	logger.Debug.Printf("Rules version %s", service.Rules.Version)
	if err := server.ListenAndServe(); err != nil {
		logger.Error.Fatalf("Festboard server failed: %v", err)
	}
}
