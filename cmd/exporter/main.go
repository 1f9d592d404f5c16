package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/app"
	"github.com/shrimpsizemoose/festboard/internal/export"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var once = flag.Bool("once", false, "Export once and exit")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	ctx := context.Background()
	exporter, err := export.NewGSheetExporter(ctx, service.Config, service)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize Google Sheets exporter: %v", err)
	}

	if *once {
		if err := exporter.Export(ctx); err != nil {
			logger.Error.Fatalf("Export failed: %v", err)
		}
		return
	}

	scheduler := gocron.NewScheduler(time.UTC)
	if err := exporter.Schedule(scheduler, service.Config.Export.Schedule); err != nil {
		logger.Error.Fatalf("Failed to schedule export: %v", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	logger.Info.Printf("Exporting standings on %q", service.Config.Export.Schedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info.Println("Exporter stopped")
}
