package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"road-vision/config"
	telegram "road-vision/internal/api"
	"road-vision/internal/container"
	"road-vision/internal/infrastructure/storage"
	"road-vision/internal/infrastructure/vision"
	"road-vision/internal/logger"
)

func main() {
	configPath := flag.String("config", envOr("ROAD_VISION_CONFIG", config.DefaultPath), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	if cfg.Telegram.Token == "" {
		lg.Fatal("TELEGRAM_TOKEN is required")
	}

	// Создаём хранилища
	userRepo := storage.NewMemoryUserRepository()
	reportRepo, err := storage.NewSQLiteReportRepository(cfg.Storage.DBPath)
	if err != nil {
		lg.Fatal("open report storage", "error", err, "path", cfg.Storage.DBPath)
	}
	defer reportRepo.Close()

	// Собираем сервисы приложения
	appContainer := container.New(cfg, container.Deps{
		Users:    userRepo,
		Reports:  reportRepo,
		Detector: vision.NewGoCVDetector(),
		Analyzer: vision.NewImageAnalyzer(),
		Logger:   lg,
	})

	// Создаём бота
	bot, err := telegram.NewBot(cfg.Telegram.Token, appContainer, lg)
	if err != nil {
		lg.Fatal("create bot", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("bot is running", "db_path", cfg.Storage.DBPath)
	if err := bot.Run(ctx); err != nil {
		lg.Error("bot stopped", "error", err)
		return
	}
	lg.Info("bot stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
