package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dmb-chatter/internal/analytics"
	"dmb-chatter/internal/app"
	"dmb-chatter/internal/config"
	"dmb-chatter/internal/scheduler"
	"dmb-chatter/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	a, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	bot, err := telegram.New(cfg.TelegramBotToken, a.Engine, a.Admins, logger)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(cfg.ReportCron, logger)
	if a.Recorder != nil {
		sched.SetReportFunction(func(ctx context.Context) error {
			report, err := analytics.DailyReport(a.Recorder, a.Unknowns, time.Now().UTC())
			if err != nil {
				return err
			}
			return bot.NotifyAdmins(ctx, report)
		})
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	logger.Info("bot started", "name", cfg.BotName)
	bot.Start(ctx)
	logger.Info("bot stopped")
}
