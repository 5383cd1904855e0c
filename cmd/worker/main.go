package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
	"github.com/ShubhenduKH/TestMyBlood/internal/email"
	"github.com/ShubhenduKH/TestMyBlood/internal/notification"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository/postgres"
	"github.com/ShubhenduKH/TestMyBlood/internal/worker"
)

func main() {
	godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	users := postgres.NewUserRepository(db)
	bookings := postgres.NewBookingRepository(db)
	notifications := postgres.NewNotificationRepository(db)

	sender := email.NewSender(cfg.SMTP)
	notifier := notification.NewService(sender, notifications, bookings, users, cfg.Frontend.BaseURL, logger)

	retry := worker.NewRetryWorker(notifier, notifications, cfg.Notification, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retry.Run(ctx)
}
