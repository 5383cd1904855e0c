package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
	"github.com/ShubhenduKH/TestMyBlood/internal/email"
	"github.com/ShubhenduKH/TestMyBlood/internal/gateway"
	"github.com/ShubhenduKH/TestMyBlood/internal/handler"
	"github.com/ShubhenduKH/TestMyBlood/internal/notification"
	"github.com/ShubhenduKH/TestMyBlood/internal/report"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository/postgres"
	"github.com/ShubhenduKH/TestMyBlood/internal/router"
	appointmentsvc "github.com/ShubhenduKH/TestMyBlood/internal/service/appointment"
	authsvc "github.com/ShubhenduKH/TestMyBlood/internal/service/auth"
	bookingsvc "github.com/ShubhenduKH/TestMyBlood/internal/service/booking"
	catalogsvc "github.com/ShubhenduKH/TestMyBlood/internal/service/catalog"
	contactsvc "github.com/ShubhenduKH/TestMyBlood/internal/service/contact"
	paymentsvc "github.com/ShubhenduKH/TestMyBlood/internal/service/payment"
	usersvc "github.com/ShubhenduKH/TestMyBlood/internal/service/user"
	"github.com/ShubhenduKH/TestMyBlood/pkg/auth"
	"github.com/ShubhenduKH/TestMyBlood/pkg/security"
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
	tests := postgres.NewTestRepository(db)
	labs := postgres.NewLabRepository(db)
	doctors := postgres.NewDoctorRepository(db)
	bookings := postgres.NewBookingRepository(db)
	payments := postgres.NewPaymentRepository(db)
	appointments := postgres.NewAppointmentRepository(db)
	notifications := postgres.NewNotificationRepository(db)
	reports := postgres.NewReportRepository(db)
	contacts := postgres.NewContactRepository(db)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	sender := email.NewSender(cfg.SMTP)
	gw := gateway.NewClient(cfg.Razorpay)

	storage, err := report.NewStorage(cfg.Uploads)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize report storage")
	}

	notifier := notification.NewService(sender, notifications, bookings, users, cfg.Frontend.BaseURL, logger)

	h := router.Handlers{
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(authsvc.NewService(users, hasher, jwtService)),
		Catalog:      handler.NewCatalogHandler(catalogsvc.NewService(tests, labs, doctors)),
		Booking:      handler.NewBookingHandler(bookingsvc.NewService(bookings, tests, users, reports, storage, notifier, logger)),
		Payment:      handler.NewPaymentHandler(paymentsvc.NewService(gw, payments, bookings, users, notifier, logger)),
		Appointment:  handler.NewAppointmentHandler(appointmentsvc.NewService(appointments, doctors)),
		Notification: handler.NewNotificationHandler(notifier),
		Contact:      handler.NewContactHandler(contactsvc.NewService(contacts, logger)),
		Admin:        handler.NewAdminHandler(usersvc.NewService(users, bookings, hasher)),
	}

	engine := router.New(cfg, jwtService, users, h, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
