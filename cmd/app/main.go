package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/availability"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/config"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/email"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/handover"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/invoice"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/payment"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/review"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/server"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/user"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/wallet"
)

// @title SwiftRide API
// @version 1.0
// @description Car rental marketplace: listings, bookings, payments, handover and host wallets.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Environment)
	defer logger.Sync()
	logger.Info("starting SwiftRide", "env", cfg.Environment)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("migrations completed")

	emailService := email.New(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer emailService.Close()

	tx := db.NewTransactor(database)

	userService := user.NewService(user.NewRepository(database), cfg.JWTSecret)
	notifier := email.NewNotifier(emailService, userService, cfg.InvoiceBrandName)

	carRepo := car.NewRepository(database)
	carService := car.NewService(carRepo, car.Options{
		MaxCarsPerUser:  cfg.MaxCarsPerUser,
		DefaultTimezone: cfg.DefaultCarTimezone,
	})

	walletService := wallet.NewService(wallet.NewRepository(database), tx, notifier, wallet.Options{
		CommissionPercent: cfg.CommissionPercent,
		Currency:          cfg.Currency,
	})

	bookingRepo := booking.NewRepository(database)
	checker := availability.NewChecker(carRepo, bookingRepo)
	bookingService := booking.NewService(booking.Deps{
		Repo:     bookingRepo,
		Tx:       tx,
		Checker:  checker,
		Cars:     carRepo,
		Users:    userService,
		Ledger:   walletService,
		Invoices: invoice.NewRenderer(cfg.InvoiceDir, cfg.InvoiceBrandName),
		Notifier: notifier,
	}, booking.Options{
		Currency:   cfg.Currency,
		PendingTTL: cfg.PendingBookingTTL,
	})

	paymentService := payment.NewService(payment.Config{
		BaseURL:     cfg.PaymentBaseURL,
		MerchantID:  cfg.PaymentMerchantID,
		StoreID:     cfg.PaymentStoreID,
		HashKey:     cfg.PaymentHashKey,
		Currency:    cfg.Currency,
		ReturnURL:   cfg.PaymentReturnURL,
		CallbackURL: cfg.PaymentCallbackURL,
	}, bookingService)

	srv := server.New(cfg, server.Handlers{
		Users:        user.NewHandler(userService),
		Cars:         car.NewHandler(carService),
		Availability: availability.NewHandler(checker),
		Bookings:     booking.NewHandler(bookingService),
		Handover:     handover.NewHandler(handover.NewService(bookingService)),
		Payments:     payment.NewHandler(paymentService),
		Reviews:      review.NewHandler(review.NewService(review.NewRepository(database), bookingRepo, carRepo)),
		Wallet:       wallet.NewHandler(walletService),
		Health: server.NewHealthHandler(map[string]server.Pinger{
			"database": server.PingFunc(database.PingContext),
			"redis":    emailService,
		}),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		emailService.Start(ctx)
	}()
	go func() {
		defer workers.Done()
		booking.NewSweeper(bookingService, cfg.BookingSweepInterval).Run(ctx)
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received signal", "signal", sig.String())
	case err := <-serverErrChan:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	cancel()
	workers.Wait()

	logger.Info("server stopped")
}
