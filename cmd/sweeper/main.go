package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	inventoryapp "github.com/shopfront/backend/internal/application/inventory"
	notificationapp "github.com/shopfront/backend/internal/application/notification"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/notification"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
)

// Standalone reservation sweeper. Runs the same expired-hold purge as the
// server's background ticker, for deployments that scale the API horizontally
// and want exactly one sweeper.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	eventBus := event.NewInMemoryEventBus(log)
	dispatcher := notification.NewLogDispatcher(log)
	eventBus.Subscribe(notificationapp.NewStockAlertHandler(dispatcher, log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	expiration := inventoryapp.NewReservationExpirationService(reservationRepo, eventBus, log)

	interval := cfg.Reservation.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	log.Info("Reservation sweeper started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			log.Info("Reservation sweeper stopping")
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := eventBus.Stop(stopCtx); err != nil {
				log.Error("Failed to stop event bus", zap.Error(err))
			}
			cancel()
			return
		case <-ticker.C:
			if _, err := expiration.PurgeExpired(context.Background()); err != nil {
				log.Error("Reservation sweep failed", zap.Error(err))
			}
		}
	}
}
