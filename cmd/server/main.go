package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	cartapp "github.com/shopfront/backend/internal/application/cart"
	checkoutapp "github.com/shopfront/backend/internal/application/checkout"
	inventoryapp "github.com/shopfront/backend/internal/application/inventory"
	notificationapp "github.com/shopfront/backend/internal/application/notification"
	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/notification"
	"github.com/shopfront/backend/internal/infrastructure/payment"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/interfaces/http/router"
)

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

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down tracer provider", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down meter provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if cfg.Telemetry.Enabled {
		if err := db.EnableTracing(cfg.Database.DBName); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	stockRepo := persistence.NewGormStockRecordRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus with notification handlers
	eventBus := event.NewInMemoryEventBus(log)
	dispatcher := notification.NewLogDispatcher(log)
	eventBus.Subscribe(notificationapp.NewOrderLifecycleHandler(dispatcher, log))
	eventBus.Subscribe(notificationapp.NewStockAlertHandler(dispatcher, log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	// Checkout idempotency keys live in Redis so replays survive restarts;
	// fall back to the in-process store when Redis is unreachable.
	var idempotency shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotency = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotency = redisStore
	}

	gateway := payment.NewRazorpayAdapter(payment.RazorpayConfig{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		BaseURL:   cfg.Payment.BaseURL,
	}, log)

	// Application services
	availability := inventoryapp.NewAvailabilityService(stockRepo, reservationRepo, log)
	reservations := inventoryapp.NewReservationService(txScope, cfg.Reservation.TTL, log)
	stockMutator := inventoryapp.NewStockMutator(txScope, eventBus, log)
	expiration := inventoryapp.NewReservationExpirationService(reservationRepo, eventBus, log)

	pricing := checkout.PricingConfig{
		TaxRate:               decimal.NewFromFloat(cfg.Pricing.TaxRate),
		ExpressShippingFee:    decimal.NewFromFloat(cfg.Pricing.ExpressShippingFee),
		StandardShippingFee:   decimal.NewFromFloat(cfg.Pricing.StandardShippingFee),
		FreeShippingThreshold: decimal.NewFromFloat(cfg.Pricing.FreeShippingThreshold),
	}

	cartService := cartapp.NewService(cartRepo, productRepo, log)
	validator := checkoutapp.NewValidator(productRepo, availability, log)
	finalizer := checkoutapp.NewFinalizer(
		cartRepo, productRepo, validator,
		reservations, stockMutator, orderRepo,
		gateway, idempotency, eventBus,
		pricing, log,
	)

	// Background sweeper for lapsed reservation holds
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go runExpirationSweeper(sweepCtx, expiration, cfg.Reservation.SweepInterval, log)
	defer stopSweeper()

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
	)
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	router.New(engine,
		router.WithMiddleware(middleware.Identity(jwtService, cfg.Session)),
	).Register(
		handler.NewCartHandler(cartService),
		handler.NewCheckoutHandler(finalizer),
		handler.NewInventoryHandler(availability, stockMutator),
		handler.NewSystemHandler(),
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	stopSweeper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// runExpirationSweeper purges lapsed reservation holds on a fixed interval
// until the context is cancelled.
func runExpirationSweeper(ctx context.Context, svc *inventoryapp.ReservationExpirationService, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PurgeExpired(ctx); err != nil {
				log.Error("Reservation sweep failed", zap.Error(err))
			}
		}
	}
}
