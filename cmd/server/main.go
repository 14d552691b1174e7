package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcenter "github.com/bloodbank/backend/internal/application/center"
	appdonation "github.com/bloodbank/backend/internal/application/donation"
	appidentity "github.com/bloodbank/backend/internal/application/identity"
	appinv "github.com/bloodbank/backend/internal/application/inventory"
	apprequest "github.com/bloodbank/backend/internal/application/request"
	"github.com/bloodbank/backend/internal/domain/donor"
	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/bloodbank/backend/internal/infrastructure/auth"
	"github.com/bloodbank/backend/internal/infrastructure/cache"
	"github.com/bloodbank/backend/internal/infrastructure/config"
	"github.com/bloodbank/backend/internal/infrastructure/logger"
	"github.com/bloodbank/backend/internal/infrastructure/notification"
	"github.com/bloodbank/backend/internal/infrastructure/persistence"
	"github.com/bloodbank/backend/internal/infrastructure/scheduler"
	"github.com/bloodbank/backend/internal/interfaces/http/handler"
	"github.com/bloodbank/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version))

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormLogLevel := gormlogger.Warn
	if cfg.App.Env == "development" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(cfg.Database, logger.NewGormLogger(log, gormLogLevel))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Outside development the schema is managed by cmd/migrate
	if cfg.App.Env == "development" {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		if err := persistence.SeedBloodTypes(ctx, db.DB); err != nil {
			return fmt.Errorf("blood type seeding failed: %w", err)
		}
	}

	var statsCache appinv.StatisticsCache
	if redisCache, err := cache.NewRedisStatisticsCache(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory statistics cache", zap.Error(err))
		statsCache = cache.NewInMemoryStatisticsCache()
	} else {
		statsCache = redisCache
	}

	var notifier appdonation.Notifier
	if cfg.Notification.Enabled {
		notifier = notification.NewSMTPNotifier(cfg.Notification)
	} else {
		notifier = notification.NewLogNotifier(log)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	bloodTypeRepo := persistence.NewGormBloodTypeRepository(db.DB)
	unitRepo := persistence.NewGormBloodUnitRepository(db.DB)
	donorRepo := persistence.NewGormDonorRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	centerRepo := persistence.NewGormMedicalCenterRepository(db.DB)
	requestRepo := persistence.NewGormBloodRequestRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	inventoryPolicy := appinv.Policy{
		StockThresholds: inventory.StockThresholds{
			Low:  cfg.Policy.LowStockThreshold,
			High: cfg.Policy.HighStockThreshold,
		},
		NearExpiryWindow: cfg.Policy.NearExpiryWindow,
		StatisticsTTL:    cfg.Policy.StatisticsCacheTTL,
	}
	eligibilityPolicy := donor.EligibilityPolicy{
		MinAge:      cfg.Policy.MinDonorAge,
		MaxAge:      cfg.Policy.MaxDonorAge,
		MinWeightKg: decimal.NewFromFloat(cfg.Policy.MinDonorWeightKg),
		MinInterval: cfg.Policy.MinDonationInterval,
	}

	inventoryService := appinv.NewInventoryService(unitRepo, bloodTypeRepo, inventoryPolicy, log)
	inventoryService.SetStatisticsCache(statsCache)

	donationService := appdonation.NewDonationService(
		donorRepo, appointmentRepo, centerRepo, bloodTypeRepo, txScope, eligibilityPolicy, log)
	donationService.SetNotifier(notifier)

	requestService := apprequest.NewRequestService(requestRepo, unitRepo, bloodTypeRepo, log)
	centerService := appcenter.NewCenterService(centerRepo, log)
	authService := appidentity.NewAuthService(userRepo, jwtService, log)

	var sweeper *scheduler.ExpirySweeper
	if cfg.Scheduler.Enabled {
		sweeper = scheduler.NewExpirySweeper(cfg.Scheduler, inventoryService, log)
		if cfg.Notification.Enabled {
			sweeper.SetNotifier(notifier, cfg.Notification.From)
		}
		if err := sweeper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start expiry sweeper: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := sweeper.Stop(stopCtx); err != nil {
				log.Error("Failed to stop expiry sweeper", zap.Error(err))
			}
		}()
	}

	handlers := router.Handlers{
		System:    handler.NewSystemHandler(db, cfg.App.Name, version, log),
		Auth:      handler.NewAuthHandler(authService, log),
		BloodType: handler.NewBloodTypeHandler(bloodTypeRepo, log),
		Inventory: handler.NewInventoryHandler(inventoryService, log),
		Donation:  handler.NewDonationHandler(donationService, log),
		Request:   handler.NewRequestHandler(requestService, log),
		Center:    handler.NewCenterHandler(centerService, log),
	}

	engine := router.New(cfg, handlers, jwtService, log)

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
