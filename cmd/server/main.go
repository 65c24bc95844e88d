// Package main is the entry point for the AgriMarket price analysis service.
// It watches seller listings, compares their prices against an external
// commodity feed, and notifies sellers whose prices drift off market.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eyaachaabene/agrimarket/internal/clientdata"
	"github.com/eyaachaabene/agrimarket/internal/clients/marketfeed"
	"github.com/eyaachaabene/agrimarket/internal/config"
	"github.com/eyaachaabene/agrimarket/internal/database"
	"github.com/eyaachaabene/agrimarket/internal/modules/listings"
	"github.com/eyaachaabene/agrimarket/internal/modules/notifications"
	notificationhandlers "github.com/eyaachaabene/agrimarket/internal/modules/notifications/handlers"
	"github.com/eyaachaabene/agrimarket/internal/modules/pricing"
	pricinghandlers "github.com/eyaachaabene/agrimarket/internal/modules/pricing/handlers"
	"github.com/eyaachaabene/agrimarket/internal/modules/users"
	"github.com/eyaachaabene/agrimarket/internal/scheduler"
	"github.com/eyaachaabene/agrimarket/internal/server"
	"github.com/eyaachaabene/agrimarket/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting AgriMarket price analysis service")

	// Databases: marketplace.db holds users, listings and notifications;
	// client_data.db caches external feed snapshots.
	marketplaceDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "marketplace.db"),
		Profile: database.ProfileStandard,
		Name:    "marketplace",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open marketplace database")
	}
	defer marketplaceDB.Close()

	clientDataDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "client_data.db"),
		Profile: database.ProfileCache,
		Name:    "client_data",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open client data database")
	}
	defer clientDataDB.Close()

	for _, db := range []*database.DB{marketplaceDB, clientDataDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to migrate database")
		}
	}

	// Repositories
	userRepo := users.NewRepository(marketplaceDB.Conn(), log)
	productRepo := listings.NewProductRepository(marketplaceDB.Conn(), log)
	resourceRepo := listings.NewResourceRepository(marketplaceDB.Conn(), log)
	notificationRepo := notifications.NewRepository(marketplaceDB.Conn(), log)
	cacheRepo := clientdata.NewRepository(clientDataDB.Conn())

	// Market feed client and the analysis core
	feedClient := marketfeed.NewClient(marketfeed.Config{
		BaseURL:  cfg.FeedURL,
		APIKey:   cfg.FeedAPIKey,
		ClientID: cfg.FeedClientID,
		Timeout:  cfg.FeedTimeout,
	}, cacheRepo, log)

	matcher := pricing.NewMatcher(pricing.DefaultAliasTable())

	priceAlertJob := scheduler.NewPriceAlertJob(
		feedClient,
		userRepo,
		productRepo,
		resourceRepo,
		notificationRepo,
		matcher,
		cfg.AlertWindow,
	)
	priceAlertJob.SetLogger(log)

	maintenanceJob := scheduler.NewMaintenanceJob(cacheRepo, map[string]*database.DB{
		"marketplace": marketplaceDB,
		"client_data": clientDataDB,
	})
	maintenanceJob.SetLogger(log)

	// HTTP server
	srv := server.New(server.Config{
		Port: cfg.Port,
		Log:  log,
		PricingHandlers: pricinghandlers.NewHandler(
			priceAlertJob,
			feedClient,
			matcher,
			cfg.CronSecret,
			log,
		),
		NotificationHandlers: notificationhandlers.NewHandler(notificationRepo, log),
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Scheduled analysis runs. The external trigger endpoint remains
	// available either way; the in-process schedule just removes the need
	// for an external cron service.
	var cronRunner *cron.Cron
	if cfg.CronEnabled {
		cronRunner = cron.New()
		_, err := cronRunner.AddFunc(cfg.CronSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			summary, err := priceAlertJob.Run(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Scheduled price analysis failed")
				return
			}
			log.Info().
				Int("users_analyzed", summary.UsersAnalyzed).
				Int("notifications_sent", summary.NotificationsSent).
				Msg("Scheduled price analysis completed")
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.CronSchedule).Msg("Invalid cron schedule")
		}

		// Nightly maintenance, offset from the analysis run.
		_, err = cronRunner.AddFunc("0 2 * * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := maintenanceJob.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Database maintenance failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule maintenance job")
		}

		cronRunner.Start()
		log.Info().Str("schedule", cfg.CronSchedule).Msg("Price analysis schedule started")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	if cronRunner != nil {
		// Stop returns a context that completes when running jobs finish.
		<-cronRunner.Stop().Done()
		log.Info().Msg("Scheduler stopped")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
