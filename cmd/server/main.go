package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockfolio/internal/clients/marketdata"
	"github.com/stockfolio/internal/config"
	"github.com/stockfolio/internal/database"
	"github.com/stockfolio/internal/events"
	"github.com/stockfolio/internal/modules/charts"
	"github.com/stockfolio/internal/modules/portfolio"
	"github.com/stockfolio/internal/scheduler"
	"github.com/stockfolio/internal/server"
	"github.com/stockfolio/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting Stockfolio")

	eventMgr := events.NewManager(log)

	// Market data client
	fetchTimeout := time.Duration(cfg.FetchTimeout) * time.Second
	marketClient := marketdata.NewClient(cfg.MarketDataURL, fetchTimeout, log)

	// Holdings store: local SQLite by default, remote backend when
	// configured. Both persist the same ordered sequence behind one
	// interface.
	var store portfolio.Store
	var db *database.DB
	switch cfg.StoreBackend {
	case config.StoreRemote:
		store = portfolio.NewRemoteStore(cfg.RemoteStoreURL, fetchTimeout, log)
		log.Info().Str("url", cfg.RemoteStoreURL).Msg("Using remote holdings store")
	default:
		db, err = database.New(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}

		store = portfolio.NewSQLiteStore(db, log)
		log.Info().Str("path", cfg.DatabasePath).Msg("Using SQLite holdings store")
	}

	// Portfolio engine
	engine := portfolio.NewEngine(store, marketClient, eventMgr, log)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	hasHoldings, err := engine.Load(startupCtx)
	startupCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load portfolio")
	}

	// Scheduler with the periodic refresh job
	sched := scheduler.New(log)
	refreshJob := scheduler.NewRefreshJob(engine, 2*time.Minute, log)
	refreshSchedule := fmt.Sprintf("@every %ds", cfg.RefreshInterval)
	if err := sched.AddJob(refreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}

	// Refresh once at startup when the persisted portfolio is non-empty
	if hasHoldings {
		if err := sched.RunNow(refreshJob); err != nil {
			log.Warn().Err(err).Msg("Startup refresh failed, serving persisted values")
		}
	}

	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:             cfg.Port,
		Log:              log,
		PortfolioHandler: portfolio.NewHandler(engine, log),
		ChartsHandler:    charts.NewHandler(marketClient, log),
		DevMode:          cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
