package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"binance-ladder-bot-go/internal/binance"
	"binance-ladder-bot-go/internal/config"
	"binance-ladder-bot-go/internal/database"
	"binance-ladder-bot-go/internal/ladder"
	"binance-ladder-bot-go/internal/logger"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Choose the venue client at construction time: the simulated in-memory
	// venue for local development, the live REST client otherwise.
	var client binance.Client
	if cfg.Trading.Simulation {
		log.Warn("Simulation mode enabled, using the in-memory venue")
		fillDelay := time.Duration(cfg.Trading.TickInterval) * time.Second
		client = binance.NewSimClient(nil, fillDelay, log)
	} else {
		restClient := binance.NewRestClient(&cfg.Binance, log)
		if _, err := restClient.GetServerTime(); err != nil {
			log.Fatal("Failed to connect to Binance API", zap.Error(err))
		}
		log.Info("Successfully connected to Binance API.")
		client = restClient
	}

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Initialize and run the lifecycle engine
	store := ladder.NewGormStore(db, log)
	engine := ladder.NewEngine(log, &cfg, client, store)

	apiServer := ladder.NewAPIServer(engine, log)
	apiServer.Start()

	engine.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server", zap.Error(err))
	}

	log.Info("Bot has been shut down.")
}
