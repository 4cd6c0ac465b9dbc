package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"binance-ladder-bot-go/internal/binance"
	"binance-ladder-bot-go/internal/config"
	"binance-ladder-bot-go/internal/database"
	"binance-ladder-bot-go/internal/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to the database the bot writes its records to
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// The dashboard reads venue data through the same client selection as the
	// bot, so simulation mode shows simulated balances and prices.
	var client binance.Client
	if cfg.Trading.Simulation {
		log.Warn("Simulation mode enabled, using the in-memory venue")
		client = binance.NewSimClient(nil, time.Minute, log)
	} else {
		client = binance.NewRestClient(&cfg.Binance, log)
	}

	// Setup HTTP server
	mux := http.NewServeMux()

	apiHandler := NewAPIHandler(log, db, client, cfg.Trading.Pairs)

	// API endpoints
	mux.HandleFunc("/api/records", apiHandler.RecordsHandler)
	mux.HandleFunc("/api/stats", apiHandler.StatsHandler)
	mux.HandleFunc("/api/balances", apiHandler.BalancesHandler)
	mux.HandleFunc("/api/prices", apiHandler.PricesHandler)
	mux.HandleFunc("/api/open-orders", apiHandler.OpenOrdersHandler)
	mux.HandleFunc("/api/trades", apiHandler.TradesHandler)

	// Static file serving for CSS, JS, etc.
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	// HTML template serving
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/templates/index.html")
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting web server", zap.String("address", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Web server failed", zap.Error(err))
	}
}
