package main

import (
	"encoding/json"
	"net/http"

	"binance-ladder-bot-go/internal/binance"
	"binance-ladder-bot-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log    *zap.Logger
	db     *gorm.DB
	client binance.Client
	pairs  []string
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, db *gorm.DB, client binance.Client, pairs []string) *APIHandler {
	return &APIHandler{log: log, db: db, client: client, pairs: pairs}
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

// RecordsHandler returns all tracked automated order records, newest first.
func (h *APIHandler) RecordsHandler(w http.ResponseWriter, r *http.Request) {
	var records []models.OrderRecord
	if err := h.db.Order("created_at desc").Find(&records).Error; err != nil {
		h.log.Error("Failed to get order records from database", zap.Error(err))
		http.Error(w, "Failed to get records", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, records)
}

// StatsDetail holds record counts for one symbol.
type StatsDetail struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Created  int64 `json:"created"`
	Executed int64 `json:"executed"`
	Failed   int64 `json:"failed"`
	Buys     int64 `json:"buys"`
	Sells    int64 `json:"sells"`
}

// StatsResponse is the structure for the /api/stats endpoint.
type StatsResponse struct {
	All       StatsDetail            `json:"all"`
	PerSymbol map[string]StatsDetail `json:"per_symbol"`
}

// StatsHandler aggregates the record history into per-status and per-side
// counts, overall and per symbol.
func (h *APIHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	var records []models.OrderRecord
	if err := h.db.Find(&records).Error; err != nil {
		h.log.Error("Failed to get records for statistics", zap.Error(err))
		http.Error(w, "Failed to calculate statistics", http.StatusInternalServerError)
		return
	}

	response := StatsResponse{PerSymbol: make(map[string]StatsDetail)}

	tally := func(d *StatsDetail, rec *models.OrderRecord) {
		d.Total++
		switch rec.Status {
		case models.StatusPending:
			d.Pending++
		case models.StatusCreated:
			d.Created++
		case models.StatusExecuted:
			d.Executed++
		case models.StatusFailed:
			d.Failed++
		}
		if rec.Side == binance.OrderSideBuy {
			d.Buys++
		} else {
			d.Sells++
		}
	}

	for i := range records {
		rec := &records[i]
		tally(&response.All, rec)
		detail := response.PerSymbol[rec.Symbol]
		tally(&detail, rec)
		response.PerSymbol[rec.Symbol] = detail
	}

	h.writeJSON(w, response)
}

// BalancesHandler returns the account's asset balances.
func (h *APIHandler) BalancesHandler(w http.ResponseWriter, r *http.Request) {
	account, err := h.client.GetAccountInfo()
	if err != nil {
		h.log.Error("Failed to get account info", zap.Error(err))
		http.Error(w, "Failed to get balances", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, account.Balances)
}

// PricesHandler returns the current price of every supported pair. Pairs whose
// price fetch fails are omitted rather than failing the whole response.
func (h *APIHandler) PricesHandler(w http.ResponseWriter, r *http.Request) {
	prices := make([]binance.TickerPrice, 0, len(h.pairs))
	for _, symbol := range h.pairs {
		ticker, err := h.client.GetTickerPrice(symbol)
		if err != nil {
			h.log.Warn("Failed to get price", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		prices = append(prices, *ticker)
	}
	h.writeJSON(w, prices)
}

// OpenOrdersHandler returns the venue's open orders for the supported pairs.
func (h *APIHandler) OpenOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := h.client.GetOpenOrders()
	if err != nil {
		h.log.Error("Failed to get open orders", zap.Error(err))
		http.Error(w, "Failed to get open orders", http.StatusInternalServerError)
		return
	}

	supported := make(map[string]struct{}, len(h.pairs))
	for _, p := range h.pairs {
		supported[p] = struct{}{}
	}
	filtered := make([]binance.Order, 0, len(orders))
	for _, o := range orders {
		if _, ok := supported[o.Symbol]; ok {
			filtered = append(filtered, o)
		}
	}
	h.writeJSON(w, filtered)
}

// TradesHandler returns the trade history for the symbol given in the query.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "symbol query parameter is required", http.StatusBadRequest)
		return
	}

	trades, err := h.client.GetMyTrades(symbol)
	if err != nil {
		h.log.Error("Failed to get trade history", zap.String("symbol", symbol), zap.Error(err))
		http.Error(w, "Failed to get trade history", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, trades)
}
