package ladder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"binance-ladder-bot-go/internal/binance"
	"binance-ladder-bot-go/internal/config"
	"binance-ladder-bot-go/internal/models"
	"go.uber.org/zap"
)

// Engine runs the automated order lifecycle: it places ladder orders around
// the current price, reconciles tracked orders against the venue's open-order
// and trade-history data, and chains a reciprocal order after each confirmed
// fill.
type Engine struct {
	logger *zap.Logger
	cfg    *config.Config
	client binance.Client
	store  Store

	// mu serializes passes; each pass is a full load-mutate-persist cycle
	// over the record set.
	mu sync.Mutex

	StartTime time.Time
}

// NewEngine creates a new lifecycle engine.
func NewEngine(logger *zap.Logger, cfg *config.Config, client binance.Client, store Store) *Engine {
	return &Engine{
		logger:    logger,
		cfg:       cfg,
		client:    client,
		store:     store,
		StartTime: time.Now(),
	}
}

// Run drives the engine until the context is cancelled, invoking a
// reconciliation pass followed by a processing pass every tick.
func (e *Engine) Run(ctx context.Context) {
	interval := time.Duration(e.cfg.Trading.TickInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("Starting ladder loop",
		zap.Duration("interval", interval),
		zap.Strings("pairs", e.cfg.Trading.Pairs))

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping ladder engine...")
			return
		case <-ticker.C:
			if err := e.Reconcile(); err != nil {
				e.logger.Error("Reconciliation pass failed", zap.Error(err))
			}
			e.ProcessAllSymbols()
		}
	}
}

// Reconcile detects fills of previously submitted orders. The open-order list
// is fetched once per pass; trade history is fetched at most once per symbol.
// A CREATED record whose exchange id has left the open list is confirmed
// executed when the trade history contains a fill at its price, at which point
// the reciprocal order is submitted. All record changes from the pass are
// persisted in one batch before returning.
func (e *Engine) Reconcile() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.store.LoadAll()
	if err != nil {
		return fmt.Errorf("could not load order records: %w", err)
	}

	openOrders, err := e.client.GetOpenOrders()
	if err != nil {
		return fmt.Errorf("could not get open orders: %w", err)
	}
	openIDs := make(map[int64]struct{}, len(openOrders))
	for _, o := range openOrders {
		openIDs[o.OrderID] = struct{}{}
	}

	tradeCache := make(map[string][]binance.Trade)

	// Symbols are walked in configured order; a failure for one symbol must
	// not stop reconciliation of the others.
	for _, symbol := range e.cfg.Trading.Pairs {
		created, err := e.reconcileSymbol(records, symbol, openIDs, tradeCache)
		// Records created before a mid-symbol failure are still persisted.
		records = append(records, created...)
		if err != nil {
			e.logger.Error("Reconciliation failed for symbol",
				zap.String("symbol", symbol), zap.Error(err))
		}
	}

	if err := e.store.SaveAll(records); err != nil {
		return fmt.Errorf("could not persist reconciled records: %w", err)
	}
	return nil
}

// reconcileSymbol checks every CREATED record of one symbol and returns the
// reciprocal records it created. Status changes are applied to the records
// slice in place; the caller persists.
func (e *Engine) reconcileSymbol(records []models.OrderRecord, symbol string, openIDs map[int64]struct{}, tradeCache map[string][]binance.Trade) ([]models.OrderRecord, error) {
	var created []models.OrderRecord

	for i := range records {
		rec := &records[i]
		if rec.Symbol != symbol || rec.Status != models.StatusCreated || rec.ExchangeOrderID == nil {
			continue
		}
		if _, stillOpen := openIDs[*rec.ExchangeOrderID]; stillOpen {
			continue
		}

		trades, ok := tradeCache[symbol]
		if !ok {
			var err error
			trades, err = e.client.GetMyTrades(symbol)
			if err != nil {
				return created, fmt.Errorf("could not get trade history: %w", err)
			}
			tradeCache[symbol] = trades
		}

		fill := findFillForRecord(trades, rec.Price)
		if fill == nil {
			// Left the open list but no matching fill yet; the record stays
			// CREATED and the next pass retries the match.
			e.logger.Warn("Order no longer open but no matching fill found",
				zap.String("record", rec.ID),
				zap.String("price", rec.Price))
			continue
		}

		rec.Status = models.StatusExecuted
		rec.CreatedAt = time.Now().UnixMilli()
		e.logger.Info("Order executed",
			zap.String("record", rec.ID),
			zap.String("symbol", symbol),
			zap.String("side", rec.Side),
			zap.String("price", rec.Price))

		qty, err := parseDecimal(rec.Quantity)
		if err != nil {
			e.logger.Error("Executed record has invalid quantity, skipping reciprocal order",
				zap.String("record", rec.ID), zap.Error(err))
			continue
		}

		reciprocal, err := e.submitOrder(symbol, oppositeSide(rec.Side), qty)
		if err != nil {
			// Price unavailable; no record is created and the next pass will
			// place the reciprocal leg from the EXECUTED record.
			e.logger.Error("Could not submit reciprocal order",
				zap.String("record", rec.ID), zap.Error(err))
			continue
		}
		created = append(created, *reciprocal)
	}

	return created, nil
}

// findFillForRecord searches the trade history for a fill at the record's
// price, both rounded to two decimal places. The first match in the venue's
// order wins; quantity and time are not cross-checked, so an unrelated trade
// at a coincidentally equal price can be taken as the fill. Known accuracy
// limitation, kept deliberately simple.
func findFillForRecord(trades []binance.Trade, recordPrice string) *binance.Trade {
	want := priceKey(recordPrice)
	for i := range trades {
		if priceKey(trades[i].Price) == want {
			return &trades[i]
		}
	}
	return nil
}

// ProcessAllSymbols runs the ladder decision for every configured pair in
// order. A failure for one pair never prevents processing of the rest.
func (e *Engine) ProcessAllSymbols() {
	for _, symbol := range e.cfg.Trading.Pairs {
		if err := e.ProcessSymbol(symbol); err != nil {
			e.logger.Error("Processing failed for symbol",
				zap.String("symbol", symbol), zap.Error(err))
		}
	}
}

// ProcessSymbol decides and executes the next ladder action for one pair:
// nothing while an order is open on the venue, an initial buy when the pair
// has no executed history, otherwise the leg opposite the most recent fill.
func (e *Engine) ProcessSymbol(symbol string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	openOrders, err := e.client.GetOpenOrders()
	if err != nil {
		return fmt.Errorf("could not get open orders: %w", err)
	}
	for _, o := range openOrders {
		if o.Symbol == symbol {
			e.logger.Debug("Order already open on the exchange, skipping",
				zap.String("symbol", symbol),
				zap.Int64("exchange_order_id", o.OrderID))
			return nil
		}
	}

	records, err := e.store.LoadAll()
	if err != nil {
		return fmt.Errorf("could not load order records: %w", err)
	}

	var side string
	var qty float64

	last := lastExecuted(records, symbol)
	switch {
	case last == nil:
		side = binance.OrderSideBuy
		qty = defaultQuantity(symbol, e.cfg.Trading.DefaultQuantities, e.cfg.Trading.DefaultQuantity)
		e.logger.Info("No executed orders yet, placing initial buy",
			zap.String("symbol", symbol), zap.Float64("quantity", qty))
	default:
		side = oppositeSide(last.Side)
		qty, err = parseDecimal(last.Quantity)
		if err != nil {
			return fmt.Errorf("last executed record %s has invalid quantity: %w", last.ID, err)
		}
		e.logger.Info("Chaining from last executed order",
			zap.String("symbol", symbol),
			zap.String("last_side", last.Side),
			zap.String("side", side),
			zap.Float64("quantity", qty))
	}

	rec, err := e.submitOrder(symbol, side, qty)
	if err != nil {
		return err
	}

	records = append(records, *rec)
	if err := e.store.SaveAll(records); err != nil {
		return fmt.Errorf("could not persist records: %w", err)
	}
	return nil
}

// submitOrder is the shared submission subroutine. It fetches the live price,
// builds a PENDING record, submits a limit order at the offset price and flips
// the record to CREATED or FAILED. The record is returned for the caller to
// append and persist; if the price is unavailable no record is created.
func (e *Engine) submitOrder(symbol, side string, quantity float64) (*models.OrderRecord, error) {
	ticker, err := e.client.GetTickerPrice(symbol)
	if err != nil {
		return nil, fmt.Errorf("could not get current price for %s: %w", symbol, err)
	}
	current, err := parseDecimal(ticker.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid ticker price for %s: %w", symbol, err)
	}

	target := offsetPrice(current, side, e.cfg.Trading.PriceOffsetPercent)
	now := time.Now()

	rec := models.OrderRecord{
		ID:        models.NewRecordID(symbol, side, now.UnixMilli()),
		Symbol:    symbol,
		Side:      side,
		Price:     formatDecimal(target),
		Quantity:  formatDecimal(quantity),
		CreatedAt: now.UnixMilli(),
		Status:    models.StatusPending,
	}

	l := e.logger.With(
		zap.String("symbol", symbol),
		zap.String("side", side),
		zap.Float64("price", target),
		zap.Float64("quantity", quantity),
	)

	resp, err := e.client.CreateLimitOrder(symbol, side, quantity, target)
	if err != nil {
		// Failed attempts stay in history and are never retried in-pass; the
		// next scheduled pass may place a fresh order.
		l.Error("Order submission failed", zap.Error(err))
		rec.Status = models.StatusFailed
		return &rec, nil
	}

	exchangeID := resp.OrderID
	rec.ExchangeOrderID = &exchangeID
	rec.Status = models.StatusCreated
	l.Info("Order created", zap.Int64("exchange_order_id", exchangeID))
	return &rec, nil
}

// lastExecuted returns the symbol's most recently executed record, by its
// execution-detection timestamp.
func lastExecuted(records []models.OrderRecord, symbol string) *models.OrderRecord {
	var last *models.OrderRecord
	for i := range records {
		rec := &records[i]
		if rec.Symbol != symbol || rec.Status != models.StatusExecuted {
			continue
		}
		if last == nil || rec.CreatedAt > last.CreatedAt {
			last = rec
		}
	}
	return last
}
