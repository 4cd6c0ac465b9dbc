package binance

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSimPrices seeds the simulated venue with plausible ticker prices.
var DefaultSimPrices = map[string]string{
	"ADAEUR": "0.40",
	"BTCEUR": "62000.00",
	"ETHEUR": "3400.00",
}

// SimClient is an in-memory venue substitute for local development. Submitted
// orders rest in the open-order list and fill at their limit price once
// fillDelay has elapsed, after which they appear in the trade history. This
// lets the whole order lifecycle run without credentials or network access.
type SimClient struct {
	mu        sync.Mutex
	logger    *zap.Logger
	prices    map[string]string
	open      []Order
	trades    map[string][]Trade
	fillDelay time.Duration
	nextTrade int64
}

var _ Client = (*SimClient)(nil)

// NewSimClient creates a simulated venue. A zero fillDelay fills orders on the
// next open-order poll.
func NewSimClient(prices map[string]string, fillDelay time.Duration, logger *zap.Logger) *SimClient {
	if prices == nil {
		prices = DefaultSimPrices
	}
	return &SimClient{
		logger:    logger.Named("sim"),
		prices:    prices,
		trades:    make(map[string][]Trade),
		fillDelay: fillDelay,
		nextTrade: 1,
	}
}

func (c *SimClient) GetServerTime() (int64, error) {
	return time.Now().UnixMilli(), nil
}

func (c *SimClient) GetTickerPrice(symbol string) (*TickerPrice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	price, ok := c.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no simulated price for symbol %s", symbol)
	}
	return &TickerPrice{Symbol: symbol, Price: price}, nil
}

// GetOpenOrders returns resting orders, filling any that have waited out the
// fill delay before reporting.
func (c *SimClient) GetOpenOrders() ([]Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settle()

	out := make([]Order, len(c.open))
	copy(out, c.open)
	return out, nil
}

func (c *SimClient) GetMyTrades(symbol string) ([]Trade, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settle()

	out := make([]Trade, len(c.trades[symbol]))
	copy(out, c.trades[symbol])
	return out, nil
}

func (c *SimClient) GetAccountInfo() (*AccountInfo, error) {
	return &AccountInfo{
		CanTrade:    true,
		UpdateTime:  time.Now().UnixMilli(),
		AccountType: "SPOT",
		Balances: []Balance{
			{Asset: "EUR", Free: "10000.00", Locked: "0.00"},
			{Asset: "BTC", Free: "0.05", Locked: "0.00"},
			{Asset: "ADA", Free: "500.00", Locked: "0.00"},
		},
	}, nil
}

func (c *SimClient) CreateLimitOrder(symbol, side string, quantity, price float64) (*CreateOrderResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.prices[symbol]; !ok {
		return nil, fmt.Errorf("symbol %s is not supported by the simulated venue", symbol)
	}

	now := time.Now()
	order := Order{
		Symbol:        symbol,
		OrderID:       rand.Int63n(1_000_000),
		ClientOrderID: fmt.Sprintf("sim-%d", now.UnixMilli()),
		Price:         strconv.FormatFloat(price, 'f', -1, 64),
		OrigQty:       strconv.FormatFloat(quantity, 'f', -1, 64),
		ExecutedQty:   "0",
		Status:        OrderStatusNew,
		TimeInForce:   TimeInForceGTC,
		Type:          OrderTypeLimit,
		Side:          side,
		Time:          now.UnixMilli(),
	}
	c.open = append(c.open, order)

	c.logger.Info("Accepted simulated order",
		zap.String("symbol", symbol),
		zap.String("side", side),
		zap.String("price", order.Price),
		zap.String("quantity", order.OrigQty),
	)

	return &CreateOrderResponse{
		Symbol:        symbol,
		OrderID:       order.OrderID,
		ClientOrderID: order.ClientOrderID,
		TransactTime:  now.UnixMilli(),
		Price:         order.Price,
		OrigQuantity:  order.OrigQty,
		Status:        OrderStatusNew,
		TimeInForce:   TimeInForceGTC,
		Type:          OrderTypeLimit,
		Side:          side,
	}, nil
}

// settle moves resting orders older than the fill delay into the trade
// history at their limit price. Callers must hold the mutex.
func (c *SimClient) settle() {
	cutoff := time.Now().Add(-c.fillDelay).UnixMilli()

	remaining := c.open[:0]
	for _, o := range c.open {
		if o.Time > cutoff {
			remaining = append(remaining, o)
			continue
		}

		price, _ := strconv.ParseFloat(o.Price, 64)
		qty, _ := strconv.ParseFloat(o.OrigQty, 64)
		c.trades[o.Symbol] = append(c.trades[o.Symbol], Trade{
			ID:       c.nextTrade,
			Symbol:   o.Symbol,
			OrderID:  o.OrderID,
			Price:    o.Price,
			Qty:      o.OrigQty,
			QuoteQty: strconv.FormatFloat(price*qty, 'f', -1, 64),
			Time:     time.Now().UnixMilli(),
			IsBuyer:  o.Side == OrderSideBuy,
			IsMaker:  true,
		})
		c.nextTrade++

		c.logger.Info("Filled simulated order",
			zap.String("symbol", o.Symbol),
			zap.String("side", o.Side),
			zap.String("price", o.Price),
		)
	}
	c.open = remaining
}
