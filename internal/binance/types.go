package binance

const (
	OrderTypeLimit = "LIMIT"
	OrderSideBuy   = "BUY"
	OrderSideSell  = "SELL"
	TimeInForceGTC = "GTC"
	OrderStatusNew = "NEW"
)

// Client is the gateway through which all venue operations are performed.
// The engine depends on this interface; RestClient talks to the live venue and
// SimClient is the local-development substitute.
type Client interface {
	GetServerTime() (int64, error)
	GetTickerPrice(symbol string) (*TickerPrice, error)
	GetOpenOrders() ([]Order, error)
	GetMyTrades(symbol string) ([]Trade, error)
	GetAccountInfo() (*AccountInfo, error)
	CreateLimitOrder(symbol, side string, quantity, price float64) (*CreateOrderResponse, error)
}

// TickerPrice represents the response for a single ticker price.
type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Order represents an order as reported by the exchange.
type Order struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	Status        string `json:"status"`
	TimeInForce   string `json:"timeInForce"`
	Type          string `json:"type"`
	Side          string `json:"side"`
	Time          int64  `json:"time"`
}

// Trade represents a single fill from the account's trade history.
type Trade struct {
	ID       int64  `json:"id"`
	Symbol   string `json:"symbol"`
	OrderID  int64  `json:"orderId"`
	Price    string `json:"price"`
	Qty      string `json:"qty"`
	QuoteQty string `json:"quoteQty"`
	Time     int64  `json:"time"`
	IsBuyer  bool   `json:"isBuyer"`
	IsMaker  bool   `json:"isMaker"`
}

// Balance is a single asset balance within the account.
type Balance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// AccountInfo represents the account endpoint response.
type AccountInfo struct {
	CanTrade    bool      `json:"canTrade"`
	UpdateTime  int64     `json:"updateTime"`
	AccountType string    `json:"accountType"`
	Balances    []Balance `json:"balances"`
}

// CreateOrderResponse represents the response from creating a new order.
type CreateOrderResponse struct {
	Symbol              string `json:"symbol"`
	OrderID             int64  `json:"orderId"`
	ClientOrderID       string `json:"clientOrderId"`
	TransactTime        int64  `json:"transactTime"`
	Price               string `json:"price"`
	OrigQuantity        string `json:"origQty"`
	ExecutedQuantity    string `json:"executedQty"`
	CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
	Status              string `json:"status"`
	TimeInForce         string `json:"timeInForce"`
	Type                string `json:"type"`
	Side                string `json:"side"`
}
