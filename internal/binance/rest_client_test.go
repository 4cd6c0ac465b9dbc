package binance

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"binance-ladder-bot-go/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a RestClient configured to use it.
func setupTestServer(handler http.Handler) (*RestClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	client := resty.New().SetBaseURL(server.URL)
	logger := zap.NewNop() // Use a no-op logger for tests

	rc := &RestClient{
		client:    client,
		apiKey:    "test_api_key",
		secretKey: "test_secret_key",
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}

	return rc, server
}

func TestGetServerTime(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		expectedTime := time.Now().UnixMilli()
		mockResponse := fmt.Sprintf(`{"serverTime": %d}`, expectedTime)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/time", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(mockResponse))
		})

		rc, server := setupTestServer(handler)
		defer server.Close()

		// Act
		serverTime, err := rc.GetServerTime()

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, expectedTime, serverTime)
	})

	t.Run("APIError", func(t *testing.T) {
		// Arrange
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/time", r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code": -1001, "msg": "Bad request"}`))
		})

		rc, server := setupTestServer(handler)
		defer server.Close()

		// Act
		serverTime, err := rc.GetServerTime()

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get server time")
		assert.Contains(t, err.Error(), "request failed") // Check for the error from doRequest
		assert.Equal(t, int64(0), serverTime)
	})
}

func TestGetTickerPrice(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ticker/price", r.URL.Path)
			assert.Equal(t, "BTCEUR", r.URL.Query().Get("symbol"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"symbol": "BTCEUR", "price": "62000.00"}`))
		})

		rc, server := setupTestServer(handler)
		defer server.Close()

		ticker, err := rc.GetTickerPrice("BTCEUR")

		assert.NoError(t, err)
		assert.Equal(t, "BTCEUR", ticker.Symbol)
		assert.Equal(t, "62000.00", ticker.Price)
	})

	t.Run("APIError", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code": -1121, "msg": "Invalid symbol."}`))
		})

		rc, server := setupTestServer(handler)
		defer server.Close()

		ticker, err := rc.GetTickerPrice("NOPE")

		assert.Error(t, err)
		assert.Nil(t, ticker)
	})
}

func TestGetOpenOrders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openOrders", r.URL.Path)
		assert.Equal(t, "test_api_key", r.Header.Get("X-MBX-APIKEY"))

		// Authenticated endpoint: timestamp, recvWindow and signature must be present.
		q := r.URL.Query()
		assert.NotEmpty(t, q.Get("timestamp"))
		assert.Equal(t, recvWindow, q.Get("recvWindow"))
		assert.NotEmpty(t, q.Get("signature"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol": "BTCEUR", "orderId": 555, "price": "45000.00", "origQty": "0.001", "status": "NEW", "side": "BUY"}
		]`))
	})

	rc, server := setupTestServer(handler)
	defer server.Close()

	orders, err := rc.GetOpenOrders()

	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int64(555), orders[0].OrderID)
	assert.Equal(t, "BTCEUR", orders[0].Symbol)
}

func TestGetMyTrades(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/myTrades", r.URL.Path)
		assert.Equal(t, "ADAEUR", r.URL.Query().Get("symbol"))
		assert.NotEmpty(t, r.URL.Query().Get("signature"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "symbol": "ADAEUR", "orderId": 700, "price": "0.38", "qty": "500", "time": 1700000000000, "isBuyer": true}
		]`))
	})

	rc, server := setupTestServer(handler)
	defer server.Close()

	trades, err := rc.GetMyTrades("ADAEUR")

	assert.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, "0.38", trades[0].Price)
	assert.True(t, trades[0].IsBuyer)
}

func TestCreateLimitOrder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/order", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test_api_key", r.Header.Get("X-MBX-APIKEY"))

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "BTCEUR", r.PostForm.Get("symbol"))
		assert.Equal(t, OrderSideBuy, r.PostForm.Get("side"))
		assert.Equal(t, OrderTypeLimit, r.PostForm.Get("type"))
		assert.Equal(t, TimeInForceGTC, r.PostForm.Get("timeInForce"))
		assert.Equal(t, "45000.00", r.PostForm.Get("price"))
		assert.NotEmpty(t, r.PostForm.Get("quantity"))
		assert.NotEmpty(t, r.PostForm.Get("signature"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol": "BTCEUR", "orderId": 123, "status": "NEW", "side": "BUY", "type": "LIMIT"}`))
	})

	rc, server := setupTestServer(handler)
	defer server.Close()

	resp, err := rc.CreateLimitOrder("BTCEUR", OrderSideBuy, 0.001, 45000)

	assert.NoError(t, err)
	assert.Equal(t, int64(123), resp.OrderID)
	assert.Equal(t, OrderStatusNew, resp.Status)
}

func TestNewRestClient(t *testing.T) {
	t.Run("Testnet", func(t *testing.T) {
		cfg := &config.Binance{Testnet: true}
		logger := zap.NewNop()
		rc := NewRestClient(cfg, logger)
		assert.NotNil(t, rc)
		assert.Equal(t, cfg.ApiKey, rc.apiKey)
		assert.Equal(t, cfg.SecretKey, rc.secretKey)
	})

	t.Run("Production", func(t *testing.T) {
		cfg := &config.Binance{Testnet: false}
		logger := zap.NewNop()
		rc := NewRestClient(cfg, logger)
		assert.NotNil(t, rc)
		assert.Equal(t, cfg.ApiKey, rc.apiKey)
		assert.Equal(t, cfg.SecretKey, rc.secretKey)
	})
}
