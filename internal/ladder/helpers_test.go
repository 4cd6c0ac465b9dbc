package ladder

import (
	"testing"

	"binance-ladder-bot-go/internal/binance"
	"github.com/stretchr/testify/assert"
)

func TestOffsetPrice(t *testing.T) {
	testCases := []struct {
		name     string
		current  float64
		side     string
		offset   float64
		expected float64
	}{
		{"buy sits below market", 50000, binance.OrderSideBuy, 10, 45000},
		{"sell sits above market", 45000, binance.OrderSideSell, 10, 49500},
		{"small offset buy", 0.40, binance.OrderSideBuy, 5, 0.38},
		{"zero offset is the market price", 3400, binance.OrderSideSell, 0, 3400},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, offsetPrice(tc.current, tc.side, tc.offset), 1e-9)
		})
	}
}

func TestOppositeSide(t *testing.T) {
	assert.Equal(t, binance.OrderSideSell, oppositeSide(binance.OrderSideBuy))
	assert.Equal(t, binance.OrderSideBuy, oppositeSide(binance.OrderSideSell))
}

func TestPriceKey(t *testing.T) {
	testCases := []struct {
		name     string
		price    string
		expected string
	}{
		{"integer price", "45000", "45000.00"},
		{"already two decimals", "45000.00", "45000.00"},
		{"rounds extra precision", "0.384", "0.38"},
		{"rounds half up", "0.385", "0.39"},
		{"exponent form", "4.5e4", "45000.00"},
		{"garbage stays as-is", "not-a-price", "not-a-price"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, priceKey(tc.price))
		})
	}
}

func TestPriceKeyMatchesAcrossSources(t *testing.T) {
	// The fill match compares a locally computed price against a venue-quoted
	// one; both must normalize to the same key.
	local := formatDecimal(offsetPrice(50000, binance.OrderSideBuy, 10))
	assert.Equal(t, priceKey("45000.00"), priceKey(local))
}

func TestParseDecimal(t *testing.T) {
	v, err := parseDecimal("0.001")
	assert.NoError(t, err)
	assert.InDelta(t, 0.001, v, 1e-12)

	_, err = parseDecimal("")
	assert.Error(t, err)

	_, err = parseDecimal("-5")
	assert.Error(t, err)

	_, err = parseDecimal("0")
	assert.Error(t, err)
}

func TestDefaultQuantity(t *testing.T) {
	table := map[string]float64{"BTC": 0.001, "ETH": 0.1, "ADA": 100}

	assert.Equal(t, 0.001, defaultQuantity("BTCEUR", table, 0.5))
	assert.Equal(t, 0.1, defaultQuantity("ETHEUR", table, 0.5))
	assert.Equal(t, 100.0, defaultQuantity("ADAEUR", table, 0.5))

	// Unknown assets fall back.
	assert.Equal(t, 0.5, defaultQuantity("SOLEUR", table, 0.5))
	assert.Equal(t, 0.5, defaultQuantity("XRPUSDT", nil, 0.5))
}
