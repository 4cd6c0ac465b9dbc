package ladder

import (
	"fmt"
	"strconv"
	"strings"

	"binance-ladder-bot-go/internal/binance"
)

// offsetPrice computes the limit price for a ladder order: buys sit
// offsetPercent below the current price, sells the same distance above.
func offsetPrice(current float64, side string, offsetPercent float64) float64 {
	if side == binance.OrderSideBuy {
		return current * (1 - offsetPercent/100)
	}
	return current * (1 + offsetPercent/100)
}

// oppositeSide returns the reciprocal side for a confirmed fill.
func oppositeSide(side string) string {
	if side == binance.OrderSideBuy {
		return binance.OrderSideSell
	}
	return binance.OrderSideBuy
}

// priceKey normalizes a decimal price string to two decimal places so that
// prices from different sources compare equal. Unparseable input is returned
// as-is and will simply never match.
func priceKey(price string) string {
	f, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return price
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// parseDecimal parses a decimal string into a positive float.
func parseDecimal(value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q: %w", value, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("decimal %q is not positive", value)
	}
	return f, nil
}

// formatDecimal renders a float as the shortest decimal string that
// round-trips.
func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// defaultQuantity looks up the initial order size for a symbol. The table is
// keyed by asset prefix ("BTC" matches "BTCEUR"), so one entry covers every
// quote currency of an asset.
func defaultQuantity(symbol string, table map[string]float64, fallback float64) float64 {
	for asset, qty := range table {
		if strings.HasPrefix(symbol, asset) {
			return qty
		}
	}
	return fallback
}
