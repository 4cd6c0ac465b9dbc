package models

import "fmt"

// Order record lifecycle statuses. Transitions are monotonic:
// PENDING -> CREATED or FAILED, CREATED -> EXECUTED. EXECUTED and FAILED are terminal.
const (
	StatusPending  = "PENDING"
	StatusCreated  = "CREATED"
	StatusExecuted = "EXECUTED"
	StatusFailed   = "FAILED"
)

// OrderRecord is a locally tracked automated order. Records are an append-only
// history: they are never deleted, and the full set is read and rewritten on
// every engine pass.
type OrderRecord struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Symbol   string `gorm:"index;not null" json:"symbol"`
	Side     string `gorm:"not null" json:"side"` // "BUY" or "SELL"
	Price    string `json:"price"`
	Quantity string `json:"quantity"`

	// CreatedAt is the record creation time in unix milliseconds. On the
	// transition to EXECUTED it is overwritten with the fill detection time.
	CreatedAt int64 `gorm:"autoCreateTime:false" json:"createdAt"`

	// ExchangeOrderID is assigned by the exchange once submission succeeds.
	// It is nil while PENDING and stays nil on FAILED records.
	ExchangeOrderID *int64 `json:"exchangeOrderId,omitempty"`

	Status string `gorm:"index;not null" json:"status"`
}

// NewRecordID builds the record identifier from symbol, side and the creation
// time in unix milliseconds.
func NewRecordID(symbol, side string, unixMilli int64) string {
	return fmt.Sprintf("%s-%s-%d", symbol, side, unixMilli)
}

// IsOpen reports whether the record still occupies the symbol's single open
// slot (submission in flight or resting on the exchange).
func (r *OrderRecord) IsOpen() bool {
	return r.Status == StatusPending || r.Status == StatusCreated
}
