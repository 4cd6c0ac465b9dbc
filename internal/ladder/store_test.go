package ladder

import (
	"testing"

	"binance-ladder-bot-go/internal/binance"
	"binance-ladder-bot-go/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *GormStore {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.OrderRecord{}))
	return NewGormStore(db, zap.NewNop())
}

func TestGormStore_LoadAllEmpty(t *testing.T) {
	store := setupStore(t)

	records, err := store.LoadAll()
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestGormStore_SaveAndLoadRoundTrip(t *testing.T) {
	store := setupStore(t)

	exchangeID := int64(42)
	in := []models.OrderRecord{
		{
			ID: "BTCEUR-BUY-1000", Symbol: "BTCEUR", Side: binance.OrderSideBuy,
			Price: "45000", Quantity: "0.001", CreatedAt: 1000,
			ExchangeOrderID: &exchangeID, Status: models.StatusCreated,
		},
		{
			ID: "ADAEUR-BUY-2000", Symbol: "ADAEUR", Side: binance.OrderSideBuy,
			Price: "0.36", Quantity: "100", CreatedAt: 2000,
			Status: models.StatusFailed,
		},
	}
	assert.NoError(t, store.SaveAll(in))

	out, err := store.LoadAll()
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	// Oldest first.
	assert.Equal(t, "BTCEUR-BUY-1000", out[0].ID)
	if assert.NotNil(t, out[0].ExchangeOrderID) {
		assert.Equal(t, int64(42), *out[0].ExchangeOrderID)
	}
	assert.Equal(t, "ADAEUR-BUY-2000", out[1].ID)
	assert.Nil(t, out[1].ExchangeOrderID)
	assert.Equal(t, models.StatusFailed, out[1].Status)
}

func TestGormStore_SaveAllUpdatesExistingRecords(t *testing.T) {
	store := setupStore(t)

	assert.NoError(t, store.SaveAll([]models.OrderRecord{
		{
			ID: "BTCEUR-BUY-1000", Symbol: "BTCEUR", Side: binance.OrderSideBuy,
			Price: "45000", Quantity: "0.001", CreatedAt: 1000, Status: models.StatusPending,
		},
	}))

	records, err := store.LoadAll()
	assert.NoError(t, err)

	exchangeID := int64(99)
	records[0].Status = models.StatusCreated
	records[0].ExchangeOrderID = &exchangeID
	assert.NoError(t, store.SaveAll(records))

	out, err := store.LoadAll()
	assert.NoError(t, err)
	assert.Len(t, out, 1, "rewriting the full set must not duplicate records")
	assert.Equal(t, models.StatusCreated, out[0].Status)
	if assert.NotNil(t, out[0].ExchangeOrderID) {
		assert.Equal(t, int64(99), *out[0].ExchangeOrderID)
	}
}

func TestGormStore_LoadAllTreatsUnreadableStorageAsEmpty(t *testing.T) {
	// A database without the records table simulates unreadable storage; the
	// store must report an empty history rather than failing the pass.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	store := NewGormStore(db, zap.NewNop())

	records, err := store.LoadAll()
	assert.NoError(t, err)
	assert.Empty(t, records)
}
