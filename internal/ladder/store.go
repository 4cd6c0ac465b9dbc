package ladder

import (
	"fmt"

	"binance-ladder-bot-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store persists the tracked order records. The engine is the only writer;
// the full record set is read and rewritten on every pass.
type Store interface {
	// LoadAll returns every persisted record, oldest first. Missing or
	// unreadable storage yields an empty list, never an error.
	LoadAll() ([]models.OrderRecord, error)

	// SaveAll writes the full record set atomically.
	SaveAll(records []models.OrderRecord) error
}

// GormStore is the sqlite-backed record store.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a record store on the given database handle.
func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	return &GormStore{db: db, logger: logger}
}

// LoadAll reads the complete record history. A read failure is logged and
// treated as an empty history rather than aborting the pass.
func (s *GormStore) LoadAll() ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	if err := s.db.Order("created_at asc").Find(&records).Error; err != nil {
		s.logger.Warn("Could not read order records, treating storage as empty", zap.Error(err))
		return []models.OrderRecord{}, nil
	}
	return records, nil
}

// SaveAll upserts every record in a single transaction.
func (s *GormStore) SaveAll(records []models.OrderRecord) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Save(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save order records: %w", err)
	}
	return nil
}
