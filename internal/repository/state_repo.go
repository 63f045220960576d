package repository

import (
	"errors"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/apperrors"
	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateRepository persists the durable per-market ingestion cursor.
type StateRepository struct {
	db *gorm.DB
}

func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{db: db}
}

// FindLatestProcessedBlock returns the last block a market's dispatcher
// successfully committed, or nil if the market has never been indexed.
func (r *StateRepository) FindLatestProcessedBlock(marketID string) (*int64, error) {
	var s model.State
	err := r.db.Where("market_id = ?", marketID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Database("find latest processed block", err)
	}
	return &s.LatestProcessedBlock, nil
}

// UpsertLatestProcessedBlock advances (or creates) the cursor for
// marketID. Called unconditionally at the end of every Dispatch, even
// when earlier phases partially failed.
func (r *StateRepository) UpsertLatestProcessedBlock(marketID string, block int64) error {
	s := model.State{
		MarketID:             marketID,
		LatestProcessedBlock: block,
		Timestamp:            time.Now().UTC(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "market_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"latest_processed_block", "timestamp"}),
	}).Create(&s).Error
	if err != nil {
		return apperrors.Database("upsert latest processed block", err)
	}
	return nil
}
