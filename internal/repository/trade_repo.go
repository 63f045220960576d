package repository

import (
	"github.com/fuel-spark/orderbook-indexer/internal/apperrors"
	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TradeRepository provides all persistence operations on the trades table.
type TradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Find lists trades in marketID, newest first.
func (r *TradeRepository) Find(marketID string, limit, offset int) ([]model.Trade, error) {
	var trades []model.Trade
	err := r.db.Where("market_id = ?", marketID).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&trades).Error
	if err != nil {
		return nil, apperrors.Database("list trades", err)
	}
	return trades, nil
}

// Insert upserts a single trade, no-op on trade_id conflict.
func (r *TradeRepository) Insert(trade model.Trade) error {
	return r.InsertMany([]model.Trade{trade})
}

// InsertMany upserts a batch of trades, no-op on trade_id conflict and on
// an empty slice.
func (r *TradeRepository) InsertMany(trades []model.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trade_id"}},
		DoNothing: true,
	}).Create(&trades).Error
	if err != nil {
		return apperrors.Database("insert trades", err)
	}
	return nil
}

// DeleteMany removes every trade in marketID at or after fromBlock — used
// by reorg-prune at indexer startup.
func (r *TradeRepository) DeleteMany(marketID string, fromBlock int64) error {
	err := r.db.Where("market_id = ? AND block_number >= ?", marketID, fromBlock).Delete(&model.Trade{}).Error
	if err != nil {
		return apperrors.Database("prune trades", err)
	}
	return nil
}
