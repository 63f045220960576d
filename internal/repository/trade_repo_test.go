package repository

import (
	"testing"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeRepository_InsertMany_IdempotentOnConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewTradeRepository(db)

	tr := model.Trade{TradeID: "t1", MarketID: "m1", OrderID: "o1", Size: 5, Price: 100, Timestamp: time.Now().UTC()}
	require.NoError(t, repo.InsertMany([]model.Trade{tr}))
	require.NoError(t, repo.InsertMany([]model.Trade{tr}))

	var count int64
	require.NoError(t, db.Model(&model.Trade{}).Where("trade_id = ?", "t1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTradeRepository_Find_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewTradeRepository(db)

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()

	require.NoError(t, repo.InsertMany([]model.Trade{
		{TradeID: "t1", MarketID: "m1", OrderID: "o1", Size: 5, Price: 100, Timestamp: older},
		{TradeID: "t2", MarketID: "m1", OrderID: "o1", Size: 5, Price: 100, Timestamp: newer},
	}))

	trades, err := repo.Find("m1", 50, 0)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "t2", trades[0].TradeID)
}

func TestTradeRepository_DeleteMany_Prune(t *testing.T) {
	db := newTestDB(t)
	repo := NewTradeRepository(db)

	require.NoError(t, repo.InsertMany([]model.Trade{
		{TradeID: "t1", MarketID: "m1", OrderID: "o1", BlockNumber: 10, Timestamp: time.Now().UTC()},
		{TradeID: "t2", MarketID: "m1", OrderID: "o1", BlockNumber: 20, Timestamp: time.Now().UTC()},
	}))

	require.NoError(t, repo.DeleteMany("m1", 15))

	var count int64
	require.NoError(t, db.Model(&model.Trade{}).Where("market_id = ?", "m1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
