package dispatcher

import (
	"testing"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/fuel-spark/orderbook-indexer/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDispatcher(t *testing.T, marketID string) (*Dispatcher, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.Trade{}, &model.State{}))

	orders := repository.NewOrderRepository(db)
	trades := repository.NewTradeRepository(db)
	state := repository.NewStateRepository(db)

	return New(marketID, orders, trades, state), db
}

func TestDispatch_OpenThenTradeThenCancel_SingleBlock(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")

	order := model.Order{
		OrderID: "o1", MarketID: "m1", OrderType: model.OrderSideBuy,
		Status: model.OrderStatusNew, Amount: 10, Price: 100, Timestamp: time.Now().UTC(),
	}
	trade := model.Trade{
		TradeID: "t1", MarketID: "m1", OrderID: "o1", LimitType: model.LimitTypeGTC,
		Size: 4, Price: 100, Timestamp: time.Now().UTC(),
	}

	// Add in Cancel -> Trade -> Open arrival order to prove Dispatch
	// re-groups by phase regardless of insertion order.
	d.Add(Update{Kind: UpdateCancelOrder, CancelOrderID: "ghost"})
	d.Add(Update{Kind: UpdateTrade, Trade: trade})
	d.Add(Update{Kind: UpdateOpenOrder, Order: order})

	d.Dispatch(5)

	var got model.Order
	require.NoError(t, db.Where("order_id = ?", "o1").First(&got).Error)
	assert.Equal(t, model.OrderStatusPartiallyMatched, got.Status)
	assert.Equal(t, uint64(6), got.Amount)

	var tradeCount int64
	require.NoError(t, db.Model(&model.Trade{}).Count(&tradeCount).Error)
	assert.Equal(t, int64(1), tradeCount)

	var s model.State
	require.NoError(t, db.Where("market_id = ?", "m1").First(&s).Error)
	assert.Equal(t, int64(5), s.LatestProcessedBlock)
}

func TestDispatch_GTCFullFill_LeavesAmountUnchanged(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")

	d.Add(Update{Kind: UpdateOpenOrder, Order: model.Order{
		OrderID: "o1", MarketID: "m1", Status: model.OrderStatusNew, Amount: 10, Timestamp: time.Now().UTC(),
	}})
	d.Add(Update{Kind: UpdateTrade, Trade: model.Trade{
		TradeID: "t1", MarketID: "m1", OrderID: "o1", LimitType: model.LimitTypeGTC, Size: 10, Timestamp: time.Now().UTC(),
	}})
	d.Dispatch(1)

	var got model.Order
	require.NoError(t, db.Where("order_id = ?", "o1").First(&got).Error)
	assert.Equal(t, model.OrderStatusMatched, got.Status)
	assert.Equal(t, uint64(10), got.Amount)
}

func TestDispatch_IOCAlwaysFullyMatches(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")

	d.Add(Update{Kind: UpdateOpenOrder, Order: model.Order{
		OrderID: "o1", MarketID: "m1", Status: model.OrderStatusNew, Amount: 10, Timestamp: time.Now().UTC(),
	}})
	d.Add(Update{Kind: UpdateTrade, Trade: model.Trade{
		TradeID: "t1", MarketID: "m1", OrderID: "o1", LimitType: model.LimitTypeIOC, Size: 3, Timestamp: time.Now().UTC(),
	}})
	d.Dispatch(1)

	var got model.Order
	require.NoError(t, db.Where("order_id = ?", "o1").First(&got).Error)
	assert.Equal(t, model.OrderStatusMatched, got.Status)
	assert.Equal(t, uint64(10), got.Amount)
}

func TestDispatch_TradeAgainstMissingOrder_SkipsTrade(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")

	d.Add(Update{Kind: UpdateTrade, Trade: model.Trade{
		TradeID: "t1", MarketID: "m1", OrderID: "missing", LimitType: model.LimitTypeGTC, Size: 3, Timestamp: time.Now().UTC(),
	}})
	d.Dispatch(1)

	var count int64
	require.NoError(t, db.Model(&model.Trade{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDispatch_CancelMissingOrder_DoesNotAbortBatch(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")

	d.Add(Update{Kind: UpdateCancelOrder, CancelOrderID: "missing"})
	d.Add(Update{Kind: UpdateOpenOrder, Order: model.Order{
		OrderID: "o1", MarketID: "m1", Status: model.OrderStatusNew, Amount: 5, Timestamp: time.Now().UTC(),
	}})

	d.Dispatch(1)

	var got model.Order
	require.NoError(t, db.Where("order_id = ?", "o1").First(&got).Error)
	assert.Equal(t, model.OrderStatusNew, got.Status)
}

func TestDispatch_PendingBufferClearedAfterDispatch(t *testing.T) {
	d, _ := newTestDispatcher(t, "m1")

	d.Add(Update{Kind: UpdateOpenOrder, Order: model.Order{OrderID: "o1", MarketID: "m1", Timestamp: time.Now().UTC()}})
	d.Dispatch(1)

	assert.Empty(t, d.pending)
}

func TestDispatch_StateAdvancesEvenWhenPendingEmpty(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")

	d.Dispatch(42)

	var s model.State
	require.NoError(t, db.Where("market_id = ?", "m1").First(&s).Error)
	assert.Equal(t, int64(42), s.LatestProcessedBlock)
}

func TestPrune_RemovesAtOrAfterFromBlock(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")

	require.NoError(t, db.Create(&model.Order{OrderID: "o1", MarketID: "m1", BlockNumber: 10, Timestamp: time.Now().UTC()}).Error)
	require.NoError(t, db.Create(&model.Order{OrderID: "o2", MarketID: "m1", BlockNumber: 20, Timestamp: time.Now().UTC()}).Error)
	require.NoError(t, db.Create(&model.Trade{TradeID: "t1", MarketID: "m1", OrderID: "o2", BlockNumber: 20, Timestamp: time.Now().UTC()}).Error)

	require.NoError(t, d.Prune(15))

	var orderCount, tradeCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&model.Trade{}).Count(&tradeCount).Error)
	assert.Equal(t, int64(1), orderCount)
	assert.Equal(t, int64(0), tradeCount)
}
