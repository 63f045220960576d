package indexer

import (
	"context"
	"testing"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/config"
	"github.com/fuel-spark/orderbook-indexer/internal/dispatcher"
	"github.com/fuel-spark/orderbook-indexer/internal/event"
	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/fuel-spark/orderbook-indexer/internal/pangea"
	"github.com/fuel-spark/orderbook-indexer/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeChain struct {
	height int64
}

func (f *fakeChain) LatestBlockHeight(ctx context.Context) (int64, error) {
	return f.height, nil
}

// fakeStream replays one canned batch of events per Stream() call, in
// call order, then returns an empty/closed stream for any further calls
// (simulating "caught up, nothing new yet").
type fakeStream struct {
	batches [][]event.PangeaEvent
	call    int
}

func (f *fakeStream) Stream(ctx context.Context, req pangea.GetSparkOrderRequest) (<-chan event.PangeaEvent, <-chan error) {
	events := make(chan event.PangeaEvent)
	errs := make(chan error, 1)

	var batch []event.PangeaEvent
	if f.call < len(f.batches) {
		batch = f.batches[f.call]
	}
	f.call++

	go func() {
		defer close(events)
		defer close(errs)
		for _, e := range batch {
			events <- e
		}
		errs <- nil
	}()

	return events, errs
}

func ptrStr(s string) *string { return &s }
func ptrU64(v uint64) *uint64 { return &v }

func newTestDispatcher(t *testing.T, marketID string) (*dispatcher.Dispatcher, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.Trade{}, &model.State{}))

	orders := repository.NewOrderRepository(db)
	trades := repository.NewTradeRepository(db)
	state := repository.NewStateRepository(db)
	return dispatcher.New(marketID, orders, trades, state), db
}

func TestIndexer_CatchUp_AppliesOpenEventsAndAdvancesCursor(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")

	events := []event.PangeaEvent{
		{
			EventType: ptrStr("Open"), OrderID: "o1", MarketID: "m1",
			BlockNumber: 5, TransactionHash: "0xabc",
			OrderTypeRaw: ptrStr("Buy"), Price: ptrU64(100), Amount: ptrU64(10), User: ptrStr("alice"),
		},
	}

	chain := &fakeChain{height: 10}
	stream := &fakeStream{batches: [][]event.PangeaEvent{events, {}}}

	idx := New("m1", config.ChainFuel, chain, stream, d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, idx.catchUp(ctx, 0, 10))

	var got model.Order
	require.NoError(t, db.Where("order_id = ?", "o1").First(&got).Error)
	assert.Equal(t, model.OrderStatusNew, got.Status)

	var s model.State
	require.NoError(t, db.Where("market_id = ?", "m1").First(&s).Error)
	assert.Equal(t, int64(5), s.LatestProcessedBlock, "Dispatch uses the last event's block, not the batch end")
}

func TestIndexer_HandleEvent_UnrecognizedTypeIgnored(t *testing.T) {
	d, _ := newTestDispatcher(t, "m1")
	chain := &fakeChain{height: 0}
	stream := &fakeStream{}
	idx := New("m1", config.ChainFuel, chain, stream, d)

	idx.handleEvent(event.PangeaEvent{EventType: ptrStr("SomethingElse"), MarketID: "m1"})
	// no panic, no pending update added — nothing to assert beyond "did not crash"
}

func TestIndexer_HandleEvent_CancelAlwaysQueued(t *testing.T) {
	d, db := newTestDispatcher(t, "m1")
	chain := &fakeChain{height: 0}
	stream := &fakeStream{}
	idx := New("m1", config.ChainFuel, chain, stream, d)

	require.NoError(t, db.Create(&model.Order{OrderID: "o1", MarketID: "m1", Status: model.OrderStatusNew, Timestamp: time.Now().UTC()}).Error)

	idx.handleEvent(event.PangeaEvent{EventType: ptrStr("Cancel"), OrderID: "o1", MarketID: "m1"})
	d.Dispatch(1)

	var got model.Order
	require.NoError(t, db.Where("order_id = ?", "o1").First(&got).Error)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)
}
