package event

import (
	"testing"

	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func baseEvent() PangeaEvent {
	return PangeaEvent{
		Chain:           0,
		BlockNumber:     100,
		TransactionHash: "0xabc123",
		BlockTimestamp:  1_700_000_000,
		LogIndex:        4,
		MarketID:        "0xmarket",
		OrderID:         "order-1",
	}
}

func TestTradeID_Deterministic(t *testing.T) {
	e1 := baseEvent()
	e1.Amount = ptr(uint64(250))

	e2 := baseEvent()
	e2.Amount = ptr(uint64(250))

	assert.Equal(t, e1.TradeID(), e2.TradeID(), "same inputs must derive the same trade_id")
	assert.Regexp(t, "^0x[0-9a-f]{64}$", e1.TradeID())
}

func TestTradeID_ChangesWithAnyField(t *testing.T) {
	base := baseEvent()
	base.Amount = ptr(uint64(250))
	want := base.TradeID()

	variants := []PangeaEvent{}

	v := base
	v.TransactionHash = "0xdifferent"
	variants = append(variants, v)

	v = base
	v.OrderID = "order-2"
	variants = append(variants, v)

	v = base
	v.BlockTimestamp = base.BlockTimestamp + 1
	variants = append(variants, v)

	v = base
	v.Amount = ptr(uint64(251))
	variants = append(variants, v)

	v = base
	v.LogIndex = base.LogIndex + 1
	variants = append(variants, v)

	for i, variant := range variants {
		assert.NotEqual(t, want, variant.TradeID(), "variant %d should change the trade_id", i)
	}
}

func TestLimitType(t *testing.T) {
	cases := []struct {
		raw  *string
		want model.LimitType
	}{
		{nil, model.LimitTypeGTC},
		{ptr("FOK"), model.LimitTypeFOK},
		{ptr("IOC"), model.LimitTypeIOC},
		{ptr("MKT"), model.LimitTypeMKT},
		{ptr("garbage"), model.LimitTypeGTC},
	}
	for _, c := range cases {
		e := baseEvent()
		e.LimitTypeRaw = c.raw
		assert.Equal(t, c.want, e.LimitType())
	}
}

func TestOrderType(t *testing.T) {
	e := baseEvent()
	e.OrderTypeRaw = ptr("Buy")
	side, ok := e.OrderType()
	require.True(t, ok)
	assert.Equal(t, model.OrderSideBuy, side)

	e.OrderTypeRaw = ptr("Sell")
	side, ok = e.OrderType()
	require.True(t, ok)
	assert.Equal(t, model.OrderSideSell, side)

	e.OrderTypeRaw = ptr("Unknown")
	_, ok = e.OrderType()
	assert.False(t, ok)

	e.OrderTypeRaw = nil
	_, ok = e.OrderType()
	assert.False(t, ok)
}

func TestBuildOrder_Success(t *testing.T) {
	e := baseEvent()
	e.Price = ptr(uint64(100))
	e.Amount = ptr(uint64(10))
	e.User = ptr("0xuser")
	e.Asset = ptr("ETH")
	e.OrderTypeRaw = ptr("Buy")

	order, ok := e.BuildOrder()
	require.True(t, ok)
	assert.Equal(t, "order-1", order.OrderID)
	assert.Equal(t, model.OrderSideBuy, order.OrderType)
	assert.Equal(t, model.OrderStatusNew, order.Status)
	assert.Equal(t, uint64(10), order.Amount)
	assert.Equal(t, uint64(100), order.Price)
	assert.Equal(t, "0xuser", order.User)
	assert.Equal(t, "ETH", order.Asset)
}

func TestBuildOrder_MissingFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*PangeaEvent)
	}{
		{"missing price", func(e *PangeaEvent) { e.Price = nil }},
		{"missing amount", func(e *PangeaEvent) { e.Amount = nil }},
		{"missing user", func(e *PangeaEvent) { e.User = nil }},
		{"unresolvable order_type", func(e *PangeaEvent) { e.OrderTypeRaw = ptr("Bogus") }},
		{"absent order_type", func(e *PangeaEvent) { e.OrderTypeRaw = nil }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := baseEvent()
			e.Price = ptr(uint64(100))
			e.Amount = ptr(uint64(10))
			e.User = ptr("0xuser")
			e.OrderTypeRaw = ptr("Buy")
			c.mutate(&e)

			_, ok := e.BuildOrder()
			assert.False(t, ok)
		})
	}
}

func TestBuildTrade_Success(t *testing.T) {
	e := baseEvent()
	e.Price = ptr(uint64(100))
	e.Amount = ptr(uint64(10))
	e.User = ptr("0xuser")
	e.LimitTypeRaw = ptr("IOC")

	trade, ok := e.BuildTrade()
	require.True(t, ok)
	assert.Equal(t, e.TradeID(), trade.TradeID)
	assert.Equal(t, "order-1", trade.OrderID)
	assert.Equal(t, model.LimitTypeIOC, trade.LimitType)
	assert.Equal(t, uint64(10), trade.Size)
	assert.Equal(t, uint64(100), trade.Price)
	assert.Equal(t, "0xuser", trade.User)
}

func TestBuildTrade_UserDefaultsEmpty(t *testing.T) {
	e := baseEvent()
	e.Price = ptr(uint64(100))
	e.Amount = ptr(uint64(10))
	e.User = nil

	trade, ok := e.BuildTrade()
	require.True(t, ok)
	assert.Equal(t, "", trade.User)
}

func TestBuildTrade_MissingPriceOrAmount(t *testing.T) {
	e := baseEvent()
	e.Amount = ptr(uint64(10))
	_, ok := e.BuildTrade()
	assert.False(t, ok)

	e = baseEvent()
	e.Price = ptr(uint64(100))
	_, ok = e.BuildTrade()
	assert.False(t, ok)
}
