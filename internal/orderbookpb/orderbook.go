/**
 * @description
 * Hand-authored stand-in for protoc-gen-go/protoc-gen-go-grpc output —
 * no protoc run is available in this environment. Written by hand in
 * the style generated code takes: plain structs, a server interface,
 * and an Unimplemented embed for forward compatibility.
 *
 * @dependencies
 * - google.golang.org/grpc: codes/status used by the server implementation
 */

package orderbookpb

import "context"

// Order mirrors the wire shape of model.Order for the gRPC surface.
type Order struct {
	OrderID       string
	TxID          string
	OrderType     string
	User          string
	Asset         string
	Amount        uint64
	Price         uint64
	Status        string
	BlockNumber   int64
	TimestampUnix int64
	MarketID      string
}

// Trade mirrors the wire shape of model.Trade for the gRPC surface.
type Trade struct {
	TradeID       string
	TxID          string
	OrderID       string
	LimitType     string
	User          string
	Size          uint64
	Price         uint64
	BlockNumber   int64
	TimestampUnix int64
	MarketID      string
}

type ListOrdersRequest struct {
	MarketID string
	Limit    int32
	Offset   int32
}

type ListOrdersResponse struct {
	Orders []*Order
}

type SpreadRequest struct {
	MarketID string
	UserNe   *string
}

type SpreadResponse struct {
	BestBid *Order
	BestAsk *Order
}

type ListTradesRequest struct {
	MarketID string
	Limit    int32
	Offset   int32
}

type ListTradesResponse struct {
	Trades []*Trade
}

type SubscribeOrderUpdatesRequest struct {
	MarketID string
	User     *string
}

type SubscribeTradesRequest struct {
	MarketID string
}

// OrderUpdatesStream is the server-streaming sink for SubscribeOrderUpdates.
type OrderUpdatesStream interface {
	Send(*Order) error
	Context() context.Context
}

// TradesStream is the server-streaming sink for SubscribeTrades.
type TradesStream interface {
	Send(*Trade) error
	Context() context.Context
}

// OrderbookServer is the service contract a server implementation
// satisfies; UnimplementedOrderbookServer lets callers embed and
// override only what they need.
type OrderbookServer interface {
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	Spread(context.Context, *SpreadRequest) (*SpreadResponse, error)
	ListTrades(context.Context, *ListTradesRequest) (*ListTradesResponse, error)
	SubscribeOrderUpdates(*SubscribeOrderUpdatesRequest, OrderUpdatesStream) error
	SubscribeTrades(*SubscribeTradesRequest, TradesStream) error
}

// UnimplementedOrderbookServer must be embedded by any concrete
// implementation for forward compatibility with new RPCs, mirroring
// protoc-gen-go-grpc's generated stub.
type UnimplementedOrderbookServer struct{}

func (UnimplementedOrderbookServer) ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error) {
	return nil, errUnimplemented("ListOrders")
}

func (UnimplementedOrderbookServer) Spread(context.Context, *SpreadRequest) (*SpreadResponse, error) {
	return nil, errUnimplemented("Spread")
}

func (UnimplementedOrderbookServer) ListTrades(context.Context, *ListTradesRequest) (*ListTradesResponse, error) {
	return nil, errUnimplemented("ListTrades")
}

func (UnimplementedOrderbookServer) SubscribeOrderUpdates(*SubscribeOrderUpdatesRequest, OrderUpdatesStream) error {
	return errUnimplemented("SubscribeOrderUpdates")
}

func (UnimplementedOrderbookServer) SubscribeTrades(*SubscribeTradesRequest, TradesStream) error {
	return errUnimplemented("SubscribeTrades")
}

func errUnimplemented(method string) error {
	return &unimplementedError{method: method}
}

type unimplementedError struct{ method string }

func (e *unimplementedError) Error() string {
	return "orderbookpb: method " + e.method + " not implemented"
}
