/**
 * @description
 * gRPC implementation of the Orderbook service: list/spread reads plus
 * a server-streaming order-update subscription.
 *
 * @dependencies
 * - google.golang.org/grpc: codes/status
 */

package grpcapi

import (
	"context"

	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/fuel-spark/orderbook-indexer/internal/notify"
	"github.com/fuel-spark/orderbook-indexer/internal/orderbookpb"
	"github.com/fuel-spark/orderbook-indexer/internal/repository"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultLimit  = 50
	defaultOffset = 0
)

// Server implements orderbookpb.OrderbookServer.
type Server struct {
	orderbookpb.UnimplementedOrderbookServer

	orders *repository.OrderRepository
	trades *repository.TradeRepository
	hub    *notify.Hub
}

// New builds a Server over the repository layer and the order-update hub.
func New(orders *repository.OrderRepository, trades *repository.TradeRepository, hub *notify.Hub) *Server {
	return &Server{orders: orders, trades: trades, hub: hub}
}

func normalizePage(limit, offset int32) (int, int) {
	l := int(limit)
	if l <= 0 {
		l = defaultLimit
	}
	o := int(offset)
	if o < 0 {
		o = defaultOffset
	}
	return l, o
}

// ListOrders implements the ListOrders RPC.
func (s *Server) ListOrders(ctx context.Context, req *orderbookpb.ListOrdersRequest) (*orderbookpb.ListOrdersResponse, error) {
	if req.MarketID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "market_id is required")
	}

	limit, offset := normalizePage(req.Limit, req.Offset)
	orders, err := s.orders.Find(req.MarketID, limit, offset)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list orders: %v", err)
	}

	return &orderbookpb.ListOrdersResponse{Orders: toPBOrders(orders)}, nil
}

// Spread implements the Spread RPC.
func (s *Server) Spread(ctx context.Context, req *orderbookpb.SpreadRequest) (*orderbookpb.SpreadResponse, error) {
	if req.MarketID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "market_id is required")
	}

	bid, err := s.orders.FindBestBid(req.MarketID, req.UserNe)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "best bid: %v", err)
	}
	ask, err := s.orders.FindBestAsk(req.MarketID, req.UserNe)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "best ask: %v", err)
	}

	return &orderbookpb.SpreadResponse{BestBid: toPBOrder(bid), BestAsk: toPBOrder(ask)}, nil
}

// ListTrades implements the ListTrades RPC.
func (s *Server) ListTrades(ctx context.Context, req *orderbookpb.ListTradesRequest) (*orderbookpb.ListTradesResponse, error) {
	if req.MarketID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "market_id is required")
	}

	limit, offset := normalizePage(req.Limit, req.Offset)
	trades, err := s.trades.Find(req.MarketID, limit, offset)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list trades: %v", err)
	}

	return &orderbookpb.ListTradesResponse{Trades: toPBTrades(trades)}, nil
}

// SubscribeOrderUpdates implements the streaming RPC, forwarding
// order-row notifications scoped to one market and optional user.
func (s *Server) SubscribeOrderUpdates(req *orderbookpb.SubscribeOrderUpdatesRequest, stream orderbookpb.OrderUpdatesStream) error {
	if req.MarketID == "" {
		return status.Errorf(codes.InvalidArgument, "market_id is required")
	}

	updates, unsubscribe := s.hub.SubscribeOrderUpdates(req.MarketID, req.User)
	defer unsubscribe()

	for {
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case order, ok := <-updates:
			if !ok {
				return status.Errorf(codes.Unavailable, "subscription closed")
			}
			if err := stream.Send(toPBOrder(&order)); err != nil {
				return err
			}
		}
	}
}

// SubscribeTrades is not wired to a publisher yet; it returns
// immediately without sending anything.
func (s *Server) SubscribeTrades(req *orderbookpb.SubscribeTradesRequest, stream orderbookpb.TradesStream) error {
	return nil
}

func toPBOrder(o *model.Order) *orderbookpb.Order {
	if o == nil {
		return nil
	}
	return &orderbookpb.Order{
		OrderID:       o.OrderID,
		TxID:          o.TxID,
		OrderType:     string(o.OrderType),
		User:          o.User,
		Asset:         o.Asset,
		Amount:        o.Amount,
		Price:         o.Price,
		Status:        string(o.Status),
		BlockNumber:   o.BlockNumber,
		TimestampUnix: o.Timestamp.Unix(),
		MarketID:      o.MarketID,
	}
}

func toPBOrders(orders []model.Order) []*orderbookpb.Order {
	out := make([]*orderbookpb.Order, 0, len(orders))
	for i := range orders {
		out = append(out, toPBOrder(&orders[i]))
	}
	return out
}

func toPBTrades(trades []model.Trade) []*orderbookpb.Trade {
	out := make([]*orderbookpb.Trade, 0, len(trades))
	for _, t := range trades {
		out = append(out, &orderbookpb.Trade{
			TradeID:       t.TradeID,
			TxID:          t.TxID,
			OrderID:       t.OrderID,
			LimitType:     string(t.LimitType),
			User:          t.User,
			Size:          t.Size,
			Price:         t.Price,
			BlockNumber:   t.BlockNumber,
			TimestampUnix: t.Timestamp.Unix(),
			MarketID:      t.MarketID,
		})
	}
	return out
}
