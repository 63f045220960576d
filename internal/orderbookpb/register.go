package orderbookpb

import (
	"context"

	"google.golang.org/grpc"
)

// RegisterOrderbookServer wires srv into s, mirroring the
// protoc-gen-go-grpc generated registration function.
func RegisterOrderbookServer(s grpc.ServiceRegistrar, srv OrderbookServer) {
	s.RegisterService(&orderbookServiceDesc, srv)
}

var orderbookServiceDesc = grpc.ServiceDesc{
	ServiceName: "orderbook.Orderbook",
	HandlerType: (*OrderbookServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListOrders",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(ListOrdersRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(OrderbookServer).ListOrders(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/orderbook.Orderbook/ListOrders"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(OrderbookServer).ListOrders(ctx, req.(*ListOrdersRequest))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "Spread",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(SpreadRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(OrderbookServer).Spread(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/orderbook.Orderbook/Spread"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(OrderbookServer).Spread(ctx, req.(*SpreadRequest))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "ListTrades",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(ListTradesRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(OrderbookServer).ListTrades(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/orderbook.Orderbook/ListTrades"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(OrderbookServer).ListTrades(ctx, req.(*ListTradesRequest))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SubscribeOrderUpdates",
			ServerStreams: true,
			Handler: func(srv interface{}, stream grpc.ServerStream) error {
				in := new(SubscribeOrderUpdatesRequest)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(OrderbookServer).SubscribeOrderUpdates(in, &orderUpdatesServerStream{stream})
			},
		},
		{
			StreamName:    "SubscribeTrades",
			ServerStreams: true,
			Handler: func(srv interface{}, stream grpc.ServerStream) error {
				in := new(SubscribeTradesRequest)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(OrderbookServer).SubscribeTrades(in, &tradesServerStream{stream})
			},
		},
	},
	Metadata: "orderbook.proto",
}

type orderUpdatesServerStream struct{ grpc.ServerStream }

func (s *orderUpdatesServerStream) Send(o *Order) error { return s.SendMsg(o) }

type tradesServerStream struct{ grpc.ServerStream }

func (s *tradesServerStream) Send(t *Trade) error { return s.SendMsg(t) }
