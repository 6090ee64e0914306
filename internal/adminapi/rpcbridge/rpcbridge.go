// Package rpcbridge exposes the settlement-credit push path over
// typed gRPC, for in-process or administrative callers that prefer a
// typed RPC over the adminapi HTTP surface. It is a thin additional
// transport, not a second implementation of the settlement logic.
//
// It is hand-declared against google.golang.org/grpc's ServiceDesc
// rather than generated from a .proto file, using the protobuf
// well-known Struct/Empty types so no code generation step is needed.
package rpcbridge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeJamon/ilpconnectord/internal/settlement"
)

// ServiceName is the gRPC service name exposed by this bridge.
const ServiceName = "ilpconnectord.SettlementBridge"

type settlementBridgeServer interface {
	NotifySettlement(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

func notifySettlementHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(settlementBridgeServer).NotifySettlement(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/NotifySettlement"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(settlementBridgeServer).NotifySettlement(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*settlementBridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "NotifySettlement", Handler: notifySettlementHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ilpconnectord/settlement_bridge.proto",
}

// Server implements settlementBridgeServer by translating the pushed
// notification into a call on settlement.IncomingTranslator.
type Server struct {
	Translator *settlement.IncomingTranslator
}

// NotifySettlement implements the NotifySettlement RPC. The Struct is
// expected to carry "account_id", "amount", "scale", and
// "idempotency_key" fields, mirroring the HTTP settlements body.
func (s *Server) NotifySettlement(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	fields := in.GetFields()

	accountID, err := uuid.Parse(fields["account_id"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("rpcbridge: invalid account_id: %w", err)
	}
	amount := uint64(fields["amount"].GetNumberValue())
	scale := uint8(fields["scale"].GetNumberValue())
	idempotencyKey := fields["idempotency_key"].GetStringValue()

	if err := s.Translator.Apply(ctx, accountID, amount, scale, idempotencyKey); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

// Register registers srv on grpcServer.
func Register(grpcServer *grpc.Server, srv *Server) {
	grpcServer.RegisterService(&serviceDesc, srv)
}
