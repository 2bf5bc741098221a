package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "seating.v1.SeatingService"

	ExecuteMethod      = "/" + ServiceName + "/Execute"
	VerifyTicketMethod = "/" + ServiceName + "/VerifyTicket"
)

// SeatingServiceServer uses well-known message types so no generated code
// is needed on either side.
type SeatingServiceServer interface {
	// Execute runs one command line and returns its report lines.
	Execute(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error)
	// VerifyTicket checks a ticket token and returns its claims.
	VerifyTicket(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterSeatingServiceServer(s grpc.ServiceRegistrar, srv SeatingServiceServer) {
	s.RegisterService(&SeatingServiceDesc, srv)
}

var SeatingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SeatingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    executeHandler,
		},
		{
			MethodName: "VerifyTicket",
			Handler:    verifyTicketHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "seating/v1/seating.proto",
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SeatingServiceServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ExecuteMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SeatingServiceServer).Execute(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func verifyTicketHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SeatingServiceServer).VerifyTicket(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: VerifyTicketMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SeatingServiceServer).VerifyTicket(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
