package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	executeMethod      = "/seating.v1.SeatingService/Execute"
	verifyTicketMethod = "/seating.v1.SeatingService/VerifyTicket"
)

type cleanupFunc func()

// SeatingClient talks to a running seating server.
type SeatingClient interface {
	Execute(ctx context.Context, line string) ([]string, error)
	VerifyTicket(ctx context.Context, token string) (map[string]any, error)
}

type seatingClient struct {
	cc grpc.ClientConnInterface
}

func NewSeatingClient(addr string) (SeatingClient, cleanupFunc, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("gRpc seating client connection failed: %w", err)
	}

	return NewSeatingClientFromConn(conn), func() { conn.Close() }, nil
}

func NewSeatingClientFromConn(cc grpc.ClientConnInterface) SeatingClient {
	return &seatingClient{cc: cc}
}

func (c *seatingClient) Execute(ctx context.Context, line string) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, executeMethod, wrapperspb.String(line), out); err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		lines = append(lines, v.GetStringValue())
	}
	return lines, nil
}

func (c *seatingClient) VerifyTicket(ctx context.Context, token string) (map[string]any, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, verifyTicketMethod, wrapperspb.String(token), out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
