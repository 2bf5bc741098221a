package grpc

import (
	"context"
	"strings"

	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/command"
	"github.com/vogiaan1904/ticketbottle-seating/internal/service"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
	resp "github.com/vogiaan1904/ticketbottle-seating/pkg/response"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/util"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type grpcService struct {
	ex   command.Executor
	tSvc service.TicketService
	l    logger.Logger
}

func NewGrpcService(ex command.Executor, tSvc service.TicketService, l logger.Logger) SeatingServiceServer {
	return &grpcService{
		ex:   ex,
		tSvc: tSvc,
		l:    l,
	}
}

func (s *grpcService) Execute(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	line := strings.TrimSpace(req.GetValue())
	if line == "" {
		return nil, resp.ParseGRPCError(errCommandRequired)
	}

	res := s.ex.Execute(ctx, line)

	vals := make([]*structpb.Value, len(res.Lines))
	for i, l := range res.Lines {
		vals[i] = structpb.NewStringValue(l)
	}

	return &structpb.ListValue{Values: vals}, nil
}

func (s *grpcService) VerifyTicket(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	claims, err := s.tSvc.VerifyTicket(ctx, req.GetValue())
	if err != nil {
		s.l.Warnf(ctx, "delivery.grpc.VerifyTicket: %v", err)
		return nil, resp.ParseGRPCError(mapGRPCError(err))
	}

	out, err := structpb.NewStruct(map[string]any{
		"user_id":    claims.UserID,
		"seat_id":    claims.SeatID,
		"venue":      claims.Venue,
		"issued_at":  util.TimeToISO8601Str(claims.IssuedAt),
		"expires_at": util.TimeToISO8601Str(claims.ExpiresAt),
	})
	if err != nil {
		s.l.Errorf(ctx, "delivery.grpc.VerifyTicket: %v", err)
		return nil, resp.ParseGRPCError(err)
	}

	return out, nil
}
