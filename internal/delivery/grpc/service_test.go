package grpc

import (
	"context"
	"net"
	"slices"
	"testing"
	"time"

	"github.com/vogiaan1904/ticketbottle-seating/config"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/command"
	"github.com/vogiaan1904/ticketbottle-seating/internal/service"
	pkgGrpc "github.com/vogiaan1904/ticketbottle-seating/pkg/grpc"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) (pkgGrpc.SeatingClient, service.TicketService) {
	t.Helper()
	l := logger.InitializeTestZapLogger()
	tSvc := service.NewTicketService(config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}, l)
	ex := command.NewExecutor(service.NewReservationService(nil, l), l)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterSeatingServiceServer(srv, NewGrpcService(ex, tSvc, l))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	return pkgGrpc.NewSeatingClientFromConn(conn), tSvc
}

func TestExecuteOverGRPC(t *testing.T) {
	ctx := context.Background()
	cli, _ := startServer(t)

	steps := []struct {
		line string
		want []string
	}{
		{"Initialize(2)", []string{"2 Seats are made available for reservation"}},
		{"Reserve(5, 1)", []string{"User 5 reserved seat 1"}},
		{"Reserve(5, 1)", []string{"User 5 already has a reservation"}},
		{"Nope()", []string{"Invalid command: Nope()"}},
		{"Available()", []string{"Total Seats Available: 1, Waitlist: 0"}},
	}
	for _, st := range steps {
		got, err := cli.Execute(ctx, st.line)
		if err != nil {
			t.Fatalf("Execute(%q): %v", st.line, err)
		}
		if !slices.Equal(got, st.want) {
			t.Errorf("Execute(%q) = %q, want %q", st.line, got, st.want)
		}
	}

	_, err := cli.Execute(ctx, "   ")
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("blank command: code %v, want InvalidArgument", status.Code(err))
	}
}

func TestVerifyTicketOverGRPC(t *testing.T) {
	ctx := context.Background()
	cli, tSvc := startServer(t)

	tkn, err := tSvc.IssueTicket(ctx, "hall-a", 12, 3)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := cli.VerifyTicket(ctx, tkn)
	if err != nil {
		t.Fatal(err)
	}
	if claims["user_id"] != float64(12) || claims["seat_id"] != float64(3) || claims["venue"] != "hall-a" {
		t.Errorf("claims %v", claims)
	}

	tests := []struct {
		name  string
		token string
		want  codes.Code
	}{
		{"empty", "", codes.InvalidArgument},
		{"garbage", "abc.def.ghi", codes.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cli.VerifyTicket(ctx, tt.token)
			if got := status.Code(err); got != tt.want {
				t.Errorf("code %v, want %v (%v)", got, tt.want, err)
			}
		})
	}
}
