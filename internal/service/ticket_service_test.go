package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vogiaan1904/ticketbottle-seating/config"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

func newTestTicketService(now time.Time) *ticketService {
	return &ticketService{
		conf: config.JWTConfig{Secret: "test-secret", Expiry: time.Hour},
		l:    logger.InitializeTestZapLogger(),
		now:  func() time.Time { return now },
	}
}

func TestTicketRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTicketService(now)

	tkn, err := svc.IssueTicket(ctx, "hall-a", 17, 4)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := svc.VerifyTicket(ctx, tkn)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 17 || claims.SeatID != 4 || claims.Venue != "hall-a" {
		t.Errorf("claims %+v", claims)
	}
	if !claims.IssuedAt.Equal(now) || !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("times iat=%v exp=%v", claims.IssuedAt, claims.ExpiresAt)
	}
}

func TestVerifyTicketRejects(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTicketService(now)
	valid, err := svc.IssueTicket(ctx, "hall-a", 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	other := newTestTicketService(now)
	other.conf.Secret = "another-secret"
	forged, err := other.IssueTicket(ctx, "hall-a", 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	noSeat := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"venue":   "hall-a",
		"iat":     now.Unix(),
		"exp":     now.Add(time.Minute).Unix(),
	})
	noSeatStr, err := noSeat.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		svc   *ticketService
		token string
		want  error
	}{
		{"empty", svc, "", ErrTokenEmpty},
		{"garbage", svc, "not-a-token", ErrTokenInvalid},
		{"wrong secret", svc, forged, ErrTokenInvalid},
		{"expired", newTestTicketService(now.Add(2 * time.Hour)), valid, ErrTokenInvalid},
		{"missing claim", svc, noSeatStr, ErrTokenInvalidClaims},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.VerifyTicket(ctx, tt.token); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
