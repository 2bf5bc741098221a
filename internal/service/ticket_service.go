package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vogiaan1904/ticketbottle-seating/config"
	pkgLog "github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

// TicketService signs and verifies the tokens handed to users when they are
// assigned a seat.
type TicketService interface {
	IssueTicket(ctx context.Context, venue string, uID, seatID int64) (string, error)
	VerifyTicket(ctx context.Context, token string) (*TicketClaims, error)
}

type ticketService struct {
	conf config.JWTConfig
	l    pkgLog.Logger
	now  func() time.Time
}

func NewTicketService(conf config.JWTConfig, l pkgLog.Logger) TicketService {
	return &ticketService{
		conf: conf,
		l:    l,
		now:  time.Now,
	}
}

func (s *ticketService) IssueTicket(ctx context.Context, venue string, uID, seatID int64) (string, error) {
	iat := s.now()
	claims := jwt.MapClaims{
		"user_id": uID,
		"seat_id": seatID,
		"venue":   venue,
		"exp":     iat.Add(s.conf.Expiry).Unix(),
		"iat":     iat.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(s.conf.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign ticket: %w", err)
	}

	return tokenStr, nil
}

func (s *ticketService) VerifyTicket(ctx context.Context, token string) (*TicketClaims, error) {
	if token == "" {
		return nil, ErrTokenEmpty
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenUnexpectedSignature
		}
		return []byte(s.conf.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		s.l.Warnf(ctx, "service.ticketService.VerifyTicket: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	// Numeric claims decode as float64.
	uID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalidClaims
	}
	seatID, ok := claims["seat_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalidClaims
	}
	venue, ok := claims["venue"].(string)
	if !ok {
		return nil, ErrTokenInvalidClaims
	}
	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, ErrTokenInvalidClaims
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrTokenInvalidClaims
	}

	return &TicketClaims{
		UserID:    int64(uID),
		SeatID:    int64(seatID),
		Venue:     venue,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
	}, nil
}
