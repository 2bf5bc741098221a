package grpc

import (
	"errors"

	"github.com/vogiaan1904/ticketbottle-seating/internal/service"
	pkgErrors "github.com/vogiaan1904/ticketbottle-seating/pkg/errors"
	"google.golang.org/grpc/codes"
)

var (
	errTokenEmpty        = pkgErrors.NewGRPCError("STG001", "Ticket token is required")
	errTokenInvalid      = pkgErrors.NewGRPCErrorWithCode("STG002", "Ticket token is invalid", codes.Unauthenticated)
	errTokenClaims       = pkgErrors.NewGRPCErrorWithCode("STG003", "Ticket token claims are invalid", codes.Unauthenticated)
	errCommandRequired   = pkgErrors.NewGRPCError("STG004", "Command is required")
	errInconsistentState = pkgErrors.NewGRPCErrorWithCode("STG005", "Seating state is inconsistent", codes.FailedPrecondition)
)

func mapGRPCError(err error) error {
	switch {
	case errors.Is(err, service.ErrTokenEmpty):
		return errTokenEmpty
	case errors.Is(err, service.ErrTokenInvalid), errors.Is(err, service.ErrTokenUnexpectedSignature):
		return errTokenInvalid
	case errors.Is(err, service.ErrTokenInvalidClaims):
		return errTokenClaims
	case errors.Is(err, service.ErrInconsistentState):
		return errInconsistentState
	default:
		return err
	}
}
