package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
)

type GRPCError struct {
	Message  string
	GrpcCode codes.Code
}

// NewGRPCError builds an error reported as InvalidArgument.
func NewGRPCError(code string, message string) *GRPCError {
	return &GRPCError{
		Message: fmt.Sprintf("%s - %s", code, message),
	}
}

func NewGRPCErrorWithCode(code string, message string, grpcCode codes.Code) *GRPCError {
	return &GRPCError{
		Message:  fmt.Sprintf("%s - %s", code, message),
		GrpcCode: grpcCode,
	}
}

func (e GRPCError) Error() string {
	return e.Message
}
