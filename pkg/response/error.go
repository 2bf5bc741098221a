package response

import (
	pkgErrors "github.com/vogiaan1904/ticketbottle-seating/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ParseGRPCError turns a delivery error into a status error. Errors that were
// not mapped to a GRPCError are reported as Internal without detail.
func ParseGRPCError(err error) error {
	switch parsedErr := err.(type) {
	case *pkgErrors.GRPCError:
		grpcCode := parsedErr.GrpcCode
		if grpcCode == codes.OK {
			grpcCode = codes.InvalidArgument
		}
		return status.Error(grpcCode, parsedErr.Error())
	default:
		return status.Error(codes.Internal, "Internal server error")
	}
}
