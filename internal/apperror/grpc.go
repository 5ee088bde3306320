package apperror

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts err into a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(Code(err), Message(err))
}

func Code(err error) codes.Code {
	switch KindOf(err) {
	case ErrValidation:
		return codes.InvalidArgument
	case ErrNotFound:
		return codes.NotFound
	case ErrInsufficientStock:
		return codes.FailedPrecondition
	case ErrConflict:
		return codes.Aborted
	case ErrPermissionDenied:
		return codes.PermissionDenied
	default:
		return codes.Internal
	}
}
