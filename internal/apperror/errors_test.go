package apperror

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestKindsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("ship transfer: %w", InsufficientStock("inventory.apply", 20, 5))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock kind, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected validation kind")
	}
}

func TestPersistenceKeepsExistingKind(t *testing.T) {
	nf := NotFound("transfer.get", "transfer", "t-1")
	if got := Persistence("tx", nf); got != nf {
		t.Fatalf("expected the original error back, got %v", got)
	}

	driverErr := errors.New("connection refused")
	wrapped := Persistence("inventory.lock", driverErr)
	if !errors.Is(wrapped, ErrPersistence) || !errors.Is(wrapped, driverErr) {
		t.Fatalf("expected persistence kind wrapping the driver error, got %v", wrapped)
	}
	if Message(wrapped) != "internal error" {
		t.Fatalf("driver details must not leak, got %q", Message(wrapped))
	}
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{Validation("adjust", "unknown adjustment type %q", "gift"), codes.InvalidArgument},
		{NotFound("adjust", "product", "p-1"), codes.NotFound},
		{InsufficientStock("ship", 3, 1), codes.FailedPrecondition},
		{Conflict("approve", "status changed"), codes.Aborted},
		{PermissionDenied("approve", "missing permission"), codes.PermissionDenied},
		{errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		st, _ := status.FromError(ToStatus(tc.err))
		if st.Code() != tc.code {
			t.Fatalf("%v: expected %s, got %s", tc.err, tc.code, st.Code())
		}
	}
}
