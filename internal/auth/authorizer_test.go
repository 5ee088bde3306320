package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"google.golang.org/grpc/metadata"
)

func TestRoleAuthorizer(t *testing.T) {
	a := NewRoleAuthorizer()
	cases := []struct {
		role string
		perm Permission
		ok   bool
	}{
		{RoleOwner, PermLocationManage, true},
		{RoleManager, PermPurchaseApprove, true},
		{RoleManager, PermLocationManage, false},
		{RoleStaff, PermTransferShip, true},
		{RoleStaff, PermTransferApprove, false},
		{RoleSystem, PermInventoryAdjust, true},
		{RoleSystem, PermInventoryCount, false},
		{"auditor", PermInventoryAdjust, false},
	}
	for _, c := range cases {
		ctx := WithUser(context.Background(), UserContext{MerchantID: "m-1", Role: c.role})
		err := a.Authorize(ctx, c.perm)
		if c.ok && err != nil {
			t.Errorf("%s %s: unexpected %v", c.role, c.perm, err)
		}
		if !c.ok && !errors.Is(err, apperror.ErrPermissionDenied) {
			t.Errorf("%s %s: err = %v, want permission denied", c.role, c.perm, err)
		}
	}

	if err := a.Authorize(context.Background(), PermInventoryAdjust); !errors.Is(err, apperror.ErrPermissionDenied) {
		t.Fatalf("anonymous: err = %v", err)
	}
}

func TestFromContextMetadataFallback(t *testing.T) {
	md := metadata.Pairs("x-merchant-id", "m-1", "x-user-id", "u-1", "x-role", RoleStaff)
	ctx := metadata.NewIncomingContext(context.Background(), md)

	u, ok := FromContext(ctx)
	if !ok || u.MerchantID != "m-1" || u.UserID != "u-1" || u.Role != RoleStaff {
		t.Fatalf("FromContext = %+v, %v", u, ok)
	}

	ctx = metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-user-id", "u-1"))
	if _, ok := FromContext(ctx); ok {
		t.Fatal("metadata without merchant should not authenticate")
	}
}
