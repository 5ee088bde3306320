package auth

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func call(t *testing.T, i *Interceptor, method string, md metadata.MD) (UserContext, error) {
	t.Helper()
	ctx := context.Background()
	if md != nil {
		ctx = metadata.NewIncomingContext(ctx, md)
	}
	var seen UserContext
	_, err := i.Unary()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, func(ctx context.Context, _ any) (any, error) {
		seen, _ = FromContext(ctx)
		return nil, nil
	})
	return seen, err
}

func TestInterceptorBearerToken(t *testing.T) {
	i := NewInterceptor("secret", false)
	token, err := i.IssueToken(UserContext{MerchantID: "m-1", UserID: "u-1", Role: RoleManager})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	u, err := call(t, i, "/stock.v1.InventoryService/AdjustInventory", metadata.Pairs("authorization", "Bearer "+token))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if u.MerchantID != "m-1" || u.Role != RoleManager {
		t.Fatalf("user = %+v", u)
	}

	other := NewInterceptor("other", false)
	_, err = call(t, other, "/stock.v1.InventoryService/AdjustInventory", metadata.Pairs("authorization", "Bearer "+token))
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("wrong secret: err = %v", err)
	}
}

func TestInterceptorMetadataAndPublic(t *testing.T) {
	md := metadata.Pairs("x-merchant-id", "m-1", "x-role", RoleStaff)

	strict := NewInterceptor("secret", false, "/grpc.health.v1.Health/Check")
	if _, err := call(t, strict, "/stock.v1.InventoryService/ListInventory", md); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("strict metadata: err = %v", err)
	}
	if _, err := call(t, strict, "/grpc.health.v1.Health/Check", nil); err != nil {
		t.Fatalf("public method: %v", err)
	}

	lenient := NewInterceptor("secret", true)
	u, err := call(t, lenient, "/stock.v1.InventoryService/ListInventory", md)
	if err != nil || u.MerchantID != "m-1" {
		t.Fatalf("lenient = %+v, %v", u, err)
	}
}

func TestParseTokenRequiresMerchant(t *testing.T) {
	i := NewInterceptor("secret", false)
	token, err := i.IssueToken(UserContext{UserID: "u-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := i.ParseToken(token); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("err = %v", err)
	}
}
