package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

type UserContext struct {
	MerchantID string
	UserID     string
	Role       string
}

type userKey struct{}

// SystemUser is the identity used by background consumers.
var SystemUser = UserContext{UserID: "system", Role: RoleSystem}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// FromContext returns the identity placed by the interceptor, falling back
// to the raw x-merchant-id / x-user-id / x-role metadata.
func FromContext(ctx context.Context) (UserContext, bool) {
	if u, ok := ctx.Value(userKey{}).(UserContext); ok {
		return u, true
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return UserContext{}, false
	}
	u := UserContext{
		MerchantID: first(md, "x-merchant-id"),
		UserID:     first(md, "x-user-id"),
		Role:       first(md, "x-role"),
	}
	return u, u.MerchantID != ""
}

func GetMerchantID(ctx context.Context) string {
	u, _ := FromContext(ctx)
	return u.MerchantID
}

func GetUserID(ctx context.Context) string {
	u, _ := FromContext(ctx)
	return u.UserID
}

func GetRole(ctx context.Context) string {
	u, _ := FromContext(ctx)
	return u.Role
}

func first(md metadata.MD, key string) string {
	if val := md.Get(key); len(val) > 0 {
		return val[0]
	}
	return ""
}
