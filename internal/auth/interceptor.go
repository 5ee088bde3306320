package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Claims is the token payload issued by the identity service.
type Claims struct {
	MerchantID string `json:"merchant_id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type Interceptor struct {
	secret        []byte
	allowMetadata bool
	public        map[string]bool
}

// NewInterceptor validates HS256 bearer tokens. With allowMetadata the raw
// x-merchant-id headers are accepted when no token is sent, which is how
// the other services call us in development.
func NewInterceptor(secret string, allowMetadata bool, publicMethods ...string) *Interceptor {
	public := map[string]bool{}
	for _, m := range publicMethods {
		public[m] = true
	}
	return &Interceptor{secret: []byte(secret), allowMetadata: allowMetadata, public: public}
}

func (i *Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if i.public[info.FullMethod] {
			return handler(ctx, req)
		}
		u, err := i.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		return handler(WithUser(ctx, u), req)
	}
}

func (i *Interceptor) authenticate(ctx context.Context) (UserContext, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	token := strings.TrimSpace(strings.TrimPrefix(first(md, "authorization"), "Bearer "))
	if token != "" {
		return i.ParseToken(token)
	}
	if i.allowMetadata {
		if u, ok := FromContext(ctx); ok {
			return u, nil
		}
	}
	return UserContext{}, status.Error(codes.Unauthenticated, "missing credentials")
}

func (i *Interceptor) ParseToken(raw string) (UserContext, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return UserContext{}, status.Error(codes.Unauthenticated, "invalid token")
	}
	if claims.MerchantID == "" {
		return UserContext{}, status.Error(codes.Unauthenticated, "token has no merchant")
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return UserContext{MerchantID: claims.MerchantID, UserID: userID, Role: claims.Role}, nil
}

// IssueToken signs claims with the interceptor secret. Used by tests and the
// local tooling; production tokens come from the identity service.
func (i *Interceptor) IssueToken(u UserContext) (string, error) {
	claims := &Claims{MerchantID: u.MerchantID, UserID: u.UserID, Role: u.Role}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
