package interceptor

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"usethis-backend/internal/config"
	"usethis-backend/internal/domain"
	"usethis-backend/internal/security"
	"usethis-backend/internal/session"
)

// Authenticator is the part of service.AuthService the interceptor needs.
type Authenticator interface {
	Authenticate(ctx context.Context, token string, typ security.TokenType) (*session.Session, error)
}

type AuthInterceptor struct {
	auth Authenticator
}

func NewAuthInterceptor(auth Authenticator) *AuthInterceptor {
	return &AuthInterceptor{auth: auth}
}

// Unary returns a server interceptor function to authenticate unary RPCs.
// The security level is looked up by full method name.
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		level := config.GetSecurityLevel(info.FullMethod)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			return handler(ctx, req)
		}

		token, err := extractToken(ctx)
		if err != nil {
			return nil, err
		}

		typ := security.TokenTypeAccess
		if level == config.SecurityRefresh {
			typ = security.TokenTypeRefresh
		}
		sess, err := i.auth.Authenticate(ctx, token, typ)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return nil, status.Error(codes.Unauthenticated, "invalid token")
			}
			return nil, status.Error(codes.Unavailable, "please try again")
		}

		return handler(session.NewContext(ctx, sess), req)
	}
}

func extractToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	authHeader := md["authorization"]
	if len(authHeader) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization token is not provided")
	}

	token := authHeader[0]
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}

	return token, nil
}
