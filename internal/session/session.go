// Package session carries the signed-in identity through a request.
// A Session is created by the auth middleware from a validated token and
// ends when the client signs out and the refresh token is revoked.
package session

import "context"

type Session struct {
	UserID int32
	Email  string
	// TokenID is the jti of the token that authenticated the request.
	TokenID string
	// RawToken is kept for refresh-token routes so sign-out can revoke it.
	RawToken string
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session, or false for anonymous requests.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
