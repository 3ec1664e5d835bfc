package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"usethis-backend/internal/config"
	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/security"
	"usethis-backend/internal/service"
	"usethis-backend/internal/session"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags the request with an id and logs it when done.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		logger.Request(ctx, "http", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				w.Header().Set("Connection", "close")
				writeError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// routeKey is the security table key for the matched route.
func routeKey(r *http.Request) string {
	tpl := r.URL.Path
	if route := mux.CurrentRoute(r); route != nil {
		if t, err := route.GetPathTemplate(); err == nil {
			tpl = t
		}
	}
	return r.Method + " " + tpl
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// authMiddleware opens a session for every non-public route. The token
// type required comes from config.EndpointSecurityConfig.
func authMiddleware(auth service.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			level := config.GetSecurityLevel(routeKey(r))
			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			typ := security.TokenTypeAccess
			if level == config.SecurityRefresh {
				typ = security.TokenTypeRefresh
			}
			sess, err := auth.Authenticate(r.Context(), token, typ)
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// currentUser is only called behind authMiddleware.
func currentUser(r *http.Request) (*session.Session, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}
