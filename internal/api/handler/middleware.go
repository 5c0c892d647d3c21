// internal/api/handler/middleware.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"portfolio-tracker/internal/domain"
	"portfolio-tracker/internal/service"
	"portfolio-tracker/internal/util"
)

type contextKey string

const userContextKey contextKey = "user"

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext returns the user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userContextKey).(*domain.User)
	return u, ok && u != nil
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the resolved user in the request context.
func RequireAuth(svc service.AuthService, logger *slog.Logger) func(http.Handler) http.Handler {
	h := responder{logger: logger}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				h.respondWithError(w, util.ErrUnauthorized)
				return
			}

			user, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				h.respondWithError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
