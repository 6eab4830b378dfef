package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/auth"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
)

// Identifier resolves the user named by the gateway.
type Identifier interface {
	Identify(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// IdentityMiddleware turns the gateway's X-User-ID header into an
// auth.Principal on the request context. Requests without the header pass
// through anonymous; handlers that need a caller reject them.
func IdentityMiddleware(users Identifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderUserID)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.FromContext(r.Context())
			userID, err := uuid.Parse(raw)
			if err != nil {
				log.Warn(LogMsgIdentifyFailed, "error", err)
				http.Error(w, ErrMsgInvalidUserID, http.StatusBadRequest)
				return
			}

			user, err := users.Identify(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					log.Warn(LogMsgIdentifyFailed, "user_id", userID, "error", err)
					http.Error(w, ErrMsgUnknownUser, http.StatusUnauthorized)
					return
				}
				log.Error(LogMsgIdentifyFailed, "user_id", userID, "error", err)
				http.Error(w, ErrMsgIdentityFailed, http.StatusInternalServerError)
				return
			}

			ctx := auth.WithPrincipal(r.Context(), auth.PrincipalFor(user))
			ctx = logger.WithUserID(ctx, user.ID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects callers whose role lacks c.
func RequireCapability(policy *auth.Policy, c auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := auth.PrincipalFromContext(r.Context())
			if err := policy.Require(p, c); err != nil {
				logger.FromContext(r.Context()).Warn(LogMsgCapabilityDenied, "capability", c, "error", err)
				if errors.Is(err, domain.ErrUnauthenticated) {
					http.Error(w, ErrMsgIdentityRequired, http.StatusUnauthorized)
					return
				}
				http.Error(w, ErrMsgForbidden, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
