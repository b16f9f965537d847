package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/grocerly-app/storefront-backend/api/responses"
	pkgauth "github.com/grocerly-app/storefront-backend/pkg/auth"
	"github.com/grocerly-app/storefront-backend/pkg/config"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// customer claims. Auth failures short-circuit before any handler work.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxCustomerID, claims.CustomerID)
			ctx = context.WithValue(ctx, ctxEmail, claims.Email)

			if logg != nil {
				ctx = logg.WithCustomerID(ctx, claims.CustomerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth parses a bearer token when present but lets anonymous requests
// through. Anonymous carts are keyed by the X-Session-Id header instead.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if sessionID := strings.TrimSpace(r.Header.Get("X-Session-Id")); sessionID != "" {
				ctx = context.WithValue(ctx, ctxSessionID, sessionID)
			}

			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw != "" {
				token := raw
				if strings.HasPrefix(strings.ToLower(token), "bearer ") {
					token = strings.TrimSpace(token[7:])
				}
				claims, err := pkgauth.ParseAccessToken(cfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}
				ctx = context.WithValue(ctx, ctxCustomerID, claims.CustomerID)
				ctx = context.WithValue(ctx, ctxEmail, claims.Email)
				if logg != nil {
					ctx = logg.WithCustomerID(ctx, claims.CustomerID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
