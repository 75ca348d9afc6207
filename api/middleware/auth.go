package middleware

import (
	"net/http"
	"strings"

	"github.com/vivimart/storefront-backend/api/responses"
	pkgAuth "github.com/vivimart/storefront-backend/pkg/auth"
	"github.com/vivimart/storefront-backend/pkg/config"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// verified customer phone number.
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

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithPhone(r.Context(), claims.Phone)
			if logg != nil {
				ctx = logg.WithPhone(ctx, claims.Phone)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
