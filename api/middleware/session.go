package middleware

import (
	"net/http"

	"github.com/electronicmusicbook/temb-backend/api/responses"
	pkgauth "github.com/electronicmusicbook/temb-backend/pkg/auth"
	"github.com/electronicmusicbook/temb-backend/pkg/config"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
)

// Session validates the admin session cookie and seeds the request context
// with the authenticated role.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := pkgauth.SessionFromRequest(cfg, r)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
				return
			}

			ctx := WithRole(r.Context(), role.String())
			if logg != nil {
				ctx = logg.WithActorRole(ctx, role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
