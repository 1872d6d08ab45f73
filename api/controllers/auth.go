package controllers

import (
	"net/http"
	"time"

	"github.com/electronicmusicbook/temb-backend/api/responses"
	"github.com/electronicmusicbook/temb-backend/api/validators"
	pkgauth "github.com/electronicmusicbook/temb-backend/pkg/auth"
	"github.com/electronicmusicbook/temb-backend/pkg/config"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Role string `json:"role"`
}

// AdminLogin verifies dashboard credentials and establishes the session cookie.
func AdminLogin(verifier *pkgauth.CredentialVerifier, jwtCfg config.JWTConfig, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if verifier == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "credential verifier unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, ok := verifier.Verify(body.Username, body.Password)
		if !ok {
			if logg != nil {
				logg.Warn(r.Context(), "admin login rejected")
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		token, err := pkgauth.MintSessionToken(jwtCfg, time.Now(), role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
			return
		}

		http.SetCookie(w, pkgauth.SessionCookie(token, jwtCfg.SessionTTL(), secureCookies))

		if logg != nil {
			logg.Info(logg.WithActorRole(r.Context(), role.String()), "admin session established")
		}
		responses.WriteSuccess(w, loginResponse{Role: role.String()})
	}
}

// AdminLogout clears the session cookie. Always succeeds.
func AdminLogout(secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, pkgauth.ClearSessionCookie(secureCookies))
		responses.WriteSuccess(w, map[string]string{"message": "logged out"})
	}
}
