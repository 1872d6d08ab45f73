package auth

import (
	"net/http"
	"time"

	"github.com/electronicmusicbook/temb-backend/pkg/config"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
)

// SessionCookieName is the single cookie carrying the signed role claim.
const SessionCookieName = "temb-admin-session"

// SessionCookie builds the HTTP-only session cookie. Secure is only set
// outside dev so local http testing keeps working.
func SessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearSessionCookie returns the companion cookie that expires the session.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
	}
}

// SessionFromRequest parses the session cookie and returns the role. It
// never errors outward: missing cookie, bad signature, and expiry all
// collapse to (zero role, false).
func SessionFromRequest(cfg config.JWTConfig, r *http.Request) (enums.AdminRole, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	claims, err := ParseSessionToken(cfg, cookie.Value)
	if err != nil {
		return "", false
	}
	return claims.Role, true
}
