package auth

import (
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the typed JWT carried by the admin session cookie. The
// role claim is the only state; there is no server-side session table.
type SessionClaims struct {
	Role enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
