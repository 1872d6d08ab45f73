package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electronicmusicbook/temb-backend/pkg/config"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
	"github.com/electronicmusicbook/temb-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:         "test-secret-test-secret-test-secret",
		Issuer:         "temb-admin",
		ExpirationDays: 7,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintSessionToken(cfg, time.Now(), enums.AdminRoleAdmin)
	require.NoError(t, err)

	claims, err := ParseSessionToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, enums.AdminRoleAdmin, claims.Role)
	assert.Equal(t, "temb-admin", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintSessionToken(cfg, time.Now().Add(-8*24*time.Hour), enums.AdminRoleAdmin)
	require.NoError(t, err)

	_, err = ParseSessionToken(cfg, token)
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	mintCfg := testJWTConfig()
	mintCfg.Issuer = "someone-else"

	token, err := MintSessionToken(mintCfg, time.Now(), enums.AdminRoleAdmin)
	require.NoError(t, err)

	_, err = ParseSessionToken(testJWTConfig(), token)
	assert.Error(t, err)
}

func TestMintRejectsBadInputs(t *testing.T) {
	cfg := testJWTConfig()

	_, err := MintSessionToken(config.JWTConfig{Issuer: "temb-admin", ExpirationDays: 7}, time.Now(), enums.AdminRoleAdmin)
	assert.Error(t, err)

	_, err = MintSessionToken(cfg, time.Now(), enums.AdminRole("owner"))
	assert.Error(t, err)
}

func TestSessionFromRequest(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now(), enums.AdminRoleSubadmin)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(SessionCookie(token, cfg.SessionTTL(), false))

	role, ok := SessionFromRequest(cfg, r)
	require.True(t, ok)
	assert.Equal(t, enums.AdminRoleSubadmin, role)

	// No cookie at all.
	_, ok = SessionFromRequest(cfg, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	// Garbage cookie value.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(SessionCookie("not-a-jwt", cfg.SessionTTL(), false))
	_, ok = SessionFromRequest(cfg, r)
	assert.False(t, ok)
}

func TestSessionCookieAttributes(t *testing.T) {
	cookie := SessionCookie("tok", 7*24*time.Hour, true)
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	cleared := ClearSessionCookie(true)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Contains(t, cleared.String(), "Max-Age=0")
	assert.True(t, cleared.Expires.Before(time.Now()))
}

func TestCredentialVerifierPlaintext(t *testing.T) {
	verifier, err := NewCredentialVerifier(context.Background(), config.AdminAuthConfig{
		AdminUsername:    "admin",
		AdminPassword:    "correct horse battery staple",
		SubadminUsername: "helper",
		SubadminPassword: "another good passphrase",
	}, testLogger())
	require.NoError(t, err)

	role, ok := verifier.Verify("admin", "correct horse battery staple")
	require.True(t, ok)
	assert.Equal(t, enums.AdminRoleAdmin, role)

	role, ok = verifier.Verify("helper", "another good passphrase")
	require.True(t, ok)
	assert.Equal(t, enums.AdminRoleSubadmin, role)

	_, ok = verifier.Verify("admin", "wrong")
	assert.False(t, ok)
	_, ok = verifier.Verify("unknown", "correct horse battery staple")
	assert.False(t, ok)
}

func TestCredentialVerifierArgonHash(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery staple", security.DefaultArgonParams)
	require.NoError(t, err)

	verifier, err := NewCredentialVerifier(context.Background(), config.AdminAuthConfig{
		AdminUsername: "admin",
		AdminPassword: hash,
	}, testLogger())
	require.NoError(t, err)

	role, ok := verifier.Verify("admin", "correct horse battery staple")
	require.True(t, ok)
	assert.Equal(t, enums.AdminRoleAdmin, role)

	_, ok = verifier.Verify("admin", "wrong")
	assert.False(t, ok)
}

func TestCredentialVerifierRequiresAdminPair(t *testing.T) {
	_, err := NewCredentialVerifier(context.Background(), config.AdminAuthConfig{
		SubadminUsername: "helper",
		SubadminPassword: "something",
	}, testLogger())
	assert.Error(t, err)
}
