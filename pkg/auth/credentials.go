package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/electronicmusicbook/temb-backend/pkg/config"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
	"github.com/electronicmusicbook/temb-backend/pkg/security"
)

const argonHashPrefix = "$argon2id$"

type credentialPair struct {
	username string
	password string
	role     enums.AdminRole
}

// CredentialVerifier checks a username/password pair against the two fixed
// role credentials. Passwords may be supplied as argon2id hash strings;
// plaintext values are still accepted but compared in constant time and
// flagged at startup.
type CredentialVerifier struct {
	pairs []credentialPair
}

// NewCredentialVerifier validates the configured credentials and reports
// plaintext passwords so operators know to rotate them to hashes.
func NewCredentialVerifier(ctx context.Context, cfg config.AdminAuthConfig, logg *logger.Logger) (*CredentialVerifier, error) {
	if strings.TrimSpace(cfg.AdminUsername) == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin credentials are required")
	}

	pairs := []credentialPair{{
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
		role:     enums.AdminRoleAdmin,
	}}
	if strings.TrimSpace(cfg.SubadminUsername) != "" && cfg.SubadminPassword != "" {
		pairs = append(pairs, credentialPair{
			username: cfg.SubadminUsername,
			password: cfg.SubadminPassword,
			role:     enums.AdminRoleSubadmin,
		})
	}

	for _, pair := range pairs {
		if !strings.HasPrefix(pair.password, argonHashPrefix) && logg != nil {
			ctx := logg.WithField(ctx, "role", string(pair.role))
			logg.Warn(ctx, "auth.credentials.plaintext_password")
		}
	}

	return &CredentialVerifier{pairs: pairs}, nil
}

// Verify returns the role for a matching credential pair, or false. Invalid
// credentials never reveal which half failed.
func (v *CredentialVerifier) Verify(username, password string) (enums.AdminRole, bool) {
	if v == nil {
		return "", false
	}
	for _, pair := range v.pairs {
		if subtle.ConstantTimeCompare([]byte(pair.username), []byte(username)) != 1 {
			continue
		}
		if passwordMatches(password, pair.password) {
			return pair.role, true
		}
	}
	return "", false
}

func passwordMatches(supplied, configured string) bool {
	if strings.HasPrefix(configured, argonHashPrefix) {
		ok, err := security.VerifyPassword(supplied, configured)
		return err == nil && ok
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(configured)) == 1
}
