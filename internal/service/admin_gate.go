package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// AdminGate authorizes destructive operations with a single shared secret.
// Authorization applies to the current request only and nothing is stored.
type AdminGate struct {
	secret []byte
	hash   []byte
}

// NewAdminGate configures the gate from a plain secret or a bcrypt hash of
// it. The hash wins when both are set. With neither, the gate is closed.
func NewAdminGate(secret, hash string) *AdminGate {
	g := &AdminGate{}
	if hash != "" {
		g.hash = []byte(hash)
	} else if secret != "" {
		g.secret = []byte(secret)
	}
	return g
}

// Enabled reports whether any secret is configured.
func (g *AdminGate) Enabled() bool {
	return len(g.hash) > 0 || len(g.secret) > 0
}

// Authorize reports whether candidate matches the configured secret.
func (g *AdminGate) Authorize(candidate string) bool {
	if candidate == "" || !g.Enabled() {
		return false
	}
	if len(g.hash) > 0 {
		return bcrypt.CompareHashAndPassword(g.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(candidate)) == 1
}

// HashSecret returns a bcrypt hash suitable for ADMIN_SECRET_HASH.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(hash), err
}
