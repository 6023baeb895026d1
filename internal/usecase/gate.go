package usecase

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"portfolio-server/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Gate is the admin role gate. It is a UI-convenience boundary, not
// access control: the secret is a shared static password and the store
// packages are writable by any caller that holds them. Sessions are
// signed tokens so the role survives a reload within the same browser
// session but expires on its own.
type Gate struct {
	secret     string
	signingKey []byte
	ttl        time.Duration
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewGate(secret string, signingKey []byte) *Gate {
	return &Gate{
		secret:     normalizePassword(secret),
		signingKey: signingKey,
		ttl:        12 * time.Hour,
	}
}

// normalizePassword trims whitespace and lowercases, so " Admin " and
// "admin" compare equal.
func normalizePassword(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

// Login compares the submitted password against the shared secret and,
// on a match, issues a session token carrying the admin role.
func (g *Gate) Login(password string) (string, bool) {
	if g.secret == "" {
		return "", false
	}
	input := normalizePassword(password)
	if subtle.ConstantTimeCompare([]byte(input), []byte(g.secret)) != 1 {
		return "", false
	}

	now := time.Now()
	claims := &sessionClaims{
		Role: domain.RoleAdmin.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
			Issuer:    "portfolio-server",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.signingKey)
	if err != nil {
		return "", false
	}
	return token, true
}

// Verify resolves a session token to a role. Anything malformed,
// expired or unsigned is a guest.
func (g *Gate) Verify(token string) domain.Role {
	if token == "" {
		return domain.RoleGuest
	}
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return domain.RoleGuest
	}
	if claims.Role != domain.RoleAdmin.String() {
		return domain.RoleGuest
	}
	return domain.RoleAdmin
}
