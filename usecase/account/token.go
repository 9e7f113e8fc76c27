package account

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenManager issues signed bearer tokens bound to a server-side session.
// The session id travels in the "sid" claim so deleting the session revokes
// every token that references it.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

func (m *TokenManager) Issue(userID, sessionID string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"sid":     sessionID,
		"iss":     m.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
