package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func init() {
	// iat must survive the round trip with sub-second precision so that a
	// token issued right after a revocation cutoff is not caught by it.
	jwt.TimePrecision = time.Millisecond
}

type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) AccountID() string {
	return c.Subject
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	Now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, Now: time.Now}
}

// Issue signs a fresh HS256 token for the account. Every token carries its
// own ID so it can be revoked individually.
func (i *TokenIssuer) Issue(accountID string) (string, *Claims, error) {
	now := i.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

func (i *TokenIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(i.Now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrNotAuthenticated
	}
	return claims, nil
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}
