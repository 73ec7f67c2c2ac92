package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	confirmationIssuer   = "bindvalue"
	confirmationAudience = "email-confirmation"

	// DefaultConfirmationTTL is how long an emailed confirmation link stays valid.
	DefaultConfirmationTTL = 24 * time.Hour
)

// ErrInvalidToken is returned for malformed, forged or expired confirmation tokens.
var ErrInvalidToken = errors.New("invalid confirmation token")

// ConfirmationTokens issues and verifies the signed tokens carried by email
// confirmation links.
type ConfirmationTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewConfirmationTokens returns a token issuer signing with secret (HS256).
func NewConfirmationTokens(secret []byte, ttl time.Duration) *ConfirmationTokens {
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &ConfirmationTokens{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a token confirming userID.
func (t *ConfirmationTokens) Issue(userID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    confirmationIssuer,
		Subject:   userID,
		Audience:  jwt.ClaimStrings{confirmationAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign confirmation token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the user id it confirms.
func (t *ConfirmationTokens) Parse(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(confirmationIssuer),
		jwt.WithAudience(confirmationAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
