package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid 表示身份令牌无法通过校验。
var ErrTokenInvalid = errors.New("identity token is invalid")

type identityClaims struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 tokens minted by the identity provider.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier returns nil when secret is empty, meaning sign-in is disabled.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil
	}
	return &TokenVerifier{secret: []byte(secret), issuer: strings.TrimSpace(issuer)}
}

// Verify parses the token and maps its claims to an Identity.
func (v *TokenVerifier) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return Identity{}, ErrTokenInvalid
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, options...)
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return Identity{
		ID:          subject,
		Username:    strings.TrimSpace(claims.Username),
		DisplayName: strings.TrimSpace(claims.DisplayName),
	}, nil
}

// IssueToken mints a token the verifier accepts. The identity provider owns
// token issuance in production; this exists for local development and tests.
func IssueToken(secret, issuer string, identity Identity, ttl time.Duration) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", errors.New("token secret is required")
	}
	if strings.TrimSpace(identity.ID) == "" {
		return "", ErrInvalidIdentity
	}

	now := time.Now()
	claims := identityClaims{
		Username:    identity.Username,
		DisplayName: identity.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    strings.TrimSpace(issuer),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
