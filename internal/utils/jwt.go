package utils // package utils provides the token helpers used by the auth routes

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of issued tokens when none is configured.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken is returned by ParseAccessToken for any token that is
	// malformed, expired, signed with another secret or another algorithm.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingIdentity is returned by IssueAccessToken when the claim has
	// no usable email.
	ErrMissingIdentity = errors.New("claim email is required")
)

// AccessToken represents a signed JWT along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// IssueAccessToken signs claim as an HS256 JWT. The claim is caller supplied
// and carried through unchanged except for exp and iat, which are always
// set here. A non-empty string email is required so that every token names
// an identity.
func IssueAccessToken(secret string, claim map[string]any, ttl time.Duration) (AccessToken, error) {
	email, _ := claim["email"].(string)
	if strings.TrimSpace(email) == "" {
		return AccessToken{}, ErrMissingIdentity
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := make(jwt.MapClaims, len(claim)+2)
	for k, v := range claim {
		claims[k] = v
	}
	claims["exp"] = exp.Unix()
	claims["iat"] = now.Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and returns the decoded
// claims.
func ParseAccessToken(secret, raw string) (jwt.MapClaims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
