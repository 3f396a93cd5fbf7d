package middleware

// identity.go exposes the claims stored by VerifyJWT to handlers.

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// decodedKey is the echo context key holding the verified claims.
const decodedKey = "decoded"

// Decoded returns the verified claims, or nil when the gate did not run.
func Decoded(c echo.Context) jwt.MapClaims {
	claims, _ := c.Get(decodedKey).(jwt.MapClaims)
	return claims
}

// ClaimEmail returns the email member of the verified claims. ok is false
// when the member is absent or not a string; "" is a valid string email.
func ClaimEmail(c echo.Context) (email string, ok bool) {
	email, ok = Decoded(c)["email"].(string)
	return email, ok
}

// HasClaim reports whether the verified claims carry key at all, whatever
// its type.
func HasClaim(c echo.Context, key string) bool {
	_, ok := Decoded(c)[key]
	return ok
}
