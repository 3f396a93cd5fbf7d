package middleware // middleware contains the echo middleware shared by the routers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-appointments/internal/utils"
)

// MsgUnauthorizeAccess is the message returned for both a missing and an
// invalid token.
const MsgUnauthorizeAccess = "unauthorize access"

// VerifyJWT returns the access gate for protected routes. A request without
// an Authorization header is rejected with 401. Otherwise the token is the
// second space separated segment of the header; the scheme itself is not
// checked. A token that fails verification is rejected with 403. On success
// the decoded claims are stored on the context for Decoded and ClaimEmail.
func VerifyJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorization := c.Request().Header.Get(echo.HeaderAuthorization)
			if authorization == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": true, "message": MsgUnauthorizeAccess})
			}

			var raw string
			if parts := strings.Split(authorization, " "); len(parts) > 1 {
				raw = parts[1]
			}

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": true, "message": MsgUnauthorizeAccess})
			}

			c.Set(decodedKey, claims)
			return next(c)
		}
	}
}
