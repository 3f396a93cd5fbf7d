package handler // handler defines http handlers

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// Response messages shared by the handlers.
const (
	MsgForbiddenAccess    = "forbidden access"
	MsgInvalidID          = "invalid appointment id"
	MsgInvalidBody        = "invalid request body"
	MsgStorageUnavailable = "storage unavailable"
	MsgEmailRequired      = "email is required"
	MsgTokenFailed        = "could not issue token"
)

// fail writes the error body every handler uses: {"error": true, "message": msg}.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": true, "message": msg})
}

// bindBody decodes the request body only. c.Bind would also copy path and
// query parameters into map targets.
func bindBody(c echo.Context, v any) error {
	return (&echo.DefaultBinder{}).BindBody(c, v)
}

// idString renders a storage identifier for logs and events. Mongo
// ObjectIDs render as hex.
func idString(id any) string {
	if h, ok := id.(interface{ Hex() string }); ok {
		return h.Hex()
	}
	return fmt.Sprint(id)
}
