package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Hello answers GET / with a plain text greeting.
func Hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello World")
}

// HealthHandler reports whether storage is reachable. Ping is the storage
// probe, e.g. (*sql.DB).PingContext or (*database.Mongo).Ping.
type HealthHandler struct {
	Ping    func(ctx context.Context) error
	Timeout time.Duration
}

// Health is used by load balancers and monitoring. It returns 200
// {"status":"ok"} or 503 when the storage ping fails.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()
	if err := h.Ping(ctx); err != nil {
		c.Logger().Errorf("health: storage ping: %v", err)
		return fail(c, http.StatusServiceUnavailable, MsgStorageUnavailable)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
