package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-appointments/internal/handler"
	"github.com/iliyamo/clinic-appointments/internal/middleware"
)

// RegisterRoutes registers the unauthenticated service routes: the root
// greeting and the health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/", handler.Hello)
	// Used by load balancers and monitoring to check storage reachability.
	e.GET("/healthz", h.Health)
}

// RegisterAuth exposes token issuance at POST /jwt.
func RegisterAuth(e *echo.Echo, t *handler.TokenHandler) {
	e.POST("/jwt", t.Issue)
}

// RegisterTreatments exposes the treatment catalog. Extra middleware (the
// response cache) wraps only this route.
func RegisterTreatments(e *echo.Echo, t *handler.TreatmentHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/treatments", t.List, mw...)
}

// RegisterAppointments registers the appointment routes. Listing always
// requires a valid token. Create, delete and status update are open unless
// requireAuthOnWrites is set.
func RegisterAppointments(e *echo.Echo, a *handler.AppointmentHandler, jwtSecret string, requireAuthOnWrites bool) {
	gate := middleware.VerifyJWT(jwtSecret)
	g := e.Group("/appointments")
	g.GET("", a.List, gate)

	var writes []echo.MiddlewareFunc
	if requireAuthOnWrites {
		writes = append(writes, gate)
	}
	g.POST("", a.Create, writes...)
	g.DELETE("/:id", a.Delete, writes...)
	g.PATCH("/:id", a.UpdateStatus, writes...)
}
