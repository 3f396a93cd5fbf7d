package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-appointments/internal/repository"
)

// TreatmentHandler serves the read-only treatment catalog.
type TreatmentHandler struct {
	Treatments repository.TreatmentStore
	Timeout    time.Duration
}

// List handles GET /treatments and returns every treatment in storage order.
func (h *TreatmentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	docs, err := h.Treatments.List(ctx)
	if err != nil {
		c.Logger().Errorf("list treatments: %v", err)
		return fail(c, http.StatusInternalServerError, MsgStorageUnavailable)
	}
	return c.JSON(http.StatusOK, docs)
}
