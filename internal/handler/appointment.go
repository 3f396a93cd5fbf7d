package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-appointments/internal/middleware"
	"github.com/iliyamo/clinic-appointments/internal/model"
	"github.com/iliyamo/clinic-appointments/internal/queue"
	"github.com/iliyamo/clinic-appointments/internal/repository"
	"github.com/iliyamo/clinic-appointments/internal/service"
)

const publishTimeout = 3 * time.Second

// AppointmentHandler bundles the appointment store and the event publisher.
// Events are published in the background once the response is decided;
// Wait blocks until they have all been handed to the publisher.
type AppointmentHandler struct {
	Appointments repository.AppointmentStore
	Events       service.EventPublisher
	Timeout      time.Duration

	pending sync.WaitGroup
}

// NewAppointmentHandler panics on a nil store. A nil publisher means events
// are disabled.
func NewAppointmentHandler(store repository.AppointmentStore, events service.EventPublisher, timeout time.Duration) *AppointmentHandler {
	if store == nil {
		panic("nil appointment store passed to NewAppointmentHandler")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return &AppointmentHandler{Appointments: store, Events: events, Timeout: timeout}
}

type statusReq struct {
	Status *string `json:"status"`
}

// Create handles POST /appointments. The body is stored as submitted.
func (h *AppointmentHandler) Create(c echo.Context) error {
	var doc model.Document
	if err := bindBody(c, &doc); err != nil {
		return fail(c, http.StatusBadRequest, MsgInvalidBody)
	}
	if doc == nil {
		doc = model.Document{}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()
	res, err := h.Appointments.Create(ctx, doc)
	if err != nil {
		c.Logger().Errorf("create appointment: %v", err)
		return fail(c, http.StatusInternalServerError, MsgStorageUnavailable)
	}

	h.publish(c, service.NewEvent(queue.EventAppointmentCreated, idString(res.InsertedID),
		doc.String(model.FieldEmail), doc.String(model.FieldStatus)))
	return c.JSON(http.StatusOK, res)
}

// List handles GET /appointments?email=. Callers may only list their own
// appointments: the query email must be present and equal the string email
// of the verified claim. A claim without any email member combined with no
// query email lists everything.
func (h *AppointmentHandler) List(c echo.Context) error {
	filter, ok := listFilter(c)
	if !ok {
		return fail(c, http.StatusForbidden, MsgForbiddenAccess)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()
	docs, err := h.Appointments.List(ctx, filter)
	if err != nil {
		c.Logger().Errorf("list appointments: %v", err)
		return fail(c, http.StatusInternalServerError, MsgStorageUnavailable)
	}
	return c.JSON(http.StatusOK, docs)
}

func listFilter(c echo.Context) (*string, bool) {
	values, hasQuery := c.QueryParams()[model.FieldEmail]
	if !hasQuery && !middleware.HasClaim(c, model.FieldEmail) {
		return nil, true
	}
	claimEmail, isString := middleware.ClaimEmail(c)
	if !hasQuery || !isString || values[0] != claimEmail {
		return nil, false
	}
	return &values[0], true
}

// Delete handles DELETE /appointments/:id. Deleting an unknown id is not an
// error; the acknowledgment reports deletedCount 0.
func (h *AppointmentHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()
	res, err := h.Appointments.Delete(ctx, id)
	if errors.Is(err, repository.ErrInvalidID) {
		return fail(c, http.StatusBadRequest, MsgInvalidID)
	}
	if err != nil {
		c.Logger().Errorf("delete appointment: %v", err)
		return fail(c, http.StatusInternalServerError, MsgStorageUnavailable)
	}

	if res.DeletedCount > 0 {
		h.publish(c, service.NewEvent(queue.EventAppointmentDeleted, id, "", ""))
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateStatus handles PATCH /appointments/:id. Only the status field is
// written; a missing status is stored as null.
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")
	var req statusReq
	if err := bindBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, MsgInvalidBody)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()
	res, err := h.Appointments.UpdateStatus(ctx, id, req.Status)
	if errors.Is(err, repository.ErrInvalidID) {
		return fail(c, http.StatusBadRequest, MsgInvalidID)
	}
	if err != nil {
		c.Logger().Errorf("update appointment status: %v", err)
		return fail(c, http.StatusInternalServerError, MsgStorageUnavailable)
	}

	if res.ModifiedCount > 0 {
		var status string
		if req.Status != nil {
			status = *req.Status
		}
		h.publish(c, service.NewEvent(queue.EventAppointmentStatusUpdated, id, "", status))
	}
	return c.JSON(http.StatusOK, res)
}

// publish hands ev to the publisher without holding up the response. It
// never fails the request; errors are logged. The echo context is recycled
// after the handler returns, so only its logger is captured.
func (h *AppointmentHandler) publish(c echo.Context, ev queue.AppointmentEvent) {
	logger := c.Logger()
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := h.Events.Publish(ctx, ev); err != nil {
			logger.Warnf("publish %s for appointment %s: %v", ev.Type, ev.AppointmentID, err)
		}
	}()
}

// Wait blocks until every event published so far has been delivered or
// has failed.
func (h *AppointmentHandler) Wait() {
	h.pending.Wait()
}
