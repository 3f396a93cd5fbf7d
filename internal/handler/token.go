package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-appointments/internal/utils"
)

// TokenHandler issues access tokens for a caller-supplied identity claim.
type TokenHandler struct {
	Secret string
	TTL    time.Duration
}

// Issue handles POST /jwt. The whole JSON body becomes the token claim; it
// must carry a non-empty string "email".
func (h *TokenHandler) Issue(c echo.Context) error {
	var claim map[string]any
	if err := bindBody(c, &claim); err != nil {
		return fail(c, http.StatusBadRequest, MsgInvalidBody)
	}
	tok, err := utils.IssueAccessToken(h.Secret, claim, h.TTL)
	if errors.Is(err, utils.ErrMissingIdentity) {
		return fail(c, http.StatusBadRequest, MsgEmailRequired)
	}
	if err != nil {
		c.Logger().Errorf("issue token: %v", err)
		return fail(c, http.StatusInternalServerError, MsgTokenFailed)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": tok.Token})
}
