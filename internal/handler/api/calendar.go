package api

import (
	"net/http"
	"time"

	reqdto "rentspace/internal/handler/dto/request"
	"rentspace/internal/handler/httperr"
	"rentspace/internal/handler/middleware"
	"rentspace/internal/pkg/errs"
	"rentspace/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CalendarHandler struct {
	calendarCommands commands.CalendarCommands
}

func NewCalendarHandler(calendarCommands commands.CalendarCommands) *CalendarHandler {
	return &CalendarHandler{calendarCommands: calendarCommands}
}

// @Summary Block a date
// @Description Owner marks a calendar day unavailable for new bookings
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body reqdto.BlockDateRequest true "Day to block"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /listings/{id}/blocked-dates [post]
func (h *CalendarHandler) BlockDate(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal error", nil)
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	var req reqdto.BlockDateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	day, err := req.ParseDay()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "day must be formatted as 2006-01-02", nil)
		return
	}

	if err := h.calendarCommands.BlockDate(c.Request.Context(), listingID, ownerID, day); err != nil {
		h.writeCalendarError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Unblock a date
// @Description Owner removes a block; unblocking a free day succeeds quietly
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param day path string true "Day to unblock (2006-01-02)"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /listings/{id}/blocked-dates/{day} [delete]
func (h *CalendarHandler) UnblockDate(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal error", nil)
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	day, err := time.Parse(time.DateOnly, c.Param("day"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "day must be formatted as 2006-01-02", nil)
		return
	}

	if err := h.calendarCommands.UnblockDate(c.Request.Context(), listingID, ownerID, day); err != nil {
		h.writeCalendarError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CalendarHandler) writeCalendarError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrListingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
	case errs.Is(err, errs.ErrInvalidDateRange):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Cannot block a past day", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}
