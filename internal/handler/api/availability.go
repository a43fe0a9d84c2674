package api

import (
	"net/http"
	"time"

	resdto "rentspace/internal/handler/dto/response"
	"rentspace/internal/handler/httperr"
	"rentspace/internal/pkg/errs"
	"rentspace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityQueries: availabilityQueries}
}

// @Summary Check availability
// @Description Advisory availability check for a listing over a date range.
// @Description The booking write path re-checks; a positive answer here can
// @Description still lose to a concurrent booking.
// @Tags availability
// @Produce json
// @Param id path string true "Listing ID"
// @Param start query string true "Start date (2006-01-02)"
// @Param end query string true "End date (2006-01-02)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /listings/{id}/availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	start, err := time.Parse(time.DateOnly, c.Query("start"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "start must be formatted as 2006-01-02", nil)
		return
	}
	end, err := time.Parse(time.DateOnly, c.Query("end"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "end must be formatted as 2006-01-02", nil)
		return
	}

	view, err := h.availabilityQueries.Check(c.Request.Context(), listingID, start, end)
	if err != nil {
		if errs.Is(err, queries.ErrInvalidAvailabilityRange) || errs.Is(err, errs.ErrInvalidDateRange) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
