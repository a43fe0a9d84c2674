package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	reqdto "rentspace/internal/handler/dto/request"
	resdto "rentspace/internal/handler/dto/response"
	"rentspace/internal/handler/httperr"
	"rentspace/internal/handler/middleware"
	"rentspace/internal/infra"
	"rentspace/internal/pkg/errs"
	"rentspace/internal/usecase/commands"
	"rentspace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingIdentity = errors.New("user id missing from context")

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Request a booking for a listing over an inclusive date range
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal error", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Dates must be formatted as 2006-01-02", nil)
		return
	}

	view, err := h.bookingCommands.CreateBooking(c.Request.Context(), commands.CreateBookingCommand{
		ListingID: req.ListingID,
		StartDate: start,
		EndDate:   end,
	}, renterID)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	if req.QuotedTotalCents != nil && *req.QuotedTotalCents != view.TotalCents {
		slog.Warn("client quote disagrees with server total",
			"booking_id", view.ID,
			"client_cents", *req.QuotedTotalCents,
			"server_cents", view.TotalCents,
		)
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

func (h *BookingHandler) writeCreateError(c *gin.Context, err error) {
	var conflict *commands.DateConflictError
	switch {
	case errs.As(err, &conflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested dates are unavailable", conflictDetail(conflict))
	case errs.Is(err, errs.ErrListingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
	case errs.Is(err, errs.ErrListingUnavailable):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Listing is not accepting bookings", nil)
	case errs.Is(err, errs.ErrSelfBooking):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Owners cannot book their own listing", nil)
	case errs.Is(err, errs.ErrInvalidDateRange):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
	case errs.Is(err, errs.ErrDateConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested dates are unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}

func conflictDetail(conflict *commands.DateConflictError) gin.H {
	blocked := make([]string, len(conflict.BlockedDays))
	for i, day := range conflict.BlockedDays {
		blocked[i] = day.Format(time.DateOnly)
	}
	ranges := make([]gin.H, len(conflict.Conflicts))
	for i, ref := range conflict.Conflicts {
		ranges[i] = gin.H{
			"startDate": ref.Range.Start().Format(time.DateOnly),
			"endDate":   ref.Range.End().Format(time.DateOnly),
		}
	}
	return gin.H{"blockedDays": blocked, "bookedRanges": ranges}
}

// @Summary Get booking
// @Description Get booking by ID; visible to the renter and listing owner only
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), actorID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List my bookings
// @Description List the caller's bookings, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListResponse
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal error", nil)
		return
	}

	items, err := h.bookingQueries.ListByRenter(c.Request.Context(), renterID, 0)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Reject booking
// @Description Owner rejects a pending booking request
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RejectBookingRequest false "Rejection reason"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/reject [post]
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	var req reqdto.RejectBookingRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.bookingCommands.RejectBooking(c.Request.Context(), id, ownerID, req.TrimmedReason()); err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Cancel booking
// @Description Either party cancels a booking that still holds dates
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	var req reqdto.CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.bookingCommands.CancelBooking(c.Request.Context(), id, actorID, req.TrimmedReason()); err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) writeTransitionError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errs.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking state does not allow this action", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}
