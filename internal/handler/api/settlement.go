package api

import (
	"net/http"

	reqdto "rentspace/internal/handler/dto/request"
	resdto "rentspace/internal/handler/dto/response"
	"rentspace/internal/handler/httperr"
	"rentspace/internal/handler/middleware"
	"rentspace/internal/infra/payment"
	"rentspace/internal/pkg/errs"
	"rentspace/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SettlementHandler struct {
	settlementCommands commands.SettlementCommands
}

func NewSettlementHandler(settlementCommands commands.SettlementCommands) *SettlementHandler {
	return &SettlementHandler{settlementCommands: settlementCommands}
}

// @Summary Start settlement
// @Description Renter starts payment for a pending booking; creates the
// @Description processor intent and moves the booking to awaiting_payment
// @Tags settlement
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 201 {object} resdto.IntentResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /bookings/{id}/settlement [post]
func (h *SettlementHandler) CreateIntent(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal error", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.settlementCommands.CreateIntent(c.Request.Context(), bookingID, renterID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
		case errs.Is(err, errs.ErrInvalidTransition):
			httperr.AbortWithError(c, http.StatusConflict, err, "Booking state does not allow settlement", nil)
		case errs.Is(err, errs.ErrPaymentProcessor):
			if payment.IsTransient(err) {
				httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment processor unavailable, retry later", nil)
			} else {
				httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payment processor rejected the request", nil)
			}
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromIntentView(view))
}

// @Summary Capture callback
// @Description Processor webhook reporting a capture outcome. Deliveries are
// @Description at-least-once; duplicates are absorbed and acknowledged.
// @Tags settlement
// @Accept json
// @Produce json
// @Param request body reqdto.CaptureCallbackRequest true "Capture outcome"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /settlements/capture-callback [post]
func (h *SettlementHandler) CaptureCallback(c *gin.Context) {
	var req reqdto.CaptureCallbackRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	err := h.settlementCommands.ReconcileCapture(c.Request.Context(), commands.CaptureNotice{
		IntentID:       req.IntentID,
		Status:         payment.CaptureStatus(req.Status),
		ProcessorTxnID: req.ProcessorTxnID,
	})
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrIntentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
		default:
			// The processor retries on anything but 2xx; surface 500 so a
			// transient database failure gets redelivered.
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}
