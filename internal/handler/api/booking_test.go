//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	dombooking "rentspace/internal/domain/booking"
	"rentspace/internal/handler/api"
	resdto "rentspace/internal/handler/dto/response"
	"rentspace/internal/infra"
	"rentspace/internal/pkg/errs"
	"rentspace/internal/usecase/commands"
	"rentspace/internal/usecase/queries"
	"rentspace/tests/common/builder"
	"rentspace/tests/common/httptest"
	"rentspace/tests/common/testutil"
	commandsmock "rentspace/tests/mock/commands"
	queriesmock "rentspace/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	userID       uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/bookings", authMiddleware, s.handler.GetMyBookings)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.POST("/bookings/:id/reject", authMiddleware, s.handler.RejectBooking)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.CancelBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// ================================================================================
// TestCreateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"

	b := builder.NewBookingBuilder()
	reqBody := b.BuildCreateRequestMap()
	returnView := b.BuildViewQuery()
	returnView.RenterID = s.userID

	s.Run("success: returns 201 Created with BookingResponse", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal("pending", response.State)
		s.Equal(returnView.StartDate.Format(time.DateOnly), response.StartDate)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: listing_id (required)", mutate: testutil.Field("listing_id", nil)},
			{name: "missing field: start_date (required)", mutate: testutil.Field("start_date", nil)},
			{name: "missing field: end_date (required)", mutate: testutil.Field("end_date", nil)},
			{name: "malformed start_date", mutate: testutil.Field("start_date", "13/01/2026")},
			{name: "malformed end_date", mutate: testutil.Field("end_date", "not-a-date")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				// the usecase marks repo not-found onto the sentinel
				name:           "listing not found",
				commandsError:  errs.Mark(errs.New("row missing"), errs.ErrListingNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Listing not found",
			},
			{
				name:           "listing inactive",
				commandsError:  errs.ErrListingUnavailable,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "not accepting bookings",
			},
			{
				name:           "owner booking own listing",
				commandsError:  errs.ErrSelfBooking,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "own listing",
			},
			{
				name:           "invalid date range",
				commandsError:  errs.Mark(errs.New("end before start"), errs.ErrInvalidDateRange),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid date range",
			},
			{
				name:           "dates taken",
				commandsError:  errs.Mark(errs.New("range occupied"), errs.ErrDateConflict),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "unavailable",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 409 Conflict with occupancy detail", func() {
		start := b.StartDate
		conflictErr := &commands.DateConflictError{
			BlockedDays: []time.Time{start},
			Conflicts: []dombooking.Ref{
				{ID: uuid.New(), Range: dombooking.ReconstructDateRange(start, start.AddDate(0, 0, 2))},
			},
		}
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID).
			Return(nil, errs.Mark(conflictErr, errs.ErrDateConflict)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "unavailable")

		var body struct {
			Detail struct {
				BlockedDays  []string         `json:"blockedDays"`
				BookedRanges []map[string]any `json:"bookedRanges"`
			} `json:"detail"`
		}
		httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Len(body.Detail.BlockedDays, 1)
		s.Len(body.Detail.BookedRanges, 1)
		s.Equal(start.Format(time.DateOnly), body.Detail.BlockedDays[0])
	})
}

// ================================================================================
// TestGetBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	returnView := builder.NewBookingBuilder().BuildViewQuery()
	returnView.ID = bookingID

	s.Run("success: returns 200 OK with BookingResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
		s.Equal(returnView.TotalCents, response.TotalCents)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found for missing or foreign booking", func() {
		notFound := infra.WrapRepoErr("booking not found", errors.New("no rows"), infra.KindNotFound)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, bookingID).
			Return(nil, notFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: 500 on query failure", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, bookingID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}

// ================================================================================
// TestGetMyBookings
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetMyBookings() {
	url := "/bookings"

	items := []*queries.BookingListItem{
		builder.NewBookingBuilder().WithState("pending").BuildListItem(),
		builder.NewBookingBuilder().WithState("confirmed").BuildListItem(),
	}

	s.Run("success: returns the caller's bookings", func() {
		s.mockQueries.EXPECT().ListByRenter(gomock.Any(), s.userID, 0).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, len(items))
		s.Equal("pending", response[0].State)
		s.Equal("confirmed", response[1].State)
	})

	s.Run("success: empty list for a renter with no bookings", func() {
		s.mockQueries.EXPECT().ListByRenter(gomock.Any(), s.userID, 0).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 500 on query failure", func() {
		s.mockQueries.EXPECT().ListByRenter(gomock.Any(), s.userID, 0).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}

// ================================================================================
// TestRejectBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestRejectBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/reject"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().RejectBooking(gomock.Any(), bookingID, s.userID, "dates no longer available").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"reason": "  dates no longer available  "}, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("success: reason is optional", func() {
		s.mockCommands.EXPECT().RejectBooking(gomock.Any(), bookingID, s.userID, "").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/invalid-uuid/reject", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "booking not found or not owner",
				commandsError:  errs.Mark(errs.New("only the listing owner may do this"), errs.ErrBookingNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Not found",
			},
			{
				name:           "booking already settled",
				commandsError:  errs.Mark(errs.New("cannot move booking from confirmed to rejected"), errs.ErrInvalidTransition),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "does not allow",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().RejectBooking(gomock.Any(), bookingID, s.userID, "").
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestCancelBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/cancel"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID, "plans changed").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"reason": "plans changed"}, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 when caller is not a party to the booking", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID, "").
			Return(errs.Mark(errs.New("not a party to this booking"), errs.ErrBookingNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: 409 when booking is already terminal", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID, "").
			Return(errs.Mark(errs.New("booking left awaiting_payment concurrently"), errs.ErrInvalidTransition)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "does not allow")
	})
}
