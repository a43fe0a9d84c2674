//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"rentspace/internal/handler/api"
	"rentspace/internal/pkg/errs"
	"rentspace/tests/common/httptest"
	commandsmock "rentspace/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CalendarHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCalendarCommands
	handler      *api.CalendarHandler
	userID       uuid.UUID
}

func (s *CalendarHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCalendarCommands(s.mockCtrl)
	s.handler = api.NewCalendarHandler(s.mockCommands)
	s.userID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Next()
	}

	s.router.POST("/listings/:id/blocked-dates", authMiddleware, s.handler.BlockDate)
	s.router.DELETE("/listings/:id/blocked-dates/:day", authMiddleware, s.handler.UnblockDate)
}

func (s *CalendarHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCalendarHandlerSuite(t *testing.T) {
	suite.Run(t, new(CalendarHandlerTestSuite))
}

// ================================================================================
// TestBlockDate
// ================================================================================

func (s *CalendarHandlerTestSuite) TestBlockDate() {
	listingID := uuid.New()
	url := "/listings/" + listingID.String() + "/blocked-dates"

	day := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	reqBody := map[string]any{"day": day.Format(time.DateOnly)}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().BlockDate(gomock.Any(), listingID, s.userID, gomock.Any()).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name string
			body map[string]any
		}{
			{name: "missing day", body: map[string]any{}},
			{name: "malformed day", body: map[string]any{"day": "14/09/2026"}},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, tc.body, "bearer-token")
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
				name:           "listing not found or not owner",
				commandsError:  errs.Mark(errs.New("row missing"), errs.ErrListingNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Listing not found",
			},
			{
				name:           "blocking a past day",
				commandsError:  errs.Mark(errs.New("cannot block a past day"), errs.ErrInvalidDateRange),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "past day",
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
				s.mockCommands.EXPECT().BlockDate(gomock.Any(), listingID, s.userID, gomock.Any()).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestUnblockDate
// ================================================================================

func (s *CalendarHandlerTestSuite) TestUnblockDate() {
	listingID := uuid.New()
	day := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	url := "/listings/" + listingID.String() + "/blocked-dates/" + day.Format(time.DateOnly)

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().UnblockDate(gomock.Any(), listingID, s.userID, gomock.Any()).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for malformed day", func() {
		badURL := "/listings/" + listingID.String() + "/blocked-dates/today"
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, badURL, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "formatted as")
	})

	s.Run("error: 404 when caller does not own the listing", func() {
		s.mockCommands.EXPECT().UnblockDate(gomock.Any(), listingID, s.userID, gomock.Any()).
			Return(errs.Mark(errs.New("only the listing owner may edit the calendar"), errs.ErrListingNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Listing not found")
	})
}
