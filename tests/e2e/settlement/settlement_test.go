//go:build e2e

package settlement_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"rentspace/internal/handler/dto/response"
	"rentspace/tests/common/authtest"
	"rentspace/tests/common/dbtest"
	"rentspace/tests/common/httptest"
	"rentspace/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL        = "/api/bookings"
	settlementURL      = "/api/bookings/%s/settlement"
	captureCallbackURL = "/api/settlements/capture-callback"
)

type SettlementSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *SettlementSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *SettlementSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestSettlementSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SettlementSuite))
}

// bookListing drives the normal renter flow: a fresh listing plus a pending
// booking created through the API.
func (s *SettlementSuite) bookListing(t *testing.T, renterID uuid.UUID, renterToken string) (uuid.UUID, int64) {
	t.Helper()

	listingID := dbtest.CreateTestListing(t, s.DB, uuid.New(), 10000)
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
	end := start.AddDate(0, 0, 3)

	body := map[string]any{
		"listing_id": listingID.String(),
		"start_date": start.Format(time.DateOnly),
		"end_date":   end.Format(time.DateOnly),
	}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, renterToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.BookingResponse
	err := httptest.DecodeResponseBody(t, w.Body, &created)
	require.NoError(t, err)
	require.Equal(t, renterID, created.RenterID)
	return created.ID, created.TotalCents
}

func captureNotice(intentID, status, txnID string) map[string]any {
	return map[string]any{
		"intent_id": intentID,
		"status":    status,
		"txn_id":    txnID,
	}
}

// =============================================================================
// TestCreateIntent - Payment intent creation API tests
// =============================================================================

func (s *SettlementSuite) TestCreateIntent() {
	s.Run("Normal case: Intent carries the fee split and holds the booking", func() {
		t := s.T()

		renterID := uuid.New()
		token := s.jwt.GenerateToken(t, renterID)
		bookingID, totalCents := s.bookListing(t, renterID, token)

		url := fmt.Sprintf(settlementURL, bookingID.String())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var intent response.IntentResponse
		err := httptest.DecodeResponseBody(t, w.Body, &intent)
		require.NoError(t, err)
		require.Equal(t, e2e.StubIntentID(bookingID), intent.IntentID)
		require.Equal(t, bookingID, intent.BookingID)
		require.Equal(t, totalCents, intent.GrossCents)
		// 7% renter fee + 3% lister fee; owner keeps gross minus the lister cut.
		require.Equal(t, totalCents/10, intent.PlatformFeeCents)
		require.Equal(t, totalCents-totalCents*3/100, intent.OwnerNetCents)
		require.Equal(t, "created", intent.State)

		require.Equal(t, "awaiting_payment", dbtest.BookingState(t, s.DB, bookingID))
		require.Equal(t, []string{"created"}, dbtest.TransactionKinds(t, s.DB, bookingID))
	})

	s.Run("Normal case: Repeated call replays the existing intent", func() {
		t := s.T()

		renterID := uuid.New()
		token := s.jwt.GenerateToken(t, renterID)
		bookingID, _ := s.bookListing(t, renterID, token)

		url := fmt.Sprintf(settlementURL, bookingID.String())
		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		require.Equal(t, http.StatusCreated, w1.Code)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		require.Equal(t, http.StatusCreated, w2.Code, w2.Body.String())

		var first, second response.IntentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w1.Body, &first))
		require.NoError(t, httptest.DecodeResponseBody(t, w2.Body, &second))
		require.Equal(t, first.IntentID, second.IntentID)

		// Still a single ledger row for the intent creation.
		require.Equal(t, []string{"created"}, dbtest.TransactionKinds(t, s.DB, bookingID))
	})

	s.Run("Error case: Only the renter may settle", func() {
		t := s.T()

		renterID := uuid.New()
		token := s.jwt.GenerateToken(t, renterID)
		bookingID, _ := s.bookListing(t, renterID, token)

		strangerToken := s.jwt.GenerateToken(t, uuid.New())
		url := fmt.Sprintf(settlementURL, bookingID.String())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, strangerToken)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "pending", dbtest.BookingState(t, s.DB, bookingID))
	})

	s.Run("Error case: Resolved booking cannot start settlement", func() {
		t := s.T()

		ownerID := uuid.New()
		renterID := uuid.New()
		listingID := dbtest.CreateTestListing(t, s.DB, ownerID, 10000)
		start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
		bookingID := dbtest.CreateTestBooking(t, s.DB, listingID, renterID, ownerID,
			start, start.AddDate(0, 0, 3), "cancelled")

		token := s.jwt.GenerateToken(t, renterID)
		url := fmt.Sprintf(settlementURL, bookingID.String())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})
}

// =============================================================================
// TestCaptureCallback - Processor webhook reconciliation tests
// =============================================================================

func (s *SettlementSuite) TestCaptureCallback() {
	s.Run("Normal case: Successful capture confirms the booking", func() {
		t := s.T()

		renterID := uuid.New()
		token := s.jwt.GenerateToken(t, renterID)
		bookingID, _ := s.bookListing(t, renterID, token)

		url := fmt.Sprintf(settlementURL, bookingID.String())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		require.Equal(t, http.StatusCreated, w.Code)

		notice := captureNotice(e2e.StubIntentID(bookingID), "succeeded", "txn_777")
		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, captureCallbackURL, notice, "")
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())

		require.Equal(t, "confirmed", dbtest.BookingState(t, s.DB, bookingID))
		require.Equal(t, []string{"created", "captured"}, dbtest.TransactionKinds(t, s.DB, bookingID))
	})

	s.Run("Normal case: Duplicate delivery is acknowledged without effect", func() {
		t := s.T()

		renterID := uuid.New()
		token := s.jwt.GenerateToken(t, renterID)
		bookingID, _ := s.bookListing(t, renterID, token)

		url := fmt.Sprintf(settlementURL, bookingID.String())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		require.Equal(t, http.StatusCreated, w.Code)

		notice := captureNotice(e2e.StubIntentID(bookingID), "succeeded", "txn_777")
		first := httptest.PerformRequest(t, s.Router, http.MethodPost, captureCallbackURL, notice, "")
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.PerformRequest(t, s.Router, http.MethodPost, captureCallbackURL, notice, "")
		require.Equal(t, http.StatusOK, second.Code, second.Body.String())

		require.Equal(t, "confirmed", dbtest.BookingState(t, s.DB, bookingID))
		require.Equal(t, []string{"created", "captured"}, dbtest.TransactionKinds(t, s.DB, bookingID),
			"redelivery must not add ledger rows")
	})

	s.Run("Normal case: Failed capture cancels the booking", func() {
		t := s.T()

		renterID := uuid.New()
		token := s.jwt.GenerateToken(t, renterID)
		bookingID, _ := s.bookListing(t, renterID, token)

		url := fmt.Sprintf(settlementURL, bookingID.String())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		require.Equal(t, http.StatusCreated, w.Code)

		notice := captureNotice(e2e.StubIntentID(bookingID), "failed", "")
		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, captureCallbackURL, notice, "")
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())

		require.Equal(t, "cancelled", dbtest.BookingState(t, s.DB, bookingID))
		require.Equal(t, []string{"created", "failed"}, dbtest.TransactionKinds(t, s.DB, bookingID))
	})

	s.Run("Normal case: Capture after the payment window cancellation is dropped", func() {
		t := s.T()

		renterID := uuid.New()
		token := s.jwt.GenerateToken(t, renterID)
		bookingID, _ := s.bookListing(t, renterID, token)

		url := fmt.Sprintf(settlementURL, bookingID.String())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		require.Equal(t, http.StatusCreated, w.Code)

		// The payment window elapses before the processor reports back; the
		// sweep releases the hold first.
		dbtest.BackdateBooking(t, s.DB, bookingID, time.Hour)
		swept, err := s.Bookings.ExpireOverdue(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, swept)
		require.Equal(t, "cancelled", dbtest.BookingState(t, s.DB, bookingID))

		intentID := e2e.StubIntentID(bookingID)
		notice := captureNotice(intentID, "succeeded", "txn_late")
		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, captureCallbackURL, notice, "")
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())

		require.Equal(t, "cancelled", dbtest.BookingState(t, s.DB, bookingID))
		require.Equal(t, "created", dbtest.IntentState(t, s.DB, intentID),
			"a dropped capture must not settle the intent")
		require.Equal(t, []string{"created"}, dbtest.TransactionKinds(t, s.DB, bookingID))
	})

	s.Run("Normal case: Capture that loses the booking state race rolls back whole", func() {
		t := s.T()

		ownerID := uuid.New()
		renterID := uuid.New()
		listingID := dbtest.CreateTestListing(t, s.DB, ownerID, 10000)
		start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
		bookingID := dbtest.CreateTestBooking(t, s.DB, listingID, renterID, ownerID,
			start, start.AddDate(0, 0, 3), "confirmed")
		dbtest.CreateTestIntent(t, s.DB, "pi_racing", bookingID, 40000, "created")

		// The booking left awaiting_payment after the intent snapshot was
		// taken; the intent update and ledger row must not survive on their
		// own.
		notice := captureNotice("pi_racing", "succeeded", "txn_1")
		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, captureCallbackURL, notice, "")
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())

		require.Equal(t, "created", dbtest.IntentState(t, s.DB, "pi_racing"))
		require.Empty(t, dbtest.TransactionKinds(t, s.DB, bookingID))
	})

	s.Run("Error case: Unknown intent id yields not found", func() {
		t := s.T()

		notice := captureNotice("pi_unknown", "succeeded", "txn_1")
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, captureCallbackURL, notice, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
