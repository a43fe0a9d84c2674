package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"rentspace/internal/usecase/queries"
)

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	ListingID       uuid.UUID `json:"listingId"`
	RenterID        uuid.UUID `json:"renterId"`
	OwnerID         uuid.UUID `json:"ownerId"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	TotalCents      int64     `json:"totalCents"`
	State           string    `json:"state"`
	StateReason     *string   `json:"stateReason,omitempty"`
	PaymentIntentID *string   `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listingId"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	TotalCents int64     `json:"totalCents"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{}
	_ = copier.Copy(resp, rm)
	resp.StartDate = rm.StartDate.Format(time.DateOnly)
	resp.EndDate = rm.EndDate.Format(time.DateOnly)
	return resp
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	resp := &BookingListResponse{}
	_ = copier.Copy(resp, rm)
	resp.StartDate = rm.StartDate.Format(time.DateOnly)
	resp.EndDate = rm.EndDate.Format(time.DateOnly)
	return resp
}
