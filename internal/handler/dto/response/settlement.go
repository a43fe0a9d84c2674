package response

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"rentspace/internal/usecase/commands"
)

type IntentResponse struct {
	IntentID         string    `json:"intentId"`
	BookingID        uuid.UUID `json:"bookingId"`
	GrossCents       int64     `json:"grossCents"`
	PlatformFeeCents int64     `json:"platformFeeCents"`
	OwnerNetCents    int64     `json:"ownerNetCents"`
	State            string    `json:"state"`
}

func FromIntentView(rm *commands.IntentView) *IntentResponse {
	resp := &IntentResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}
