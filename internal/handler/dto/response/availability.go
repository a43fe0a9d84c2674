package response

import (
	"time"

	"github.com/google/uuid"

	"rentspace/internal/usecase/queries"
)

type BookedRangeResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type AvailabilityResponse struct {
	ListingID    uuid.UUID             `json:"listingId"`
	StartDate    string                `json:"startDate"`
	EndDate      string                `json:"endDate"`
	Available    bool                  `json:"available"`
	BlockedDays  []string              `json:"blockedDays"`
	BookedRanges []BookedRangeResponse `json:"bookedRanges"`
}

func FromAvailabilityView(rm *queries.AvailabilityView) *AvailabilityResponse {
	blocked := make([]string, len(rm.BlockedDays))
	for i, day := range rm.BlockedDays {
		blocked[i] = day.Format(time.DateOnly)
	}
	booked := make([]BookedRangeResponse, len(rm.BookedRanges))
	for i, r := range rm.BookedRanges {
		booked[i] = BookedRangeResponse{
			StartDate: r.StartDate.Format(time.DateOnly),
			EndDate:   r.EndDate.Format(time.DateOnly),
		}
	}
	return &AvailabilityResponse{
		ListingID:    rm.ListingID,
		StartDate:    rm.StartDate.Format(time.DateOnly),
		EndDate:      rm.EndDate.Format(time.DateOnly),
		Available:    rm.Available,
		BlockedDays:  blocked,
		BookedRanges: booked,
	}
}
