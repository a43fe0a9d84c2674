package request

import "time"

type BlockDateRequest struct {
	Day string `json:"day" binding:"required"`
}

func (r BlockDateRequest) ParseDay() (time.Time, error) {
	return time.Parse(time.DateOnly, r.Day)
}
