package settlement

import (
	"errors"
	"math"
)

var ErrInvalidFeePolicy = errors.New("fee percentages must be in [0, 1)")

// FeePolicy holds the platform fee percentages. The renter-side fee is a
// surcharge collected on top of gross; the lister-side fee is withheld from
// the owner payout. The two formulas are independent, not complementary:
//
//	platform_fee = gross * (renter_pct + lister_pct)
//	owner_net    = gross * (1 - lister_pct)
//
// Both are always recomputed from the stored gross amount at settlement
// time. Client-supplied amounts are display hints only.
type FeePolicy struct {
	RenterPct float64
	ListerPct float64
}

func NewFeePolicy(renterPct, listerPct float64) (FeePolicy, error) {
	if renterPct < 0 || renterPct >= 1 || listerPct < 0 || listerPct >= 1 {
		return FeePolicy{}, ErrInvalidFeePolicy
	}
	return FeePolicy{RenterPct: renterPct, ListerPct: listerPct}, nil
}

type FeeBreakdown struct {
	GrossCents       int64
	PlatformFeeCents int64
	OwnerNetCents    int64
}

// Split computes the settlement amounts in integer cents. Each percentage is
// rounded half-up independently so the lister share withheld from the owner
// always equals the lister share inside the platform fee.
func (p FeePolicy) Split(grossCents int64) FeeBreakdown {
	renterFee := roundCents(float64(grossCents) * p.RenterPct)
	listerFee := roundCents(float64(grossCents) * p.ListerPct)
	return FeeBreakdown{
		GrossCents:       grossCents,
		PlatformFeeCents: renterFee + listerFee,
		OwnerNetCents:    grossCents - listerFee,
	}
}

func roundCents(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
