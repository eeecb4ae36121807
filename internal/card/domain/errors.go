package domain

import "errors"

var (
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrIneligibleCharge = errors.New("ineligible_charge")
	ErrUnknownKind      = errors.New("unknown_card_kind")

	// Reasons wrapped by ErrIneligibleCharge.
	ErrOverdraftExceeded      = errors.New("overdraft_exceeded")
	ErrOutsideFranchiseWindow = errors.New("outside_franchise_window")
	ErrRideThrottled          = errors.New("ride_throttled")
)

// RejectionReason returns the specific reason code behind an ineligible
// charge, or "unknown".
func RejectionReason(err error) string {
	for _, reason := range []error{ErrOverdraftExceeded, ErrOutsideFranchiseWindow, ErrRideThrottled} {
		if errors.Is(err, reason) {
			return reason.Error()
		}
	}
	return "unknown"
}
