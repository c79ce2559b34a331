package pricing

import (
	"errors"
	"fmt"
)

// --- Engine Errors ---
var (
	ErrInvalidOption      = errors.New("invalid fee option")
	ErrInvalidBooking     = errors.New("invalid booking")
	ErrInvariantViolation = errors.New("pricing invariant violated")
	ErrInvalidConfig      = errors.New("invalid pricing configuration")
)

// Validation rule identifiers reported by InvalidBookingError.
const (
	RulePartySize   = "party_size"
	RuleTimeWindow  = "time_window"
	RuleFeeOption   = "fee_option"
	RuleContactName = "primary_contact_name"
	RuleClientRUT   = "client_rut"
	RuleCode        = "code"
)

// InvalidBookingError names the first validation rule a booking violated.
type InvalidBookingError struct {
	Rule   string
	Reason string
}

func (e *InvalidBookingError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidBooking, e.Rule, e.Reason)
}

// Is lets callers match with errors.Is(err, ErrInvalidBooking).
func (e *InvalidBookingError) Is(target error) bool {
	return target == ErrInvalidBooking
}

func invalidBooking(rule, reason string) error {
	return &InvalidBookingError{Rule: rule, Reason: reason}
}
