package pricing

import (
	"strings"
	"time"
)

// Validate checks a booking's structure before it can be priced.
// Rules run in a fixed order and the first failure is returned.
func Validate(b BookingInput) error {
	if b.PartySize < 1 {
		return invalidBooking(RulePartySize, "party size must be at least 1")
	}
	if b.StartTime.IsZero() || b.EndTime.IsZero() {
		return invalidBooking(RuleTimeWindow, "start and end time are required")
	}
	if !b.StartTime.Before(b.EndTime) {
		return invalidBooking(RuleTimeWindow, "start time must be before end time")
	}
	if !sameDay(b.StartTime, b.EndTime) {
		return invalidBooking(RuleTimeWindow, "start and end time must fall on the same calendar day")
	}
	if !b.FeeOption.IsValid() {
		return invalidBooking(RuleFeeOption, "unknown fee option "+b.FeeOption.String())
	}
	if strings.TrimSpace(b.PrimaryContactName) == "" {
		return invalidBooking(RuleContactName, "primary contact name is required")
	}
	if strings.TrimSpace(b.ClientRUT) == "" {
		return invalidBooking(RuleClientRUT, "client RUT is required")
	}
	if b.Code <= 0 {
		return invalidBooking(RuleCode, "booking code must be positive")
	}
	return nil
}

// sameDay compares calendar dates in the start time's location.
func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
