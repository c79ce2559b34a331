package pricing

import (
	"fmt"
	"time"
)

// Discount fractions per rule.
const (
	GroupDiscountSmall  = 0.10 // 3..5 people
	GroupDiscountMedium = 0.20 // 6..10 people
	GroupDiscountLarge  = 0.30 // 11 or more

	FrequencyDiscountLow    = 0.10 // 2..4 visits
	FrequencyDiscountMedium = 0.20 // 5..6 visits
	FrequencyDiscountHigh   = 0.30 // 7 or more

	BirthdayDiscount   = 0.50
	SpecialDayDiscount = 0.05
)

// Inclusive lower bounds of each tier.
const (
	GroupSmallMinSize  = 3
	GroupMediumMinSize = 6
	GroupLargeMinSize  = 11

	FrequencyLowMinVisits    = 2
	FrequencyMediumMinVisits = 5
	FrequencyHighMinVisits   = 7

	BirthdayMinPartySize = 3
)

// DiscountBreakdown keeps every rule's contribution next to the resolved fraction,
// so a printed voucher can show why a discount applied.
type DiscountBreakdown struct {
	Group      float64 `json:"group"`
	Frequency  float64 `json:"frequency"`
	Birthday   float64 `json:"birthday"`
	SpecialDay float64 `json:"special_day"`
	Resolved   float64 `json:"resolved"`
}

// GroupDiscount is tiered on party size; the highest matching tier wins.
func GroupDiscount(partySize int) float64 {
	switch {
	case partySize >= GroupLargeMinSize:
		return GroupDiscountLarge
	case partySize >= GroupMediumMinSize:
		return GroupDiscountMedium
	case partySize >= GroupSmallMinSize:
		return GroupDiscountSmall
	default:
		return 0
	}
}

// FrequencyDiscount is tiered on the client's prior visit count.
func FrequencyDiscount(visits int) float64 {
	switch {
	case visits >= FrequencyHighMinVisits:
		return FrequencyDiscountHigh
	case visits >= FrequencyMediumMinVisits:
		return FrequencyDiscountMedium
	case visits >= FrequencyLowMinVisits:
		return FrequencyDiscountLow
	default:
		return 0
	}
}

// BirthdayDiscountFor applies when the session falls on the client's birthday and
// at least BirthdayMinPartySize people attend.
func BirthdayDiscountFor(bookingDate, dateOfBirth time.Time, partySize int) float64 {
	if partySize < BirthdayMinPartySize || !IsBirthday(bookingDate, dateOfBirth) {
		return 0
	}
	return BirthdayDiscount
}

// IsBirthday compares month and day only. Comparing full dates, as older receipts did,
// would only ever match on the day the client was born.
// Clients born on Feb 29 celebrate on Feb 28 in non-leap years.
func IsBirthday(day, dateOfBirth time.Time) bool {
	if dateOfBirth.IsZero() || day.IsZero() {
		return false
	}
	_, bm, bd := dateOfBirth.Date()
	y, m, d := day.Date()
	if bm == time.February && bd == 29 && !isLeap(y) {
		return m == time.February && d == 28
	}
	return m == bm && d == bd
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// SpecialDayDiscountFor is a flat fraction on operator-flagged days.
func SpecialDayDiscountFor(isSpecialDay bool) float64 {
	if isSpecialDay {
		return SpecialDayDiscount
	}
	return 0
}

// EvaluateDiscount runs all four rules and resolves them highest-wins.
// Discounts never compound.
func (e *Engine) EvaluateDiscount(booking BookingInput, client ClientInput) (DiscountBreakdown, error) {
	b := DiscountBreakdown{
		Group:      GroupDiscount(booking.PartySize),
		Frequency:  FrequencyDiscount(client.VisitFrequency),
		Birthday:   BirthdayDiscountFor(booking.BookingDate(), client.DateOfBirth, booking.PartySize),
		SpecialDay: SpecialDayDiscountFor(booking.IsSpecialDay),
	}
	b.Resolved = max(b.Group, b.Frequency, b.Birthday, b.SpecialDay)
	if b.Resolved < 0 || b.Resolved > 1 {
		return DiscountBreakdown{}, fmt.Errorf("%w: discount %v outside [0, 1]", ErrInvariantViolation, b.Resolved)
	}
	return b, nil
}
