package pricing

import "time"

// BookingInput is the read-only view of a booking the engine prices.
type BookingInput struct {
	Code               int64
	CreatedAt          time.Time
	StartTime          time.Time
	EndTime            time.Time
	PartySize          int
	PrimaryContactName string
	ClientRUT          string
	FeeOption          FeeOption
	IsSpecialDay       bool
}

// ClientInput is the read-only view of the paying client.
type ClientInput struct {
	RUT            string
	Name           string
	VisitFrequency int
	DateOfBirth    time.Time
}

// BookingDate is the calendar day the session takes place on.
func (b BookingInput) BookingDate() time.Time {
	y, m, d := b.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, b.StartTime.Location())
}
