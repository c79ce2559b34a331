package models

import (
	"time"

	"karting_backend/internal/pricing"
)

// Booking represents a reservation of the karting track
type Booking struct {
	ID                 int64             `json:"id" db:"id"`
	Code               int64             `json:"code" db:"code"` // Externally assigned, unique per booking
	StartTime          time.Time         `json:"start_time" db:"start_time"`
	EndTime            time.Time         `json:"end_time" db:"end_time"`
	PartySize          int               `json:"party_size" db:"party_size"`
	LimitMinutes       int               `json:"limit_minutes" db:"limit_minutes"` // Derived from the fee option
	PrimaryContactName string            `json:"primary_contact_name" db:"primary_contact_name"`
	ClientRUT          string            `json:"client_rut" db:"client_rut"`
	FeeOption          pricing.FeeOption `json:"fee_option" db:"fee_option"`
	IsSpecialDay       bool              `json:"is_special_day" db:"is_special_day"`
	VisitRecorded      bool              `json:"visit_recorded" db:"visit_recorded"` // Set once the client's visit count includes this booking
	CreatedAt          time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at" db:"updated_at"`
	Client             *Client           `json:"client,omitempty"` // For joining with Client details
}

// PricingInput returns the read-only view the pricing engine consumes.
func (b *Booking) PricingInput() pricing.BookingInput {
	return pricing.BookingInput{
		Code:               b.Code,
		CreatedAt:          b.CreatedAt,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		PartySize:          b.PartySize,
		PrimaryContactName: b.PrimaryContactName,
		ClientRUT:          b.ClientRUT,
		FeeOption:          b.FeeOption,
		IsSpecialDay:       b.IsSpecialDay,
	}
}

// BookingFilters defines the available filters for querying bookings.
type BookingFilters struct {
	ClientRUT *string            `form:"client_rut"`
	FeeOption *pricing.FeeOption `form:"fee_option"`
	DateFrom  *time.Time         `form:"date_from"` // Expect YYYY-MM-DD
	DateTo    *time.Time         `form:"date_to"`   // Expect YYYY-MM-DD, inclusive
	Page      int                `form:"page"`
	PageSize  int                `form:"page_size"`
}
