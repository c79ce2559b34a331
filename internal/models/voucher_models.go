package models

import (
	"time"

	"karting_backend/internal/pricing"
)

// IssuedVoucher is a voucher snapshot that was handed to a client.
// It is stored as issued and never recomputed.
type IssuedVoucher struct {
	ID          int64           `json:"id" db:"id"`
	BookingID   int64           `json:"booking_id" db:"booking_id"`
	BookingDate time.Time       `json:"booking_date" db:"booking_date"`
	ClientName  string          `json:"client_name" db:"client_name"`
	Voucher     pricing.Voucher `json:"voucher"`
	Token       string          `json:"token" db:"token"` // Signed voucher claims
	IssuedAt    time.Time       `json:"issued_at" db:"issued_at"`
}
