package models

import (
	"time"

	"karting_backend/internal/pricing"
)

// Client represents a customer of the karting track
type Client struct {
	ID             int64      `json:"id" db:"id"`
	RUT            string     `json:"rut" db:"rut"` // Chilean national ID, unique
	Name           string     `json:"name" db:"name"`
	VisitFrequency int        `json:"visit_frequency" db:"visit_frequency"` // Prior visits
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// PricingInput returns the read-only view the pricing engine consumes.
func (c *Client) PricingInput() pricing.ClientInput {
	in := pricing.ClientInput{
		RUT:            c.RUT,
		Name:           c.Name,
		VisitFrequency: c.VisitFrequency,
	}
	if c.DateOfBirth != nil {
		in.DateOfBirth = *c.DateOfBirth
	}
	return in
}
