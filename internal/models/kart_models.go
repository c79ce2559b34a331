package models

import "time"

// KartFleetSize is the number of karts on the track (K001..K015).
const KartFleetSize = 15

// Kart represents one vehicle of the fleet
type Kart struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`           // K001, K002, ...
	Available bool      `json:"available" db:"available"` // false while in maintenance
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
