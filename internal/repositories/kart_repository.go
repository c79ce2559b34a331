package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"karting_backend/internal/models"
)

// KartRepository defines the interface for kart fleet operations.
type KartRepository interface {
	GetKarts(onlyAvailable bool) ([]models.Kart, error)
	GetKartByID(id int64) (*models.Kart, error)
	SetKartAvailability(executor SQLExecutor, id int64, available bool) (*models.Kart, error)
}

type kartRepository struct {
	db *sql.DB
}

// NewKartRepository creates a new instance of KartRepository.
func NewKartRepository(db *sql.DB) KartRepository {
	return &kartRepository{db: db}
}

func (r *kartRepository) GetKarts(onlyAvailable bool) ([]models.Kart, error) {
	query := `SELECT id, name, available, updated_at FROM karts`
	if onlyAvailable {
		query += ` WHERE available = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying karts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	karts := []models.Kart{}
	for rows.Next() {
		var kart models.Kart
		if err := rows.Scan(&kart.ID, &kart.Name, &kart.Available, &kart.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning kart: %v", ErrDatabaseError, err)
		}
		karts = append(karts, kart)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating kart rows: %v", ErrDatabaseError, err)
	}
	return karts, nil
}

func (r *kartRepository) GetKartByID(id int64) (*models.Kart, error) {
	var kart models.Kart
	err := r.db.QueryRow(`SELECT id, name, available, updated_at FROM karts WHERE id = $1`, id).
		Scan(&kart.ID, &kart.Name, &kart.Available, &kart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting kart by ID %d: %v", ErrDatabaseError, id, err)
	}
	return &kart, nil
}

func (r *kartRepository) SetKartAvailability(executor SQLExecutor, id int64, available bool) (*models.Kart, error) {
	var kart models.Kart
	err := executor.QueryRow(`UPDATE karts SET available = $1, updated_at = $2 WHERE id = $3
	                          RETURNING id, name, available, updated_at`, available, time.Now(), id).
		Scan(&kart.ID, &kart.Name, &kart.Available, &kart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating kart ID %d: %v", ErrDatabaseError, id, err)
	}
	return &kart, nil
}
