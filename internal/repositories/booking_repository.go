package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"karting_backend/internal/models"
)

// BookingRepository defines the interface for booking-related database operations.
type BookingRepository interface {
	CreateBooking(executor SQLExecutor, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(id int64) (*models.Booking, error) // Joins with the client
	GetBookingByCode(code int64) (*models.Booking, error)
	GetBookings(filters models.BookingFilters) ([]models.Booking, int, error) // Bookings, total count
	UpdateBooking(executor SQLExecutor, booking *models.Booking) (*models.Booking, error)
	DeleteBooking(executor SQLExecutor, id int64) error
	MarkVisitRecorded(executor SQLExecutor, id int64) (bool, error) // true only for the call that flipped the flag
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const getBookingJoins = `
	FROM bookings b
	LEFT JOIN clients c ON b.client_rut = c.rut
`
const selectBookingFields = `
	b.id, b.code, b.start_time, b.end_time, b.party_size, b.limit_minutes,
	b.primary_contact_name, b.client_rut, b.fee_option, b.is_special_day, b.visit_recorded, b.created_at, b.updated_at,
	COALESCE(c.id, 0), COALESCE(c.rut, ''), COALESCE(c.name, ''), COALESCE(c.visit_frequency, 0), c.date_of_birth,
	COALESCE(c.created_at, '0001-01-01'::timestamp), COALESCE(c.updated_at, '0001-01-01'::timestamp)
`

// scanBookingRow scans a booking row and its joined client.
func scanBookingRow(row scanner, isList bool) (*models.Booking, int, error) {
	var booking models.Booking
	var client models.Client
	var clientDOB sql.NullTime
	var totalCount int

	scanDest := []interface{}{
		&booking.ID, &booking.Code, &booking.StartTime, &booking.EndTime, &booking.PartySize, &booking.LimitMinutes,
		&booking.PrimaryContactName, &booking.ClientRUT, &booking.FeeOption, &booking.IsSpecialDay, &booking.VisitRecorded,
		&booking.CreatedAt, &booking.UpdatedAt,
		&client.ID, &client.RUT, &client.Name, &client.VisitFrequency, &clientDOB, &client.CreatedAt, &client.UpdatedAt,
	}
	if isList {
		scanDest = append(scanDest, &totalCount)
	}

	err := row.Scan(scanDest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: scanning booking with details: %v", ErrDatabaseError, err)
	}

	if client.ID != 0 {
		if clientDOB.Valid {
			client.DateOfBirth = &clientDOB.Time
		}
		booking.Client = &client
	}
	return &booking, totalCount, nil
}

func (r *bookingRepository) CreateBooking(executor SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	query := `INSERT INTO bookings
	            (code, start_time, end_time, party_size, limit_minutes, primary_contact_name, client_rut, fee_option, is_special_day, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	booking.CreatedAt = currentTime
	booking.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		booking.Code, booking.StartTime, booking.EndTime, booking.PartySize, booking.LimitMinutes,
		booking.PrimaryContactName, booking.ClientRUT, int(booking.FeeOption), booking.IsSpecialDay,
		booking.CreatedAt, booking.UpdatedAt,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, wrapPQError(err, "creating booking")
	}
	return booking, nil
}

func (r *bookingRepository) GetBookingByID(id int64) (*models.Booking, error) {
	query := "SELECT " + selectBookingFields + getBookingJoins + " WHERE b.id = $1"
	booking, _, err := scanBookingRow(r.db.QueryRow(query, id), false)
	return booking, err
}

func (r *bookingRepository) GetBookingByCode(code int64) (*models.Booking, error) {
	query := "SELECT " + selectBookingFields + getBookingJoins + " WHERE b.code = $1"
	booking, _, err := scanBookingRow(r.db.QueryRow(query, code), false)
	return booking, err
}

func (r *bookingRepository) GetBookings(filters models.BookingFilters) ([]models.Booking, int, error) {
	bookings := []models.Booking{}
	var totalCount int

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectBookingFields + ", COUNT(*) OVER() as total_count " + getBookingJoins)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.ClientRUT != nil && *filters.ClientRUT != "" {
		conditions = append(conditions, fmt.Sprintf("b.client_rut = $%d", argCount))
		args = append(args, *filters.ClientRUT)
		argCount++
	}
	if filters.FeeOption != nil {
		conditions = append(conditions, fmt.Sprintf("b.fee_option = $%d", argCount))
		args = append(args, int(*filters.FeeOption))
		argCount++
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("b.start_time >= $%d", argCount))
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("b.end_time <= $%d", argCount))
		args = append(args, *filters.DateTo)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY b.start_time DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying bookings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		booking, scannedTotalCount, scanErr := scanBookingRow(rows, true)
		if scanErr != nil {
			return nil, 0, scanErr // Error already wrapped in scanBookingRow
		}
		bookings = append(bookings, *booking)
		totalCount = scannedTotalCount // total_count is the same for all rows from OVER()
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating booking rows: %v", ErrDatabaseError, err)
	}
	return bookings, totalCount, nil
}

func (r *bookingRepository) UpdateBooking(executor SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	query := `UPDATE bookings SET
	            code = $1, start_time = $2, end_time = $3, party_size = $4, limit_minutes = $5,
	            primary_contact_name = $6, client_rut = $7, fee_option = $8, is_special_day = $9, updated_at = $10
	          WHERE id = $11
	          RETURNING updated_at`
	booking.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		booking.Code, booking.StartTime, booking.EndTime, booking.PartySize, booking.LimitMinutes,
		booking.PrimaryContactName, booking.ClientRUT, int(booking.FeeOption), booking.IsSpecialDay,
		booking.UpdatedAt, booking.ID,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapPQError(err, fmt.Sprintf("updating booking ID %d", booking.ID))
	}
	return booking, nil
}

func (r *bookingRepository) DeleteBooking(executor SQLExecutor, id int64) error {
	query := `DELETE FROM bookings WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return wrapPQError(err, fmt.Sprintf("deleting booking ID %d", id))
	}
	return rowsAffectedOrNotFound(result, fmt.Sprintf("deleting booking ID %d", id))
}

// MarkVisitRecorded flips visit_recorded from false to true. Only the caller whose update
// changed the row gets true, so a booking's visit is counted once.
func (r *bookingRepository) MarkVisitRecorded(executor SQLExecutor, id int64) (bool, error) {
	query := `UPDATE bookings SET visit_recorded = TRUE, updated_at = $1 WHERE id = $2 AND visit_recorded = FALSE`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("%w: marking visit for booking ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for booking ID %d: %v", ErrDatabaseError, id, err)
	}
	return rowsAffected == 1, nil
}
