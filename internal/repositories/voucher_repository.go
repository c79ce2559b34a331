package repositories

import (
	"database/sql"
	"fmt"

	"karting_backend/internal/models"
)

// VoucherRepository stores issued voucher snapshots.
type VoucherRepository interface {
	CreateVoucher(executor SQLExecutor, voucher *models.IssuedVoucher) (*models.IssuedVoucher, error)
	GetVouchersByBookingID(bookingID int64) ([]models.IssuedVoucher, error)
}

type voucherRepository struct {
	db *sql.DB
}

// NewVoucherRepository creates a new instance of VoucherRepository.
func NewVoucherRepository(db *sql.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

const selectVoucherFields = `id, booking_id, booking_code, client_rut, client_name, booking_date,
	fee_option, fee, duration_minutes, laps, discount, tax, total, config_version, state, digest, token, issued_at`

func (r *voucherRepository) CreateVoucher(executor SQLExecutor, iv *models.IssuedVoucher) (*models.IssuedVoucher, error) {
	query := `INSERT INTO vouchers
	            (booking_id, booking_code, client_rut, client_name, booking_date, fee_option, fee, duration_minutes, laps,
	             discount, tax, total, config_version, state, digest, token, issued_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	          RETURNING id`
	v := iv.Voucher
	err := executor.QueryRow(query,
		iv.BookingID, v.BookingCode, v.ClientRUT, iv.ClientName, iv.BookingDate, int(v.FeeOption), v.Fee,
		v.DurationMinutes, v.Laps, v.Discount, v.Tax, v.Total, v.ConfigVersion, string(v.State), v.Digest,
		iv.Token, iv.IssuedAt,
	).Scan(&iv.ID)
	if err != nil {
		return nil, wrapPQError(err, fmt.Sprintf("creating voucher for booking ID %d", iv.BookingID))
	}
	return iv, nil
}

// GetVouchersByBookingID returns every voucher issued for a booking, newest first.
// Component discounts are not stored; only the resolved fraction is.
func (r *voucherRepository) GetVouchersByBookingID(bookingID int64) ([]models.IssuedVoucher, error) {
	query := `SELECT ` + selectVoucherFields + ` FROM vouchers WHERE booking_id = $1 ORDER BY issued_at DESC`
	rows, err := r.db.Query(query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying vouchers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	vouchers := []models.IssuedVoucher{}
	for rows.Next() {
		var iv models.IssuedVoucher
		v := &iv.Voucher
		if err := rows.Scan(
			&iv.ID, &iv.BookingID, &v.BookingCode, &v.ClientRUT, &iv.ClientName, &iv.BookingDate,
			&v.FeeOption, &v.Fee, &v.DurationMinutes, &v.Laps, &v.Discount, &v.Tax, &v.Total,
			&v.ConfigVersion, &v.State, &v.Digest, &iv.Token, &iv.IssuedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning voucher: %v", ErrDatabaseError, err)
		}
		v.Discounts.Resolved = v.Discount
		vouchers = append(vouchers, iv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating voucher rows: %v", ErrDatabaseError, err)
	}
	return vouchers, nil
}
