package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"karting_backend/internal/models"
	"karting_backend/internal/pricing"
	"karting_backend/internal/repositories"
)

type fakeClientRepo struct {
	byRUT       map[string]*models.Client
	nextID      int64
	incremented []string
	deleteErr   error
}

func newFakeClientRepo(clients ...*models.Client) *fakeClientRepo {
	r := &fakeClientRepo{byRUT: map[string]*models.Client{}, nextID: 1}
	for _, c := range clients {
		if c.ID == 0 {
			c.ID = r.nextID
		}
		r.nextID = c.ID + 1
		r.byRUT[c.RUT] = c
	}
	return r
}

func (r *fakeClientRepo) CreateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	if _, ok := r.byRUT[client.RUT]; ok {
		return 0, repositories.ErrDuplicateKey
	}
	client.ID = r.nextID
	r.nextID++
	c := *client
	r.byRUT[client.RUT] = &c
	return client.ID, nil
}

func (r *fakeClientRepo) GetClientByID(id int64) (*models.Client, error) {
	for _, c := range r.byRUT {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeClientRepo) GetClientByRUT(rut string) (*models.Client, error) {
	c, ok := r.byRUT[rut]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) GetClients(_, _ int, _ *string) ([]models.Client, int, error) {
	out := []models.Client{}
	for _, c := range r.byRUT {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (r *fakeClientRepo) UpdateClient(_ repositories.SQLExecutor, client *models.Client) error {
	if _, ok := r.byRUT[client.RUT]; !ok {
		return repositories.ErrNotFound
	}
	c := *client
	r.byRUT[client.RUT] = &c
	return nil
}

func (r *fakeClientRepo) IncrementVisitFrequency(_ repositories.SQLExecutor, rut string) error {
	c, ok := r.byRUT[rut]
	if !ok {
		return repositories.ErrNotFound
	}
	c.VisitFrequency++
	r.incremented = append(r.incremented, rut)
	return nil
}

func (r *fakeClientRepo) DeleteClient(_ repositories.SQLExecutor, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for rut, c := range r.byRUT {
		if c.ID == id {
			delete(r.byRUT, rut)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeBookingRepo struct {
	byID   map[int64]*models.Booking
	nextID int64
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{byID: map[int64]*models.Booking{}, nextID: 1}
	for _, b := range bookings {
		if b.ID == 0 {
			b.ID = r.nextID
		}
		r.nextID = b.ID + 1
		r.byID[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) CreateBooking(_ repositories.SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	for _, b := range r.byID {
		if b.Code == booking.Code {
			return nil, repositories.ErrDuplicateKey
		}
	}
	booking.ID = r.nextID
	r.nextID++
	b := *booking
	r.byID[b.ID] = &b
	return booking, nil
}

func (r *fakeBookingRepo) GetBookingByID(id int64) (*models.Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetBookingByCode(code int64) (*models.Booking, error) {
	for _, b := range r.byID {
		if b.Code == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeBookingRepo) GetBookings(filters models.BookingFilters) ([]models.Booking, int, error) {
	out := []models.Booking{}
	for _, b := range r.byID {
		if filters.ClientRUT != nil && b.ClientRUT != *filters.ClientRUT {
			continue
		}
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (r *fakeBookingRepo) UpdateBooking(_ repositories.SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	if _, ok := r.byID[booking.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	b := *booking
	r.byID[b.ID] = &b
	return booking, nil
}

func (r *fakeBookingRepo) DeleteBooking(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeBookingRepo) MarkVisitRecorded(_ repositories.SQLExecutor, id int64) (bool, error) {
	b, ok := r.byID[id]
	if !ok || b.VisitRecorded {
		return false, nil
	}
	b.VisitRecorded = true
	return true, nil
}

type fakeVoucherRepo struct {
	stored    []models.IssuedVoucher
	createErr error
}

func (r *fakeVoucherRepo) CreateVoucher(_ repositories.SQLExecutor, iv *models.IssuedVoucher) (*models.IssuedVoucher, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	iv.ID = int64(len(r.stored) + 1)
	r.stored = append(r.stored, *iv)
	return iv, nil
}

func (r *fakeVoucherRepo) GetVouchersByBookingID(bookingID int64) ([]models.IssuedVoucher, error) {
	out := []models.IssuedVoucher{}
	for _, iv := range r.stored {
		if iv.BookingID == bookingID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

const testRUT = "12345678-5"

func testClient(visits int) *models.Client {
	dob := time.Date(1990, time.January, 3, 0, 0, 0, 0, time.UTC)
	return &models.Client{ID: 1, RUT: testRUT, Name: "Camila Rojas", VisitFrequency: visits, DateOfBirth: &dob}
}

func testBooking(partySize int, option pricing.FeeOption) *models.Booking {
	return &models.Booking{
		ID:                 1,
		Code:               5001,
		StartTime:          time.Date(2025, time.April, 28, 15, 0, 0, 0, time.UTC),
		EndTime:            time.Date(2025, time.April, 28, 15, 30, 0, 0, time.UTC),
		PartySize:          partySize,
		PrimaryContactName: "Camila Rojas",
		ClientRUT:          testRUT,
		FeeOption:          option,
	}
}
