package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karting_backend/internal/models"
	"karting_backend/internal/pricing"
	"karting_backend/internal/services"
	"karting_backend/pkg/utils"
)

type stubBookingService struct {
	createErr error
	created   *services.CreateBookingRequest
}

func (s *stubBookingService) CreateBooking(req services.CreateBookingRequest) (*models.Booking, error) {
	s.created = &req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Booking{ID: 1, Code: req.Code, FeeOption: req.FeeOption, LimitMinutes: 30}, nil
}

func (s *stubBookingService) GetBookingByID(id int64) (*models.Booking, error) {
	if id != 1 {
		return nil, services.ErrBookingNotFound
	}
	return &models.Booking{ID: 1, FeeOption: pricing.FeeOptionStandard}, nil
}

func (s *stubBookingService) GetBookings(models.BookingFilters) ([]models.Booking, int, error) {
	return nil, 0, nil
}

func (s *stubBookingService) UpdateBooking(int64, services.UpdateBookingRequest) (*models.Booking, error) {
	return nil, errors.New("boom")
}

func (s *stubBookingService) DeleteBooking(int64) error { return nil }

type stubVoucherService struct {
	computeErr error
	verifyErr  error
}

func (s *stubVoucherService) ComputeVoucher(bookingID int64) (*pricing.Voucher, error) {
	if s.computeErr != nil {
		return nil, s.computeErr
	}
	return &pricing.Voucher{BookingCode: bookingID, FeeOption: pricing.FeeOptionBasic, Fee: 15000, Tax: 2850, Total: 17850}, nil
}

func (s *stubVoucherService) IssueVoucher(bookingID int64) (*models.IssuedVoucher, error) {
	return &models.IssuedVoucher{
		ID:        3,
		BookingID: bookingID,
		Voucher:   pricing.Voucher{FeeOption: pricing.FeeOptionBasic, State: pricing.VoucherStateDelivered},
		Token:     "signed",
	}, nil
}

func (s *stubVoucherService) GetIssuedVouchers(int64) ([]models.IssuedVoucher, error) {
	return nil, nil
}

func (s *stubVoucherService) VerifyVoucherToken(string) (*utils.VoucherClaims, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &utils.VoucherClaims{BookingCode: 5001, Total: 17850}, nil
}

func (s *stubVoucherService) GetFeeSchedule() services.FeeScheduleResponse {
	return services.FeeScheduleResponse{ConfigVersion: "v1", TaxRate: "0.19"}
}

func newTestRouter(bs services.BookingService, vs services.VoucherService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	bh := NewBookingHandler(bs)
	vh := NewVoucherHandler(vs)
	r.POST("/bookings", bh.CreateBooking)
	r.GET("/bookings", bh.GetBookings)
	r.GET("/bookings/:id", bh.GetBookingByID)
	r.PUT("/bookings/:id", bh.UpdateBooking)
	r.GET("/bookings/:id/voucher", vh.ComputeVoucher)
	r.POST("/bookings/:id/voucher", vh.IssueVoucher)
	r.GET("/bookings/:id/vouchers", vh.GetIssuedVouchers)
	r.GET("/vouchers/verify", vh.VerifyVoucher)
	r.GET("/fees", vh.GetFeeSchedule)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error utils.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

const createBody = `{"code": 9, "start_time": "2025-04-28T15:00:00", "end_time": "2025-04-28T15:30:00",
	"party_size": 2, "primary_contact_name": "Ana", "client_rut": "11.111.111-1", "fee_option": "basic"}`

func TestCreateBooking(t *testing.T) {
	bs := &stubBookingService{}
	w := doRequest(newTestRouter(bs, &stubVoucherService{}), http.MethodPost, "/bookings", createBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, bs.created)
	assert.Equal(t, pricing.FeeOptionBasic, bs.created.FeeOption)
	assert.Contains(t, w.Body.String(), `"fee_option":"basic"`)
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"invalid booking", fmt.Errorf("wrapped: %w", &pricing.InvalidBookingError{Rule: pricing.RuleTimeWindow, Reason: "end before start"}), http.StatusBadRequest, utils.ErrCodeValidationFailed},
		{"unknown client", services.ErrClientForBookingNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
		{"duplicate code", services.ErrBookingCodeExists, http.StatusConflict, utils.ErrCodeConflict},
		{"invariant", pricing.ErrInvariantViolation, http.StatusInternalServerError, utils.ErrCodeInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := &stubBookingService{createErr: tt.err}
			w := doRequest(newTestRouter(bs, &stubVoucherService{}), http.MethodPost, "/bookings", createBody)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, errorCode(t, w))
		})
	}
}

func TestCreateBooking_BadOption(t *testing.T) {
	body := strings.Replace(createBody, `"basic"`, `"deluxe"`, 1)
	w := doRequest(newTestRouter(&stubBookingService{}, &stubVoucherService{}), http.MethodPost, "/bookings", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrCodeValidationFailed, errorCode(t, w))
}

func TestGetBookings_EmptyList(t *testing.T) {
	w := doRequest(newTestRouter(&stubBookingService{}, &stubVoucherService{}), http.MethodGet, "/bookings?fee_option=2", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data": [], "total": 0, "page": 1, "page_size": 10}`, w.Body.String())

	w = doRequest(newTestRouter(&stubBookingService{}, &stubVoucherService{}), http.MethodGet, "/bookings?date_from=28-04-2025", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookingByID(t *testing.T) {
	r := newTestRouter(&stubBookingService{}, &stubVoucherService{})

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/bookings/1", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/bookings/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/bookings/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/bookings/-4", "").Code)
}

func TestUpdateBooking_HidesInternalErrors(t *testing.T) {
	w := doRequest(newTestRouter(&stubBookingService{}, &stubVoucherService{}), http.MethodPut, "/bookings/1", `{}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestComputeVoucher(t *testing.T) {
	w := doRequest(newTestRouter(&stubBookingService{}, &stubVoucherService{}), http.MethodGet, "/bookings/7/voucher", "")

	require.Equal(t, http.StatusOK, w.Code)
	var v map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, float64(17850), v["total"])
	assert.Equal(t, float64(7), v["booking_code"])
}

func TestComputeVoucher_NotFound(t *testing.T) {
	vs := &stubVoucherService{computeErr: services.ErrBookingNotFound}
	w := doRequest(newTestRouter(&stubBookingService{}, vs), http.MethodGet, "/bookings/7/voucher", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIssueVoucher(t *testing.T) {
	w := doRequest(newTestRouter(&stubBookingService{}, &stubVoucherService{}), http.MethodPost, "/bookings/7/voucher", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"signed"`)
}

func TestGetIssuedVouchers_Empty(t *testing.T) {
	w := doRequest(newTestRouter(&stubBookingService{}, &stubVoucherService{}), http.MethodGet, "/bookings/7/vouchers", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data": [], "total": 0}`, w.Body.String())
}

func TestVerifyVoucher(t *testing.T) {
	r := newTestRouter(&stubBookingService{}, &stubVoucherService{})
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/vouchers/verify?token=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/vouchers/verify", "").Code)

	bad := newTestRouter(&stubBookingService{}, &stubVoucherService{verifyErr: services.ErrVoucherTampered})
	w := doRequest(bad, http.MethodGet, "/vouchers/verify?token=abc", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, utils.ErrCodeInvalidToken, errorCode(t, w))
}

func TestGetFeeSchedule(t *testing.T) {
	w := doRequest(newTestRouter(&stubBookingService{}, &stubVoucherService{}), http.MethodGet, "/fees", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tax_rate":"0.19"`)
}
