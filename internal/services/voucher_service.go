package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"karting_backend/internal/models"
	"karting_backend/internal/pricing"
	"karting_backend/internal/repositories"
	"karting_backend/pkg/utils"
)

var (
	ErrInvalidVoucherToken = errors.New("voucher token is invalid")
	ErrVoucherTampered     = errors.New("voucher amounts do not match their digest")
)

// FeeScheduleResponse is the public price list.
type FeeScheduleResponse struct {
	ConfigVersion string        `json:"config_version"`
	TaxRate       string        `json:"tax_rate"`
	Fees          []pricing.Fee `json:"fees"`
}

// VoucherService prices bookings and issues signed voucher snapshots.
type VoucherService interface {
	ComputeVoucher(bookingID int64) (*pricing.Voucher, error)
	IssueVoucher(bookingID int64) (*models.IssuedVoucher, error)
	GetIssuedVouchers(bookingID int64) ([]models.IssuedVoucher, error)
	VerifyVoucherToken(token string) (*utils.VoucherClaims, error)
	GetFeeSchedule() FeeScheduleResponse
}

type voucherService struct {
	bookingRepo repositories.BookingRepository
	clientRepo  repositories.ClientRepository
	voucherRepo repositories.VoucherRepository
	engine      *pricing.Engine
	signer      *utils.VoucherSigner
	db          *sql.DB
	now         func() time.Time
}

// NewVoucherService creates a new instance of VoucherService.
func NewVoucherService(
	bookingRepo repositories.BookingRepository,
	clientRepo repositories.ClientRepository,
	voucherRepo repositories.VoucherRepository,
	engine *pricing.Engine,
	signer *utils.VoucherSigner,
	db *sql.DB,
) VoucherService {
	return &voucherService{
		bookingRepo: bookingRepo,
		clientRepo:  clientRepo,
		voucherRepo: voucherRepo,
		engine:      engine,
		signer:      signer,
		db:          db,
		now:         time.Now,
	}
}

// loadPricingInputs fetches the booking and its client from current state.
func (s *voucherService) loadPricingInputs(bookingID int64) (*models.Booking, *models.Client, error) {
	booking, err := s.bookingRepo.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, fmt.Errorf("failed to get booking for voucher: %w", err)
	}

	// The joined client comes from the same row read as visit_recorded, so the two agree.
	client := booking.Client
	if client == nil {
		client, err = s.clientRepo.GetClientByRUT(booking.ClientRUT)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: no client with RUT %s", ErrClientForBookingNotFound, booking.ClientRUT)
			}
			return nil, nil, fmt.Errorf("failed to get client for voucher: %w", err)
		}
	}

	// Once recorded, the stored count includes this booking; price from prior visits only.
	if booking.VisitRecorded && client.VisitFrequency > 0 {
		client.VisitFrequency--
	}
	return booking, client, nil
}

func (s *voucherService) ComputeVoucher(bookingID int64) (*pricing.Voucher, error) {
	booking, client, err := s.loadPricingInputs(bookingID)
	if err != nil {
		return nil, err
	}

	voucher, err := s.engine.Build(booking.PricingInput(), client.PricingInput())
	if err != nil {
		return nil, err
	}

	utils.LogDebug("Voucher computed", map[string]interface{}{
		"booking_id": bookingID,
		"discount":   voucher.Discount,
		"total":      voucher.Total,
		"version":    voucher.ConfigVersion,
	})
	return &voucher, nil
}

func (s *voucherService) IssueVoucher(bookingID int64) (*models.IssuedVoucher, error) {
	booking, client, err := s.loadPricingInputs(bookingID)
	if err != nil {
		return nil, err
	}

	input := booking.PricingInput()
	voucher, err := s.engine.Build(input, client.PricingInput())
	if err != nil {
		return nil, err
	}

	issuedAt := s.now().UTC()
	voucher.State = pricing.VoucherStateDelivered

	token, err := s.signer.Sign(utils.VoucherClaims{
		BookingCode:   voucher.BookingCode,
		ClientRUT:     voucher.ClientRUT,
		FeeOption:     voucher.FeeOption.String(),
		Fee:           voucher.Fee,
		Discount:      voucher.Discount,
		Tax:           voucher.Tax,
		Total:         voucher.Total,
		ConfigVersion: voucher.ConfigVersion,
		Digest:        voucher.Digest,
	}, issuedAt)
	if err != nil {
		return nil, err
	}

	issued := &models.IssuedVoucher{
		BookingID:   booking.ID,
		BookingDate: input.BookingDate(),
		ClientName:  client.Name,
		Voucher:     voucher,
		Token:       token,
		IssuedAt:    issuedAt,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.voucherRepo.CreateVoucher(tx, issued); err != nil {
		return nil, fmt.Errorf("failed to persist voucher: %w", err)
	}

	firstIssue, err := s.bookingRepo.MarkVisitRecorded(tx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark booking visit: %w", err)
	}
	if firstIssue {
		if err := s.clientRepo.IncrementVisitFrequency(tx, client.RUT); err != nil {
			return nil, fmt.Errorf("failed to record client visit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit voucher issuance: %w", err)
	}

	utils.LogInfo("Voucher issued", map[string]interface{}{
		"booking_id":  bookingID,
		"voucher_id":  issued.ID,
		"total":       voucher.Total,
		"first_issue": firstIssue,
	})
	return issued, nil
}

func (s *voucherService) GetIssuedVouchers(bookingID int64) ([]models.IssuedVoucher, error) {
	if _, err := s.bookingRepo.GetBookingByID(bookingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	vouchers, err := s.voucherRepo.GetVouchersByBookingID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get issued vouchers: %w", err)
	}
	return vouchers, nil
}

// VerifyVoucherToken checks the token signature and that the signed amounts still match their digest.
func (s *voucherService) VerifyVoucherToken(token string) (*utils.VoucherClaims, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVoucherToken, err)
	}

	option, err := pricing.ParseFeeOption(claims.FeeOption)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVoucherToken, err)
	}
	v := pricing.Voucher{
		BookingCode:   claims.BookingCode,
		ClientRUT:     claims.ClientRUT,
		FeeOption:     option,
		Fee:           claims.Fee,
		Discount:      claims.Discount,
		Tax:           claims.Tax,
		Total:         claims.Total,
		ConfigVersion: claims.ConfigVersion,
		Digest:        claims.Digest,
	}
	if !v.VerifyDigest() {
		return nil, ErrVoucherTampered
	}
	return claims, nil
}

func (s *voucherService) GetFeeSchedule() FeeScheduleResponse {
	return FeeScheduleResponse{
		ConfigVersion: s.engine.Version(),
		TaxRate:       s.engine.TaxRate().String(),
		Fees:          s.engine.FeeTable(),
	}
}
