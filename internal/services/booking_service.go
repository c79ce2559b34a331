package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"karting_backend/internal/models"
	"karting_backend/internal/pricing"
	"karting_backend/internal/repositories"
	"karting_backend/pkg/utils"
)

// --- Custom Service Errors for Booking ---
var (
	ErrBookingNotFound          = errors.New("booking not found")
	ErrBookingCodeExists        = errors.New("a booking with this code already exists")
	ErrClientForBookingNotFound = errors.New("client for booking not found")
	ErrBookingTimeFormat        = errors.New("invalid time format, please use RFC3339 or YYYY-MM-DDTHH:MM:SS")
)

// --- Booking DTOs ---
type CreateBookingRequest struct {
	Code               int64             `json:"code" binding:"required"`
	StartTime          string            `json:"start_time" binding:"required"`
	EndTime            string            `json:"end_time" binding:"required"`
	PartySize          int               `json:"party_size" binding:"required"`
	PrimaryContactName string            `json:"primary_contact_name" binding:"required"`
	ClientRUT          string            `json:"client_rut" binding:"required"`
	FeeOption          pricing.FeeOption `json:"fee_option" binding:"required"`
	IsSpecialDay       bool              `json:"is_special_day"`
}

type UpdateBookingRequest struct {
	StartTime          *string            `json:"start_time"`
	EndTime            *string            `json:"end_time"`
	PartySize          *int               `json:"party_size"`
	PrimaryContactName *string            `json:"primary_contact_name"`
	FeeOption          *pricing.FeeOption `json:"fee_option"`
	IsSpecialDay       *bool              `json:"is_special_day"`
}

// --- BookingService Interface ---
type BookingService interface {
	CreateBooking(req CreateBookingRequest) (*models.Booking, error)
	GetBookingByID(bookingID int64) (*models.Booking, error)
	GetBookings(filters models.BookingFilters) ([]models.Booking, int, error)
	UpdateBooking(bookingID int64, req UpdateBookingRequest) (*models.Booking, error)
	DeleteBooking(bookingID int64) error
}

// --- bookingService Implementation ---
type bookingService struct {
	bookingRepo repositories.BookingRepository
	clientRepo  repositories.ClientRepository
	engine      *pricing.Engine
	db          *sql.DB
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(bookingRepo repositories.BookingRepository, clientRepo repositories.ClientRepository, engine *pricing.Engine, db *sql.DB) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		clientRepo:  clientRepo,
		engine:      engine,
		db:          db,
	}
}

// applyPricingRules validates the booking and derives its session length from the fee table.
func (s *bookingService) applyPricingRules(booking *models.Booking) error {
	if err := pricing.Validate(booking.PricingInput()); err != nil {
		return err
	}
	fee, err := s.engine.LookupFee(booking.FeeOption)
	if err != nil {
		return err
	}
	booking.LimitMinutes = fee.DurationMinutes
	return nil
}

func (s *bookingService) CreateBooking(req CreateBookingRequest) (*models.Booking, error) {
	startTime, err := utils.ParseDateTime(req.StartTime)
	if err != nil {
		return nil, ErrBookingTimeFormat
	}
	endTime, err := utils.ParseDateTime(req.EndTime)
	if err != nil {
		return nil, ErrBookingTimeFormat
	}

	booking := &models.Booking{
		Code:               req.Code,
		StartTime:          startTime,
		EndTime:            endTime,
		PartySize:          req.PartySize,
		PrimaryContactName: strings.TrimSpace(req.PrimaryContactName),
		ClientRUT:          utils.NormalizeRUT(req.ClientRUT),
		FeeOption:          req.FeeOption,
		IsSpecialDay:       req.IsSpecialDay,
	}
	if err := s.applyPricingRules(booking); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetClientByRUT(booking.ClientRUT); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no client with RUT %s", ErrClientForBookingNotFound, booking.ClientRUT)
		}
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}

	if existing, err := s.bookingRepo.GetBookingByCode(booking.Code); err == nil && existing != nil {
		return nil, ErrBookingCodeExists
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check booking code uniqueness: %w", err)
	}

	created, err := s.bookingRepo.CreateBooking(s.db, booking)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrBookingCodeExists
		}
		return nil, fmt.Errorf("failed to create booking in repository: %w", err)
	}

	utils.LogInfo("Booking created", map[string]interface{}{"booking_id": created.ID, "code": created.Code, "fee_option": created.FeeOption.String()})
	return s.bookingRepo.GetBookingByID(created.ID)
}

func (s *bookingService) GetBookingByID(bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ID: %w", err)
	}
	return booking, nil
}

func (s *bookingService) GetBookings(filters models.BookingFilters) ([]models.Booking, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	if filters.ClientRUT != nil {
		rut := utils.NormalizeRUT(*filters.ClientRUT)
		filters.ClientRUT = &rut
	}

	bookings, total, err := s.bookingRepo.GetBookings(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, total, nil
}

func (s *bookingService) UpdateBooking(bookingID int64, req UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking for update: %w", err)
	}

	if req.StartTime != nil {
		t, parseErr := utils.ParseDateTime(*req.StartTime)
		if parseErr != nil {
			return nil, ErrBookingTimeFormat
		}
		booking.StartTime = t
	}
	if req.EndTime != nil {
		t, parseErr := utils.ParseDateTime(*req.EndTime)
		if parseErr != nil {
			return nil, ErrBookingTimeFormat
		}
		booking.EndTime = t
	}
	if req.PartySize != nil {
		booking.PartySize = *req.PartySize
	}
	if req.PrimaryContactName != nil {
		booking.PrimaryContactName = strings.TrimSpace(*req.PrimaryContactName)
	}
	if req.FeeOption != nil {
		booking.FeeOption = *req.FeeOption
	}
	if req.IsSpecialDay != nil {
		booking.IsSpecialDay = *req.IsSpecialDay
	}

	if err := s.applyPricingRules(booking); err != nil {
		return nil, err
	}

	if _, err := s.bookingRepo.UpdateBooking(s.db, booking); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking in repository: %w", err)
	}
	return s.bookingRepo.GetBookingByID(bookingID)
}

func (s *bookingService) DeleteBooking(bookingID int64) error {
	if err := s.bookingRepo.DeleteBooking(s.db, bookingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
