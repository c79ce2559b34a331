package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"karting_backend/internal/models"
	"karting_backend/internal/pricing"
	"karting_backend/internal/services"
	"karting_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler holds the booking service.
type BookingHandler struct {
	bookingService services.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// CreateBooking handles the creation of a new booking.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBooking: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(req)
	if err != nil {
		respondBookingError(c, err, "Failed to create booking.")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBookings handles fetching bookings with filters and pagination.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	filters := models.BookingFilters{Page: page, PageSize: pageSize}

	if rut := c.Query("client_rut"); rut != "" {
		filters.ClientRUT = &rut
	}
	if optionStr := c.Query("fee_option"); optionStr != "" {
		option, err := pricing.ParseFeeOption(optionStr)
		if err != nil {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		filters.FeeOption = &option
	}
	if dateFromStr := c.Query("date_from"); dateFromStr != "" {
		t, err := utils.ParseDate(dateFromStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date_from format. Use YYYY-MM-DD.", err.Error()))
			return
		}
		filters.DateFrom = &t
	}
	if dateToStr := c.Query("date_to"); dateToStr != "" {
		t, err := utils.ParseDate(dateToStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date_to format. Use YYYY-MM-DD.", err.Error()))
			return
		}
		t = t.Add(24*time.Hour - time.Second) // End of day
		filters.DateTo = &t
	}

	bookings, totalCount, err := h.bookingService.GetBookings(filters)
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch bookings.")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      bookings,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetBookingByID handles fetching a single booking by ID.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBookingByID(bookingID)
	if err != nil {
		respondBookingError(c, err, "Failed to fetch booking.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBooking handles updating an existing booking.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}

	var req services.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateBooking: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	booking, err := h.bookingService.UpdateBooking(bookingID, req)
	if err != nil {
		respondBookingError(c, err, "Failed to update booking.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking handles deleting a booking.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}

	if err := h.bookingService.DeleteBooking(bookingID); err != nil {
		respondBookingError(c, err, "Failed to delete booking.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

// respondBookingError maps booking and pricing errors onto the API envelope.
// Shared by the voucher handler, which fails the same ways.
func respondBookingError(c *gin.Context, err error, fallback string) {
	var ibe *pricing.InvalidBookingError
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Booking not found.", err.Error()))
	case errors.Is(err, services.ErrClientForBookingNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client for booking not found.", err.Error()))
	case errors.Is(err, services.ErrBookingCodeExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Booking code already exists.", err.Error()))
	case errors.As(err, &ibe):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Booking is invalid: "+ibe.Rule, ibe.Reason))
	case errors.Is(err, pricing.ErrInvalidOption), errors.Is(err, services.ErrBookingTimeFormat):
		utils.RespondValidationFailed(c, err.Error())
	default:
		utils.RespondInternalError(c, err, fallback)
	}
}
