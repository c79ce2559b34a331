package handlers

import (
	"errors"
	"net/http"

	"karting_backend/internal/models"
	"karting_backend/internal/services"
	"karting_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// VoucherHandler serves voucher pricing, issuance and verification.
type VoucherHandler struct {
	voucherService services.VoucherService
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(vs services.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: vs}
}

// ComputeVoucher prices a booking from current state without persisting anything.
func (h *VoucherHandler) ComputeVoucher(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}

	voucher, err := h.voucherService.ComputeVoucher(bookingID)
	if err != nil {
		respondBookingError(c, err, "Failed to compute voucher.")
		return
	}
	c.JSON(http.StatusOK, voucher)
}

// IssueVoucher prices, signs and stores a voucher for the booking.
func (h *VoucherHandler) IssueVoucher(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}

	issued, err := h.voucherService.IssueVoucher(bookingID)
	if err != nil {
		respondBookingError(c, err, "Failed to issue voucher.")
		return
	}
	c.JSON(http.StatusCreated, issued)
}

// GetIssuedVouchers lists the stored snapshots for a booking.
func (h *VoucherHandler) GetIssuedVouchers(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}

	vouchers, err := h.voucherService.GetIssuedVouchers(bookingID)
	if err != nil {
		respondBookingError(c, err, "Failed to fetch vouchers.")
		return
	}
	if vouchers == nil {
		vouchers = []models.IssuedVoucher{}
	}
	c.JSON(http.StatusOK, gin.H{"data": vouchers, "total": len(vouchers)})
}

// VerifyVoucher checks a printed voucher token.
func (h *VoucherHandler) VerifyVoucher(c *gin.Context) {
	token := c.Query("token")
	if utils.IsEmpty(token) {
		utils.RespondValidationFailed(c, "token query parameter is required")
		return
	}

	claims, err := h.voucherService.VerifyVoucherToken(token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidVoucherToken) || errors.Is(err, services.ErrVoucherTampered) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeInvalidToken, "Voucher token is not valid.", err.Error()))
			return
		}
		utils.RespondInternalError(c, err, "Failed to verify voucher.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "voucher": claims})
}

// GetFeeSchedule returns the active fee table and tax rate.
func (h *VoucherHandler) GetFeeSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, h.voucherService.GetFeeSchedule())
}
