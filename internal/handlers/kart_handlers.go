package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"karting_backend/internal/services"
	"karting_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type KartHandler struct {
	kartService services.KartService
}

func NewKartHandler(ks services.KartService) *KartHandler {
	return &KartHandler{kartService: ks}
}

// GetKarts lists the fleet. ?available=true restricts to karts out of maintenance.
func (h *KartHandler) GetKarts(c *gin.Context) {
	onlyAvailable, err := strconv.ParseBool(c.DefaultQuery("available", "false"))
	if err != nil {
		utils.RespondValidationFailed(c, "available must be a boolean")
		return
	}

	karts, err := h.kartService.GetKarts(onlyAvailable)
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch karts.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": karts, "total": len(karts)})
}

func (h *KartHandler) UpdateKartState(c *gin.Context) {
	kartID, ok := parseIDParam(c, "id", "kart")
	if !ok {
		return
	}

	var req services.UpdateKartStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	kart, err := h.kartService.SetKartAvailability(kartID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrKartNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Kart not found.", err.Error()))
		case errors.Is(err, services.ErrKartValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.RespondInternalError(c, err, "Failed to update kart.")
		}
		return
	}
	c.JSON(http.StatusOK, kart)
}
