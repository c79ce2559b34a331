package services

import (
	"database/sql"
	"errors"
	"fmt"

	"karting_backend/internal/models"
	"karting_backend/internal/repositories"
	"karting_backend/pkg/utils"
)

var (
	ErrKartNotFound   = errors.New("kart not found")
	ErrKartValidation = errors.New("kart data validation error")
)

type UpdateKartStateRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// KartService manages the availability of the kart fleet.
type KartService interface {
	GetKarts(onlyAvailable bool) ([]models.Kart, error)
	SetKartAvailability(kartID int64, req UpdateKartStateRequest) (*models.Kart, error)
}

type kartService struct {
	kartRepo repositories.KartRepository
	db       *sql.DB
}

func NewKartService(repo repositories.KartRepository, db *sql.DB) KartService {
	return &kartService{kartRepo: repo, db: db}
}

func (s *kartService) GetKarts(onlyAvailable bool) ([]models.Kart, error) {
	karts, err := s.kartRepo.GetKarts(onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to get karts: %w", err)
	}
	return karts, nil
}

func (s *kartService) SetKartAvailability(kartID int64, req UpdateKartStateRequest) (*models.Kart, error) {
	if req.Available == nil {
		return nil, fmt.Errorf("%w: available is required", ErrKartValidation)
	}
	kart, err := s.kartRepo.SetKartAvailability(s.db, kartID, *req.Available)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrKartNotFound
		}
		return nil, fmt.Errorf("failed to update kart: %w", err)
	}
	utils.LogInfo("Kart availability changed", map[string]interface{}{"kart": kart.Name, "available": kart.Available})
	return kart, nil
}
