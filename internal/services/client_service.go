package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"karting_backend/internal/models"
	"karting_backend/internal/repositories"
	"karting_backend/pkg/utils"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrRUTExists        = errors.New("a client with this RUT already exists")
	ErrClientValidation = errors.New("client data validation error")
	ErrDateFormat       = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrClientInUse      = errors.New("client cannot be deleted as they are referenced by bookings")
)

// --- Client DTOs ---
type CreateClientRequest struct {
	RUT            string  `json:"rut" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	VisitFrequency *int    `json:"visit_frequency"`
	DateOfBirth    *string `json:"date_of_birth"` // Format YYYY-MM-DD
}

type UpdateClientRequest struct {
	Name           *string `json:"name"`
	VisitFrequency *int    `json:"visit_frequency"`
	DateOfBirth    *string `json:"date_of_birth"` // Format YYYY-MM-DD
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(req CreateClientRequest) (*models.Client, error)
	GetClientByID(clientID int64) (*models.Client, error)
	GetClientByRUT(rut string) (*models.Client, error)
	GetClients(page, pageSize int, searchTerm *string) ([]models.Client, int, error)
	UpdateClient(clientID int64, req UpdateClientRequest) (*models.Client, error)
	DeleteClient(clientID int64) error
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
	now        func() time.Time
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
		now:        time.Now,
	}
}

func (s *clientService) parseDateOfBirth(dobStr *string) (*time.Time, error) {
	if dobStr == nil || strings.TrimSpace(*dobStr) == "" {
		return nil, nil
	}
	dob, err := utils.ParseDate(*dobStr)
	if err != nil {
		return nil, ErrDateFormat
	}
	if dob.After(s.now()) {
		return nil, fmt.Errorf("%w: date of birth cannot be in the future", ErrClientValidation)
	}
	return &dob, nil
}

func (s *clientService) CreateClient(req CreateClientRequest) (*models.Client, error) {
	rut := utils.NormalizeRUT(req.RUT)
	if !utils.IsValidRUT(rut) {
		return nil, fmt.Errorf("%w: RUT '%s' is not valid", ErrClientValidation, req.RUT)
	}
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrClientValidation)
	}

	dob, err := s.parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	visits := 0
	if req.VisitFrequency != nil {
		visits = *req.VisitFrequency
		if visits < 0 {
			return nil, fmt.Errorf("%w: visit frequency cannot be negative", ErrClientValidation)
		}
	}

	if existing, err := s.clientRepo.GetClientByRUT(rut); err == nil && existing != nil {
		return nil, ErrRUTExists
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check RUT uniqueness: %w", err)
	}

	client := &models.Client{
		RUT:            rut,
		Name:           strings.TrimSpace(req.Name),
		VisitFrequency: visits,
		DateOfBirth:    dob,
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrRUTExists
		}
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(id)
}

func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClientByRUT(rut string) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByRUT(utils.NormalizeRUT(rut))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by RUT: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(page, pageSize int, searchTerm *string) ([]models.Client, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	clients, totalCount, err := s.clientRepo.GetClients(page, pageSize, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, totalCount, nil
}

func (s *clientService) UpdateClient(clientID int64, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for update: %w", err)
	}

	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrClientValidation)
		}
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.VisitFrequency != nil {
		if *req.VisitFrequency < 0 {
			return nil, fmt.Errorf("%w: visit frequency cannot be negative", ErrClientValidation)
		}
		client.VisitFrequency = *req.VisitFrequency
	}
	if req.DateOfBirth != nil {
		dob, parseErr := s.parseDateOfBirth(req.DateOfBirth)
		if parseErr != nil {
			return nil, parseErr
		}
		client.DateOfBirth = dob
	}

	if err = s.clientRepo.UpdateClient(s.db, client); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(clientID)
}

func (s *clientService) DeleteClient(clientID int64) error {
	err := s.clientRepo.DeleteClient(s.db, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		if errors.Is(err, repositories.ErrReferenced) {
			return ErrClientInUse
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
