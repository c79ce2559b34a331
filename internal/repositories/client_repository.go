package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"karting_backend/internal/models"
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClientByRUT(rut string) (*models.Client, error)
	GetClients(page, pageSize int, searchTerm *string) ([]models.Client, int, error) // Clients, total count, error
	UpdateClient(executor SQLExecutor, client *models.Client) error
	IncrementVisitFrequency(executor SQLExecutor, rut string) error
	DeleteClient(executor SQLExecutor, id int64) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const selectClientFields = `id, rut, name, visit_frequency, date_of_birth, created_at, updated_at`

func scanClient(row scanner, extra ...interface{}) (*models.Client, error) {
	client := &models.Client{}
	var dob sql.NullTime
	dest := []interface{}{
		&client.ID, &client.RUT, &client.Name, &client.VisitFrequency, &dob,
		&client.CreatedAt, &client.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if dob.Valid {
		client.DateOfBirth = &dob.Time
	}
	return client, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// CreateClient inserts a new client into the database.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (rut, name, visit_frequency, date_of_birth, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	currentTime := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = currentTime
	}
	if client.UpdatedAt.IsZero() {
		client.UpdatedAt = currentTime
	}

	err := executor.QueryRow(query,
		client.RUT, client.Name, client.VisitFrequency, nullDate(client.DateOfBirth),
		client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return 0, wrapPQError(err, "creating client")
	}
	return client.ID, nil
}

// GetClientByID retrieves a client by their ID.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	query := `SELECT ` + selectClientFields + ` FROM clients WHERE id = $1`
	client, err := scanClient(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClientByRUT retrieves a client by their national ID.
func (r *clientRepository) GetClientByRUT(rut string) (*models.Client, error) {
	query := `SELECT ` + selectClientFields + ` FROM clients WHERE rut = $1`
	client, err := scanClient(r.db.QueryRow(query, rut))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by RUT %s: %v", ErrDatabaseError, rut, err)
	}
	return client, nil
}

// GetClients retrieves a list of clients with pagination and optional search.
func (r *clientRepository) GetClients(page, pageSize int, searchTerm *string) ([]models.Client, int, error) {
	clients := []models.Client{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + selectClientFields + `, COUNT(*) OVER() as total_count FROM clients`)

	var args []interface{}
	argCount := 1

	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		queryBuilder.WriteString(fmt.Sprintf(" WHERE (LOWER(name) LIKE $%d OR LOWER(rut) LIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY name ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			offset := (page - 1) * pageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		client, err := scanClient(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, totalCount, nil
}

// UpdateClient updates an existing client in the database.
func (r *clientRepository) UpdateClient(executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clients SET
	            rut = $1, name = $2, visit_frequency = $3, date_of_birth = $4, updated_at = $5
	          WHERE id = $6`

	client.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		client.RUT, client.Name, client.VisitFrequency, nullDate(client.DateOfBirth),
		client.UpdatedAt, client.ID,
	)
	if err != nil {
		return wrapPQError(err, fmt.Sprintf("updating client ID %d", client.ID))
	}
	return rowsAffectedOrNotFound(result, fmt.Sprintf("updating client ID %d", client.ID))
}

// IncrementVisitFrequency records one more visit for the client with the given RUT.
func (r *clientRepository) IncrementVisitFrequency(executor SQLExecutor, rut string) error {
	query := `UPDATE clients SET visit_frequency = visit_frequency + 1, updated_at = $1 WHERE rut = $2`
	result, err := executor.Exec(query, time.Now(), rut)
	if err != nil {
		return fmt.Errorf("%w: incrementing visits for client %s: %v", ErrDatabaseError, rut, err)
	}
	return rowsAffectedOrNotFound(result, "incrementing visits for client "+rut)
}

// DeleteClient removes a client from the database.
func (r *clientRepository) DeleteClient(executor SQLExecutor, id int64) error {
	query := `DELETE FROM clients WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return wrapPQError(err, fmt.Sprintf("deleting client ID %d", id))
	}
	return rowsAffectedOrNotFound(result, fmt.Sprintf("deleting client ID %d", id))
}
