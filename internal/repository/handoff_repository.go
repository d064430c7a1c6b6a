package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// integrityViolation is the Postgres error class for constraint failures
const integrityViolation pq.ErrorClass = "23"

// HandoffRepository defines the interface for handoff log access
type HandoffRepository interface {
	Create(ctx context.Context, handoff *models.Handoff) error
	GetByID(ctx context.Context, id int64) (*models.Handoff, error)
	List(ctx context.Context, filter models.HandoffFilter) ([]*models.Handoff, int64, error)
}

// handoffRepository implements HandoffRepository using PostgreSQL
type handoffRepository struct {
	db *sql.DB
}

// NewHandoffRepository creates a new handoff repository
func NewHandoffRepository(db *sql.DB) HandoffRepository {
	return &handoffRepository{db: db}
}

const handoffColumns = `id, flow, protocol_id, destination, url, message_len, created_by, created_at`

// Create inserts a handoff row
func (r *handoffRepository) Create(ctx context.Context, handoff *models.Handoff) error {
	query := `
		INSERT INTO handoffs (flow, protocol_id, destination, url, message_len, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		handoff.Flow,
		handoff.ProtocolID,
		handoff.Destination,
		handoff.URL,
		handoff.MessageLength,
		handoff.CreatedBy,
	).Scan(&handoff.ID, &handoff.CreatedAt)

	if err != nil {
		return classifyInsertError(err)
	}

	return nil
}

// classifyInsertError turns constraint violations into invalid input so
// callers do not retry rows the database will never accept
func classifyInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == integrityViolation {
		return models.ErrInvalidInput(fmt.Sprintf("handoff rejected: %s", pqErr.Message))
	}
	return fmt.Errorf("failed to create handoff: %w", err)
}

// GetByID retrieves a handoff by ID
func (r *handoffRepository) GetByID(ctx context.Context, id int64) (*models.Handoff, error) {
	query := `SELECT ` + handoffColumns + ` FROM handoffs WHERE id = $1`

	handoff, err := scanHandoff(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("handoff with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get handoff: %w", err)
	}

	return handoff, nil
}

// List retrieves handoffs newest first with pagination and filtering
func (r *handoffRepository) List(ctx context.Context, filter models.HandoffFilter) ([]*models.Handoff, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	query := `SELECT ` + handoffColumns + ` FROM handoffs WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM handoffs WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Flow != "" {
		query += fmt.Sprintf(" AND flow = $%d", argPos)
		countQuery += fmt.Sprintf(" AND flow = $%d", argPos)
		args = append(args, filter.Flow)
		argPos++
	}

	if filter.ProtocolID != "" {
		query += fmt.Sprintf(" AND protocol_id = $%d", argPos)
		countQuery += fmt.Sprintf(" AND protocol_id = $%d", argPos)
		args = append(args, filter.ProtocolID)
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count handoffs: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list handoffs: %w", err)
	}
	defer rows.Close()

	handoffs := []*models.Handoff{}
	for rows.Next() {
		handoff, err := scanHandoff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan handoff: %w", err)
		}
		handoffs = append(handoffs, handoff)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating handoffs: %w", err)
	}

	return handoffs, totalCount, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHandoff(row rowScanner) (*models.Handoff, error) {
	handoff := &models.Handoff{}
	var protocolID sql.NullString
	err := row.Scan(
		&handoff.ID,
		&handoff.Flow,
		&protocolID,
		&handoff.Destination,
		&handoff.URL,
		&handoff.MessageLength,
		&handoff.CreatedBy,
		&handoff.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if protocolID.Valid {
		handoff.ProtocolID = &protocolID.String
	}
	return handoff, nil
}
