package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/repository"
)

// HandoffService keeps the audit log of generated deep links
type HandoffService interface {
	Record(ctx context.Context, handoff *models.Handoff)
	GetByID(ctx context.Context, id int64) (*models.Handoff, error)
	List(ctx context.Context, filter models.HandoffFilter) (*HandoffListResult, error)
}

// HandoffPublisher hands a handoff to the asynchronous audit queue
type HandoffPublisher interface {
	Publish(ctx context.Context, handoff *models.Handoff) error
}

type handoffService struct {
	handoffRepo repository.HandoffRepository
	publisher   HandoffPublisher
	logger      *slog.Logger
}

// NewHandoffService creates a new handoff service. With a publisher, Record
// queues handoffs for the worker and writes directly only when publishing
// fails. A nil repository turns direct writes into a no-op and listing into
// an empty page.
func NewHandoffService(
	handoffRepo repository.HandoffRepository,
	publisher HandoffPublisher,
	logger *slog.Logger,
) HandoffService {
	return &handoffService{
		handoffRepo: handoffRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Record stores the handoff. Failures are logged; link generation never
// depends on the audit log.
func (s *handoffService) Record(ctx context.Context, handoff *models.Handoff) {
	if s.publisher != nil {
		err := s.publisher.Publish(ctx, handoff)
		if err == nil {
			return
		}
		s.logger.Warn("failed to queue handoff, writing directly",
			slog.String("flow", handoff.Flow),
			slog.String("error", err.Error()),
		)
	}

	if s.handoffRepo == nil {
		return
	}

	if err := s.handoffRepo.Create(ctx, handoff); err != nil {
		s.logger.Error("failed to record handoff",
			slog.String("flow", handoff.Flow),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Debug("handoff recorded",
		slog.Int64("handoff_id", handoff.ID),
		slog.String("flow", handoff.Flow),
	)
}

// GetByID retrieves a handoff by ID
func (s *handoffService) GetByID(ctx context.Context, id int64) (*models.Handoff, error) {
	if s.handoffRepo == nil {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("handoff with ID %d not found", id))
	}
	return s.handoffRepo.GetByID(ctx, id)
}

// List retrieves handoffs with pagination and filtering
func (s *handoffService) List(ctx context.Context, filter models.HandoffFilter) (*HandoffListResult, error) {
	if filter.Flow != "" && !models.IsValidFlow(filter.Flow) {
		return nil, models.ErrInvalidInput(fmt.Sprintf("invalid flow: %s (must be 'protocol' or 'quick')", filter.Flow))
	}

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	if s.handoffRepo == nil {
		return &HandoffListResult{
			Handoffs:   []*models.Handoff{},
			Pagination: models.NewPaginationResult(filter.Page, filter.PageSize, 0),
		}, nil
	}

	handoffs, total, err := s.handoffRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list handoffs: %w", err)
	}

	return &HandoffListResult{
		Handoffs:   handoffs,
		Pagination: models.NewPaginationResult(filter.Page, filter.PageSize, total),
	}, nil
}
