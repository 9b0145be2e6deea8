package service

import (
	"context"
	"fmt"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ValidationReport is the result of a standalone validate call
type ValidationReport struct {
	Status   string                     `json:"status"` // "pass" or "fail"
	Failures []models.ValidationFailure `json:"failures,omitempty"`
}

// lifecycleService is the concrete implementation of LifecycleService.
// Every accepted transition writes the new status and appends exactly one
// ledger event inside one transaction.
type lifecycleService struct {
	tx        TxRunner
	repos     *repository.Repositories
	validator *validation.Validator
	log       zerolog.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(tx TxRunner, repos *repository.Repositories, validator *validation.Validator, log zerolog.Logger) LifecycleService {
	return &lifecycleService{
		tx:        tx,
		repos:     repos,
		validator: validator,
		log:       log.With().Str("service", "lifecycle").Logger(),
	}
}

// CreateEntity inserts a draft entity and its creation event atomically
func (s *lifecycleService) CreateEntity(ctx context.Context, projectID string, req *models.CreateEntityRequest) (*models.ContentEntity, error) {
	if !models.EntityKinds[req.EntityType] {
		return nil, fmt.Errorf("invalid entity_type: %s", req.EntityType)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	now := time.Now()
	entity := &models.ContentEntity{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		EntityType:   req.EntityType,
		Title:        req.Title,
		Slug:         req.Slug,
		Status:       models.StatusDraft,
		ConceptKind:  req.ConceptKind,
		RepoURL:      req.RepoURL,
		CanonicalURL: req.CanonicalURL,
		ContentRef:   req.ContentRef,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.tx.RunTx(ctx, func(q database.Querier) error {
		if err := s.repos.Entity.Create(ctx, q, entity); err != nil {
			return err
		}
		return s.appendEntityEvent(ctx, q, entity, models.EventEntityCreated, defaultActor(req.Actor), nil)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("entity_id", entity.ID).
		Str("entity_type", string(entity.EntityType)).
		Str("project_id", projectID).
		Msg("Entity created")

	return entity, nil
}

// GetEntity retrieves an entity; a foreign-project id reads as absent
func (s *lifecycleService) GetEntity(ctx context.Context, projectID, id string) (*models.ContentEntity, error) {
	entity, err := s.repos.Entity.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, models.ErrNotFound
	}
	return entity, nil
}

// RequestPublish transitions draft → publish_requested
func (s *lifecycleService) RequestPublish(ctx context.Context, projectID, id string, actor models.Actor) (*models.ContentEntity, error) {
	entity, err := s.GetEntity(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if entity.Status != models.StatusDraft {
		return nil, fmt.Errorf("%w: cannot request publish from %s", models.ErrInvalidStateTransition, entity.Status)
	}

	entity.Status = models.StatusPublishRequested
	if err := s.commitTransition(ctx, entity, models.StatusDraft, models.EventEntityPublishRequested, actor, nil); err != nil {
		return nil, err
	}
	return entity, nil
}

// Publish transitions publish_requested → published. A failed readiness
// check rejects the transition without mutating status, and the rejection
// itself is appended to the ledger.
func (s *lifecycleService) Publish(ctx context.Context, projectID, id string, actor models.Actor) (*models.ContentEntity, error) {
	entity, err := s.GetEntity(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if entity.Status != models.StatusPublishRequested {
		return nil, fmt.Errorf("%w: cannot publish from %s", models.ErrInvalidStateTransition, entity.Status)
	}

	failures, err := s.validator.CheckPublishReadiness(ctx, entity)
	if err != nil {
		return nil, err
	}
	if len(failures) > 0 {
		appendErr := s.tx.RunTx(ctx, func(q database.Querier) error {
			return s.appendEntityEvent(ctx, q, entity, models.EventEntityValidationFailed, defaultActor(actor), map[string]interface{}{
				"failures": failures,
			})
		})
		if appendErr != nil {
			s.log.Error().Err(appendErr).Str("entity_id", id).Msg("Failed to record validation failure")
		}
		return nil, &models.ValidationFailedError{EntityID: id, Failures: failures}
	}

	now := time.Now()
	entity.Status = models.StatusPublished
	entity.PublishedAt = &now
	if err := s.commitTransition(ctx, entity, models.StatusPublishRequested, models.EventEntityPublished, actor, nil); err != nil {
		return nil, err
	}

	s.log.Info().Str("entity_id", id).Str("project_id", projectID).Msg("Entity published")
	return entity, nil
}

// Validate runs the publish-readiness checks without mutating anything
func (s *lifecycleService) Validate(ctx context.Context, projectID, id string) (*ValidationReport, error) {
	entity, err := s.GetEntity(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	failures, err := s.validator.CheckPublishReadiness(ctx, entity)
	if err != nil {
		return nil, err
	}

	report := &ValidationReport{Status: "pass"}
	if len(failures) > 0 {
		report.Status = "fail"
		report.Failures = failures
	}
	return report, nil
}

// Archive transitions draft|publish_requested → archived. Archived is
// terminal, and published entities do not archive through this core.
func (s *lifecycleService) Archive(ctx context.Context, projectID, id string, actor models.Actor) (*models.ContentEntity, error) {
	entity, err := s.GetEntity(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if entity.Status != models.StatusDraft && entity.Status != models.StatusPublishRequested {
		return nil, fmt.Errorf("%w: cannot archive from %s", models.ErrInvalidStateTransition, entity.Status)
	}

	prior := entity.Status
	now := time.Now()
	entity.Status = models.StatusArchived
	entity.ArchivedAt = &now
	if err := s.commitTransition(ctx, entity, prior, models.EventEntityArchived, actor, nil); err != nil {
		return nil, err
	}
	return entity, nil
}

// TriageSourceItem records a triage decision on a captured source item
func (s *lifecycleService) TriageSourceItem(ctx context.Context, projectID, id string, status models.TriageStatus, actor models.Actor) (*models.SourceItem, error) {
	if !models.ValidTriageStatuses[status] {
		return nil, fmt.Errorf("invalid triage status: %s", status)
	}

	item, err := s.repos.Node.GetSourceItem(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, models.ErrNotFound
	}

	previous := item.TriageStatus
	err = s.tx.RunTx(ctx, func(q database.Querier) error {
		if err := s.repos.Node.UpdateSourceItemTriage(ctx, q, projectID, id, status); err != nil {
			return err
		}
		return s.repos.Event.Append(ctx, q, &models.Event{
			ID:         uuid.New().String(),
			ProjectID:  projectID,
			EventType:  models.EventSourceItemTriaged,
			EntityKind: models.KindSourceItem,
			EntityID:   id,
			Actor:      defaultActor(actor),
			Details: map[string]interface{}{
				"from": previous,
				"to":   status,
			},
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	item.TriageStatus = status
	return item, nil
}

// commitTransition writes the entity's new status and appends exactly one
// event in one transaction. The write and the ledger entry never diverge.
// The status write matches on prior, so the transition a concurrent writer
// already performed cannot be committed twice.
func (s *lifecycleService) commitTransition(ctx context.Context, entity *models.ContentEntity, prior models.EntityStatus, eventType models.EventType, actor models.Actor, details map[string]interface{}) error {
	return s.tx.RunTx(ctx, func(q database.Querier) error {
		if err := s.repos.Entity.UpdateStatus(ctx, q, entity, prior); err != nil {
			return err
		}
		return s.appendEntityEvent(ctx, q, entity, eventType, defaultActor(actor), details)
	})
}

func (s *lifecycleService) appendEntityEvent(ctx context.Context, q database.Querier, entity *models.ContentEntity, eventType models.EventType, actor models.Actor, details map[string]interface{}) error {
	return s.repos.Event.Append(ctx, q, &models.Event{
		ID:         uuid.New().String(),
		ProjectID:  entity.ProjectID,
		EventType:  eventType,
		EntityKind: entity.EntityType,
		EntityID:   entity.ID,
		Actor:      actor,
		Details:    details,
		CreatedAt:  time.Now(),
	})
}
