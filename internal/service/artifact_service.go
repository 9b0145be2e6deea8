package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// artifactService is the concrete implementation of ArtifactService
type artifactService struct {
	tx    TxRunner
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
}

// NewArtifactService creates a new ArtifactService
func NewArtifactService(tx TxRunner, repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) ArtifactService {
	return &artifactService{
		tx:    tx,
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "artifact").Logger(),
	}
}

// Create inserts a draft artifact with a fixed forward TTL and its creation
// event atomically
func (s *artifactService) Create(ctx context.Context, projectID string, req *models.CreateArtifactRequest) (*models.Artifact, error) {
	if req.Kind == "" {
		return nil, fmt.Errorf("kind is required")
	}

	now := time.Now()
	artifact := &models.Artifact{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Kind:       req.Kind,
		Status:     models.ArtifactStatusDraft,
		Content:    req.Content,
		SourceRefs: req.SourceRefs,
		CreatedBy:  defaultActor(req.CreatedBy),
		ExpiresAt:  now.Add(s.cfg.Artifact.TTL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Content != "" {
		sum := sha256.Sum256([]byte(req.Content))
		artifact.ContentHash = hex.EncodeToString(sum[:])
	}

	err := s.tx.RunTx(ctx, func(q database.Querier) error {
		if err := s.repos.Artifact.Create(ctx, q, artifact); err != nil {
			return err
		}
		return s.repos.Event.Append(ctx, q, &models.Event{
			ID:         uuid.New().String(),
			ProjectID:  projectID,
			EventType:  models.EventArtifactCreated,
			EntityKind: models.KindArtifact,
			EntityID:   artifact.ID,
			Actor:      artifact.CreatedBy,
			Details: map[string]interface{}{
				"kind":       artifact.Kind,
				"expires_at": artifact.ExpiresAt,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("artifact_id", artifact.ID).
		Str("project_id", projectID).
		Time("expires_at", artifact.ExpiresAt).
		Msg("Artifact created")

	return artifact, nil
}

// Get retrieves an artifact under the default-read predicate: archived and
// expired artifacts read as absent
func (s *artifactService) Get(ctx context.Context, projectID, id string) (*models.Artifact, error) {
	artifact, err := s.repos.Artifact.GetVisible(ctx, projectID, id, time.Now())
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, models.ErrNotFound
	}
	return artifact, nil
}

// Archive manually transitions an artifact to archived ahead of its expiry
func (s *artifactService) Archive(ctx context.Context, projectID, id string, actor models.Actor) (*models.Artifact, error) {
	artifact, err := s.repos.Artifact.GetLive(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, models.ErrNotFound
	}

	now := time.Now()
	err = s.tx.RunTx(ctx, func(q database.Querier) error {
		archived, err := s.repos.Artifact.MarkArchived(ctx, q, id, now)
		if err != nil {
			return err
		}
		if !archived {
			// A concurrent archiver or sweep got there first.
			return models.ErrNotFound
		}
		return s.repos.Event.Append(ctx, q, &models.Event{
			ID:         uuid.New().String(),
			ProjectID:  projectID,
			EventType:  models.EventArtifactArchived,
			EntityKind: models.KindArtifact,
			EntityID:   id,
			Actor:      defaultActor(actor),
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	artifact.Status = models.ArtifactStatusArchived
	artifact.DeletedAt = &now
	artifact.UpdatedAt = now
	return artifact, nil
}

// SweepExpired archives up to limit expired draft artifacts, appending one
// event per artifact, in one transaction. Re-running only processes
// remaining candidates; concurrent sweeps partition the backlog via the
// selection's row locks.
func (s *artifactService) SweepExpired(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = s.cfg.Artifact.SweepBatchSize
	}

	now := time.Now()
	var archivedIDs []string

	err := s.tx.RunTx(ctx, func(q database.Querier) error {
		candidates, err := s.repos.Artifact.SelectExpired(ctx, q, now, limit)
		if err != nil {
			return err
		}

		for _, artifact := range candidates {
			archived, err := s.repos.Artifact.MarkArchived(ctx, q, artifact.ID, now)
			if err != nil {
				return err
			}
			if !archived {
				continue
			}
			err = s.repos.Event.Append(ctx, q, &models.Event{
				ID:         uuid.New().String(),
				ProjectID:  artifact.ProjectID,
				EventType:  models.EventArtifactExpired,
				EntityKind: models.KindArtifact,
				EntityID:   artifact.ID,
				Actor:      models.ActorSystem,
				Details: map[string]interface{}{
					"expired_at": artifact.ExpiresAt,
				},
				CreatedAt: now,
			})
			if err != nil {
				return err
			}
			archivedIDs = append(archivedIDs, artifact.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(archivedIDs) > 0 {
		s.log.Info().Int("archived", len(archivedIDs)).Msg("Expiry sweep completed")
	}
	return archivedIDs, nil
}
