package validation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validator runs the publish-readiness checks for content entities
type Validator struct {
	relations repository.RelationRepository
}

// NewValidator creates a validator backed by the relation store
func NewValidator(relations repository.RelationRepository) *Validator {
	return &Validator{relations: relations}
}

// CheckPublishReadiness returns the failures preventing an entity from being
// published. An empty slice means all checks passed. Field checks apply to
// every kind; relationship checks are kind-specific.
func (v *Validator) CheckPublishReadiness(ctx context.Context, entity *models.ContentEntity) ([]models.ValidationFailure, error) {
	var failures []models.ValidationFailure

	if entity.Slug == "" {
		failures = append(failures, models.ValidationFailure{
			Category: "fields",
			Code:     "missing_slug",
			Message:  "slug is required to publish",
		})
	} else if !slugRegex.MatchString(entity.Slug) {
		failures = append(failures, models.ValidationFailure{
			Category: "fields",
			Code:     "invalid_slug",
			Message:  fmt.Sprintf("slug %q must be lowercase alphanumeric with hyphens", entity.Slug),
		})
	}

	if entity.Title == "" {
		failures = append(failures, models.ValidationFailure{
			Category: "fields",
			Code:     "missing_title",
			Message:  "title is required to publish",
		})
	}

	kindFailures, err := v.checkKindSpecific(ctx, entity)
	if err != nil {
		return nil, err
	}
	failures = append(failures, kindFailures...)

	return failures, nil
}

func (v *Validator) checkKindSpecific(ctx context.Context, entity *models.ContentEntity) ([]models.ValidationFailure, error) {
	switch entity.EntityType {
	case models.KindGuide:
		return v.checkGuideRelationships(ctx, entity)
	case models.KindConcept:
		if entity.ConceptKind == "" {
			return []models.ValidationFailure{{
				Category: "fields",
				Code:     "missing_concept_kind",
				Message:  "concepts require a concept_kind to publish",
			}}, nil
		}
	case models.KindProject:
		if entity.RepoURL == "" {
			return []models.ValidationFailure{{
				Category: "fields",
				Code:     "missing_repo_url",
				Message:  "project pages require a repo_url to publish",
			}}, nil
		}
	case models.KindNews:
		return v.checkNewsRelationships(ctx, entity)
	}
	return nil, nil
}

// checkGuideRelationships requires at least one validated concept reference
func (v *Validator) checkGuideRelationships(ctx context.Context, entity *models.ContentEntity) ([]models.ValidationFailure, error) {
	edges, err := v.relations.ListByEndpoint(ctx, entity.ProjectID, entity.Ref(), "")
	if err != nil {
		return nil, err
	}
	for _, edge := range edges {
		if edge.FromID != entity.ID {
			continue
		}
		if edge.RelationType == models.RelGuideUsesConcept || edge.RelationType == models.RelGuideExpandsConcept {
			return nil, nil
		}
	}
	return []models.ValidationFailure{{
		Category: "relationships",
		Code:     "guide_missing_concept",
		Message:  "guides require at least one concept reference to publish",
	}}, nil
}

// checkNewsRelationships requires a source derivation edge
func (v *Validator) checkNewsRelationships(ctx context.Context, entity *models.ContentEntity) ([]models.ValidationFailure, error) {
	edges, err := v.relations.ListByEndpoint(ctx, entity.ProjectID, entity.Ref(), models.RelNewsDerivedFromSource)
	if err != nil {
		return nil, err
	}
	for _, edge := range edges {
		if edge.FromID == entity.ID {
			return nil, nil
		}
	}
	return []models.ValidationFailure{{
		Category: "relationships",
		Code:     "news_missing_source",
		Message:  "news items require a source derivation edge to publish",
	}}, nil
}
