package service_test

import (
	"time"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/mocks"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/service"
	"github.com/rs/zerolog"
)

const (
	projectA = "11111111-1111-1111-1111-111111111111"
	projectB = "22222222-2222-2222-2222-222222222222"
)

// testEnv wires the services against in-memory mocks
type testEnv struct {
	services  *service.Services
	tx        *mocks.MockTxRunner
	entities  *mocks.MockEntityRepository
	nodes     *mocks.MockNodeRepository
	relations *mocks.MockRelationRepository
	events    *mocks.MockEventRepository
	artifacts *mocks.MockArtifactRepository
	cfg       *config.Config
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tx:        &mocks.MockTxRunner{},
		entities:  mocks.NewMockEntityRepository(),
		nodes:     mocks.NewMockNodeRepository(),
		relations: mocks.NewMockRelationRepository(),
		events:    mocks.NewMockEventRepository(),
		artifacts: mocks.NewMockArtifactRepository(),
	}

	repos := &repository.Repositories{
		Project:  mocks.NewMockProjectRepository(),
		Entity:   env.entities,
		Node:     env.nodes,
		Relation: env.relations,
		Event:    env.events,
		Artifact: env.artifacts,
	}

	env.cfg = &config.Config{
		Artifact: config.ArtifactConfig{
			TTL:            720 * time.Hour,
			SweepBatchSize: 100,
		},
	}

	env.services = service.NewServices(nil, env.tx, repos, env.cfg, zerolog.Nop())
	return env
}

func (env *testEnv) addEntity(id string, kind models.Kind, projectID string, status models.EntityStatus) *models.ContentEntity {
	entity := &models.ContentEntity{
		ID:         id,
		ProjectID:  projectID,
		EntityType: kind,
		Title:      "Test " + id,
		Slug:       "test-" + id,
		Status:     status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if kind == models.KindConcept {
		entity.ConceptKind = "pattern"
	}
	if kind == models.KindProject {
		entity.RepoURL = "https://example.com/repo"
	}
	env.entities.Entities[id] = entity
	return entity
}

func (env *testEnv) addEdge(id, projectID string, fromKind models.Kind, fromID string, relType models.RelationType, toKind models.Kind, toID string) {
	env.relations.Edges[id] = &models.RelationEdge{
		ID:           id,
		ProjectID:    projectID,
		FromKind:     fromKind,
		FromID:       fromID,
		RelationType: relType,
		ToKind:       toKind,
		ToID:         toID,
		CreatedAt:    time.Now(),
	}
}
