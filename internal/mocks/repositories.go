package mocks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

// MockTxRunner runs transaction closures without a database. BeforeRun, when
// set, executes before the closure; tests use it to interleave a concurrent
// writer between a service's read and its transactional write.
type MockTxRunner struct {
	RunTxCalls int
	RunTxError error
	BeforeRun  func()
}

func (m *MockTxRunner) RunTx(ctx context.Context, fn func(q database.Querier) error) error {
	m.RunTxCalls++
	if m.RunTxError != nil {
		return m.RunTxError
	}
	if m.BeforeRun != nil {
		m.BeforeRun()
	}
	return fn(nil)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	Projects map[string]*models.Project
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{Projects: make(map[string]*models.Project)}
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	m.Projects[project.ID] = project
	return nil
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return m.Projects[id], nil
}

func (m *MockProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	for _, p := range m.Projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, exists := m.Projects[id]
	return exists, nil
}

// MockEntityRepository is a mock implementation of EntityRepository
type MockEntityRepository struct {
	Entities    map[string]*models.ContentEntity
	InsertError error
}

func NewMockEntityRepository() *MockEntityRepository {
	return &MockEntityRepository{Entities: make(map[string]*models.ContentEntity)}
}

func (m *MockEntityRepository) Create(ctx context.Context, q database.Querier, entity *models.ContentEntity) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	for _, e := range m.Entities {
		if e.ProjectID == entity.ProjectID && e.EntityType == entity.EntityType && e.Slug == entity.Slug {
			return models.ErrDuplicateSlug
		}
	}
	copied := *entity
	m.Entities[entity.ID] = &copied
	return nil
}

func (m *MockEntityRepository) GetByID(ctx context.Context, projectID, id string) (*models.ContentEntity, error) {
	entity, ok := m.Entities[id]
	if !ok || entity.ProjectID != projectID {
		return nil, nil
	}
	copied := *entity
	return &copied, nil
}

func (m *MockEntityRepository) ProjectID(ctx context.Context, q database.Querier, kind models.Kind, id string) (string, error) {
	entity, ok := m.Entities[id]
	if !ok || entity.EntityType != kind {
		return "", nil
	}
	return entity.ProjectID, nil
}

func (m *MockEntityRepository) UpdateStatus(ctx context.Context, q database.Querier, entity *models.ContentEntity, prior models.EntityStatus) error {
	// Same zero-rows contract as the real repository: an absent row and a
	// raced status are indistinguishable.
	stored, ok := m.Entities[entity.ID]
	if !ok || stored.ProjectID != entity.ProjectID || stored.Status != prior {
		return models.ErrInvalidStateTransition
	}
	stored.Status = entity.Status
	stored.PublishedAt = entity.PublishedAt
	stored.ArchivedAt = entity.ArchivedAt
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *MockEntityRepository) Count(ctx context.Context) (int, error) {
	return len(m.Entities), nil
}

// MockNodeRepository is a mock implementation of NodeRepository
type MockNodeRepository struct {
	// AuxNodes maps kind → id → owning project id
	AuxNodes    map[models.Kind]map[string]string
	SourceItems map[string]*models.SourceItem
}

func NewMockNodeRepository() *MockNodeRepository {
	return &MockNodeRepository{
		AuxNodes:    make(map[models.Kind]map[string]string),
		SourceItems: make(map[string]*models.SourceItem),
	}
}

// AddAuxNode registers an auxiliary node for resolver lookups
func (m *MockNodeRepository) AddAuxNode(kind models.Kind, id, projectID string) {
	if m.AuxNodes[kind] == nil {
		m.AuxNodes[kind] = make(map[string]string)
	}
	m.AuxNodes[kind][id] = projectID
}

func (m *MockNodeRepository) ProjectID(ctx context.Context, q database.Querier, kind models.Kind, id string) (string, error) {
	if !models.AuxiliaryKinds[kind] {
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedKind, kind)
	}
	return m.AuxNodes[kind][id], nil
}

func (m *MockNodeRepository) GetSourceItem(ctx context.Context, projectID, id string) (*models.SourceItem, error) {
	item, ok := m.SourceItems[id]
	if !ok || item.ProjectID != projectID {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (m *MockNodeRepository) UpdateSourceItemTriage(ctx context.Context, q database.Querier, projectID, id string, status models.TriageStatus) error {
	item, ok := m.SourceItems[id]
	if !ok || item.ProjectID != projectID {
		return models.ErrNotFound
	}
	item.TriageStatus = status
	return nil
}

// MockRelationRepository is a mock implementation of RelationRepository
type MockRelationRepository struct {
	Edges       map[string]*models.RelationEdge
	InsertError error
}

func NewMockRelationRepository() *MockRelationRepository {
	return &MockRelationRepository{Edges: make(map[string]*models.RelationEdge)}
}

func (m *MockRelationRepository) Create(ctx context.Context, q database.Querier, edge *models.RelationEdge) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	for _, e := range m.Edges {
		if e.ProjectID == edge.ProjectID && e.FromKind == edge.FromKind && e.FromID == edge.FromID &&
			e.RelationType == edge.RelationType && e.ToKind == edge.ToKind && e.ToID == edge.ToID {
			return models.ErrDuplicateEdge
		}
	}
	copied := *edge
	m.Edges[edge.ID] = &copied
	return nil
}

func (m *MockRelationRepository) GetByID(ctx context.Context, projectID, id string) (*models.RelationEdge, error) {
	edge, ok := m.Edges[id]
	if !ok || edge.ProjectID != projectID {
		return nil, nil
	}
	copied := *edge
	return &copied, nil
}

func (m *MockRelationRepository) UpdateNotes(ctx context.Context, q database.Querier, projectID, id, notes string) error {
	edge, ok := m.Edges[id]
	if !ok || edge.ProjectID != projectID {
		return models.ErrNotFound
	}
	edge.Notes = notes
	return nil
}

func (m *MockRelationRepository) ListByEndpoint(ctx context.Context, projectID string, node models.NodeRef, filter models.RelationType) ([]*models.RelationEdge, error) {
	var edges []*models.RelationEdge
	for _, e := range m.Edges {
		if e.ProjectID != projectID {
			continue
		}
		if e.From() != node && e.To() != node {
			continue
		}
		if filter != "" && e.RelationType != filter {
			continue
		}
		copied := *e
		edges = append(edges, &copied)
	}
	// Same ordering contract as the real repository.
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].CreatedAt.Equal(edges[j].CreatedAt) {
			return edges[i].CreatedAt.After(edges[j].CreatedAt)
		}
		return edges[i].ID > edges[j].ID
	})
	return edges, nil
}

func (m *MockRelationRepository) Count(ctx context.Context) (int, error) {
	return len(m.Edges), nil
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	Events      []*models.Event
	AppendError error
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{}
}

func (m *MockEventRepository) Append(ctx context.Context, q database.Querier, event *models.Event) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	if !models.ValidEventTypes[event.EventType] {
		return fmt.Errorf("%w: %s", models.ErrInvalidEventType, event.EventType)
	}
	if !models.ValidActors[event.Actor] {
		return fmt.Errorf("invalid actor: %s", event.Actor)
	}
	copied := *event
	m.Events = append(m.Events, &copied)
	return nil
}

func (m *MockEventRepository) ListByRecord(ctx context.Context, projectID string, entityKind models.Kind, entityID string, limit int) ([]*models.Event, error) {
	var events []*models.Event
	for _, e := range m.Events {
		if e.ProjectID == projectID && e.EntityKind == entityKind && e.EntityID == entityID {
			events = append(events, e)
		}
		if limit > 0 && len(events) >= limit {
			break
		}
	}
	return events, nil
}

// OfType returns the recorded events of one type, in append order
func (m *MockEventRepository) OfType(eventType models.EventType) []*models.Event {
	var events []*models.Event
	for _, e := range m.Events {
		if e.EventType == eventType {
			events = append(events, e)
		}
	}
	return events
}

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	Artifacts map[string]*models.Artifact
}

func NewMockArtifactRepository() *MockArtifactRepository {
	return &MockArtifactRepository{Artifacts: make(map[string]*models.Artifact)}
}

func (m *MockArtifactRepository) Create(ctx context.Context, q database.Querier, artifact *models.Artifact) error {
	copied := *artifact
	m.Artifacts[artifact.ID] = &copied
	return nil
}

func (m *MockArtifactRepository) GetVisible(ctx context.Context, projectID, id string, now time.Time) (*models.Artifact, error) {
	a, ok := m.Artifacts[id]
	if !ok || a.ProjectID != projectID || a.DeletedAt != nil || !a.ExpiresAt.After(now) {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (m *MockArtifactRepository) GetLive(ctx context.Context, projectID, id string) (*models.Artifact, error) {
	a, ok := m.Artifacts[id]
	if !ok || a.ProjectID != projectID || a.DeletedAt != nil {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (m *MockArtifactRepository) MarkArchived(ctx context.Context, q database.Querier, id string, now time.Time) (bool, error) {
	a, ok := m.Artifacts[id]
	if !ok || a.DeletedAt != nil {
		return false, nil
	}
	deletedAt := now
	a.Status = models.ArtifactStatusArchived
	a.DeletedAt = &deletedAt
	a.UpdatedAt = now
	return true, nil
}

func (m *MockArtifactRepository) SelectExpired(ctx context.Context, q database.Querier, now time.Time, limit int) ([]*models.Artifact, error) {
	var candidates []*models.Artifact
	for _, a := range m.Artifacts {
		if a.Status == models.ArtifactStatusDraft && a.DeletedAt == nil && a.ExpiresAt.Before(now) {
			copied := *a
			candidates = append(candidates, &copied)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].ExpiresAt.Equal(candidates[j].ExpiresAt) {
			return candidates[i].ExpiresAt.Before(candidates[j].ExpiresAt)
		}
		return candidates[i].ID < candidates[j].ID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (m *MockArtifactRepository) Count(ctx context.Context) (int, error) {
	return len(m.Artifacts), nil
}
