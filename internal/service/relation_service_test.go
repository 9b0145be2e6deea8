package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/content-graph-api/internal/models"
)

func TestCreateEdge(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)
	env.addEntity("concept-1", models.KindConcept, projectA, models.StatusDraft)

	edge, err := env.services.Relation.CreateEdge(context.Background(), projectA, &models.CreateEdgeRequest{
		FromKind:     models.KindGuide,
		FromID:       "guide-1",
		RelationType: models.RelGuideUsesConcept,
		ToKind:       models.KindConcept,
		ToID:         "concept-1",
		Actor:        models.ActorHuman,
	})
	if err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}
	if edge.ID == "" {
		t.Error("Expected edge to be assigned an id")
	}
	if edge.ProjectID != projectA {
		t.Errorf("Expected project %s, got %s", projectA, edge.ProjectID)
	}

	if _, ok := env.relations.Edges[edge.ID]; !ok {
		t.Error("Expected edge to be persisted")
	}

	events := env.events.OfType(models.EventRelationCreated)
	if len(events) != 1 {
		t.Fatalf("Expected 1 RELATION_CREATED event, got %d", len(events))
	}
	if events[0].EntityID != edge.ID {
		t.Errorf("Expected event for edge %s, got %s", edge.ID, events[0].EntityID)
	}
	if events[0].Actor != models.ActorHuman {
		t.Errorf("Expected actor human, got %s", events[0].Actor)
	}
}

func TestCreateEdge_AuxiliaryEndpoint(t *testing.T) {
	env := newTestEnv()
	env.addEntity("news-1", models.KindNews, projectA, models.StatusDraft)
	env.nodes.AddAuxNode(models.KindSourceItem, "item-1", projectA)

	_, err := env.services.Relation.CreateEdge(context.Background(), projectA, &models.CreateEdgeRequest{
		FromKind:     models.KindNews,
		FromID:       "news-1",
		RelationType: models.RelNewsDerivedFromSource,
		ToKind:       models.KindSourceItem,
		ToID:         "item-1",
	})
	if err != nil {
		t.Fatalf("CreateEdge to auxiliary node failed: %v", err)
	}
}

func TestCreateEdge_InvalidRelationType(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)
	env.addEntity("concept-1", models.KindConcept, projectA, models.StatusDraft)

	_, err := env.services.Relation.CreateEdge(context.Background(), projectA, &models.CreateEdgeRequest{
		FromKind:     models.KindGuide,
		FromID:       "guide-1",
		RelationType: models.RelNewsDerivedFromSource,
		ToKind:       models.KindConcept,
		ToID:         "concept-1",
	})
	if !errors.Is(err, models.ErrInvalidRelationType) {
		t.Fatalf("Expected ErrInvalidRelationType, got %v", err)
	}
	if len(env.relations.Edges) != 0 {
		t.Error("Expected no edge to be persisted")
	}
	if len(env.events.Events) != 0 {
		t.Error("Expected no event for a rejected edge")
	}
}

func TestCreateEdge_DanglingEndpoint(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)

	_, err := env.services.Relation.CreateEdge(context.Background(), projectA, &models.CreateEdgeRequest{
		FromKind:     models.KindGuide,
		FromID:       "guide-1",
		RelationType: models.RelGuideUsesConcept,
		ToKind:       models.KindConcept,
		ToID:         "nope",
	})
	if !errors.Is(err, models.ErrDanglingEndpoint) {
		t.Fatalf("Expected ErrDanglingEndpoint, got %v", err)
	}
}

func TestCreateEdge_CrossProject(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)
	env.addEntity("concept-b", models.KindConcept, projectB, models.StatusDraft)

	_, err := env.services.Relation.CreateEdge(context.Background(), projectA, &models.CreateEdgeRequest{
		FromKind:     models.KindGuide,
		FromID:       "guide-1",
		RelationType: models.RelGuideUsesConcept,
		ToKind:       models.KindConcept,
		ToID:         "concept-b",
	})
	if !errors.Is(err, models.ErrCrossProjectEdge) {
		t.Fatalf("Expected ErrCrossProjectEdge, got %v", err)
	}

	var cpErr *models.CrossProjectError
	if !errors.As(err, &cpErr) {
		t.Fatal("Expected a CrossProjectError")
	}
	if cpErr.Side != "to" {
		t.Errorf("Expected mismatch on the to side, got %s", cpErr.Side)
	}
	if len(env.relations.Edges) != 0 {
		t.Error("Expected no edge to be persisted")
	}
}

func TestCreateEdge_Duplicate(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)
	env.addEntity("concept-1", models.KindConcept, projectA, models.StatusDraft)

	req := &models.CreateEdgeRequest{
		FromKind:     models.KindGuide,
		FromID:       "guide-1",
		RelationType: models.RelGuideUsesConcept,
		ToKind:       models.KindConcept,
		ToID:         "concept-1",
	}

	if _, err := env.services.Relation.CreateEdge(context.Background(), projectA, req); err != nil {
		t.Fatalf("First CreateEdge failed: %v", err)
	}
	_, err := env.services.Relation.CreateEdge(context.Background(), projectA, req)
	if !errors.Is(err, models.ErrDuplicateEdge) {
		t.Fatalf("Expected ErrDuplicateEdge, got %v", err)
	}
	if len(env.relations.Edges) != 1 {
		t.Errorf("Expected 1 edge after duplicate attempt, got %d", len(env.relations.Edges))
	}
}

func TestUpdateNotes(t *testing.T) {
	env := newTestEnv()
	env.addEdge("edge-1", projectA, models.KindGuide, "guide-1", models.RelGuideUsesConcept, models.KindConcept, "concept-1")

	edge, err := env.services.Relation.UpdateNotes(context.Background(), projectA, "edge-1", "why this link exists", models.ActorLLM)
	if err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if edge.Notes != "why this link exists" {
		t.Errorf("Expected notes to be updated, got %q", edge.Notes)
	}
	if env.relations.Edges["edge-1"].Notes != "why this link exists" {
		t.Error("Expected persisted notes to change")
	}

	events := env.events.OfType(models.EventRelationNotesUpdated)
	if len(events) != 1 {
		t.Fatalf("Expected 1 RELATION_NOTES_UPDATED event, got %d", len(events))
	}
}

// TestUpdateNotes_WriteEnforcesProjectScope moves the edge to another
// project between the service's read and its write. The update is keyed by
// project and id, so the stale read cannot produce a cross-project write.
func TestUpdateNotes_WriteEnforcesProjectScope(t *testing.T) {
	env := newTestEnv()
	env.addEdge("edge-1", projectA, models.KindGuide, "guide-1", models.RelGuideUsesConcept, models.KindConcept, "concept-1")

	env.tx.BeforeRun = func() {
		env.relations.Edges["edge-1"].ProjectID = projectB
	}

	_, err := env.services.Relation.UpdateNotes(context.Background(), projectA, "edge-1", "stale write", models.ActorHuman)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if env.relations.Edges["edge-1"].Notes != "" {
		t.Error("Expected notes to be untouched")
	}
}

func TestUpdateNotes_NotFound(t *testing.T) {
	env := newTestEnv()
	env.addEdge("edge-1", projectB, models.KindGuide, "guide-1", models.RelGuideUsesConcept, models.KindConcept, "concept-1")

	// Wrong project reads as absent.
	_, err := env.services.Relation.UpdateNotes(context.Background(), projectA, "edge-1", "notes", models.ActorHuman)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
