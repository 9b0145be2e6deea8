package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/content-graph-api/internal/models"
)

func TestCreateEntity(t *testing.T) {
	env := newTestEnv()

	entity, err := env.services.Lifecycle.CreateEntity(context.Background(), projectA, &models.CreateEntityRequest{
		EntityType: models.KindGuide,
		Title:      "Writing Good Migrations",
		Slug:       "writing-good-migrations",
		Actor:      models.ActorHuman,
	})
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}
	if entity.Status != models.StatusDraft {
		t.Errorf("Expected status draft, got %s", entity.Status)
	}
	if entity.ID == "" {
		t.Error("Expected entity to be assigned an id")
	}

	events := env.events.OfType(models.EventEntityCreated)
	if len(events) != 1 {
		t.Fatalf("Expected 1 ENTITY_CREATED event, got %d", len(events))
	}
	if events[0].EntityID != entity.ID {
		t.Errorf("Expected event for entity %s, got %s", entity.ID, events[0].EntityID)
	}
}

func TestCreateEntity_InvalidType(t *testing.T) {
	env := newTestEnv()

	_, err := env.services.Lifecycle.CreateEntity(context.Background(), projectA, &models.CreateEntityRequest{
		EntityType: models.KindSourceItem,
		Title:      "Not an entity",
	})
	if err == nil {
		t.Fatal("Expected error for non-entity kind")
	}
}

func TestCreateEntity_DuplicateSlug(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)

	_, err := env.services.Lifecycle.CreateEntity(context.Background(), projectA, &models.CreateEntityRequest{
		EntityType: models.KindGuide,
		Title:      "Another Guide",
		Slug:       "test-guide-1",
	})
	if !errors.Is(err, models.ErrDuplicateSlug) {
		t.Fatalf("Expected ErrDuplicateSlug, got %v", err)
	}
}

func TestRequestPublish(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)

	entity, err := env.services.Lifecycle.RequestPublish(context.Background(), projectA, "guide-1", models.ActorHuman)
	if err != nil {
		t.Fatalf("RequestPublish failed: %v", err)
	}
	if entity.Status != models.StatusPublishRequested {
		t.Errorf("Expected status publish_requested, got %s", entity.Status)
	}
	if env.entities.Entities["guide-1"].Status != models.StatusPublishRequested {
		t.Error("Expected persisted status to change")
	}
	if len(env.events.OfType(models.EventEntityPublishRequested)) != 1 {
		t.Error("Expected 1 ENTITY_PUBLISH_REQUESTED event")
	}
}

func TestPublish_SkippingRequestRejected(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)

	_, err := env.services.Lifecycle.Publish(context.Background(), projectA, "guide-1", models.ActorHuman)
	if !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Fatalf("Expected ErrInvalidStateTransition, got %v", err)
	}
	if env.entities.Entities["guide-1"].Status != models.StatusDraft {
		t.Error("Expected status to remain draft")
	}
}

// TestPublish_GuideLifecycle walks a guide through the full lifecycle: a
// publish attempt without a concept reference is rejected and recorded,
// adding the reference makes the next attempt succeed.
func TestPublish_GuideLifecycle(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusPublishRequested)
	env.addEntity("concept-1", models.KindConcept, projectA, models.StatusDraft)

	_, err := env.services.Lifecycle.Publish(context.Background(), projectA, "guide-1", models.ActorHuman)
	var vfErr *models.ValidationFailedError
	if !errors.As(err, &vfErr) {
		t.Fatalf("Expected ValidationFailedError, got %v", err)
	}
	if len(vfErr.Failures) != 1 || vfErr.Failures[0].Code != "guide_missing_concept" {
		t.Fatalf("Expected guide_missing_concept failure, got %+v", vfErr.Failures)
	}

	stored := env.entities.Entities["guide-1"]
	if stored.Status != models.StatusPublishRequested {
		t.Errorf("Expected status unchanged after rejection, got %s", stored.Status)
	}
	if stored.PublishedAt != nil {
		t.Error("Expected published_at to remain unset")
	}
	if len(env.events.OfType(models.EventEntityValidationFailed)) != 1 {
		t.Error("Expected the rejection to be recorded in the ledger")
	}

	env.addEdge("edge-1", projectA, models.KindGuide, "guide-1", models.RelGuideUsesConcept, models.KindConcept, "concept-1")

	entity, err := env.services.Lifecycle.Publish(context.Background(), projectA, "guide-1", models.ActorHuman)
	if err != nil {
		t.Fatalf("Publish after adding concept reference failed: %v", err)
	}
	if entity.Status != models.StatusPublished {
		t.Errorf("Expected status published, got %s", entity.Status)
	}
	if entity.PublishedAt == nil {
		t.Error("Expected published_at to be set")
	}
	if len(env.events.OfType(models.EventEntityPublished)) != 1 {
		t.Error("Expected exactly 1 ENTITY_PUBLISHED event")
	}

	// Published is terminal for this core.
	if _, err := env.services.Lifecycle.Publish(context.Background(), projectA, "guide-1", models.ActorHuman); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Errorf("Expected ErrInvalidStateTransition on republish, got %v", err)
	}
	if _, err := env.services.Lifecycle.Archive(context.Background(), projectA, "guide-1", models.ActorHuman); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Errorf("Expected ErrInvalidStateTransition archiving published, got %v", err)
	}
}

// TestPublish_RacedByConcurrentPublish interleaves a concurrent publish
// between the precondition read and the transactional write. The status
// write matches on the prior status, so the second caller commits nothing
// and no duplicate ENTITY_PUBLISHED event is appended.
func TestPublish_RacedByConcurrentPublish(t *testing.T) {
	env := newTestEnv()
	env.addEntity("concept-1", models.KindConcept, projectA, models.StatusPublishRequested)

	env.tx.BeforeRun = func() {
		env.entities.Entities["concept-1"].Status = models.StatusPublished
	}

	_, err := env.services.Lifecycle.Publish(context.Background(), projectA, "concept-1", models.ActorHuman)
	if !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Fatalf("Expected ErrInvalidStateTransition, got %v", err)
	}
	if len(env.events.OfType(models.EventEntityPublished)) != 0 {
		t.Error("Expected no ENTITY_PUBLISHED event from the losing caller")
	}
}

func TestArchive_RacedByConcurrentPublish(t *testing.T) {
	env := newTestEnv()
	env.addEntity("concept-1", models.KindConcept, projectA, models.StatusPublishRequested)

	env.tx.BeforeRun = func() {
		env.entities.Entities["concept-1"].Status = models.StatusPublished
	}

	_, err := env.services.Lifecycle.Archive(context.Background(), projectA, "concept-1", models.ActorHuman)
	if !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Fatalf("Expected ErrInvalidStateTransition, got %v", err)
	}
	if env.entities.Entities["concept-1"].Status != models.StatusPublished {
		t.Error("Expected the concurrent publish to stand")
	}
	if len(env.events.OfType(models.EventEntityArchived)) != 0 {
		t.Error("Expected no ENTITY_ARCHIVED event from the losing caller")
	}
}

func TestPublish_MissingSlug(t *testing.T) {
	env := newTestEnv()
	entity := env.addEntity("concept-1", models.KindConcept, projectA, models.StatusPublishRequested)
	entity.Slug = ""

	_, err := env.services.Lifecycle.Publish(context.Background(), projectA, "concept-1", models.ActorHuman)
	var vfErr *models.ValidationFailedError
	if !errors.As(err, &vfErr) {
		t.Fatalf("Expected ValidationFailedError, got %v", err)
	}
	if len(vfErr.Failures) != 1 || vfErr.Failures[0].Code != "missing_slug" {
		t.Fatalf("Expected missing_slug failure, got %+v", vfErr.Failures)
	}
}

func TestValidate(t *testing.T) {
	env := newTestEnv()
	env.addEntity("concept-1", models.KindConcept, projectA, models.StatusDraft)
	news := env.addEntity("news-1", models.KindNews, projectA, models.StatusDraft)
	news.Slug = "Bad Slug"

	report, err := env.services.Lifecycle.Validate(context.Background(), projectA, "concept-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Status != "pass" {
		t.Errorf("Expected pass, got %s with %+v", report.Status, report.Failures)
	}

	report, err = env.services.Lifecycle.Validate(context.Background(), projectA, "news-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Status != "fail" {
		t.Fatal("Expected fail for news without a source edge")
	}
	codes := map[string]bool{}
	for _, f := range report.Failures {
		codes[f.Code] = true
	}
	if !codes["invalid_slug"] || !codes["news_missing_source"] {
		t.Errorf("Expected invalid_slug and news_missing_source, got %+v", report.Failures)
	}

	// Validate never mutates state or the ledger.
	if env.entities.Entities["news-1"].Status != models.StatusDraft {
		t.Error("Expected status unchanged")
	}
	if len(env.events.Events) != 0 {
		t.Error("Expected no events from a standalone validate")
	}
}

func TestArchive(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectA, models.StatusDraft)

	entity, err := env.services.Lifecycle.Archive(context.Background(), projectA, "guide-1", models.ActorSystem)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if entity.Status != models.StatusArchived {
		t.Errorf("Expected status archived, got %s", entity.Status)
	}
	if entity.ArchivedAt == nil {
		t.Error("Expected archived_at to be set")
	}
	if len(env.events.OfType(models.EventEntityArchived)) != 1 {
		t.Error("Expected 1 ENTITY_ARCHIVED event")
	}

	// Archived is terminal.
	if _, err := env.services.Lifecycle.RequestPublish(context.Background(), projectA, "guide-1", models.ActorHuman); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Errorf("Expected ErrInvalidStateTransition from archived, got %v", err)
	}
}

func TestGetEntity_WrongProject(t *testing.T) {
	env := newTestEnv()
	env.addEntity("guide-1", models.KindGuide, projectB, models.StatusDraft)

	_, err := env.services.Lifecycle.GetEntity(context.Background(), projectA, "guide-1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestTriageSourceItem_WriteEnforcesProjectScope(t *testing.T) {
	env := newTestEnv()
	env.nodes.AddAuxNode(models.KindSourceItem, "item-1", projectA)
	env.nodes.SourceItems["item-1"] = &models.SourceItem{
		ID:           "item-1",
		ProjectID:    projectA,
		TriageStatus: models.TriagePending,
	}

	// The item moves projects between the read and the write.
	env.tx.BeforeRun = func() {
		env.nodes.SourceItems["item-1"].ProjectID = projectB
	}

	_, err := env.services.Lifecycle.TriageSourceItem(context.Background(), projectA, "item-1", models.TriageAccepted, models.ActorHuman)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if env.nodes.SourceItems["item-1"].TriageStatus != models.TriagePending {
		t.Error("Expected triage status to be untouched")
	}
}

func TestTriageSourceItem(t *testing.T) {
	env := newTestEnv()
	env.nodes.AddAuxNode(models.KindSourceItem, "item-1", projectA)
	env.nodes.SourceItems["item-1"] = &models.SourceItem{
		ID:           "item-1",
		ProjectID:    projectA,
		TriageStatus: models.TriagePending,
	}

	item, err := env.services.Lifecycle.TriageSourceItem(context.Background(), projectA, "item-1", models.TriageAccepted, models.ActorLLM)
	if err != nil {
		t.Fatalf("TriageSourceItem failed: %v", err)
	}
	if item.TriageStatus != models.TriageAccepted {
		t.Errorf("Expected accepted, got %s", item.TriageStatus)
	}

	events := env.events.OfType(models.EventSourceItemTriaged)
	if len(events) != 1 {
		t.Fatalf("Expected 1 SOURCE_ITEM_TRIAGED event, got %d", len(events))
	}
	if events[0].Details["from"] != models.TriagePending || events[0].Details["to"] != models.TriageAccepted {
		t.Errorf("Expected triage transition in event details, got %+v", events[0].Details)
	}

	if _, err := env.services.Lifecycle.TriageSourceItem(context.Background(), projectA, "item-1", "bogus", models.ActorHuman); err == nil {
		t.Error("Expected error for invalid triage status")
	}
	if _, err := env.services.Lifecycle.TriageSourceItem(context.Background(), projectA, "missing", models.TriageRejected, models.ActorHuman); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
