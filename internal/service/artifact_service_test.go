package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/content-graph-api/internal/models"
)

func (env *testEnv) addArtifact(id string, expiresAt time.Time) *models.Artifact {
	artifact := &models.Artifact{
		ID:        id,
		ProjectID: projectA,
		Kind:      "draft_post",
		Status:    models.ArtifactStatusDraft,
		Content:   "content of " + id,
		CreatedBy: models.ActorLLM,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	env.artifacts.Artifacts[id] = artifact
	return artifact
}

func TestCreateArtifact(t *testing.T) {
	env := newTestEnv()

	before := time.Now()
	artifact, err := env.services.Artifact.Create(context.Background(), projectA, &models.CreateArtifactRequest{
		Kind:      "draft_post",
		Content:   "generated draft body",
		CreatedBy: models.ActorLLM,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if artifact.Status != models.ArtifactStatusDraft {
		t.Errorf("Expected status draft, got %s", artifact.Status)
	}

	sum := sha256.Sum256([]byte("generated draft body"))
	if artifact.ContentHash != hex.EncodeToString(sum[:]) {
		t.Errorf("Expected content hash %s, got %s", hex.EncodeToString(sum[:]), artifact.ContentHash)
	}

	wantExpiry := before.Add(env.cfg.Artifact.TTL)
	if artifact.ExpiresAt.Before(wantExpiry) || artifact.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("Expected expiry near %v, got %v", wantExpiry, artifact.ExpiresAt)
	}

	if len(env.events.OfType(models.EventArtifactCreated)) != 1 {
		t.Error("Expected 1 ARTIFACT_CREATED event")
	}
}

func TestCreateArtifact_EmptyContent(t *testing.T) {
	env := newTestEnv()

	artifact, err := env.services.Artifact.Create(context.Background(), projectA, &models.CreateArtifactRequest{
		Kind: "draft_post",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if artifact.ContentHash != "" {
		t.Errorf("Expected no hash for empty content, got %s", artifact.ContentHash)
	}

	if _, err := env.services.Artifact.Create(context.Background(), projectA, &models.CreateArtifactRequest{}); err == nil {
		t.Error("Expected error for missing kind")
	}
}

func TestGetArtifact_ExpiredReadsAsAbsent(t *testing.T) {
	env := newTestEnv()
	env.addArtifact("art-live", time.Now().Add(time.Hour))
	env.addArtifact("art-expired", time.Now().Add(-time.Hour))

	if _, err := env.services.Artifact.Get(context.Background(), projectA, "art-live"); err != nil {
		t.Fatalf("Get live artifact failed: %v", err)
	}
	if _, err := env.services.Artifact.Get(context.Background(), projectA, "art-expired"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for expired artifact, got %v", err)
	}
	if _, err := env.services.Artifact.Get(context.Background(), projectB, "art-live"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for wrong project, got %v", err)
	}
}

func TestArchiveArtifact(t *testing.T) {
	env := newTestEnv()
	env.addArtifact("art-1", time.Now().Add(time.Hour))

	artifact, err := env.services.Artifact.Archive(context.Background(), projectA, "art-1", models.ActorHuman)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if artifact.Status != models.ArtifactStatusArchived {
		t.Errorf("Expected status archived, got %s", artifact.Status)
	}
	if artifact.DeletedAt == nil {
		t.Error("Expected deleted_at to be set")
	}
	if len(env.events.OfType(models.EventArtifactArchived)) != 1 {
		t.Error("Expected 1 ARTIFACT_ARCHIVED event")
	}

	// Archived artifacts read as absent and cannot be archived again.
	if _, err := env.services.Artifact.Get(context.Background(), projectA, "art-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after archive, got %v", err)
	}
	if _, err := env.services.Artifact.Archive(context.Background(), projectA, "art-1", models.ActorHuman); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on re-archive, got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	env := newTestEnv()
	env.addArtifact("art-1", time.Now().Add(-3*time.Hour))
	env.addArtifact("art-2", time.Now().Add(-2*time.Hour))
	env.addArtifact("art-3", time.Now().Add(-time.Hour))
	env.addArtifact("art-live", time.Now().Add(time.Hour))

	// Oldest expiries first, bounded by limit.
	archived, err := env.services.Artifact.SweepExpired(context.Background(), 2)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if len(archived) != 2 || archived[0] != "art-1" || archived[1] != "art-2" {
		t.Fatalf("Expected [art-1 art-2], got %v", archived)
	}

	// A rerun picks up only the remainder.
	archived, err = env.services.Artifact.SweepExpired(context.Background(), 2)
	if err != nil {
		t.Fatalf("Second sweep failed: %v", err)
	}
	if len(archived) != 1 || archived[0] != "art-3" {
		t.Fatalf("Expected [art-3], got %v", archived)
	}

	// Nothing left: the sweep is idempotent.
	archived, err = env.services.Artifact.SweepExpired(context.Background(), 2)
	if err != nil {
		t.Fatalf("Third sweep failed: %v", err)
	}
	if len(archived) != 0 {
		t.Fatalf("Expected empty sweep, got %v", archived)
	}

	if events := env.events.OfType(models.EventArtifactExpired); len(events) != 3 {
		t.Errorf("Expected 3 ARTIFACT_EXPIRED events, got %d", len(events))
	}
	if env.artifacts.Artifacts["art-live"].Status != models.ArtifactStatusDraft {
		t.Error("Expected live artifact to be untouched")
	}
	if env.artifacts.Artifacts["art-2"].DeletedAt == nil {
		t.Error("Expected swept artifact to carry deleted_at")
	}
}

func TestSweepExpired_DefaultBatchSize(t *testing.T) {
	env := newTestEnv()
	env.addArtifact("art-1", time.Now().Add(-time.Hour))

	archived, err := env.services.Artifact.SweepExpired(context.Background(), 0)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("Expected 1 archived artifact, got %d", len(archived))
	}
}
