package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "projects"), filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	return store
}

func TestStoreSaveGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	project := &model.Project{
		ID:           "p1",
		Title:        "Test Plan",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		CurrentStage: 1,
		Stage1Analysis: &model.Stage1Analysis{
			ProductIdeas: []string{"A"},
		},
	}
	if err := store.Save(project); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Get("p1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Title != "Test Plan" || got.CurrentStage != 1 {
		t.Fatalf("unexpected project: %+v", got)
	}
	if got.Stage1Analysis == nil || len(got.Stage1Analysis.ProductIdeas) != 1 {
		t.Fatalf("stage1 analysis not round-tripped: %+v", got.Stage1Analysis)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreListSkipsInvalid(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(&model.Project{ID: "ok", Title: "OK", CurrentStage: 1}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.projectsDir, "bad.json"), []byte("{broken"), 0644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}

	projects, err := store.List()
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != "ok" {
		t.Fatalf("expected only the valid project, got %v", projects)
	}
}

func TestStoreDeleteRemovesUploads(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(&model.Project{ID: "p1", Title: "T", CurrentStage: 1}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := store.SaveUpload("p1", "plan.pdf", []byte("%PDF-")); err != nil {
		t.Fatalf("SaveUpload error: %v", err)
	}

	if err := store.Delete("p1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := store.Get("p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := os.Stat(store.UploadDir("p1")); !os.IsNotExist(err) {
		t.Fatalf("expected upload dir removed, got %v", err)
	}

	if err := store.Delete("p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
