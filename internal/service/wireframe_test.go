package service

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/model"
	"github.com/Janakrish1/Plan2Ship/internal/storage"
)

type mockGenerator struct {
	prompts []string
	png     []byte
	err     error
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return nil, m.err
	}
	return m.png, nil
}

func seedStage4Project(t *testing.T, store *storage.Store) *model.Project {
	t.Helper()
	project := &model.Project{
		ID:           "wf-test",
		Title:        "T",
		CurrentStage: 4,
		Stage4Analysis: &model.Stage4Analysis{
			Wireframes: []model.Wireframe{
				{
					ScreenName: "Home",
					Purpose:    "Landing page",
					Components: []string{"hero", "nav"},
					Microcopy:  []string{"Get started", "Learn more"},
				},
				{ScreenName: "Settings", Purpose: "Preferences"},
			},
		},
	}
	if err := store.Save(project); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

var wireframeFilename = regexp.MustCompile(`^screen-\d+(-\d+)?\.png$`)

func TestGenerateImage(t *testing.T) {
	store, _ := newTestStore(t)
	project := seedStage4Project(t, store)
	gen := &mockGenerator{png: []byte("png-bytes")}
	svc := NewWireframeService(&config.Config{}, store, gen)

	updated, path, err := svc.GenerateImage(context.Background(), project.ID, 0)
	if err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}
	if path != "wireframes/screen-0.png" {
		t.Errorf("unexpected image path: %s", path)
	}
	if got := updated.Stage4Analysis.Wireframes[0].ImagePaths; len(got) != 1 || got[0] != path {
		t.Errorf("image path not recorded: %v", got)
	}

	data, err := os.ReadFile(store.UploadPath(project.ID, "wireframes", "screen-0.png"))
	if err != nil {
		t.Fatalf("image file missing: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("image bytes mismatch")
	}

	// The first prompt has no variation hint.
	if strings.Contains(gen.prompts[0], "distinct variation") {
		t.Errorf("first generation must not carry a variation hint")
	}
}

func TestGenerateImageVariations(t *testing.T) {
	store, _ := newTestStore(t)
	project := seedStage4Project(t, store)
	gen := &mockGenerator{png: []byte("png")}
	svc := NewWireframeService(&config.Config{}, store, gen)

	var paths []string
	for i := 0; i < 3; i++ {
		_, path, err := svc.GenerateImage(context.Background(), project.ID, 0)
		if err != nil {
			t.Fatalf("generation %d failed: %v", i, err)
		}
		paths = append(paths, path)
	}

	want := []string{"wireframes/screen-0.png", "wireframes/screen-0-1.png", "wireframes/screen-0-2.png"}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: got %s, want %s", i, paths[i], want[i])
		}
		base := strings.TrimPrefix(paths[i], "wireframes/")
		if !wireframeFilename.MatchString(base) {
			t.Errorf("filename %s does not match the served pattern", base)
		}
	}

	// Regenerations carry a style hint; the first does not.
	if strings.Contains(gen.prompts[0], variationStyles[0]) {
		t.Errorf("first prompt should have no style hint")
	}
	if !strings.Contains(gen.prompts[1], variationStyles[0]) {
		t.Errorf("second prompt should carry the first style hint")
	}
	if !strings.Contains(gen.prompts[2], variationStyles[1]) {
		t.Errorf("third prompt should carry the second style hint")
	}
}

func TestGenerateImageValidation(t *testing.T) {
	store, _ := newTestStore(t)
	gen := &mockGenerator{png: []byte("png")}
	svc := NewWireframeService(&config.Config{}, store, gen)

	if _, _, err := svc.GenerateImage(context.Background(), "missing", 0); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	noStage4 := &model.Project{ID: "bare", Title: "T"}
	if err := store.Save(noStage4); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, _, err := svc.GenerateImage(context.Background(), "bare", 0); !errors.Is(err, ErrNoStage4) {
		t.Errorf("expected ErrNoStage4, got %v", err)
	}

	project := seedStage4Project(t, store)
	for _, index := range []int{-1, 2, 10} {
		if _, _, err := svc.GenerateImage(context.Background(), project.ID, index); !errors.Is(err, ErrInvalidWireframeIndex) {
			t.Errorf("index %d: expected ErrInvalidWireframeIndex, got %v", index, err)
		}
	}
}

func TestGenerateImageFailureLeavesProjectUntouched(t *testing.T) {
	store, _ := newTestStore(t)
	project := seedStage4Project(t, store)
	gen := &mockGenerator{err: errors.New("endpoint down")}
	svc := NewWireframeService(&config.Config{}, store, gen)

	if _, _, err := svc.GenerateImage(context.Background(), project.ID, 0); err == nil {
		t.Fatalf("expected error")
	}
	stored, _ := store.Get(project.ID)
	if len(stored.Stage4Analysis.Wireframes[0].ImagePaths) != 0 {
		t.Errorf("failed generation must not record image paths")
	}
}

func TestBuildWireframePrompt(t *testing.T) {
	w := &model.Wireframe{
		ScreenName: "Checkout",
		Purpose:    "Collect payment",
		Components: []string{"cart summary", "card form"},
		Microcopy:  []string{"Pay now", "a", "b", "c", "d", "e", "overflow"},
	}

	prompt := BuildWireframePrompt(w, "")
	for _, want := range []string{"Checkout", "Collect payment", "cart summary", "Pay now"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// Microcopy is capped at six strings.
	if strings.Contains(prompt, "overflow") {
		t.Errorf("microcopy beyond six strings must be dropped")
	}
	if !strings.Contains(prompt, "no isometric") {
		t.Errorf("flatness constraint missing")
	}

	hinted := BuildWireframePrompt(w, "bold modern layout")
	if !strings.Contains(hinted, "Create a distinct variation: bold modern layout.") {
		t.Errorf("variation hint missing:\n%s", hinted)
	}
}
