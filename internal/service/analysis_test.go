package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/model"
)

// mockCompleter replays canned completions and records the prompts it saw.
type mockCompleter struct {
	objects     []map[string]any
	lists       [][]string
	err         error
	systemSeen  []string
	userSeen    []string
	objectCalls int
	listCalls   int
}

func (m *mockCompleter) CompleteObject(ctx context.Context, system, user string, maxTokens int) (map[string]any, error) {
	m.systemSeen = append(m.systemSeen, system)
	m.userSeen = append(m.userSeen, user)
	if m.err != nil {
		return nil, m.err
	}
	if m.objectCalls >= len(m.objects) {
		return map[string]any{}, nil
	}
	out := m.objects[m.objectCalls]
	m.objectCalls++
	return out, nil
}

func (m *mockCompleter) CompleteList(ctx context.Context, system, user string, maxTokens int) ([]string, error) {
	m.systemSeen = append(m.systemSeen, system)
	m.userSeen = append(m.userSeen, user)
	if m.err != nil {
		return nil, m.err
	}
	if m.listCalls >= len(m.lists) {
		return []string{}, nil
	}
	out := m.lists[m.listCalls]
	m.listCalls++
	return out, nil
}

func object(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return out
}

var analysisFixture = `{
	"projectTitle": "Acme Notes",
	"stage1Analysis": {
		"productIdeas": ["offline-first notes"],
		"customerSegments": ["students"],
		"competitiveInsights": "few offline players"
	},
	"summary": "A note-taking app."
}`

func TestAnalyzeDocument(t *testing.T) {
	mock := &mockCompleter{objects: []map[string]any{object(t, analysisFixture)}}
	svc := NewAnalysisService(&config.Config{}, mock)

	result, err := svc.AnalyzeDocument(context.Background(), "doc text")
	if err != nil {
		t.Fatalf("AnalyzeDocument failed: %v", err)
	}
	if result.ProjectTitle != "Acme Notes" {
		t.Errorf("title: %q", result.ProjectTitle)
	}
	if len(result.Stage1Analysis.ProductIdeas) != 1 {
		t.Errorf("productIdeas: %v", result.Stage1Analysis.ProductIdeas)
	}
	// Stage 1 fields absent from the reply still default to empty.
	if result.Stage1Analysis.BusinessGoals == nil {
		t.Errorf("businessGoals must default to empty")
	}
	if result.RawDocument != "doc text" {
		t.Errorf("rawDocument must fall back to the input text, got %q", result.RawDocument)
	}
}

func TestAnalyzeDocumentRejectsIncompleteReply(t *testing.T) {
	cases := []string{
		`{"stage1Analysis": {}}`,
		`{"projectTitle": "T"}`,
		`{"projectTitle": "", "stage1Analysis": {}}`,
	}
	for _, fixture := range cases {
		mock := &mockCompleter{objects: []map[string]any{object(t, fixture)}}
		svc := NewAnalysisService(&config.Config{}, mock)
		if _, err := svc.AnalyzeDocument(context.Background(), "doc"); !errors.Is(err, ErrInvalidAnalysis) {
			t.Errorf("fixture %s: expected ErrInvalidAnalysis, got %v", fixture, err)
		}
	}
}

func TestGenerateStageValidatesStage(t *testing.T) {
	svc := NewAnalysisService(&config.Config{}, &mockCompleter{})
	for _, stage := range []int{0, 1, 6, -1} {
		err := svc.GenerateStage(context.Background(), &model.Project{}, stage, nil)
		if !errors.Is(err, ErrInvalidStage) {
			t.Errorf("stage %d: expected ErrInvalidStage, got %v", stage, err)
		}
	}
}

func TestGenerateStageMonotonicCurrentStage(t *testing.T) {
	mock := &mockCompleter{objects: []map[string]any{
		object(t, `{"wireframes":[]}`),
		object(t, `{"epics":[]}`),
	}}
	svc := NewAnalysisService(&config.Config{}, mock)
	project := &model.Project{ID: "p1", Title: "T", CurrentStage: 1}

	if err := svc.GenerateStage(context.Background(), project, 4, nil); err != nil {
		t.Fatalf("stage 4 failed: %v", err)
	}
	if project.CurrentStage != 4 {
		t.Errorf("expected currentStage 4, got %d", project.CurrentStage)
	}

	if err := svc.GenerateStage(context.Background(), project, 2, nil); err != nil {
		t.Fatalf("stage 2 failed: %v", err)
	}
	if project.CurrentStage != 4 {
		t.Errorf("regenerating an earlier stage must not lower currentStage, got %d", project.CurrentStage)
	}
	if project.Stage2Analysis == nil || project.Stage4Analysis == nil {
		t.Errorf("both stage analyses should be present")
	}
}

func TestGenerateStageFailureLeavesProjectUntouched(t *testing.T) {
	mock := &mockCompleter{err: errors.New("model unavailable")}
	svc := NewAnalysisService(&config.Config{}, mock)
	project := &model.Project{ID: "p1", Title: "T", CurrentStage: 1}

	before, _ := json.Marshal(project)
	if err := svc.GenerateStage(context.Background(), project, 3, nil); err == nil {
		t.Fatalf("expected error")
	}
	after, _ := json.Marshal(project)
	if string(before) != string(after) {
		t.Errorf("failed generation mutated the project:\nbefore %s\nafter  %s", before, after)
	}
}

func TestGenerateStageDocumentFallback(t *testing.T) {
	mock := &mockCompleter{objects: []map[string]any{object(t, `{}`)}}
	svc := NewAnalysisService(&config.Config{}, mock)
	project := &model.Project{ID: "p1", Title: "Only Title"}

	if err := svc.GenerateStage(context.Background(), project, 2, nil); err != nil {
		t.Fatalf("GenerateStage failed: %v", err)
	}
	if len(mock.userSeen) != 1 {
		t.Fatalf("expected one completion call")
	}
	if got := mock.userSeen[0]; !strings.Contains(got, "Only Title") {
		t.Errorf("prompt should fall back to the title:\n%s", got)
	}
}

func TestBrainstorm(t *testing.T) {
	mock := &mockCompleter{lists: [][]string{{"A", "B", "C"}}}
	svc := NewAnalysisService(&config.Config{}, mock)
	project := &model.Project{
		ID:      "p1",
		Summary: "summary",
		Stage1Analysis: &model.Stage1Analysis{
			ProductIdeas: []string{"existing"},
		},
	}

	insights, err := svc.Brainstorm(context.Background(), project, 1, "focus on pricing")
	if err != nil {
		t.Fatalf("Brainstorm failed: %v", err)
	}
	if len(insights) != 3 {
		t.Errorf("expected 3 insights, got %v", insights)
	}
	if !strings.Contains(mock.userSeen[0], "focus on pricing") {
		t.Errorf("additional context missing from prompt")
	}
	// Brainstorm itself never mutates the project.
	if len(project.Stage1Analysis.ProductIdeas) != 1 {
		t.Errorf("Brainstorm must not append to the project")
	}
}
