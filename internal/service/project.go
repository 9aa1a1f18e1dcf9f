package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/eventbus"
	"github.com/Janakrish1/Plan2Ship/internal/model"
	"github.com/Janakrish1/Plan2Ship/internal/pkg/pdfext"
	"github.com/Janakrish1/Plan2Ship/internal/storage"
)

// TextExtractor turns uploaded bytes into plain text.
type TextExtractor func(data []byte) (string, error)

// ProjectService owns the project lifecycle: creation from an uploaded PDF,
// on-demand stage generation, brainstorming, edits, and deletion. Every
// operation is one read-modify-write against the store; the record is written
// only after the full LLM chain has succeeded.
type ProjectService struct {
	cfg      *config.Config
	store    *storage.Store
	analyzer *AnalysisService
	extract  TextExtractor
	bus      *eventbus.Bus
}

func NewProjectService(cfg *config.Config, store *storage.Store, analyzer *AnalysisService, bus *eventbus.Bus) *ProjectService {
	return &ProjectService{
		cfg:      cfg,
		store:    store,
		analyzer: analyzer,
		extract:  pdfext.ExtractText,
		bus:      bus,
	}
}

// SetExtractor swaps the text extractor; used by tests.
func (s *ProjectService) SetExtractor(extract TextExtractor) {
	s.extract = extract
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// CreateFromDocument extracts text from the uploaded PDF, runs the Stage 1
// analysis, and persists a fresh project at stage 1.
func (s *ProjectService) CreateFromDocument(ctx context.Context, filename string, data []byte) (*model.Project, error) {
	text, err := s.extract(data)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.AnalyzeDocument(ctx, text)
	if err != nil {
		return nil, err
	}

	projectID := uuid.New().String()
	if filename == "" {
		filename = "document.pdf"
	}
	safeName := unsafeFilenameChars.ReplaceAllString(filename, "_")

	pdfPath, err := s.store.SaveUpload(projectID, safeName, data)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		ID:             projectID,
		Title:          analysis.ProjectTitle,
		CreatedAt:      time.Now().UTC(),
		CurrentStage:   1,
		PDFPath:        pdfPath,
		RawDocument:    analysis.RawDocument,
		Summary:        analysis.Summary,
		Stage1Analysis: analysis.Stage1Analysis,
	}
	if err := s.store.Save(project); err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.ProjectEvent{
		Type:      eventbus.ProjectCreated,
		ProjectID: projectID,
		Title:     project.Title,
		Stage:     1,
	})
	return project, nil
}

// List returns project summaries, newest first.
func (s *ProjectService) List() ([]model.ProjectSummary, error) {
	projects, err := s.store.List()
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	summaries := make([]model.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, model.ProjectSummary{
			ID:           p.ID,
			Title:        p.Title,
			CreatedAt:    p.CreatedAt,
			CurrentStage: p.CurrentStage,
			Thumbnail:    p.Thumbnail,
		})
	}
	return summaries, nil
}

func (s *ProjectService) Get(id string) (*model.Project, error) {
	return s.store.Get(id)
}

// UpdateRequest is the PATCH surface: only the provided fields change.
type UpdateRequest struct {
	Title          *string               `json:"title"`
	Stage1Analysis *model.Stage1Analysis `json:"stage1Analysis"`
	CurrentStage   *int                  `json:"currentStage"`
}

func (s *ProjectService) Update(id string, req UpdateRequest) (*model.Project, error) {
	project, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if title := strings.TrimSpace(*req.Title); title != "" {
			project.Title = title
		}
	}
	if req.Stage1Analysis != nil {
		project.Stage1Analysis = req.Stage1Analysis
	}
	if req.CurrentStage != nil && *req.CurrentStage >= 1 && *req.CurrentStage <= 5 {
		project.CurrentStage = *req.CurrentStage
	}

	if err := s.store.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}

// GenerateStage loads the project, runs the stage-N chain, and persists the
// result. A failing chain leaves the stored record untouched.
func (s *ProjectService) GenerateStage(ctx context.Context, id string, stage int, options *model.StageOptions) (*model.Project, error) {
	project, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.analyzer.GenerateStage(ctx, project, stage, options); err != nil {
		return nil, err
	}

	if err := s.store.Save(project); err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.ProjectEvent{
		Type:      eventbus.ProjectStageGenerated,
		ProjectID: id,
		Title:     project.Title,
		Stage:     stage,
	})
	return project, nil
}

// BrainstormResult carries both the new insights and the updated project.
type BrainstormResult struct {
	Insights       []string       `json:"insights"`
	UpdatedProject *model.Project `json:"updatedProject"`
}

// Brainstorm appends freshly generated insights to the project's Stage 1
// product ideas. This is the one mutation that appends instead of replacing,
// and it never changes CurrentStage.
func (s *ProjectService) Brainstorm(ctx context.Context, id string, stage int, additionalContext string) (*BrainstormResult, error) {
	project, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if stage == 0 {
		stage = 1
	}

	insights, err := s.analyzer.Brainstorm(ctx, project, stage, additionalContext)
	if err != nil {
		return nil, err
	}

	if project.Stage1Analysis == nil {
		project.Stage1Analysis = &model.Stage1Analysis{
			ProductIdeas:     []string{},
			MarketSizing:     map[string]any{},
			CustomerSegments: []string{},
			BusinessGoals:    []string{},
			Scenarios:        []string{},
			CustomerNeeds:    []string{},
		}
	}
	project.Stage1Analysis.ProductIdeas = append(project.Stage1Analysis.ProductIdeas, insights...)

	if err := s.store.Save(project); err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.ProjectEvent{
		Type:      eventbus.ProjectBrainstormed,
		ProjectID: id,
		Title:     project.Title,
		Stage:     stage,
		Detail:    map[string]any{"insights": len(insights)},
	})
	return &BrainstormResult{Insights: insights, UpdatedProject: project}, nil
}

// Delete removes the project record and every generated file under its
// upload directory.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	project, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.publish(ctx, eventbus.ProjectEvent{
		Type:      eventbus.ProjectDeleted,
		ProjectID: id,
		Title:     project.Title,
	})
	return nil
}

// publish forwards the event to the bus; delivery failures are logged, never
// surfaced to the request.
func (s *ProjectService) publish(ctx context.Context, event eventbus.ProjectEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		klog.Errorf("publish %s failed: %v", event.Type, err)
	}
}
