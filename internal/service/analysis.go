package service

import (
	"context"
	"strings"

	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/model"
	"github.com/Janakrish1/Plan2Ship/internal/pkg/llm"
)

const (
	stageMaxTokens      = 4000
	brainstormMaxTokens = 1500
)

// AnalysisService runs the per-stage LLM chain: prompt build, one completion
// call, normalization. It mutates projects in memory only; persistence is the
// caller's job, and only after the whole chain has succeeded.
type AnalysisService struct {
	cfg *config.Config
	llm llm.Completer
}

func NewAnalysisService(cfg *config.Config, completer llm.Completer) *AnalysisService {
	return &AnalysisService{cfg: cfg, llm: completer}
}

// AnalyzeDocument runs the Stage 1 document analysis over extracted text.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, documentText string) (*model.AnalysisResult, error) {
	truncated := Truncate(documentText, analysisDocCeiling)

	raw, err := s.llm.CompleteObject(ctx, analysisSystemPrompt, analysisUserPrompt(truncated), stageMaxTokens)
	if err != nil {
		return nil, err
	}

	title := asString(raw["projectTitle"])
	stage1 := asMap(raw["stage1Analysis"])
	if title == "" || stage1 == nil {
		return nil, ErrInvalidAnalysis
	}

	result := &model.AnalysisResult{
		ProjectTitle:   title,
		Stage1Analysis: normalizeStage1(stage1),
		RawDocument:    asString(raw["rawDocument"]),
		Summary:        asString(raw["summary"]),
	}
	if result.RawDocument == "" {
		result.RawDocument = truncated
	}
	return result, nil
}

// GenerateStage runs the stage-N chain and, on success, assigns the
// normalized analysis onto the in-memory project and raises CurrentStage. On
// any failure the project is left exactly as it was.
func (s *AnalysisService) GenerateStage(ctx context.Context, project *model.Project, stage int, options *model.StageOptions) error {
	if stage < 2 || stage > 5 {
		return ErrInvalidStage
	}

	doc := project.RawDocument
	if doc == "" {
		doc = project.Summary
	}
	if doc == "" {
		doc = project.Title
	}
	stage1Context := BuildStage1Context(project)

	system, user := StagePrompt(stage, doc, stage1Context, options)
	klog.V(6).Infof("generating stage %d: project=%s, docLen=%d", stage, project.ID, len(doc))

	raw, err := s.llm.CompleteObject(ctx, system, user, stageMaxTokens)
	if err != nil {
		return err
	}

	switch stage {
	case 2:
		project.Stage2Analysis = normalizeStage2(raw)
	case 3:
		project.Stage3Analysis = normalizeStage3(raw)
	case 4:
		project.Stage4Analysis = normalizeStage4(raw)
	case 5:
		project.Stage5Analysis = normalizeStage5(raw)
	}
	if stage > project.CurrentStage {
		project.CurrentStage = stage
	}
	return nil
}

// Brainstorm asks for fresh insights against the project's Stage 1 context.
// It does not touch CurrentStage; appending the insights to productIdeas is
// the caller's decision.
func (s *AnalysisService) Brainstorm(ctx context.Context, project *model.Project, stage int, additionalContext string) ([]string, error) {
	projectContext := brainstormContext(project)
	user := brainstormUserPrompt(stage, projectContext, additionalContext)

	insights, err := s.llm.CompleteList(ctx, brainstormSystemPrompt, user, brainstormMaxTokens)
	if err != nil {
		return nil, err
	}
	klog.V(6).Infof("brainstorm produced %d insights: project=%s, stage=%d", len(insights), project.ID, stage)
	return insights, nil
}

func brainstormContext(project *model.Project) string {
	var parts []string
	if project.Summary != "" {
		parts = append(parts, project.Summary)
	}
	if s1 := project.Stage1Analysis; s1 != nil {
		parts = append(parts,
			"Product ideas: "+strings.Join(s1.ProductIdeas, ", "),
			"Customer segments: "+strings.Join(s1.CustomerSegments, ", "),
			"Competitive insights: "+s1.CompetitiveInsights,
		)
	}
	if len(parts) == 0 {
		if project.RawDocument != "" {
			return project.RawDocument
		}
		return project.Title
	}
	return strings.Join(parts, "\n")
}
