package service

import (
	"encoding/json"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

// The normalizers coerce loosely-typed model output into the fixed
// optional-field stage shapes. A field survives only when the raw value is of
// the declared array/object kind; anything else becomes absent. They never
// fail: inability to parse JSON at all is handled upstream by the LLM
// adapter, and the verbatim serialization is always retained in Raw so
// nothing the model said is discarded.

// asSlice keeps v only when it is a JSON array decodable into []T.
func asSlice[T any](v any) []T {
	if _, ok := v.([]any); !ok {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// asObject keeps v only when it is a JSON object decodable into T.
func asObject[T any](v any) *T {
	if _, ok := v.(map[string]any); !ok {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return out
}

func asMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func serialize(raw map[string]any) string {
	data, err := json.Marshal(raw)
	if err != nil {
		return ""
	}
	return string(data)
}

func normalizeStage2(raw map[string]any) *model.Stage2Analysis {
	return &model.Stage2Analysis{
		Epics:              asSlice[model.Epic](raw["epics"]),
		UserStories:        asSlice[model.UserStory](raw["userStories"]),
		AcceptanceCriteria: asSlice[model.AcceptanceCriteria](raw["acceptanceCriteria"]),
		MVPVsLater:         asObject[model.MVPSplit](raw["mvpVsLater"]),
		Assumptions:        asSlice[string](raw["assumptions"]),
		Raw:                serialize(raw),
	}
}

func normalizeStage3(raw map[string]any) *model.Stage3Analysis {
	return &model.Stage3Analysis{
		FeedbackThemes:       asSlice[model.FeedbackTheme](raw["feedbackThemes"]),
		CompetitorComparison: asSlice[model.CompetitorEntry](raw["competitorComparison"]),
		Trends:               asSlice[model.Trend](raw["trends"]),
		Insights:             asSlice[string](raw["insights"]),
		Opportunities:        asSlice[string](raw["opportunities"]),
		Risks:                asSlice[string](raw["risks"]),
		NextResearchSteps:    asSlice[string](raw["nextResearchSteps"]),
		Assumptions:          asSlice[string](raw["assumptions"]),
		Raw:                  serialize(raw),
	}
}

func normalizeStage4(raw map[string]any) *model.Stage4Analysis {
	return &model.Stage4Analysis{
		UserFlow:            asObject[model.UserFlow](raw["userFlow"]),
		Wireframes:          asSlice[model.Wireframe](raw["wireframes"]),
		UsabilityTestScript: normalizeUsabilityScript(raw["usabilityTestScript"]),
		TestCases:           asSlice[model.TestCase](raw["testCases"]),
		Iteration:           asSlice[model.IterationNote](raw["iteration"]),
		Assumptions:         asSlice[string](raw["assumptions"]),
		Raw:                 serialize(raw),
	}
}

// normalizeUsabilityScript preserves whichever of the two shapes the model
// chose: plain text or a structured task list. No coercion between them;
// presentation decides how to render each.
func normalizeUsabilityScript(v any) *model.UsabilityScript {
	switch val := v.(type) {
	case string:
		return &model.UsabilityScript{Text: val}
	case []any:
		tasks := asSlice[model.UsabilityTask](v)
		if tasks == nil {
			tasks = []model.UsabilityTask{}
		}
		return &model.UsabilityScript{Tasks: tasks}
	default:
		return nil
	}
}

func normalizeStage5(raw map[string]any) *model.Stage5Analysis {
	return &model.Stage5Analysis{
		Personas:         asSlice[model.Persona](raw["personas"]),
		Messaging:        asObject[model.Messaging](raw["messaging"]),
		GTMPlan:          asMap(raw["gtmPlan"]),
		ReleaseNotes:     asObject[model.ReleaseNotes](raw["releaseNotes"]),
		StakeholderComms: asObject[model.StakeholderComms](raw["stakeholderComms"]),
		Metrics:          asObject[model.SuccessMetrics](raw["metrics"]),
		Assumptions:      asSlice[string](raw["assumptions"]),
		Raw:              serialize(raw),
	}
}

// normalizeStage1 fills every Stage 1 field, defaulting to empty values.
// Stage 1 is the one stage whose fields are never absent.
func normalizeStage1(raw map[string]any) *model.Stage1Analysis {
	s1 := &model.Stage1Analysis{
		ProductIdeas:        asSlice[string](raw["productIdeas"]),
		MarketSizing:        asMap(raw["marketSizing"]),
		CustomerSegments:    asSlice[string](raw["customerSegments"]),
		BusinessGoals:       asSlice[string](raw["businessGoals"]),
		Scenarios:           asSlice[string](raw["scenarios"]),
		CustomerNeeds:       asSlice[string](raw["customerNeeds"]),
		CompetitiveInsights: asString(raw["competitiveInsights"]),
	}
	if s1.ProductIdeas == nil {
		s1.ProductIdeas = []string{}
	}
	if s1.MarketSizing == nil {
		s1.MarketSizing = map[string]any{}
	}
	if s1.CustomerSegments == nil {
		s1.CustomerSegments = []string{}
	}
	if s1.BusinessGoals == nil {
		s1.BusinessGoals = []string{}
	}
	if s1.Scenarios == nil {
		s1.Scenarios = []string{}
	}
	if s1.CustomerNeeds == nil {
		s1.CustomerNeeds = []string{}
	}
	return s1
}
