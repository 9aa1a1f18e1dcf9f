package model

import (
	"encoding/json"
	"time"
)

// Stage1Analysis is produced once at project creation from the uploaded
// document. Unlike the later stages its fields are always present, defaulting
// to empty values when the model omits them.
type Stage1Analysis struct {
	ProductIdeas        []string       `json:"productIdeas"`
	MarketSizing        map[string]any `json:"marketSizing"`
	CustomerSegments    []string       `json:"customerSegments"`
	BusinessGoals       []string       `json:"businessGoals"`
	Scenarios           []string       `json:"scenarios"`
	CustomerNeeds       []string       `json:"customerNeeds"`
	CompetitiveInsights string         `json:"competitiveInsights"`
}

// Stage 2: Requirements & Development

type Epic struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UserStory struct {
	Story        string `json:"story"`
	Epic         string `json:"epic"`
	Priority     string `json:"priority"`
	Effort       string `json:"effort"`
	Dependencies string `json:"dependencies,omitempty"`
}

type AcceptanceCriteria struct {
	StoryRef string   `json:"storyRef"`
	Criteria []string `json:"criteria"`
}

type MVPSplit struct {
	MVP   []string `json:"mvp"`
	Later []string `json:"later"`
}

type Stage2Analysis struct {
	Epics              []Epic               `json:"epics,omitempty"`
	UserStories        []UserStory          `json:"userStories,omitempty"`
	AcceptanceCriteria []AcceptanceCriteria `json:"acceptanceCriteria,omitempty"`
	MVPVsLater         *MVPSplit            `json:"mvpVsLater,omitempty"`
	Assumptions        []string             `json:"assumptions,omitempty"`
	Raw                string               `json:"raw,omitempty"`
}

// Stage 3: Customer & Market Research

type FeedbackTheme struct {
	Theme       string `json:"theme"`
	Evidence    string `json:"evidence"`
	Impact      string `json:"impact"`
	Opportunity string `json:"opportunity"`
}

type CompetitorEntry struct {
	Competitor   string `json:"competitor"`
	Strength     string `json:"strength"`
	Weakness     string `json:"weakness"`
	GapWeExploit string `json:"gapWeExploit"`
}

type Trend struct {
	Trend       string `json:"trend"`
	Implication string `json:"implication"`
}

type Stage3Analysis struct {
	FeedbackThemes       []FeedbackTheme   `json:"feedbackThemes,omitempty"`
	CompetitorComparison []CompetitorEntry `json:"competitorComparison,omitempty"`
	Trends               []Trend           `json:"trends,omitempty"`
	Insights             []string          `json:"insights,omitempty"`
	Opportunities        []string          `json:"opportunities,omitempty"`
	Risks                []string          `json:"risks,omitempty"`
	NextResearchSteps    []string          `json:"nextResearchSteps,omitempty"`
	Assumptions          []string          `json:"assumptions,omitempty"`
	Raw                  string            `json:"raw,omitempty"`
}

// Stage 4: Prototyping & Testing

type UserFlow struct {
	EntryPoints []string `json:"entryPoints,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	Description string   `json:"description,omitempty"`
}

type Wireframe struct {
	ScreenName string   `json:"screenName"`
	Purpose    string   `json:"purpose"`
	Components []string `json:"components"`
	Microcopy  []string `json:"microcopy"`
	ImagePaths []string `json:"imagePaths,omitempty"`
}

type UsabilityTask struct {
	Task   string `json:"task"`
	Script string `json:"script"`
}

// UsabilityScript is either free text or a structured task list; the model
// returns both shapes and whichever was given is preserved on the wire.
type UsabilityScript struct {
	Text  string
	Tasks []UsabilityTask
}

// IsText reports whether the script carries the plain-text shape.
func (s *UsabilityScript) IsText() bool {
	return s != nil && s.Tasks == nil
}

func (s UsabilityScript) MarshalJSON() ([]byte, error) {
	if s.Tasks != nil {
		return json.Marshal(s.Tasks)
	}
	return json.Marshal(s.Text)
}

func (s *UsabilityScript) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		s.Text = text
		s.Tasks = nil
		return nil
	}
	var tasks []UsabilityTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return err
	}
	s.Text = ""
	s.Tasks = tasks
	return nil
}

type TestCase struct {
	Case           string `json:"case"`
	Steps          string `json:"steps"`
	ExpectedResult string `json:"expectedResult"`
	Priority       string `json:"priority"`
}

type IterationNote struct {
	Feedback string `json:"feedback"`
	Change   string `json:"change"`
}

type Stage4Analysis struct {
	UserFlow            *UserFlow        `json:"userFlow,omitempty"`
	Wireframes          []Wireframe      `json:"wireframes,omitempty"`
	UsabilityTestScript *UsabilityScript `json:"usabilityTestScript,omitempty"`
	TestCases           []TestCase       `json:"testCases,omitempty"`
	Iteration           []IterationNote  `json:"iteration,omitempty"`
	Assumptions         []string         `json:"assumptions,omitempty"`
	Raw                 string           `json:"raw,omitempty"`
}

// Stage 5: Go-to-Market Execution

type Persona struct {
	Type       string   `json:"type"`
	Name       string   `json:"name,omitempty"`
	Goals      []string `json:"goals,omitempty"`
	Pains      []string `json:"pains,omitempty"`
	Triggers   []string `json:"triggers,omitempty"`
	Objections []string `json:"objections,omitempty"`
	KeyMessage string   `json:"keyMessage,omitempty"`
}

type Messaging struct {
	PositioningStatement string   `json:"positioningStatement,omitempty"`
	Benefits             []string `json:"benefits,omitempty"`
	ProofPoints          []string `json:"proofPoints,omitempty"`
	Taglines             []string `json:"taglines,omitempty"`
}

type ReleaseNotes struct {
	CustomerFacing string `json:"customerFacing,omitempty"`
	Internal       string `json:"internal,omitempty"`
}

type StakeholderComms struct {
	Execs       string `json:"execs,omitempty"`
	Engineering string `json:"engineering,omitempty"`
	Support     string `json:"support,omitempty"`
}

type SuccessMetrics struct {
	Week1  []string `json:"week1,omitempty"`
	Month1 []string `json:"month1,omitempty"`
}

type Stage5Analysis struct {
	Personas         []Persona         `json:"personas,omitempty"`
	Messaging        *Messaging        `json:"messaging,omitempty"`
	GTMPlan          map[string]any    `json:"gtmPlan,omitempty"`
	ReleaseNotes     *ReleaseNotes     `json:"releaseNotes,omitempty"`
	StakeholderComms *StakeholderComms `json:"stakeholderComms,omitempty"`
	Metrics          *SuccessMetrics   `json:"metrics,omitempty"`
	Assumptions      []string          `json:"assumptions,omitempty"`
	Raw              string            `json:"raw,omitempty"`
}

// MetricsCharts records generated chart filenames per stage.
type MetricsCharts struct {
	Stage1 []string `json:"stage1,omitempty"`
	Stage2 []string `json:"stage2,omitempty"`
	Stage3 []string `json:"stage3,omitempty"`
	Stage5 []string `json:"stage5,omitempty"`
}

// Project is the unit of work: one uploaded plan document plus up to five
// stage analyses. CurrentStage is the highest stage for which an analysis
// exists, never decreasing across stage generations.
type Project struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	CreatedAt      time.Time       `json:"createdAt"`
	CurrentStage   int             `json:"currentStage"`
	PDFPath        string          `json:"pdfPath,omitempty"`
	RawDocument    string          `json:"rawDocument,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	Stage1Analysis *Stage1Analysis `json:"stage1Analysis,omitempty"`
	Stage2Analysis *Stage2Analysis `json:"stage2Analysis,omitempty"`
	Stage3Analysis *Stage3Analysis `json:"stage3Analysis,omitempty"`
	Stage4Analysis *Stage4Analysis `json:"stage4Analysis,omitempty"`
	Stage5Analysis *Stage5Analysis `json:"stage5Analysis,omitempty"`
	MetricsCharts  *MetricsCharts  `json:"metricsCharts,omitempty"`
	Thumbnail      string          `json:"thumbnail,omitempty"`
}

// ProjectSummary is the list view of a project.
type ProjectSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	CurrentStage int       `json:"currentStage"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}

// AnalysisResult is what the Stage 1 document analysis returns before a
// Project is assembled around it.
type AnalysisResult struct {
	ProjectTitle   string          `json:"projectTitle"`
	Stage1Analysis *Stage1Analysis `json:"stage1Analysis"`
	RawDocument    string          `json:"rawDocument"`
	Summary        string          `json:"summary"`
}

// StageOptions are free-text hints biasing a single stage-generation call.
// They are consumed once and never persisted.
type StageOptions struct {
	TargetPlatform   string `json:"targetPlatform,omitempty"`
	Timeline         string `json:"timeline,omitempty"`
	Constraints      string `json:"constraints,omitempty"`
	CustomerFeedback string `json:"customerFeedback,omitempty"`
	Competitors      string `json:"competitors,omitempty"`
	KeyFlows         string `json:"keyFlows,omitempty"`
	LaunchTiming     string `json:"launchTiming,omitempty"`
	TargetRegions    string `json:"targetRegions,omitempty"`
}
