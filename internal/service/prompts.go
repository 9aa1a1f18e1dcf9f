package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

// TruncationMarker is appended whenever a prompt input is cut at its ceiling.
const TruncationMarker = "\n...[truncated]"

const (
	docCeiling           = 25000
	stage1ContextCeiling = 8000
	stage1ContextShort   = 6000
	analysisDocCeiling   = 120000
)

// Truncate cuts s at max bytes, appending the truncation marker when it
// actually cut something. The cut backs up to a rune boundary so the result
// stays valid UTF-8.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + TruncationMarker
}

// StagePrompt builds the (system, user) prompt pair for stages 2-5. Each
// system prompt pins one persona and spells out what that stage must NOT
// produce, which keeps the JSON schema of each stage stable.
func StagePrompt(stage int, doc, stage1Context string, options *model.StageOptions) (system, user string) {
	switch stage {
	case 2:
		return stage2Prompt(doc, stage1Context, options)
	case 3:
		return stage3Prompt(doc, stage1Context, options)
	case 4:
		return stage4Prompt(doc, stage1Context, options)
	case 5:
		return stage5Prompt(doc, stage1Context, options)
	}
	return "", ""
}

func optionLines(pairs ...[2]string) string {
	var lines []string
	for _, p := range pairs {
		if p[1] != "" {
			lines = append(lines, p[0]+": "+p[1])
		}
	}
	return strings.Join(lines, "\n")
}

func userPrompt(header, doc, contextLabel, stage1Context string, contextCeiling int, opts, tasks string) string {
	var sb strings.Builder
	sb.WriteString("INPUT:\n")
	sb.WriteString(header)
	sb.WriteString(":\n")
	sb.WriteString(Truncate(doc, docCeiling))
	sb.WriteString("\n\n")
	sb.WriteString(contextLabel)
	sb.WriteString(":\n")
	sb.WriteString(Truncate(stage1Context, contextCeiling))
	sb.WriteString("\n")
	if opts != "" {
		sb.WriteString("\n")
		sb.WriteString(opts)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(tasks)
	return sb.String()
}

func stage2Prompt(doc, stage1Context string, options *model.StageOptions) (string, string) {
	system := `You are a Product Manager + Business Analyst. Do ONLY Requirements & Development: epics, user stories, acceptance criteria, backlog grooming. Do NOT do market research, personas, GTM, wireframes, or launch plans. Return ONLY valid JSON, no markdown fences.`

	var opts string
	if options != nil {
		opts = optionLines(
			[2]string{"Target platform", options.TargetPlatform},
			[2]string{"MVP timeline", options.Timeline},
			[2]string{"Constraints", options.Constraints},
		)
	}

	tasks := `TASKS: 1) Create 4-7 Epics (name + 1-2 line description). 2) Write 12-20 User Stories: "As a <user>, I want <capability>, so that <benefit>." 3) For EACH story write Acceptance Criteria in Gherkin (Given/When/Then), include at least 1 edge case. 4) Backlog: priority (P0/P1/P2), effort (S/M/L), dependencies, MVP slice vs Later.

Return JSON only with this structure:
{
  "epics": [{"name":"","description":""}],
  "userStories": [{"story":"As a...","epic":"Epic name","priority":"P0|P1|P2","effort":"S|M|L","dependencies":""}],
  "acceptanceCriteria": [{"storyRef":"story text or id","criteria":["Given... When... Then..."]}],
  "mvpVsLater": {"mvp":[""],"later":[""]},
  "assumptions": ["max 6"]
}`

	return system, userPrompt("Project Document (summary)", doc, "Prior stage (Strategy) context", stage1Context, stage1ContextCeiling, opts, tasks)
}

func stage3Prompt(doc, stage1Context string, options *model.StageOptions) (string, string) {
	system := `You are a Product Researcher. Do ONLY Customer & Market Research: synthesize feedback, competitors, industry trends into actionable insights. Do NOT create user stories, AC, wireframes, or GTM. Return ONLY valid JSON, no markdown fences.`

	var opts string
	if options != nil {
		opts = optionLines(
			[2]string{"Customer feedback", options.CustomerFeedback},
			[2]string{"Known competitors", options.Competitors},
		)
	}

	tasks := `TASKS: 1) Customer Feedback: generate 12-18 SYNTHETIC feedback snippets (label as synthetic), cluster into 4-6 themes. 2) Competitor scan: 6-10 competitors, compare on key capabilities. 3) Industry trends: 5-8 trends and implications. 4) Actionable: Top 5 Insights, Top 5 Opportunities, Top Risks, Next research steps (max 5).

Return JSON only:
{
  "feedbackThemes": [{"theme":"","evidence":"","impact":"","opportunity":""}],
  "competitorComparison": [{"competitor":"","strength":"","weakness":"","gapWeExploit":""}],
  "trends": [{"trend":"","implication":""}],
  "insights": [],
  "opportunities": [],
  "risks": [],
  "nextResearchSteps": [],
  "assumptions": []
}`

	return system, userPrompt("Project Document", doc, "Strategy context", stage1Context, stage1ContextShort, opts, tasks)
}

func stage4Prompt(doc, stage1Context string, options *model.StageOptions) (string, string) {
	system := `You are a Product Designer + UX Researcher. Do ONLY Prototyping & Testing: user flows, text wireframes, test cases, iteration from feedback. Do NOT do market research, backlog, or GTM. Return ONLY valid JSON, no markdown fences.`

	var opts string
	if options != nil {
		opts = optionLines(
			[2]string{"Target platform", options.TargetPlatform},
			[2]string{"Key flows", options.KeyFlows},
		)
	}

	tasks := `TASKS: 1) User Flow: entry points + step-by-step core journey. 2) Low-fi Wireframes in TEXT: for each screen give screenName, purpose, components list, microcopy (3-6 exact strings). 3) Testing: 5 usability tasks (script), 12-18 test cases with edge cases, success criteria. 4) Iteration: 6 synthetic user feedback notes and design changes you'd make.

Return JSON only:
{
  "userFlow": {"entryPoints":[],"steps":[],"description":""},
  "wireframes": [{"screenName":"","purpose":"","components":[],"microcopy":[]}],
  "usabilityTestScript": [{"task":"","script":""}],
  "testCases": [{"case":"","steps":"","expectedResult":"","priority":""}],
  "iteration": [{"feedback":"","change":""}],
  "assumptions": []
}`

	return system, userPrompt("Project Document", doc, "Strategy context", stage1Context, stage1ContextShort, opts, tasks)
}

func stage5Prompt(doc, stage1Context string, options *model.StageOptions) (string, string) {
	system := `You are a Product Marketing Manager + Product Lead. Do ONLY Go-to-Market: personas, messaging, GTM plan, release notes, stakeholder comms. Do NOT do research synthesis, user stories, or wireframes. Return ONLY valid JSON, no markdown fences.`

	var opts string
	if options != nil {
		opts = optionLines(
			[2]string{"Launch timing", options.LaunchTiming},
			[2]string{"Target regions/channels", options.TargetRegions},
		)
	}

	tasks := `TASKS: 1) Personas: Primary + Secondary; goals, pains, triggers, objections, key message. 2) Messaging: positioning statement, 3 benefits + 3 proof points, 5 taglines. 3) GTM Plan: launch goals, channels+tactics, rollout (beta, phased, GA), risks+mitigations. 4) Release notes: customer-facing (short), internal (support/compliance). 5) Stakeholder comms: one for execs, one for engineering/design, one for support. 6) Success metrics: Week 1 + Month 1.

Return JSON only:
{
  "personas": [{"type":"primary|secondary","name":"","goals":[],"pains":[],"triggers":[],"objections":[],"keyMessage":""}],
  "messaging": {"positioningStatement":"","benefits":[],"proofPoints":[],"taglines":[]},
  "gtmPlan": {"launchGoals":[],"channels":[],"rollout":"","risks":[]},
  "releaseNotes": {"customerFacing":"","internal":""},
  "stakeholderComms": {"execs":"","engineering":"","support":""},
  "metrics": {"week1":[],"month1":[]},
  "assumptions": []
}`

	return system, userPrompt("Project Document", doc, "Strategy context", stage1Context, stage1ContextShort, opts, tasks)
}

const analysisSystemPrompt = `You are a product management expert analyzing product documents for Stage 1: Product Strategy & Ideation.
Your task is to extract structured information and return ONLY valid JSON, no markdown code fences or extra text.`

func analysisUserPrompt(documentText string) string {
	return fmt.Sprintf(`Analyze the following product document and extract:
1. Project Title (concise, descriptive name for this product)
2. Product Strategy & Ideation Analysis including:
   - Key product ideas and concepts
   - Market sizing opportunities
   - Potential customer segments
   - Business goals alignment
   - Strategic scenarios and planning considerations
   - Customer needs identified
   - Competitive positioning insights

Document Content:
%s

Return response in JSON format only:
{
  "projectTitle": "...",
  "stage1Analysis": {
    "productIdeas": [],
    "marketSizing": {},
    "customerSegments": [],
    "businessGoals": [],
    "scenarios": [],
    "customerNeeds": [],
    "competitiveInsights": "..."
  },
  "rawDocument": "...",
  "summary": "..."
}`, documentText)
}

const brainstormSystemPrompt = `You are a product management expert. Reply with ONLY a JSON array of strings, no other text.`

func brainstormUserPrompt(stage int, projectContext, additionalContext string) string {
	if additionalContext != "" {
		return fmt.Sprintf("Stage %d context:\n%s\n\nAdditional focus:\n%s\n\nProvide 5-8 new actionable insights as a JSON array of strings.", stage, projectContext, additionalContext)
	}
	return fmt.Sprintf("Stage %d context:\n%s\n\nProvide 5-8 new actionable insights as a JSON array of strings.", stage, projectContext)
}

// BuildStage1Context condenses the Stage 1 fields into the newline digest
// passed to every later-stage prompt.
func BuildStage1Context(project *model.Project) string {
	var parts []string
	if project.Summary != "" {
		parts = append(parts, "Summary: "+project.Summary)
	}
	if s1 := project.Stage1Analysis; s1 != nil {
		parts = append(parts,
			"Product ideas: "+strings.Join(s1.ProductIdeas, "; "),
			"Customer segments: "+strings.Join(s1.CustomerSegments, "; "),
			"Business goals: "+strings.Join(s1.BusinessGoals, "; "),
			"Scenarios: "+strings.Join(s1.Scenarios, "; "),
			"Competitive insights: "+s1.CompetitiveInsights,
		)
	}
	if len(parts) == 0 {
		if project.Title != "" {
			return project.Title
		}
		return "No prior context"
	}
	return strings.Join(parts, "\n")
}
