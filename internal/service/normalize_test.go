package service

import (
	"encoding/json"
	"testing"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

func decodeRaw(t *testing.T, s string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return raw
}

func TestNormalizeStage3KeepsTypedFieldsDropsOthers(t *testing.T) {
	raw := decodeRaw(t, `{
		"feedbackThemes": [{"theme":"Speed","evidence":"synthetic","impact":"high","opportunity":"cache"}],
		"insights": "not an array",
		"risks": 42
	}`)

	got := normalizeStage3(raw)
	if len(got.FeedbackThemes) != 1 || got.FeedbackThemes[0].Theme != "Speed" {
		t.Errorf("feedbackThemes not kept: %+v", got.FeedbackThemes)
	}
	if got.Insights != nil {
		t.Errorf("string-valued insights must be absent, got %v", got.Insights)
	}
	if got.Risks != nil {
		t.Errorf("number-valued risks must be absent, got %v", got.Risks)
	}
	if got.Raw == "" {
		t.Errorf("raw serialization missing")
	}
}

func TestNormalizeRawIsExactSerialization(t *testing.T) {
	raw := decodeRaw(t, `{"epics":[{"name":"Core","description":"d"}],"unexpected":{"nested":true}}`)
	got := normalizeStage2(raw)

	var roundTrip map[string]any
	if err := json.Unmarshal([]byte(got.Raw), &roundTrip); err != nil {
		t.Fatalf("Raw is not valid JSON: %v", err)
	}
	want, _ := json.Marshal(raw)
	if got.Raw != string(want) {
		t.Errorf("Raw differs from serialized input:\n got %s\nwant %s", got.Raw, want)
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	hostile := decodeRaw(t, `{
		"epics": {"not":"array"},
		"userStories": [1, 2, 3],
		"mvpVsLater": "string",
		"feedbackThemes": null,
		"userFlow": [],
		"wireframes": [{"screenName": 5}],
		"usabilityTestScript": {"neither":"shape"},
		"personas": "nope",
		"messaging": 7,
		"metrics": []
	}`)

	s2 := normalizeStage2(hostile)
	s3 := normalizeStage3(hostile)
	s4 := normalizeStage4(hostile)
	s5 := normalizeStage5(hostile)
	for i, v := range []any{s2, s3, s4, s5} {
		if v == nil {
			t.Fatalf("normalizer %d returned nil", i+2)
		}
	}
	if s2.Epics != nil || s2.MVPVsLater != nil {
		t.Errorf("mistyped stage 2 fields should be absent")
	}
	if s4.UserFlow != nil || s4.UsabilityTestScript != nil {
		t.Errorf("mistyped stage 4 fields should be absent")
	}
	if s5.Personas != nil || s5.Messaging != nil {
		t.Errorf("mistyped stage 5 fields should be absent")
	}
}

func TestNormalizeUsabilityScriptShapes(t *testing.T) {
	text := normalizeUsabilityScript("Walk through checkout")
	if text == nil || !text.IsText() || text.Text != "Walk through checkout" {
		t.Errorf("string shape not preserved: %+v", text)
	}

	tasks := normalizeUsabilityScript([]any{
		map[string]any{"task": "Sign up", "script": "Open the app"},
	})
	if tasks == nil || tasks.IsText() {
		t.Fatalf("array shape not preserved: %+v", tasks)
	}
	if len(tasks.Tasks) != 1 || tasks.Tasks[0].Task != "Sign up" {
		t.Errorf("task content lost: %+v", tasks.Tasks)
	}

	if got := normalizeUsabilityScript(nil); got != nil {
		t.Errorf("missing script should stay absent, got %+v", got)
	}
	if got := normalizeUsabilityScript(map[string]any{}); got != nil {
		t.Errorf("object script should stay absent, got %+v", got)
	}
}

func TestUsabilityScriptJSONRoundTrip(t *testing.T) {
	for _, fixture := range []string{
		`"Walk through checkout"`,
		`[{"task":"Sign up","script":"Open the app"}]`,
	} {
		var script model.UsabilityScript
		if err := json.Unmarshal([]byte(fixture), &script); err != nil {
			t.Fatalf("unmarshal %s: %v", fixture, err)
		}
		out, err := json.Marshal(&script)
		if err != nil {
			t.Fatalf("marshal %s: %v", fixture, err)
		}
		if string(out) != fixture {
			t.Errorf("round trip changed shape: %s -> %s", fixture, out)
		}
	}
}

func TestNormalizeIsFixedPoint(t *testing.T) {
	raw := decodeRaw(t, `{
		"feedbackThemes": [{"theme":"A","evidence":"e","impact":"i","opportunity":"o"}],
		"trends": [{"trend":"t","implication":"i"}],
		"insights": ["one","two"],
		"assumptions": []
	}`)

	first := normalizeStage3(raw)
	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again := decodeRaw(t, string(data))
	// Raw differs on the second pass; compare the typed fields only.
	second := normalizeStage3(again)
	first.Raw, second.Raw = "", ""
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("normalize is not a fixed point:\n first %s\nsecond %s", a, b)
	}
}

func TestNormalizeStage1Defaults(t *testing.T) {
	got := normalizeStage1(map[string]any{})
	if got.ProductIdeas == nil || got.CustomerSegments == nil || got.BusinessGoals == nil ||
		got.Scenarios == nil || got.CustomerNeeds == nil || got.MarketSizing == nil {
		t.Errorf("stage 1 fields must never be nil: %+v", got)
	}
	if got.CompetitiveInsights != "" {
		t.Errorf("expected empty competitive insights, got %q", got.CompetitiveInsights)
	}

	filled := normalizeStage1(decodeRaw(t, `{"productIdeas":["a"],"competitiveInsights":"ci","marketSizing":{"tam":"large"}}`))
	if len(filled.ProductIdeas) != 1 || filled.CompetitiveInsights != "ci" {
		t.Errorf("typed stage 1 fields lost: %+v", filled)
	}
	if filled.MarketSizing["tam"] != "large" {
		t.Errorf("marketSizing lost: %+v", filled.MarketSizing)
	}
}
