package flow

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"docsmith/internal/catalog"
)

func filterCatalog() []*catalog.Question {
	return []*catalog.Question{
		{ID: "project.name", Stage: "basics", Kind: catalog.InputText, Tags: []string{catalog.FoundationTag}},
		{ID: "deployment.model", Stage: "basics", Kind: catalog.InputChoice, Tags: []string{catalog.FoundationTag, "architecture"}},
		{ID: "cloud.provider", Stage: "architecture", Kind: catalog.InputChoice, Tags: []string{"cloud"},
			SkipIf: catalog.Neq("deployment.model", "cloud")},
		{ID: "datacenter.location", Stage: "architecture", Kind: catalog.InputText, Tags: []string{"operations"},
			SkipIf: catalog.Neq("deployment.model", "on-premise")},
		{ID: "security.encryption", Stage: "security", Kind: catalog.InputBool, Tags: []string{"security"}},
		{ID: "privacy.measures", Stage: "security", Kind: catalog.InputMulti, Tags: []string{"security", "privacy"},
			SkipIf: catalog.Not(catalog.Eq("privacy.pii", true))},
	}
}

func TestFilterByTags_EmptySelectionPassesAll(t *testing.T) {
	questions := filterCatalog()
	answers := AnswerMap{"deployment.model": "cloud", "privacy.pii": true}

	got := questionIDs(FilterByTags(questions, nil, answers))
	// Everything except the skip-evaluated datacenter question.
	want := []string{"project.name", "deployment.model", "cloud.provider", "security.encryption", "privacy.measures"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("empty selection mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(got, questionIDs(FilterByTags(questions, []string{}, answers))); diff != "" {
		t.Fatalf("nil and empty selections disagree:\n%s", diff)
	}
}

func TestFilterByTags_FoundationAlwaysSurvives(t *testing.T) {
	questions := filterCatalog()
	for _, tags := range [][]string{{"security"}, {"cloud"}, {"no-such-tag"}} {
		got := FilterByTags(questions, tags, AnswerMap{})
		seen := map[string]bool{}
		for _, q := range got {
			seen[q.ID] = true
		}
		if !seen["project.name"] || !seen["deployment.model"] {
			t.Fatalf("tags %v dropped a foundation question: %v", tags, questionIDs(got))
		}
	}
}

func TestFilterByTags_UnionSemantics(t *testing.T) {
	questions := filterCatalog()
	answers := AnswerMap{"deployment.model": "on-premise", "privacy.pii": true}

	// A question matching any one selected tag is included.
	got := questionIDs(FilterByTags(questions, []string{"operations", "privacy"}, answers))
	want := []string{"project.name", "deployment.model", "datacenter.location", "privacy.measures"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("union semantics mismatch (-want +got):\n%s", diff)
	}
}

// Scenario: on-premise deployment with the operations focus area. The
// cloud-only question is skipped, the datacenter question stays.
func TestFilterByTags_OnPremiseScenario(t *testing.T) {
	questions := filterCatalog()
	answers := AnswerMap{"deployment.model": "on-premise"}

	got := FilterByTags(questions, []string{"operations", "cloud"}, answers)
	seen := map[string]bool{}
	for _, q := range got {
		seen[q.ID] = true
	}
	if seen["cloud.provider"] {
		t.Fatal("cloud.provider must be skipped for on-premise deployments")
	}
	if !seen["datacenter.location"] {
		t.Fatal("datacenter.location must be present for on-premise deployments")
	}
}

// Scenario: the privacy follow-up appears only once PII handling is
// confirmed.
func TestFilterByTags_PrivacyFollowUp(t *testing.T) {
	questions := filterCatalog()

	with := FilterByTags(questions, []string{"security"}, AnswerMap{"privacy.pii": true})
	seen := map[string]bool{}
	for _, q := range with {
		seen[q.ID] = true
	}
	if !seen["privacy.measures"] {
		t.Fatal("privacy.measures must be present when privacy.pii is true")
	}

	without := FilterByTags(questions, []string{"security"}, AnswerMap{"privacy.pii": false})
	for _, q := range without {
		if q.ID == "privacy.measures" {
			t.Fatal("privacy.measures must be absent when privacy.pii is false")
		}
	}
}

func TestFilterByTags_PreservesOrder(t *testing.T) {
	questions := filterCatalog()
	got := FilterByTags(questions, nil, AnswerMap{"deployment.model": "cloud", "privacy.pii": true})
	last := -1
	pos := map[string]int{}
	for i, q := range questions {
		pos[q.ID] = i
	}
	for _, q := range got {
		if pos[q.ID] < last {
			t.Fatalf("order not preserved around %s", q.ID)
		}
		last = pos[q.ID]
	}
}

func TestFilterQuestions_StageAndKind(t *testing.T) {
	questions := filterCatalog()

	got := questionIDs(FilterQuestions(questions, FilterOptions{Stage: "security"}))
	// privacy.measures is skipped: its condition holds while privacy.pii
	// is unanswered (not(eq(absent,true)) is true).
	want := []string{"security.encryption"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stage filter mismatch (-want +got):\n%s", diff)
	}

	got = questionIDs(FilterQuestions(questions, FilterOptions{Kind: catalog.InputChoice, Answers: AnswerMap{"deployment.model": "cloud"}}))
	want = []string{"deployment.model", "cloud.provider"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kind filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterQuestions_LevelMembership(t *testing.T) {
	questions := filterCatalog()
	schema := &catalog.TagSchema{Fields: map[string]catalog.FieldMetadata{
		"security.encryption": {Levels: []catalog.ComplexityLevel{catalog.LevelStandard, catalog.LevelAdvanced}},
	}}
	answers := AnswerMap{"deployment.model": "cloud", "privacy.pii": true}

	got := questionIDs(FilterQuestions(questions, FilterOptions{
		CheckLevel: true, Level: catalog.LevelStandard, Schema: schema, Answers: answers,
	}))
	want := []string{"security.encryption"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("standard tier mismatch (-want +got):\n%s", diff)
	}

	// Questions without metadata belong only to the lowest tier.
	got = questionIDs(FilterQuestions(questions, FilterOptions{
		CheckLevel: true, Level: catalog.LevelMinimal, Schema: schema, Answers: answers,
	}))
	want = []string{"project.name", "deployment.model", "cloud.provider", "privacy.measures"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("base tier mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleForStage(t *testing.T) {
	questions := filterCatalog()
	answers := AnswerMap{"deployment.model": "cloud"}

	got := questionIDs(VisibleForStage(questions, "basics", answers))
	// deployment.model is already answered.
	want := []string{"project.name"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("basics stage mismatch (-want +got):\n%s", diff)
	}

	got = questionIDs(VisibleForStage(questions, "architecture", answers))
	want = []string{"cloud.provider"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("architecture stage mismatch (-want +got):\n%s", diff)
	}
}
