package card

import (
	"testing"
)

func TestPresent(t *testing.T) {
	if !Present(`Here is your summary <!-- CBT_SUMMARY_CARD:{"situation":"x"} --> done`) {
		t.Error("Expected marker to be detected")
	}
	if Present("We talked about anxiety today.") {
		t.Error("Expected plain prose to have no card")
	}
	if Present("") {
		t.Error("Expected empty content to have no card")
	}
}

func TestExtractSituation(t *testing.T) {
	content := `<!-- CBT_SUMMARY_CARD:{"situation":"Feeling overwhelmed at work","date":"2024-01-15"} -->`

	a := Extract(content)
	if a == nil {
		t.Fatal("Expected an assessment, got nil")
	}
	if a.Situation == nil {
		t.Fatal("Expected situation record, got nil")
	}
	if a.Situation.Description != "Feeling overwhelmed at work" {
		t.Errorf("Unexpected description: %q", a.Situation.Description)
	}
	if a.Situation.Date != "2024-01-15" {
		t.Errorf("Unexpected date: %q", a.Situation.Date)
	}
}

func TestExtractSituationDefaultsDate(t *testing.T) {
	a := Extract(`<!-- CBT_SUMMARY_CARD:{"situation":"Argument with my sister"} -->`)
	if a == nil || a.Situation == nil {
		t.Fatal("Expected situation record")
	}
	if a.Situation.Date != "Unknown" {
		t.Errorf("Expected default date, got %q", a.Situation.Date)
	}
}

func TestExtractEmotions(t *testing.T) {
	content := `<!-- CBT_SUMMARY_CARD:{
		"initialEmotions":[{"emotion":"Anxiety","rating":8},{"emotion":"fear","rating":15}],
		"finalEmotions":[{"emotion":"anxiety","rating":3}]
	} -->`

	a := Extract(content)
	if a == nil || a.Emotions == nil {
		t.Fatal("Expected emotion states")
	}
	if got := a.Emotions.Initial["anxiety"]; got != 8 {
		t.Errorf("Expected initial anxiety 8, got %d", got)
	}
	if got := a.Emotions.Initial["fear"]; got != 10 {
		t.Errorf("Expected out-of-range rating clamped to 10, got %d", got)
	}
	if got := a.Emotions.Final["anxiety"]; got != 3 {
		t.Errorf("Expected final anxiety 3, got %d", got)
	}
}

func TestExtractFinalEmotionsRequireInitial(t *testing.T) {
	a := Extract(`<!-- CBT_SUMMARY_CARD:{"finalEmotions":[{"emotion":"joy","rating":5}]} -->`)
	if a == nil {
		t.Fatal("Expected an assessment, got nil")
	}
	if a.Emotions != nil {
		t.Error("Final emotions without an initial set should be dropped")
	}
}

func TestExtractMalformedPayload(t *testing.T) {
	a := Extract(`<!-- CBT_SUMMARY_CARD:{invalid json} -->`)
	if a != nil {
		t.Error("Expected nil for unparseable payload")
	}
}

func TestExtractNonObjectPayload(t *testing.T) {
	a := Extract(`<!-- CBT_SUMMARY_CARD:[1,2,3] -->`)
	if a != nil {
		t.Error("Expected nil for a non-object payload")
	}
}

func TestExtractDropsOnlyBadField(t *testing.T) {
	content := `<!-- CBT_SUMMARY_CARD:{
		"situation":42,
		"initialEmotions":[{"emotion":"anger","rating":6}]
	} -->`

	a := Extract(content)
	if a == nil {
		t.Fatal("Expected an assessment despite the bad field")
	}
	if a.Situation != nil {
		t.Error("Non-string situation should be dropped")
	}
	if a.Emotions == nil || a.Emotions.Initial["anger"] != 6 {
		t.Error("Valid emotion field should survive a sibling decode failure")
	}
}

func TestExtractCoreBeliefDefaults(t *testing.T) {
	a := Extract(`<!-- CBT_SUMMARY_CARD:{"coreBelief":{}} -->`)
	if a == nil || a.CoreBelief == nil {
		t.Fatal("Expected core belief record")
	}
	if a.CoreBelief.Belief != "No belief" {
		t.Errorf("Expected placeholder belief, got %q", a.CoreBelief.Belief)
	}
	if a.CoreBelief.Credibility != 0 {
		t.Errorf("Expected credibility 0, got %d", a.CoreBelief.Credibility)
	}
}

func TestExtractSchemaModes(t *testing.T) {
	content := `<!-- CBT_SUMMARY_CARD:{"schemaModes":[
		{"name":"Vulnerable Child","intensity":7},
		{"name":"","intensity":3}
	]} -->`

	a := Extract(content)
	if a == nil {
		t.Fatal("Expected an assessment")
	}
	if len(a.SchemaModes) != 1 {
		t.Fatalf("Expected the unnamed mode skipped, got %d modes", len(a.SchemaModes))
	}
	mode := a.SchemaModes[0]
	if mode.Name != "Vulnerable Child" || mode.Intensity != 7 {
		t.Errorf("Unexpected mode %+v", mode)
	}
	if mode.Description != "Vulnerable Child" {
		t.Errorf("Expected description to default to name, got %q", mode.Description)
	}
}

func TestExtractActionPlanBothShapes(t *testing.T) {
	objectForm := `<!-- CBT_SUMMARY_CARD:{
		"newBehaviors":["Take a walk"],
		"alternativeResponses":[{"response":"Pause before replying"}]
	} -->`
	a := Extract(objectForm)
	if a == nil || a.ActionPlan == nil {
		t.Fatal("Expected action plan")
	}
	if len(a.ActionPlan.NewBehaviors) != 1 || a.ActionPlan.NewBehaviors[0] != "Take a walk" {
		t.Errorf("Unexpected behaviors %v", a.ActionPlan.NewBehaviors)
	}
	if len(a.ActionPlan.AlternativeResponses) != 1 || a.ActionPlan.AlternativeResponses[0] != "Pause before replying" {
		t.Errorf("Unexpected responses %v", a.ActionPlan.AlternativeResponses)
	}

	stringForm := `<!-- CBT_SUMMARY_CARD:{"alternativeResponses":["Count to ten"]} -->`
	a = Extract(stringForm)
	if a == nil || a.ActionPlan == nil {
		t.Fatal("Expected action plan from string form")
	}
	if len(a.ActionPlan.AlternativeResponses) != 1 || a.ActionPlan.AlternativeResponses[0] != "Count to ten" {
		t.Errorf("Unexpected responses %v", a.ActionPlan.AlternativeResponses)
	}
}

func TestExtractNoCard(t *testing.T) {
	if a := Extract("Just a normal chat message."); a != nil {
		t.Error("Expected nil when no card marker is present")
	}
}

func TestExtractMultilinePayload(t *testing.T) {
	content := "prefix text\n<!-- CBT_SUMMARY_CARD:\n{\"situation\":\"Late night rumination\",\n\"date\":\"2024-02-03\"}\n-->\nsuffix"
	a := Extract(content)
	if a == nil || a.Situation == nil {
		t.Fatal("Expected situation from multiline card")
	}
	if a.Situation.Description != "Late night rumination" {
		t.Errorf("Unexpected description: %q", a.Situation.Description)
	}
}
