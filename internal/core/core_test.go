package core

import "testing"

func TestEmotionSetHasSignal(t *testing.T) {
	if (EmotionSet{}).HasSignal() {
		t.Error("Zero set should carry no signal")
	}
	if !(EmotionSet{Anxiety: 4}).HasSignal() {
		t.Error("Fixed channel value should carry signal")
	}
	if !(EmotionSet{Other: "loneliness", OtherIntensity: 3}).HasSignal() {
		t.Error("Other channel value should carry signal")
	}
	if (EmotionSet{Other: "loneliness"}).HasSignal() {
		t.Error("A labeled other channel with zero intensity is not a signal")
	}
}

func TestEmotionSetToMap(t *testing.T) {
	set := EmotionSet{Fear: 2, Anxiety: 7, Other: "loneliness", OtherIntensity: 5}
	m := set.ToMap()
	if len(m) != 3 {
		t.Fatalf("Expected 3 entries, got %v", m)
	}
	if m["anxiety"] != 7 || m["fear"] != 2 || m["loneliness"] != 5 {
		t.Errorf("Unexpected map %v", m)
	}
	if _, ok := m["joy"]; ok {
		t.Error("Zero-valued channels should be dropped")
	}
}

func TestAssessmentIsEmpty(t *testing.T) {
	var a *Assessment
	if !a.IsEmpty() {
		t.Error("Nil assessment should be empty")
	}
	if !(&Assessment{}).IsEmpty() {
		t.Error("Zero assessment should be empty")
	}
	if (&Assessment{AutomaticThoughts: []string{"x"}}).IsEmpty() {
		t.Error("Assessment with a field should not be empty")
	}
}

func TestAssessmentFromForm(t *testing.T) {
	form := CBTForm{
		Situation:       "Crowded train during rush hour",
		InitialEmotions: EmotionSet{Anxiety: 8},
		FinalEmotions:   EmotionSet{Anxiety: 3},
		AutomaticThoughts: []ThoughtRecord{
			{Thought: "I will lose control", Credibility: 7},
			{Thought: "", Credibility: 2},
		},
		CoreBelief: CoreBeliefRecord{Belief: "I am fragile", Credibility: 6},
		SchemaModes: []SchemaModeRecord{
			{Name: "Vulnerable Child", Intensity: 6, Description: "Vulnerable Child"},
			{Name: "Healthy Adult", Intensity: 0, Description: "Healthy Adult"},
		},
		ChallengeQuestions:  []ChallengeQuestionRecord{{Question: "q1", Answer: "a1"}},
		AdditionalQuestions: []ChallengeQuestionRecord{{Question: "q2", Answer: "a2"}},
		NewBehaviors:        "Practice breathing before boarding",
	}

	a := AssessmentFromForm(form)

	if a.Situation == nil || a.Situation.Description != "Crowded train during rush hour" {
		t.Fatalf("Unexpected situation %+v", a.Situation)
	}
	if a.Situation.Date != "Unknown" {
		t.Errorf("Missing date should default, got %q", a.Situation.Date)
	}
	if a.Emotions == nil || a.Emotions.Initial["anxiety"] != 8 || a.Emotions.Final["anxiety"] != 3 {
		t.Errorf("Unexpected emotions %+v", a.Emotions)
	}
	if len(a.AutomaticThoughts) != 1 {
		t.Errorf("Empty thoughts should be skipped, got %v", a.AutomaticThoughts)
	}
	if len(a.SchemaModes) != 1 || a.SchemaModes[0].Name != "Vulnerable Child" {
		t.Errorf("Unselected modes should be dropped, got %v", a.SchemaModes)
	}
	if len(a.ChallengeQuestions) != 2 {
		t.Errorf("Additional questions should be appended, got %v", a.ChallengeQuestions)
	}
	if a.ActionPlan == nil || len(a.ActionPlan.NewBehaviors) != 1 {
		t.Errorf("Unexpected action plan %+v", a.ActionPlan)
	}
}

func TestAssessmentFromFormEmpty(t *testing.T) {
	a := AssessmentFromForm(CBTForm{})
	if !a.IsEmpty() {
		t.Errorf("Empty form should map to empty assessment, got %+v", a)
	}
}

func TestAssessmentFromFormFinalRequiresInitial(t *testing.T) {
	a := AssessmentFromForm(CBTForm{FinalEmotions: EmotionSet{Joy: 5}})
	if a.Emotions != nil {
		t.Error("Final emotions without an initial set should not attach")
	}
}
