package core

// Message is a single chat transcript entry as delivered by the chat layer.
type Message struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // Raw message body
}

// Recognized message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// EmotionSet holds the fixed emotion scale plus an open-ended "other" channel.
// All intensities are on a 0-10 scale; construction goes through
// internal/normalize so values are always clamped.
type EmotionSet struct {
	Fear           int    `json:"fear"`
	Anger          int    `json:"anger"`
	Sadness        int    `json:"sadness"`
	Joy            int    `json:"joy"`
	Anxiety        int    `json:"anxiety"`
	Shame          int    `json:"shame"`
	Guilt          int    `json:"guilt"`
	Other          string `json:"other"`           // Label for an emotion outside the fixed set
	OtherIntensity int    `json:"other_intensity"` // Intensity for Other, 0-10
}

// HasSignal reports whether any channel, the "other" channel included,
// carries a non-zero intensity.
func (e EmotionSet) HasSignal() bool {
	if e.Fear > 0 || e.Anger > 0 || e.Sadness > 0 || e.Joy > 0 ||
		e.Anxiety > 0 || e.Shame > 0 || e.Guilt > 0 {
		return true
	}
	return e.Other != "" && e.OtherIntensity > 0
}

// SituationRecord describes the triggering situation of a CBT exercise.
// A valid record requires a non-empty Description.
type SituationRecord struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// ThoughtRecord is an initial/automatic thought with how believable it felt.
type ThoughtRecord struct {
	Thought     string `json:"thought"`
	Credibility int    `json:"credibility"` // 0-10
}

// RationalThoughtRecord is an alternative thought with how convincing it is.
// Structurally identical to ThoughtRecord but the field name is semantically
// distinct and must not be interchanged.
type RationalThoughtRecord struct {
	Thought    string `json:"thought"`
	Confidence int    `json:"confidence"` // 0-10
}

// CoreBeliefRecord is the underlying belief surfaced during the exercise.
type CoreBeliefRecord struct {
	Belief      string `json:"belief"`
	Credibility int    `json:"credibility"` // 0-10
}

// ChallengeQuestionRecord is one question/answer pair from the challenge
// step. Order is significant; records keep their numbered source order.
type ChallengeQuestionRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SchemaModeRecord describes an active schema-therapy mode.
type SchemaModeRecord struct {
	Name        string `json:"name"`
	Intensity   int    `json:"intensity"` // 0-10, 0 means unselected
	Description string `json:"description"`
}

// ActionPlanRecord captures the behavioral outcome of the exercise.
type ActionPlanRecord struct {
	NewBehaviors         []string `json:"new_behaviors"`
	AlternativeResponses []string `json:"alternative_responses,omitempty"`
}

// Direction values for emotion comparisons.
const (
	DirectionIncreased = "increased"
	DirectionDecreased = "decreased"
)

// EmotionComparisonRecord tracks how one emotion shifted over the session.
// Invariant: Direction matches the sign of Final-Initial and Change is its
// absolute value; build these through normalize.Comparison.
type EmotionComparisonRecord struct {
	Emotion   string `json:"emotion"`
	Initial   int    `json:"initial"`
	Final     int    `json:"final"`
	Direction string `json:"direction"`
	Change    int    `json:"change"`
}

// EmotionStates holds the flattened emotion maps used by the card and
// aggregation paths. Final is only ever attached alongside Initial.
type EmotionStates struct {
	Initial map[string]int `json:"initial"`
	Final   map[string]int `json:"final,omitempty"`
}

// Assessment is the optional-field composite produced by transcript
// extraction. A nil/absent field means "not found in the transcript",
// never "found empty".
type Assessment struct {
	Situation          *SituationRecord          `json:"situation,omitempty"`
	Emotions           *EmotionStates            `json:"emotions,omitempty"`
	AutomaticThoughts  []string                  `json:"automatic_thoughts,omitempty"`
	CoreBelief         *CoreBeliefRecord         `json:"core_belief,omitempty"`
	ChallengeQuestions []ChallengeQuestionRecord `json:"challenge_questions,omitempty"`
	RationalThoughts   []string                  `json:"rational_thoughts,omitempty"`
	SchemaModes        []SchemaModeRecord        `json:"schema_modes,omitempty"`
	ActionPlan         *ActionPlanRecord         `json:"action_plan,omitempty"`
	EmotionComparison  []EmotionComparisonRecord `json:"emotion_comparison,omitempty"`
}

// IsEmpty reports whether extraction found nothing at all.
func (a *Assessment) IsEmpty() bool {
	if a == nil {
		return true
	}
	return a.Situation == nil && a.Emotions == nil && a.AutomaticThoughts == nil &&
		a.CoreBelief == nil && a.ChallengeQuestions == nil && a.RationalThoughts == nil &&
		a.SchemaModes == nil && a.ActionPlan == nil && a.EmotionComparison == nil
}

// CBTForm is the fully-populated form shape reconstructed from a diary
// export. Unlike Assessment every field is present and defaulted; a missed
// section leaves its zero value in place.
type CBTForm struct {
	Date                       string                    `json:"date"`
	Situation                  string                    `json:"situation"`
	InitialEmotions            EmotionSet                `json:"initial_emotions"`
	FinalEmotions              EmotionSet                `json:"final_emotions"`
	AutomaticThoughts          []ThoughtRecord           `json:"automatic_thoughts"`
	RationalThoughts           []RationalThoughtRecord   `json:"rational_thoughts"`
	CoreBelief                 CoreBeliefRecord          `json:"core_belief"`
	BehavioralPattern          string                    `json:"behavioral_pattern"`
	SchemaModes                []SchemaModeRecord        `json:"schema_modes"`
	SchemaReflection           string                    `json:"schema_reflection"`
	ChallengeQuestions         []ChallengeQuestionRecord `json:"challenge_questions"`
	AdditionalQuestions        []ChallengeQuestionRecord `json:"additional_questions"`
	OriginalThoughtCredibility int                       `json:"original_thought_credibility"`
	NewBehaviors               string                    `json:"new_behaviors"`
}

// ParsedCBTData wraps a reconstructed form together with its completeness
// verdict. Parsing failures are reported here, never raised.
type ParsedCBTData struct {
	Form          CBTForm  `json:"form"`
	IsComplete    bool     `json:"is_complete"`
	MissingFields []string `json:"missing_fields"`
	ParsingErrors []string `json:"parsing_errors"`
}

// AssessmentFromForm maps the fully-defaulted form shape onto the partial
// assessment shape, attaching only fields the form actually carries. This is
// the documented bridge between the two result variants; there is no reverse
// mapping because the partial shape cannot distinguish defaulted from found.
func AssessmentFromForm(form CBTForm) *Assessment {
	a := &Assessment{}

	if form.Situation != "" {
		date := form.Date
		if date == "" {
			date = "Unknown"
		}
		a.Situation = &SituationRecord{Date: date, Description: form.Situation}
	}

	if form.InitialEmotions.HasSignal() {
		states := &EmotionStates{Initial: form.InitialEmotions.ToMap()}
		if form.FinalEmotions.HasSignal() {
			states.Final = form.FinalEmotions.ToMap()
		}
		a.Emotions = states
	}

	for _, t := range form.AutomaticThoughts {
		if t.Thought != "" {
			a.AutomaticThoughts = append(a.AutomaticThoughts, t.Thought)
		}
	}
	for _, t := range form.RationalThoughts {
		if t.Thought != "" {
			a.RationalThoughts = append(a.RationalThoughts, t.Thought)
		}
	}

	if form.CoreBelief.Belief != "" {
		belief := form.CoreBelief
		a.CoreBelief = &belief
	}

	if len(form.ChallengeQuestions) > 0 {
		a.ChallengeQuestions = append(a.ChallengeQuestions, form.ChallengeQuestions...)
	}
	if len(form.AdditionalQuestions) > 0 {
		a.ChallengeQuestions = append(a.ChallengeQuestions, form.AdditionalQuestions...)
	}

	for _, m := range form.SchemaModes {
		if m.Intensity > 0 {
			a.SchemaModes = append(a.SchemaModes, m)
		}
	}

	if form.NewBehaviors != "" {
		a.ActionPlan = &ActionPlanRecord{NewBehaviors: []string{form.NewBehaviors}}
	}

	return a
}

// ToMap flattens the fixed-key set into the emotion map used by the
// aggregation path, dropping zero-valued channels.
func (e EmotionSet) ToMap() map[string]int {
	out := make(map[string]int)
	put := func(name string, value int) {
		if value > 0 {
			out[name] = value
		}
	}
	put("fear", e.Fear)
	put("anger", e.Anger)
	put("sadness", e.Sadness)
	put("joy", e.Joy)
	put("anxiety", e.Anxiety)
	put("shame", e.Shame)
	put("guilt", e.Guilt)
	if e.Other != "" {
		put(e.Other, e.OtherIntensity)
	}
	return out
}

// Content tiers assigned by the classifier.
type ContentTier string

const (
	Tier1Premium  ContentTier = "tier1_premium"
	Tier2Standard ContentTier = "tier2_standard"
	Tier3Minimal  ContentTier = "tier3_minimal"
)

// SchemaReflectionDepth grades how deeply the user engaged with schema work.
type SchemaReflectionDepth string

const (
	SchemaDepthNone          SchemaReflectionDepth = "none"
	SchemaDepthMinimal       SchemaReflectionDepth = "minimal"
	SchemaDepthModerate      SchemaReflectionDepth = "moderate"
	SchemaDepthComprehensive SchemaReflectionDepth = "comprehensive"
)

// AnalysisRecommendation is the fixed per-tier policy handed to report
// generation. For tier3_minimal every deep-analysis flag is false; brief or
// casual content must never be pathologized.
type AnalysisRecommendation struct {
	Depth                       string `json:"depth"` // "full", "standard" or "minimal"
	AnalyzeCognitiveDistortions bool   `json:"analyze_cognitive_distortions"`
	AnalyzeSchemas              bool   `json:"analyze_schemas"`
	GenerateActionItems         bool   `json:"generate_action_items"`
	GenerateInsights            bool   `json:"generate_insights"`
	PrioritizeUserAssessments   bool   `json:"prioritize_user_assessments"`
}

// ContentTierAnalysis is the classifier verdict over a transcript's
// user-contributed text.
type ContentTierAnalysis struct {
	Tier                  ContentTier            `json:"tier"`
	Confidence            int                    `json:"confidence"` // 0-100
	Triggers              []string               `json:"triggers"`
	Recommendation        AnalysisRecommendation `json:"analysis_recommendation"`
	UserSelfAssessment    bool                   `json:"user_self_assessment_present"`
	SchemaReflectionDepth SchemaReflectionDepth  `json:"schema_reflection_depth"`
}
