package tier

import (
	"regexp"
	"strings"

	"mindscribe/internal/core"
	"mindscribe/internal/markdown"
)

// structureSignals are the independent cues computed before any tier rule
// fires.
type structureSignals struct {
	CBTSignature     float64 // 0-1 confidence that structured exercise data is present
	SchemaReflection bool
	SelfAssessment   bool // user provided quantified self-ratings in free text
	SchemaDepth      core.SchemaReflectionDepth
}

// contextSignals grade free text that carries no structured exercise data.
type contextSignals struct {
	Relevance        int // therapeutic relevance, 0-10
	Intensity        int // emotional intensity, 0-10
	StressIndicators int
	NeutralContext   bool
	BriefRequest     bool
	ValidContext     bool
	ExclusionReason  string
}

var (
	ratingRegex         = regexp.MustCompile(`\b\d{1,2}\s*/\s*10\b`)
	outOfTenRegex       = regexp.MustCompile(`(?i)\b\d{1,2}\s+out of\s+(?:ten|10)\b`)
	numberedQuoteRegex  = regexp.MustCompile(`(?m)^\s*\d+\.\s*"`)
	schemaModeRegex     = regexp.MustCompile(`(?i)\b(vulnerable child|angry child|detached protector|compliant surrenderer|punitive parent|demanding parent|healthy adult)\b`)
	schemaTermRegex     = regexp.MustCompile(`(?i)\bschema\s+(mode|reflection|therapy|pattern)s?\b`)
	greetingRegex       = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|good (morning|afternoon|evening)|thanks?|thank you)\b`)
	questionOnlyRegex   = regexp.MustCompile(`(?i)^(what|when|where|how|can|could|is|are|do|does)\b[^.!]*\?\s*$`)
)

// Keyword weight tables for the contextual signals. Counting and weighting
// only; no language model is involved anywhere in classification.
var relevanceKeywords = map[string]int{
	"feel": 1, "feeling": 1, "feelings": 1, "emotion": 2, "emotions": 2,
	"anxious": 2, "anxiety": 2, "depressed": 2, "depression": 2,
	"therapy": 2, "therapist": 2, "cbt": 2, "thought": 1, "thoughts": 1,
	"belief": 2, "cope": 2, "coping": 2, "stress": 1, "stressed": 1,
	"worried": 2, "worry": 2, "afraid": 2, "fear": 2, "sad": 1, "angry": 1,
	"ashamed": 2, "guilty": 2, "trigger": 2, "triggered": 2, "rumination": 2,
	"self-esteem": 2, "relationship": 1, "conflict": 1,
}

var intensityKeywords = map[string]int{
	"panic": 3, "terrified": 3, "hopeless": 3, "unbearable": 3,
	"devastated": 3, "breakdown": 3, "suicidal": 3, "desperate": 3,
	"overwhelmed": 2, "exhausted": 2, "furious": 2, "crying": 2,
	"can't cope": 2, "falling apart": 2, "terrible": 2, "awful": 2,
	"worried": 1, "anxious": 1, "stressed": 1, "upset": 1, "frustrated": 1,
	"nervous": 1, "tense": 1,
}

var stressIndicators = []string{
	"can't sleep", "cannot sleep", "no sleep", "deadline", "pressure",
	"overwhelmed", "burnout", "burned out", "panic", "racing thoughts",
	"heart racing", "too much", "breaking point", "exhausted",
}

var neutralMarkers = []string{
	"schedule", "reschedule", "appointment", "what time", "invoice",
	"billing", "cancel my", "how does this app", "settings", "password",
	"reminder", "notification",
}

// collectStructure computes the structured-data cues over the full user text.
func collectStructure(text string) structureSignals {
	lower := strings.ToLower(text)

	signature := 0.0
	if strings.Contains(text, markdown.HeaderMarker) || strings.Contains(lower, "cbt session") {
		signature += 0.4
	}
	if ratingRegex.MatchString(text) {
		signature += 0.3
	}
	if numberedQuoteRegex.MatchString(text) || strings.Contains(lower, "automatic thought") {
		signature += 0.3
	}
	if signature > 1.0 {
		signature = 1.0
	}

	modeHits := len(schemaModeRegex.FindAllString(text, -1))
	termHits := len(schemaTermRegex.FindAllString(text, -1))
	reflection := modeHits > 0 || termHits > 0

	depth := core.SchemaDepthNone
	switch hits := modeHits + termHits; {
	case hits >= 4:
		depth = core.SchemaDepthComprehensive
	case hits >= 2:
		depth = core.SchemaDepthModerate
	case hits == 1:
		depth = core.SchemaDepthMinimal
	}

	return structureSignals{
		CBTSignature:     signature,
		SchemaReflection: reflection,
		SelfAssessment:   ratingRegex.MatchString(text) || outOfTenRegex.MatchString(text),
		SchemaDepth:      depth,
	}
}

// collectContext computes the contextual-validation signals used when no
// strong structured cue fired.
func collectContext(text string) contextSignals {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	relevance := 0
	for keyword, weight := range relevanceKeywords {
		relevance += weight * strings.Count(lower, keyword)
	}
	if relevance > 10 {
		relevance = 10
	}

	intensity := 0
	for keyword, weight := range intensityKeywords {
		intensity += weight * strings.Count(lower, keyword)
	}
	if intensity > 10 {
		intensity = 10
	}

	stress := 0
	for _, indicator := range stressIndicators {
		if strings.Contains(lower, indicator) {
			stress++
		}
	}

	neutral := false
	for _, marker := range neutralMarkers {
		if strings.Contains(lower, marker) {
			neutral = true
			break
		}
	}

	brief := len(words) < 20 && len(text) < 120
	briefRequest := brief && (greetingRegex.MatchString(text) || questionOnlyRegex.MatchString(strings.TrimSpace(text)) || relevance == 0)

	valid := (relevance >= 3 || intensity >= 3) && !(neutral && relevance < 2)

	exclusion := ""
	switch {
	case neutral && relevance < 2:
		exclusion = "organizational or administrative request"
	case briefRequest && relevance == 0 && intensity == 0:
		exclusion = "brief non-therapeutic exchange"
	}

	return contextSignals{
		Relevance:        relevance,
		Intensity:        intensity,
		StressIndicators: stress,
		NeutralContext:   neutral,
		BriefRequest:     briefRequest,
		ValidContext:     valid,
		ExclusionReason:  exclusion,
	}
}
