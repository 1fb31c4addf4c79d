// Package markdown parses the legacy human-readable wire format: one CBT
// session spread over multiple chat messages, each headed by a bolded
// "**CBT Session - <Name>**" title, plus the single-document diary export.
package markdown

import (
	"regexp"
	"strings"

	"mindscribe/internal/core"
	"mindscribe/internal/normalize"
)

// SectionType identifies one of the nine recognized session sections.
type SectionType string

const (
	SectionSituation  SectionType = "situation"
	SectionEmotions   SectionType = "emotions"
	SectionThoughts   SectionType = "automatic_thoughts"
	SectionCoreBelief SectionType = "core_belief"
	SectionChallenge  SectionType = "challenge_questions"
	SectionRational   SectionType = "rational_thoughts"
	SectionModes      SectionType = "schema_modes"
	SectionActionPlan SectionType = "action_plan"
	SectionComparison SectionType = "emotion_comparison"
)

// Section is one extracted section. Value holds the section-specific record:
// *core.SituationRecord, map[string]int (emotions), []string (thoughts),
// *core.CoreBeliefRecord, []core.ChallengeQuestionRecord,
// []core.SchemaModeRecord, *core.ActionPlanRecord or
// []core.EmotionComparisonRecord.
type Section struct {
	Type  SectionType
	Value any
}

// HeaderMarker is the common prefix of every legacy section title; its
// presence anywhere in a message is the cheap existence signal for the
// legacy format.
const HeaderMarker = "**CBT Session - "

// sectionSpec is one entry of the section grammar: a header matcher plus a
// body parser. One generic routine walks the table instead of nine bespoke
// extractor functions.
type sectionSpec struct {
	Type   SectionType
	Header *regexp.Regexp
	Parse  func(body string) (any, bool)
}

var grammar = []sectionSpec{
	{SectionSituation, headerRegex("Situation Analysis"), parseSituation},
	{SectionEmotions, headerRegex("Emotion Assessment"), parseEmotions},
	{SectionThoughts, headerRegex("Automatic Thoughts"), parseThoughts},
	{SectionCoreBelief, headerRegex("Core Belief"), parseCoreBelief},
	{SectionChallenge, headerRegex("Challenge Questions"), parseChallenge},
	{SectionRational, headerRegex("Rational Thoughts"), parseRational},
	{SectionModes, headerRegex("Schema Modes"), parseModes},
	{SectionActionPlan, headerRegex("Action Plan"), parseActionPlan},
	{SectionComparison, headerRegex("Emotion Comparison"), parseComparison},
}

func headerRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`\*\*CBT Session\s*-\s*` + regexp.QuoteMeta(name) + `\*\*`)
}

// Line patterns shared across sections.
var (
	emotionLineRegex    = regexp.MustCompile(`(?m)^\s*[•\-\*]\s*\*\*([^*]+)\*\*:\s*(\d+)\s*/\s*10`)
	quotedItemRegex     = regexp.MustCompile(`(?m)^\s*\d+\.\s*"([^"]+)"`)
	modeLineRegex       = regexp.MustCompile(`(?m)^\s*[•\-\*]\s*\*\*([^*]+)\*\*\s*\((\d+)\s*/\s*10\)\s*:?\s*(.*)$`)
	questionPairRegex   = regexp.MustCompile(`(?m)^\s*\d+\.\s*\*\*Q\*\*:\s*(.+)\n\s*\*\*A\*\*:\s*(.+)$`)
	comparisonLineRegex = regexp.MustCompile(`(?m)^\s*[•\-\*]\s*\*\*([^*]+)\*\*:\s*(\d+)\s*(?:→|->)\s*(\d+)`)
	dateLineRegex       = regexp.MustCompile(`(?m)^\s*(?:📅\s*)?\*\*Date\*\*:\s*(.+)$`)
	descLineRegex       = regexp.MustCompile(`(?m)^\s*(?:📝\s*)?\*\*Description\*\*:\s*(.+)$`)
	beliefLineRegex     = regexp.MustCompile(`(?m)^\s*(?:💭\s*)?\*\*Belief\*\*:\s*"?([^"\n]+?)"?\s*$`)
	credLineRegex       = regexp.MustCompile(`(?m)^\s*\*\*Credibility\*\*:\s*(\d+)\s*/\s*10`)
	bulletLineRegex     = regexp.MustCompile(`(?m)^\s*[•\-\*]\s+(.+)$`)
	behaviorsLabelRegex = regexp.MustCompile(`(?m)^\s*(?:✅\s*)?\*\*New behaviors\*\*:?\s*$`)
	responsesLabelRegex = regexp.MustCompile(`(?m)^\s*(?:🔄\s*)?\*\*Alternative responses\*\*:?\s*$`)
)

// ExtractSections returns every known section found in a single message
// body, in grammar order. A message with no recognized headers yields an
// empty slice; absence here must not be confused with "user provided empty
// data" in a later message.
func ExtractSections(content string) []Section {
	var found []Section
	for _, spec := range grammar {
		loc := spec.Header.FindStringIndex(content)
		if loc == nil {
			continue
		}
		body := sectionBody(content[loc[1]:])
		if value, ok := spec.Parse(body); ok {
			found = append(found, Section{Type: spec.Type, Value: value})
		}
	}
	return found
}

// boundaryRegexes end a section body: the next session header, a ##-level
// header or a --- divider. A message can carry several sections (the
// action-plan message also holds the final emotion assessment), so each
// body must stop at the following session header.
var boundaryRegexes = []*regexp.Regexp{
	regexp.MustCompile(`\*\*CBT Session\s*-\s*`),
	regexp.MustCompile(`(?m)^##\s`),
	regexp.MustCompile(`(?m)^---\s*$`),
}

// sectionBody captures text up to the nearest boundary or end of string.
// Extractors tolerate extra surrounding prose in the message.
func sectionBody(rest string) string {
	end := len(rest)
	for _, boundary := range boundaryRegexes {
		if loc := boundary.FindStringIndex(rest); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	return rest[:end]
}

func parseSituation(body string) (any, bool) {
	record := &core.SituationRecord{Date: "Unknown"}
	if m := dateLineRegex.FindStringSubmatch(body); m != nil {
		record.Date = strings.TrimSpace(m[1])
	}
	if m := descLineRegex.FindStringSubmatch(body); m != nil {
		record.Description = strings.TrimSpace(m[1])
	}
	if record.Description == "" {
		// No labeled description; fall back to the free text of the section.
		text := strings.TrimSpace(dateLineRegex.ReplaceAllString(body, ""))
		if text == "" {
			return nil, false
		}
		record.Description = text
	}
	return record, true
}

func parseEmotions(body string) (any, bool) {
	matches := emotionLineRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, false
	}
	emotions := make(map[string]int, len(matches))
	for _, m := range matches {
		name := strings.ToLower(strings.TrimSpace(m[1]))
		emotions[name] = normalize.Intensity(m[2])
	}
	return emotions, true
}

func parseThoughts(body string) (any, bool) {
	matches := quotedItemRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, false
	}
	thoughts := make([]string, 0, len(matches))
	for _, m := range matches {
		thoughts = append(thoughts, strings.TrimSpace(m[1]))
	}
	return thoughts, true
}

// parseRational shares the numbered-quote layout with automatic thoughts but
// stays a distinct grammar entry so the two never merge by accident.
func parseRational(body string) (any, bool) {
	return parseThoughts(body)
}

func parseCoreBelief(body string) (any, bool) {
	m := beliefLineRegex.FindStringSubmatch(body)
	if m == nil {
		return nil, false
	}
	record := &core.CoreBeliefRecord{Belief: strings.TrimSpace(m[1])}
	if c := credLineRegex.FindStringSubmatch(body); c != nil {
		record.Credibility = normalize.Intensity(c[1])
	}
	return record, true
}

func parseChallenge(body string) (any, bool) {
	matches := questionPairRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, false
	}
	questions := make([]core.ChallengeQuestionRecord, 0, len(matches))
	for _, m := range matches {
		questions = append(questions, core.ChallengeQuestionRecord{
			Question: strings.TrimSpace(m[1]),
			Answer:   strings.TrimSpace(m[2]),
		})
	}
	return questions, true
}

func parseModes(body string) (any, bool) {
	matches := modeLineRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, false
	}
	modes := make([]core.SchemaModeRecord, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		description := strings.TrimSpace(m[3])
		if description == "" {
			description = name
		}
		modes = append(modes, core.SchemaModeRecord{
			Name:        name,
			Intensity:   normalize.Intensity(m[2]),
			Description: description,
		})
	}
	return modes, true
}

func parseActionPlan(body string) (any, bool) {
	behaviors := labeledBullets(body, behaviorsLabelRegex, responsesLabelRegex)
	responses := labeledBullets(body, responsesLabelRegex, behaviorsLabelRegex)
	if len(behaviors) == 0 && len(responses) == 0 {
		return nil, false
	}
	return &core.ActionPlanRecord{
		NewBehaviors:         behaviors,
		AlternativeResponses: responses,
	}, true
}

// labeledBullets collects the bullet lines that follow a label, stopping at
// the other label if it comes after this one.
func labeledBullets(body string, label, other *regexp.Regexp) []string {
	loc := label.FindStringIndex(body)
	if loc == nil {
		return nil
	}
	segment := body[loc[1]:]
	if otherLoc := other.FindStringIndex(segment); otherLoc != nil {
		segment = segment[:otherLoc[0]]
	}
	var items []string
	for _, m := range bulletLineRegex.FindAllStringSubmatch(segment, -1) {
		if item := strings.TrimSpace(m[1]); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseComparison(body string) (any, bool) {
	matches := comparisonLineRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, false
	}
	records := make([]core.EmotionComparisonRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, normalize.Comparison(
			strings.ToLower(strings.TrimSpace(m[1])),
			normalize.Intensity(m[2]),
			normalize.Intensity(m[3]),
		))
	}
	return records, true
}
