package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"mindscribe/internal/core"
	"mindscribe/internal/logger"
	"mindscribe/internal/normalize"
)

// Diary export section headers. The diary variant is a single document with
// ##-level headers rather than one session spread over several messages.
const (
	diarySituation     = "Situation"
	diaryEmotionsBefor = "Emotions (before)"
	diaryEmotionsAfter = "Emotions (after)"
	diaryThoughts      = "Automatic Thoughts"
	diaryRational      = "Rational Thoughts"
	diaryBelief        = "Core Belief and Behavioral Pattern"
	diaryModes         = "Schema Modes"
	diaryReflection    = "Schema Reflection"
	diaryChallenge     = "Challenge Questions"
	diaryAdditional    = "Additional Questions"
	diaryBehaviors     = "New Behaviors"
)

var (
	diaryDateRegex       = regexp.MustCompile(`(?m)^\s*(?:📅\s*)?\*\*Date\*\*:?\s*(.+)$`)
	diaryEmotionRegex    = regexp.MustCompile(`(?m)^\s*[-•\*]\s*([^:\n]+?):\s*(\d+)\s*/\s*10`)
	diaryQuoteRegex      = regexp.MustCompile(`(?m)^\s*\d+\.\s*"([^"]+)"`)
	diaryCredRegex       = regexp.MustCompile(`(?i)"[^"]+"[^\n]*?credibility:\s*(\d+)\s*/\s*10`)
	diaryConfRegex       = regexp.MustCompile(`(?i)"[^"]+"[^\n]*?confidence:\s*(\d+)\s*/\s*10`)
	diaryBeliefRegex     = regexp.MustCompile(`(?mi)^\s*(?:\*\*)?Belief(?:\*\*)?:\s*"?([^"\n]+?)"?\s*$`)
	diaryBeliefCredRegex = regexp.MustCompile(`(?mi)^\s*(?:\*\*)?Credibility(?:\*\*)?:\s*(\d+)\s*/\s*10`)
	diaryPatternRegex    = regexp.MustCompile(`(?mi)^\s*(?:\*\*)?Pattern(?:\*\*)?:\s*(.+)$`)
	diaryCheckboxRegex   = regexp.MustCompile(`(?m)^\s*[-\*]\s*\[([ xX])\]\s*([^(\n:]+?)(?:\s*\((\d+)\s*/\s*10\))?(?:\s*:\s*(.+))?\s*$`)
	diaryTableRowRegex   = regexp.MustCompile(`(?m)^\s*\|([^|\n]+)\|([^|\n]+)\|\s*$`)
	diaryOriginalRegex   = regexp.MustCompile(`(?i)credibility of (?:the )?original thought:?\s*\**\s*(\d+)\s*/\s*10`)
	diaryHeaderRegex     = regexp.MustCompile(`(?m)^##\s`)
	diaryDividerRegex    = regexp.MustCompile(`(?m)^---\s*$`)
)

// ParseDiary reconstructs a complete, fully-defaulted CBT form from a diary
// export document. Every sub-extractor defaults to an empty/zero value on a
// miss; a single missing section never aborts extraction of the rest. The
// canonical mode list is passed in explicitly so the parser carries no
// implicit module state.
func ParseDiary(doc string, modes []core.SchemaModeRecord) (data *core.ParsedCBTData) {
	data = &core.ParsedCBTData{
		MissingFields: []string{},
		ParsingErrors: []string{},
	}

	// The form must survive any malformed input; a panic in a sub-extractor
	// is reported through ParsingErrors with the partial result kept.
	defer func() {
		if r := recover(); r != nil {
			data.ParsingErrors = append(data.ParsingErrors, fmt.Sprintf("diary parsing failed: %v", r))
			logger.Error("diary parsing recovered", nil, "panic", fmt.Sprint(r))
		}
		validateForm(data)
	}()

	form := &data.Form

	if m := diaryDateRegex.FindStringSubmatch(doc); m != nil {
		form.Date = strings.TrimSpace(m[1])
	}

	form.Situation = strings.TrimSpace(diarySectionBody(doc, diarySituation))
	form.InitialEmotions = diaryEmotionSet(diarySectionBody(doc, diaryEmotionsBefor))
	form.FinalEmotions = diaryEmotionSet(diarySectionBody(doc, diaryEmotionsAfter))

	for _, quoted := range diaryQuotedItems(diarySectionBody(doc, diaryThoughts), diaryCredRegex) {
		form.AutomaticThoughts = append(form.AutomaticThoughts, core.ThoughtRecord{
			Thought:     quoted.text,
			Credibility: quoted.rating,
		})
	}
	for _, quoted := range diaryQuotedItems(diarySectionBody(doc, diaryRational), diaryConfRegex) {
		form.RationalThoughts = append(form.RationalThoughts, core.RationalThoughtRecord{
			Thought:    quoted.text,
			Confidence: quoted.rating,
		})
	}

	beliefBody := diarySectionBody(doc, diaryBelief)
	if m := diaryBeliefRegex.FindStringSubmatch(beliefBody); m != nil {
		form.CoreBelief.Belief = strings.TrimSpace(m[1])
	}
	if m := diaryBeliefCredRegex.FindStringSubmatch(beliefBody); m != nil {
		form.CoreBelief.Credibility = normalize.Intensity(m[1])
	}
	if m := diaryPatternRegex.FindStringSubmatch(beliefBody); m != nil {
		form.BehavioralPattern = strings.TrimSpace(m[1])
	}

	form.SchemaModes = diarySchemaModes(diarySectionBody(doc, diaryModes), modes)

	// The free-text reflection only exists when its header marker is present;
	// surrounding prose must not be mistaken for schema work.
	if hasDiaryHeader(doc, diaryReflection) {
		form.SchemaReflection = strings.TrimSpace(diarySectionBody(doc, diaryReflection))
	}

	form.ChallengeQuestions = diaryQuestionTable(diarySectionBody(doc, diaryChallenge))
	form.AdditionalQuestions = diaryQuestionTable(diarySectionBody(doc, diaryAdditional))

	if m := diaryOriginalRegex.FindStringSubmatch(doc); m != nil {
		form.OriginalThoughtCredibility = normalize.Intensity(m[1])
	}

	form.NewBehaviors = strings.TrimSpace(diarySectionBody(doc, diaryBehaviors))

	return data
}

// validateForm fills the completeness verdict: a complete form has a
// non-empty situation and at least one non-zero emotion value, the "other"
// channel included.
func validateForm(data *core.ParsedCBTData) {
	if strings.TrimSpace(data.Form.Situation) == "" {
		data.MissingFields = append(data.MissingFields, "situation")
	}
	if !data.Form.InitialEmotions.HasSignal() && !data.Form.FinalEmotions.HasSignal() {
		data.MissingFields = append(data.MissingFields, "emotions")
	}
	data.IsComplete = len(data.MissingFields) == 0
}

func hasDiaryHeader(doc, header string) bool {
	return diaryHeaderPattern(header).MatchString(doc)
}

func diaryHeaderPattern(header string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^##\s*` + regexp.QuoteMeta(header) + `\s*$`)
}

// diarySectionBody returns the text between a ## header and the next header,
// divider or end of document; empty string when the header is absent.
func diarySectionBody(doc, header string) string {
	loc := diaryHeaderPattern(header).FindStringIndex(doc)
	if loc == nil {
		return ""
	}
	rest := doc[loc[1]:]
	end := len(rest)
	if next := diaryHeaderRegex.FindStringIndex(rest); next != nil && next[0] < end {
		end = next[0]
	}
	if div := diaryDividerRegex.FindStringIndex(rest); div != nil && div[0] < end {
		end = div[0]
	}
	return rest[:end]
}

func diaryEmotionSet(body string) core.EmotionSet {
	var set core.EmotionSet
	for _, m := range diaryEmotionRegex.FindAllStringSubmatch(body, -1) {
		normalize.ApplyEmotion(&set, strings.TrimSpace(m[1]), normalize.Intensity(m[2]))
	}
	return set
}

type quotedItem struct {
	text   string
	rating int
}

// diaryQuotedItems pulls numbered quoted entries with an optional trailing
// rating matched by ratingRegex against the entry's full line.
func diaryQuotedItems(body string, ratingRegex *regexp.Regexp) []quotedItem {
	var items []quotedItem
	for _, line := range strings.Split(body, "\n") {
		m := diaryQuoteRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := quotedItem{text: strings.TrimSpace(m[1])}
		if r := ratingRegex.FindStringSubmatch(line); r != nil {
			item.rating = normalize.Intensity(r[1])
		}
		items = append(items, item)
	}
	return items
}

// diarySchemaModes seeds the full unselected mode set from the provided
// canonical list, then applies checked entries on top. Unknown checked names
// are appended so user-added modes survive the round trip.
func diarySchemaModes(body string, seed []core.SchemaModeRecord) []core.SchemaModeRecord {
	modes := make([]core.SchemaModeRecord, len(seed))
	copy(modes, seed)

	for _, m := range diaryCheckboxRegex.FindAllStringSubmatch(body, -1) {
		checked := strings.TrimSpace(m[1]) != ""
		if !checked {
			continue
		}
		name := strings.TrimSpace(m[2])
		intensity := normalize.Intensity(m[3])
		description := strings.TrimSpace(m[4])
		if description == "" {
			description = name
		}

		applied := false
		for i := range modes {
			if strings.EqualFold(modes[i].Name, name) {
				modes[i].Intensity = intensity
				modes[i].Description = description
				applied = true
				break
			}
		}
		if !applied && name != "" {
			modes = append(modes, core.SchemaModeRecord{
				Name:        name,
				Intensity:   intensity,
				Description: description,
			})
		}
	}
	return modes
}

// diaryQuestionTable parses a two-column markdown table of question/answer
// rows, skipping the header and separator rows.
func diaryQuestionTable(body string) []core.ChallengeQuestionRecord {
	var questions []core.ChallengeQuestionRecord
	for _, m := range diaryTableRowRegex.FindAllStringSubmatch(body, -1) {
		question := strings.TrimSpace(m[1])
		answer := strings.TrimSpace(m[2])
		if question == "" || strings.HasPrefix(question, "---") || strings.Contains(question, "---") {
			continue
		}
		if strings.EqualFold(question, "question") && strings.EqualFold(answer, "answer") {
			continue
		}
		questions = append(questions, core.ChallengeQuestionRecord{Question: question, Answer: answer})
	}
	return questions
}
