// Package extract routes a chat transcript to the right wire-format parser
// and aggregates partial markdown sections into one assessment.
package extract

import (
	"strings"

	"github.com/google/uuid"

	"mindscribe/internal/card"
	"mindscribe/internal/core"
	"mindscribe/internal/logger"
	"mindscribe/internal/markdown"
)

// Provenance records which section types were found and the index of the
// message that supplied each one.
type Provenance struct {
	Source   string                       `json:"source"` // "card" or "markdown"
	Sections map[markdown.SectionType]int `json:"sections,omitempty"`
	CardAt   int                          `json:"card_at,omitempty"`
}

// HasCBTData reports whether either wire format is present anywhere in the
// transcript. Cheap existence check used to decide whether to run full
// extraction at all.
func HasCBTData(msgs []core.Message) bool {
	for _, msg := range msgs {
		if card.Present(msg.Content) || strings.Contains(msg.Content, markdown.HeaderMarker) {
			return true
		}
	}
	return false
}

// ParseAll extracts a structured assessment from a transcript. The card
// format, when present anywhere and well-formed, fully supersedes markdown
// parsing; otherwise markdown sections are accumulated across messages.
// The function is pure: re-running it on the same message list yields a
// structurally equal result.
func ParseAll(msgs []core.Message) *core.Assessment {
	a, _ := ParseAllWithProvenance(msgs)
	return a
}

// ParseAllWithProvenance is ParseAll plus a report of where each section
// came from.
func ParseAllWithProvenance(msgs []core.Message) (*core.Assessment, Provenance) {
	extractionID := uuid.NewString()

	// Card pass first: the first parseable card wins outright, even when
	// markdown sections also exist. Malformed cards fall through.
	for i, msg := range msgs {
		if !card.Present(msg.Content) {
			continue
		}
		if a := card.Extract(msg.Content); a != nil {
			logger.Debug("summary card extracted", "extraction_id", extractionID, "message_index", i)
			return a, Provenance{Source: "card", CardAt: i}
		}
	}

	a := &core.Assessment{}
	prov := Provenance{Source: "markdown", Sections: map[markdown.SectionType]int{}}
	emotionsSeen := 0

	// Both roles are scanned in original order: the exercise flow puts most
	// sections in assistant recaps, but users paste exports too.
	for i, msg := range msgs {
		for _, section := range markdown.ExtractSections(msg.Content) {
			if section.Type == markdown.SectionEmotions {
				var merged bool
				emotionsSeen, merged = mergeEmotions(a, section, emotionsSeen)
				if merged {
					prov.Sections[section.Type] = i
				}
				continue
			}
			if _, ok := prov.Sections[section.Type]; ok {
				continue // first extraction wins for every other section
			}
			if mergeSection(a, section) {
				prov.Sections[section.Type] = i
			}
		}
	}

	logger.Debug("markdown aggregation finished",
		"extraction_id", extractionID,
		"sections_found", len(prov.Sections),
		"messages", len(msgs))
	return a, prov
}

// mergeEmotions applies the legacy convention for the one piece of
// cross-message state the aggregator holds: the first successful emotion
// extraction is the initial set, the second (typically from the action-plan
// message) is the final set. Further occurrences are ignored, and the
// returned flag reports whether this section was actually taken.
func mergeEmotions(a *core.Assessment, section markdown.Section, seen int) (int, bool) {
	emotions, ok := section.Value.(map[string]int)
	if !ok || len(emotions) == 0 {
		return seen, false
	}
	switch seen {
	case 0:
		a.Emotions = &core.EmotionStates{Initial: emotions}
		return 1, true
	case 1:
		a.Emotions.Final = emotions
		return 2, true
	default:
		return seen, false
	}
}

func mergeSection(a *core.Assessment, section markdown.Section) bool {
	switch section.Type {
	case markdown.SectionSituation:
		if v, ok := section.Value.(*core.SituationRecord); ok {
			a.Situation = v
			return true
		}
	case markdown.SectionThoughts:
		if v, ok := section.Value.([]string); ok {
			a.AutomaticThoughts = v
			return true
		}
	case markdown.SectionCoreBelief:
		if v, ok := section.Value.(*core.CoreBeliefRecord); ok {
			a.CoreBelief = v
			return true
		}
	case markdown.SectionChallenge:
		if v, ok := section.Value.([]core.ChallengeQuestionRecord); ok {
			a.ChallengeQuestions = v
			return true
		}
	case markdown.SectionRational:
		if v, ok := section.Value.([]string); ok {
			a.RationalThoughts = v
			return true
		}
	case markdown.SectionModes:
		if v, ok := section.Value.([]core.SchemaModeRecord); ok {
			a.SchemaModes = v
			return true
		}
	case markdown.SectionActionPlan:
		if v, ok := section.Value.(*core.ActionPlanRecord); ok {
			a.ActionPlan = v
			return true
		}
	case markdown.SectionComparison:
		if v, ok := section.Value.([]core.EmotionComparisonRecord); ok {
			a.EmotionComparison = v
			return true
		}
	}
	return false
}
