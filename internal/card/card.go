// Package card extracts the compact JSON-in-comment wire format that a
// completed CBT exercise embeds in a single chat message.
package card

import (
	"encoding/json"
	"regexp"
	"strings"

	"mindscribe/internal/core"
	"mindscribe/internal/logger"
	"mindscribe/internal/normalize"
)

// Marker is the comment prefix carrying the card payload.
const Marker = "CBT_SUMMARY_CARD"

var cardRegex = regexp.MustCompile(`(?s)<!--\s*` + Marker + `:\s*(.*?)\s*-->`)

// Present reports whether a message body carries a card marker, without
// validating the payload. Cheap existence check for format routing.
func Present(content string) bool {
	return cardRegex.MatchString(content)
}

// Wire shapes of the card payload. Fields are decoded individually so one
// malformed field drops that field only, never the whole card.
type cardEmotion struct {
	Emotion string  `json:"emotion"`
	Rating  float64 `json:"rating"`
}

type cardThought struct {
	Thought string `json:"thought"`
}

type cardBelief struct {
	Belief      string  `json:"belief"`
	Credibility float64 `json:"credibility"`
}

type cardMode struct {
	Name      string  `json:"name"`
	Intensity float64 `json:"intensity"`
}

type cardResponse struct {
	Response string `json:"response"`
}

// Extract parses the card payload out of a message body. It returns nil when
// no card is present or the payload is not a JSON object; malformed cards are
// logged and treated as "not found" so callers fall back to markdown parsing.
func Extract(content string) *core.Assessment {
	match := cardRegex.FindStringSubmatch(content)
	if match == nil {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match[1]), &fields); err != nil {
		logger.Warn("malformed summary card payload, falling back to markdown", "error", err.Error())
		return nil
	}

	a := &core.Assessment{}

	if raw, ok := fields["situation"]; ok {
		var situation string
		if json.Unmarshal(raw, &situation) == nil && strings.TrimSpace(situation) != "" {
			date := "Unknown"
			if rawDate, ok := fields["date"]; ok {
				var d string
				if json.Unmarshal(rawDate, &d) == nil && strings.TrimSpace(d) != "" {
					date = strings.TrimSpace(d)
				}
			}
			description := strings.TrimSpace(situation)
			if description == "" {
				description = "No description"
			}
			a.Situation = &core.SituationRecord{Date: date, Description: description}
		}
	}

	if initial := emotionMap(fields["initialEmotions"]); len(initial) > 0 {
		states := &core.EmotionStates{Initial: initial}
		// A final set without an initial one has nothing to compare against.
		if final := emotionMap(fields["finalEmotions"]); len(final) > 0 {
			states.Final = final
		}
		a.Emotions = states
	}

	a.AutomaticThoughts = thoughtList(fields["automaticThoughts"])
	a.RationalThoughts = thoughtList(fields["rationalThoughts"])

	if raw, ok := fields["coreBelief"]; ok {
		var belief cardBelief
		if json.Unmarshal(raw, &belief) == nil {
			text := strings.TrimSpace(belief.Belief)
			if text == "" {
				text = "No belief"
			}
			a.CoreBelief = &core.CoreBeliefRecord{
				Belief:      text,
				Credibility: normalize.Clamp(int(belief.Credibility)),
			}
		}
	}

	if raw, ok := fields["schemaModes"]; ok {
		var modes []cardMode
		if json.Unmarshal(raw, &modes) == nil {
			for _, m := range modes {
				name := strings.TrimSpace(m.Name)
				if name == "" {
					continue
				}
				a.SchemaModes = append(a.SchemaModes, core.SchemaModeRecord{
					Name:        name,
					Intensity:   normalize.Clamp(int(m.Intensity)),
					Description: name,
				})
			}
		}
	}

	behaviors := stringList(fields["newBehaviors"])
	responses := responseList(fields["alternativeResponses"])
	if len(behaviors) > 0 || len(responses) > 0 {
		a.ActionPlan = &core.ActionPlanRecord{
			NewBehaviors:         behaviors,
			AlternativeResponses: responses,
		}
	}

	return a
}

func emotionMap(raw json.RawMessage) map[string]int {
	if raw == nil {
		return nil
	}
	var items []cardEmotion
	if json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make(map[string]int)
	for _, item := range items {
		name := strings.ToLower(strings.TrimSpace(item.Emotion))
		if name == "" {
			continue
		}
		out[name] = normalize.Clamp(int(item.Rating))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func thoughtList(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var items []cardThought
	if json.Unmarshal(raw, &items) != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		if t := strings.TrimSpace(item.Thought); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func stringList(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var items []string
	if json.Unmarshal(raw, &items) != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// responseList accepts both the object form [{"response": "..."}] and the
// plain string form; older exports emitted either.
func responseList(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var items []cardResponse
	if json.Unmarshal(raw, &items) == nil {
		var out []string
		for _, item := range items {
			if t := strings.TrimSpace(item.Response); t != "" {
				out = append(out, t)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return stringList(raw)
}
