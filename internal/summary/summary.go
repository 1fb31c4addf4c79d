// Package summary renders extracted assessments into a human-readable digest
// and validates their completeness.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"mindscribe/internal/core"
)

// Generate builds a markdown digest of an extracted assessment: one bolded
// labeled line per present top-level field, double-spaced, in fixed order.
// Absent fields contribute no line; an empty assessment yields "".
func Generate(a *core.Assessment) string {
	if a.IsEmpty() {
		return ""
	}

	var lines []string

	if a.Situation != nil {
		lines = append(lines, fmt.Sprintf("**Situation:** %s (%s)", a.Situation.Description, a.Situation.Date))
	}

	if a.Emotions != nil && len(a.Emotions.Initial) > 0 {
		lines = append(lines, "**Initial emotions:** "+formatEmotions(a.Emotions.Initial))
	}

	if n := len(a.AutomaticThoughts); n > 0 {
		lines = append(lines, fmt.Sprintf("**Automatic thoughts:** %d recorded", n))
	}

	if a.CoreBelief != nil {
		lines = append(lines, fmt.Sprintf("**Core belief:** %s (credibility %d/10)", a.CoreBelief.Belief, a.CoreBelief.Credibility))
	}

	if n := len(a.SchemaModes); n > 0 {
		lines = append(lines, fmt.Sprintf("**Schema modes:** %d active", n))
	}

	if n := len(a.EmotionComparison); n > 0 {
		lines = append(lines, fmt.Sprintf("**Emotion shifts:** %d tracked", n))
	}

	return strings.Join(lines, "\n\n")
}

// formatEmotions renders an emotion map in sorted key order so the digest is
// stable across runs.
func formatEmotions(emotions map[string]int) string {
	names := make([]string, 0, len(emotions))
	for name := range emotions {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d/10", name, emotions[name]))
	}
	return strings.Join(parts, ", ")
}

// Validate reports the required fields missing from a partial assessment,
// mirroring the diary path's completeness check: a usable record needs a
// non-empty situation description and at least one non-zero emotion.
func Validate(a *core.Assessment) []string {
	missing := []string{}
	if a == nil {
		return []string{"situation", "emotions"}
	}
	if a.Situation == nil || strings.TrimSpace(a.Situation.Description) == "" {
		missing = append(missing, "situation")
	}
	if !hasEmotionSignal(a.Emotions) {
		missing = append(missing, "emotions")
	}
	return missing
}

func hasEmotionSignal(states *core.EmotionStates) bool {
	if states == nil {
		return false
	}
	for _, v := range states.Initial {
		if v > 0 {
			return true
		}
	}
	for _, v := range states.Final {
		if v > 0 {
			return true
		}
	}
	return false
}

// MeetsAnalysisThreshold reports whether content is worth a report pass at
// all: true unless the tier is minimal and its recommendation disables
// insight generation.
func MeetsAnalysisThreshold(analysis core.ContentTierAnalysis) bool {
	if analysis.Tier == core.Tier3Minimal && !analysis.Recommendation.GenerateInsights {
		return false
	}
	return true
}
