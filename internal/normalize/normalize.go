// Package normalize coerces loosely-typed upstream values into canonical
// record shapes. Every numeric scale value is clamped to [0,10] here, once,
// so no out-of-range intensity ever reaches a record field.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"mindscribe/internal/core"
)

// Clamp bounds a 0-10 scale value.
func Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}

// ClampConfidence bounds a 0-100 confidence value.
func ClampConfidence(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Intensity coerces an arbitrary decoded JSON value to a clamped 0-10
// intensity. Unrecognized shapes coerce to 0.
func Intensity(v any) int {
	switch n := v.(type) {
	case float64:
		return Clamp(int(n))
	case int:
		return Clamp(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return Clamp(int(f))
	case string:
		s := strings.TrimSpace(n)
		// Tolerate "7/10" style ratings.
		if idx := strings.Index(s, "/"); idx > 0 {
			s = strings.TrimSpace(s[:idx])
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return Clamp(int(f))
	default:
		return 0
	}
}

// fixedEmotions maps recognized emotion labels to their canonical key.
var fixedEmotions = map[string]string{
	"fear":    "fear",
	"anger":   "anger",
	"sadness": "sadness",
	"joy":     "joy",
	"anxiety": "anxiety",
	"shame":   "shame",
	"guilt":   "guilt",
}

// ApplyEmotion sets a single named emotion on the set, folding unknown names
// into the Other channel (last write wins). Used by line-oriented parsers
// that discover emotions one at a time in document order.
func ApplyEmotion(set *core.EmotionSet, name string, intensity int) {
	intensity = Clamp(intensity)
	key := strings.ToLower(strings.TrimSpace(name))
	switch fixedEmotions[key] {
	case "fear":
		set.Fear = intensity
	case "anger":
		set.Anger = intensity
	case "sadness":
		set.Sadness = intensity
	case "joy":
		set.Joy = intensity
	case "anxiety":
		set.Anxiety = intensity
	case "shame":
		set.Shame = intensity
	case "guilt":
		set.Guilt = intensity
	default:
		if key != "" {
			set.Other = strings.TrimSpace(name)
			set.OtherIntensity = intensity
		}
	}
}

// Comparison builds an emotion shift record, preserving the invariant that
// Direction follows the sign of final-initial and Change is its absolute
// value. Equal values report as decreased with zero change.
func Comparison(emotion string, initial, final int) core.EmotionComparisonRecord {
	initial = Clamp(initial)
	final = Clamp(final)
	direction := core.DirectionDecreased
	if final > initial {
		direction = core.DirectionIncreased
	}
	change := final - initial
	if change < 0 {
		change = -change
	}
	return core.EmotionComparisonRecord{
		Emotion:   emotion,
		Initial:   initial,
		Final:     final,
		Direction: direction,
		Change:    change,
	}
}

// CanonicalModeNames is the fixed vocabulary of schema-therapy modes used to
// seed an "all unselected" set before extraction.
var CanonicalModeNames = []string{
	"Vulnerable Child",
	"Angry Child",
	"Detached Protector",
	"Compliant Surrenderer",
	"Punitive Parent",
	"Demanding Parent",
	"Healthy Adult",
}

// DefaultSchemaModes returns a fresh unselected mode set. Callers receive
// their own copy; the canonical table is never shared mutable state.
func DefaultSchemaModes() []core.SchemaModeRecord {
	modes := make([]core.SchemaModeRecord, 0, len(CanonicalModeNames))
	for _, name := range CanonicalModeNames {
		modes = append(modes, core.SchemaModeRecord{Name: name, Intensity: 0, Description: name})
	}
	return modes
}
