package normalize

import (
	"testing"

	"mindscribe/internal/core"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-5, 0},
		{0, 0},
		{7, 7},
		{10, 10},
		{15, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.in); got != c.want {
			t.Errorf("Clamp(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestIntensityCoercion(t *testing.T) {
	if got := Intensity(float64(8.9)); got != 8 {
		t.Errorf("Expected 8 for float 8.9, got %d", got)
	}
	if got := Intensity(float64(22)); got != 10 {
		t.Errorf("Expected out-of-range float clamped to 10, got %d", got)
	}
	if got := Intensity("7/10"); got != 7 {
		t.Errorf("Expected 7 for rating string, got %d", got)
	}
	if got := Intensity("-3"); got != 0 {
		t.Errorf("Expected negative string clamped to 0, got %d", got)
	}
	if got := Intensity("not a number"); got != 0 {
		t.Errorf("Expected 0 for garbage input, got %d", got)
	}
	if got := Intensity(nil); got != 0 {
		t.Errorf("Expected 0 for nil input, got %d", got)
	}
}

func TestApplyEmotion(t *testing.T) {
	var set core.EmotionSet
	ApplyEmotion(&set, "Fear", 7)
	ApplyEmotion(&set, "anxiety", 9)

	if set.Fear != 7 {
		t.Errorf("Expected fear 7, got %d", set.Fear)
	}
	if set.Anxiety != 9 {
		t.Errorf("Expected anxiety 9, got %d", set.Anxiety)
	}
	if set.Other != "" {
		t.Errorf("Expected no other channel, got %q", set.Other)
	}
}

func TestApplyEmotionLastWriteWins(t *testing.T) {
	var set core.EmotionSet
	ApplyEmotion(&set, "loneliness", 4)
	ApplyEmotion(&set, "resentment", 9)

	if set.Other != "resentment" {
		t.Errorf("Expected last unknown emotion to win, got %q", set.Other)
	}
	if set.OtherIntensity != 9 {
		t.Errorf("Expected other intensity 9, got %d", set.OtherIntensity)
	}
}

func TestComparisonInvariant(t *testing.T) {
	cases := []struct {
		initial, final int
		direction      string
		change         int
	}{
		{8, 3, core.DirectionDecreased, 5},
		{2, 7, core.DirectionIncreased, 5},
		{4, 4, core.DirectionDecreased, 0},
	}
	for _, c := range cases {
		record := Comparison("anxiety", c.initial, c.final)
		if record.Direction != c.direction {
			t.Errorf("Comparison(%d, %d) direction = %s, want %s", c.initial, c.final, record.Direction, c.direction)
		}
		if record.Change != c.change {
			t.Errorf("Comparison(%d, %d) change = %d, want %d", c.initial, c.final, record.Change, c.change)
		}
	}
}

func TestComparisonClampsInputs(t *testing.T) {
	record := Comparison("fear", 15, -2)
	if record.Initial != 10 || record.Final != 0 {
		t.Errorf("Expected clamped bounds 10/0, got %d/%d", record.Initial, record.Final)
	}
	if record.Change != 10 {
		t.Errorf("Expected change 10, got %d", record.Change)
	}
}

func TestDefaultSchemaModes(t *testing.T) {
	modes := DefaultSchemaModes()
	if len(modes) != len(CanonicalModeNames) {
		t.Fatalf("Expected %d modes, got %d", len(CanonicalModeNames), len(modes))
	}
	for _, mode := range modes {
		if mode.Intensity != 0 {
			t.Errorf("Mode %s should start unselected, got intensity %d", mode.Name, mode.Intensity)
		}
	}

	// Callers must not share state with the canonical table.
	modes[0].Intensity = 9
	fresh := DefaultSchemaModes()
	if fresh[0].Intensity != 0 {
		t.Error("Mutating a returned mode set leaked into the canonical table")
	}
}
