package types

import "testing"

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  string
	}{
		{"zero", 0, CategoryPoor},
		{"just below poor boundary", 29, CategoryPoor},
		{"lower moderate boundary", 30, CategoryModerate},
		{"mid moderate", 55, CategoryModerate},
		{"upper moderate boundary", 70, CategoryModerate},
		{"just above moderate", 71, CategoryStrong},
		{"perfect", 100, CategoryStrong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchCategory(tt.score); got != tt.want {
				t.Errorf("MatchCategory(%d) = %q, want %q", tt.score, got, tt.want)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"negative", -5, 0},
		{"zero", 0, 0},
		{"in range", 42, 42},
		{"max", 100, 100},
		{"over max", 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampScore(tt.score); got != tt.want {
				t.Errorf("ClampScore(%d) = %d, want %d", tt.score, got, tt.want)
			}
		})
	}
}

func TestGapTiers(t *testing.T) {
	tiers := GapTiers()
	want := []string{GapCritical, GapImportant, GapNiceToHave}
	if len(tiers) != len(want) {
		t.Fatalf("GapTiers() returned %d tiers, want %d", len(tiers), len(want))
	}
	for i, tier := range tiers {
		if tier != want[i] {
			t.Errorf("GapTiers()[%d] = %q, want %q", i, tier, want[i])
		}
	}
}
