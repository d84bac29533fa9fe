package match

import (
	"strings"
	"testing"

	"resumatch/internal/types"
)

func emptyGaps() map[string][]string {
	return map[string][]string{
		types.GapCritical:   {},
		types.GapImportant:  {},
		types.GapNiceToHave: {},
	}
}

func TestSynthesizeBounds(t *testing.T) {
	tests := []struct {
		name  string
		seed  []string
		gaps  map[string][]string
		score int
	}{
		{"no seed poor score", nil, emptyGaps(), 10},
		{"no seed moderate score", nil, emptyGaps(), 50},
		{"no seed strong score", nil, emptyGaps(), 90},
		{"single seed", []string{"Do a thing."}, emptyGaps(), 50},
		{"many seeds", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, emptyGaps(), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize(tt.seed, tt.gaps, tt.score)
			if len(got) < 3 || len(got) > 7 {
				t.Errorf("len = %d, want between 3 and 7", len(got))
			}
		})
	}
}

func TestSynthesizeKeepsSeedSuggestions(t *testing.T) {
	seed := []string{
		"Quantify your achievements with concrete numbers.",
		"Reorder your work history to lead with relevant roles.",
		"Proofread for consistent tense throughout.",
	}

	got := Synthesize(seed, emptyGaps(), 50)

	for i, want := range seed {
		if got[i] != want {
			t.Errorf("suggestion %d = %q, want seed preserved", i, got[i])
		}
	}
	if len(got) != 3 {
		t.Errorf("len = %d, a full seed needs no fallbacks", len(got))
	}
}

func TestSynthesizeFallbackUsesCriticalGaps(t *testing.T) {
	gaps := emptyGaps()
	gaps[types.GapCritical] = []string{"Kubernetes", "Terraform", "Helm", "ArgoCD"}

	got := Synthesize(nil, gaps, 50)

	found := false
	for _, s := range got {
		if strings.Contains(s, "Add critical skills to your resume: Kubernetes, Terraform, Helm.") {
			found = true
		}
		if strings.Contains(s, "ArgoCD") && strings.Contains(s, "Add critical skills") {
			t.Errorf("critical fallback should list at most three skills: %q", s)
		}
	}
	if !found {
		t.Errorf("no critical-gap fallback in %v", got)
	}
}

func TestSynthesizeFallbackUsesImportantGaps(t *testing.T) {
	gaps := emptyGaps()
	gaps[types.GapImportant] = []string{"GraphQL", "Redis", "Kafka"}

	got := Synthesize(nil, gaps, 50)

	found := false
	for _, s := range got {
		if strings.Contains(s, "Consider highlighting these important skills: GraphQL, Redis.") {
			found = true
		}
	}
	if !found {
		t.Errorf("no important-gap fallback in %v", got)
	}
}

func TestSynthesizeScoreBands(t *testing.T) {
	strong := strings.Join(Synthesize(nil, emptyGaps(), 85), " ")
	if !strings.Contains(strong, "already shows strong alignment") {
		t.Error("strong band missing optimization advice")
	}

	moderate := strings.Join(Synthesize(nil, emptyGaps(), 50), " ")
	if !strings.Contains(moderate, "action verbs") {
		t.Error("moderate band missing improvement advice")
	}

	poor := strings.Join(Synthesize(nil, emptyGaps(), 10), " ")
	if !strings.Contains(poor, "restructuring your resume") {
		t.Error("poor band missing restructuring advice")
	}
}

func TestSynthesizeEnrichment(t *testing.T) {
	gaps := emptyGaps()
	gaps[types.GapCritical] = []string{"Rust", "WebAssembly"}

	t.Run("generic skill advice gets specifics", func(t *testing.T) {
		got := Synthesize([]string{
			"Broaden your skill set.",
			"Keep formatting consistent.",
			"Check for typos.",
		}, gaps, 50)

		if !strings.Contains(got[0], "Focus particularly on: Rust, WebAssembly.") {
			t.Errorf("skill suggestion not enriched: %q", got[0])
		}
	})

	t.Run("skill advice naming a gap is left alone", func(t *testing.T) {
		got := Synthesize([]string{
			"Learn the Rust skill properly.",
			"Keep formatting consistent.",
			"Check for typos.",
		}, gaps, 50)

		if strings.Contains(got[0], "Focus particularly on") {
			t.Errorf("suggestion already naming a gap was enriched: %q", got[0])
		}
	})

	t.Run("experience advice gets phrasing examples", func(t *testing.T) {
		got := Synthesize([]string{
			"Expand your experience bullets.",
			"Keep formatting consistent.",
			"Check for typos.",
		}, emptyGaps(), 50)

		if !strings.Contains(got[0], "Led cross-functional teams") {
			t.Errorf("experience suggestion not enriched: %q", got[0])
		}
	})

	t.Run("summary advice gets section names", func(t *testing.T) {
		got := Synthesize([]string{
			"Rework your summary paragraph.",
			"Keep formatting consistent.",
			"Check for typos.",
		}, emptyGaps(), 50)

		if !strings.Contains(got[0], "Core Competencies") {
			t.Errorf("summary suggestion not enriched: %q", got[0])
		}
	})
}
