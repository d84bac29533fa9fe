package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumatch/internal/types"
)

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		Score:          78,
		MatchCategory:  types.CategoryStrong,
		MatchingSkills: []string{"Go", "PostgreSQL"},
		MissingSkills:  []string{"Docker"},
		SkillGaps: map[string][]string{
			types.GapCritical:   {"Docker"},
			types.GapImportant:  {},
			types.GapNiceToHave: {},
		},
		Suggestions:     []string{"Add Docker projects", "Quantify your impact", "Lead with backend roles"},
		ProcessingTime:  1.42,
		AnalysisSummary: "Strong backend candidate",
	}
}

func samplePosting() *types.JobPosting {
	return &types.JobPosting{
		RawText:             "raw",
		Title:               "Senior Backend Engineer",
		Requirements:        []string{"5+ years of Go experience"},
		TechnicalSkills:     []string{"Go", "PostgreSQL"},
		SoftSkills:          []string{"Communication"},
		ExperienceLevel:     "5+ years",
		KeyResponsibilities: []string{"Own backend services"},
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded types.AnalysisResult
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Score != 78 || decoded.MatchCategory != types.CategoryStrong {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestAnalysisTextFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"Score: 78/100 (Strong Match)",
		"=== MATCHING SKILLS ===",
		"- Go",
		"Critical:",
		"- Docker",
		"1. Add Docker projects",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("text output missing %q:\n%s", want, output)
		}
	}
}

func TestAnalysisMarkdownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"# Compatibility Analysis",
		"**Score:** 78/100 (Strong Match)",
		"### Critical",
		"## Suggestions",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("markdown output missing %q:\n%s", want, output)
		}
	}
	// Empty tiers are omitted from the report
	if strings.Contains(output, "### Important") {
		t.Errorf("empty gap tier rendered:\n%s", output)
	}
}

func TestJobPostingFormats(t *testing.T) {
	registry := NewFormatterRegistry()

	text, err := registry.Format(samplePosting(), "text")
	if err != nil {
		t.Fatalf("text format failed: %v", err)
	}
	if !strings.Contains(text, "Title: Senior Backend Engineer") {
		t.Errorf("text output missing title:\n%s", text)
	}

	markdown, err := registry.Format(samplePosting(), "markdown")
	if err != nil {
		t.Fatalf("markdown format failed: %v", err)
	}
	if !strings.Contains(markdown, "# Senior Backend Engineer") {
		t.Errorf("markdown output missing title:\n%s", markdown)
	}
}

func TestUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGenericFallback(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(map[string]string{"status": "ok"}, "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, `"status": "ok"`) {
		t.Errorf("generic JSON output = %s", output)
	}
}
