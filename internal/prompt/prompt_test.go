package prompt

import (
	"strings"
	"testing"
)

func TestBuildContainsInputs(t *testing.T) {
	resume := "Skills: Python, Docker, AWS. Built production services for years."
	job := "Requirements: Python, Docker, Kubernetes, AWS. Senior backend role."

	got := Build(resume, job)

	if !strings.Contains(got, "Python, Docker, AWS") {
		t.Error("prompt does not contain the resume text")
	}
	if !strings.Contains(got, "Kubernetes") {
		t.Error("prompt does not contain the job text")
	}
	if !strings.Contains(got, `"compatibility_score"`) {
		t.Error("prompt does not specify the response schema")
	}
	if !strings.Contains(got, `"Nice-to-have"`) {
		t.Error("prompt does not name the gap tiers")
	}
}

func TestBuildBoundedOutput(t *testing.T) {
	longResume := strings.Repeat("Did many impressive things at work. ", 500)
	longJob := strings.Repeat("Must have many skills and qualifications. ", 300)

	got := Build(longResume, longJob)

	// Template plus both truncated texts, with slack for the markers.
	limit := len(promptTemplate) + ResumeBudget + JobBudget + 100
	if len(got) > limit {
		t.Errorf("prompt length %d exceeds budget bound %d", len(got), limit)
	}
}

func TestBuildEmptyInputs(t *testing.T) {
	got := Build("", "")
	if !strings.Contains(got, "RESUME:") || !strings.Contains(got, "JOB DESCRIPTION:") {
		t.Error("prompt skeleton missing for empty inputs")
	}
}

func TestCleanForPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips unsafe characters", "skills: python™ and go", "skills: python  and go"},
		{"bounds dots", "profile.....end", "profile...end"},
		{"collapses tabs", "a\t\tb", "a b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanForPrompt(tt.input); got != tt.want {
				t.Errorf("cleanForPrompt(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSmartTruncatePreservesSections(t *testing.T) {
	filler := strings.Repeat("Irrelevant preamble line with nothing useful in it. ", 50)
	text := filler + "\n\nSkills: Python, Docker, Kubernetes, AWS, Terraform\n\n" + filler

	got := smartTruncate(text, 500, resumeSections, 30)

	if len(got) > 500 {
		t.Fatalf("truncated length %d exceeds budget 500", len(got))
	}
	if !strings.Contains(got, "Kubernetes") {
		t.Errorf("skills section was not preserved: %q", got)
	}
}

func TestSmartTruncateShortInputUnchanged(t *testing.T) {
	text := "Skills: Python"
	if got := smartTruncate(text, 6000, resumeSections, 50); got != text {
		t.Errorf("smartTruncate changed text under budget: %q", got)
	}
}
