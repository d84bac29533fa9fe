package jobpost

import (
	"errors"
	"strings"
	"testing"

	apperrors "resumatch/internal/errors"
)

const sampleJob = `Senior Software Engineer - Backend

We are seeking a talented engineer to join our platform team.

Requirements:
- 5+ years of experience building backend services.
- Strong knowledge of Python and Docker.
- Experience with PostgreSQL and Redis.

Responsibilities:
- Design and build scalable APIs.
- Mentor junior engineers on the team.

Nice to have:
- Kubernetes experience.
- Terraform and cloud tooling.
`

func TestParse(t *testing.T) {
	posting, err := Parse(sampleJob)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	if posting.Title != "Senior Software Engineer" {
		t.Errorf("Title = %q, want %q", posting.Title, "Senior Software Engineer")
	}
	if posting.ExperienceLevel != "5+ years" {
		t.Errorf("ExperienceLevel = %q, want %q", posting.ExperienceLevel, "5+ years")
	}
	if len(posting.Requirements) == 0 {
		t.Error("Requirements is empty")
	}
	if len(posting.KeyResponsibilities) != 2 {
		t.Errorf("KeyResponsibilities has %d entries, want 2", len(posting.KeyResponsibilities))
	}

	for _, want := range []string{"Python", "PostgreSQL", "Docker"} {
		if !containsString(posting.TechnicalSkills, want) {
			t.Errorf("TechnicalSkills %v missing %q", posting.TechnicalSkills, want)
		}
	}
	if posting.RawText != sampleJob {
		t.Error("RawText does not preserve the original input")
	}
}

func TestParseValidation(t *testing.T) {
	jobby := strings.Repeat("position requirements experience skills candidate company team ", 3)

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"too short", "short job text"},
		{"too few words", "responsibilities qualifications experience skills candidate company teamwork department"},
		{"too long", jobby + strings.Repeat("x", maxLength)},
		{"url paste", "https://example.com/careers/12345 " + jobby},
		{"repeated character", jobby + strings.Repeat("z", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Parse() succeeded, want validation error")
			}
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error is %T, want *apperrors.AppError", err)
			}
			if appErr.Type != apperrors.ErrorTypeValidation {
				t.Errorf("error type = %q, want %q", appErr.Type, apperrors.ErrorTypeValidation)
			}
		})
	}
}

func TestParseTitleFallback(t *testing.T) {
	text := `Company: Acme Corp
Location: Remote

We need someone for this position on our team. The role requires strong
skills, experience with production systems, and qualifications in software.`

	posting, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if posting.Title == "" {
		t.Error("Title is empty, want a fallback value")
	}
}

func TestClassifySkillsPartition(t *testing.T) {
	skills := []string{
		"Python", "Kubernetes", "Leadership", "Communication",
		"5+ years of backend experience", "Strong work ethic",
		"Knowledge of distributed systems", "Mentoring",
	}

	technical, soft := ClassifySkills(skills)

	if len(technical)+len(soft) != len(skills) {
		t.Fatalf("partition sizes %d+%d do not sum to input size %d",
			len(technical), len(soft), len(skills))
	}
	for _, skill := range skills {
		inTech := containsString(technical, skill)
		inSoft := containsString(soft, skill)
		if inTech == inSoft {
			t.Errorf("skill %q must appear in exactly one list (technical=%v soft=%v)",
				skill, inTech, inSoft)
		}
	}
}

func TestClassifySkills(t *testing.T) {
	tests := []struct {
		skill         string
		wantTechnical bool
	}{
		{"Python", true},
		{"node.js", true},
		{"3+ years", true},
		{"REST API design", true},
		{"Leadership", false},
		{"Strong presentation abilities", false},
		{"Knowledge of compilers", true},
		{"Friendly attitude", false},
	}

	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			technical, soft := ClassifySkills([]string{tt.skill})
			got := len(technical) == 1
			if got != tt.wantTechnical {
				t.Errorf("ClassifySkills(%q): technical=%v soft=%v, want technical=%v",
					tt.skill, technical, soft, tt.wantTechnical)
			}
		})
	}
}

func TestExtractExperienceLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"years of experience", "requires 7 years of experience", "7+ years"},
		{"minimum years", "minimum of 4 years in the field", "4+ years"},
		{"range", "looking for 3-5 years with databases", "3-5 years"},
		{"junior", "this is a junior opening", "Entry Level"},
		{"senior", "senior engineer wanted", "Senior Level"},
		{"masters", "master's degree required", "Master's Degree"},
		{"none", "a job with no level hints", "Not specified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractExperienceLevel(tt.text); got != tt.want {
				t.Errorf("extractExperienceLevel(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
