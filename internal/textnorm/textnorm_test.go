package textnorm

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "collapses horizontal whitespace",
			input: "Python    and \t Docker",
			want:  "Python and Docker",
		},
		{
			name:  "collapses blank line runs",
			input: "Skills\n\n\n\n\nPython",
			want:  "Skills\n\nPython",
		},
		{
			name:  "normalizes bullet glyphs",
			input: "▪ Python\n◦ Docker\n‣ AWS",
			want:  "• Python\n• Docker\n• AWS",
		},
		{
			name:  "canonicalizes list item prefixes",
			input: "- Python\n* Docker",
			want:  "• Python\n• Docker",
		},
		{
			name:  "bounds punctuation runs",
			input: "Skills......end",
			want:  "Skills...end",
		},
		{
			name:  "normalizes phone numbers",
			input: "Call 555 123 4567 or 555.987.6543",
			want:  "Call 555-123-4567 or 555-987-6543",
		},
		{
			name:  "strips control characters",
			input: "Python\x00\x1fDocker",
			want:  "PythonDocker",
		},
		{
			name:  "removes page numbers",
			input: "Experience line\nPage 2\nMore content",
			want:  "Experience line\n\nMore content",
		},
		{
			name:  "title-cases shouting headers",
			input: "WORK EXPERIENCE\nBuilt things",
			want:  "Work Experience:\nBuilt things",
		},
		{
			name:  "trims surrounding whitespace",
			input: "  Python developer  \n",
			want:  "Python developer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"WORK EXPERIENCE\n▪ Built APIs\n- Shipped features\n\n\n\nCall 555 123 4567......",
		"SKILLS:\nPython, Docker, AWS\nPage 3\n42",
		"plain text with no artifacts at all",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not a fixed point for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestIsPlausibleResume(t *testing.T) {
	valid := `John Smith
Email: john.smith@example.com Phone: 555-123-4567

Summary: Experienced software engineer with strong background in cloud systems.
I have built and shipped many production services over the years.

Work Experience:
Senior Engineer at Acme Corp 2019 - present. Led a team building APIs.
Engineer at Widgets Inc 2015 - 2019. Maintained data pipelines daily.

Education: BS Computer Science, State University.

Skills: Python, Go, Docker, AWS, PostgreSQL, Kubernetes, and many more tools.
I also hold several certifications in cloud architecture and security.`

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"realistic resume", valid, true},
		{"empty", "", false},
		{"too short", "Skills: Python", false},
		{
			"long but no resume indicators",
			strings.Repeat("the quick brown fox jumps over the lazy dog again and again. ", 10),
			false,
		},
		{
			"mostly symbols",
			strings.Repeat("experience education skills $$$ ### @@@ %%% ^^^ &&& *** ((( ", 10),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPlausibleResume(tt.text); got != tt.want {
				t.Errorf("IsPlausibleResume() = %v, want %v", got, tt.want)
			}
		})
	}
}
