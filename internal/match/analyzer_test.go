package match

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"resumatch/internal/errors"
	"resumatch/internal/types"
)

type stubReasoner struct {
	reply string
	usage *types.TokenUsage
	err   error
	calls int
}

func (s *stubReasoner) Complete(ctx context.Context, prompt string) (string, *types.TokenUsage, error) {
	s.calls++
	if s.err != nil {
		return "", nil, s.err
	}
	return s.reply, s.usage, nil
}

func analyzerLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func testJob() *types.JobPosting {
	return &types.JobPosting{
		RawText:         "Senior Backend Engineer. Requirements: Go, PostgreSQL, Docker.",
		Title:           "Senior Backend Engineer",
		ExperienceLevel: "5+ years",
	}
}

func TestAnalyzeMatchSuccess(t *testing.T) {
	reasoner := &stubReasoner{
		reply: `{
			"compatibility_score": 78,
			"matching_skills": ["Go", "PostgreSQL"],
			"missing_skills": ["Docker"],
			"skill_gaps": {"Critical": ["Docker"], "Important": [], "Nice-to-have": []},
			"suggestions": ["Add Docker projects", "Quantify database work", "Lead with backend roles"],
			"analysis_summary": "Strong backend candidate"
		}`,
		usage: &types.TokenUsage{PromptTokens: 900, CompletionTokens: 200, TotalTokens: 1100},
	}

	analyzer := NewAnalyzer(reasoner, analyzerLogger(t))
	result := analyzer.AnalyzeMatch(context.Background(), "resume text", testJob())

	if reasoner.calls != 1 {
		t.Errorf("reasoner calls = %d, want 1", reasoner.calls)
	}
	if result.Score != 78 {
		t.Errorf("score = %d, want 78", result.Score)
	}
	if result.MatchCategory != types.CategoryStrong {
		t.Errorf("category = %q, want %q", result.MatchCategory, types.CategoryStrong)
	}
	if len(result.MatchingSkills) != 2 || result.MatchingSkills[0] != "Go" {
		t.Errorf("matching skills = %v", result.MatchingSkills)
	}
	if len(result.SkillGaps[types.GapCritical]) != 1 {
		t.Errorf("critical gaps = %v", result.SkillGaps[types.GapCritical])
	}
	if len(result.Suggestions) < 3 || len(result.Suggestions) > 7 {
		t.Errorf("suggestions = %d entries, want 3 to 7", len(result.Suggestions))
	}
	if result.AnalysisSummary != "Strong backend candidate" {
		t.Errorf("summary = %q", result.AnalysisSummary)
	}
	if result.ProcessingTime < 0 {
		t.Errorf("processing time = %v", result.ProcessingTime)
	}
}

func TestAnalyzeMatchServiceFailure(t *testing.T) {
	reasoner := &stubReasoner{
		err: errors.NewAIError(errors.ErrCodeServiceDown, "Reasoning service unavailable after 3 attempts", nil),
	}

	analyzer := NewAnalyzer(reasoner, analyzerLogger(t))
	result := analyzer.AnalyzeMatch(context.Background(), "resume text", testJob())

	if result.MatchCategory != types.CategoryError {
		t.Errorf("category = %q, want %q", result.MatchCategory, types.CategoryError)
	}
	if result.Score != 0 {
		t.Errorf("score = %d, want 0", result.Score)
	}
	if len(result.Suggestions) != 1 || !strings.HasPrefix(result.Suggestions[0], "Analysis failed:") {
		t.Errorf("suggestions = %v, want single failure diagnostic", result.Suggestions)
	}
	for _, tier := range types.GapTiers() {
		if got, ok := result.SkillGaps[tier]; !ok || len(got) != 0 {
			t.Errorf("gap tier %q = %v, want present and empty", tier, got)
		}
	}
}

func TestAnalyzeMatchMalformedReply(t *testing.T) {
	reasoner := &stubReasoner{reply: "Sorry, I cannot process that."}

	analyzer := NewAnalyzer(reasoner, analyzerLogger(t))
	result := analyzer.AnalyzeMatch(context.Background(), "resume text", testJob())

	// A malformed reply still yields a well-formed result via salvage
	if result.MatchCategory != types.CategoryPoor {
		t.Errorf("category = %q, want %q from salvaged zero score", result.MatchCategory, types.CategoryPoor)
	}
	if len(result.Suggestions) < 3 {
		t.Errorf("suggestions = %d entries, want synthesis to top up", len(result.Suggestions))
	}
	diagnostic := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "parsing failed") {
			diagnostic = true
		}
	}
	if !diagnostic {
		t.Errorf("suggestions %v missing the parse diagnostic", result.Suggestions)
	}
}

func TestAnalyzeMatchCategoryBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{29, types.CategoryPoor},
		{30, types.CategoryModerate},
		{70, types.CategoryModerate},
		{71, types.CategoryStrong},
	}

	for _, tt := range tests {
		reasoner := &stubReasoner{reply: fmt.Sprintf(`{"compatibility_score": %d}`, tt.score)}
		analyzer := NewAnalyzer(reasoner, analyzerLogger(t))
		result := analyzer.AnalyzeMatch(context.Background(), "resume", testJob())

		if result.MatchCategory != tt.want {
			t.Errorf("score %d category = %q, want %q", tt.score, result.MatchCategory, tt.want)
		}
	}
}
