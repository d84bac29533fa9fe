package match

import (
	"context"
	"fmt"
	"time"

	"resumatch/internal/errors"
	"resumatch/internal/prompt"
	"resumatch/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Reasoner is the slice of the reasoning service the analyzer needs
type Reasoner interface {
	Complete(ctx context.Context, prompt string) (string, *types.TokenUsage, error)
}

// Analyzer orchestrates a compatibility analysis: prompt construction,
// the reasoning call, reply interpretation and suggestion synthesis.
type Analyzer struct {
	reasoner Reasoner
	logger   *errors.Logger
}

// NewAnalyzer creates an analyzer backed by the given reasoning service
func NewAnalyzer(reasoner Reasoner, logger *errors.Logger) *Analyzer {
	return &Analyzer{
		reasoner: reasoner,
		logger:   logger,
	}
}

// AnalyzeMatch runs the full analysis. It never returns an error: any
// failure along the way produces a result with the Error category, a zero
// score and a single diagnostic suggestion, so callers always get a
// well-formed AnalysisResult.
func (a *Analyzer) AnalyzeMatch(ctx context.Context, resumeText string, job *types.JobPosting) types.AnalysisResult {
	start := time.Now()

	tracer := otel.Tracer("resumatch.match")
	ctx, span := tracer.Start(ctx, "match.analyze")
	defer span.End()

	span.SetAttributes(
		attribute.Int("input.resume_length", len(resumeText)),
		attribute.Int("input.job_length", len(job.RawText)),
	)

	analysisPrompt := prompt.Build(resumeText, job.RawText)

	raw, usage, err := a.reasoner.Complete(ctx, analysisPrompt)
	if err != nil {
		a.logger.LogError(err, "Compatibility analysis failed",
			"job_title", job.Title)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return errorResult(err, time.Since(start))
	}

	reply := ParseReply(raw)
	score := types.ClampScore(reply.CompatibilityScore)
	gaps := NormalizeGapTiers(reply.SkillGaps)
	suggestions := Synthesize(reply.Suggestions, gaps, score)

	result := types.AnalysisResult{
		Score:           score,
		MatchCategory:   types.MatchCategory(score),
		MatchingSkills:  reply.MatchingSkills,
		MissingSkills:   reply.MissingSkills,
		SkillGaps:       gaps,
		Suggestions:     suggestions,
		ProcessingTime:  time.Since(start).Seconds(),
		AnalysisSummary: reply.AnalysisSummary,
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("match.score", result.Score),
		attribute.String("match.category", result.MatchCategory),
	)
	if usage != nil {
		span.SetAttributes(attribute.Int("reasoning.tokens.total", usage.TotalTokens))
	}

	a.logger.Info("Compatibility analysis completed",
		"score", result.Score,
		"category", result.MatchCategory,
		"matching_skills", len(result.MatchingSkills),
		"missing_skills", len(result.MissingSkills),
		"processing_time", result.ProcessingTime)

	return result
}

// errorResult is the analyzer's failure path: a structurally complete
// result carrying the failure as its only suggestion.
func errorResult(err error, elapsed time.Duration) types.AnalysisResult {
	return types.AnalysisResult{
		Score:          0,
		MatchCategory:  types.CategoryError,
		MatchingSkills: []string{},
		MissingSkills:  []string{},
		SkillGaps: map[string][]string{
			types.GapCritical:   {},
			types.GapImportant:  {},
			types.GapNiceToHave: {},
		},
		Suggestions:    []string{fmt.Sprintf("Analysis failed: %s", err.Error())},
		ProcessingTime: elapsed.Seconds(),
	}
}
