package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumatch/internal/jobpost"
	"resumatch/internal/observability"
	"resumatch/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createMatchHandler wraps the match handler with observability
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumatch.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		// Parse request
		var req MatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobText) == "" {
			err := fmt.Errorf("missing job text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job text", "jobText field is required", http.StatusBadRequest)
			return
		}

		// Size validation
		if len(req.ResumeText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume text too large: %d chars", len(req.ResumeText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume text too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}
		if len(req.JobText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job text too large: %d chars", len(req.JobText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job text too large", fmt.Sprintf("jobText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobText)),
			attribute.String("operation", "match"),
		)

		job, err := jobpost.Parse(req.JobText)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid job posting", err.Error(), http.StatusBadRequest)
			return
		}

		// Track the analysis with observability. AnalyzeMatch never fails hard;
		// a degraded outcome is reported through the Error category.
		metrics := om.GetMetrics()
		var result types.AnalysisResult
		_ = metrics.TrackAnalysis(ctx, func(ctx context.Context) *observability.AnalysisOutcome {
			result = s.Analyzer.AnalyzeMatch(ctx, req.ResumeText, job)
			outcome := &observability.AnalysisOutcome{
				Score:    result.Score,
				Category: result.MatchCategory,
			}
			if result.MatchCategory == types.CategoryError {
				outcome.Error = fmt.Errorf("analysis degraded: %s", result.AnalysisSummary)
			}
			return outcome
		}, om)

		span.SetAttributes(
			attribute.Bool("success", result.MatchCategory != types.CategoryError),
			attribute.Int("match.score", result.Score),
			attribute.String("match.category", result.MatchCategory),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createParseJobHandler wraps the parse-job handler with observability
func (s *Server) createParseJobHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumatch.api")
		ctx, span := tracer.Start(ctx, "api.parse_job")
		defer span.End()

		var req ParseJobRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobText) == "" {
			err := fmt.Errorf("missing job text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job text", "jobText field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobText)),
			attribute.String("operation", "parse_job"),
		)

		metrics := om.GetMetrics()
		job, err := jobpost.Parse(req.JobText)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "job_parsed", false, om)
			writeErrorResponse(w, "Invalid job posting", err.Error(), http.StatusBadRequest)
			return
		}

		metrics.RecordBusinessMetric(ctx, "job_parsed", true, om,
			attribute.Int("technical_skills", len(job.TechnicalSkills)),
			attribute.Int("soft_skills", len(job.SoftSkills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("job.title", job.Title),
			attribute.String("job.experience_level", job.ExperienceLevel),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(job); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
