package jobpost

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "resumatch/internal/errors"
)

var jobIndicators = []string{
	"job", "position", "role", "responsibilities", "requirements",
	"qualifications", "experience", "skills", "candidate", "applicant",
	"hire", "work", "company", "team", "department", "duties", "tasks",
	"seeking", "looking for",
}

var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[^a-zA-Z]*$`),
	regexp.MustCompile(`(.)\1{20,}`),
	regexp.MustCompile(`^https?://`),
	regexp.MustCompile(`^\d+$`),
}

// validateInput rejects text that cannot be a real job posting before any
// downstream work happens. Each rule maps to a distinct, user-explainable
// failure.
func validateInput(jobText string) error {
	trimmed := strings.TrimSpace(jobText)

	if trimmed == "" {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			"job description cannot be empty", nil)
	}
	if len(trimmed) < minLength {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			fmt.Sprintf("job description is too short (%d characters, minimum %d required)", len(trimmed), minLength), nil).
			WithContext("length", len(trimmed))
	}
	if len(trimmed) > maxLength {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			fmt.Sprintf("job description is too long (%d characters, maximum %d allowed)", len(trimmed), maxLength), nil).
			WithContext("length", len(trimmed))
	}

	words := strings.Fields(trimmed)
	if len(words) < minWords {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			fmt.Sprintf("job description contains too few words (%d words, minimum %d required)", len(words), minWords), nil).
			WithContext("words", len(words))
	}

	total := 0
	for _, word := range words {
		total += len(word)
	}
	avg := float64(total) / float64(len(words))
	if avg < 2 || avg > 20 {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			"job description appears to contain invalid content", nil).
			WithContext("avg_word_length", avg)
	}

	lower := strings.ToLower(trimmed)
	indicators := 0
	for _, indicator := range jobIndicators {
		if strings.Contains(lower, indicator) {
			indicators++
		}
	}
	if indicators < 3 {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			"the text does not appear to be a job description", nil).
			WithContext("indicators", indicators)
	}

	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(trimmed) {
			return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
				"job description appears to contain invalid or incomplete content", nil)
		}
	}

	return nil
}
