package match

import (
	"fmt"
	"strings"

	"resumatch/internal/types"
)

const (
	minSuggestions = 3
	maxSuggestions = 7
)

// Synthesize builds the final suggestion list from the service's own
// suggestions, topping up from gap- and score-based fallbacks when the
// service offered fewer than three, then enriching generic advice with
// specifics. The result always has between three and seven entries.
func Synthesize(seed []string, skillGaps map[string][]string, score int) []string {
	suggestions := compactStrings(seed)

	if len(suggestions) < minSuggestions {
		suggestions = append(suggestions, fallbackSuggestions(skillGaps, score)...)
	}

	suggestions = enrichSuggestions(suggestions, skillGaps)

	for len(suggestions) < minSuggestions {
		suggestions = append(suggestions, "Consider reviewing and updating your resume format and structure for better readability.")
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// fallbackSuggestions derives suggestions from the skill gaps and the
// score band when the service supplied too few of its own.
func fallbackSuggestions(skillGaps map[string][]string, score int) []string {
	var suggestions []string

	if critical := skillGaps[types.GapCritical]; len(critical) > 0 {
		top := critical[:min(3, len(critical))]
		suggestions = append(suggestions, fmt.Sprintf(
			"Add critical skills to your resume: %s. Include specific examples of how you've used these skills in previous roles.",
			strings.Join(top, ", ")))
	}

	if important := skillGaps[types.GapImportant]; len(important) > 0 {
		top := important[:min(2, len(important))]
		suggestions = append(suggestions, fmt.Sprintf(
			"Consider highlighting these important skills: %s. Add them to your skills section and mention them in your experience descriptions.",
			strings.Join(top, ", ")))
	}

	switch {
	case score > 70:
		suggestions = append(suggestions,
			"Your resume already shows strong alignment. Consider adding quantifiable achievements and metrics to strengthen your impact statements.",
			"Optimize keyword usage by incorporating more industry-specific terminology from the job description throughout your experience sections.")
	case score >= 30:
		suggestions = append(suggestions,
			"Enhance your experience descriptions by using more action verbs and specific examples that demonstrate the required skills.",
			"Add a professional summary section that highlights your most relevant qualifications for this specific role.")
	default:
		suggestions = append(suggestions,
			"Consider restructuring your resume to better highlight experiences that align with the job requirements.",
			"Add relevant certifications, training, or projects that demonstrate the skills mentioned in the job description.")
	}

	if len(suggestions) < minSuggestions {
		suggestions = append(suggestions,
			"Include specific metrics and quantifiable achievements in your experience descriptions (e.g., 'Increased efficiency by 25%').",
			"Tailor your professional summary to directly address the key requirements mentioned in the job description.",
			"Use industry-specific keywords and terminology that appear in the job posting throughout your resume.")
	}

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

// enrichSuggestions appends concrete detail to generic advice: missing
// critical skills onto skill suggestions, phrasing examples onto
// experience suggestions, and section names onto structure suggestions.
func enrichSuggestions(suggestions []string, skillGaps map[string][]string) []string {
	enriched := make([]string, 0, len(suggestions))

	for _, suggestion := range suggestions {
		lower := strings.ToLower(suggestion)

		if strings.Contains(lower, "skill") && !mentionsAnyGap(suggestion, skillGaps) {
			if critical := skillGaps[types.GapCritical]; len(critical) > 0 {
				top := critical[:min(2, len(critical))]
				suggestion += fmt.Sprintf(" Focus particularly on: %s.", strings.Join(top, ", "))
			}
		}

		if strings.Contains(lower, "experience") || strings.Contains(lower, "description") {
			suggestion += " Use phrases like 'Led cross-functional teams', 'Implemented solutions that resulted in', or 'Collaborated with stakeholders to achieve'."
		}

		if strings.Contains(lower, "section") || strings.Contains(lower, "summary") {
			suggestion += " Consider adding sections like 'Core Competencies', 'Technical Proficiencies', or 'Key Achievements' if not already present."
		}

		enriched = append(enriched, suggestion)
	}

	return enriched
}

// mentionsAnyGap reports whether the suggestion already names one of the
// gap skills.
func mentionsAnyGap(suggestion string, skillGaps map[string][]string) bool {
	for _, skills := range skillGaps {
		for _, skill := range skills {
			if strings.Contains(suggestion, skill) {
				return true
			}
		}
	}
	return false
}
