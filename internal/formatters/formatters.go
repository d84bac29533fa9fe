package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumatch/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobPosting", &JobPostingTextFormatter{})
	registry.RegisterFormatter("markdown", "JobPosting", &JobPostingMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	case *types.JobPosting:
		return "JobPosting"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for compatibility analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== COMPATIBILITY ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100 (%s)\n\n", result.Score, result.MatchCategory))

	if result.AnalysisSummary != "" {
		output.WriteString("Summary:\n")
		output.WriteString(result.AnalysisSummary)
		output.WriteString("\n\n")
	}

	if len(result.MatchingSkills) > 0 {
		output.WriteString("=== MATCHING SKILLS ===\n")
		for _, skill := range result.MatchingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		output.WriteString("=== MISSING SKILLS ===\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if hasGaps(result.SkillGaps) {
		output.WriteString("=== SKILL GAPS ===\n")
		for _, tier := range types.GapTiers() {
			skills := result.SkillGaps[tier]
			if len(skills) == 0 {
				continue
			}
			output.WriteString(fmt.Sprintf("%s:\n", tier))
			for _, skill := range skills {
				output.WriteString(fmt.Sprintf("- %s\n", skill))
			}
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
		output.WriteString("\n")
	}

	output.WriteString(fmt.Sprintf("Processing time: %.2fs\n", result.ProcessingTime))

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for compatibility analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Compatibility Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", result.Score, result.MatchCategory))

	if result.AnalysisSummary != "" {
		output.WriteString("## Summary\n\n")
		output.WriteString(result.AnalysisSummary)
		output.WriteString("\n\n")
	}

	if len(result.MatchingSkills) > 0 {
		output.WriteString("## Matching Skills\n\n")
		for _, skill := range result.MatchingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if hasGaps(result.SkillGaps) {
		output.WriteString("## Skill Gaps\n\n")
		for _, tier := range types.GapTiers() {
			skills := result.SkillGaps[tier]
			if len(skills) == 0 {
				continue
			}
			output.WriteString(fmt.Sprintf("### %s\n\n", tier))
			for _, skill := range skills {
				output.WriteString(fmt.Sprintf("- %s\n", skill))
			}
			output.WriteString("\n")
		}
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
		output.WriteString("\n")
	}

	output.WriteString(fmt.Sprintf("*Processing time: %.2fs*\n", result.ProcessingTime))

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// JobPostingTextFormatter handles text formatting for parsed job postings
type JobPostingTextFormatter struct{}

func (jtf *JobPostingTextFormatter) Format(data any) (string, error) {
	posting, ok := data.(*types.JobPosting)
	if !ok {
		return "", fmt.Errorf("expected *JobPosting, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB POSTING ===\n\n")
	output.WriteString(fmt.Sprintf("Title: %s\n", posting.Title))
	output.WriteString(fmt.Sprintf("Experience Level: %s\n\n", posting.ExperienceLevel))

	if len(posting.Requirements) > 0 {
		output.WriteString("=== REQUIREMENTS ===\n")
		for _, requirement := range posting.Requirements {
			output.WriteString(fmt.Sprintf("- %s\n", requirement))
		}
		output.WriteString("\n")
	}

	if len(posting.TechnicalSkills) > 0 {
		output.WriteString("=== TECHNICAL SKILLS ===\n")
		output.WriteString(strings.Join(posting.TechnicalSkills, ", "))
		output.WriteString("\n\n")
	}

	if len(posting.SoftSkills) > 0 {
		output.WriteString("=== SOFT SKILLS ===\n")
		output.WriteString(strings.Join(posting.SoftSkills, ", "))
		output.WriteString("\n\n")
	}

	if len(posting.KeyResponsibilities) > 0 {
		output.WriteString("=== KEY RESPONSIBILITIES ===\n")
		for i, responsibility := range posting.KeyResponsibilities {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, responsibility))
		}
	}

	return output.String(), nil
}

func (jtf *JobPostingTextFormatter) SupportedType() string {
	return "JobPosting"
}

// JobPostingMarkdownFormatter handles markdown formatting for parsed job postings
type JobPostingMarkdownFormatter struct{}

func (jmf *JobPostingMarkdownFormatter) Format(data any) (string, error) {
	posting, ok := data.(*types.JobPosting)
	if !ok {
		return "", fmt.Errorf("expected *JobPosting, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n\n", posting.Title))
	output.WriteString(fmt.Sprintf("**Experience Level:** %s\n\n", posting.ExperienceLevel))

	if len(posting.Requirements) > 0 {
		output.WriteString("## Requirements\n\n")
		for _, requirement := range posting.Requirements {
			output.WriteString(fmt.Sprintf("- %s\n", requirement))
		}
		output.WriteString("\n")
	}

	if len(posting.TechnicalSkills) > 0 {
		output.WriteString("## Technical Skills\n\n")
		output.WriteString(strings.Join(posting.TechnicalSkills, ", "))
		output.WriteString("\n\n")
	}

	if len(posting.SoftSkills) > 0 {
		output.WriteString("## Soft Skills\n\n")
		output.WriteString(strings.Join(posting.SoftSkills, ", "))
		output.WriteString("\n\n")
	}

	if len(posting.KeyResponsibilities) > 0 {
		output.WriteString("## Key Responsibilities\n\n")
		for i, responsibility := range posting.KeyResponsibilities {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, responsibility))
		}
	}

	return output.String(), nil
}

func (jmf *JobPostingMarkdownFormatter) SupportedType() string {
	return "JobPosting"
}

func hasGaps(gaps map[string][]string) bool {
	for _, skills := range gaps {
		if len(skills) > 0 {
			return true
		}
	}
	return false
}
