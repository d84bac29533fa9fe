// Package prompt serializes a resume and a job description into a single
// reasoning-service instruction, applying section-aware truncation to stay
// under the token budget.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// SystemInstruction is the fixed system-role message sent alongside every
// built prompt.
const SystemInstruction = "You are an expert HR analyst specializing in resume and job description matching. Provide accurate, structured analysis in the requested JSON format."

// Character budgets chosen for token cost: roughly 1500 tokens of resume
// and 750 of job description.
const (
	ResumeBudget = 6000
	JobBudget    = 3000
)

var (
	horizSpace   = regexp.MustCompile(`[ \t]+`)
	unsafeChars  = regexp.MustCompile(`[^\w\s\-.,;:()\[\]{}/@#$%&*+=<>?!"]`)
	dotRuns      = regexp.MustCompile(`\.{3,}`)
	dashRuns     = regexp.MustCompile(`-{3,}`)
	sectionBreak = regexp.MustCompile(`\n[A-Z]|\n\n`)
)

var resumeSections = []*regexp.Regexp{
	regexp.MustCompile(`(?i)experience|work experience|employment|professional experience`),
	regexp.MustCompile(`(?i)skills|technical skills|core competencies|expertise`),
	regexp.MustCompile(`(?i)education|academic background`),
	regexp.MustCompile(`(?i)summary|professional summary|profile|objective`),
}

var jobSections = []*regexp.Regexp{
	regexp.MustCompile(`(?i)requirements?|qualifications?|required skills?`),
	regexp.MustCompile(`(?i)responsibilities?|duties|what you.ll do`),
	regexp.MustCompile(`(?i)skills?|technical skills?|must have`),
	regexp.MustCompile(`(?i)experience|years? of experience`),
}

// Build produces the full analysis instruction for the reasoning service.
// It always succeeds and its output is bounded by the fixed budgets plus
// the template size.
func Build(resumeText, jobText string) string {
	resume := cleanForPrompt(resumeText)
	job := cleanForPrompt(jobText)

	resume = smartTruncate(resume, ResumeBudget, resumeSections, 50)
	job = smartTruncate(job, JobBudget, jobSections, 30)

	return fmt.Sprintf(promptTemplate, resume, job)
}

// cleanForPrompt strips characters that could break the service's
// structured-output parsing and bounds punctuation runs.
func cleanForPrompt(text string) string {
	text = strings.TrimSpace(text)
	text = horizSpace.ReplaceAllString(text, " ")
	text = unsafeChars.ReplaceAllString(text, " ")
	text = dotRuns.ReplaceAllString(text, "...")
	text = dashRuns.ReplaceAllString(text, "---")
	return strings.TrimSpace(text)
}

// smartTruncate shortens text to maxChars, keeping named high-value
// sections over a naive head cut. Sections found via the header patterns
// are concatenated first; leftover budget is filled with a prefix of the
// uncaptured text, broken at a sentence boundary when one is close enough.
func smartTruncate(text string, maxChars int, sections []*regexp.Regexp, minSection int) string {
	if len(text) <= maxChars {
		return text
	}

	var preserved []string
	remaining := text

	for _, header := range sections {
		loc := header.FindStringIndex(remaining)
		if loc == nil {
			continue
		}
		section := sectionSpan(remaining, loc[0])
		if len(section) > minSection {
			preserved = append(preserved, section)
			remaining = strings.Replace(remaining, section, "", 1)
		}
	}

	result := strings.Join(preserved, "\n\n")

	if len(result) < maxChars*8/10 {
		space := maxChars - len(result) - 10
		rest := strings.TrimSpace(remaining)
		if space > 100 && rest != "" {
			if len(rest) > space {
				rest = rest[:space]
			}
			if cut := strings.LastIndex(rest, "."); cut > space*7/10 {
				rest = rest[:cut+1]
			}
			if result == "" {
				result = rest + "..."
			} else {
				result += "\n\n" + rest + "..."
			}
		}
	}

	if len(result) > maxChars {
		result = result[:maxChars-3] + "..."
	}
	return result
}

// sectionSpan returns the text from start up to the next section boundary
// (a newline followed by a capital letter, or a blank line) or end of text.
func sectionSpan(text string, start int) string {
	rest := text[start:]
	if loc := sectionBreak.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	return strings.TrimSpace(rest)
}

const promptTemplate = `You are an expert HR analyst. Analyze the compatibility between this resume and job description.

RESUME:
%s

JOB DESCRIPTION:
%s

Please provide a detailed analysis in the following JSON format:
{
    "compatibility_score": <integer 0-100>,
    "matching_skills": [<list of skills found in both documents with exact text from both>],
    "missing_skills": [<list of skills in JD but not in resume>],
    "skill_gaps": {
        "Critical": [<skills absolutely essential for the role, mentioned frequently or emphasized in JD>],
        "Important": [<skills that would significantly strengthen candidacy>],
        "Nice-to-have": [<skills that are beneficial but not essential>]
    },
    "suggestions": [<list of 3-5 specific actionable recommendations with exact phrases to add>],
    "analysis_summary": "<brief explanation of the score and key findings>"
}

ANALYSIS REQUIREMENTS:
1. For matching_skills: Show exact text from both resume and job description
2. For skill_gaps: Prioritize by frequency and emphasis in the job description
3. For suggestions: Be specific and include recommended phrases or sections to add
4. If score > 70%%: Focus on optimization suggestions rather than major changes
5. If no missing skills: Leave skill_gaps categories empty

Focus on:
1. Technical skills, soft skills, and experience alignment
2. Industry-specific knowledge and certifications
3. Role requirements and responsibilities match
4. Career progression and experience level fit
5. Keywords and terminology usage

SUGGESTION GUIDELINES:
- Include specific phrases like "Led cross-functional teams" or "Implemented solutions that resulted in"
- Recommend specific resume sections to add (e.g., "Core Competencies", "Technical Proficiencies")
- Focus on adding missing skills, improving keyword usage, and enhancing experience descriptions
- Provide at least 3 actionable recommendations
- For strong matches (70%%+), suggest optimizations rather than major overhauls`
