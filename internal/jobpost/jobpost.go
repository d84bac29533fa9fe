// Package jobpost structures raw job-description text into a typed
// JobPosting: title, requirements, a technical/soft skill partition,
// experience level, and key responsibilities.
package jobpost

import (
	"fmt"
	"regexp"
	"strings"

	"resumatch/internal/types"
)

const (
	minLength       = 50
	maxLength       = 50000
	minWords        = 10
	maxRequirements = 20
	maxDuties       = 10
)

// Parse validates and structures a job description. It fails with a
// validation error on empty, too-short, too-long, or gibberish input and
// never touches the network.
func Parse(jobText string) (*types.JobPosting, error) {
	if err := validateInput(jobText); err != nil {
		return nil, err
	}

	cleaned := cleanJobText(jobText)

	skills := extractSkills(cleaned)
	technical, soft := ClassifySkills(skills)

	return &types.JobPosting{
		RawText:             jobText,
		Title:               extractTitle(cleaned),
		Requirements:        extractRequirements(cleaned),
		TechnicalSkills:     technical,
		SoftSkills:          soft,
		ExperienceLevel:     extractExperienceLevel(cleaned),
		KeyResponsibilities: extractResponsibilities(cleaned),
	}, nil
}

var (
	crlf          = regexp.MustCompile(`\r\n?`)
	horizSpace    = regexp.MustCompile(`[ \t]+`)
	dotRuns       = regexp.MustCompile(`\.{3,}`)
	dashRuns      = regexp.MustCompile(`-{3,}`)
	sectionHeader = regexp.MustCompile(`^\s*[A-Z][^:]*:`)
)

// cleanJobText normalizes whitespace while preserving line structure,
// which the section scanners depend on.
func cleanJobText(text string) string {
	text = strings.TrimSpace(text)
	text = crlf.ReplaceAllString(text, "\n")
	text = horizSpace.ReplaceAllString(text, " ")
	text = dotRuns.ReplaceAllString(text, "...")
	text = dashRuns.ReplaceAllString(text, "---")
	return text
}

// sectionBodies returns the body under each line matching header, collected
// up to the next section header or end of text.
func sectionBodies(text string, header *regexp.Regexp) []string {
	lines := strings.Split(text, "\n")
	var bodies []string

	for i := 0; i < len(lines); i++ {
		if !header.MatchString(lines[i]) {
			continue
		}
		var body []string
		for j := i + 1; j < len(lines); j++ {
			if sectionHeader.MatchString(lines[j]) {
				i = j - 1
				break
			}
			body = append(body, lines[j])
		}
		if joined := strings.TrimSpace(strings.Join(body, "\n")); joined != "" {
			bodies = append(bodies, joined)
		}
	}
	return bodies
}

var (
	bulletMarker = regexp.MustCompile(`^(?:[-•*]|\d+\.|[a-zA-Z]\.)\s*`)
	trailPunct   = regexp.MustCompile(`[.,:;]+$`)
)

// parseBullets splits a section body into cleaned list items, dropping
// bullet markers, numbering, and trivially short lines.
func parseBullets(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = bulletMarker.ReplaceAllString(line, "")
		line = trailPunct.ReplaceAllString(strings.TrimSpace(line), "")
		if len(line) > 5 {
			items = append(items, line)
		}
	}
	return items
}

var requirementHeaders = regexp.MustCompile(`(?i)^\s*(?:required\s+skills?|requirements?|must\s+have|essential\s+(?:skills?|requirements?)|minimum\s+(?:requirements?|qualifications?)):\s*$`)

var experienceRequirements = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+\+?\s*years?\s+(?:of\s+)?experience[^.]*)`),
	regexp.MustCompile(`(?i)(minimum\s+of\s+\d+\s+years?[^.]*)`),
	regexp.MustCompile(`(?i)(\d+\+?\s*years?\s+in[^.]*)`),
	regexp.MustCompile(`(?i)(bachelor'?s?\s+degree[^.]*)`),
	regexp.MustCompile(`(?i)(master'?s?\s+degree[^.]*)`),
	regexp.MustCompile(`(?i)(phd\s+(?:degree)?[^.]*)`),
}

func extractRequirements(text string) []string {
	var requirements []string

	for _, body := range sectionBodies(text, requirementHeaders) {
		requirements = append(requirements, parseBullets(body)...)
	}
	for _, pattern := range experienceRequirements {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			requirements = append(requirements, strings.TrimSpace(m[1]))
		}
	}

	return dedupe(requirements, maxRequirements)
}

// dedupe removes case-insensitive duplicates and entries of five or fewer
// characters, keeping first-seen order, capped at limit.
func dedupe(items []string, limit int) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if len(item) <= 5 {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}

var (
	skillHeaders = regexp.MustCompile(`(?i)^\s*(?:required\s+skills?|preferred\s+skills?|technical\s+skills?|qualifications?|must\s+have|nice\s+to\s+have|technologies?):\s*$`)

	capitalizedToken = regexp.MustCompile(`\b([A-Z][a-z]*(?:\.[a-z]+)?|[A-Z]{2,})\b`)

	knownTechnologies = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(Python|Java|JavaScript|TypeScript|C\+\+|C#|PHP|Ruby|Go|Rust|Swift|Kotlin)\b`),
		regexp.MustCompile(`(?i)\b(React|Angular|Vue|Node\.js|Express|Django|Flask|Spring|Laravel)\b`),
		regexp.MustCompile(`(?i)\b(MySQL|PostgreSQL|MongoDB|Redis|Docker|Kubernetes|AWS|Azure|GCP)\b`),
		regexp.MustCompile(`(?i)\b(Git|HTML|CSS|SQL|API|REST|GraphQL|JSON|XML)\b`),
	}
)

// extractSkills gathers the raw skill vocabulary: bulleted content under
// skill-labeled headers, capitalized tokens from requirements, and direct
// matches against well-known technology names. Deduplicated
// case-insensitively in first-seen order.
func extractSkills(text string) []string {
	var skills []string

	for _, body := range sectionBodies(text, skillHeaders) {
		skills = append(skills, parseBullets(body)...)
	}

	for _, req := range extractRequirements(text) {
		for _, m := range capitalizedToken.FindAllStringSubmatch(req, -1) {
			skills = append(skills, m[1])
		}
	}

	for _, pattern := range knownTechnologies {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			skills = append(skills, m[1])
		}
	}

	out := []string{}
	seen := make(map[string]struct{})
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if len(skill) <= 2 {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^([^:\n]+?)(?:\s*-\s*[^:\n]+)?(?:\n|$)`),
	regexp.MustCompile(`(?i)(?:job\s+title|position|role):\s*([^\n]+)`),
	regexp.MustCompile(`(?i)we\s+are\s+(?:seeking|looking\s+for|hiring)\s+(?:a|an)\s+([^.\n]+?)(?:\s+to\s+join|\.|$)`),
	regexp.MustCompile(`(?i)([A-Z][^:\n]*(?:engineer|developer|manager|analyst|scientist|specialist|coordinator|director|lead))`),
}

var (
	innerSpace    = regexp.MustCompile(`\s+`)
	titleLabel    = regexp.MustCompile(`(?i)^(job\s+title|position|role):\s*`)
	seekingPrefix = regexp.MustCompile(`(?i)^we\s+are\s+seeking\s+(?:a|an)\s+`)
	skipLinePfx   = []string{"company", "location", "department", "we are", "job description"}
)

// extractTitle tries an ordered list of title strategies; the first
// non-degenerate match wins. Falls back to scanning the first five lines
// for a title-shaped one, then to "Unknown Position".
func extractTitle(text string) string {
	for _, pattern := range titlePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		title = innerSpace.ReplaceAllString(title, " ")
		title = titleLabel.ReplaceAllString(title, "")
		title = seekingPrefix.ReplaceAllString(title, "")
		if len(title) > 3 && len(title) < 100 {
			return title
		}
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= 3 || len(line) >= 100 {
			continue
		}
		skip := false
		for _, pfx := range skipLinePfx {
			if strings.HasPrefix(strings.ToLower(line), pfx) {
				skip = true
				break
			}
		}
		if !skip {
			return line
		}
	}

	return "Unknown Position"
}

type experienceRule struct {
	pattern *regexp.Regexp
	format  func([]string) string
}

// Ordered: years-of-experience patterns outrank seniority keywords, which
// outrank degree mentions.
var experienceRules = []experienceRule{
	{regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+(?:of\s+)?experience`), func(m []string) string { return m[1] + "+ years" }},
	{regexp.MustCompile(`(?i)minimum\s+of\s+(\d+)\s+years?`), func(m []string) string { return m[1] + "+ years" }},
	{regexp.MustCompile(`(\d+)-(\d+)\s+years?`), func(m []string) string { return fmt.Sprintf("%s-%s years", m[1], m[2]) }},
	{regexp.MustCompile(`(?i)entry.level|junior`), func([]string) string { return "Entry Level" }},
	{regexp.MustCompile(`(?i)senior|lead`), func([]string) string { return "Senior Level" }},
	{regexp.MustCompile(`(?i)mid.level|intermediate`), func([]string) string { return "Mid Level" }},
	{regexp.MustCompile(`(?i)phd\s*(?:degree)?`), func([]string) string { return "PhD Degree" }},
	{regexp.MustCompile(`(?i)master'?s?\s+degree`), func([]string) string { return "Master's Degree" }},
	{regexp.MustCompile(`(?i)bachelor'?s?\s+degree`), func([]string) string { return "Bachelor's Degree" }},
}

func extractExperienceLevel(text string) string {
	for _, rule := range experienceRules {
		if m := rule.pattern.FindStringSubmatch(text); m != nil {
			return rule.format(m)
		}
	}
	return "Not specified"
}

var responsibilityHeaders = regexp.MustCompile(`(?i)^\s*(?:(?:key\s+)?responsibilities|duties|what\s+you'?ll\s+do|job\s+duties|role\s+overview):\s*$`)

func extractResponsibilities(text string) []string {
	duties := []string{}
	for _, body := range sectionBodies(text, responsibilityHeaders) {
		for _, item := range parseBullets(body) {
			if len(item) > 10 {
				duties = append(duties, item)
			}
		}
	}
	if len(duties) > maxDuties {
		duties = duties[:maxDuties]
	}
	return duties
}
