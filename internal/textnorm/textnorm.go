// Package textnorm cleans raw extracted document text and judges whether it
// plausibly came from a resume. Normalize is a pure function and a fixed
// point after one pass: Normalize(Normalize(x)) == Normalize(x).
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	multiBlankLines = regexp.MustCompile(`\n\s*\n\s*\n+`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	controlChars    = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-]")
	bulletGlyphs    = regexp.MustCompile(`[·▪▫◦‣⁃]`)
	listItemPrefix  = regexp.MustCompile(`(?m)^\s*[•\-\*]+\s*`)
	manyDots        = regexp.MustCompile(`\.{3,}`)
	manyDashes      = regexp.MustCompile(`-{3,}`)
	manyUnderscores = regexp.MustCompile(`_{3,}`)
	phonePattern    = regexp.MustCompile(`(\d{3})\s*[-.]?\s*(\d{3})\s*[-.]?\s*(\d{4})`)
	pageNumber      = regexp.MustCompile(`(?mi)^\s*Page\s+\d+\s*$`)
	standaloneNum   = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	capsHeader      = regexp.MustCompile(`(?m)^([A-Z][A-Z\s]{2,}):?\s*$`)
)

// Normalize strips formatting artifacts from raw document text: collapsed
// whitespace, canonical bullets, bounded punctuation runs, normalized phone
// numbers, stripped control characters, and Title-cased section headers.
// Empty input yields an empty string; it never fails.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw

	text = multiBlankLines.ReplaceAllString(text, "\n\n")
	text = horizontalSpace.ReplaceAllString(text, " ")

	text = controlChars.ReplaceAllString(text, "")

	text = bulletGlyphs.ReplaceAllString(text, "•")
	text = listItemPrefix.ReplaceAllString(text, "• ")

	text = manyDots.ReplaceAllString(text, "...")
	text = manyDashes.ReplaceAllString(text, "---")
	text = manyUnderscores.ReplaceAllString(text, "___")

	text = phonePattern.ReplaceAllString(text, "$1-$2-$3")

	text = pageNumber.ReplaceAllString(text, "")
	text = standaloneNum.ReplaceAllString(text, "")

	text = capsHeader.ReplaceAllStringFunc(text, func(line string) string {
		header := capsHeader.FindStringSubmatch(line)[1]
		return titleCase(header) + ":"
	})

	text = multiBlankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Resume indicator patterns. A plausible resume matches at least two.
var resumeIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(experience|work\s+experience|employment)\b`),
	regexp.MustCompile(`(?i)\b(education|degree|university|college|school)\b`),
	regexp.MustCompile(`(?i)\b(skills|technical\s+skills|competencies)\b`),
	regexp.MustCompile(`(?i)\b(email|phone|address|contact)\b`),
	regexp.MustCompile(`(?i)\b(resume|cv|curriculum\s+vitae)\b`),
	regexp.MustCompile(`(?i)\b(objective|summary|profile)\b`),
	regexp.MustCompile(`(?i)\b(projects?|achievements?|accomplishments?)\b`),
	regexp.MustCompile(`(?i)\b(certifications?|licenses?|awards?)\b`),
	regexp.MustCompile(`(?i)\b(languages?|references?)\b`),
	regexp.MustCompile(`(?i)\d{4}\s*[-–]\s*(\d{4}|present|current)`),
	regexp.MustCompile(`@\w+\.\w+`),
	regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	alnumRune     = regexp.MustCompile(`[a-zA-Z0-9]`)
)

// IsPlausibleResume reports whether text looks like real resume content.
// It is a heuristic gate against empty scans, gibberish, and wrong file
// types, not a guarantee of correctness: it requires at least 100
// characters, 50 words, two resume indicators, five meaningful sentences,
// and a 60% alphanumeric character ratio.
func IsPlausibleResume(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 100 {
		return false
	}
	if len(strings.Fields(text)) < 50 {
		return false
	}

	indicators := 0
	for _, pattern := range resumeIndicators {
		if pattern.MatchString(text) {
			indicators++
		}
	}
	if indicators < 2 {
		return false
	}

	meaningful := 0
	for _, sentence := range sentenceSplit.Split(text, -1) {
		if len(strings.Fields(sentence)) >= 3 {
			meaningful++
		}
	}
	if meaningful < 5 {
		return false
	}

	total := len([]rune(text))
	alnum := len(alnumRune.FindAllString(text, -1))
	if total > 0 && float64(alnum)/float64(total) < 0.6 {
		return false
	}

	return true
}
