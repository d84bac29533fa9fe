package jobpost

import (
	"regexp"
	"strings"
)

// Curated technical vocabulary: languages, frameworks, databases, cloud,
// devops, tooling, testing, data and analytics.
var technicalKeywords = map[string]struct{}{
	// Programming languages
	"python": {}, "java": {}, "javascript": {}, "typescript": {}, "c++": {},
	"c#": {}, "php": {}, "ruby": {}, "go": {}, "rust": {}, "swift": {},
	"kotlin": {}, "scala": {}, "r": {}, "matlab": {}, "sql": {}, "html": {},
	"css": {}, "sass": {}, "less": {},

	// Frameworks and libraries
	"react": {}, "angular": {}, "vue": {}, "node.js": {}, "express": {},
	"django": {}, "flask": {}, "spring": {}, "laravel": {}, "rails": {},
	"asp.net": {}, ".net": {}, "jquery": {}, "bootstrap": {}, "tailwind": {},
	"next.js": {}, "nuxt.js": {},

	// Databases
	"mysql": {}, "postgresql": {}, "mongodb": {}, "redis": {},
	"elasticsearch": {}, "cassandra": {}, "dynamodb": {}, "oracle": {},
	"sqlite": {}, "mariadb": {}, "neo4j": {}, "influxdb": {},

	// Cloud and DevOps
	"aws": {}, "azure": {}, "gcp": {}, "docker": {}, "kubernetes": {},
	"jenkins": {}, "gitlab": {}, "github": {}, "terraform": {}, "ansible": {},
	"chef": {}, "puppet": {}, "vagrant": {}, "nginx": {}, "apache": {},
	"linux": {}, "unix": {}, "bash": {},

	// Tools and process
	"git": {}, "svn": {}, "jira": {}, "confluence": {}, "slack": {},
	"postman": {}, "swagger": {}, "graphql": {}, "rest": {}, "api": {},
	"microservices": {}, "ci/cd": {}, "tdd": {}, "bdd": {}, "agile": {},
	"scrum": {}, "kanban": {},

	// Testing
	"jest": {}, "mocha": {}, "chai": {}, "cypress": {}, "selenium": {},
	"junit": {}, "pytest": {}, "rspec": {},

	// Data and analytics
	"pandas": {}, "numpy": {}, "scikit-learn": {}, "tensorflow": {},
	"pytorch": {}, "spark": {}, "hadoop": {}, "kafka": {}, "tableau": {},
	"power bi": {}, "excel": {}, "powerpoint": {},
}

var softKeywords = map[string]struct{}{
	"communication": {}, "leadership": {}, "teamwork": {}, "collaboration": {},
	"problem-solving": {}, "analytical": {}, "creative": {}, "innovative": {},
	"adaptable": {}, "flexible": {}, "organized": {}, "detail-oriented": {},
	"time management": {}, "project management": {}, "mentoring": {},
	"presentation": {}, "negotiation": {}, "customer service": {},
	"interpersonal": {}, "emotional intelligence": {}, "critical thinking": {},
	"decision making": {}, "conflict resolution": {}, "multitasking": {},
	"self-motivated": {}, "proactive": {}, "reliable": {}, "accountable": {},
	"initiative": {},
}

var technicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d+\+?\s*years?\b`),
	regexp.MustCompile(`\bapi\b`),
	regexp.MustCompile(`\bsdk\b`),
	regexp.MustCompile(`\bide\b`),
	regexp.MustCompile(`\borm\b`),
	regexp.MustCompile(`\bmvc\b`),
	regexp.MustCompile(`\bui/ux\b`),
	regexp.MustCompile(`\bfrontend\b`),
	regexp.MustCompile(`\bbackend\b`),
	regexp.MustCompile(`\bfull.?stack\b`),
	regexp.MustCompile(`\bdatabase\b`),
	regexp.MustCompile(`\bcloud\b`),
	regexp.MustCompile(`\bdevops\b`),
	regexp.MustCompile(`\bmobile\b`),
	regexp.MustCompile(`\bweb\s+development\b`),
	regexp.MustCompile(`\bsoftware\s+development\b`),
	regexp.MustCompile(`\bversion\s+control\b`),
	regexp.MustCompile(`\bunit\s+testing\b`),
}

var softPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bstrong\b`),
	regexp.MustCompile(`\bexcellent\b`),
	regexp.MustCompile(`\beffective\b`),
	regexp.MustCompile(`\bability\s+to\b`),
	regexp.MustCompile(`\bskills?\s+in\b`),
	regexp.MustCompile(`\bexperience\s+working\s+with\b`),
}

// Indicators that push an otherwise ambiguous skill to technical. The
// technical bias is a policy choice: undercounting technical requirements
// is worse than overcounting them.
var technicalIndicators = []string{"experience", "knowledge", "proficiency", "familiarity"}

// ClassifySkills partitions skills into technical and soft lists. Every
// input element lands in exactly one list and first-seen order is kept.
func ClassifySkills(skills []string) (technical, soft []string) {
	technical = []string{}
	soft = []string{}

	for _, skill := range skills {
		if isTechnical(skill) {
			technical = append(technical, skill)
		} else {
			soft = append(soft, skill)
		}
	}
	return technical, soft
}

func isTechnical(skill string) bool {
	lower := strings.ToLower(strings.TrimSpace(skill))

	for keyword := range technicalKeywords {
		if matchesKeyword(lower, keyword) {
			return true
		}
	}
	for _, pattern := range technicalPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	for keyword := range softKeywords {
		if matchesKeyword(lower, keyword) {
			return false
		}
	}
	for _, pattern := range softPatterns {
		if pattern.MatchString(lower) {
			return false
		}
	}

	for _, indicator := range technicalIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// matchesKeyword reports whether keyword occurs in skill as a delimited
// term, or skill is a long-enough fragment of the keyword itself ("mongo"
// matches "mongodb"). Boundary checks keep one-letter keywords like "r"
// from matching inside unrelated words.
func matchesKeyword(skill, keyword string) bool {
	if skill == keyword {
		return true
	}
	for start := 0; ; {
		idx := strings.Index(skill[start:], keyword)
		if idx < 0 {
			break
		}
		idx += start
		end := idx + len(keyword)
		if boundaryAt(skill, idx-1) && boundaryAt(skill, end) {
			return true
		}
		start = idx + 1
	}
	return len(skill) >= 4 && strings.Contains(keyword, skill)
}

func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9')
}
