package match

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"resumatch/internal/types"
)

// fallbackScore matches a percentage or an explicit "score: N" mention in
// free text, used only when the reply carries no parseable JSON.
var fallbackScore = regexp.MustCompile(`(\d{1,3})%|\bscore[:\s]*(\d{1,3})`)

// ParseReply interprets the raw reply text from the reasoning service.
// Services sometimes wrap the JSON object in prose, so the parser takes
// the span from the first '{' to the last '}'. A reply with no usable
// JSON is handed to salvageReply; ParseReply never fails.
func ParseReply(raw string) *types.ServiceReply {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return salvageReply(raw)
	}

	var parsed struct {
		CompatibilityScore json.Number         `json:"compatibility_score"`
		MatchingSkills     []string            `json:"matching_skills"`
		MissingSkills      []string            `json:"missing_skills"`
		SkillGaps          map[string][]string `json:"skill_gaps"`
		Suggestions        []string            `json:"suggestions"`
		AnalysisSummary    string              `json:"analysis_summary"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return salvageReply(raw)
	}

	reply := types.NewServiceReply()
	if score, err := parsed.CompatibilityScore.Int64(); err == nil {
		reply.CompatibilityScore = types.ClampScore(int(score))
	} else if f, err := parsed.CompatibilityScore.Float64(); err == nil {
		reply.CompatibilityScore = types.ClampScore(int(f))
	}
	if parsed.MatchingSkills != nil {
		reply.MatchingSkills = compactStrings(parsed.MatchingSkills)
	}
	if parsed.MissingSkills != nil {
		reply.MissingSkills = compactStrings(parsed.MissingSkills)
	}
	reply.SkillGaps = NormalizeGapTiers(parsed.SkillGaps)
	if parsed.Suggestions != nil {
		reply.Suggestions = compactStrings(parsed.Suggestions)
	}
	reply.AnalysisSummary = parsed.AnalysisSummary

	return reply
}

// salvageReply recovers what it can from a reply that carried no parseable
// JSON: a score mentioned in the text, and the start of the raw reply as a
// diagnostic suggestion.
func salvageReply(raw string) *types.ServiceReply {
	reply := types.NewServiceReply()
	reply.AnalysisSummary = "Failed to parse structured response"

	if m := fallbackScore.FindStringSubmatch(strings.ToLower(raw)); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		if score, err := strconv.Atoi(digits); err == nil {
			reply.CompatibilityScore = types.ClampScore(score)
		}
	}

	prefix := raw
	if len(prefix) > 200 {
		prefix = prefix[:200]
	}
	reply.Suggestions = []string{
		fmt.Sprintf("Raw reply (parsing failed): %s...", prefix),
	}

	return reply
}

// NormalizeGapTiers coerces a skill-gap map onto the closed three-tier
// schema: all three canonical tiers present, unknown tiers dropped, empty
// entries removed.
func NormalizeGapTiers(gaps map[string][]string) map[string][]string {
	result := map[string][]string{
		types.GapCritical:   {},
		types.GapImportant:  {},
		types.GapNiceToHave: {},
	}
	for _, tier := range types.GapTiers() {
		if skills, ok := gaps[tier]; ok {
			result[tier] = compactStrings(skills)
		}
	}
	return result
}

// compactStrings drops empty entries and trims the rest
func compactStrings(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
