package types

// Match categories derived from the compatibility score. CategoryError is a
// sentinel outside the normal three-tier mapping: it marks results produced
// by the orchestrator's failure path, not a genuinely poor match.
const (
	CategoryPoor     = "Poor Match"
	CategoryModerate = "Moderate Match"
	CategoryStrong   = "Strong Match"
	CategoryError    = "Error"
)

// Canonical skill-gap tiers. These three keys are always present in
// AnalysisResult.SkillGaps, each possibly mapping to an empty list.
const (
	GapCritical   = "Critical"
	GapImportant  = "Important"
	GapNiceToHave = "Nice-to-have"
)

// GapTiers returns the canonical tier names in priority order.
func GapTiers() []string {
	return []string{GapCritical, GapImportant, GapNiceToHave}
}

// MatchInput represents the input for a compatibility analysis.
type MatchInput struct {
	ResumeText string `json:"resumeText"`
	JobText    string `json:"jobText"`
}

// JobPosting is the structured form of a job description, produced once per
// analysis by the job-posting parser and immutable afterwards.
// TechnicalSkills and SoftSkills partition the extracted skill vocabulary:
// every extracted skill appears in exactly one of the two lists.
type JobPosting struct {
	RawText             string   `json:"rawText"`
	Title               string   `json:"title"`
	Requirements        []string `json:"requirements"`
	TechnicalSkills     []string `json:"technicalSkills"`
	SoftSkills          []string `json:"softSkills"`
	ExperienceLevel     string   `json:"experienceLevel"`
	KeyResponsibilities []string `json:"keyResponsibilities"`
}

// ServiceReply is the parsed (or salvaged) reply from the reasoning service.
// Every field carries a usable default even when the raw reply was
// unparseable, so downstream code never branches on missing fields.
type ServiceReply struct {
	CompatibilityScore int                 `json:"compatibility_score"`
	MatchingSkills     []string            `json:"matching_skills"`
	MissingSkills      []string            `json:"missing_skills"`
	SkillGaps          map[string][]string `json:"skill_gaps"`
	Suggestions        []string            `json:"suggestions"`
	AnalysisSummary    string              `json:"analysis_summary"`
}

// NewServiceReply returns a reply with every field at its documented
// default: zero score, empty skill lists, and all three gap tiers present.
func NewServiceReply() *ServiceReply {
	return &ServiceReply{
		CompatibilityScore: 0,
		MatchingSkills:     []string{},
		MissingSkills:      []string{},
		SkillGaps: map[string][]string{
			GapCritical:   {},
			GapImportant:  {},
			GapNiceToHave: {},
		},
		Suggestions:     []string{},
		AnalysisSummary: "",
	}
}

// AnalysisResult is the contract returned to every caller of the match
// orchestrator. Constructed exactly once per analysis and returned by value.
type AnalysisResult struct {
	Score           int                 `json:"score"`
	MatchCategory   string              `json:"matchCategory"`
	MatchingSkills  []string            `json:"matchingSkills"`
	MissingSkills   []string            `json:"missingSkills"`
	SkillGaps       map[string][]string `json:"skillGaps"`
	Suggestions     []string            `json:"suggestions"`
	ProcessingTime  float64             `json:"processingTime"`
	AnalysisSummary string              `json:"analysisSummary,omitempty"`
}

// MatchCategory maps a 0-100 compatibility score onto the three-way match
// classification. The boundaries are exact: 29 is poor, 30 and 70 are
// moderate, 71 is strong.
func MatchCategory(score int) string {
	switch {
	case score < 30:
		return CategoryPoor
	case score <= 70:
		return CategoryModerate
	default:
		return CategoryStrong
	}
}

// ClampScore bounds a score into the valid 0-100 range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// TokenUsage reports token consumption for a single reasoning call.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}
