package flow

import (
	"strconv"
	"strings"

	"docsmith/internal/catalog"
)

// Well-known answer fields inspected for risk signals.
const (
	fieldPII         = "privacy.pii"
	fieldDataTypes   = "security.data_types"
	fieldRegulations = "compliance.regulations"
	fieldDeployModel = "deployment.model"
	fieldRegions     = "deployment.regions"
	fieldSLA         = "operations.sla"
	fieldUsers       = "scale.users"
	fieldTenancy     = "architecture.tenancy"
	fieldIntegra     = "integrations.external"
	fieldIndustry    = "business.industry"
)

// RiskFactors is the set of domain risk signals derived from the
// answers. It is recomputed from scratch on every analysis call; the
// analyzer never caches across answer changes.
type RiskFactors struct {
	HandlesPII         bool `json:"handles_pii"`
	HandlesHealthData  bool `json:"handles_health_data"`
	UnderCompliance    bool `json:"under_compliance"`
	MultiRegion        bool `json:"multi_region"`
	HandlesPaymentData bool `json:"handles_payment_data"`
	HighAvailability   bool `json:"high_availability"`
	LargeScale         bool `json:"large_scale"`
	MultiTenant        bool `json:"multi_tenant"`
	IntegrationCount   int  `json:"integration_count"`
	RegulatedIndustry  bool `json:"regulated_industry"`
}

// Per-factor score weights. Health and payment data outweigh bare PII;
// regulated industry and compliance obligations sit in between.
const (
	weightPII         = 4
	weightHealth      = 10
	weightPayment     = 10
	weightCompliance  = 7
	weightRegulated   = 7
	weightMultiRegion = 6
	weightHA          = 5
	weightScale       = 5
	weightTenancy     = 4
	weightIntegration = 2
)

var levelThresholds = map[catalog.ComplexityLevel]int{
	catalog.LevelMinimal:    0,
	catalog.LevelBasic:      6,
	catalog.LevelStandard:   12,
	catalog.LevelAdvanced:   20,
	catalog.LevelEnterprise: 32,
}

var levelMinAnswered = map[catalog.ComplexityLevel]int{
	catalog.LevelMinimal:    3,
	catalog.LevelBasic:      6,
	catalog.LevelStandard:   10,
	catalog.LevelAdvanced:   15,
	catalog.LevelEnterprise: 20,
}

// Per-level document sections and exposed tags. Both grow strictly with
// the tier; the two baseline sections and the foundation tag are always
// present.
var levelSections = map[catalog.ComplexityLevel][]string{
	catalog.LevelMinimal:    {"overview", "requirements"},
	catalog.LevelBasic:      {"overview", "requirements", "architecture"},
	catalog.LevelStandard:   {"overview", "requirements", "architecture", "security", "operations"},
	catalog.LevelAdvanced:   {"overview", "requirements", "architecture", "security", "operations", "compliance", "integrations"},
	catalog.LevelEnterprise: {"overview", "requirements", "architecture", "security", "operations", "compliance", "integrations", "scalability", "governance"},
}

var levelTags = map[catalog.ComplexityLevel][]string{
	catalog.LevelMinimal:    {catalog.FoundationTag},
	catalog.LevelBasic:      {catalog.FoundationTag, "architecture"},
	catalog.LevelStandard:   {catalog.FoundationTag, "architecture", "security", "operations"},
	catalog.LevelAdvanced:   {catalog.FoundationTag, "architecture", "security", "operations", "compliance", "data"},
	catalog.LevelEnterprise: {catalog.FoundationTag, "architecture", "security", "operations", "compliance", "data", "scale", "governance"},
}

var levelDescriptions = map[catalog.ComplexityLevel]string{
	catalog.LevelMinimal:    "Small project with no notable risk signals; the core questions suffice.",
	catalog.LevelBasic:      "Straightforward project with a few architectural decisions to capture.",
	catalog.LevelStandard:   "Production system with security and operational concerns worth documenting.",
	catalog.LevelAdvanced:   "Regulated or distributed system; compliance and integration detail required.",
	catalog.LevelEnterprise: "High-risk platform; the full catalog including governance applies.",
}

// regulatedIndustries are matched as substrings of the declared
// industry name.
var regulatedIndustries = []string{
	"healthcare", "medical", "pharma", "finance", "banking",
	"insurance", "government", "defense", "energy", "telecom",
}

// Analysis is the complexity recommendation for the current answers.
type Analysis struct {
	RecommendedLevel catalog.ComplexityLevel `json:"recommended_level"`
	Risk             RiskFactors             `json:"risk_factors"`
	Score            int                     `json:"score"`
	QuestionCount    int                     `json:"question_count"`
	Description      string                  `json:"description"`
}

// Analyze derives risk factors from the answers, scores them, and maps
// the score to the recommended tier. When a tag schema is supplied the
// declared weight of every answered field is added before mapping, so
// depth of detail raises the tier alongside raw risk.
func Analyze(answers AnswerMap, schema *catalog.TagSchema) Analysis {
	risk := DeriveRiskFactors(answers)
	score := riskScore(risk)
	if schema != nil {
		for field := range answers {
			score += schema.FieldWeight(field)
		}
	}
	level := ScoreToLevel(score)
	return Analysis{
		RecommendedLevel: level,
		Risk:             risk,
		Score:            score,
		QuestionCount:    len(answers),
		Description:      levelDescriptions[level],
	}
}

// DeriveRiskFactors computes the risk signals purely from pattern
// checks against the well-known fields. Absent or oddly shaped answers
// simply leave their factor unset.
func DeriveRiskFactors(answers AnswerMap) RiskFactors {
	var risk RiskFactors

	if v, ok := answers.Get(fieldPII); ok {
		risk.HandlesPII = truthy(v, true)
	}

	if v, ok := answers.Get(fieldDataTypes); ok {
		if list, ok := asList(v); ok {
			for _, item := range list {
				s := strings.ToLower(CanonicalString(item))
				switch {
				case strings.Contains(s, "health") || strings.Contains(s, "phi") || strings.Contains(s, "medical"):
					risk.HandlesHealthData = true
				case strings.Contains(s, "payment") || strings.Contains(s, "pci") || strings.Contains(s, "card"):
					risk.HandlesPaymentData = true
				case s == "pii" || strings.Contains(s, "personal"):
					risk.HandlesPII = true
				}
			}
		}
	}

	if v, ok := answers.Get(fieldRegulations); ok {
		if list, ok := asList(v); ok && len(list) > 0 {
			risk.UnderCompliance = true
		}
	}

	if v, ok := answers.Get(fieldDeployModel); ok {
		if s, ok := v.(string); ok && strings.EqualFold(s, "multi-region") {
			risk.MultiRegion = true
		}
	}
	if v, ok := answers.Get(fieldRegions); ok {
		if list, ok := asList(v); ok && len(list) > 1 {
			risk.MultiRegion = true
		}
	}

	if v, ok := answers.Get(fieldSLA); ok {
		risk.HighAvailability = slaTarget(v) >= 99.9
	}

	if v, ok := answers.Get(fieldUsers); ok {
		if n, ok := asNumber(v); ok && n >= 100000 {
			risk.LargeScale = true
		} else if s, ok := v.(string); ok {
			s = strings.ToLower(s)
			risk.LargeScale = s == "large" || s == "massive"
		}
	}

	if v, ok := answers.Get(fieldTenancy); ok {
		if s, ok := v.(string); ok {
			s = strings.ToLower(s)
			risk.MultiTenant = s == "multi-tenant" || s == "multi"
		}
	}

	if v, ok := answers.Get(fieldIntegra); ok {
		if list, ok := asList(v); ok {
			risk.IntegrationCount = len(list)
		} else if n, ok := asNumber(v); ok && n > 0 {
			risk.IntegrationCount = int(n)
		}
	}

	if v, ok := answers.Get(fieldIndustry); ok {
		if s, ok := v.(string); ok {
			name := strings.ToLower(s)
			for _, industry := range regulatedIndustries {
				if strings.Contains(name, industry) {
					risk.RegulatedIndustry = true
					break
				}
			}
		}
	}

	return risk
}

// slaTarget parses an availability target such as 99.99, "99.99" or
// "99.99%". Unparseable values yield 0.
func slaTarget(v interface{}) float64 {
	if n, ok := asNumber(v); ok {
		return n
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return 0
}

// riskScore starts from the lowest tier's threshold and adds the fixed
// weight for every present factor. Integrations contribute linearly.
func riskScore(risk RiskFactors) int {
	score := levelThresholds[catalog.LevelMinimal]
	if risk.HandlesPII {
		score += weightPII
	}
	if risk.HandlesHealthData {
		score += weightHealth
	}
	if risk.HandlesPaymentData {
		score += weightPayment
	}
	if risk.UnderCompliance {
		score += weightCompliance
	}
	if risk.RegulatedIndustry {
		score += weightRegulated
	}
	if risk.MultiRegion {
		score += weightMultiRegion
	}
	if risk.HighAvailability {
		score += weightHA
	}
	if risk.LargeScale {
		score += weightScale
	}
	if risk.MultiTenant {
		score += weightTenancy
	}
	score += risk.IntegrationCount * weightIntegration
	return score
}

// ScoreToLevel maps a score to the highest tier whose threshold does
// not exceed it. A score exactly on a threshold belongs to that tier.
func ScoreToLevel(score int) catalog.ComplexityLevel {
	level := catalog.LevelMinimal
	for _, l := range catalog.Levels() {
		if score >= levelThresholds[l] {
			level = l
		}
	}
	return level
}

// LevelThreshold returns the minimum score for a tier.
func LevelThreshold(l catalog.ComplexityLevel) int {
	return levelThresholds[l]
}

// MinAnsweredFields returns how many answered fields a tier needs
// before its data is considered complete. This gates completeness, not
// the recommendation itself.
func MinAnsweredFields(l catalog.ComplexityLevel) int {
	return levelMinAnswered[l]
}

// SectionsForLevel returns the document sections revealed at a tier.
// The result grows as a strict superset with the tier.
func SectionsForLevel(l catalog.ComplexityLevel) []string {
	return append([]string(nil), levelSections[l]...)
}

// TagsForLevel returns the tags exposed at a tier, always including the
// foundation tag.
func TagsForLevel(l catalog.ComplexityLevel) []string {
	return append([]string(nil), levelTags[l]...)
}
