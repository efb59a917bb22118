package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Component category names. Every ScoreResult carries all of them.
const (
	componentJobRole    = "jobRole"
	componentUrgency    = "urgency"
	componentEngagement = "engagement"
	componentEnrichment = "enrichment"
	componentNegative   = "negative"
)

// executiveTitles match the full jobRole weight; seniorTitles a reduced
// share. Matching is case-insensitive substring over the lead's title.
var (
	executiveTitles = []string{"ceo", "cto", "cfo", "coo", "chief", "founder", "co-founder", "president", "owner"}
	seniorTitles    = []string{"vp", "vice president", "director", "head of"}
)

// seniorTitleShare is the fraction of the jobRole weight a senior
// (non-executive) title contributes.
const seniorTitleShare = 0.6

// urgencyFractions maps the categorical urgency indicator to a fraction of
// the urgency weight.
var urgencyFractions = map[string]float64{
	"immediate": 1.0,
	"asap":      1.0,
	"high":      1.0,
	"soon":      0.6,
	"medium":    0.6,
	"low":       0.25,
	"exploring": 0.25,
}

// engagementFractions maps the categorical engagement indicator to a
// fraction of the engagement weight.
var engagementFractions = map[string]float64{
	"hot":    1.0,
	"high":   1.0,
	"warm":   0.6,
	"medium": 0.6,
	"cold":   0.2,
	"low":    0.2,
}

// domainPattern is a structural check only: labels of letters, digits and
// hyphens with at least one dot. Deliverability is not the scorer's concern.
var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)

// Score computes the base score for a lead: four weighted signal families
// plus negative penalties. The result always carries every component
// category (zero-filled), a deduplicated tag set and one trace line per
// signal that fired. The returned score is clamped to [0,100].
func Score(lead *Lead, cfg *Config, lists Lists) ScoreResult {
	result := ScoreResult{
		Components: emptyComponents(),
		Tags:       []string{},
		Trace:      []string{},
	}

	if lead == nil {
		result.Components = map[string]int{}
		result.Tags = append(result.Tags, TagInvalidData)
		result.Trace = append(result.Trace, "No lead data supplied")
		return result
	}

	tags := newTagSet()

	scoreJobRole(lead, cfg, &result)
	scoreUrgency(lead, cfg, &result)
	scoreEngagement(lead, cfg, &result)
	scoreEnrichment(lead, cfg, &result, tags)
	scoreNegatives(lead, cfg, lists, &result, tags)

	total := 0
	for _, points := range result.Components {
		total += points
	}
	result.Score = Clamp(total)
	result.Tags = tags.values()

	return result
}

// scoreJobRole inspects the free-text title for executive vocabulary.
func scoreJobRole(lead *Lead, cfg *Config, result *ScoreResult) {
	title := leadTitle(lead)
	if title == "" {
		return
	}

	lowered := strings.ToLower(title)
	points := 0
	switch {
	case containsAny(lowered, executiveTitles):
		points = cfg.Weights.JobRole
	case containsAny(lowered, seniorTitles):
		points = int(float64(cfg.Weights.JobRole) * seniorTitleShare)
	}

	if points != 0 {
		result.Components[componentJobRole] = points
		result.Trace = append(result.Trace, fmt.Sprintf("Job role signal: %q (+%d)", title, points))
	}
}

// scoreUrgency maps the categorical urgency indicator to a fraction of the
// urgency weight.
func scoreUrgency(lead *Lead, cfg *Config, result *ScoreResult) {
	indicator := stringField(lead, "urgency", "timeline", "timeframe")
	if indicator == "" {
		return
	}

	fraction, ok := urgencyFractions[strings.ToLower(indicator)]
	if !ok {
		return
	}

	points := int(float64(cfg.Weights.Urgency) * fraction)
	if points != 0 {
		result.Components[componentUrgency] = points
		result.Trace = append(result.Trace, fmt.Sprintf("Urgency signal: %q (+%d)", indicator, points))
	}
}

// scoreEngagement maps the categorical engagement indicator to a fraction
// of the engagement weight.
func scoreEngagement(lead *Lead, cfg *Config, result *ScoreResult) {
	indicator := stringField(lead, "engagement", "engagementLevel", "interest")
	if indicator == "" {
		return
	}

	fraction, ok := engagementFractions[strings.ToLower(indicator)]
	if !ok {
		return
	}

	points := int(float64(cfg.Weights.Engagement) * fraction)
	if points != 0 {
		result.Components[componentEngagement] = points
		result.Trace = append(result.Trace, fmt.Sprintf("Engagement signal: %q (+%d)", indicator, points))
	}
}

// scoreEnrichment looks up the company size and industry tiers in the
// configured tables. Tiers may sit directly on the lead's fields or nested
// under an "enrichment" sub-object.
func scoreEnrichment(lead *Lead, cfg *Config, result *ScoreResult, tags *tagSet) {
	points := 0

	if tier := enrichmentField(lead, "companySize", "company_size"); tier != "" {
		if value, ok := lookupTier(cfg.Enrichment.CompanySize, tier); ok {
			points += value
			result.Trace = append(result.Trace, fmt.Sprintf("Company size tier: %q (+%d)", tier, value))
			tags.add(TagEnriched)
		}
	}

	if tier := enrichmentField(lead, "industry", "industryTier"); tier != "" {
		if value, ok := lookupTier(cfg.Enrichment.Industry, tier); ok {
			points += value
			result.Trace = append(result.Trace, fmt.Sprintf("Industry tier: %q (+%d)", tier, value))
			tags.add(TagEnriched)
		}
	}

	if points != 0 {
		result.Components[componentEnrichment] = points
	}
}

// scoreNegatives detects the four penalty signals independently. Each one
// appends a tag and a trace line when triggered.
func scoreNegatives(lead *Lead, cfg *Config, lists Lists, result *ScoreResult, tags *tagSet) {
	penalty := 0
	domain := leadDomain(lead)

	if domain != "" {
		if _, ok := lists.CompetitorDomains[domain]; ok {
			penalty -= cfg.Negative.Competitor
			tags.add(TagCompetitor)
			result.Trace = append(result.Trace, "Competitor penalty applied")
		}

		if _, ok := lists.FreeEmailProviders[domain]; ok {
			penalty -= cfg.Negative.FreeEmail
			tags.add(TagFreeEmail)
			result.Trace = append(result.Trace, "Free email penalty")
		}

		if !domainPattern.MatchString(domain) {
			penalty -= cfg.Negative.InvalidDomain
			tags.add(TagInvalidDomain)
			result.Trace = append(result.Trace, "Invalid domain penalty")
		}
	} else if lead.Email != "" {
		// An email without a parseable domain is structurally invalid.
		penalty -= cfg.Negative.InvalidDomain
		tags.add(TagInvalidDomain)
		result.Trace = append(result.Trace, "Invalid domain penalty")
	}

	if hasSpamIndicators(lead, lists.SpamKeywords) {
		penalty -= cfg.Negative.Spam
		tags.add(TagSpam)
		result.Trace = append(result.Trace, "Spam indicators detected")
	}

	if penalty != 0 {
		result.Components[componentNegative] = penalty
	}
}

// hasSpamIndicators checks the lead's text surface for spam markers: a
// filled honeypot field or a configured spam keyword in name/company/email
// local part.
func hasSpamIndicators(lead *Lead, keywords []string) bool {
	if honeypot, ok := Resolve(lead, "fields._hp"); ok {
		if text, ok := asString(honeypot); ok && strings.TrimSpace(text) != "" {
			return true
		}
	}

	local := lead.Email
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}

	haystack := strings.ToLower(strings.Join([]string{local, lead.Name, lead.Company}, " "))
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

// leadTitle returns the lead's job title from the common field spellings.
func leadTitle(lead *Lead) string {
	return stringField(lead, "title", "jobTitle", "job_title", "role")
}

// leadDomain returns the lead's normalized email domain, preferring the
// explicit Domain attribute over the email address.
func leadDomain(lead *Lead) string {
	if lead.Domain != "" {
		return strings.ToLower(strings.TrimSpace(lead.Domain))
	}
	at := strings.LastIndex(lead.Email, "@")
	if at < 0 || at == len(lead.Email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(lead.Email[at+1:]))
}

// stringField resolves the first of the given field names under "fields."
// that yields a non-empty string.
func stringField(lead *Lead, names ...string) string {
	for _, name := range names {
		if value, ok := Resolve(lead, "fields."+name); ok {
			if text, ok := asString(value); ok && strings.TrimSpace(text) != "" {
				return strings.TrimSpace(text)
			}
		}
	}
	return ""
}

// enrichmentField resolves an enrichment tier either directly on fields or
// nested under fields.enrichment.
func enrichmentField(lead *Lead, names ...string) string {
	for _, name := range names {
		for _, path := range []string{"fields." + name, "fields.enrichment." + name} {
			if value, ok := Resolve(lead, path); ok {
				if text, ok := asString(value); ok && strings.TrimSpace(text) != "" {
					return strings.TrimSpace(text)
				}
			}
		}
	}
	return ""
}

// lookupTier finds a tier in a lookup table, case-insensitively.
func lookupTier(table map[string]int, tier string) (int, bool) {
	if table == nil {
		return 0, false
	}
	if value, ok := table[tier]; ok {
		return value, true
	}
	lowered := strings.ToLower(tier)
	for key, value := range table {
		if strings.ToLower(key) == lowered {
			return value, true
		}
	}
	return 0, false
}

// Clamp bounds a score to [0,100].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func emptyComponents() map[string]int {
	return map[string]int{
		componentJobRole:    0,
		componentUrgency:    0,
		componentEngagement: 0,
		componentEnrichment: 0,
		componentNegative:   0,
	}
}

// containsAny checks if s contains any of the keywords.
func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// tagSet deduplicates tags while preserving first-seen order.
type tagSet struct {
	seen  map[string]struct{}
	order []string
}

func newTagSet() *tagSet {
	return &tagSet{seen: map[string]struct{}{}}
}

func (t *tagSet) add(tag string) {
	if _, ok := t.seen[tag]; ok {
		return
	}
	t.seen[tag] = struct{}{}
	t.order = append(t.order, tag)
}

func (t *tagSet) values() []string {
	if t.order == nil {
		return []string{}
	}
	return t.order
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	sort.Strings(out)
	return out
}
