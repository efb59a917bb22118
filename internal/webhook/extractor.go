package webhook

import (
	"regexp"
	"strings"
)

// ExtractedFields holds the fields extracted from raw form data via
// best-effort label matching.
type ExtractedFields struct {
	Name     string
	Email    string
	Company  string
	Phone    string
	Title    string
	Message  string
	Honeypot string
	UTM      map[string]string
	Extra    map[string]any
}

// IsIncomplete reports whether the submission is missing fields the
// scoring pipeline draws on (name or company). An email address is
// required outright; submissions without one are not turned into leads.
func (e ExtractedFields) IsIncomplete() bool {
	return e.Name == "" || e.Company == ""
}

// ExtractFields performs best-effort field extraction from a flat string
// map of form data. Labels are matched loosely so the same extractor works
// across arbitrary third-party forms. Unrecognized fields are preserved in
// Extra so custom rules can still target them.
func ExtractFields(data map[string]string) ExtractedFields {
	result := ExtractedFields{
		UTM:   map[string]string{},
		Extra: map[string]any{},
	}

	for key, value := range data {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(key))

		switch {
		case strings.HasPrefix(k, "utm_"):
			result.UTM[strings.TrimPrefix(k, "utm_")] = value
		case matchesAny(k, honeypotPatterns):
			result.Honeypot = value
		case matchesAny(k, namePatterns):
			result.Name = value
		case matchesAny(k, emailPatterns):
			if emailRegex.MatchString(value) {
				result.Email = strings.ToLower(value)
			}
		case matchesAny(k, companyPatterns):
			result.Company = value
		case matchesAny(k, phonePatterns):
			result.Phone = value
		case matchesAny(k, titlePatterns):
			result.Title = value
		case matchesAny(k, messagePatterns):
			result.Message = value
		default:
			result.Extra[k] = value
		}
	}

	return result
}

// Field label patterns matched loosely against form keys.
var (
	namePatterns     = []string{"name", "full_name", "fullname", "your_name", "your name", "contact_name", "first_name", "firstname"}
	emailPatterns    = []string{"email", "e-mail", "e_mail", "emailaddress", "email_address", "work_email", "business_email", "mail"}
	companyPatterns  = []string{"company", "company_name", "companyname", "organization", "organisation", "business", "employer", "firm"}
	phonePatterns    = []string{"phone", "tel", "telephone", "phonenumber", "phone_number", "mobile", "cell"}
	titlePatterns    = []string{"title", "job_title", "jobtitle", "role", "position", "job_role", "function"}
	messagePatterns  = []string{"message", "comment", "comments", "notes", "description", "question", "how_can_we_help", "details"}
	honeypotPatterns = []string{"_hp", "hp", "honeypot", "website_url", "fax"}
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func matchesAny(label string, patterns []string) bool {
	// Normalize: strip spaces, dashes, underscores for fuzzy matching
	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(label)
	for _, p := range patterns {
		pNormalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(p)
		if normalized == pNormalized {
			return true
		}
	}
	return false
}
