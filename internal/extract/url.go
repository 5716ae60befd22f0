// Package extract derives candidate company names from job-posting URLs.
// Accuracy is prioritized over coverage: a wrong extraction silently
// corrupts the downstream sponsor check, so ambiguous URLs yield nothing.
package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// knownDomains maps careers/job-board hosts straight to a canonical
// company name. Matching any of these is the highest-confidence path.
var knownDomains = map[string]string{
	"careers.google.com":       "Google",
	"jobs.apple.com":           "Apple",
	"careers.microsoft.com":    "Microsoft",
	"amazon.jobs":              "Amazon",
	"careers.barclays.co.uk":   "Barclays",
	"jobs.hsbc.co.uk":          "HSBC",
	"careers.nhs.uk":           "NHS",
	"jobs.tesco.com":           "Tesco",
	"careers.sainsburys.co.uk": "Sainsburys",
}

// patternRule extracts a company-bearing path segment from a URL.
type patternRule struct {
	source string
	re     *regexp.Regexp
}

// patternRules are evaluated in order; the first match wins. Keeping the
// list data-driven lets tests enumerate it independently of control flow.
var patternRules = []patternRule{
	{"linkedin", regexp.MustCompile(`linkedin\.com/company/([^/]+)/?(?:jobs|about)?$`)},
	{"indeed", regexp.MustCompile(`indeed\.(?:com|co\.uk)/cmp/([^/]+)`)},
	{"glassdoor", regexp.MustCompile(`glassdoor\.(?:com|co\.uk)/overview/working-at-([^-]+)-`)},
	{"reed", regexp.MustCompile(`reed\.co\.uk/company/([^/]+)`)},
	{"totaljobs", regexp.MustCompile(`totaljobs\.com/company/([^/]+)`)},
}

// careerSubdomain matches hosts shaped like <company>.careers.example.com.
var careerSubdomain = regexp.MustCompile(`^([^.]+)\.(?:careers?|jobs|apply|workday)\.`)

// unreliablePatterns are job detail-view URL shapes that never carry the
// company in the path. Refusing them outright avoids false matches.
var unreliablePatterns = []string{
	"indeed.com/viewjob",
	"indeed.co.uk/viewjob",
	"linkedin.com/jobs/view",
	"glassdoor.com/job",
	"reed.co.uk/jobs/",
}

// noiseWords are stripped (whole-word, case-insensitive) from extracted
// names before validation.
var noiseWords = regexp.MustCompile(`(?i)\b(?:Jobs|Careers|Ltd|Limited|Inc|Corp|Corporation|PLC|LLC)\b`)

// Company attempts to derive a company name from a job-posting URL. The
// second return value is false when no confident extraction exists; that
// is an expected outcome, never an error. No network access happens here.
func Company(rawURL string) (string, bool) {
	urlLower := strings.ToLower(rawURL)
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.ToLower(u.Hostname())
	}

	for domain, company := range knownDomains {
		if strings.Contains(host, domain) {
			return company, true
		}
	}

	for _, rule := range patternRules {
		m := rule.re.FindStringSubmatch(urlLower)
		if m == nil {
			continue
		}
		name := titleCaser.String(strings.ReplaceAll(m[1], "-", " "))
		if cleaned, ok := CleanCompanyName(name); ok {
			return cleaned, true
		}
	}

	if m := careerSubdomain.FindStringSubmatch(host); m != nil {
		if cleaned, ok := CleanCompanyName(titleCaser.String(m[1])); ok {
			return cleaned, true
		}
	}

	for _, p := range unreliablePatterns {
		if strings.Contains(urlLower, p) {
			return "", false
		}
	}

	return "", false
}

// CleanCompanyName strips noise words and validates the remainder. Names
// shorter than two characters or without any letter are rejected.
func CleanCompanyName(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	cleaned := strings.TrimSpace(noiseWords.ReplaceAllString(name, ""))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if len(cleaned) < 2 {
		return "", false
	}
	if !strings.ContainsFunc(cleaned, unicode.IsLetter) {
		return "", false
	}
	return cleaned, true
}

// PatternSources lists the rule identifiers in evaluation order, for
// diagnostics and tests.
func PatternSources() []string {
	sources := make([]string, len(patternRules))
	for i, r := range patternRules {
		sources[i] = r.source
	}
	return sources
}
