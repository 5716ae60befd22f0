package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyKnownDomains(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://careers.google.com/jobs/results/123", "Google"},
		{"https://jobs.apple.com/en-gb/details/200554", "Apple"},
		{"https://www.amazon.jobs/en/jobs/123", "Amazon"},
		{"https://jobs.hsbc.co.uk/job/456", "HSBC"},
		{"https://careers.nhs.uk/vacancy/789", "NHS"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := Company(tt.url)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompanyPatternRules(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.linkedin.com/company/acme-widgets", "Acme Widgets"},
		{"https://www.linkedin.com/company/acme-widgets/jobs", "Acme Widgets"},
		{"https://uk.indeed.com/cmp/hays-recruitment", "Hays Recruitment"},
		{"https://indeed.co.uk/cmp/monzo", "Monzo"},
		{"https://www.glassdoor.co.uk/Overview/Working-at-Revolut-EI_IE1234.htm", "Revolut"},
		{"https://www.reed.co.uk/company/capita/12", "Capita"},
		{"https://www.totaljobs.com/company/deloitte", "Deloitte"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := Company(tt.url)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompanyCareerSubdomain(t *testing.T) {
	got, ok := Company("https://monzo.careers.example.com/roles/1")
	require.True(t, ok)
	assert.Equal(t, "Monzo", got)

	got, ok = Company("https://revolut.workday.example.com/req/2")
	require.True(t, ok)
	assert.Equal(t, "Revolut", got)
}

func TestCompanyRefusesUnreliableURLs(t *testing.T) {
	// Job detail views never carry the company in the path; guessing would
	// corrupt the downstream sponsor check.
	urls := []string{
		"https://uk.indeed.com/viewjob?jk=abc123",
		"https://indeed.co.uk/viewjob?jk=xyz",
		"https://www.linkedin.com/jobs/view/3791234567",
		"https://www.glassdoor.com/job/london-software-engineer-jobs",
		"https://www.reed.co.uk/jobs/software-engineer/51234567",
	}
	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			got, ok := Company(u)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestCompanyUnknownURL(t *testing.T) {
	_, ok := Company("https://example.com/some/random/page")
	assert.False(t, ok)

	_, ok = Company("not a url at all")
	assert.False(t, ok)
}

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"passes through", "Acme Widgets", "Acme Widgets", true},
		{"strips legal suffix", "Acme Widgets Ltd", "Acme Widgets", true},
		{"strips noise words case-insensitively", "acme CAREERS plc", "acme", true},
		{"rejects empty", "", "", false},
		{"rejects noise only", "Jobs Careers", "", false},
		{"rejects too short", "Ltd X", "", false},
		{"rejects no letters", "123 456", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanCompanyName(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternSourcesOrder(t *testing.T) {
	// The rule list is ordered by reliability; tests pin the order so a
	// reshuffle is a conscious change.
	assert.Equal(t, []string{"linkedin", "indeed", "glassdoor", "reed", "totaljobs"}, PatternSources())
}
