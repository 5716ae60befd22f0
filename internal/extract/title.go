package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// TitleFetcher scrapes a job-posting page for the hiring company. This is
// a best-effort auxiliary path: Company never touches the network, callers
// opt into fetching explicitly.
type TitleFetcher struct {
	client    *http.Client
	userAgent string
}

// NewTitleFetcher creates a TitleFetcher with a bounded request timeout.
func NewTitleFetcher() *TitleFetcher {
	return &TitleFetcher{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

var (
	titleBoardSuffix = regexp.MustCompile(`(?i) - (Indeed|LinkedIn|Glassdoor|Jobs).*$`)
	titlePipeSuffix  = regexp.MustCompile(` \|.*$`)
)

// FetchCompany downloads the page and tries, in order: an explicit
// data-company-name attribute, JSON-LD hiringOrganization, and finally
// <title> heuristics. Returns "" with a nil error when nothing confident
// is found.
func (f *TitleFetcher) FetchCompany(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "extract: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "extract: fetch page")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("extract: unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "extract: parse html")
	}

	if name, ok := doc.Find("[data-company-name]").First().Attr("data-company-name"); ok && name != "" {
		return name, nil
	}

	if name := companyFromJSONLD(doc, rawURL); name != "" {
		return name, nil
	}

	return companyFromTitle(doc), nil
}

func companyFromJSONLD(doc *goquery.Document, rawURL string) string {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data struct {
			Name               string `json:"name"`
			HiringOrganization struct {
				Name string `json:"name"`
			} `json:"hiringOrganization"`
		}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if data.HiringOrganization.Name != "" {
			found = data.HiringOrganization.Name
			return false
		}
		if data.Name != "" && strings.Contains(strings.ToLower(rawURL), "job") {
			found = data.Name
			return false
		}
		return true
	})
	return found
}

func companyFromTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	title = titleBoardSuffix.ReplaceAllString(title, "")
	title = titlePipeSuffix.ReplaceAllString(title, "")

	// "Software Engineer at Barclays" style titles.
	if idx := strings.LastIndex(strings.ToLower(title), " at "); idx >= 0 {
		return strings.TrimSpace(title[idx+len(" at "):])
	}
	return strings.TrimSpace(title)
}
