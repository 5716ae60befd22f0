// Package links builds UK-focused external profile URLs for a sponsor, so
// callers can cross-check a match without another lookup service.
package links

import (
	"net/url"
	"strings"
)

// Profile holds search and profile URLs for one company.
type Profile struct {
	LinkedInSearch    string `json:"linkedin_search"`
	LinkedInJobs      string `json:"linkedin_jobs"`
	IndeedJobs        string `json:"indeed_jobs"`
	IndeedCompany     string `json:"indeed_company"`
	GlassdoorOverview string `json:"glassdoor_overview"`
	GlassdoorJobs     string `json:"glassdoor_jobs"`
	CompaniesHouse    string `json:"companies_house"`
	Google            string `json:"google"`
	GoogleMaps        string `json:"google_maps"`
	Reed              string `json:"reed"`
	Totaljobs         string `json:"totaljobs"`
	CWJobs            string `json:"cwjobs"`
	Source            string `json:"source"`
	LocationUsed      string `json:"location_used"`
}

// Generate builds the external link set from a company name plus optional
// city/county for location-aware queries.
func Generate(companyName, city, county string) Profile {
	var locationParts []string
	if s := strings.TrimSpace(city); s != "" {
		locationParts = append(locationParts, s)
	}
	if s := strings.TrimSpace(county); s != "" {
		locationParts = append(locationParts, s)
	}
	location := strings.Join(locationParts, ", ")

	companyQ := url.QueryEscape(companyName)

	locationQ := "United+Kingdom"
	companyLocationQ := companyQ
	if location != "" {
		locationQ = url.QueryEscape(location)
		companyLocationQ = url.QueryEscape(companyName + " " + location + " UK")
	}

	mapsQ := companyQ
	if location != "" {
		mapsQ = url.QueryEscape(companyName + " " + location)
	}

	used := location
	if used == "" {
		used = "United Kingdom"
	}

	return Profile{
		LinkedInSearch:    "https://www.linkedin.com/search/results/companies/?keywords=" + companyQ + "&location=United%20Kingdom",
		LinkedInJobs:      "https://www.linkedin.com/jobs/search?keywords=" + companyQ + "&location=United%20Kingdom",
		IndeedJobs:        "https://uk.indeed.com/jobs?q=" + companyQ + "&l=" + locationQ,
		IndeedCompany:     "https://uk.indeed.com/cmp/" + companyQ,
		GlassdoorOverview: "https://www.glassdoor.co.uk/Overview/Working-at-" + companyQ + "-EI_IE.htm",
		GlassdoorJobs:     "https://www.glassdoor.co.uk/Search/results.htm?keyword=" + companyQ,
		CompaniesHouse:    "https://find-and-update.company-information.service.gov.uk/search?q=" + companyQ,
		Google:            "https://www.google.com/search?q=" + companyLocationQ,
		GoogleMaps:        "https://www.google.com/maps/search/" + mapsQ,
		Reed:              "https://www.reed.co.uk/jobs/" + companyQ + "-jobs",
		Totaljobs:         "https://www.totaljobs.com/jobs/" + companyQ,
		CWJobs:            "https://www.cwjobs.co.uk/jobs/" + companyQ,
		Source:            "uk_specific",
		LocationUsed:      used,
	}
}
