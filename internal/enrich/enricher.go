// Package enrich resolves external company profiles through a sqlite
// cache, falling back to Google Custom Search and finally to algorithmic
// search links. Caching exists to keep API spend near zero: the register
// changes monthly, company profiles far less often.
package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ukvisatools/sponsorcheck/internal/links"
	"github.com/ukvisatools/sponsorcheck/internal/store"
	"github.com/ukvisatools/sponsorcheck/pkg/gsearch"
)

// Profile sources, reported so callers can tell cached data from guesses.
const (
	SourceCache       = "cache"
	SourceGoogleAPI   = "google_api"
	SourceAlgorithmic = "algorithmic"
)

// directoryExcludes are removed from official-website searches.
var directoryExcludes = []string{"linkedin.com", "indeed.com", "glassdoor.com", "wikipedia.org"}

// Enricher looks up external profile data for companies.
type Enricher struct {
	cache   *store.Store
	search  gsearch.Client // nil when no API key is configured
	limiter *rate.Limiter
	ttl     time.Duration
}

// New creates an Enricher. search may be nil, in which case enrichment
// always degrades to algorithmic links.
func New(cache *store.Store, search gsearch.Client, ttl time.Duration) *Enricher {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Enricher{
		cache:   cache,
		search:  search,
		limiter: rate.NewLimiter(1, 1), // Custom Search free tier is tight
		ttl:     ttl,
	}
}

// Enrich returns profile data for a company and the source it came from.
// A search failure is not fatal: the caller still gets algorithmic links.
func (e *Enricher) Enrich(ctx context.Context, companyName string) (store.Profile, string, error) {
	cached, err := e.cache.GetProfile(ctx, companyName)
	if err != nil {
		return store.Profile{}, "", eris.Wrap(err, "enrich: cache lookup")
	}
	if cached != nil {
		return *cached, SourceCache, nil
	}

	if e.search != nil {
		profile, err := e.fetchFromGoogle(ctx, companyName)
		if err != nil {
			zap.L().Warn("google search enrichment failed, using algorithmic links",
				zap.String("company", companyName),
				zap.Error(err),
			)
		} else if profile != nil {
			if err := e.cache.PutProfile(ctx, *profile, e.ttl); err != nil {
				return store.Profile{}, "", eris.Wrap(err, "enrich: cache store")
			}
			return *profile, SourceGoogleAPI, nil
		}
	}

	return algorithmicProfile(companyName), SourceAlgorithmic, nil
}

// RefreshStale re-enriches up to limit cache entries past their refresh
// deadline, with at most concurrency in flight.
func (e *Enricher) RefreshStale(ctx context.Context, limit, concurrency int) (int, int, error) {
	stale, err := e.cache.StaleProfiles(ctx, limit)
	if err != nil {
		return 0, 0, eris.Wrap(err, "enrich: list stale")
	}
	if concurrency <= 0 {
		concurrency = 2
	}

	var refreshed int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	results := make(chan struct{}, len(stale))
	for _, name := range stale {
		g.Go(func() error {
			if e.search == nil {
				return nil
			}
			profile, err := e.fetchFromGoogle(gctx, name)
			if err != nil || profile == nil {
				zap.L().Warn("stale profile refresh failed",
					zap.String("company", name),
					zap.Error(err),
				)
				return nil // keep refreshing the rest
			}
			if err := e.cache.PutProfile(gctx, *profile, e.ttl); err != nil {
				return eris.Wrapf(err, "enrich: store refreshed profile %s", name)
			}
			results <- struct{}{}
			return nil
		})
	}

	err = g.Wait()
	close(results)
	for range results {
		refreshed++
	}
	return refreshed, len(stale), err
}

// fetchFromGoogle resolves the LinkedIn company page and official website.
// Returns nil when neither search produced anything.
func (e *Enricher) fetchFromGoogle(ctx context.Context, companyName string) (*store.Profile, error) {
	profile := store.Profile{CompanyName: companyName}
	found := false

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "enrich: rate limiter wait")
	}
	linkedIn, err := e.search.Search(ctx, gsearch.SearchRequest{
		Query: companyName + " LinkedIn company UK",
		Site:  "linkedin.com/company",
	})
	if err != nil {
		return nil, err
	}
	if linkedIn != nil {
		profile.LinkedInURL = linkedIn.Link
		profile.LinkedInTitle = strings.ReplaceAll(linkedIn.Title, " | LinkedIn", "")
		found = true
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "enrich: rate limiter wait")
	}
	website, err := e.search.Search(ctx, gsearch.SearchRequest{
		Query:   companyName + " official website UK",
		Exclude: directoryExcludes,
	})
	if err != nil {
		return nil, err
	}
	if website != nil {
		profile.WebsiteURL = website.Link
		found = true
	}

	if !found {
		return nil, nil
	}
	return &profile, nil
}

// algorithmicProfile builds a profile of search links that work without
// any API access.
func algorithmicProfile(companyName string) store.Profile {
	l := links.Generate(companyName, "", "")
	return store.Profile{
		CompanyName:  companyName,
		LinkedInURL:  l.LinkedInSearch,
		IndeedURL:    l.IndeedJobs,
		GlassdoorURL: l.GlassdoorJobs,
		WebsiteURL:   l.Google,
		CachedAt:     time.Now().UTC(),
	}
}
