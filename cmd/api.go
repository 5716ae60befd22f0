package main

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ukvisatools/sponsorcheck/internal/config"
	"github.com/ukvisatools/sponsorcheck/internal/extract"
	"github.com/ukvisatools/sponsorcheck/internal/format"
	"github.com/ukvisatools/sponsorcheck/internal/links"
	"github.com/ukvisatools/sponsorcheck/internal/sponsor"
	"github.com/ukvisatools/sponsorcheck/internal/store"
)

// apiServer serves the lookup API over the shared read-only registry.
type apiServer struct {
	reg              *sponsor.Registry
	db               *store.Store
	defaultThreshold float64
}

func (s *apiServer) routes(serverCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	global := newIPRateLimiter(rate.Limit(float64(serverCfg.RatePerHour) / 3600), serverCfg.RatePerHour)
	searchLimit := newIPRateLimiter(rate.Limit(float64(serverCfg.SearchPerMin) / 60), serverCfg.SearchPerMin)
	urlLimit := newIPRateLimiter(rate.Limit(float64(serverCfg.URLCheckPerMin) / 60), serverCfg.URLCheckPerMin)

	r.Use(global.middleware)

	r.Get("/api", s.handleIndex)
	r.Get("/api/health", s.handleHealth)
	r.With(searchLimit.middleware).Get("/api/search", s.handleSearch)
	r.Get("/api/check", s.handleCheck)
	r.With(urlLimit.middleware).Post("/api/url", s.handleURL)
	r.Get("/api/stats", s.handleStats)

	return r
}

type matchResponse struct {
	Name        string        `json:"name"`
	City        string        `json:"city"`
	County      string        `json:"county"`
	Rating      string        `json:"rating"`
	Route       string        `json:"route"`
	MatchScore  float64       `json:"match_score"`
	IsConfirmed bool          `json:"is_confirmed"`
	Band        string        `json:"band"`
	Links       links.Profile `json:"links"`
}

func toMatchResponse(m sponsor.Match) matchResponse {
	return matchResponse{
		Name:        m.Record.Name,
		City:        m.Record.City,
		County:      m.Record.County,
		Rating:      m.Record.Rating,
		Route:       m.Record.Route,
		MatchScore:  m.Score,
		IsConfirmed: m.Score >= format.ConfirmedThreshold,
		Band:        format.Band(m.Score),
		Links:       links.Generate(m.Record.Name, m.Record.City, m.Record.County),
	}
}

func (s *apiServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "UK Sponsor Lookup API",
		"version": "2.0",
		"endpoints": map[string]string{
			"/api/health":              "Health check",
			"/api/search?company=NAME": "Search sponsors by name",
			"/api/check?company=NAME":  "Quick check if sponsor",
			"/api/url":                 "POST - Extract company from URL and check",
			"/api/stats":               "Register statistics",
		},
	})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"sponsors_loaded": s.reg.Len(),
	})
}

func (s *apiServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	if company == "" {
		writeError(w, http.StatusBadRequest, "company name required")
		return
	}
	threshold := parseFloat(r.URL.Query().Get("threshold"), s.defaultThreshold)
	limit := parseInt(r.URL.Query().Get("limit"), 10)

	// Over-fetch before dedup so branch duplicates don't eat the limit.
	results := format.Deduplicate(s.reg.Search(company, threshold, 50))
	if len(results) > limit {
		results = results[:limit]
	}

	topScore := 0.0
	if len(results) > 0 {
		topScore = results[0].Score
	}
	if err := s.db.RecordSearch(r.Context(), company, len(results), topScore); err != nil {
		zap.L().Warn("record search failed", zap.Error(err))
	}

	out := make([]matchResponse, 0, len(results))
	for _, m := range results {
		out = append(out, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   company,
		"count":   len(out),
		"results": out,
	})
}

func (s *apiServer) handleCheck(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	if company == "" {
		writeError(w, http.StatusBadRequest, "company name required")
		return
	}
	threshold := parseFloat(r.URL.Query().Get("threshold"), format.ConfirmedThreshold)

	rec, ok := s.reg.IsSponsor(company, threshold)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"is_sponsor": false,
			"message":    "Company not found in sponsor registry",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"is_sponsor": true,
		"company":    rec.Name,
		"city":       rec.City,
		"county":     rec.County,
		"rating":     rec.Rating,
		"route":      rec.Route,
		"links":      links.Generate(rec.Name, rec.City, rec.County),
	})
}

func (s *apiServer) handleURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url required in JSON body")
		return
	}

	company, ok := extract.Company(req.URL)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"extracted_company": nil,
			"is_sponsor":        false,
			"message":           "Could not extract company from URL",
		})
		return
	}

	resp := map[string]any{
		"url":               req.URL,
		"extracted_company": company,
	}
	rec, found := s.reg.IsSponsor(company, format.ConfirmedThreshold)
	resp["is_sponsor"] = found
	if found {
		resp["sponsor_details"] = map[string]any{
			"name":   rec.Name,
			"city":   rec.City,
			"county": rec.County,
			"rating": rec.Rating,
			"route":  rec.Route,
			"links":  links.Generate(rec.Name, rec.City, rec.County),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	routes, ratings := registryBreakdown(s.reg)

	topRoutes := make(map[string]int, 10)
	for _, kv := range topCounts(routes, 10) {
		topRoutes[kv.key] = kv.count
	}

	totalSearches, err := s.db.TotalSearches(r.Context())
	if err != nil {
		zap.L().Warn("total searches query failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_sponsors":   s.reg.Len(),
		"unique_companies": s.reg.UniqueNames(),
		"top_routes":       topRoutes,
		"ratings":          ratings,
		"total_searches":   totalSearches,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// ipRateLimiter keeps a token bucket per client IP.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
		if !l.limiterFor(ip).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
