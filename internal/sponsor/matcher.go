package sponsor

import (
	"sort"
	"strings"

	"github.com/ukvisatools/sponsorcheck/internal/normalize"
)

// Fixed stage scores. The substring constants intentionally ignore the
// caller threshold: a substring hit is strong evidence even when the
// caller asked for a permissive search.
const (
	scoreExact          = 1.0
	scoreQueryInName    = 0.9  // query names a fragment of a longer legal name
	scoreNameInQuery    = 0.85 // query carries extra legal-suffix noise
	boostPrefix         = 0.7
	boostTokenSubstring = 0.75
)

// Search runs the staged lookup: exact match, substring match in both
// directions, then word-index candidates scored by Jaccard similarity with
// prefix/abbreviation boosts. Results are sorted by score descending and
// truncated to maxResults. An empty query after normalization returns nil.
//
// Each call uses only local working state, so concurrent searches over the
// same Registry are safe.
func (r *Registry) Search(query string, threshold float64, maxResults int) []Match {
	queryNorm := normalize.Normalize(query)
	if queryNorm == "" {
		return nil
	}
	queryWords := normalize.Tokens(queryNorm)

	var results []Match
	seen := make(map[string]bool)

	resolve := func(norm string, score float64) {
		for _, rec := range r.recordsFor(norm) {
			results = append(results, Match{Record: rec, Score: score})
		}
		seen[norm] = true
	}

	// Stage 1: exact normalized match.
	if _, ok := r.byName[queryNorm]; ok {
		resolve(queryNorm, scoreExact)
	}

	// Stage 2: substring match in either direction. Linear in the number
	// of distinct names, which is bounded by registry size.
	for _, name := range r.names {
		if seen[name] {
			continue
		}
		if strings.Contains(name, queryNorm) {
			resolve(name, scoreQueryInName)
		} else if len(queryNorm) > 5 && strings.Contains(queryNorm, name) {
			resolve(name, scoreNameInQuery)
		}
	}

	// Stage 3: union word-index postings into a candidate set. This is the
	// pre-filter that keeps stage 4 off the full registry.
	var candidates []string
	inCandidates := make(map[string]bool)
	for _, word := range queryWords {
		for _, name := range r.wordIndex[word] {
			if !inCandidates[name] {
				inCandidates[name] = true
				candidates = append(candidates, name)
			}
		}
	}

	// Stage 4: score candidates.
	querySet := normalize.WordSet(queryNorm)
	for _, name := range candidates {
		if seen[name] {
			continue
		}
		nameSet := normalize.WordSet(name)
		score := jaccard(querySet, nameSet)

		// Boost partial token matches; the highest applicable boost wins.
		for qt := range querySet {
			for nt := range nameSet {
				if strings.HasPrefix(nt, qt) || strings.HasPrefix(qt, nt) {
					score = max(score, boostPrefix)
				}
				// Abbreviations such as "HSBC" inside "hsbcbank".
				if len(qt) >= 3 && strings.Contains(nt, qt) {
					score = max(score, boostTokenSubstring)
				}
			}
		}

		if score >= threshold {
			resolve(name, score)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// IsSponsor reports the best match for a company name when its score meets
// the threshold. Absence is an expected outcome, not an error.
func (r *Registry) IsSponsor(name string, threshold float64) (Record, bool) {
	results := r.Search(name, threshold, 1)
	if len(results) > 0 && results[0].Score >= threshold {
		return results[0].Record, true
	}
	return Record{}, false
}

// jaccard computes intersection-over-union of word sets, 0 when either
// side is empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
