// Package sponsor loads the UK register of licensed sponsors and answers
// fuzzy company-name queries against it.
package sponsor

import (
	"github.com/ukvisatools/sponsorcheck/internal/normalize"
)

// Record is one row of the official register: one licensed organisation.
type Record struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	County string `json:"county"`
	Rating string `json:"rating"`
	Route  string `json:"route"`
}

// Match pairs a register record with a query score in [0,1].
type Match struct {
	Record Record  `json:"record"`
	Score  float64 `json:"score"`
}

// Registry is the in-memory index over the register. It is built once by
// Load and read-only afterwards, so it may be shared across concurrent
// searches without locking.
type Registry struct {
	sponsors []Record

	// names holds the distinct normalized names in first-seen order. The
	// substring stage walks it instead of byName so result ordering does
	// not depend on map iteration.
	names  []string
	byName map[string][]int

	// wordIndex maps a normalized token (len > 2) to the normalized names
	// containing it, insertion-ordered.
	wordIndex map[string][]string
	wordSeen  map[string]map[string]bool
}

func newRegistry() *Registry {
	return &Registry{
		byName:    make(map[string][]int),
		wordIndex: make(map[string][]string),
		wordSeen:  make(map[string]map[string]bool),
	}
}

// add appends a record and indexes it. Only called during Load.
func (r *Registry) add(rec Record) {
	idx := len(r.sponsors)
	r.sponsors = append(r.sponsors, rec)

	norm := normalize.Normalize(rec.Name)
	if _, ok := r.byName[norm]; !ok {
		r.names = append(r.names, norm)
	}
	r.byName[norm] = append(r.byName[norm], idx)

	for _, word := range normalize.Tokens(norm) {
		seen := r.wordSeen[word]
		if seen == nil {
			seen = make(map[string]bool)
			r.wordSeen[word] = seen
		}
		if !seen[norm] {
			seen[norm] = true
			r.wordIndex[word] = append(r.wordIndex[word], norm)
		}
	}
}

// Len returns the number of loaded records.
func (r *Registry) Len() int {
	return len(r.sponsors)
}

// Records returns the loaded records in source-file order. Callers must
// treat the slice as read-only.
func (r *Registry) Records() []Record {
	return r.sponsors
}

// UniqueNames returns the number of distinct normalized company names.
func (r *Registry) UniqueNames() int {
	return len(r.names)
}

// recordsFor returns the records indexed under a normalized name.
func (r *Registry) recordsFor(norm string) []Record {
	indices := r.byName[norm]
	recs := make([]Record, 0, len(indices))
	for _, i := range indices {
		recs = append(recs, r.sponsors[i])
	}
	return recs
}
