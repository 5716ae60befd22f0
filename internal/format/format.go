// Package format renders scored matches for human and machine consumers.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ukvisatools/sponsorcheck/internal/sponsor"
)

// Confidence bands derived from a match score. Display surfaces always use
// the 0.8 confirmed boundary, independent of the request threshold.
const (
	BandConfirmed = "confirmed"
	BandPossible  = "possible match"
	BandNotFound  = "not found"

	ConfirmedThreshold = 0.8
	PossibleThreshold  = 0.5
)

// Band classifies a score into a confidence band.
func Band(score float64) string {
	switch {
	case score >= ConfirmedThreshold:
		return BandConfirmed
	case score >= PossibleThreshold:
		return BandPossible
	default:
		return BandNotFound
	}
}

// Deduplicate collapses matches to one entry per company name, keeping the
// highest score for each, re-sorted by score descending. Scores are never
// altered.
func Deduplicate(matches []sponsor.Match) []sponsor.Match {
	best := make(map[string]sponsor.Match, len(matches))
	order := make([]string, 0, len(matches))

	for _, m := range matches {
		prev, ok := best[m.Record.Name]
		if !ok {
			order = append(order, m.Record.Name)
			best[m.Record.Name] = m
		} else if m.Score > prev.Score {
			best[m.Record.Name] = m
		}
	}

	out := make([]sponsor.Match, 0, len(order))
	for _, name := range order {
		out = append(out, best[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Result renders one match as a multi-line text block for the CLI.
func Result(m sponsor.Match) string {
	status := "POSSIBLE MATCH"
	if m.Score >= ConfirmedThreshold {
		status = "CONFIRMED"
	}

	location := m.Record.City
	if m.Record.County != "" {
		location += ", " + m.Record.County
	}

	lines := []string{
		fmt.Sprintf("%s (Match: %.0f%%)", status, m.Score*100),
		"   Company: " + m.Record.Name,
		"   Location: " + location,
		"   Rating: " + m.Record.Rating,
		"   Route: " + m.Record.Route,
	}
	return strings.Join(lines, "\n")
}

// Verdict renders the summary banner for the best score in a result set.
func Verdict(bestScore float64) string {
	switch Band(bestScore) {
	case BandConfirmed:
		return "CONFIRMED: This is a registered UK visa sponsor"
	case BandPossible:
		return "POSSIBLE MATCH: Review results above"
	default:
		return "NOT FOUND: Not a registered sponsor"
	}
}
