package sponsor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestRegistry(t *testing.T, rows ...string) *Registry {
	t.Helper()
	content := registerHeader
	for _, r := range rows {
		content += r + "\n"
	}
	reg, err := Load(context.Background(), writeRegisterCSV(t, content))
	require.NoError(t, err)
	return reg
}

func TestSearchExactMatch(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
		"HSBC Bank Plc,London,,A-Rating,Skilled Worker",
	)

	results := reg.Search("Barclays Bank PLC", 1.0, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "Barclays Bank PLC", results[0].Record.Name)
	assert.Equal(t, 1.0, results[0].Score)

	// Exact matching goes through normalization on both sides.
	results = reg.Search("barclays, bank. (plc)", 1.0, 10)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestSearchExactMatchCoversAllBranches(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
		"Barclays Bank PLC,Manchester,,A-Rating,Skilled Worker",
	)

	results := reg.Search("Barclays Bank PLC", 1.0, 10)
	require.Len(t, results, 2)
	for _, m := range results {
		assert.Equal(t, 1.0, m.Score)
	}
}

func TestSearchQuerySubstringOfName(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
	)

	results := reg.Search("Barclays", 0.5, 10)
	require.Len(t, results, 1)
	assert.Equal(t, 0.9, results[0].Score)
}

func TestSearchNameSubstringOfQuery(t *testing.T) {
	reg := loadTestRegistry(t,
		"Acme Widgets,Bristol,,A-Rating,Skilled Worker",
	)

	// Query longer than 5 chars carrying suffix noise around the name.
	results := reg.Search("acme widgets limited", 0.5, 10)
	require.Len(t, results, 1)
	assert.Equal(t, 0.85, results[0].Score)
}

func TestSearchAbbreviationBoost(t *testing.T) {
	reg := loadTestRegistry(t,
		"HSBC Bank Plc,London,,A-Rating,Skilled Worker",
	)

	// Not a substring match in either direction: exercises stage 4.
	results := reg.Search("HSBC Holdings", 0.7, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "HSBC Bank Plc", results[0].Record.Name)
	assert.GreaterOrEqual(t, results[0].Score, 0.75)
}

func TestSearchTokenBoostFloor(t *testing.T) {
	reg := loadTestRegistry(t,
		"Northern Rail Services,York,,A-Rating,Skilled Worker",
	)

	// {northern, rail, consulting} vs {northern, rail, services}: Jaccard
	// is 2/4 = 0.5, but any shared token of length >= 3 triggers the
	// containment boost, so the score lands at 0.75.
	results := reg.Search("northern rail consulting", 0.5, 10)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.75, results[0].Score, 0.001)
}

func TestSearchJaccardBeatsBoost(t *testing.T) {
	reg := loadTestRegistry(t,
		"Alpha Beta Gamma Delta,London,,A-Rating,Skilled Worker",
	)

	// Interleaved so neither side is a substring of the other: pure
	// stage-4 scoring with Jaccard 4/5 = 0.8 above the 0.75 boost.
	results := reg.Search("alpha beta epsilon gamma delta", 0.5, 10)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.8, results[0].Score, 0.001)
}

func TestSearchThresholdMonotonicity(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
		"Barclays Capital Services,London,,A-Rating,Skilled Worker",
		"HSBC Bank Plc,London,,A-Rating,Skilled Worker",
		"Bank of Scotland,Edinburgh,,A-Rating,Skilled Worker",
	)

	query := "barclays bank"
	prev := len(reg.Search(query, 0.0, 100))
	for _, th := range []float64{0.3, 0.5, 0.7, 0.8, 0.9, 1.0} {
		n := len(reg.Search(query, th, 100))
		assert.LessOrEqual(t, n, prev, "raising threshold to %v must not add results", th)
		prev = n
	}
}

func TestSearchSortedAndTruncated(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
		"Barclays Capital Services,London,,A-Rating,Skilled Worker",
		"Barclays Execution Services,London,,A-Rating,Skilled Worker",
	)

	results := reg.Search("barclays", 0.5, 2)
	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearchEmptyQuery(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
	)

	assert.Empty(t, reg.Search("", 0.5, 10))
	assert.Empty(t, reg.Search("  !!! ", 0.5, 10))
}

func TestIsSponsor(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
	)

	rec, ok := reg.IsSponsor("Barclays", 0.8)
	require.True(t, ok)
	assert.Equal(t, "Barclays Bank PLC", rec.Name)
	assert.Equal(t, "London", rec.City)

	// Misspelled query shares no indexable token with the register entry.
	_, ok = reg.IsSponsor("Barkleys Bnk", 0.8)
	assert.False(t, ok)

	// Absence is reported, never an error.
	_, ok = reg.IsSponsor("Completely Unknown Company", 0.8)
	assert.False(t, ok)
}

func TestSearchEndToEndBarclays(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
	)

	results := reg.Search("barclays", 0.5, 5)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Score, 0.9)
	assert.Equal(t, "A-Rating", results[0].Record.Rating)
	assert.Equal(t, "Skilled Worker", results[0].Record.Route)

	rec, ok := reg.IsSponsor("Barclays", 0.8)
	require.True(t, ok)
	assert.Equal(t, "Barclays Bank PLC", rec.Name)
}

func TestSearchConcurrentUse(t *testing.T) {
	reg := loadTestRegistry(t,
		"Barclays Bank PLC,London,,A-Rating,Skilled Worker",
		"HSBC Bank Plc,London,,A-Rating,Skilled Worker",
	)

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				reg.Search("barclays bank", 0.5, 10)
				reg.Search("hsbc", 0.5, 10)
			}
		}()
	}
	for range 8 {
		<-done
	}
}
