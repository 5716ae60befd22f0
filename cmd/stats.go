package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/ukvisatools/sponsorcheck/internal/sponsor"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print register statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := sponsor.Load(cmd.Context(), cfg.Register.Path)
		if err != nil {
			return err
		}

		routes, ratings := registryBreakdown(reg)

		cmd.Printf("Total sponsor records: %d\n", reg.Len())
		cmd.Printf("Unique companies:      %d\n\n", reg.UniqueNames())

		cmd.Println("Top routes:")
		for _, kv := range topCounts(routes, 10) {
			cmd.Printf("  %6d  %s\n", kv.count, kv.key)
		}

		cmd.Println("\nRatings:")
		for _, kv := range topCounts(ratings, len(ratings)) {
			cmd.Printf("  %6d  %s\n", kv.count, kv.key)
		}
		return nil
	},
}

// registryBreakdown tallies records per route and per rating.
func registryBreakdown(reg *sponsor.Registry) (routes, ratings map[string]int) {
	routes = make(map[string]int)
	ratings = make(map[string]int)
	for _, rec := range reg.Records() {
		routes[rec.Route]++
		ratings[rec.Rating]++
	}
	return routes, ratings
}

type keyCount struct {
	key   string
	count int
}

// topCounts returns up to n entries sorted by count descending, then key.
func topCounts(m map[string]int, n int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
