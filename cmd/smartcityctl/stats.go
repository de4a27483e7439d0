package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jengzang/smartcity-backend-go/internal/models"
)

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Complaint statistics",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print raw JSON")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Totals by status, category and priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client().StatsSummary(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), s)
			}
			printSummary(cmd, s)
			return nil
		},
	}

	var days int
	trends := &cobra.Command{
		Use:   "trends",
		Short: "Complaints per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client().StatsTrends(cmd.Context(), days)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), t)
			}
			maxCount := 1
			for _, p := range t.Series {
				maxCount = max(maxCount, p.Count)
			}
			for _, p := range t.Series {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %4d %s\n", p.Date, p.Count, bar(p.Count, maxCount, 30))
			}
			return nil
		},
	}
	trends.Flags().IntVar(&days, "days", 7, "number of days")

	var gridSize float64
	heatmap := &cobra.Command{
		Use:   "heatmap",
		Short: "Complaint density per grid cell",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.client().StatsHeatmap(cmd.Context(), gridSize)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), h)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "grid %.4f, %d points, max %d\n", h.GridSize, h.Count, h.MaxValue)
			fmt.Fprintln(tw, "LAT\tLNG\tCOUNT\tDONE\tACTIVE\tREJECTED\tINTENSITY")
			for _, c := range h.Cells {
				fmt.Fprintf(tw, "%.5f\t%.5f\t%d\t%d\t%d\t%d\t%.2f\n", c.Lat, c.Lng, c.Count, c.Done, c.Active, c.Rejected, c.Intensity)
			}
			return tw.Flush()
		},
	}
	heatmap.Flags().Float64Var(&gridSize, "grid-size", 0.01, "cell size in degrees")

	cmd.AddCommand(summary, trends, heatmap)
	return cmd
}

func printSummary(cmd *cobra.Command, s *models.StatsSummary) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Total: %d\n", s.Total)
	printCounts(cmd, "By status", s.ByStatus)
	printCounts(cmd, "By category", s.ByCategory)
	printCounts(cmd, "By priority", s.ByPriority)
	d := s.PriorityScore
	fmt.Fprintf(w, "Priority score: n=%d mean=%.3f median=%.3f p90=%.3f max=%.3f\n", d.Count, d.Mean, d.Median, d.P90, d.Max)
}

func printCounts(cmd *cobra.Command, title string, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", title)
	tw := newTable(cmd.OutOrStdout())
	for _, k := range keys {
		fmt.Fprintf(tw, "  %s\t%d\n", k, m[k])
	}
	_ = tw.Flush()
}

func bar(n, maxN, width int) string {
	if maxN < 1 || n <= 0 {
		return ""
	}
	w := n * width / maxN
	if w == 0 {
		w = 1
	}
	return strings.Repeat("█", w)
}
