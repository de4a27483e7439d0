package models

import "github.com/jengzang/smartcity-backend-go/internal/stats"

// StatsSummary represents the overall complaint counters
type StatsSummary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
	ByPriority map[string]int `json:"by_priority"`

	PriorityScore stats.Distribution `json:"priority_score"` // Relevant complaints only
}

// TrendPoint is one day in a trend series
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// StatsTrends represents complaint counts per day
type StatsTrends struct {
	Days   int          `json:"days"`
	Series []TrendPoint `json:"series"`
}
