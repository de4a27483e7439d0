package models

// ComplaintFilter represents filter parameters for listing complaints
type ComplaintFilter struct {
	Status     string `form:"status"`      // NEW, IN_PROGRESS, DONE, REJECTED
	UICategory string `form:"ui_category"` // Exact match
	Department string `form:"department"`
	Limit      int    `form:"limit"`
}

// HeatmapFilter represents query parameters for the heatmap endpoint
type HeatmapFilter struct {
	GridSize float64 `form:"grid_size"` // Degrees, ~0.01 ≈ 1km
}

// TrendsFilter represents query parameters for the trends endpoint
type TrendsFilter struct {
	Days int `form:"days"`
}
