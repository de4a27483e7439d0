package models

// HeatmapCell represents one grid bucket in the heatmap response
type HeatmapCell struct {
	Lat       float64 `json:"lat"`       // Cell center latitude
	Lng       float64 `json:"lng"`       // Cell center longitude
	Count     int     `json:"count"`     // Raw value
	Done      int     `json:"done"`      // DONE complaints
	Active    int     `json:"active"`    // NEW + IN_PROGRESS
	Rejected  int     `json:"rejected"`  // REJECTED complaints
	Intensity float64 `json:"intensity"` // Normalized 0-1
}

// HeatmapResponse represents the heatmap API response
type HeatmapResponse struct {
	GridSize float64       `json:"grid_size"`
	Cells    []HeatmapCell `json:"cells"`
	Count    int           `json:"count"`
	MaxValue int           `json:"max_value"`
}
