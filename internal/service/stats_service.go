package service

import (
	"context"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/grid"
	"github.com/jengzang/smartcity-backend-go/internal/models"
	"github.com/jengzang/smartcity-backend-go/internal/repository"
	"github.com/jengzang/smartcity-backend-go/internal/stats"
)

const (
	defaultTrendDays = 7
	maxTrendDays     = 366
)

// StatsService handles business logic for statistics
type StatsService struct {
	repo *repository.ComplaintRepository
	now  func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(repo *repository.ComplaintRepository) *StatsService {
	return &StatsService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Summary counts complaints by status, category and priority
func (s *StatsService) Summary(ctx context.Context) (*models.StatsSummary, error) {
	items, err := s.repo.List(ctx, models.ComplaintFilter{})
	if err != nil {
		return nil, err
	}

	sum := &models.StatsSummary{
		Total:      len(items),
		ByStatus:   map[string]int{},
		ByCategory: map[string]int{},
		ByPriority: map[string]int{},
	}

	scores := make([]float64, 0, len(items))
	for _, c := range items {
		sum.ByStatus[orDefault(c.Status, "UNKNOWN")]++
		sum.ByCategory[orDefault(c.Category(), "UNKNOWN")]++
		sum.ByPriority[orDefault(c.PriorityLevel, models.PriorityMedium)]++
		if c.Relevant() {
			scores = append(scores, c.PriorityScore)
		}
	}
	sum.PriorityScore = stats.Summarize(scores)

	return sum, nil
}

// Trends counts complaints per UTC day over the last days days, today included
func (s *StatsService) Trends(ctx context.Context, days int) (*models.StatsTrends, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	items, err := s.repo.ListSince(ctx, start)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]int, days)
	for _, c := range items {
		buckets[c.CreatedAt.UTC().Format("2006-01-02")]++
	}

	series := make([]models.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, models.TrendPoint{Date: d, Count: buckets[d]})
	}

	return &models.StatsTrends{Days: days, Series: series}, nil
}

// Heatmap aggregates geolocated complaints into grid cells
func (s *StatsService) Heatmap(ctx context.Context, gridSize float64) (*models.HeatmapResponse, error) {
	items, err := s.repo.List(ctx, models.ComplaintFilter{})
	if err != nil {
		return nil, err
	}

	records := make([]grid.Record, len(items))
	for i := range items {
		records[i] = items[i]
	}

	gridSize = grid.NormalizeSize(gridSize)
	res := grid.Build(records, gridSize)

	cells := make([]models.HeatmapCell, 0, len(res.Cells))
	for _, c := range res.Cells {
		cells = append(cells, models.HeatmapCell{
			Lat:       c.Lat,
			Lng:       c.Lng,
			Count:     c.Count,
			Done:      c.Done,
			Active:    c.Active,
			Rejected:  c.Rejected,
			Intensity: grid.Intensity(c.Count, res.Max),
		})
	}

	return &models.HeatmapResponse{
		GridSize: gridSize,
		Cells:    cells,
		Count:    len(cells),
		MaxValue: res.Max,
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
