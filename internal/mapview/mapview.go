// Package mapview shapes complaints into map render layers: status markers,
// grid heatmap circles and clean/problem zones.
package mapview

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/demostore"
	"github.com/jengzang/smartcity-backend-go/internal/grid"
	"github.com/jengzang/smartcity-backend-go/internal/models"
	"github.com/jengzang/smartcity-backend-go/internal/spatial"
)

// Render modes
const (
	ModeMarkers = "markers"
	ModeHeatmap = "heatmap"
	ModeZones   = "zones"
)

// Shymkent city center
const (
	CenterLat = 42.315
	CenterLng = 69.59
)

// Colors
const (
	ColorDone       = "#20b35a"
	ColorInProgress = "#f5c542"
	ColorRejected   = "#9aa3b2"
	ColorProblem    = "#ff6b6b"
	ColorHeat       = "#2ecc71"
)

// Item is one plottable complaint
type Item struct {
	ID        string
	Category  string
	Text      string
	Status    string // Backend lifecycle status
	CreatedAt time.Time
	Lat       any
	Lng       any
}

// Coordinates implements grid.Record
func (it Item) Coordinates() (any, any) { return it.Lat, it.Lng }

// StatusValue implements grid.Record
func (it Item) StatusValue() string { return it.Status }

// FromComplaints converts API complaints
func FromComplaints(cs []models.Complaint) []Item {
	items := make([]Item, 0, len(cs))
	for _, c := range cs {
		items = append(items, Item{
			ID:        c.ID,
			Category:  c.Category(),
			Text:      c.Text,
			Status:    c.Status,
			CreatedAt: c.CreatedAt,
			Lat:       c.Lat,
			Lng:       c.Lng,
		})
	}
	return items
}

// FromReports converts local demo reports
func FromReports(rs []demostore.Report) []Item {
	items := make([]Item, 0, len(rs))
	for _, r := range rs {
		items = append(items, Item{
			ID:        r.ID,
			Category:  r.Category,
			Text:      r.Description,
			Status:    r.StatusValue(),
			CreatedAt: r.Created(),
			Lat:       r.Lat,
			Lng:       r.Lng,
		})
	}
	return items
}

// Circle is a rendered circle marker
type Circle struct {
	ID          string  `json:"id,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Radius      int     `json:"radius"`
	Color       string  `json:"color"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
	Weight      int     `json:"weight"`
	Popup       string  `json:"popup"`
	Status      string  `json:"status,omitempty"`
	Zone        string  `json:"zone,omitempty"`
	Count       int     `json:"count,omitempty"`
}

// LegendItem labels one symbol on the map
type LegendItem struct {
	Label string `json:"label"`
	Dot   string `json:"dot"`
}

// Layer is everything needed to draw one map mode
type Layer struct {
	Mode      string          `json:"mode"`
	CenterLat float64         `json:"center_lat"`
	CenterLng float64         `json:"center_lng"`
	Bounds    *spatial.Bounds `json:"bounds,omitempty"`
	Legend    []LegendItem    `json:"legend"`
	Circles   []Circle        `json:"circles"`
	Skipped   int             `json:"skipped"` // Items without usable coordinates
}

// Build renders items for mode. Unknown modes render markers.
func Build(mode string, items []Item, gridSize float64) Layer {
	var circles []Circle
	skipped := 0

	switch mode {
	case ModeHeatmap:
		records := make([]grid.Record, len(items))
		placed := 0
		for i := range items {
			records[i] = items[i]
		}
		res := grid.Build(records, gridSize)
		for _, cell := range res.Cells {
			circles = append(circles, heatCircle(cell, res.Max))
			placed += cell.Count
		}
		skipped = len(items) - placed
	case ModeZones:
		for _, it := range items {
			lat, lng, ok := point(it)
			if !ok {
				skipped++
				continue
			}
			circles = append(circles, zoneCircle(it, lat, lng))
		}
	default:
		mode = ModeMarkers
		for _, it := range items {
			lat, lng, ok := point(it)
			if !ok {
				skipped++
				continue
			}
			circles = append(circles, markerCircle(it, lat, lng))
		}
	}

	bb := spatial.NewBoundsBuilder()
	for _, c := range circles {
		bb.Add(c.Lat, c.Lng)
	}

	layer := Layer{
		Mode:    mode,
		Legend:  Legend(mode),
		Circles: circles,
		Skipped: skipped,
	}
	if layer.Circles == nil {
		layer.Circles = []Circle{}
	}
	layer.CenterLat, layer.CenterLng = bb.Center(CenterLat, CenterLng)
	if b, ok := bb.Bounds(); ok {
		layer.Bounds = &b
	}
	return layer
}

// Legend returns the legend entries for mode
func Legend(mode string) []LegendItem {
	switch mode {
	case ModeHeatmap:
		return []LegendItem{
			{"Низкая активность", "heatLow"},
			{"Средняя активность", "heatMid"},
			{"Высокая активность", "heatHigh"},
		}
	case ModeZones:
		return []LegendItem{
			{"Очищено / решено (DONE)", "zoneDone"},
			{"Проблемная зона (NEW/IN_PROGRESS)", "zoneProblem"},
			{"Отклонено (REJECTED)", "zoneRejected"},
		}
	}
	return []LegendItem{{"Точка обращения", "markerDot"}}
}

// StatusColor returns the marker color for a lifecycle status
func StatusColor(status string) string {
	switch status {
	case models.StatusDone:
		return ColorDone
	case models.StatusInProgress:
		return ColorInProgress
	case models.StatusRejected:
		return ColorRejected
	}
	return ColorProblem
}

// StatusLabel returns the human label for a status
func StatusLabel(status string) string {
	switch status {
	case models.StatusDone:
		return "Очищено / решено"
	case models.StatusInProgress:
		return "В работе"
	case models.StatusNew:
		return "Новое"
	case models.StatusRejected:
		return "Отклонено"
	case "":
		return "-"
	}
	return status
}

// ZoneLabel classifies a point as clean, rejected or problem
func ZoneLabel(status string) string {
	switch status {
	case models.StatusDone:
		return "Очищенная"
	case models.StatusRejected:
		return "Отклонена"
	}
	return "Проблемная"
}

func point(it Item) (float64, float64, bool) {
	lat, ok := grid.ParseCoord(it.Lat)
	if !ok {
		return 0, 0, false
	}
	lng, ok := grid.ParseCoord(it.Lng)
	if !ok {
		return 0, 0, false
	}
	return lat, lng, true
}

func markerCircle(it Item, lat, lng float64) Circle {
	col := StatusColor(it.Status)
	return Circle{
		ID:          it.ID,
		Lat:         lat,
		Lng:         lng,
		Radius:      7,
		Color:       col,
		FillColor:   col,
		FillOpacity: 0.75,
		Weight:      2,
		Status:      it.Status,
		Popup: strings.Join([]string{
			orDash(it.Category, "Категория"),
			it.Text,
			"Status: " + StatusLabel(it.Status),
			formatDate(it.CreatedAt),
		}, "\n"),
	}
}

func zoneCircle(it Item, lat, lng float64) Circle {
	col := StatusColor(it.Status)
	radius, op := 8, 0.55
	if it.Status == models.StatusDone {
		radius, op = 9, 0.65
	}
	zone := ZoneLabel(it.Status)
	return Circle{
		ID:          it.ID,
		Lat:         lat,
		Lng:         lng,
		Radius:      radius,
		Color:       col,
		FillColor:   col,
		FillOpacity: op,
		Weight:      2,
		Status:      it.Status,
		Zone:        zone,
		Popup: strings.Join([]string{
			orDash(it.Category, "Категория"),
			it.Text,
			"Зона: " + zone,
			"Status: " + StatusLabel(it.Status),
			formatDate(it.CreatedAt),
		}, "\n"),
	}
}

func heatCircle(cell *grid.Cell, maxCount int) Circle {
	st := grid.Style(cell.Count, maxCount)

	var b strings.Builder
	b.WriteString("Активность в зоне\n")
	fmt.Fprintf(&b, "Всего обращений: %d\n", cell.Count)
	fmt.Fprintf(&b, "Очищено (DONE): %d • В работе/новые: %d • Отклонено: %d", cell.Done, cell.Active, cell.Rejected)
	if len(cell.Items) > 0 {
		b.WriteString("\nПримеры:")
		for _, r := range cell.Items {
			it, ok := r.(Item)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "\n- %s: %s", orDash(it.Category, "-"), StatusLabel(it.Status))
		}
	}

	return Circle{
		Lat:         cell.Lat,
		Lng:         cell.Lng,
		Radius:      st.Radius,
		Color:       ColorHeat,
		FillColor:   ColorHeat,
		FillOpacity: st.Opacity,
		Weight:      1,
		Count:       cell.Count,
		Popup:       b.String(),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02.01.2006 15:04")
}

func orDash(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Feature is a GeoJSON point feature
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON point; coordinates are [lng, lat]
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureCollection is a GeoJSON document
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	BBox     []float64 `json:"bbox,omitempty"`
}

// GeoJSON converts a layer to a FeatureCollection
func (l Layer) GeoJSON() FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(l.Circles))}
	for _, c := range l.Circles {
		props := map[string]any{
			"mode":         l.Mode,
			"radius":       c.Radius,
			"color":        c.Color,
			"fill_color":   c.FillColor,
			"fill_opacity": c.FillOpacity,
			"weight":       c.Weight,
			"popup":        c.Popup,
		}
		if c.ID != "" {
			props["id"] = c.ID
		}
		if c.Status != "" {
			props["status"] = c.Status
		}
		if c.Zone != "" {
			props["zone"] = c.Zone
		}
		if c.Count > 0 {
			props["count"] = c.Count
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: [2]float64{c.Lng, c.Lat}},
			Properties: props,
		})
	}
	if l.Bounds != nil {
		fc.BBox = []float64{l.Bounds.MinLng, l.Bounds.MinLat, l.Bounds.MaxLng, l.Bounds.MaxLat}
	}
	return fc
}

// MarshalGeoJSON renders the layer as indented GeoJSON
func (l Layer) MarshalGeoJSON() ([]byte, error) {
	return json.MarshalIndent(l.GeoJSON(), "", "  ")
}
