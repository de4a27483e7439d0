// Package grid buckets geolocated records into fixed-size lat/lng cells for
// heatmap and marker rendering.
package grid

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jengzang/smartcity-backend-go/internal/models"
)

const (
	// DefaultSize is the grid size in degrees (~1km at Shymkent's latitude)
	DefaultSize = 0.01

	// MaxItems bounds the sample kept per cell for popups
	MaxItems = 6

	// HotspotLimit is the number of cells returned by Hotspots
	HotspotLimit = 6
)

// Record is anything that carries an optional location and a status
type Record interface {
	Coordinates() (lat, lng any)
	StatusValue() string
}

// Cell is one aggregated grid bucket
type Cell struct {
	Key       string   `json:"key"`
	OriginLat float64  `json:"origin_lat"`
	OriginLng float64  `json:"origin_lng"`
	Lat       float64  `json:"lat"` // Center
	Lng       float64  `json:"lng"` // Center
	Count     int      `json:"count"`
	Done      int      `json:"done"`
	Active    int      `json:"active"` // NEW + IN_PROGRESS
	Rejected  int      `json:"rejected"`
	Items     []Record `json:"-"`
}

// Result is the output of Build
type Result struct {
	Cells []*Cell
	Max   int // Never below 1
}

// ParseCoord converts a raw coordinate value into a finite float.
// Numeric kinds, numeric strings and non-nil pointers to them are accepted.
func ParseCoord(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case *float64:
		if x == nil {
			return 0, false
		}
		f = *x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case *string:
		if x == nil {
			return 0, false
		}
		return ParseCoord(*x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeSize returns gridSize, or DefaultSize when it is not a positive finite number
func NormalizeSize(gridSize float64) float64 {
	if gridSize <= 0 || math.IsNaN(gridSize) || math.IsInf(gridSize, 0) {
		return DefaultSize
	}
	return gridSize
}

// Origin returns the quantized cell origin for a coordinate. Negative zero
// is folded into zero so both map to one key.
func Origin(coord, gridSize float64) float64 {
	o := math.Floor(coord/gridSize) * gridSize
	if o == 0 {
		return 0
	}
	return o
}

// Key returns the lookup key for a cell origin
func Key(originLat, originLng float64) string {
	return fmt.Sprintf("%.5f:%.5f", originLat, originLng)
}

// Build aggregates records into grid cells. Records without finite
// coordinates are skipped. Cells are returned in first-seen order.
func Build(records []Record, gridSize float64) Result {
	gridSize = NormalizeSize(gridSize)

	index := make(map[string]*Cell)
	var cells []*Cell

	for _, r := range records {
		rawLat, rawLng := r.Coordinates()
		lat, ok := ParseCoord(rawLat)
		if !ok {
			continue
		}
		lng, ok := ParseCoord(rawLng)
		if !ok {
			continue
		}

		glat := Origin(lat, gridSize)
		glng := Origin(lng, gridSize)
		key := Key(glat, glng)

		cell, exists := index[key]
		if !exists {
			cell = &Cell{
				Key:       key,
				OriginLat: glat,
				OriginLng: glng,
				Lat:       glat + gridSize/2,
				Lng:       glng + gridSize/2,
			}
			index[key] = cell
			cells = append(cells, cell)
		}

		cell.Count++
		switch r.StatusValue() {
		case models.StatusDone:
			cell.Done++
		case models.StatusRejected:
			cell.Rejected++
		default:
			cell.Active++
		}

		if len(cell.Items) < MaxItems {
			cell.Items = append(cell.Items, r)
		}
	}

	maxCount := 1
	for _, c := range cells {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	return Result{Cells: cells, Max: maxCount}
}

// Hotspots returns the highest-count cells, at most HotspotLimit
func Hotspots(records []Record, gridSize float64) []*Cell {
	res := Build(records, gridSize)
	sorted := make([]*Cell, len(res.Cells))
	copy(sorted, res.Cells)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if len(sorted) > HotspotLimit {
		sorted = sorted[:HotspotLimit]
	}
	return sorted
}
