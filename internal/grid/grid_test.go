package grid

import (
	"fmt"
	"math"
	"testing"

	"github.com/jengzang/smartcity-backend-go/internal/models"
)

type point struct {
	id       string
	lat, lng any
	status   string
}

func (p point) Coordinates() (any, any) { return p.lat, p.lng }
func (p point) StatusValue() string     { return p.status }

func records(ps ...point) []Record {
	out := make([]Record, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func TestBuildSameCell(t *testing.T) {
	res := Build(records(
		point{id: "a", lat: 42.3101, lng: 69.5801, status: models.StatusNew},
		point{id: "b", lat: 42.3104, lng: 69.5802, status: models.StatusDone},
	), 0.01)

	if len(res.Cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(res.Cells))
	}
	c := res.Cells[0]
	if c.Count != 2 || c.Active != 1 || c.Done != 1 || c.Rejected != 0 {
		t.Fatalf("unexpected counters: %+v", c)
	}
	if res.Max != 2 {
		t.Fatalf("expected max 2, got %d", res.Max)
	}
	if c.Key != "42.31000:69.58000" {
		t.Fatalf("unexpected key %q", c.Key)
	}
	if math.Abs(c.Lat-42.315) > 1e-9 || math.Abs(c.Lng-69.585) > 1e-9 {
		t.Fatalf("unexpected center %f,%f", c.Lat, c.Lng)
	}
}

func TestBuildEmpty(t *testing.T) {
	res := Build(nil, 0.01)
	if len(res.Cells) != 0 {
		t.Fatalf("expected no cells, got %d", len(res.Cells))
	}
	if res.Max != 1 {
		t.Fatalf("expected max 1 for empty input, got %d", res.Max)
	}
}

func TestBuildSkipsInvalidCoordinates(t *testing.T) {
	var nilPtr *float64
	res := Build(records(
		point{id: "abc", lat: "abc", lng: 69.58},
		point{id: "nolng", lat: 42.31, lng: nil},
		point{id: "nilptr", lat: 42.31, lng: nilPtr},
		point{id: "nan", lat: math.NaN(), lng: 69.58},
		point{id: "inf", lat: 42.31, lng: math.Inf(1)},
		point{id: "blank", lat: "  ", lng: 69.58},
	), 0.01)
	if len(res.Cells) != 0 {
		t.Fatalf("expected invalid records to be dropped, got %d cells", len(res.Cells))
	}
}

func TestBuildAcceptsNumericStringsAndPointers(t *testing.T) {
	lat, lng := 42.3101, 69.5801
	res := Build(records(
		point{lat: " 42.3101 ", lng: "69.5801", status: models.StatusRejected},
		point{lat: &lat, lng: &lng, status: models.StatusInProgress},
	), 0.01)
	if len(res.Cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(res.Cells))
	}
	if res.Cells[0].Rejected != 1 || res.Cells[0].Active != 1 {
		t.Fatalf("unexpected counters: %+v", res.Cells[0])
	}
}

func TestBuildCounterInvariantAndItemCap(t *testing.T) {
	statuses := []string{models.StatusNew, models.StatusInProgress, models.StatusDone, models.StatusRejected, "", "UNKNOWN"}
	var ps []point
	for i := 0; i < 40; i++ {
		ps = append(ps, point{
			id:     fmt.Sprintf("p%d", i),
			lat:    42.30 + float64(i%3)*0.01 + 0.001,
			lng:    69.58 + 0.001,
			status: statuses[i%len(statuses)],
		})
	}
	res := Build(records(ps...), 0.01)

	total := 0
	for _, c := range res.Cells {
		if c.Done+c.Active+c.Rejected != c.Count {
			t.Fatalf("counter invariant broken for %s: %+v", c.Key, c)
		}
		if len(c.Items) > MaxItems {
			t.Fatalf("cell %s keeps %d items", c.Key, len(c.Items))
		}
		total += c.Count
	}
	if total != len(ps) {
		t.Fatalf("expected every record in exactly one cell, got %d of %d", total, len(ps))
	}
	if len(res.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(res.Cells))
	}
}

func TestBuildKeepsFirstSeenItems(t *testing.T) {
	var ps []point
	for i := 0; i < 8; i++ {
		ps = append(ps, point{id: fmt.Sprintf("p%d", i), lat: 42.311, lng: 69.581})
	}
	res := Build(records(ps...), 0.01)
	items := res.Cells[0].Items
	if len(items) != MaxItems {
		t.Fatalf("expected %d items, got %d", MaxItems, len(items))
	}
	for i, it := range items {
		if it.(point).id != fmt.Sprintf("p%d", i) {
			t.Fatalf("item %d out of order: %v", i, it)
		}
	}
}

func TestBuildNegativeCoordinatesFloor(t *testing.T) {
	res := Build(records(point{lat: -0.005, lng: -0.015}), 0.01)
	c := res.Cells[0]
	if c.Key != "-0.01000:-0.02000" {
		t.Fatalf("expected floor toward negative infinity, got %q", c.Key)
	}

	res = Build(records(
		point{lat: 0.0, lng: 69.5801},
		point{lat: math.Copysign(0, -1), lng: 69.5801},
	), 0.01)
	if len(res.Cells) != 1 || res.Cells[0].Count != 2 {
		t.Fatalf("zero and negative zero split into %d cells", len(res.Cells))
	}
	if k := res.Cells[0].Key; k != "0.00000:69.58000" {
		t.Errorf("key = %q", k)
	}
}

func TestBuildInvalidGridSizeFallsBack(t *testing.T) {
	res := Build(records(point{lat: 42.3101, lng: 69.5801}), 0)
	if res.Cells[0].Key != "42.31000:69.58000" {
		t.Fatalf("expected default grid size, got key %q", res.Cells[0].Key)
	}
}

func TestHotspots(t *testing.T) {
	var ps []point
	// cell i gets i+1 records
	for i := 0; i < 8; i++ {
		for j := 0; j <= i; j++ {
			ps = append(ps, point{lat: 42.0 + float64(i)*0.01 + 0.001, lng: 69.001})
		}
	}
	top := Hotspots(records(ps...), 0.01)
	if len(top) != HotspotLimit {
		t.Fatalf("expected %d hotspots, got %d", HotspotLimit, len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i-1].Count < top[i].Count {
			t.Fatalf("hotspots not sorted descending: %d before %d", top[i-1].Count, top[i].Count)
		}
	}
	if top[0].Count != 8 {
		t.Fatalf("expected hottest cell with 8 records, got %d", top[0].Count)
	}
}

func TestStyleBounds(t *testing.T) {
	tests := []struct {
		count, max int
		radius     int
		opacity    float64
	}{
		{0, 1, MinRadius, MinOpacity},
		{5, 5, MaxRadius, MaxOpacity},
		{1, 2, 19, 0.525},
		{10, 0, MaxRadius, MaxOpacity},
	}
	for _, tt := range tests {
		s := Style(tt.count, tt.max)
		if s.Radius != tt.radius {
			t.Errorf("Style(%d,%d) radius = %d, want %d", tt.count, tt.max, s.Radius, tt.radius)
		}
		if math.Abs(s.Opacity-tt.opacity) > 1e-9 {
			t.Errorf("Style(%d,%d) opacity = %f, want %f", tt.count, tt.max, s.Opacity, tt.opacity)
		}
		if s.Ratio < 0 || s.Ratio > 1 {
			t.Errorf("Style(%d,%d) ratio out of range: %f", tt.count, tt.max, s.Ratio)
		}
	}
}
