package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude is ~111.195 km on a 6371 km sphere
	d := HaversineDistance(42.0, 69.0, 43.0, 69.0)
	if math.Abs(d-111195) > 10 {
		t.Fatalf("unexpected distance %f", d)
	}
	if HaversineDistance(42.315, 69.59, 42.315, 69.59) != 0 {
		t.Fatal("distance to self should be zero")
	}
}

func TestWithinRadius(t *testing.T) {
	// ~111 m apart
	if !WithinRadius(42.315, 69.59, 42.316, 69.59, 250) {
		t.Fatal("expected points to be within 250m")
	}
	if WithinRadius(42.315, 69.59, 42.325, 69.59, 250) {
		t.Fatal("expected points ~1.1km apart to be outside 250m")
	}
}

func TestBoundsBuilder(t *testing.T) {
	b := NewBoundsBuilder()
	if _, ok := b.Bounds(); ok {
		t.Fatal("empty builder should not report bounds")
	}
	lat, lng := b.Center(42.315, 69.59)
	if lat != 42.315 || lng != 69.59 {
		t.Fatalf("expected fallback center, got %f,%f", lat, lng)
	}

	b.Add(42.30, 69.58)
	b.Add(42.32, 69.60)
	bb, ok := b.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if math.Abs(bb.MinLat-42.30) > 1e-9 || math.Abs(bb.MaxLng-69.60) > 1e-9 {
		t.Fatalf("unexpected bounds %+v", bb)
	}
	lat, lng = b.Center(0, 0)
	if math.Abs(lat-42.31) > 1e-9 || math.Abs(lng-69.59) > 1e-9 {
		t.Fatalf("unexpected center %f,%f", lat, lng)
	}
}
