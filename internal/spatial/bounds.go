package spatial

import (
	"github.com/golang/geo/s2"
)

// Bounds is a lat/lng bounding box in degrees
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsBuilder accumulates points into a bounding rectangle
type BoundsBuilder struct {
	rect s2.Rect
}

// NewBoundsBuilder creates an empty builder
func NewBoundsBuilder() *BoundsBuilder {
	return &BoundsBuilder{rect: s2.EmptyRect()}
}

// Add extends the rectangle to include the point
func (b *BoundsBuilder) Add(lat, lng float64) {
	b.rect = b.rect.AddPoint(s2.LatLngFromDegrees(lat, lng))
}

// Empty reports whether no point was added
func (b *BoundsBuilder) Empty() bool {
	return b.rect.IsEmpty()
}

// Bounds returns the accumulated box, or false when empty
func (b *BoundsBuilder) Bounds() (Bounds, bool) {
	if b.rect.IsEmpty() {
		return Bounds{}, false
	}
	lo, hi := b.rect.Lo(), b.rect.Hi()
	return Bounds{
		MinLat: lo.Lat.Degrees(),
		MinLng: lo.Lng.Degrees(),
		MaxLat: hi.Lat.Degrees(),
		MaxLng: hi.Lng.Degrees(),
	}, true
}

// Center returns the center of the accumulated box, or the fallback when empty
func (b *BoundsBuilder) Center(fallbackLat, fallbackLng float64) (float64, float64) {
	if b.rect.IsEmpty() {
		return fallbackLat, fallbackLng
	}
	c := b.rect.Center()
	return c.Lat.Degrees(), c.Lng.Degrees()
}
