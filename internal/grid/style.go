package grid

import "math"

// Rendering bounds for heatmap circles
const (
	MinRadius  = 8
	MaxRadius  = 30
	MinOpacity = 0.25
	MaxOpacity = 0.8
)

// CircleStyle is the visual weight of a heatmap cell
type CircleStyle struct {
	Ratio   float64 `json:"ratio"`
	Radius  int     `json:"radius"`
	Opacity float64 `json:"opacity"`
}

// Intensity returns count/max clamped to [0,1]
func Intensity(count, maxCount int) float64 {
	if maxCount < 1 {
		maxCount = 1
	}
	return clamp(float64(count)/float64(maxCount), 0, 1)
}

// Style interpolates radius and opacity from a cell's share of the max count
func Style(count, maxCount int) CircleStyle {
	ratio := Intensity(count, maxCount)
	r := clamp(math.Round(MinRadius+ratio*(MaxRadius-MinRadius)), MinRadius, MaxRadius)
	op := clamp(MinOpacity+ratio*(MaxOpacity-MinOpacity), MinOpacity, MaxOpacity)
	return CircleStyle{Ratio: ratio, Radius: int(r), Opacity: op}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
