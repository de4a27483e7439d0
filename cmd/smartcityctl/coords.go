package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errCoordsPair = errors.New("lat and lng must be given together")

// parseCoords validates manually entered coordinates. Both empty means no
// location.
func parseCoords(latStr, lngStr string) (*float64, *float64, error) {
	latStr, lngStr = strings.TrimSpace(latStr), strings.TrimSpace(lngStr)
	if latStr == "" && lngStr == "" {
		return nil, nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, nil, errCoordsPair
	}

	lat, err := parseCoord("lat", latStr, 90)
	if err != nil {
		return nil, nil, err
	}
	lng, err := parseCoord("lng", lngStr, 180)
	if err != nil {
		return nil, nil, err
	}
	return &lat, &lng, nil
}

func parseCoord(name, s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %q is not a number", name, s)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%s %v out of range [-%v, %v]", name, v, limit, limit)
	}
	return v, nil
}
