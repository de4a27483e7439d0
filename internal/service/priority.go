package service

import (
	"math"
	"strings"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/models"
)

// Priority weights
const (
	weightUrgency       = 0.35
	weightConfirmations = 0.25
	weightWaiting       = 0.20
	weightObject        = 0.20

	thresholdHigh   = 0.75
	thresholdMedium = 0.45
)

var urgencyWeight = map[string]float64{
	"low":    0.2,
	"medium": 0.6,
	"high":   1.0,
}

var objectWeight = map[string]float64{
	"hospital":  1.0,
	"school":    0.9,
	"main_road": 0.8,
	"road":      0.7,
	"yard":      0.5,
	"other":     0.4,
	"unknown":   0.4,
}

var objectKeywords = []struct {
	object string
	keys   []string
}{
	{"hospital", []string{"больниц", "поликлиник", "hospital", "аурухана"}},
	{"school", []string{"школ", "детсад", "детский сад", "school", "мектеп"}},
	{"main_road", []string{"проспект", "трасс", "магистрал", "avenue", "даңғыл"}},
	{"road", []string{"дорог", "улиц", "перекрест", "road", "street", "жол", "көше"}},
	{"yard", []string{"двор", "подъезд", "yard", "аула"}},
}

// PriorityInput collects the signals that drive the score
type PriorityInput struct {
	Urgency         string
	Confirmations   int
	DuplicatesCount int
	CreatedAt       time.Time
	ObjectType      string
	Relevant        bool
}

// PriorityResult is a rounded score with its level
type PriorityResult struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

// ObjectType guesses what kind of place the complaint is about
func ObjectType(text string) string {
	t := strings.ToLower(text)
	for _, o := range objectKeywords {
		for _, k := range o.keys {
			if strings.Contains(t, k) {
				return o.object
			}
		}
	}
	return "unknown"
}

// urgencyLevel maps classifier labels like "high urgency (...)" to low/medium/high
func urgencyLevel(urgency string) string {
	u := strings.ToLower(strings.TrimSpace(urgency))
	for _, lvl := range []string{"high", "medium", "low"} {
		if strings.HasPrefix(u, lvl) {
			return lvl
		}
	}
	return "medium"
}

// ComputePriority scores a complaint in [0,1]
func ComputePriority(in PriorityInput, now time.Time) PriorityResult {
	if !in.Relevant {
		return PriorityResult{Score: 0, Level: models.PriorityLow}
	}

	urg := urgencyWeight[urgencyLevel(in.Urgency)]

	obj, ok := objectWeight[strings.ToLower(in.ObjectType)]
	if !ok {
		obj = objectWeight["unknown"]
	}

	confTotal := max(1, in.Confirmations) + max(0, in.DuplicatesCount)
	confNorm := clamp01(float64(confTotal) / 10.0)

	waitNorm := 0.0
	if !in.CreatedAt.IsZero() {
		days := math.Max(0, now.Sub(in.CreatedAt).Hours()/24)
		waitNorm = clamp01(days / 7.0)
	}

	score := weightUrgency*urg + weightConfirmations*confNorm + weightWaiting*waitNorm + weightObject*obj

	level := models.PriorityLow
	switch {
	case score >= thresholdHigh:
		level = models.PriorityHigh
	case score >= thresholdMedium:
		level = models.PriorityMedium
	}

	return PriorityResult{Score: math.Round(score*1000) / 1000, Level: level}
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
