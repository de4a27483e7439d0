// Package classify annotates complaints with image relevance, text category
// and urgency, and routes them to a city department.
package classify

import (
	"context"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/logger"
	"github.com/jengzang/smartcity-backend-go/internal/metrics"
)

// CV labels
const (
	LabelTrash      = "trash and litter on street"
	LabelContainer  = "garbage container / dumpster"
	LabelPlayground = "children playground equipment"
	LabelLighting   = "street lighting / lamp post"
	LabelRoad       = "road / pothole / sidewalk"
	LabelIrrelevant = "irrelevant photo (not city issue)"
	LabelOther      = "other city object"
)

// NLP categories
const (
	CategoryTrash      = "trash issue"
	CategoryDump       = "illegal dump"
	CategoryLitter     = "yard/road litter"
	CategoryPlayground = "broken playground"
	CategoryLighting   = "street lighting problem"
	CategoryRoad       = "road/pavement problem"
	CategoryOther      = "other city issue"
)

// Urgency labels
const (
	UrgencyHigh   = "high urgency (dangerous, needs immediate fix)"
	UrgencyMedium = "medium urgency"
	UrgencyLow    = "low urgency"
)

// RelevanceThreshold is the minimum CV score for a relevant photo
const RelevanceThreshold = 0.35

// ImageInput describes an uploaded photo
type ImageInput struct {
	Path         string
	Filename     string
	CategoryHint string // UI category chosen by the citizen
}

// CVResult is the image classification outcome
type CVResult struct {
	Label    string  `json:"cv_label"`
	Score    float64 `json:"cv_score"`
	Relevant bool    `json:"is_relevant"`
}

// NLPResult is the text classification outcome
type NLPResult struct {
	Category          string  `json:"nlp_category"`
	Confidence        float64 `json:"nlp_confidence"`
	Urgency           string  `json:"nlp_urgency"`
	UrgencyConfidence float64 `json:"urgency_confidence"`
}

// Classifier annotates complaint photos and texts
type Classifier interface {
	ClassifyImage(ctx context.Context, img ImageInput) (CVResult, error)
	AnalyzeText(ctx context.Context, text, lang string) (NLPResult, error)
}

// IsRelevant applies the relevance rule to a label and score
func IsRelevant(label string, score float64) bool {
	return label != LabelIrrelevant && score >= RelevanceThreshold
}

// fallbackClassifier tries primary first and uses fallback on error
type fallbackClassifier struct {
	primary  Classifier
	fallback Classifier
}

// WithFallback returns a classifier that degrades to fallback when primary fails
func WithFallback(primary, fallback Classifier) Classifier {
	return &fallbackClassifier{primary: primary, fallback: fallback}
}

func (f *fallbackClassifier) ClassifyImage(ctx context.Context, img ImageInput) (CVResult, error) {
	start := time.Now()
	res, err := f.primary.ClassifyImage(ctx, img)
	metrics.ClassifierDurationMs.WithLabelValues("cv").Observe(float64(time.Since(start).Milliseconds()))
	if err == nil {
		return res, nil
	}
	metrics.ClassifierFailTotal.WithLabelValues("cv").Inc()
	logger.For("classify").Warn("cv_fallback", "err", err)
	return f.fallback.ClassifyImage(ctx, img)
}

func (f *fallbackClassifier) AnalyzeText(ctx context.Context, text, lang string) (NLPResult, error) {
	start := time.Now()
	res, err := f.primary.AnalyzeText(ctx, text, lang)
	metrics.ClassifierDurationMs.WithLabelValues("nlp").Observe(float64(time.Since(start).Milliseconds()))
	if err == nil {
		return res, nil
	}
	metrics.ClassifierFailTotal.WithLabelValues("nlp").Inc()
	logger.For("classify").Warn("nlp_fallback", "err", err)
	return f.fallback.AnalyzeText(ctx, text, lang)
}
