package classify

import (
	"context"
	"strings"
)

type keywordRule struct {
	keys  []string
	value string
}

// Filename rules, checked in order
var imageRules = []keywordRule{
	{[]string{"light", "lamp", "фонар", "свет"}, LabelLighting},
	{[]string{"road", "hole", "яма", "тротуар"}, LabelRoad},
	{[]string{"play", "swing", "горк", "качел", "площадк"}, LabelPlayground},
	{[]string{"dump", "свалк"}, LabelTrash},
	{[]string{"bin", "trash", "мусор", "контейнер"}, LabelContainer},
}

// UI category hints
var hintRules = []keywordRule{
	{[]string{"контейнер"}, LabelContainer},
	{[]string{"свалк", "мусор"}, LabelTrash},
	{[]string{"площадк"}, LabelPlayground},
	{[]string{"освещ"}, LabelLighting},
	{[]string{"ямы", "тротуар"}, LabelRoad},
}

var textRules = []keywordRule{
	{[]string{"свалк", "dump"}, CategoryDump},
	{[]string{"контейнер", "мусор", "trash", "garbage", "қоқыс"}, CategoryTrash},
	{[]string{"двор", "обочин", "litter"}, CategoryLitter},
	{[]string{"площадк", "качел", "горк", "playground", "ойын алаң"}, CategoryPlayground},
	{[]string{"фонар", "освещ", "темно", "light", "lamp", "жарық"}, CategoryLighting},
	{[]string{"яма", "дорог", "тротуар", "асфальт", "road", "pothole", "жол"}, CategoryRoad},
}

var urgentKeys = []string{"опасн", "срочно", "авари", "дети", "danger", "urgent", "қауіпті"}

// RuleClassifier is a deterministic keyword classifier used when no inference service is configured
type RuleClassifier struct{}

// NewRuleClassifier creates a keyword classifier
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// ClassifyImage guesses a label from the file name, then from the citizen's category
func (RuleClassifier) ClassifyImage(_ context.Context, img ImageInput) (CVResult, error) {
	label, score := LabelOther, 0.4

	if l, ok := match(strings.ToLower(img.Filename), imageRules); ok {
		label, score = l, 0.6
	} else if l, ok := match(strings.ToLower(img.CategoryHint), hintRules); ok {
		label, score = l, 0.5
	}

	return CVResult{Label: label, Score: score, Relevant: IsRelevant(label, score)}, nil
}

// AnalyzeText assigns a category and urgency by keywords
func (RuleClassifier) AnalyzeText(_ context.Context, text, _ string) (NLPResult, error) {
	txt := strings.ToLower(strings.TrimSpace(text))
	if txt == "" {
		return NLPResult{Category: CategoryOther, Urgency: UrgencyLow}, nil
	}

	res := NLPResult{Category: CategoryOther, Confidence: 0.3, Urgency: UrgencyMedium, UrgencyConfidence: 0.5}
	if c, ok := match(txt, textRules); ok {
		res.Category = c
		res.Confidence = 0.7
	}
	for _, k := range urgentKeys {
		if strings.Contains(txt, k) {
			res.Urgency = UrgencyHigh
			res.UrgencyConfidence = 0.7
			break
		}
	}
	return res, nil
}

func match(s string, rules []keywordRule) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, r := range rules {
		for _, k := range r.keys {
			if strings.Contains(s, k) {
				return r.value, true
			}
		}
	}
	return "", false
}
