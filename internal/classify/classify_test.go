package classify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		label string
		score float64
		want  bool
	}{
		{LabelTrash, 0.9, true},
		{LabelTrash, 0.35, true},
		{LabelTrash, 0.34, false},
		{LabelIrrelevant, 0.99, false},
	}
	for _, tt := range tests {
		if got := IsRelevant(tt.label, tt.score); got != tt.want {
			t.Errorf("IsRelevant(%q, %v) = %v, want %v", tt.label, tt.score, got, tt.want)
		}
	}
}

func TestRouteDepartments(t *testing.T) {
	tests := []struct {
		name     string
		cv       string
		nlp      string
		relevant bool
		dept     string
	}{
		{"irrelevant", LabelTrash, CategoryTrash, false, DepartmentRejected},
		{"container label", LabelContainer, CategoryRoad, true, DepartmentSanitation},
		{"lighting label", LabelLighting, CategoryOther, true, DepartmentLighting},
		{"playground label", LabelPlayground, CategoryOther, true, DepartmentImprovement},
		{"road label", LabelRoad, CategoryTrash, true, DepartmentRoads},
		{"nlp dump", LabelOther, CategoryDump, true, DepartmentSanitation},
		{"nlp lighting", LabelOther, CategoryLighting, true, DepartmentLighting},
		{"nlp road", LabelOther, CategoryRoad, true, DepartmentRoads},
		{"nothing matches", LabelOther, CategoryOther, true, DepartmentDispatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Route(tt.cv, tt.nlp, UrgencyMedium, tt.relevant)
			if r.Department != tt.dept {
				t.Errorf("department = %q, want %q", r.Department, tt.dept)
			}
			if r.Explain == "" {
				t.Error("explain is empty")
			}
		})
	}
}

func TestRouteExplainLists(t *testing.T) {
	r := Route(LabelRoad, CategoryRoad, UrgencyHigh, true)
	for _, want := range []string{"CV: " + LabelRoad, "NLP: " + CategoryRoad, "Итоговая тема: road", "Инстанция: " + DepartmentRoads} {
		if !strings.Contains(r.Explain, want) {
			t.Errorf("explain missing %q:\n%s", want, r.Explain)
		}
	}
}

func TestRuleClassifierText(t *testing.T) {
	rc := NewRuleClassifier()
	ctx := context.Background()

	res, _ := rc.AnalyzeText(ctx, "Переполнен мусорный контейнер во дворе", "ru")
	if res.Category != CategoryTrash {
		t.Errorf("category = %q, want %q", res.Category, CategoryTrash)
	}
	if res.Urgency != UrgencyMedium {
		t.Errorf("urgency = %q, want medium", res.Urgency)
	}

	res, _ = rc.AnalyzeText(ctx, "Опасная яма на дороге", "ru")
	if res.Category != CategoryRoad || res.Urgency != UrgencyHigh {
		t.Errorf("got %+v", res)
	}

	res, _ = rc.AnalyzeText(ctx, "   ", "ru")
	if res.Category != CategoryOther || res.Urgency != UrgencyLow {
		t.Errorf("empty text got %+v", res)
	}
}

func TestRuleClassifierImage(t *testing.T) {
	rc := NewRuleClassifier()
	ctx := context.Background()

	res, _ := rc.ClassifyImage(ctx, ImageInput{Filename: "broken_lamp.jpg"})
	if res.Label != LabelLighting || !res.Relevant {
		t.Errorf("filename rule got %+v", res)
	}

	res, _ = rc.ClassifyImage(ctx, ImageInput{Filename: "IMG_001.jpg", CategoryHint: "Ямы / тротуары"})
	if res.Label != LabelRoad {
		t.Errorf("hint rule got %+v", res)
	}

	res, _ = rc.ClassifyImage(ctx, ImageInput{Filename: "IMG_002.jpg"})
	if res.Label != LabelOther || !res.Relevant {
		t.Errorf("default got %+v", res)
	}
}

func TestHTTPClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/cv":
			if _, _, err := r.FormFile("photo"); err != nil {
				http.Error(w, "no photo", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(CVResult{Label: LabelPlayground, Score: 0.8, Relevant: true})
		case "/nlp":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["lang"] != "kz" {
				http.Error(w, "bad lang", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(NLPResult{Category: CategoryPlayground, Confidence: 0.9, Urgency: UrgencyHigh})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(path, []byte("\xff\xd8\xff\xe0fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	hc := NewHTTPClassifier(srv.URL + "/")
	cv, err := hc.ClassifyImage(context.Background(), ImageInput{Path: path})
	if err != nil {
		t.Fatalf("ClassifyImage: %v", err)
	}
	if cv.Label != LabelPlayground || cv.Score != 0.8 {
		t.Errorf("cv = %+v", cv)
	}

	nlp, err := hc.AnalyzeText(context.Background(), "сломаны качели", "kz")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if nlp.Category != CategoryPlayground {
		t.Errorf("nlp = %+v", nlp)
	}
}

type failingClassifier struct{}

func (failingClassifier) ClassifyImage(context.Context, ImageInput) (CVResult, error) {
	return CVResult{}, errors.New("down")
}

func (failingClassifier) AnalyzeText(context.Context, string, string) (NLPResult, error) {
	return NLPResult{}, errors.New("down")
}

func TestWithFallback(t *testing.T) {
	c := WithFallback(failingClassifier{}, NewRuleClassifier())

	cv, err := c.ClassifyImage(context.Background(), ImageInput{Filename: "pothole.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cv.Label != LabelRoad {
		t.Errorf("cv label = %q", cv.Label)
	}

	nlp, err := c.AnalyzeText(context.Background(), "не работает фонарь", "ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nlp.Category != CategoryLighting {
		t.Errorf("nlp category = %q", nlp.Category)
	}
}
