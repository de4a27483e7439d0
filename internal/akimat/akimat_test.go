package akimat

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/models"
)

func eligible() *models.Complaint {
	lat, lng := 42.315, 69.59
	return &models.Complaint{
		ID:            "c1",
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Lang:          "ru",
		Text:          "Переполненный контейнер возле школы номер 5",
		UICategory:    "Мусор / контейнеры",
		Lat:           &lat,
		Lng:           &lng,
		ImagePath:     "data/images/c1.jpg",
		Status:        models.StatusNew,
		CVLabel:       "garbage container / dumpster",
		CVScore:       0.6,
		IsRelevant:    "1",
		PriorityScore: 0.62,
		PriorityLevel: models.PriorityMedium,
		Confirmations: 1,
	}
}

func TestCheck(t *testing.T) {
	if err := Check(eligible()); err != nil {
		t.Fatalf("eligible complaint rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *models.Complaint)
		reason string
	}{
		{"irrelevant", func(c *models.Complaint) { c.IsRelevant = "0" }, "not relevant"},
		{"no photo", func(c *models.Complaint) { c.ImagePath = "" }, "no photo"},
		{"short text weak cv", func(c *models.Complaint) { c.Text = "мусор" }, "text shorter"},
		{"no coords", func(c *models.Complaint) { c.Lng = nil }, "coordinates"},
		{"low priority", func(c *models.Complaint) { c.PriorityLevel = models.PriorityLow }, "LOW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := eligible()
			tt.mutate(c)
			err := Check(c)
			var ge *GateError
			if !errors.As(err, &ge) {
				t.Fatalf("expected GateError, got %v", err)
			}
			if len(ge.Reasons) != 1 || !strings.Contains(ge.Reasons[0], tt.reason) {
				t.Errorf("reasons = %v, want one containing %q", ge.Reasons, tt.reason)
			}
		})
	}
}

func TestCheckShortTextStrongCV(t *testing.T) {
	c := eligible()
	c.Text = "мусор"
	c.CVScore = 0.8
	if err := Check(c); err != nil {
		t.Errorf("strong cv score should pass: %v", err)
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	p := BuildPayload(eligible())

	path, data, err := Export(dir, p)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "akimat_payload_c1.json" {
		t.Errorf("path = %s", path)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != string(data) {
		t.Error("returned bytes differ from file")
	}

	var got Payload
	if err := json.Unmarshal(onDisk, &got); err != nil {
		t.Fatal(err)
	}
	if got.Service != ServiceName || got.Type != PayloadType {
		t.Errorf("header = %q / %q", got.Service, got.Type)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Type != "image_before" {
		t.Errorf("attachments = %+v", got.Attachments)
	}
	if !got.AI.IsRelevant {
		t.Error("ai.is_relevant should be true")
	}

	res := StubSend(path)
	if res.Sent || res.Mode != "stub" || !res.AkimatMarked || res.ExportPath != path {
		t.Errorf("stub result = %+v", res)
	}
}
