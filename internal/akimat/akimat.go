// Package akimat prepares complaint exports for the city administration.
// Delivery is stubbed: payloads are written to disk and marked as sent.
package akimat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jengzang/smartcity-backend-go/internal/models"
)

const (
	ServiceName   = "Smart City Shymkent"
	PayloadType   = "city_complaint"
	MinTextLength = 20
	StrongCVScore = 0.75
)

// GateError lists the reasons a complaint cannot be exported
type GateError struct {
	Reasons []string
}

func (e *GateError) Error() string {
	return "complaint not eligible for akimat: " + strings.Join(e.Reasons, "; ")
}

// Check applies the export quality gate
func Check(c *models.Complaint) error {
	var reasons []string

	if !c.Relevant() {
		reasons = append(reasons, "photo is not relevant to a city issue")
	}
	if strings.TrimSpace(c.ImagePath) == "" {
		reasons = append(reasons, "no photo attached")
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Text)) < MinTextLength && c.CVScore < StrongCVScore {
		reasons = append(reasons, fmt.Sprintf("text shorter than %d characters and cv_score below %.2f", MinTextLength, StrongCVScore))
	}
	if c.Lat == nil || c.Lng == nil {
		reasons = append(reasons, "coordinates missing")
	}
	if c.PriorityLevel == models.PriorityLow {
		reasons = append(reasons, "priority is LOW")
	}

	if len(reasons) > 0 {
		return &GateError{Reasons: reasons}
	}
	return nil
}

// Location is the payload location block
type Location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Message is the citizen text
type Message struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

// AI holds the classifier annotations
type AI struct {
	CVLabel       string  `json:"cv_label"`
	CVScore       float64 `json:"cv_score"`
	IsRelevant    bool    `json:"is_relevant"`
	NLPCategory   string  `json:"nlp_category"`
	NLPUrgency    string  `json:"nlp_urgency"`
	NLPConfidence float64 `json:"nlp_confidence"`
}

// Routing is the department decision
type Routing struct {
	Department string `json:"department"`
	Explain    string `json:"explain"`
}

// Priority block
type Priority struct {
	Score         float64 `json:"score"`
	Level         string  `json:"level"`
	Confirmations int     `json:"confirmations"`
	DuplicateOf   *string `json:"duplicate_of"`
}

// Attachment is a file reference
type Attachment struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// Payload is the document sent to the akimat
type Payload struct {
	Service     string       `json:"service"`
	Type        string       `json:"type"`
	ComplaintID string       `json:"complaint_id"`
	CreatedAt   string       `json:"created_at"`
	Status      string       `json:"status"`
	Location    Location     `json:"location"`
	Message     Message      `json:"message"`
	UICategory  string       `json:"ui_category"`
	AI          AI           `json:"ai"`
	Routing     Routing      `json:"routing"`
	Priority    Priority     `json:"priority"`
	Attachments []Attachment `json:"attachments"`
}

// BuildPayload assembles the export document
func BuildPayload(c *models.Complaint) Payload {
	p := Payload{
		Service:     ServiceName,
		Type:        PayloadType,
		ComplaintID: c.ID,
		CreatedAt:   c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Status:      c.Status,
		Location:    Location{Lat: c.Lat, Lng: c.Lng},
		Message:     Message{Lang: c.Lang, Text: c.Text},
		UICategory:  c.UICategory,
		AI: AI{
			CVLabel:       c.CVLabel,
			CVScore:       c.CVScore,
			IsRelevant:    c.Relevant(),
			NLPCategory:   c.NLPCategory,
			NLPUrgency:    c.NLPUrgency,
			NLPConfidence: c.NLPConfidence,
		},
		Routing: Routing{Department: c.Department, Explain: c.RoutingExplain},
		Priority: Priority{
			Score:         c.PriorityScore,
			Level:         c.PriorityLevel,
			Confirmations: c.Confirmations,
			DuplicateOf:   c.DuplicateOf,
		},
		Attachments: []Attachment{},
	}
	if c.ImagePath != "" {
		p.Attachments = append(p.Attachments, Attachment{Type: "image_before", Path: c.ImagePath})
	}
	if c.AfterImagePath != nil && *c.AfterImagePath != "" {
		p.Attachments = append(p.Attachments, Attachment{Type: "image_after", Path: *c.AfterImagePath})
	}
	return p
}

// ExportFileName returns the export file name for a complaint
func ExportFileName(id string) string {
	return fmt.Sprintf("akimat_payload_%s.json", id)
}

// Export writes the payload as indented JSON into dir and returns the file path
func Export(dir string, p Payload) (string, []byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create exports dir: %w", err)
	}
	path := filepath.Join(dir, ExportFileName(p.ComplaintID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", nil, fmt.Errorf("failed to write payload: %w", err)
	}
	return path, data, nil
}

// SendResult is the outcome of a delivery attempt
type SendResult struct {
	Sent         bool   `json:"sent"`
	Mode         string `json:"mode"`
	Message      string `json:"message"`
	AkimatMarked bool   `json:"akimat_marked"`
	ExportPath   string `json:"export_path"`
}

// StubSend simulates delivery of an exported payload
func StubSend(exportPath string) SendResult {
	return SendResult{
		Sent:         false,
		Mode:         "stub",
		Message:      "Интеграция с акиматом не подключена. Payload сохранён для ручной отправки.",
		AkimatMarked: true,
		ExportPath:   exportPath,
	}
}
