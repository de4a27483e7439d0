package models

import (
	"strings"
	"time"
)

// Complaint statuses
const (
	StatusNew        = "NEW"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusRejected   = "REJECTED"
)

// Priority levels
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Akimat pipeline states
const (
	AkimatPrepared = "PREPARED"
	AkimatStubSent = "STUB_SENT"
	AkimatFailed   = "FAILED" // Export could not be written
)

// ValidStatus reports whether s is one of the four lifecycle statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone, StatusRejected:
		return true
	}
	return false
}

// Complaint represents a citizen-submitted city issue with its AI annotations
type Complaint struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Lang       string `json:"lang" db:"lang"`
	Text       string `json:"text" db:"text"`
	UICategory string `json:"ui_category" db:"ui_category"`

	// Location (nullable)
	Lat *float64 `json:"lat" db:"lat"`
	Lng *float64 `json:"lng" db:"lng"`

	ImagePath      string  `json:"image_path" db:"image_path"`
	AfterImagePath *string `json:"after_image_path" db:"after_image_path"`

	Status string `json:"status" db:"status"` // NEW, IN_PROGRESS, DONE, REJECTED

	// CV
	CVLabel    string  `json:"cv_label" db:"cv_label"`
	CVScore    float64 `json:"cv_score" db:"cv_score"`
	IsRelevant string  `json:"is_relevant" db:"is_relevant"` // "1" / "0"

	// NLP
	NLPCategory   string  `json:"nlp_category" db:"nlp_category"`
	NLPUrgency    string  `json:"nlp_urgency" db:"nlp_urgency"`
	NLPConfidence float64 `json:"nlp_confidence" db:"nlp_confidence"`

	// Routing
	Department     string `json:"department" db:"department"`
	RoutingExplain string `json:"routing_explain" db:"routing_explain"`

	// Priority
	PriorityScore float64 `json:"priority_score" db:"priority_score"`
	PriorityLevel string  `json:"priority_level" db:"priority_level"` // LOW, MEDIUM, HIGH

	// Duplicates / confirmations
	Confirmations    int     `json:"confirmations" db:"confirmations"`
	DuplicatesCount  int     `json:"duplicates_count" db:"duplicates_count"`
	DuplicateGroupID *string `json:"duplicate_group_id" db:"duplicate_group_id"`
	DuplicateOf      *string `json:"duplicate_of" db:"duplicate_of"`

	// Akimat pipeline
	SentToAkimat  bool       `json:"sent_to_akimat"`
	AkimatStatus  *string    `json:"akimat_status" db:"akimat_status"`
	AkimatPayload *string    `json:"-" db:"akimat_payload"`
	AkimatSentAt  *time.Time `json:"akimat_sent_at" db:"akimat_sent_at"`
}

// Relevant reports whether the CV stage accepted the photo
func (c *Complaint) Relevant() bool {
	switch strings.TrimSpace(c.IsRelevant) {
	case "1", "true", "True":
		return true
	}
	return false
}

// Coordinates returns the raw location values for grid aggregation
func (c Complaint) Coordinates() (any, any) {
	return c.Lat, c.Lng
}

// StatusValue returns the lifecycle status
func (c Complaint) StatusValue() string {
	return c.Status
}

// Category is the NLP category, else the one picked by the citizen
func (c Complaint) Category() string {
	if c.NLPCategory != "" {
		return c.NLPCategory
	}
	return c.UICategory
}

// RefreshDerived recomputes fields that are not stored
func (c *Complaint) RefreshDerived() {
	c.SentToAkimat = c.AkimatStatus != nil && *c.AkimatStatus == AkimatStubSent
}

// StatusPatch is the body of PATCH /complaints/:id
type StatusPatch struct {
	Status string `json:"status"`
}
