package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jengzang/smartcity-backend-go/internal/classify"
	"github.com/jengzang/smartcity-backend-go/internal/logger"
	"github.com/jengzang/smartcity-backend-go/internal/metrics"
	"github.com/jengzang/smartcity-backend-go/internal/models"
	"github.com/jengzang/smartcity-backend-go/internal/notify"
	"github.com/jengzang/smartcity-backend-go/internal/repository"
	"github.com/jengzang/smartcity-backend-go/internal/spatial"
)

var (
	// ErrNotFound is returned when the complaint does not exist
	ErrNotFound = repository.ErrNotFound

	// ErrInvalidStatus is returned for a status outside the lifecycle
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidImage is returned when an upload is empty or not an image
	ErrInvalidImage = errors.New("photo must be an image")
)

// Notifier receives complaint lifecycle events
type Notifier interface {
	Notify(ctx context.Context, event string, payload map[string]interface{})
}

// Options tune the create pipeline
type Options struct {
	ImagesDir       string
	DupRadiusMeters float64
	DupScanLimit    int
}

// CreateInput is a citizen submission as received from the form
type CreateInput struct {
	Photo      []byte
	Filename   string
	Text       string
	UICategory string
	Lat        string
	Lng        string
	Lang       string
}

// ComplaintService handles business logic for complaints
type ComplaintService struct {
	repo       *repository.ComplaintRepository
	classifier classify.Classifier
	notifier   Notifier
	opts       Options
	now        func() time.Time
	log        *slog.Logger
}

// NewComplaintService creates a new complaint service
func NewComplaintService(repo *repository.ComplaintRepository, classifier classify.Classifier, notifier Notifier, opts Options) *ComplaintService {
	if opts.DupRadiusMeters <= 0 {
		opts.DupRadiusMeters = 250
	}
	if opts.DupScanLimit <= 0 {
		opts.DupScanLimit = 200
	}
	return &ComplaintService{
		repo:       repo,
		classifier: classifier,
		notifier:   notifier,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
		log:        logger.For("complaints"),
	}
}

// Create runs the intake pipeline: save photo, classify, route, dedupe, score, persist
func (s *ComplaintService) Create(ctx context.Context, in CreateInput) (*models.Complaint, error) {
	id := uuid.NewString()

	imagePath, err := s.saveImage(id, in.Filename, in.Photo)
	if err != nil {
		return nil, err
	}

	lang := strings.TrimSpace(in.Lang)
	if lang == "" {
		lang = "ru"
	}

	c := &models.Complaint{
		ID:         id,
		CreatedAt:  s.now(),
		Lang:       lang,
		Text:       in.Text,
		UICategory: in.UICategory,
		Lat:        parseOptionalFloat(in.Lat),
		Lng:        parseOptionalFloat(in.Lng),
		ImagePath:  imagePath,
	}

	// 分类
	cv, err := s.classifier.ClassifyImage(ctx, classify.ImageInput{Path: imagePath, Filename: in.Filename, CategoryHint: in.UICategory})
	if err != nil {
		return nil, fmt.Errorf("failed to classify image: %w", err)
	}
	nlp, err := s.classifier.AnalyzeText(ctx, in.Text, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze text: %w", err)
	}
	relevant := classify.IsRelevant(cv.Label, cv.Score)

	c.CVLabel, c.CVScore = cv.Label, cv.Score
	c.IsRelevant = "0"
	if relevant {
		c.IsRelevant = "1"
	}
	c.NLPCategory, c.NLPUrgency, c.NLPConfidence = nlp.Category, nlp.Urgency, nlp.Confidence

	routing := classify.Route(cv.Label, nlp.Category, nlp.Urgency, relevant)
	c.Department, c.RoutingExplain = routing.Department, routing.Explain

	c.Status = models.StatusNew
	if !relevant {
		c.Status = models.StatusRejected
	}

	// 去重
	dup, err := s.findDuplicate(ctx, c.Lat, c.Lng)
	if err != nil {
		return nil, err
	}
	c.Confirmations = 1
	if dup.original != nil {
		c.DuplicateOf = &dup.original.ID
		c.DuplicateGroupID = &dup.groupID
		c.DuplicatesCount = dup.count
		c.Confirmations = 0
	}

	p := ComputePriority(PriorityInput{
		Urgency:         c.NLPUrgency,
		Confirmations:   c.Confirmations,
		DuplicatesCount: c.DuplicatesCount,
		CreatedAt:       c.CreatedAt,
		ObjectType:      ObjectType(c.Text),
		Relevant:        relevant,
	}, c.CreatedAt)
	c.PriorityScore, c.PriorityLevel = p.Score, p.Level

	err = s.repo.DB().Transaction(func(tx *sql.Tx) error {
		if err := s.repo.Create(ctx, tx, c); err != nil {
			return err
		}
		if c.DuplicateOf != nil {
			return s.repo.IncrementConfirmations(ctx, tx, *c.DuplicateOf)
		}
		return nil
	})
	if err != nil {
		_ = os.Remove(imagePath)
		return nil, err
	}

	metrics.ComplaintsCreatedTotal.WithLabelValues(c.Status).Inc()
	if c.DuplicateOf != nil {
		metrics.DuplicatesTotal.Inc()
	}
	s.log.Info("complaint_created", "id", c.ID, "status", c.Status, "department", c.Department, "priority", c.PriorityLevel)
	s.notifier.Notify(ctx, notify.EventComplaintCreated, map[string]interface{}{
		"id":         c.ID,
		"status":     c.Status,
		"department": c.Department,
		"priority":   c.PriorityLevel,
	})

	c.RefreshDerived()
	return c, nil
}

// List returns complaints newest first
func (s *ComplaintService) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].RefreshDerived()
	}
	return items, nil
}

// Get returns one complaint
func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.RefreshDerived()
	return c, nil
}

// UpdateStatus moves a complaint to another lifecycle status
func (s *ComplaintService) UpdateStatus(ctx context.Context, id, status string) (*models.Complaint, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	metrics.StatusChangesTotal.WithLabelValues(status).Inc()
	s.notifier.Notify(ctx, notify.EventComplaintUpdated, map[string]interface{}{"id": id, "status": status})
	return s.Get(ctx, id)
}

// AttachAfterPhoto stores the photo taken after the issue was fixed
func (s *ComplaintService) AttachAfterPhoto(ctx context.Context, id string, photo []byte, filename string) (*models.Complaint, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	path, err := s.saveImage(id+"_after", filename, photo)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAfterImage(ctx, id, path); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	s.notifier.Notify(ctx, notify.EventAfterPhotoUploaded, map[string]interface{}{"id": id, "after_image_path": path})
	return s.Get(ctx, id)
}

type duplicateMatch struct {
	original *models.Complaint
	groupID  string
	count    int
}

// findDuplicate scans recent geolocated complaints. The most recent match is the original.
func (s *ComplaintService) findDuplicate(ctx context.Context, lat, lng *float64) (duplicateMatch, error) {
	var m duplicateMatch
	if lat == nil || lng == nil {
		return m, nil
	}

	recent, err := s.repo.ListRecentGeolocated(ctx, s.opts.DupScanLimit)
	if err != nil {
		return m, fmt.Errorf("failed to scan for duplicates: %w", err)
	}

	for i := range recent {
		r := &recent[i]
		if r.Lat == nil || r.Lng == nil {
			continue
		}
		if !spatial.WithinRadius(*lat, *lng, *r.Lat, *r.Lng, s.opts.DupRadiusMeters) {
			continue
		}
		m.count++
		if m.original == nil {
			m.original = r
		}
	}

	if m.original != nil {
		m.groupID = m.original.ID
		if m.original.DuplicateGroupID != nil && *m.original.DuplicateGroupID != "" {
			m.groupID = *m.original.DuplicateGroupID
		}
	}
	return m, nil
}

// saveImage writes an upload under ImagesDir as <name>.<ext>
func (s *ComplaintService) saveImage(name, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: got %s", ErrInvalidImage, mt.String())
	}

	ext := fileExt(filename)
	if ext == "" {
		ext = strings.TrimPrefix(mt.Extension(), ".")
	}
	if ext == "" {
		ext = "jpg"
	}

	if err := os.MkdirAll(s.opts.ImagesDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create images dir: %w", err)
	}
	path := filepath.Join(s.opts.ImagesDir, name+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return path, nil
}

// fileExt returns the lowercase alphanumeric extension of a client file name
func fileExt(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || len(ext) > 5 {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// parseOptionalFloat treats empty or malformed input as a missing value
func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
