package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/database"
	"github.com/jengzang/smartcity-backend-go/internal/models"
)

// ErrNotFound is returned when a complaint id does not exist
var ErrNotFound = errors.New("complaint not found")

// TimeLayout is the fixed-width UTC layout timestamps are stored in, so that
// text ordering matches chronological ordering
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

const complaintColumns = `id, created_at, lang, text, ui_category, lat, lng,
	image_path, after_image_path, status,
	cv_label, cv_score, is_relevant,
	nlp_category, nlp_urgency, nlp_confidence,
	department, routing_explain,
	priority_score, priority_level,
	confirmations, duplicates_count, duplicate_group_id, duplicate_of,
	akimat_status, akimat_payload, akimat_sent_at`

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ComplaintRepository handles database operations for complaints
type ComplaintRepository struct {
	db *database.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *database.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// DB exposes the underlying handle for transactions
func (r *ComplaintRepository) DB() *database.DB {
	return r.db
}

// Create inserts a complaint, optionally inside tx
func (r *ComplaintRepository) Create(ctx context.Context, tx *sql.Tx, c *models.Complaint) error {
	query := `INSERT INTO complaints (` + complaintColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.execer(tx).ExecContext(ctx, r.db.Rebind(query),
		c.ID, formatTime(c.CreatedAt), c.Lang, c.Text, c.UICategory, nullFloat(c.Lat), nullFloat(c.Lng),
		c.ImagePath, nullString(c.AfterImagePath), c.Status,
		c.CVLabel, c.CVScore, c.IsRelevant,
		c.NLPCategory, c.NLPUrgency, c.NLPConfidence,
		c.Department, c.RoutingExplain,
		c.PriorityScore, c.PriorityLevel,
		c.Confirmations, c.DuplicatesCount, nullString(c.DuplicateGroupID), nullString(c.DuplicateOf),
		nullString(c.AkimatStatus), nullString(c.AkimatPayload), nullTime(c.AkimatSentAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert complaint: %w", err)
	}
	return nil
}

// GetByID retrieves a single complaint
func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = ?`

	c, err := scanComplaint(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return c, nil
}

// List retrieves complaints newest first
func (r *ComplaintRepository) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints`

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.UICategory != "" {
		conditions = append(conditions, "ui_category = ?")
		args = append(args, filter.UICategory)
	}
	if filter.Department != "" {
		conditions = append(conditions, "department = ?")
		args = append(args, filter.Department)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return r.query(ctx, query, args...)
}

// ListRecentGeolocated returns the most recent complaints that carry coordinates
func (r *ComplaintRepository) ListRecentGeolocated(ctx context.Context, limit int) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints
		WHERE lat IS NOT NULL AND lng IS NOT NULL
		ORDER BY created_at DESC
		LIMIT ?`
	return r.query(ctx, query, limit)
}

// ListSince returns complaints created at or after since
func (r *ComplaintRepository) ListSince(ctx context.Context, since time.Time) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE created_at >= ? ORDER BY created_at ASC`
	return r.query(ctx, query, formatTime(since))
}

// UpdateStatus sets the lifecycle status
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.updateOne(ctx, nil, "UPDATE complaints SET status = ? WHERE id = ?", status, id)
}

// IncrementConfirmations bumps the confirmations counter of the original complaint
func (r *ComplaintRepository) IncrementConfirmations(ctx context.Context, tx *sql.Tx, id string) error {
	return r.updateOne(ctx, tx, "UPDATE complaints SET confirmations = confirmations + 1 WHERE id = ?", id)
}

// SetAfterImage stores the path of the "after" photo
func (r *ComplaintRepository) SetAfterImage(ctx context.Context, id, path string) error {
	return r.updateOne(ctx, nil, "UPDATE complaints SET after_image_path = ? WHERE id = ?", path, id)
}

// SetAkimatState stores the akimat pipeline state
func (r *ComplaintRepository) SetAkimatState(ctx context.Context, id, status string, payload *string, sentAt *time.Time) error {
	return r.updateOne(ctx, nil,
		"UPDATE complaints SET akimat_status = ?, akimat_payload = COALESCE(?, akimat_payload), akimat_sent_at = COALESCE(?, akimat_sent_at) WHERE id = ?",
		status, nullString(payload), nullTime(sentAt), id)
}

func (r *ComplaintRepository) updateOne(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) error {
	res, err := r.execer(tx).ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update complaint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ComplaintRepository) execer(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ComplaintRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Complaint, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	complaints := []models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate complaints: %w", err)
	}

	return complaints, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanComplaint(s scanner) (*models.Complaint, error) {
	var c models.Complaint
	var createdAt string
	var lat, lng sql.NullFloat64
	var afterImage, dupGroup, dupOf, akimatStatus, akimatPayload, akimatSentAt sql.NullString

	err := s.Scan(
		&c.ID, &createdAt, &c.Lang, &c.Text, &c.UICategory, &lat, &lng,
		&c.ImagePath, &afterImage, &c.Status,
		&c.CVLabel, &c.CVScore, &c.IsRelevant,
		&c.NLPCategory, &c.NLPUrgency, &c.NLPConfidence,
		&c.Department, &c.RoutingExplain,
		&c.PriorityScore, &c.PriorityLevel,
		&c.Confirmations, &c.DuplicatesCount, &dupGroup, &dupOf,
		&akimatStatus, &akimatPayload, &akimatSentAt,
	)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(TimeLayout, createdAt); err == nil {
		c.CreatedAt = t
	}
	if lat.Valid {
		c.Lat = &lat.Float64
	}
	if lng.Valid {
		c.Lng = &lng.Float64
	}
	c.AfterImagePath = stringPtr(afterImage)
	c.DuplicateGroupID = stringPtr(dupGroup)
	c.DuplicateOf = stringPtr(dupOf)
	c.AkimatStatus = stringPtr(akimatStatus)
	c.AkimatPayload = stringPtr(akimatPayload)
	if akimatSentAt.Valid {
		if t, err := time.Parse(TimeLayout, akimatSentAt.String); err == nil {
			c.AkimatSentAt = &t
		}
	}
	c.RefreshDerived()

	return &c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
