// Package demostore keeps a small offline dataset of citizen reports and the
// user's display preferences in local JSON files.
package demostore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/smartcity-backend-go/internal/grid"
	"github.com/jengzang/smartcity-backend-go/internal/models"
)

const (
	// ReportsFile is the file name of the reports list
	ReportsFile = "scs_reports_v1.json"

	// PreferencesFile is the file name of the preferences document
	PreferencesFile = "preferences.json"
)

// Demo statuses as shown to citizens
const (
	StatusNew        = "Новая"
	StatusInProgress = "В работе"
	StatusDone       = "Решена"
	StatusRejected   = "Отклонена"
)

// Report is a locally stored citizen report
type Report struct {
	ID           string `json:"id"`
	PhotoDataURL string `json:"photoDataUrl"`
	Category     string `json:"category"`
	AICategory   string `json:"aiCategory"`
	Description  string `json:"description"`
	Lat          any    `json:"lat"` // Number, numeric string or null; kept as stored
	Lng          any    `json:"lng"`
	AddressHint  string `json:"addressHint"`
	Status       string `json:"status"`
	Department   string `json:"department"`
	CreatedAt    string `json:"createdAt"` // RFC 3339
}

// Coordinates returns the raw location values for grid aggregation
func (r Report) Coordinates() (any, any) {
	return r.Lat, r.Lng
}

// Point returns the parsed location, or false when either coordinate is
// missing or not a finite number
func (r Report) Point() (lat, lng float64, ok bool) {
	if lat, ok = grid.ParseCoord(r.Lat); !ok {
		return 0, 0, false
	}
	if lng, ok = grid.ParseCoord(r.Lng); !ok {
		return 0, 0, false
	}
	return lat, lng, true
}

// StatusValue maps the citizen-facing status onto the backend lifecycle
func (r Report) StatusValue() string {
	return Lifecycle(r.Status)
}

// Lifecycle maps a citizen-facing status to NEW, IN_PROGRESS, DONE or
// REJECTED. Other values are returned unchanged.
func Lifecycle(status string) string {
	switch status {
	case StatusNew:
		return models.StatusNew
	case StatusInProgress:
		return models.StatusInProgress
	case StatusDone:
		return models.StatusDone
	case StatusRejected:
		return models.StatusRejected
	}
	return status
}

// Created parses CreatedAt; the zero time is returned when it is malformed
func (r Report) Created() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Store is a file-backed list of reports. Methods are safe for concurrent use
// within one process.
type Store struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New creates a store rooted at dir
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// DefaultDir returns ~/.smartcity
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".smartcity"
	}
	return filepath.Join(home, ".smartcity")
}

// Path returns the reports file path
func (s *Store) Path() string {
	return filepath.Join(s.dir, ReportsFile)
}

// Load returns the stored reports. Missing, unreadable or malformed data yields an empty list.
func (s *Store) Load() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// AddReport prepends r and persists the list. Missing id and timestamp are filled in.
func (s *Store) AddReport(r Report) ([]Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = s.now().UTC().Format(time.RFC3339Nano)
	}
	if r.Status == "" {
		r.Status = StatusNew
	}

	reports := append([]Report{r}, s.load()...)
	if err := s.save(reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// UpdateReportStatus replaces the status of report id. An unknown id changes nothing.
func (s *Store) UpdateReportStatus(id, status string) ([]Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := s.load()
	for i := range reports {
		if reports[i].ID == id {
			reports[i].Status = status
			if err := s.save(reports); err != nil {
				return nil, err
			}
			return reports, nil
		}
	}
	return reports, nil
}

// SeedDemoDataIfEmpty writes three sample reports when the store is empty.
// It reports whether anything was written.
func (s *Store) SeedDemoDataIfEmpty() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.load()) > 0 {
		return false, nil
	}
	if err := s.save(demoReports(s.now())); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) load() []Report {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return []Report{}
	}
	var reports []Report
	if err := json.Unmarshal(data, &reports); err != nil || reports == nil {
		return []Report{}
	}
	return reports
}

func (s *Store) save(reports []Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}
	return writeFileAtomic(s.Path(), data)
}

// writeFileAtomic replaces path so that readers never see a partial file
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func demoReports(now time.Time) []Report {
	daysAgo := func(n int) string {
		return now.Add(-time.Duration(n) * 24 * time.Hour).UTC().Format(time.RFC3339Nano)
	}

	return []Report{
		{
			ID:          uuid.NewString(),
			Category:    "Ямы, повреждённые тротуары",
			AICategory:  "Ямы, повреждённые тротуары",
			Description: "Опасная яма у перехода.",
			Lat:         42.315,
			Lng:         69.586,
			AddressHint: "Рядом со школой",
			Status:      StatusNew,
			Department:  "Управление транспорта / Дорожная служба",
			CreatedAt:   daysAgo(0),
		},
		{
			ID:          uuid.NewString(),
			Category:    "Плохое/отсутствующее уличное освещение",
			AICategory:  "Плохое/отсутствующее уличное освещение",
			Description: "Фонарь не работает, вечером темно.",
			Lat:         42.31,
			Lng:         69.59,
			AddressHint: "Двор 12 дома",
			Status:      StatusInProgress,
			Department:  "Горсвет / Управление энергетики",
			CreatedAt:   daysAgo(2),
		},
		{
			ID:          uuid.NewString(),
			Category:    "Переполненные мусорные контейнеры",
			AICategory:  "Переполненные мусорные контейнеры",
			Description: "Контейнеры переполнены несколько дней.",
			Lat:         42.32,
			Lng:         69.58,
			AddressHint: "Остановка",
			Status:      StatusDone,
			Department:  "ТОО «Таза Өлке» / Управление санитарии",
			CreatedAt:   daysAgo(5),
		},
	}
}
