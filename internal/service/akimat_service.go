package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/akimat"
	"github.com/jengzang/smartcity-backend-go/internal/logger"
	"github.com/jengzang/smartcity-backend-go/internal/models"
	"github.com/jengzang/smartcity-backend-go/internal/notify"
	"github.com/jengzang/smartcity-backend-go/internal/repository"
)

// PrepareResult is the outcome of POST /admin/akimat/prepare/:id
type PrepareResult struct {
	OK         bool            `json:"ok"`
	Reasons    []string        `json:"reasons"`
	Payload    *akimat.Payload `json:"payload"`
	ExportPath *string         `json:"export_path"`
}

// SendResult is the outcome of POST /admin/akimat/send/:id
type SendResult struct {
	Sent         bool     `json:"sent"`
	Mode         string   `json:"mode"`
	Message      string   `json:"message,omitempty"`
	AkimatMarked bool     `json:"akimat_marked"`
	ExportPath   string   `json:"export_path,omitempty"`
	Reasons      []string `json:"reasons,omitempty"`
}

// AkimatService prepares and (stub-)sends complaint exports
type AkimatService struct {
	repo       *repository.ComplaintRepository
	notifier   Notifier
	exportsDir string
	now        func() time.Time
	log        *slog.Logger
}

// NewAkimatService creates a new akimat service
func NewAkimatService(repo *repository.ComplaintRepository, notifier Notifier, exportsDir string) *AkimatService {
	return &AkimatService{
		repo:       repo,
		notifier:   notifier,
		exportsDir: exportsDir,
		now:        func() time.Time { return time.Now().UTC() },
		log:        logger.For("akimat"),
	}
}

// Prepare validates a complaint and writes its export file
func (s *AkimatService) Prepare(ctx context.Context, id string) (*PrepareResult, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reasons := gateReasons(c); reasons != nil {
		return &PrepareResult{OK: false, Reasons: reasons}, nil
	}

	payload := akimat.BuildPayload(c)
	path, data, err := s.export(ctx, payload)
	if err != nil {
		return nil, err
	}

	body := string(data)
	if err := s.repo.SetAkimatState(ctx, id, models.AkimatPrepared, &body, nil); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notify.EventAkimatPrepared, map[string]interface{}{"id": id, "export_path": path})
	return &PrepareResult{OK: true, Reasons: []string{}, Payload: &payload, ExportPath: &path}, nil
}

// Payload builds the export document without gating or writing it
func (s *AkimatService) Payload(ctx context.Context, id string) (*akimat.Payload, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := akimat.BuildPayload(c)
	return &p, nil
}

// Send marks the complaint as sent and writes the export. No network delivery happens.
func (s *AkimatService) Send(ctx context.Context, id string) (*SendResult, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reasons := gateReasons(c); reasons != nil {
		return &SendResult{Sent: false, Mode: "stub", Reasons: reasons}, nil
	}

	sentAt := s.now()
	payload := akimat.BuildPayload(c)
	path, data, err := s.export(ctx, payload)
	if err != nil {
		return nil, err
	}

	body := string(data)
	if err := s.repo.SetAkimatState(ctx, id, models.AkimatStubSent, &body, &sentAt); err != nil {
		return nil, err
	}

	s.log.Info("akimat_stub_sent", "id", id, "export_path", path)
	s.notifier.Notify(ctx, notify.EventAkimatStubSent, map[string]interface{}{"id": id, "export_path": path})

	res := akimat.StubSend(path)
	return &SendResult{
		Sent:         res.Sent,
		Mode:         res.Mode,
		Message:      res.Message,
		AkimatMarked: res.AkimatMarked,
		ExportPath:   res.ExportPath,
	}, nil
}

// export writes the payload file. A failed write marks the complaint FAILED.
func (s *AkimatService) export(ctx context.Context, p akimat.Payload) (string, []byte, error) {
	path, data, err := akimat.Export(s.exportsDir, p)
	if err == nil {
		return path, data, nil
	}
	s.log.Error("akimat_export_failed", "id", p.ComplaintID, "err", err)
	if serr := s.repo.SetAkimatState(ctx, p.ComplaintID, models.AkimatFailed, nil, nil); serr != nil {
		s.log.Error("akimat_state_failed", "id", p.ComplaintID, "err", serr)
	}
	return "", nil, err
}

func gateReasons(c *models.Complaint) []string {
	err := akimat.Check(c)
	if err == nil {
		return nil
	}
	var ge *akimat.GateError
	if errors.As(err, &ge) {
		return ge.Reasons
	}
	return []string{err.Error()}
}
