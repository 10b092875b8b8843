package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
	"github.com/yanqian/aerosense/pkg/util"
)

const csvMimeType = "text/csv"

// Service exports annual air-quality reports through a background job.
type Service struct {
	repo    Repository
	storage ObjectStorage
	queue   JobQueue
	source  AnnualSource
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the report domain.
func NewService(repo Repository, storage ObjectStorage, queue JobQueue, source AnnualSource, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		queue:   queue,
		source:  source,
		logger:  logger.With("component", "report.service"),
		now:     util.NowUTC,
	}
}

// Export records a pending report and schedules its generation.
func (s *Service) Export(ctx context.Context, userID int64, req ExportRequest) (Report, error) {
	loc, err := s.source.Resolve(ctx, req.City)
	if err != nil {
		return Report{}, err
	}
	now := s.now()
	rep := Report{
		ID:        uuid.New(),
		UserID:    userID,
		City:      loc.Slug,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodeInternal, "failed to create report", err)
	}
	payload := map[string]any{
		"report_id": rep.ID.String(),
		"user_id":   userID,
	}
	if err := s.queue.Enqueue(ctx, JobExport, payload); err != nil {
		reason := "failed to schedule export"
		_ = s.repo.MarkFailed(ctx, rep.ID, reason)
		return Report{}, apperrors.Wrap(apperrors.CodeInternal, reason, err)
	}
	s.logger.Info("report export enqueued", "report_id", rep.ID, "user_id", userID, "city", rep.City)
	return rep, nil
}

// Get returns a report owned by the user.
func (s *Service) Get(ctx context.Context, userID int64, id uuid.UUID) (Report, error) {
	rep, found, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodeInternal, "failed to load report", err)
	}
	if !found {
		return Report{}, apperrors.Wrap(apperrors.CodeNotFound, "report not found", nil)
	}
	return rep, nil
}

// Download opens a ready report. The caller closes the reader.
func (s *Service) Download(ctx context.Context, userID int64, id uuid.UUID) (Download, io.ReadCloser, error) {
	rep, err := s.Get(ctx, userID, id)
	if err != nil {
		return Download{}, nil, err
	}
	if rep.Status != StatusReady {
		return Download{}, nil, apperrors.Wrap("report_not_ready", fmt.Sprintf("report is %s", rep.Status), nil)
	}
	reader, err := s.storage.Get(ctx, rep.ObjectKey)
	if err != nil {
		return Download{}, nil, apperrors.Wrap("storage_error", "failed to open report", err)
	}
	return Download{
		Filename:    fmt.Sprintf("aerosense-%s-%s.csv", rep.City, rep.CreatedAt.Format("20060102")),
		ContentType: csvMimeType,
		Size:        rep.SizeBytes,
	}, reader, nil
}

// Process builds and stores the CSV for a pending report.
func (s *Service) Process(ctx context.Context, id uuid.UUID, userID int64) error {
	s.logger.Info("report export start", "report_id", id, "user_id", userID)
	rep, found, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to load report", err)
	}
	if !found {
		return apperrors.Wrap(apperrors.CodeNotFound, "report not found", nil)
	}
	if rep.Status == StatusReady {
		return nil
	}

	points, err := s.source.Annual(ctx, rep.City)
	if err != nil {
		return s.fail(ctx, id, "failed to load annual series", err)
	}
	data, err := BuildCSV(points)
	if err != nil {
		return s.fail(ctx, id, "failed to render csv", err)
	}
	obj, err := s.storage.Put(ctx, ObjectKey(userID, id), data, csvMimeType)
	if err != nil {
		return s.fail(ctx, id, "failed to store report", err)
	}
	if err := s.repo.MarkReady(ctx, id, obj.Key, obj.Size); err != nil {
		return apperrors.Wrap("storage_error", "failed to update report", err)
	}
	s.logger.Info("report export done", "report_id", id, "bytes", obj.Size)
	return nil
}

func (s *Service) fail(ctx context.Context, id uuid.UUID, reason string, cause error) error {
	if err := s.repo.MarkFailed(ctx, id, reason); err != nil {
		s.logger.Warn("report failure not recorded", "report_id", id, "error", err)
	}
	s.logger.Error("report export failed", "report_id", id, "reason", reason, "error", cause)
	return apperrors.Wrap("export_error", reason, cause)
}

// HandleJob adapts queue deliveries to Process.
func (s *Service) HandleJob(ctx context.Context, name string, payload map[string]any) {
	if name != JobExport {
		return
	}
	id, err := uuid.Parse(fmt.Sprint(payload["report_id"]))
	if err != nil {
		s.logger.Warn("report job has invalid id", "payload", payload)
		return
	}
	userID, ok := int64Value(payload["user_id"])
	if !ok {
		s.logger.Warn("report job has invalid user", "payload", payload)
		return
	}
	if err := s.Process(ctx, id, userID); err != nil {
		s.logger.Warn("report job failed", "report_id", id, "error", err)
	}
}

// ObjectKey is the storage location of a report file.
func ObjectKey(userID int64, id uuid.UUID) string {
	return fmt.Sprintf("reports/%d/%s.csv", userID, id)
}

// int64Value accepts the numeric shapes a JSON round trip can produce.
func int64Value(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
