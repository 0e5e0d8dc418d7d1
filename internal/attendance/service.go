package attendance

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"rollbook/internal/apperror"
	"rollbook/internal/contextutil"
	"rollbook/internal/metrics"
	"rollbook/internal/queue"
)

// Publisher receives change events after successful writes.
type Publisher interface {
	Publish(ctx context.Context, msg queue.Message) error
}

// Service validates and normalises attendance writes before they reach the
// repository, and announces every committed change.
type Service struct {
	repo *Repository
	pub  Publisher
	log  *zap.Logger
	now  func() time.Time
}

// NewService creates a service backed by a repository. pub may be nil.
func NewService(repo *Repository, pub Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, pub: pub, log: logger, now: time.Now}
}

// GetRecord returns the stored record or the unset default. It never writes.
func (s *Service) GetRecord(ctx context.Context, studentID, date string) (Record, error) {
	if err := validateKey(studentID, date); err != nil {
		return Record{}, err
	}
	rec, err := s.repo.Get(ctx, studentID, date)
	if err != nil {
		s.countError(err)
		return Record{}, err
	}
	if rec == nil {
		return defaultRecord(studentID, date), nil
	}
	return *rec, nil
}

// UpsertRecord writes the cell at (studentID, date). Reason and justified are
// discarded unless status is absent.
func (s *Service) UpsertRecord(ctx context.Context, studentID, date string, status Status, reason string, justified bool) error {
	if err := validateKey(studentID, date); err != nil {
		return err
	}
	if !status.Valid() {
		return apperror.Constraint("status", "status must be one of present, absent, late or empty")
	}

	rec := Record{
		StudentID: studentID,
		Date:      date,
		Status:    status,
		Reason:    strings.TrimSpace(reason),
		Justified: justified,
	}.Normalize()

	if err := s.repo.Upsert(ctx, rec); err != nil {
		s.countError(err)
		return err
	}
	metrics.AttendanceUpserts.WithLabelValues(metrics.StatusLabel(string(rec.Status))).Inc()

	s.publish(ctx, rec)
	return nil
}

// GetHistory returns the student's records, most recent date first.
func (s *Service) GetHistory(ctx context.Context, studentID string) ([]Record, error) {
	if studentID == "" {
		return nil, apperror.Constraint("student_id", "student id required")
	}
	records, err := s.repo.History(ctx, studentID)
	if err != nil {
		s.countError(err)
		return nil, err
	}
	return records, nil
}

func (s *Service) publish(ctx context.Context, rec Record) {
	if s.pub == nil {
		return
	}
	change := Change{Record: rec, RequestID: contextutil.RequestID(ctx), At: s.now().UTC()}
	msg, err := queue.NewMessage(queue.TypeAttendanceUpdated, change)
	if err == nil {
		err = s.pub.Publish(ctx, msg)
	}
	if err != nil {
		metrics.QueuePublishFailures.Inc()
		s.log.Warn("publish attendance change failed",
			zap.String("student_id", rec.StudentID),
			zap.String("date", rec.Date),
			zap.Error(err),
		)
	}
}

func (s *Service) countError(err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		metrics.StoreErrors.WithLabelValues(appErr.Code).Inc()
		if appErr.Code == apperror.CodeStorageUnavailable {
			s.log.Error("attendance store unavailable", zap.Error(err))
		}
	}
}

func validateKey(studentID, date string) error {
	if studentID == "" {
		return apperror.Constraint("student_id", "student id required")
	}
	_, err := ParseDate(date)
	return err
}
