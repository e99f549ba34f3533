package sqlite

import (
	"strings"
	"time"

	"log/slog"

	"github.com/aiktc/portal/internal/db"
	"github.com/aiktc/portal/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.IdentityRepo = (*SQLiteRepo)(nil)
var _ repository.ProfileRepo = (*SQLiteRepo)(nil)
var _ repository.CourseRepo = (*SQLiteRepo)(nil)
var _ repository.EnrollmentRepo = (*SQLiteRepo)(nil)
var _ repository.AssignmentRepo = (*SQLiteRepo)(nil)
var _ repository.MaterialRepo = (*SQLiteRepo)(nil)
var _ repository.AnnouncementRepo = (*SQLiteRepo)(nil)
var _ repository.AttendanceRepo = (*SQLiteRepo)(nil)
var _ repository.FeedbackRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// mapConflict converts the driver's unique-constraint failure into
// repository.ErrConflict so callers can branch on it without knowing the
// backing engine.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return repository.ErrConflict
	}
	return err
}

// placeholders builds a "?, ?, ..." fragment for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toAnySlice(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
