package sqlite

import (
	"context"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository"
)

func (r *SQLiteRepo) CreateAttendance(ctx context.Context, a *models.Attendance) error {
	if a == nil {
		return fmt.Errorf("attendance is nil")
	}

	if a.Created == 0 {
		a.Created = now()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO attendance (id, course_id, student_id, date, status, marked_by, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CourseID, a.StudentID, a.Date, a.Status, a.MarkedBy, a.Created)
	return mapConflict(err)
}

func (r *SQLiteRepo) UpdateAttendanceStatus(ctx context.Context, courseID, studentID, date string, status models.AttendanceStatus) error {
	res, err := r.conn.Exec(ctx, `UPDATE attendance SET status = ? WHERE course_id = ? AND student_id = ? AND date = ?`,
		status, courseID, studentID, date)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("attendance record not found for %s/%s on %s", courseID, studentID, date)
	}

	return nil
}

func (r *SQLiteRepo) AttendanceExists(ctx context.Context, courseID, studentID, date string) (bool, error) {
	var count int
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM attendance WHERE course_id = ? AND student_id = ? AND date = ?`,
		courseID, studentID, date)
	if err := row.Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *SQLiteRepo) ListAttendanceByCourse(ctx context.Context, courseID string) ([]models.Attendance, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, course_id, student_id, date, status, marked_by, created FROM attendance
		WHERE course_id = ? ORDER BY created DESC, id DESC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.ID, &a.CourseID, &a.StudentID, &a.Date, &a.Status, &a.MarkedBy, &a.Created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) SummarizeAttendanceByCourses(ctx context.Context, courseIDs []string) ([]repository.AttendanceSummary, error) {
	if len(courseIDs) == 0 {
		return []repository.AttendanceSummary{}, nil
	}

	query := `SELECT course_id,
			SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END)
		FROM attendance
		WHERE course_id IN (` + placeholders(len(courseIDs)) + `)
		GROUP BY course_id ORDER BY course_id ASC`
	rows, err := r.conn.Query(ctx, query, toAnySlice(courseIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.AttendanceSummary{}
	for rows.Next() {
		var s repository.AttendanceSummary
		if err := rows.Scan(&s.CourseID, &s.Present, &s.Absent, &s.Late); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
