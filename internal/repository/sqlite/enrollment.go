package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
)

func (r *SQLiteRepo) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	if e == nil {
		return fmt.Errorf("enrollment is nil")
	}

	if e.Created == 0 {
		e.Created = now()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO enrollments (course_id, student_id, created) VALUES (?, ?, ?)`,
		e.CourseID, e.StudentID, e.Created)
	return mapConflict(err)
}

func (r *SQLiteRepo) EnrollmentExists(ctx context.Context, courseID, studentID string) (bool, error) {
	var count int
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM enrollments WHERE course_id = ? AND student_id = ?`, courseID, studentID)
	if err := row.Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *SQLiteRepo) ListStudentsByCourses(ctx context.Context, courseIDs []string) ([]models.Profile, error) {
	if len(courseIDs) == 0 {
		return []models.Profile{}, nil
	}

	query := `SELECT DISTINCT p.id, p.full_name, p.role, p.department, p.student_id, p.created, p.updated
		FROM profiles p JOIN enrollments e ON e.student_id = p.id
		WHERE e.course_id IN (` + placeholders(len(courseIDs)) + `)
		ORDER BY p.full_name ASC, p.id ASC`
	rows, err := r.conn.Query(ctx, query, toAnySlice(courseIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		var sid sql.NullString
		if err := rows.Scan(&p.ID, &p.FullName, &p.Role, &p.Department, &sid, &p.Created, &p.Updated); err != nil {
			return nil, err
		}
		if sid.Valid {
			p.StudentID = sid.String
		}
		out = append(out, p)
	}

	return out, rows.Err()
}
