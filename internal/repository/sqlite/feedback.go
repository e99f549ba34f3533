package sqlite

import (
	"context"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
)

func (r *SQLiteRepo) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	if f == nil {
		return fmt.Errorf("feedback is nil")
	}

	if f.Created == 0 {
		f.Created = now()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO feedback (id, course_id, student_id, rating, comment, created) VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.CourseID, f.StudentID, f.Rating, f.Comment, f.Created)
	return mapConflict(err)
}

func (r *SQLiteRepo) ListFeedbackByCourse(ctx context.Context, courseID string) ([]models.Feedback, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, course_id, student_id, rating, comment, created FROM feedback
		WHERE course_id = ? ORDER BY created DESC, id DESC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.CourseID, &f.StudentID, &f.Rating, &f.Comment, &f.Created); err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, rows.Err()
}
