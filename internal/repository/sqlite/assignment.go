package sqlite

import (
	"context"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
)

func (r *SQLiteRepo) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	if a == nil {
		return fmt.Errorf("assignment is nil")
	}

	if a.Created == 0 {
		a.Created = now()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO assignments (id, course_id, title, description, due_date, created) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.CourseID, a.Title, a.Description, a.DueDate, a.Created)
	return mapConflict(err)
}

func (r *SQLiteRepo) ListAssignmentsByCourses(ctx context.Context, courseIDs []string) ([]models.Assignment, error) {
	if len(courseIDs) == 0 {
		return []models.Assignment{}, nil
	}

	query := `SELECT id, course_id, title, description, due_date, created FROM assignments
		WHERE course_id IN (` + placeholders(len(courseIDs)) + `)
		ORDER BY due_date ASC, id ASC`
	rows, err := r.conn.Query(ctx, query, toAnySlice(courseIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Title, &a.Description, &a.DueDate, &a.Created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
