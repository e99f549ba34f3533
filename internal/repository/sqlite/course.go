package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
)

func (r *SQLiteRepo) CreateCourse(ctx context.Context, c *models.Course) error {
	if c == nil {
		return fmt.Errorf("course is nil")
	}

	if c.Created == 0 {
		c.Created = now()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO courses (id, name, description, department, faculty_id, created) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.Department, c.FacultyID, c.Created)
	return mapConflict(err)
}

func (r *SQLiteRepo) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, description, department, faculty_id, created FROM courses WHERE id = ?`, id)
	var c models.Course
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Department, &c.FacultyID, &c.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &c, nil
}

func (r *SQLiteRepo) ListCoursesByFaculty(ctx context.Context, facultyID string) ([]models.Course, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, name, description, department, faculty_id, created FROM courses WHERE faculty_id = ? ORDER BY created DESC, id DESC`, facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *SQLiteRepo) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	rows, err := r.conn.Query(ctx, `SELECT c.id, c.name, c.description, c.department, c.faculty_id, c.created
		FROM courses c JOIN enrollments e ON e.course_id = c.id
		WHERE e.student_id = ? ORDER BY c.created DESC, c.id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func scanCourses(rows *sql.Rows) ([]models.Course, error) {
	out := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Department, &c.FacultyID, &c.Created); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}
