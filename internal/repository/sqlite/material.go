package sqlite

import (
	"context"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
)

func (r *SQLiteRepo) CreateMaterial(ctx context.Context, m *models.Material) error {
	if m == nil {
		return fmt.Errorf("material is nil")
	}

	if m.Created == 0 {
		m.Created = now()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO materials (id, course_id, title, file_path, uploaded_by, created) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.CourseID, m.Title, m.FilePath, m.UploadedBy, m.Created)
	return mapConflict(err)
}

func (r *SQLiteRepo) ListMaterialsByCourses(ctx context.Context, courseIDs []string) ([]models.Material, error) {
	if len(courseIDs) == 0 {
		return []models.Material{}, nil
	}

	query := `SELECT id, course_id, title, file_path, uploaded_by, created FROM materials
		WHERE course_id IN (` + placeholders(len(courseIDs)) + `)
		ORDER BY created DESC, id DESC`
	rows, err := r.conn.Query(ctx, query, toAnySlice(courseIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Material{}
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.FilePath, &m.UploadedBy, &m.Created); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
