package sqlite

import (
	"context"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
)

func (r *SQLiteRepo) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a == nil {
		return fmt.Errorf("announcement is nil")
	}

	if a.Created == 0 {
		a.Created = now()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO announcements (id, course_id, title, content, posted_by, created) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.CourseID, a.Title, a.Content, a.PostedBy, a.Created)
	return mapConflict(err)
}

func (r *SQLiteRepo) ListAnnouncementsByCourses(ctx context.Context, courseIDs []string, limit int) ([]models.Announcement, error) {
	if len(courseIDs) == 0 {
		return []models.Announcement{}, nil
	}
	if limit <= 0 {
		limit = -1 // sqlite treats a negative LIMIT as unbounded
	}

	query := `SELECT id, course_id, title, content, posted_by, created FROM announcements
		WHERE course_id IN (` + placeholders(len(courseIDs)) + `)
		ORDER BY created DESC, id DESC LIMIT ?`
	args := append(toAnySlice(courseIDs), limit)
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Announcement{}
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Title, &a.Content, &a.PostedBy, &a.Created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
