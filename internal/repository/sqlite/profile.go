package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
)

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	ts := now()
	if p.Created == 0 {
		p.Created = ts
	}
	p.Updated = ts
	_, err := r.conn.Exec(ctx, `INSERT INTO profiles (id, full_name, role, department, student_id, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FullName, p.Role, p.Department, nullStr(p.StudentID), p.Created, p.Updated)
	return mapConflict(err)
}

func (r *SQLiteRepo) UpsertProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	ts := now()
	if p.Created == 0 {
		p.Created = ts
	}
	p.Updated = ts
	// role and department are fixed at creation, so the conflict branch only
	// refreshes display fields
	_, err := r.conn.Exec(ctx, `INSERT INTO profiles (id, full_name, role, department, student_id, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET full_name = excluded.full_name, student_id = excluded.student_id, updated = excluded.updated`,
		p.ID, p.FullName, p.Role, p.Department, nullStr(p.StudentID), p.Created, p.Updated)
	return err
}

func (r *SQLiteRepo) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, full_name, role, department, student_id, created, updated FROM profiles WHERE id = ?`, id)
	var p models.Profile
	var sid sql.NullString
	if err := row.Scan(&p.ID, &p.FullName, &p.Role, &p.Department, &sid, &p.Created, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if sid.Valid {
		p.StudentID = sid.String
	}

	return &p, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
