package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aiktc/portal/pkg/models"
)

func (r *SQLiteRepo) CreateIdentity(ctx context.Context, ident *models.Identity) error {
	if ident == nil {
		return fmt.Errorf("identity is nil")
	}

	if ident.Created == 0 {
		ident.Created = now()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO identities (id, email, password_hash, created) VALUES (?, ?, ?, ?)`,
		ident.ID, ident.Email, ident.PasswordHash, ident.Created)
	return mapConflict(err)
}

func (r *SQLiteRepo) GetIdentity(ctx context.Context, id string) (*models.Identity, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created FROM identities WHERE id = ?`, id)
	return scanIdentity(row)
}

func (r *SQLiteRepo) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created FROM identities WHERE email = ?`, email)
	return scanIdentity(row)
}

func scanIdentity(row *sql.Row) (*models.Identity, error) {
	var ident models.Identity
	if err := row.Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &ident, nil
}
